package validation

import (
	"fmt"
	"unicode"
	"unicode/utf8"
)

// MaxUsernameLen максимальная длина username в символах
const MaxUsernameLen = 64

// ValidateUsername проверяет, что username задан и пригоден для хранения
// Длина: 1-64 символа, без управляющих символов и пробелов по краям
func ValidateUsername(username string) error {
	if username == "" {
		return fmt.Errorf("username cannot be empty")
	}

	if !utf8.ValidString(username) {
		return fmt.Errorf("username must be valid UTF-8")
	}

	if utf8.RuneCountInString(username) > MaxUsernameLen {
		return fmt.Errorf("username must not exceed %d characters", MaxUsernameLen)
	}

	for _, r := range username {
		if unicode.IsControl(r) {
			return fmt.Errorf("username cannot contain control characters")
		}
	}

	first, _ := utf8.DecodeRuneInString(username)
	last, _ := utf8.DecodeLastRuneInString(username)
	if unicode.IsSpace(first) || unicode.IsSpace(last) {
		return fmt.Errorf("username cannot start or end with whitespace")
	}

	return nil
}

// ValidateCredential проверяет только наличие credential
// Политики сложности пароля нет: значение opaque для сервера
func ValidateCredential(credential string) error {
	if credential == "" {
		return fmt.Errorf("password cannot be empty")
	}
	return nil
}
