package crypto

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// HashPassword хеширует пароль на клиенте перед отправкой на сервер (SHA256, hex)
// Сервер получает только хеш и хранит его как opaque credential
func HashPassword(password string) (string, error) {
	if password == "" {
		return "", fmt.Errorf("password cannot be empty")
	}

	hash := sha256.Sum256([]byte(password))

	return hex.EncodeToString(hash[:]), nil
}
