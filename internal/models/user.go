package models

import "time"

// User представляет зарегистрированного пользователя (Identity)
type User struct {
	CreatedAt  time.Time `json:"created_at"` // время регистрации
	ID         string    `json:"id"`         // UUID пользователя
	Username   string    `json:"username"`   // уникальный username
	Credential string    `json:"-"`          // opaque секрет; наружу не сериализуется
}
