// Серверная модель пользователя
package models

import (
	"time"

	"github.com/google/uuid"
)

type User struct {
	ID           uuid.UUID
	Email        string
	Name         string
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserUpdate — изменения профиля. nil означает «поле не трогаем».
// PasswordHash уже посчитан сервисом.
type UserUpdate struct {
	Email        *string
	Name         *string
	PasswordHash *string
}

// Empty сообщает, что менять нечего.
func (u UserUpdate) Empty() bool {
	return u.Email == nil && u.Name == nil && u.PasswordHash == nil
}
