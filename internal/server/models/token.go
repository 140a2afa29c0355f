package models

import (
	"time"

	"github.com/google/uuid"
)

// Token — выданный при входе токен. Сам токен не хранится, только его sha256.
type Token struct {
	ID        uuid.UUID
	UserID    uuid.UUID
	TokenHash []byte
	CreatedAt time.Time
	// ExpiresAt == nil — токен бессрочный.
	ExpiresAt *time.Time
}

// Expired сообщает, истёк ли токен к моменту now.
func (t Token) Expired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}
