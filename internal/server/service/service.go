// Package service содержит бизнес-логику учётных записей.
// Это прослойка между HTTP-обработчиками (api) и хранилищем данных (repository).
package service

//go:generate mockgen -source=service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/config"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
)

// Repositories — набор интерфейсов, которые сервисный слой ожидает от слоя repository.
type Repositories struct {
	Users  UsersRepo
	Tokens TokensRepo
	Health HealthRepo
}

// Services — агрегатор всех сервисов приложения.
type Services struct {
	Auth    *AuthService
	Profile *ProfileService
	Health  HealthRepo
}

// NewServices собирает все сервисы приложения.
// cfg нужен для выбора хэшера паролей и формата токенов.
func NewServices(repos Repositories, cfg *config.Config) (*Services, error) {
	hasher, err := NewHasher(cfg)
	if err != nil {
		return nil, err
	}
	return &Services{
		Auth:    NewAuthService(repos.Users, NewTokenIssuer(repos.Tokens, cfg), hasher),
		Profile: NewProfileService(repos.Users, hasher),
		Health:  repos.Health,
	}, nil
}

// NewHasher создаёт хэшер паролей по секции password конфига.
func NewHasher(cfg *config.Config) (crypto.Hasher, error) {
	return crypto.NewHasher(
		cfg.Password.Hasher,
		crypto.Argon2Params{
			Time:      cfg.Password.Argon2.Time,
			MemoryKiB: cfg.Password.Argon2.MemoryKiB,
			Threads:   cfg.Password.Argon2.Threads,
			KeyLen:    cfg.Password.Argon2.KeyLen,
			SaltLen:   cfg.Password.Argon2.SaltLen,
		},
		cfg.Password.Bcrypt.Cost,
	)
}

// HealthRepo — минимально нужное для health-check.
type HealthRepo interface {
	Ping(ctx context.Context) error
}

// UsersRepo — репозиторий пользователей.
type UsersRepo interface {
	Create(ctx context.Context, email, name, passwordHash string) (models.User, error)
	GetByEmail(ctx context.Context, email string) (models.User, error)
	GetByID(ctx context.Context, id uuid.UUID) (models.User, error)
	Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (models.User, error)
}

// TokensRepo — хранилище хэшей непрозрачных токенов.
type TokensRepo interface {
	Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt *time.Time) (uuid.UUID, error)
	GetByHash(ctx context.Context, tokenHash []byte) (models.Token, error)
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}
