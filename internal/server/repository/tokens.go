package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
)

// TokensRepository хранит выданные при входе непрозрачные токены.
//
// Хранится только sha256 токена: утечка таблицы не даёт войти.
type TokensRepository struct {
	db      *sql.DB
	timeout time.Duration
}

// NewTokensRepository создает новый TokensRepository.
func NewTokensRepository(db *sql.DB) *TokensRepository {
	return &TokensRepository{db: db}
}

// Create сохраняет хэш токена пользователя.
//
// expiresAt == nil — токен бессрочный.
//
// Возвращает:
//   - id записи
//   - ErrAlreadyExists при совпадении хэша или ErrInternal при других ошибках БД
func (r *TokensRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt *time.Time) (uuid.UUID, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var id uuid.UUID
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO auth_tokens (user_id, token_hash, expires_at)
		 VALUES ($1,$2,$3)
		 RETURNING id`,
		userID, tokenHash, expiresAt,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, mapError("create token", err)
	}
	return id, nil
}

// GetByHash возвращает токен по его хэшу.
//
// Ошибки:
//   - ErrNotFound если токен не найден или ErrInternal при ошибке БД
func (r *TokensRepository) GetByHash(ctx context.Context, tokenHash []byte) (models.Token, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	var (
		t         models.Token
		expiresAt sql.NullTime
	)
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, token_hash, created_at, expires_at
		   FROM auth_tokens
		  WHERE token_hash=$1`,
		tokenHash,
	).Scan(&t.ID, &t.UserID, &t.TokenHash, &t.CreatedAt, &expiresAt)
	if err != nil {
		return models.Token{}, mapError("get token", err)
	}

	if expiresAt.Valid {
		exp := expiresAt.Time
		t.ExpiresAt = &exp
	}
	return t, nil
}

// DeleteExpired удаляет истёкшие токены и возвращает их количество.
func (r *TokensRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	res, err := r.db.ExecContext(ctx,
		`DELETE FROM auth_tokens
		  WHERE expires_at IS NOT NULL
		    AND expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, mapError("delete expired tokens", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, mapError("delete expired tokens", err)
	}
	return n, nil
}
