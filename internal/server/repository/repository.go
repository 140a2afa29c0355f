// Package repository содержит реализации слоя доступа к данным (Repository layer)
// поверх PostgreSQL.
//
// Репозитории инкапсулируют работу с БД и не содержат бизнес-логики.
// Все ошибки приводятся к доменным ошибкам из internal/shared/errors.
package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgconn"

	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

// pgUniqueViolation — код ошибки PostgreSQL при нарушении уникального индекса.
const pgUniqueViolation = "23505"

// Postgres объединяет репозитории, работающие с одним *sql.DB.
type Postgres struct {
	db *sql.DB

	Users  *UsersRepository
	Tokens *TokensRepository
}

// NewPostgres создаёт репозитории. queryTimeout <= 0 — без таймаута.
func NewPostgres(db *sql.DB, queryTimeout time.Duration) *Postgres {
	return &Postgres{
		db:     db,
		Users:  &UsersRepository{db: db, timeout: queryTimeout},
		Tokens: &TokensRepository{db: db, timeout: queryTimeout},
	}
}

// Ping проверяет соединение с БД (используется /healthz).
func (p *Postgres) Ping(ctx context.Context) error {
	if err := p.db.PingContext(ctx); err != nil {
		return fmt.Errorf("%w: ping: %v", serr.ErrInternal, err)
	}
	return nil
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}

// mapError переводит ошибку драйвера в доменную.
func mapError(op string, err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return serr.ErrNotFound
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
		return serr.ErrAlreadyExists
	}
	return fmt.Errorf("%w: %s: %v", serr.ErrInternal, op, err)
}
