package repository

import (
	"context"
	"database/sql"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
)

const userColumns = `id, email, name, password_hash, created_at, updated_at`

// UsersRepository хранит учётные записи в таблице users.
type UsersRepository struct {
	db      *sql.DB
	timeout time.Duration
}

func NewUsersRepository(db *sql.DB) *UsersRepository {
	return &UsersRepository{db: db}
}

// Create создаёт пользователя.
//
// Ошибки:
//   - ErrAlreadyExists, если email занят
//   - ErrInternal при других ошибках БД
func (r *UsersRepository) Create(ctx context.Context, email, name, passwordHash string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`INSERT INTO users (email, name, password_hash)
		 VALUES ($1,$2,$3)
		 RETURNING `+userColumns,
		email, name, passwordHash,
	)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError("create user", err)
	}
	return u, nil
}

// GetByEmail ищет пользователя по email. ErrNotFound, если такого нет.
func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE email=$1`,
		email,
	)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError("get user by email", err)
	}
	return u, nil
}

// GetByID ищет пользователя по id. ErrNotFound, если такого нет.
func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`SELECT `+userColumns+` FROM users WHERE id=$1`,
		id,
	)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError("get user by id", err)
	}
	return u, nil
}

// Update применяет только заданные поля одним UPDATE и возвращает запись.
//
// Ошибки:
//   - ErrNotFound, если пользователя нет
//   - ErrAlreadyExists, если новый email занят
func (r *UsersRepository) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (models.User, error) {
	if upd.Empty() {
		return r.GetByID(ctx, id)
	}

	sets := make([]string, 0, 4)
	args := make([]any, 0, 4)
	add := func(col string, v any) {
		args = append(args, v)
		sets = append(sets, col+"=$"+strconv.Itoa(len(args)))
	}
	if upd.Email != nil {
		add("email", *upd.Email)
	}
	if upd.Name != nil {
		add("name", *upd.Name)
	}
	if upd.PasswordHash != nil {
		add("password_hash", *upd.PasswordHash)
	}
	sets = append(sets, "updated_at=now()")
	args = append(args, id)

	ctx, cancel := withTimeout(ctx, r.timeout)
	defer cancel()

	row := r.db.QueryRowContext(ctx,
		`UPDATE users SET `+strings.Join(sets, ", ")+
			` WHERE id=$`+strconv.Itoa(len(args))+
			` RETURNING `+userColumns,
		args...,
	)
	u, err := scanUser(row)
	if err != nil {
		return models.User{}, mapError("update user", err)
	}
	return u, nil
}

func scanUser(row *sql.Row) (models.User, error) {
	var u models.User
	err := row.Scan(&u.ID, &u.Email, &u.Name, &u.PasswordHash, &u.CreatedAt, &u.UpdatedAt)
	return u, err
}
