// Package memory — хранилище пользователей и токенов в памяти процесса.
//
// Используется при db.driver=memory (локальная разработка) и в тестах.
// Данные теряются при перезапуске.
package memory

import (
	"bytes"
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

// Store хранит данные в map под одним RWMutex.
type Store struct {
	mu sync.RWMutex

	users   map[uuid.UUID]models.User
	byEmail map[string]uuid.UUID
	tokens  map[string]models.Token // ключ — string(token_hash)

	now func() time.Time
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		users:   make(map[uuid.UUID]models.User),
		byEmail: make(map[string]uuid.UUID),
		tokens:  make(map[string]models.Token),
		now:     time.Now,
	}
}

// Users возвращает репозиторий пользователей поверх Store.
func (s *Store) Users() *UsersRepository { return &UsersRepository{s: s} }

// Tokens возвращает репозиторий токенов поверх Store.
func (s *Store) Tokens() *TokensRepository { return &TokensRepository{s: s} }

// Ping всегда успешен, если контекст жив.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

type UsersRepository struct {
	s *Store
}

func (r *UsersRepository) Create(ctx context.Context, email, name, passwordHash string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if _, ok := r.s.byEmail[email]; ok {
		return models.User{}, serr.ErrAlreadyExists
	}

	now := r.s.now().UTC()
	u := models.User{
		ID:           uuid.New(),
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	r.s.users[u.ID] = u
	r.s.byEmail[email] = u.ID
	return u, nil
}

func (r *UsersRepository) GetByEmail(ctx context.Context, email string) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	id, ok := r.s.byEmail[email]
	if !ok {
		return models.User{}, serr.ErrNotFound
	}
	return r.s.users[id], nil
}

func (r *UsersRepository) GetByID(ctx context.Context, id uuid.UUID) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, serr.ErrNotFound
	}
	return u, nil
}

// Update меняет только заданные поля. Проверка уникальности email
// и запись выполняются под одной блокировкой.
func (r *UsersRepository) Update(ctx context.Context, id uuid.UUID, upd models.UserUpdate) (models.User, error) {
	if err := ctx.Err(); err != nil {
		return models.User{}, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return models.User{}, serr.ErrNotFound
	}
	if upd.Empty() {
		return u, nil
	}

	if upd.Email != nil && *upd.Email != u.Email {
		if _, taken := r.s.byEmail[*upd.Email]; taken {
			return models.User{}, serr.ErrAlreadyExists
		}
		delete(r.s.byEmail, u.Email)
		u.Email = *upd.Email
		r.s.byEmail[u.Email] = u.ID
	}
	if upd.Name != nil {
		u.Name = *upd.Name
	}
	if upd.PasswordHash != nil {
		u.PasswordHash = *upd.PasswordHash
	}
	u.UpdatedAt = r.s.now().UTC()

	r.s.users[id] = u
	return u, nil
}

type TokensRepository struct {
	s *Store
}

func (r *TokensRepository) Create(ctx context.Context, userID uuid.UUID, tokenHash []byte, expiresAt *time.Time) (uuid.UUID, error) {
	if err := ctx.Err(); err != nil {
		return uuid.Nil, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	key := string(tokenHash)
	if _, ok := r.s.tokens[key]; ok {
		return uuid.Nil, serr.ErrAlreadyExists
	}
	if _, ok := r.s.users[userID]; !ok {
		// как внешний ключ в postgres
		return uuid.Nil, serr.ErrNotFound
	}

	t := models.Token{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: bytes.Clone(tokenHash),
		CreatedAt: r.s.now().UTC(),
	}
	if expiresAt != nil {
		exp := *expiresAt
		t.ExpiresAt = &exp
	}
	r.s.tokens[key] = t
	return t.ID, nil
}

func (r *TokensRepository) GetByHash(ctx context.Context, tokenHash []byte) (models.Token, error) {
	if err := ctx.Err(); err != nil {
		return models.Token{}, err
	}

	r.s.mu.RLock()
	defer r.s.mu.RUnlock()

	t, ok := r.s.tokens[string(tokenHash)]
	if !ok {
		return models.Token{}, serr.ErrNotFound
	}
	return t, nil
}

func (r *TokensRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var n int64
	for k, t := range r.s.tokens {
		if t.Expired(now) {
			delete(r.s.tokens, k)
			n++
		}
	}
	return n, nil
}
