package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

// AuthService реализует регистрацию, вход и проверку токенов.
type AuthService struct {
	users  UsersRepo
	tokens TokenIssuer
	hasher crypto.Hasher

	dummyOnce sync.Once
	dummyHash string
}

// RegisterInput — данные для создания учётной записи.
type RegisterInput struct {
	Email    string
	Password string
	Name     string
}

// NewAuthService создаёт AuthService.
func NewAuthService(users UsersRepo, tokens TokenIssuer, hasher crypto.Hasher) *AuthService {
	return &AuthService{users: users, tokens: tokens, hasher: hasher}
}

// Register регистрирует нового пользователя.
//
// Валидация:
//   - email обязателен и должен быть валидным
//   - пароль обязателен и длиной >= 5 символов
//   - пароль не длиннее предела хэшера в байтах (bcrypt — 72)
//   - имя не длиннее 255 символов
//
// Ошибки валидации и занятый email возвращаются как *ValidationError
// (errors.Is(err, ErrInvalidInput) == true). Запись не создаётся.
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (models.User, error) {
	email := normalizeEmail(in.Email)
	name := strings.TrimSpace(in.Name)

	verr := &serr.ValidationError{}
	validateEmail(verr, email)
	validatePassword(verr, in.Password, s.hasher.MaxPasswordBytes())
	validateName(verr, name)
	if !verr.Empty() {
		return models.User{}, verr
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return models.User{}, fmt.Errorf("%w: hash password: %v", serr.ErrInternal, err)
	}

	u, err := s.users.Create(ctx, email, name, hash)
	if err != nil {
		if errors.Is(err, serr.ErrAlreadyExists) {
			return models.User{}, serr.NewValidationError("email", serr.CodeAlreadyExists)
		}
		return models.User{}, err
	}
	return u, nil
}

// Login проверяет email и пароль и выдаёт токен.
//
// Поведение:
//   - не раскрывает факт существования email
//   - пустые поля — *ValidationError
//
// Ошибки:
//   - ErrInvalidInput
//   - ErrInvalidCredentials
func (s *AuthService) Login(ctx context.Context, email, password string) (string, error) {
	email = normalizeEmail(email)

	verr := &serr.ValidationError{}
	if email == "" {
		verr.Add("email", serr.CodeRequired)
	}
	if password == "" {
		verr.Add("password", serr.CodeRequired)
	}
	if !verr.Empty() {
		return "", verr
	}

	// получаем юзера по email
	u, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		// не палим существование email: ни ответом, ни временем ответа
		if errors.Is(err, serr.ErrNotFound) {
			_, _ = s.hasher.Verify(password, s.dummy())
			return "", serr.ErrInvalidCredentials
		}
		return "", err
	}
	// проверяем пароль
	ok, err := s.hasher.Verify(password, u.PasswordHash)
	if err != nil {
		return "", fmt.Errorf("%w: verify password: %v", serr.ErrInternal, err)
	}
	if !ok {
		return "", serr.ErrInvalidCredentials
	}

	return s.tokens.Issue(ctx, u.ID)
}

// dummy — хэш-заглушка для проверки пароля несуществующего пользователя.
func (s *AuthService) dummy() string {
	s.dummyOnce.Do(func() {
		h, err := s.hasher.Hash(uuid.NewString())
		if err != nil {
			// Verify вернёт ErrUnknownHashFormat сразу, но Login не упадёт
			return
		}
		s.dummyHash = h
	})
	return s.dummyHash
}

// Authenticate возвращает id владельца токена.
//
// Существование пользователя не проверяется: это делает ProfileService.
func (s *AuthService) Authenticate(ctx context.Context, token string) (uuid.UUID, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return uuid.Nil, serr.ErrUnauthorized
	}
	return s.tokens.Resolve(ctx, token)
}

// PurgeExpiredTokens чистит истёкшие токены, если они хранятся на сервере.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	p, ok := s.tokens.(interface {
		PurgeExpired(ctx context.Context) (int64, error)
	})
	if !ok {
		return 0, nil
	}
	return p.PurgeExpired(ctx)
}
