package service_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/config"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/service"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

const testSigningKey = "supersecretkeysupersecretkey123456"

// лёгкие параметры argon2, чтобы тесты не тормозили
func testConfig() *config.Config {
	cfg := &config.Config{DB: config.DBConfig{Driver: config.DriverMemory}}
	cfg.Password.Argon2 = config.Argon2Config{Time: 1, MemoryKiB: 8 * 1024, Threads: 1, KeyLen: 32, SaltLen: 16}
	cfg.Auth.Issuer = "useraccounts"
	cfg.Auth.JWT.SigningKey = testSigningKey
	config.ApplyDefaults(cfg)
	return cfg
}

func testHasher(t *testing.T) crypto.Hasher {
	t.Helper()
	h, err := service.NewHasher(testConfig())
	require.NoError(t, err)
	return h
}

// создаём сервис с opaque-токенами
func newAuthService(t *testing.T) (*service.AuthService, *mocks.MockUsersRepo, *mocks.MockTokensRepo) {
	t.Helper()

	ctrl := gomock.NewController(t)

	users := mocks.NewMockUsersRepo(ctrl)
	tokens := mocks.NewMockTokensRepo(ctrl)

	cfg := testConfig()
	svc := service.NewAuthService(users, service.NewTokenIssuer(tokens, cfg), testHasher(t))
	return svc, users, tokens
}

func fieldCode(t *testing.T, err error, field string) string {
	t.Helper()
	var verr *serr.ValidationError
	require.True(t, errors.As(err, &verr), "expected ValidationError, got %v", err)
	return verr.Fields[field]
}

// Регистрация: email нормализуется, пароль хэшируется
func TestAuthService_Register_OK(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	var savedHash string
	users.EXPECT().
		Create(ctx, "test@mail.com", "Test Name", gomock.Any()).
		DoAndReturn(func(_ context.Context, email, name, hash string) (models.User, error) {
			savedHash = hash
			return models.User{ID: uuid.New(), Email: email, Name: name, PasswordHash: hash}, nil
		})

	u, err := svc.Register(ctx, service.RegisterInput{
		Email:    "  Test@Mail.com ",
		Password: "Testingpassword123!",
		Name:     "Test Name",
	})
	require.NoError(t, err)
	require.Equal(t, "test@mail.com", u.Email)
	require.NotEqual(t, "Testingpassword123!", savedHash)

	ok, err := crypto.VerifyPassword("Testingpassword123!", savedHash)
	require.NoError(t, err)
	require.True(t, ok)
}

// Ошибки валидации: в репозиторий не ходим
func TestAuthService_Register_Validation(t *testing.T) {
	tests := []struct {
		name  string
		in    service.RegisterInput
		field string
		code  string
	}{
		{"short password", service.RegisterInput{Email: "a@b.com", Password: "1234"}, "password", serr.CodeTooShort},
		{"missing password", service.RegisterInput{Email: "a@b.com"}, "password", serr.CodeRequired},
		{"missing email", service.RegisterInput{Password: "12345"}, "email", serr.CodeRequired},
		{"bad email", service.RegisterInput{Email: "not-an-email", Password: "12345"}, "email", serr.CodeInvalidFormat},
		{"long name", service.RegisterInput{Email: "a@b.com", Password: "12345", Name: strings.Repeat("я", 256)}, "name", serr.CodeTooLong},
		{"short password in runes", service.RegisterInput{Email: "a@b.com", Password: "пар"}, "password", serr.CodeTooShort},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, _, _ := newAuthService(t)

			_, err := svc.Register(context.Background(), tt.in)
			require.ErrorIs(t, err, serr.ErrInvalidInput)
			require.Equal(t, tt.code, fieldCode(t, err, tt.field))
		})
	}
}

// Граница: ровно 5 символов — можно
func TestAuthService_Register_PasswordMinLength(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	users.EXPECT().
		Create(ctx, "a@b.com", "", gomock.Any()).
		Return(models.User{ID: uuid.New(), Email: "a@b.com"}, nil)

	_, err := svc.Register(ctx, service.RegisterInput{Email: "a@b.com", Password: "12345"})
	require.NoError(t, err)
}

// Такой пользователь уже есть
func TestAuthService_Register_AlreadyExists(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	users.EXPECT().
		Create(ctx, "a@b.com", "", gomock.Any()).
		Return(models.User{}, serr.ErrAlreadyExists)

	_, err := svc.Register(ctx, service.RegisterInput{Email: "a@b.com", Password: "12345"})
	require.ErrorIs(t, err, serr.ErrInvalidInput)
	require.Equal(t, serr.CodeAlreadyExists, fieldCode(t, err, "email"))
}

// Успех
func TestAuthService_Login_OK(t *testing.T) {
	ctx := context.Background()
	svc, users, tokens := newAuthService(t)

	userID := uuid.New()
	password := "strongpassword"

	hash, err := testHasher(t).Hash(password)
	require.NoError(t, err)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: userID, Email: "test@mail.com", PasswordHash: hash}, nil)

	var stored []byte
	tokens.EXPECT().
		Create(ctx, userID, gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, h []byte, exp *time.Time) (uuid.UUID, error) {
			stored = h
			require.Nil(t, exp) // ttl 0 — бессрочный
			return uuid.New(), nil
		})

	token, err := svc.Login(ctx, "Test@Mail.com", password)
	require.NoError(t, err)
	require.NotEmpty(t, token)
	require.Equal(t, crypto.HashToken(token), stored)
}

// Неверный пароль
func TestAuthService_Login_InvalidPassword(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	// хешируем ПРАВИЛЬНЫЙ пароль
	hash, err := testHasher(t).Hash("correct-password")
	require.NoError(t, err)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{ID: uuid.New(), PasswordHash: hash}, nil)

	// пробуем войти с НЕПРАВИЛЬНЫМ паролем
	_, err = svc.Login(ctx, "test@mail.com", "wrong-password")

	require.ErrorIs(t, err, serr.ErrInvalidCredentials)
}

// Email не существует
func TestAuthService_Login_EmailNotFound(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{}, serr.ErrNotFound)

	_, err := svc.Login(ctx, "test@mail.com", "password")

	require.ErrorIs(t, err, serr.ErrInvalidCredentials)
}

// countingHasher считает вызовы Verify
type countingHasher struct {
	crypto.Hasher
	verifies int
}

func (h *countingHasher) Verify(password, encoded string) (bool, error) {
	h.verifies++
	return h.Hasher.Verify(password, encoded)
}

// Для неизвестного email пароль всё равно проверяется по хэшу-заглушке
func TestAuthService_Login_EmailNotFound_StillVerifies(t *testing.T) {
	ctx := context.Background()
	ctrl := gomock.NewController(t)
	users := mocks.NewMockUsersRepo(ctrl)
	hasher := &countingHasher{Hasher: testHasher(t)}

	svc := service.NewAuthService(users, service.NewTokenIssuer(mocks.NewMockTokensRepo(ctrl), testConfig()), hasher)

	users.EXPECT().
		GetByEmail(ctx, "ghost@mail.com").
		Return(models.User{}, serr.ErrNotFound).
		Times(2)

	for i := 1; i <= 2; i++ {
		_, err := svc.Login(ctx, "ghost@mail.com", "password")
		require.ErrorIs(t, err, serr.ErrInvalidCredentials)
		require.Equal(t, i, hasher.verifies)
	}
}

// bcrypt: пароль длиннее 72 байт — ошибка валидации, а не internal
func TestAuthService_Register_BcryptPasswordTooLong(t *testing.T) {
	ctx := context.Background()
	users := mocks.NewMockUsersRepo(gomock.NewController(t))
	tokens := mocks.NewMockTokensRepo(gomock.NewController(t))
	hasher := crypto.BcryptHasher{Cost: 4}

	svc := service.NewAuthService(users, service.NewTokenIssuer(tokens, testConfig()), hasher)

	// Create не вызывается
	_, err := svc.Register(ctx, service.RegisterInput{Email: "a@b.com", Password: strings.Repeat("p", 80)})
	require.ErrorIs(t, err, serr.ErrInvalidInput)
	require.Equal(t, serr.CodeTooLong, fieldCode(t, err, "password"))

	// ровно 72 байта ещё можно
	users.EXPECT().
		Create(ctx, "a@b.com", "", gomock.Any()).
		Return(models.User{ID: uuid.New(), Email: "a@b.com"}, nil)
	_, err = svc.Register(ctx, service.RegisterInput{Email: "a@b.com", Password: strings.Repeat("p", 72)})
	require.NoError(t, err)
}

// Пустые поля
func TestAuthService_Login_MissingFields(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Login(context.Background(), "test@mail.com", "")
	require.ErrorIs(t, err, serr.ErrInvalidInput)
	require.Equal(t, serr.CodeRequired, fieldCode(t, err, "password"))

	_, err = svc.Login(context.Background(), "   ", "password")
	require.ErrorIs(t, err, serr.ErrInvalidInput)
	require.Equal(t, serr.CodeRequired, fieldCode(t, err, "email"))
}

// Ошибка БД пробрасывается как есть
func TestAuthService_Login_RepoError(t *testing.T) {
	ctx := context.Background()
	svc, users, _ := newAuthService(t)

	users.EXPECT().
		GetByEmail(ctx, "test@mail.com").
		Return(models.User{}, serr.ErrInternal)

	_, err := svc.Login(ctx, "test@mail.com", "password")
	require.ErrorIs(t, err, serr.ErrInternal)
}

// Токен, выданный при входе, проходит Authenticate
func TestAuthService_Authenticate_Opaque(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthService(t)

	userID := uuid.New()
	token := "opaque-token"

	tokens.EXPECT().
		GetByHash(ctx, crypto.HashToken(token)).
		Return(models.Token{UserID: userID}, nil)

	got, err := svc.Authenticate(ctx, token)
	require.NoError(t, err)
	require.Equal(t, userID, got)
}

func TestAuthService_Authenticate_Unknown(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthService(t)

	tokens.EXPECT().
		GetByHash(ctx, gomock.Any()).
		Return(models.Token{}, serr.ErrNotFound)

	_, err := svc.Authenticate(ctx, "unknown")
	require.ErrorIs(t, err, serr.ErrUnauthorized)
}

// Истёкший токен
func TestAuthService_Authenticate_Expired(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthService(t)

	past := time.Now().Add(-time.Second)
	tokens.EXPECT().
		GetByHash(ctx, gomock.Any()).
		Return(models.Token{UserID: uuid.New(), ExpiresAt: &past}, nil)

	_, err := svc.Authenticate(ctx, "expired")
	require.ErrorIs(t, err, serr.ErrUnauthorized)
}

func TestAuthService_Authenticate_Empty(t *testing.T) {
	svc, _, _ := newAuthService(t)

	_, err := svc.Authenticate(context.Background(), "  ")
	require.ErrorIs(t, err, serr.ErrUnauthorized)
}

func TestAuthService_PurgeExpiredTokens(t *testing.T) {
	ctx := context.Background()
	svc, _, tokens := newAuthService(t)

	tokens.EXPECT().DeleteExpired(ctx, gomock.Any()).Return(int64(2), nil)

	n, err := svc.PurgeExpiredTokens(ctx)
	require.NoError(t, err)
	require.Equal(t, int64(2), n)
}
