package service_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/service"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/service/mocks"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

func newProfileService(t *testing.T) (*service.ProfileService, *mocks.MockUsersRepo) {
	t.Helper()

	users := mocks.NewMockUsersRepo(gomock.NewController(t))
	return service.NewProfileService(users, testHasher(t)), users
}

func ptr(s string) *string { return &s }

func TestProfileService_Get_OK(t *testing.T) {
	ctx := context.Background()
	svc, users := newProfileService(t)

	id := uuid.New()
	users.EXPECT().GetByID(ctx, id).Return(models.User{ID: id, Email: "a@b.com", Name: "A"}, nil)

	u, err := svc.Get(ctx, id)
	require.NoError(t, err)
	require.Equal(t, "A", u.Name)
}

// Пользователь удалён, а токен остался
func TestProfileService_Get_VanishedUser(t *testing.T) {
	ctx := context.Background()
	svc, users := newProfileService(t)

	id := uuid.New()
	users.EXPECT().GetByID(ctx, id).Return(models.User{}, serr.ErrNotFound)

	_, err := svc.Get(ctx, id)
	require.ErrorIs(t, err, serr.ErrUnauthorized)
}

// Имя и пароль: пароль хэшируется заново, email не трогаем
func TestProfileService_Update_NameAndPassword(t *testing.T) {
	ctx := context.Background()
	svc, users := newProfileService(t)

	id := uuid.New()
	users.EXPECT().
		Update(ctx, id, gomock.Any()).
		DoAndReturn(func(_ context.Context, _ uuid.UUID, upd models.UserUpdate) (models.User, error) {
			require.Nil(t, upd.Email)
			require.NotNil(t, upd.Name)
			require.Equal(t, "Testing User", *upd.Name)
			require.NotNil(t, upd.PasswordHash)

			ok, err := crypto.VerifyPassword("Testingpassword1!", *upd.PasswordHash)
			require.NoError(t, err)
			require.True(t, ok)

			return models.User{ID: id, Email: "a@b.com", Name: *upd.Name, PasswordHash: *upd.PasswordHash}, nil
		})

	u, err := svc.Update(ctx, id, service.ProfileUpdate{Name: ptr("Testing User"), Password: ptr("Testingpassword1!")})
	require.NoError(t, err)
	require.Equal(t, "Testing User", u.Name)
}

// Короткий пароль: в репозиторий не ходим
func TestProfileService_Update_ShortPassword(t *testing.T) {
	svc, _ := newProfileService(t)

	_, err := svc.Update(context.Background(), uuid.New(), service.ProfileUpdate{Name: ptr("X"), Password: ptr("1234")})
	require.ErrorIs(t, err, serr.ErrInvalidInput)
	require.Equal(t, serr.CodeTooShort, fieldCode(t, err, "password"))
}

func TestProfileService_Update_BadEmail(t *testing.T) {
	svc, _ := newProfileService(t)

	_, err := svc.Update(context.Background(), uuid.New(), service.ProfileUpdate{Email: ptr("nope")})
	require.Equal(t, serr.CodeInvalidFormat, fieldCode(t, err, "email"))
}

// Новый email занят
func TestProfileService_Update_EmailTaken(t *testing.T) {
	ctx := context.Background()
	svc, users := newProfileService(t)

	id := uuid.New()
	users.EXPECT().
		Update(ctx, id, models.UserUpdate{Email: ptr("taken@b.com")}).
		Return(models.User{}, serr.ErrAlreadyExists)

	_, err := svc.Update(ctx, id, service.ProfileUpdate{Email: ptr(" Taken@B.com ")})
	require.ErrorIs(t, err, serr.ErrInvalidInput)
	require.Equal(t, serr.CodeAlreadyExists, fieldCode(t, err, "email"))
}

// Пустой PATCH — просто текущий профиль
func TestProfileService_Update_Empty(t *testing.T) {
	ctx := context.Background()
	svc, users := newProfileService(t)

	id := uuid.New()
	users.EXPECT().
		Update(ctx, id, models.UserUpdate{}).
		Return(models.User{ID: id, Email: "a@b.com"}, nil)

	u, err := svc.Update(ctx, id, service.ProfileUpdate{})
	require.NoError(t, err)
	require.Equal(t, "a@b.com", u.Email)
}

func TestProfileService_Update_VanishedUser(t *testing.T) {
	ctx := context.Background()
	svc, users := newProfileService(t)

	users.EXPECT().Update(ctx, gomock.Any(), gomock.Any()).Return(models.User{}, serr.ErrNotFound)

	_, err := svc.Update(ctx, uuid.New(), service.ProfileUpdate{Name: ptr("X")})
	require.ErrorIs(t, err, serr.ErrUnauthorized)
}

// bcrypt: новый пароль длиннее 72 байт не доходит до репозитория
func TestProfileService_Update_BcryptPasswordTooLong(t *testing.T) {
	users := mocks.NewMockUsersRepo(gomock.NewController(t))
	svc := service.NewProfileService(users, crypto.BcryptHasher{Cost: 4})

	// многобайтные символы: 40 рун, но 80 байт
	_, err := svc.Update(context.Background(), uuid.New(), service.ProfileUpdate{Password: ptr(strings.Repeat("я", 40))})
	require.ErrorIs(t, err, serr.ErrInvalidInput)
	require.Equal(t, serr.CodeTooLong, fieldCode(t, err, "password"))
}
