package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/crypto"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

// ProfileService — чтение и изменение профиля аутентифицированного пользователя.
type ProfileService struct {
	users  UsersRepo
	hasher crypto.Hasher
}

// ProfileUpdate — частичное обновление. nil — поле не передано.
type ProfileUpdate struct {
	Email    *string
	Name     *string
	Password *string
}

func NewProfileService(users UsersRepo, hasher crypto.Hasher) *ProfileService {
	return &ProfileService{users: users, hasher: hasher}
}

// Get возвращает профиль. Если пользователя уже нет — ErrUnauthorized:
// токен есть, а владельца нет.
func (s *ProfileService) Get(ctx context.Context, userID uuid.UUID) (models.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return models.User{}, serr.ErrUnauthorized
		}
		return models.User{}, err
	}
	return u, nil
}

// Update меняет только переданные поля.
//
// Все поля проверяются до записи: при любой ошибке валидации
// ничего не сохраняется. Пароль хэшируется заново.
func (s *ProfileService) Update(ctx context.Context, userID uuid.UUID, in ProfileUpdate) (models.User, error) {
	var upd models.UserUpdate
	verr := &serr.ValidationError{}

	if in.Email != nil {
		email := normalizeEmail(*in.Email)
		validateEmail(verr, email)
		upd.Email = &email
	}
	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		validateName(verr, name)
		upd.Name = &name
	}
	if in.Password != nil {
		validatePassword(verr, *in.Password, s.hasher.MaxPasswordBytes())
	}
	if !verr.Empty() {
		return models.User{}, verr
	}

	if in.Password != nil {
		hash, err := s.hasher.Hash(*in.Password)
		if err != nil {
			return models.User{}, fmt.Errorf("%w: hash password: %v", serr.ErrInternal, err)
		}
		upd.PasswordHash = &hash
	}

	u, err := s.users.Update(ctx, userID, upd)
	if err != nil {
		switch {
		case errors.Is(err, serr.ErrNotFound):
			return models.User{}, serr.ErrUnauthorized
		case errors.Is(err, serr.ErrAlreadyExists):
			return models.User{}, serr.NewValidationError("email", serr.CodeAlreadyExists)
		}
		return models.User{}, err
	}
	return u, nil
}
