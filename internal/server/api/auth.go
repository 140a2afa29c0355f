// HTTP-хендлеры создания учётной записи и входа
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/models"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/service"
)

// CreateUserRequest описывает тело запроса создания учётной записи.
type CreateUserRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name"`
}

// UserResponse — публичное представление пользователя. Пароль не отдаётся никогда.
type UserResponse struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// LoginRequest описывает тело запроса входа пользователя.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// LoginResponse описывает успешный ответ входа пользователя.
type LoginResponse struct {
	Token string `json:"token"`
}

func toUserResponse(u models.User) UserResponse {
	return UserResponse{Email: u.Email, Name: u.Name}
}

// CreateUser обрабатывает создание учётной записи.
//
// Ответы:
//   - 201 Created: учётная запись создана;
//   - 400 Bad Request: неверный JSON, невалидные поля или email уже занят;
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Create user
// @Description  Creates a new account. Password is stored as a one-way hash and never returned.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body CreateUserRequest true "Create user request"
// @Success      201 {object} UserResponse
// @Failure      400 {object} ErrorResponse "Invalid input, email taken or bad JSON"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/user/create [post]
func (h *Handler) CreateUser(w http.ResponseWriter, r *http.Request) {
	var req CreateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	u, err := h.Svc.Auth.Register(r.Context(), service.RegisterInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
	})
	if err != nil {
		h.writeServiceError(w, r, "create user", err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(u))
}

// Login обрабатывает вход пользователя и выдачу токена.
//
// Ответы:
//   - 200 OK: успешный вход;
//   - 400 Bad Request: неверный JSON, пустые поля или неверные учётные данные
//     (неизвестный email и неверный пароль не различаются);
//   - 500 Internal Server Error: прочие ошибки.
//
// @Summary      Login
// @Description  Exchanges email and password for an auth token.
// @Tags         user
// @Accept       json
// @Produce      json
// @Param        request body LoginRequest true "Login request"
// @Success      200 {object} LoginResponse
// @Failure      400 {object} ErrorResponse "Invalid credentials or bad JSON"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/user/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	token, err := h.Svc.Auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.writeServiceError(w, r, "login", err)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{Token: token})
}
