// HTTP-хендлеры профиля текущего пользователя
package api

import (
	"net/http"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/middleware"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/service"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

// MeAllowedMethods — методы, которые поддерживает /api/user/me.
const MeAllowedMethods = "GET, PATCH"

// UpdateMeRequest — частичное обновление профиля.
// Отсутствующее (или null) поле не меняется.
type UpdateMeRequest struct {
	Email    *string `json:"email,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
}

// GetMe возвращает профиль аутентифицированного пользователя.
//
// @Summary      Get profile
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Success      200 {object} UserResponse
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/user/me [get]
func (h *Handler) GetMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	u, err := h.Svc.Profile.Get(r.Context(), userID)
	if err != nil {
		h.writeServiceError(w, r, "get profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// PatchMe меняет переданные поля профиля. Пароль хэшируется заново.
//
// Ответы:
//   - 200 OK: профиль обновлён;
//   - 400 Bad Request: неверный JSON или невалидные поля (ничего не сохраняется);
//   - 401 Unauthorized: нет или неверный токен.
//
// @Summary      Update profile
// @Tags         user
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        request body UpdateMeRequest true "Fields to change"
// @Success      200 {object} UserResponse
// @Failure      400 {object} ErrorResponse "Invalid input or bad JSON"
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      500 {object} ErrorResponse "Internal server error"
// @Router       /api/user/me [patch]
func (h *Handler) PatchMe(w http.ResponseWriter, r *http.Request) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		WriteError(w, http.StatusUnauthorized, serr.ErrUnauthorized)
		return
	}

	var req UpdateMeRequest
	if err := decodeJSON(r, &req); err != nil {
		writeDecodeError(w, err)
		return
	}

	u, err := h.Svc.Profile.Update(r.Context(), userID, service.ProfileUpdate{
		Email:    req.Email,
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		h.writeServiceError(w, r, "update profile", err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(u))
}

// MeMethodNotAllowed отвечает 405 на неподдерживаемые методы /api/user/me.
// Регистрируется за AuthMiddleware: без токена клиент получит 401.
//
// @Summary      Create on profile is not allowed
// @Tags         user
// @Produce      json
// @Security     BearerAuth
// @Failure      401 {object} ErrorResponse "Unauthorized"
// @Failure      405 {object} ErrorResponse "Method not allowed"
// @Router       /api/user/me [post]
func (h *Handler) MeMethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Allow", MeAllowedMethods)
	WriteError(w, http.StatusMethodNotAllowed, serr.ErrMethodNotAllowed)
}
