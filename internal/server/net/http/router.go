// Package http реализует маршрутизацию HTTP-слоя сервера учётных записей.
//
// Пакет отвечает за:
//   - регистрацию HTTP-маршрутов и настройку роутера (chi);
//   - логирование выполнения HTTP-запросов;
//   - проверку токенов на защищённых маршрутах;
//   - сборку http.Server по конфигу.
package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/api"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/middleware"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

// RouterOptions — необязательные настройки роутера.
type RouterOptions struct {
	MaxBodyBytes int64 // 0 — без ограничения
	Swagger      bool  // отдавать /swagger/*
}

// NewRouter создаёт и настраивает HTTP-роутер сервера.
//
// Роутер использует chi.Router и регистрирует:
//   - middleware логирования и лимита тела для всех запросов;
//   - публичные эндпоинты /api/user/create и /api/user/login;
//   - группу защищённых токеном эндпоинтов /api/user/me;
//   - /healthz и, если включено, /swagger/*.
func NewRouter(h *api.Handler, auth middleware.Authenticator, opts RouterOptions) http.Handler {
	r := chi.NewRouter()
	// логирование всех запросов
	r.Use(middleware.LoggerMiddleware(h.Log))
	r.Use(middleware.BodyLimit(opts.MaxBodyBytes))

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusNotFound, serr.ErrNotFound)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		api.WriteError(w, http.StatusMethodNotAllowed, serr.ErrMethodNotAllowed)
	})

	if opts.Swagger {
		r.Get("/swagger/*", httpSwagger.WrapHandler)
	}
	r.Get("/healthz", h.Health)

	r.Route("/api/user", func(r chi.Router) {
		// Публичные пути
		r.Post("/create", h.CreateUser)
		r.Post("/login", h.Login)

		// защищённые пути
		r.Group(func(r chi.Router) {
			r.Use(middleware.AuthMiddleware(auth))

			r.Get("/me", h.GetMe)
			r.Patch("/me", h.PatchMe)
			// POST и прочие методы — 405 только после проверки токена
			r.Post("/me", h.MeMethodNotAllowed)
			r.Put("/me", h.MeMethodNotAllowed)
			r.Delete("/me", h.MeMethodNotAllowed)
		})
	})

	return r
}
