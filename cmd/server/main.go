// @title           User Accounts API
// @version         1.0
// @description     Account registration, token login and profile management.

// @contact.name   Ivan Chernomyrdin
// @contact.url    https://github.com/IvanChernomyrdin

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /
// @schemes http https

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
//
// Package main содержит точку входа сервера учётных записей.
//
// Пакет отвечает за инициализацию и жизненный цикл HTTP(S)-сервера, а именно:
//   - загрузку переменных окружения из файла .env (если он присутствует);
//   - загрузку конфигурации (флаг -config или CONFIG_PATH, по умолчанию ./configs/server.yaml);
//   - выбор хранилища: PostgreSQL (с миграциями) или память процесса;
//   - создание репозиториев, сервисов, middleware и HTTP-обработчиков;
//   - периодическую чистку истёкших токенов;
//   - обработку системных сигналов завершения (SIGINT, SIGTERM, SIGQUIT);
//   - корректное (graceful) завершение работы сервера с таймаутом.
//
// Пакет не содержит бизнес-логики и не предназначен для unit-тестирования.
package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/api"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/config"
	h "github.com/IvanChernomyrdin/go-user-accounts/internal/server/net/http"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/repository"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/repository/memory"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/service"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/shared/logger"

	_ "github.com/IvanChernomyrdin/go-user-accounts/swagger/docs"
)

// как часто удаляем истёкшие opaque-токены
const purgeInterval = time.Hour

func main() {
	configPath := flag.String("config", envOr("CONFIG_PATH", "./configs/server.yaml"), "path to server.yaml")
	flag.Parse()

	// до чтения конфига пишем в stdout
	boot := logger.NewNop()
	if l, err := logger.New(logger.Options{Level: "info", Format: "console", Stdout: true}); err == nil {
		boot = l
	}
	sugar := boot.Sugar()

	if err := godotenv.Load(); err != nil {
		sugar.Warnf("no .env file loaded, error: %v", err)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		sugar.Fatal(err)
	}

	httpLogger, err := logger.New(logger.Options{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Stdout:     cfg.Log.Stdout,
		File:       cfg.Log.File,
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
		Compress:   cfg.Log.Compress,
	})
	if err != nil {
		sugar.Fatal(err)
	}
	defer func() { _ = httpLogger.Sync() }()
	sugar = httpLogger.Sugar()

	// создаём контекст и errgroup
	ctx, stop := signal.NotifyContext(
		context.Background(),
		os.Interrupt,
		syscall.SIGTERM,
		syscall.SIGQUIT,
	)
	defer stop()

	// создаём репы
	var repos service.Repositories
	switch cfg.DB.Driver {
	case config.DriverMemory:
		store := memory.New()
		repos = service.Repositories{Users: store.Users(), Tokens: store.Tokens(), Health: store}
		sugar.Warn("using in-memory storage, data will be lost on restart")
	default:
		db, err := config.OpenPostgres(ctx, cfg.DB, cfg.Migrations, httpLogger.Logger)
		if err != nil {
			sugar.Fatal(err)
		}
		// делаем отложенное закрытие бд
		defer db.Close()

		pg := repository.NewPostgres(db, cfg.DB.QueryTimeout)
		repos = service.Repositories{Users: pg.Users, Tokens: pg.Tokens, Health: pg}
	}

	// создаём сервис
	svc, err := service.NewServices(repos, cfg)
	if err != nil {
		sugar.Fatal(err)
	}
	// создаём хандлер и роутер
	handler := api.NewHandler(svc, httpLogger)
	router := h.NewRouter(handler, svc.Auth, h.RouterOptions{
		MaxBodyBytes: cfg.Server.MaxBodyBytes,
		Swagger:      cfg.Server.Swagger,
	})
	//создаём сервер
	server := h.NewServer(cfg, router)

	g, ctx := errgroup.WithContext(ctx)

	// запускаем сервер
	g.Go(func() error {
		sugar.Infow("server started",
			"addr", server.Addr,
			"tls", cfg.TLS.Enabled,
			"storage", cfg.DB.Driver,
			"token_format", cfg.Auth.Token.Format,
		)

		var err error
		if cfg.TLS.Enabled {
			err = server.ListenAndServeTLS(cfg.TLS.CertFile, cfg.TLS.KeyFile)
		} else {
			err = server.ListenAndServe()
		}
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})

	// чистим истёкшие токены, пока сервер жив
	g.Go(func() error {
		ticker := time.NewTicker(purgeInterval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return nil
			case <-ticker.C:
				n, err := svc.Auth.PurgeExpiredTokens(ctx)
				if err != nil {
					httpLogger.Warn("purge expired tokens failed", zap.Error(err))
					continue
				}
				if n > 0 {
					httpLogger.Info("expired tokens purged", zap.Int64("count", n))
				}
			}
		}
	})

	// graceful shutdown с таймаутом из конфига
	g.Go(func() error {
		<-ctx.Done()

		sugar.Info("shutdown signal received")

		shutdownCtx, cancel := context.WithTimeout(
			context.Background(),
			cfg.Server.ShutdownTimeout,
		)
		defer cancel()

		return server.Shutdown(shutdownCtx)
	})

	// ожидание и единная обработка ошибок
	if err := g.Wait(); err != nil {
		sugar.Fatalf("server stopped with error: %v", err)
	}
	sugar.Info("server gracefully stopped")
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
