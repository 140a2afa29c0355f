package config

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	"go.uber.org/zap"

	_ "github.com/golang-migrate/migrate/v4/source/file"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/IvanChernomyrdin/go-user-accounts/migrations"
)

// OpenPostgres открывает пул соединений с PostgreSQL (драйвер pgx),
// проверяет доступность базы и, если включено, применяет миграции.
//
// Вызывающий отвечает за db.Close().
func OpenPostgres(ctx context.Context, cfg DBConfig, mcfg MigrationsConfig, log *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("pgx", cfg.DSN)
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	if cfg.MaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.MaxIdleConns)
	}
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	pingCtx, cancel := context.WithTimeout(ctx, cfg.QueryTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, fmt.Errorf("check db connection: %w", err)
	}

	if mcfg.Enabled {
		if err := Migrate(db, mcfg.Path); err != nil {
			db.Close()
			return nil, err
		}
		log.Info("migrations applied successfully")
	}
	return db, nil
}

// Migrate применяет миграции golang-migrate к переданной базе.
//
// path — каталог с миграциями; пустая строка означает встроенные
// в бинарник миграции (пакет migrations).
// migrate.ErrNoChange ошибкой не считается.
func Migrate(db *sql.DB, path string) error {
	driver, err := postgres.WithInstance(db, &postgres.Config{})
	if err != nil {
		return fmt.Errorf("create migration driver: %w", err)
	}

	var m *migrate.Migrate
	if path == "" {
		var src source.Driver
		src, err = iofs.New(migrations.FS, "postgres")
		if err != nil {
			return fmt.Errorf("open embedded migrations: %w", err)
		}
		m, err = migrate.NewWithInstance("iofs", src, "postgres", driver)
	} else {
		m, err = migrate.NewWithDatabaseInstance("file://"+path, "postgres", driver)
	}
	if err != nil {
		return fmt.Errorf("create migrations: %w", err)
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return fmt.Errorf("apply migrations: %w", err)
	}
	return nil
}
