package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

const testSigningKey = "supersecretkeysupersecretkey123456"

func minimalValidConfig() *Config {
	cfg := &Config{
		DB: DBConfig{Driver: DriverMemory},
	}
	ApplyDefaults(cfg)
	return cfg
}

func TestExpandEnvStrict_ReplacesExistingEnv(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", testSigningKey)

	out := ExpandEnvStrict(`signing_key: "${JWT_SIGNING_KEY}"`)
	require.Equal(t, `signing_key: "`+testSigningKey+`"`, out)
}

func TestExpandEnvStrict_LeavesUnknownEnvAsIs(t *testing.T) {
	in := `signing_key: "${MISSING_ENV_FOR_TEST}"`
	out := ExpandEnvStrict(in)

	if out != in {
		t.Fatalf("expected unknown env placeholder to remain unchanged, got %q", out)
	}
}

func TestApplyDefaults_SetsExpectedDefaults(t *testing.T) {
	cfg := &Config{}
	ApplyDefaults(cfg)

	require.Equal(t, "dev", cfg.Env)
	require.Equal(t, 8080, cfg.Server.Port)
	require.Equal(t, DriverPostgres, cfg.DB.Driver)
	require.Equal(t, TokenFormatOpaque, cfg.Auth.Token.Format)
	require.Equal(t, "HS256", cfg.Auth.JWT.Algorithm)
	require.Equal(t, "argon2id", cfg.Password.Hasher)
	require.NotZero(t, cfg.Password.Argon2.Time)
	require.Equal(t, "info", cfg.Log.Level)
	require.Equal(t, "json", cfg.Log.Format)
	require.Equal(t, int64(1<<20), cfg.Server.MaxBodyBytes)
}

func TestValidate_MinimalMemoryConfigIsValid(t *testing.T) {
	require.NoError(t, minimalValidConfig().Validate())
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(c *Config)
	}{
		{"server host required", func(c *Config) { c.Server.Host = "" }},
		{"port out of range", func(c *Config) { c.Server.Port = 70000 }},
		{"tls requires cert and key", func(c *Config) { c.TLS.Enabled = true }},
		{"tls 1.1 rejected", func(c *Config) {
			c.TLS = TLSConfig{Enabled: true, CertFile: "c", KeyFile: "k", MinVersion: "1.1"}
		}},
		{"postgres requires dsn", func(c *Config) { c.DB.Driver = DriverPostgres }},
		{"unknown driver", func(c *Config) { c.DB.Driver = "mysql" }},
		{"unknown token format", func(c *Config) { c.Auth.Token.Format = "paseto" }},
		{"negative ttl", func(c *Config) { c.Auth.Token.TTL = -time.Second }},
		{"jwt short key", func(c *Config) {
			c.Auth.Token = TokenConfig{Format: TokenFormatJWT, TTL: time.Hour}
			c.Auth.JWT.SigningKey = "short-key"
		}},
		{"jwt unexpanded key", func(c *Config) {
			c.Auth.Token = TokenConfig{Format: TokenFormatJWT, TTL: time.Hour}
			c.Auth.JWT.SigningKey = "${JWT_SIGNING_KEY}"
		}},
		{"jwt requires ttl", func(c *Config) {
			c.Auth.Token = TokenConfig{Format: TokenFormatJWT}
			c.Auth.JWT.SigningKey = testSigningKey
		}},
		{"unknown hasher", func(c *Config) { c.Password.Hasher = "md5" }},
		{"bcrypt cost", func(c *Config) {
			c.Password.Hasher = "bcrypt"
			c.Password.Bcrypt.Cost = 40
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := minimalValidConfig()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatalf("%s, got nil", serr.ErrExpectedError.Error())
			}
		})
	}
}

func TestValidate_JWTConfigOK(t *testing.T) {
	cfg := minimalValidConfig()
	cfg.Auth.Token = TokenConfig{Format: TokenFormatJWT, TTL: time.Hour}
	cfg.Auth.JWT.SigningKey = testSigningKey

	require.NoError(t, cfg.Validate())
}

func TestApplyEnvOverrides(t *testing.T) {
	cfg := minimalValidConfig()

	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("DB_DSN", "postgres://localhost/db")
	t.Setenv("LOG_LEVEL", "debug")
	cfg.ApplyEnvOverrides()

	require.Equal(t, 9090, cfg.Server.Port)
	require.Equal(t, "postgres://localhost/db", cfg.DB.DSN)
	require.Equal(t, "debug", cfg.Log.Level)
}

func TestLoad_ExpandsEnv_AppliesDefaults_AndValidates(t *testing.T) {
	t.Setenv("JWT_SIGNING_KEY", testSigningKey)
	t.Setenv("SERVER_PORT", "")
	t.Setenv("DB_DSN", "")

	yml := `
env: test
server:
  host: 127.0.0.1
  port: 8081
db:
  driver: memory
auth:
  issuer: useraccounts
  token:
    format: jwt
    ttl: 15m
  jwt:
    signing_key: "${JWT_SIGNING_KEY}"
password:
  hasher: bcrypt
  bcrypt:
    cost: 10
`
	path := filepath.Join(t.TempDir(), "server.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	require.Equal(t, "test", cfg.Env)
	require.Equal(t, "127.0.0.1:8081", cfg.Addr())
	require.Equal(t, testSigningKey, cfg.Auth.JWT.SigningKey)
	require.Equal(t, 15*time.Minute, cfg.Auth.Token.TTL)
	require.Equal(t, 10, cfg.Password.Bcrypt.Cost)
	// дефолты
	require.Equal(t, "HS256", cfg.Auth.JWT.Algorithm)
	require.Equal(t, 15*time.Second, cfg.Server.ShutdownTimeout)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestParse_BadYAML(t *testing.T) {
	_, err := Parse([]byte("server: [unclosed"))
	require.Error(t, err)
}

func TestLoad_ShippedConfigParses(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://u:p@localhost:5432/db?sslmode=disable")
	t.Setenv("SERVER_PORT", "")

	cfg, err := Load(filepath.Join("..", "..", "..", "configs", "server.yaml"))
	require.NoError(t, err)
	require.Equal(t, DriverPostgres, cfg.DB.Driver)
	require.Equal(t, TokenFormatOpaque, cfg.Auth.Token.Format)
}
