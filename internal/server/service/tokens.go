package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/config"
	"github.com/IvanChernomyrdin/go-user-accounts/internal/server/crypto"
	serr "github.com/IvanChernomyrdin/go-user-accounts/internal/shared/errors"
)

// TokenIssuer выдаёт токен при входе и по токену определяет пользователя.
type TokenIssuer interface {
	Issue(ctx context.Context, userID uuid.UUID) (string, error)
	// Resolve возвращает ErrUnauthorized, если токен неизвестен, истёк или подделан.
	Resolve(ctx context.Context, token string) (uuid.UUID, error)
}

// NewTokenIssuer выбирает реализацию по auth.token.format.
func NewTokenIssuer(repo TokensRepo, cfg *config.Config) TokenIssuer {
	if cfg.Auth.Token.Format == config.TokenFormatJWT {
		return NewJWTTokens(crypto.JWTConfig{
			Issuer:     cfg.Auth.Issuer,
			Audience:   cfg.Auth.Audience,
			SigningKey: cfg.Auth.JWT.SigningKey,
			AccessTTL:  cfg.Auth.Token.TTL,
		})
	}
	return NewOpaqueTokens(repo, cfg.Auth.Token.TTL)
}

// OpaqueTokens — случайные токены, в хранилище лежит только их sha256.
type OpaqueTokens struct {
	repo TokensRepo
	ttl  time.Duration // 0 — бессрочные
	now  func() time.Time
}

func NewOpaqueTokens(repo TokensRepo, ttl time.Duration) *OpaqueTokens {
	return &OpaqueTokens{repo: repo, ttl: ttl, now: time.Now}
}

func (o *OpaqueTokens) Issue(ctx context.Context, userID uuid.UUID) (string, error) {
	token, err := crypto.NewOpaqueToken()
	if err != nil {
		return "", fmt.Errorf("%w: generate token: %v", serr.ErrInternal, err)
	}

	var expiresAt *time.Time
	if o.ttl > 0 {
		exp := o.now().Add(o.ttl)
		expiresAt = &exp
	}

	if _, err := o.repo.Create(ctx, userID, crypto.HashToken(token), expiresAt); err != nil {
		return "", err
	}
	return token, nil
}

func (o *OpaqueTokens) Resolve(ctx context.Context, token string) (uuid.UUID, error) {
	t, err := o.repo.GetByHash(ctx, crypto.HashToken(token))
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return uuid.Nil, serr.ErrUnauthorized
		}
		return uuid.Nil, err
	}
	if t.Expired(o.now()) {
		return uuid.Nil, serr.ErrUnauthorized
	}
	return t.UserID, nil
}

// PurgeExpired удаляет истёкшие токены из хранилища.
func (o *OpaqueTokens) PurgeExpired(ctx context.Context) (int64, error) {
	return o.repo.DeleteExpired(ctx, o.now())
}

// JWTTokens — самодостаточные HS256 токены, хранилище не нужно.
type JWTTokens struct {
	cfg crypto.JWTConfig
}

func NewJWTTokens(cfg crypto.JWTConfig) *JWTTokens {
	return &JWTTokens{cfg: cfg}
}

func (j *JWTTokens) Issue(_ context.Context, userID uuid.UUID) (string, error) {
	token, err := crypto.NewAccessToken(userID.String(), j.cfg)
	if err != nil {
		return "", fmt.Errorf("%w: sign token: %v", serr.ErrInternal, err)
	}
	return token, nil
}

func (j *JWTTokens) Resolve(_ context.Context, token string) (uuid.UUID, error) {
	sub, err := crypto.ParseAccessToken(token, j.cfg)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: %v", serr.ErrUnauthorized, err)
	}
	id, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%w: subject is not a user id", serr.ErrUnauthorized)
	}
	return id, nil
}
