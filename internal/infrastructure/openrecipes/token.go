package openrecipes

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/rs/zerolog/log"
)

const (
	tokenIssuer   = "ingredient-panel"
	tokenAudience = "open-recipes"
	tokenLifetime = 15 * time.Minute
	// cached tokens are dropped this long before they expire
	tokenRefreshSkew = time.Minute
)

// Credentials configures how the client authenticates. A static Token wins
// over ClientID/ClientSecret.
type Credentials struct {
	Token        string
	ClientID     string
	ClientSecret string
}

// TokenSource hands out bearer tokens for the search endpoint
type TokenSource struct {
	creds Credentials
	cache domain.TokenCache
	now   func() time.Time
}

// NewTokenSource creates a token source. cache may be nil, in which case a
// fresh token is minted for every request.
func NewTokenSource(creds Credentials, cache domain.TokenCache) *TokenSource {
	return &TokenSource{
		creds: creds,
		cache: cache,
		now:   time.Now,
	}
}

func (s *TokenSource) cacheKey() string {
	return "bearer:" + s.creds.ClientID
}

// Token returns a bearer token, minting and caching one when needed
func (s *TokenSource) Token(ctx context.Context) (string, error) {
	if s.creds.Token != "" {
		return s.creds.Token, nil
	}
	if s.creds.ClientID == "" || s.creds.ClientSecret == "" {
		return "", domain.ErrNoCredentials
	}

	if s.cache != nil {
		token, err := s.cache.Get(ctx, s.cacheKey())
		if err == nil {
			return token, nil
		}
		if !errors.Is(err, domain.ErrCacheMiss) {
			log.Warn().Err(err).Str("component", "openrecipes").Msg("token cache unavailable")
		}
	}

	token, err := s.mint()
	if err != nil {
		return "", err
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, s.cacheKey(), token, tokenLifetime-tokenRefreshSkew); err != nil {
			log.Warn().Err(err).Str("component", "openrecipes").Msg("failed to cache token")
		}
	}

	return token, nil
}

// Invalidate drops a cached token, used after the server rejects it
func (s *TokenSource) Invalidate(ctx context.Context) {
	if s.cache == nil || s.creds.Token != "" {
		return
	}
	if err := s.cache.Delete(ctx, s.cacheKey()); err != nil {
		log.Warn().Err(err).Str("component", "openrecipes").Msg("failed to drop cached token")
	}
}

func (s *TokenSource) mint() (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Issuer:    tokenIssuer,
		Subject:   s.creds.ClientID,
		Audience:  jwt.ClaimStrings{tokenAudience},
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(tokenLifetime)),
		ID:        uuid.NewString(),
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.creds.ClientSecret))
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}
