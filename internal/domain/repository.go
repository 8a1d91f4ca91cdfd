package domain

import (
	"context"
	"time"
)

// TokenCache defines the interface for storing bearer tokens between requests
type TokenCache interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key string, value string, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// IngredientSearcher defines the authenticated fetch of the ingredient search endpoint
type IngredientSearcher interface {
	SearchIngredients(ctx context.Context, req SearchRequest) (CategorizedResponse, error)
}
