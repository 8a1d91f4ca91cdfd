package openrecipes

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const searchPath = "/search/ingredients"

// ClientOpts configures a Client
type ClientOpts struct {
	BaseURL     string
	Timeout     time.Duration
	RatePerMin  int
	TokenSource *TokenSource
}

// Client performs authenticated requests against the Open Recipes API
type Client struct {
	httpClient  *resty.Client
	tokens      *TokenSource
	rateLimiter *rate.Limiter
	logger      zerolog.Logger
}

// NewClient creates a new Open Recipes API client
func NewClient(opts ClientOpts) *Client {
	timeout := opts.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}

	perMin := opts.RatePerMin
	if perMin <= 0 {
		perMin = 60
	}
	limiter := rate.NewLimiter(rate.Every(time.Minute/time.Duration(perMin)), 5)

	httpClient := resty.New().
		SetBaseURL(strings.TrimRight(opts.BaseURL, "/")).
		SetTimeout(timeout).
		SetRetryCount(0).
		SetHeaders(map[string]string{
			"Accept":     "application/json",
			"User-Agent": "IngredientPanel/1.0",
		})

	return &Client{
		httpClient:  httpClient,
		tokens:      opts.TokenSource,
		rateLimiter: limiter,
		logger:      log.With().Str("component", "openrecipes").Logger(),
	}
}

// SetDebug toggles resty's request/response dumps
func (c *Client) SetDebug(debug bool) {
	c.httpClient.SetDebug(debug)
}

// EncodeQuery builds the search query string. Commas in the category list are
// kept literal so the request reads categories=CHICKEN,BACON,CHEESE.
func EncodeQuery(req domain.SearchRequest) string {
	params := url.Values{}
	params.Set("postalCode", req.PostalCode)
	return "categories=" + strings.Join(escapeAll(req.Categories), ",") + "&" + params.Encode()
}

func escapeAll(values []string) []string {
	escaped := make([]string, len(values))
	for i, v := range values {
		escaped[i] = url.QueryEscape(v)
	}
	return escaped
}

// SearchIngredients issues one authenticated GET to the ingredient search
// endpoint. It never retries.
func (c *Client) SearchIngredients(ctx context.Context, req domain.SearchRequest) (domain.CategorizedResponse, error) {
	if err := c.rateLimiter.Wait(ctx); err != nil {
		return nil, domain.NewFetchError(domain.KindNetwork, fmt.Errorf("rate limiter: %w", err))
	}

	if c.tokens == nil {
		return nil, domain.NewFetchError(domain.KindAuth, domain.ErrNoCredentials)
	}
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return nil, domain.NewFetchError(domain.KindAuth, err)
	}

	requestID := uuid.NewString()
	reqURL := searchPath + "?" + EncodeQuery(req)
	c.logger.Debug().Str("request_id", requestID).Str("url", reqURL).Msg("searching ingredients")

	resp, err := c.httpClient.R().
		SetContext(ctx).
		SetAuthToken(token).
		SetHeader("X-Request-ID", requestID).
		Get(reqURL)
	if err != nil {
		return nil, domain.NewFetchError(domain.KindNetwork, err)
	}

	switch status := resp.StatusCode(); {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		c.tokens.Invalidate(ctx)
		return nil, domain.NewFetchError(domain.KindAuth, fmt.Errorf("status %d", status))
	case resp.IsError() || status < 200 || status > 299:
		return nil, domain.NewFetchError(domain.KindNetwork, fmt.Errorf("status %d, body: %s", status, truncate(resp.String(), 256)))
	}

	result, err := DecodeCategorized(resp.Body())
	if err != nil {
		return nil, domain.NewFetchError(domain.KindParse, err)
	}

	c.logger.Debug().
		Str("request_id", requestID).
		Int("categories", len(result)).
		Int("ingredients", result.Count()).
		Dur("elapsed", resp.Time()).
		Msg("ingredient search complete")

	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
