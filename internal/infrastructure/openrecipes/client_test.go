package openrecipes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var panelRequest = domain.SearchRequest{
	Categories: []string{"CHICKEN", "BACON", "CHEESE"},
	PostalCode: "98225",
}

func newTestClient(baseURL string, creds Credentials) *Client {
	return NewClient(ClientOpts{
		BaseURL:     baseURL,
		Timeout:     2 * time.Second,
		RatePerMin:  6000,
		TokenSource: NewTokenSource(creds, nil),
	})
}

func TestNewClient(t *testing.T) {
	client := NewClient(ClientOpts{BaseURL: "https://api.example.com/"})

	assert.NotNil(t, client)
	assert.NotNil(t, client.httpClient)
	assert.NotNil(t, client.rateLimiter)
	assert.Equal(t, "https://api.example.com", client.httpClient.BaseURL)
	assert.Equal(t, 30*time.Second, client.httpClient.GetClient().Timeout)
}

func TestEncodeQuery(t *testing.T) {
	assert.Equal(t, "categories=CHICKEN,BACON,CHEESE&postalCode=98225", EncodeQuery(panelRequest))
}

func TestSearchIngredients_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/search/ingredients", r.URL.Path)
		assert.Equal(t, "CHICKEN,BACON,CHEESE", r.URL.Query().Get("categories"))
		assert.Equal(t, "98225", r.URL.Query().Get("postalCode"))
		assert.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
		assert.NotEmpty(t, r.Header.Get("X-Request-ID"))

		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"CHICKEN": {"BREAST": [
				{"name": "Chicken Breast", "category": "CHICKEN", "subcategory": "BREAST", "current_price": 5.99, "clean_image_url": "https://img.example/breast.png"}
			]},
			"BACON": {"THICK": [
				{"name": "Thick Bacon", "category": "BACON", "subcategory": "THICK", "current_price": 3, "clean_image_url": "https://img.example/bacon.png"}
			]}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL, Credentials{Token: "test-token"})

	result, err := client.SearchIngredients(context.Background(), panelRequest)

	require.NoError(t, err)
	assert.Equal(t, 2, result.Count())
	breast := result["CHICKEN"]["BREAST"][0]
	assert.Equal(t, "Chicken Breast", breast.Name)
	assert.Equal(t, 5.99, breast.CurrentPrice)
	assert.Equal(t, "https://img.example/breast.png", breast.CleanImageURL)
}

func TestSearchIngredients_Unauthorized(t *testing.T) {
	for _, status := range []int{http.StatusUnauthorized, http.StatusForbidden} {
		t.Run(http.StatusText(status), func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(status)
			}))
			defer server.Close()

			client := newTestClient(server.URL, Credentials{Token: "expired"})

			result, err := client.SearchIngredients(context.Background(), panelRequest)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, domain.ErrAuth)
			assert.Equal(t, domain.KindAuth, domain.KindOf(err))
		})
	}
}

func TestSearchIngredients_ServerError_NoRetry(t *testing.T) {
	var attempts atomic.Int32

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte("upstream exploded"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, Credentials{Token: "test-token"})

	result, err := client.SearchIngredients(context.Background(), panelRequest)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNetwork)
	assert.Contains(t, err.Error(), "status 500")
	assert.Equal(t, int32(1), attempts.Load())
}

func TestSearchIngredients_InvalidJSON(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte("invalid json"))
	}))
	defer server.Close()

	client := newTestClient(server.URL, Credentials{Token: "test-token"})

	result, err := client.SearchIngredients(context.Background(), panelRequest)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrMalformedBody)
	assert.Equal(t, domain.KindParse, domain.KindOf(err))
}

func TestSearchIngredients_WrongShape(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"top-level array", `[{"name": "not a map"}]`},
		{"null ingredient", `{"CHICKEN": {"BREAST": [null]}}`},
		{"empty ingredient object", `{"CHICKEN": {"BREAST": [{}]}}`},
		{"price is null", `{"CHICKEN": {"BREAST": [{"name": "a", "current_price": null}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(tt.body))
			}))
			defer server.Close()

			client := newTestClient(server.URL, Credentials{Token: "test-token"})

			result, err := client.SearchIngredients(context.Background(), panelRequest)

			assert.Nil(t, result)
			assert.ErrorIs(t, err, domain.ErrMalformedBody)
			assert.Equal(t, domain.KindParse, domain.KindOf(err))
		})
	}
}

func TestSearchIngredients_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := newTestClient(url, Credentials{Token: "test-token"})

	_, err := client.SearchIngredients(context.Background(), panelRequest)

	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestSearchIngredients_ContextCancelled(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client := newTestClient(server.URL, Credentials{Token: "test-token"})
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	result, err := client.SearchIngredients(ctx, panelRequest)

	assert.Nil(t, result)
	assert.ErrorIs(t, err, domain.ErrNetwork)
}

func TestSearchIngredients_NoCredentials(t *testing.T) {
	var called atomic.Bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called.Store(true)
	}))
	defer server.Close()

	client := newTestClient(server.URL, Credentials{})

	_, err := client.SearchIngredients(context.Background(), panelRequest)

	assert.ErrorIs(t, err, domain.ErrAuth)
	assert.ErrorIs(t, err, domain.ErrNoCredentials)
	assert.False(t, called.Load(), "no request should be sent without credentials")
}
