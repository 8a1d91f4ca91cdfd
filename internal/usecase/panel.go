package usecase

import (
	"context"
	"sort"
	"sync"

	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const (
	// PostalCode is the fixed location the panel searches in
	PostalCode = "98225"
	// MaxIngredients caps how many cards the panel shows
	MaxIngredients = 10
	// FetchErrorMessage is shown for every kind of load failure
	FetchErrorMessage = "Failed to fetch ingredients."
)

// Categories are the fixed categories the panel searches for
var Categories = []string{"CHICKEN", "BACON", "CHEESE"}

// SearchQuery returns the fixed request the panel issues
func SearchQuery() domain.SearchRequest {
	categories := make([]string, len(Categories))
	copy(categories, Categories)
	return domain.SearchRequest{Categories: categories, PostalCode: PostalCode}
}

// Flatten turns the nested response into one list. Categories and
// subcategories are visited in sorted key order; ingredients keep the
// server's order within a subcategory.
func Flatten(resp domain.CategorizedResponse) []domain.Ingredient {
	flat := make([]domain.Ingredient, 0, resp.Count())
	for _, category := range sortedKeys(resp) {
		subcategories := resp[category]
		for _, subcategory := range sortedKeys(subcategories) {
			flat = append(flat, subcategories[subcategory]...)
		}
	}
	return flat
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Panel holds the view state of one ingredient panel. Each panel issues at
// most one search over its lifetime.
type Panel struct {
	searcher domain.IngredientSearcher
	logger   zerolog.Logger

	mu        sync.Mutex
	state     domain.ViewState
	cause     error
	cancel    context.CancelFunc
	started   bool
	unmounted bool

	done chan struct{}
}

// NewPanel creates a panel in the loading state
func NewPanel(searcher domain.IngredientSearcher) *Panel {
	return &Panel{
		searcher: searcher,
		logger:   log.With().Str("component", "ingredient_panel").Logger(),
		state:    domain.NewLoadingState(),
		done:     make(chan struct{}),
	}
}

// State returns a copy of the current view state
func (p *Panel) State() domain.ViewState {
	p.mu.Lock()
	defer p.mu.Unlock()

	state := p.state
	state.Ingredients = append([]domain.Ingredient{}, p.state.Ingredients...)
	return state
}

// Cause returns the underlying failure of a failed load, for diagnostics only
func (p *Panel) Cause() error {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.cause
}

// Done is closed once the panel has settled or been unmounted
func (p *Panel) Done() <-chan struct{} {
	return p.done
}

// Mount starts the load in the background. Calling it again has no effect.
func (p *Panel) Mount(ctx context.Context) {
	if ctx, ok := p.begin(ctx); ok {
		go p.load(ctx)
	}
}

// LoadIngredients runs the load synchronously and returns the settled state.
// Only the first call on a panel issues a request; later calls wait for the
// first to settle.
func (p *Panel) LoadIngredients(ctx context.Context) domain.ViewState {
	if loadCtx, ok := p.begin(ctx); ok {
		p.load(loadCtx)
	}
	select {
	case <-p.done:
	case <-ctx.Done():
	}
	return p.State()
}

// Unmount cancels an in-flight load. A result arriving afterwards is dropped
// and the state stays as it was.
func (p *Panel) Unmount() {
	p.mu.Lock()
	if p.unmounted {
		p.mu.Unlock()
		return
	}
	p.unmounted = true
	cancel, started := p.cancel, p.started
	p.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	if !started {
		close(p.done)
	}
}

// begin claims the panel's single load
func (p *Panel) begin(ctx context.Context) (context.Context, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.started || p.unmounted {
		return nil, false
	}
	p.started = true
	ctx, p.cancel = context.WithCancel(ctx)
	return ctx, true
}

func (p *Panel) load(ctx context.Context) {
	defer close(p.done)

	resp, err := p.searcher.SearchIngredients(ctx, SearchQuery())

	p.mu.Lock()
	defer p.mu.Unlock()
	p.cancel()

	if p.unmounted {
		p.logger.Debug().Msg("panel unmounted before search settled, dropping result")
		return
	}

	if err != nil {
		p.logger.Error().
			Err(err).
			Str("kind", domain.KindOf(err).String()).
			Msg("failed to fetch ingredients")
		p.cause = err
		p.state = domain.ViewState{
			Ingredients: []domain.Ingredient{},
			Error:       FetchErrorMessage,
		}
		return
	}

	ingredients := Flatten(resp)
	if len(ingredients) > MaxIngredients {
		ingredients = ingredients[:MaxIngredients]
	}

	p.logger.Info().
		Int("total", resp.Count()).
		Int("shown", len(ingredients)).
		Msg("ingredients loaded")

	p.state = domain.ViewState{Ingredients: ingredients}
}
