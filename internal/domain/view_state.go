package domain

// Phase is the rendering branch derived from a ViewState
type Phase int

const (
	PhaseLoading Phase = iota
	PhaseFailed
	PhaseEmpty
	PhaseLoaded
)

func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseFailed:
		return "failed"
	case PhaseEmpty:
		return "empty"
	case PhaseLoaded:
		return "loaded"
	default:
		return "unknown"
	}
}

// ViewState is the panel's render-relevant state
type ViewState struct {
	Ingredients []Ingredient `json:"ingredients"`
	Error       string       `json:"error,omitempty"`
	Loading     bool         `json:"loading"`
}

// NewLoadingState returns the state a panel starts in
func NewLoadingState() ViewState {
	return ViewState{Ingredients: []Ingredient{}, Loading: true}
}

// Phase reports which of the four rendering branches applies
func (s ViewState) Phase() Phase {
	switch {
	case s.Loading:
		return PhaseLoading
	case s.Error != "":
		return PhaseFailed
	case len(s.Ingredients) == 0:
		return PhaseEmpty
	default:
		return PhaseLoaded
	}
}

// Settled reports whether the load has finished, successfully or not
func (s ViewState) Settled() bool {
	return !s.Loading
}
