package view

import (
	"embed"
	"fmt"
	"html/template"
	"io"
	"math"

	"github.com/openrecipes/ingredient-panel/internal/domain"
)

const (
	// Title is the panel heading
	Title = "Open Recipes Auth Demo"
	// NoResultsMessage is shown when a settled panel has nothing to list
	NoResultsMessage = "No ingredients found."
	// Columns is the fixed number of cards per row
	Columns = 3
)

//go:embed templates/panel.html
var templateFS embed.FS

var panelTemplate = template.Must(
	template.New("panel.html").
		Funcs(template.FuncMap{"price": FormatPrice}).
		ParseFS(templateFS, "templates/panel.html"),
)

// FormatPrice renders a price with a dollar prefix and exactly two decimals.
// Negative prices are passed through with a leading minus sign.
func FormatPrice(price float64) string {
	cents := math.Round(price * 100)
	if cents == 0 {
		// also catches negative zero
		return "$0.00"
	}
	if cents < 0 {
		return fmt.Sprintf("-$%.2f", -cents/100)
	}
	return fmt.Sprintf("$%.2f", cents/100)
}

type htmlData struct {
	Title       string
	Phase       string
	Error       string
	NoResults   string
	Ingredients []domain.Ingredient
}

// RenderHTML writes the panel page for the given state
func RenderHTML(w io.Writer, state domain.ViewState) error {
	data := htmlData{
		Title:       Title,
		Phase:       state.Phase().String(),
		Error:       state.Error,
		NoResults:   NoResultsMessage,
		Ingredients: state.Ingredients,
	}
	if err := panelTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render panel: %w", err)
	}
	return nil
}
