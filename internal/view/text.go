package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/openrecipes/ingredient-panel/internal/domain"
)

const cardWidth = 28

var (
	titleStyle = lipgloss.NewStyle().Bold(true).MarginBottom(1)
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	labelStyle = lipgloss.NewStyle().Bold(true)
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	cardStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("7")).
			Padding(0, 1).
			Width(cardWidth).
			Align(lipgloss.Center)
)

// RenderText renders the panel for a terminal. spinner is the current
// loading frame and is only drawn while loading.
func RenderText(state domain.ViewState, spinner string) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(Title))
	b.WriteString("\n")

	switch state.Phase() {
	case domain.PhaseLoading:
		b.WriteString(spinner + " Loading...")
	case domain.PhaseFailed:
		b.WriteString(errorStyle.Render(state.Error))
	case domain.PhaseEmpty:
		b.WriteString(mutedStyle.Render(NoResultsMessage))
	default:
		b.WriteString(renderGrid(state.Ingredients))
	}

	b.WriteString("\n")
	return b.String()
}

func renderGrid(ingredients []domain.Ingredient) string {
	rows := make([]string, 0, (len(ingredients)+Columns-1)/Columns)
	for start := 0; start < len(ingredients); start += Columns {
		end := min(start+Columns, len(ingredients))
		cards := make([]string, 0, Columns)
		for _, ing := range ingredients[start:end] {
			cards = append(cards, renderCard(ing))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cards...))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderCard(ing domain.Ingredient) string {
	lines := []string{
		nameStyle.Render(ing.Name),
		labelStyle.Render("Category:") + " " + ing.Category,
		labelStyle.Render("Subcategory:") + " " + ing.Subcategory,
		labelStyle.Render("Price:") + " " + FormatPrice(ing.CurrentPrice),
		mutedStyle.Render(ing.CleanImageURL),
	}
	return cardStyle.Render(strings.Join(lines, "\n"))
}
