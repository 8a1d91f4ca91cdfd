package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/openrecipes/ingredient-panel/internal/domain"
	"github.com/openrecipes/ingredient-panel/internal/usecase"
	"github.com/openrecipes/ingredient-panel/internal/view"
)

// settledMsg carries the panel state once its single load finishes
type settledMsg struct {
	state domain.ViewState
}

// Model is the terminal view of one ingredient panel
type Model struct {
	ctx     context.Context
	panel   *usecase.Panel
	spinner spinner.Model
	state   domain.ViewState
}

// NewModel wraps a panel that has not been mounted yet
func NewModel(ctx context.Context, panel *usecase.Panel) Model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))

	return Model{
		ctx:     ctx,
		panel:   panel,
		spinner: s,
		state:   panel.State(),
	}
}

// Init mounts the panel, which issues its one request
func (m Model) Init() tea.Cmd {
	m.panel.Mount(m.ctx)
	return tea.Batch(m.spinner.Tick, waitForSettle(m.panel))
}

func waitForSettle(panel *usecase.Panel) tea.Cmd {
	return func() tea.Msg {
		<-panel.Done()
		return settledMsg{state: panel.State()}
	}
}

// Update handles all messages
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case settledMsg:
		m.state = msg.state
		return m, nil

	case spinner.TickMsg:
		if m.state.Loading {
			var cmd tea.Cmd
			m.spinner, cmd = m.spinner.Update(msg)
			return m, cmd
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			m.panel.Unmount()
			return m, tea.Quit
		}
	}

	return m, nil
}

// View renders the panel
func (m Model) View() string {
	return view.RenderText(m.state, m.spinner.View()) + "\n" + helpStyle.Render("q: quit")
}

// State returns the state the model is currently showing
func (m Model) State() domain.ViewState {
	return m.state
}

var helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
