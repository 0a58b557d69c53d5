package presenter

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
)

type verdictMsg struct {
	verdict *entity.Verdict
}

// Spinner shows progress while a single classification runs
type Spinner struct {
	spinner spinner.Model
	domain  string
	run     func() *entity.Verdict
	cancel  context.CancelFunc
	verdict *entity.Verdict
}

// NewSpinner creates a spinner model. run performs the classification and
// cancel aborts it when the user quits early.
func NewSpinner(domain string, run func() *entity.Verdict, cancel context.CancelFunc) *Spinner {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("#7D56F4"))
	return &Spinner{
		spinner: s,
		domain:  domain,
		run:     run,
		cancel:  cancel,
	}
}

// Init starts the spinner and the classification
func (s *Spinner) Init() tea.Cmd {
	return tea.Batch(s.spinner.Tick, s.classify)
}

func (s *Spinner) classify() tea.Msg {
	return verdictMsg{verdict: s.run()}
}

// Update handles spinner updates
func (s *Spinner) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			if s.cancel != nil {
				s.cancel()
			}
			return s, tea.Quit
		}

	case verdictMsg:
		s.verdict = msg.verdict
		return s, tea.Quit

	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd
	}

	return s, nil
}

// View renders the spinner, or nothing once the verdict has arrived
func (s *Spinner) View() string {
	if s.verdict != nil {
		return ""
	}
	return s.spinner.View() + " Classifying " + s.domain + "...\n"
}

// Verdict returns the verdict, nil if the user quit before it arrived
func (s *Spinner) Verdict() *entity.Verdict {
	return s.verdict
}
