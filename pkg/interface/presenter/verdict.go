package presenter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/WangYihang/domain-triage/pkg/domain/entity"
)

// DefaultWidth is used when the terminal width is unknown
const DefaultWidth = 80

var statusColors = map[entity.Status]lipgloss.Color{
	entity.StatusUnregistered:        lipgloss.Color("#999999"),
	entity.StatusRegistrationUnknown: lipgloss.Color("#874BFD"),
	entity.StatusForSale:             lipgloss.Color("#FF6B6B"),
	entity.StatusLive:                lipgloss.Color("#04B575"),
	entity.StatusTakenNoSite:         lipgloss.Color("#4ECDC4"),
	entity.StatusInconclusive:        lipgloss.Color("#FFA500"),
}

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	titleStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
)

// RenderVerdict renders a verdict as a bordered card no wider than width
func RenderVerdict(v *entity.Verdict, width int) string {
	if width <= 0 {
		width = DefaultWidth
	}
	color, ok := statusColors[v.Status]
	if !ok {
		color = lipgloss.Color("#7D56F4")
	}

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(color).
		Padding(1, 2).
		Width(min(width, DefaultWidth) - 2) // Adjust for border

	lines := []string{
		titleStyle.Foreground(color).Render(v.Label),
		"",
		labelStyle.Render("Domain:     ") + v.Domain,
	}
	if v.Registrable != "" && v.Registrable != v.Domain {
		lines = append(lines, labelStyle.Render("Registered: ")+v.Registrable)
	}
	if v.Scored {
		lines = append(lines, labelStyle.Render("Confidence: ")+fmt.Sprintf("%d%%", v.Confidence))
	}
	lines = append(lines, labelStyle.Render("Rule:       ")+v.Rule)

	lines = append(lines, "", "Reasoning")
	for _, reason := range v.Reasoning {
		lines = append(lines, fmt.Sprintf("  • %s", reason))
	}

	if len(v.WhyNotFull) > 0 {
		lines = append(lines, "", "Why not 100%")
		for _, caveat := range v.WhyNotFull {
			lines = append(lines, fmt.Sprintf("  • %s", caveat))
		}
	}

	if !v.CheckedAt.IsZero() {
		lines = append(lines, "", labelStyle.Render("Checked at "+v.CheckedAt.Format("2006-01-02 15:04:05 MST")))
	}

	return cardStyle.Render(strings.Join(lines, "\n"))
}
