package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/models"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case StatePlan:
		content = docStyle.Render(m.planModel.View())
	case StateTasks:
		content = docStyle.Render(m.taskList.View())
	case StateCapacity:
		content = m.viewCapacity()
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewTabs(),
		m.viewEnergy(),
		content,
		m.viewStatus(),
		m.help.View(m),
	)
}

func (m Model) viewTabs() string {
	var tabs []string
	active := m.state
	if active == StateCapacity {
		active = StateTasks
	}
	for i, title := range []string{"Plan", "Tasks"} {
		if active == SessionState(i) {
			tabs = append(tabs, activeTabStyle.Render(title))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(title))
		}
	}
	tabs = append(tabs, inactiveTabStyle.Render(m.date))
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewEnergy() string {
	if m.energy.EnergyBudget == 0 {
		return statusStyle.Render(" No check-in yet, energy is not tracked")
	}
	return fmt.Sprintf(" %s %d/%d", cli.EnergyBar(m.energy), m.energy.Remaining, m.energy.EnergyBudget)
}

func (m Model) viewStatus() string {
	if m.err != nil {
		return dangerStyle.Render(" " + m.err.Error())
	}
	return statusStyle.Render(" " + m.status)
}

func (m Model) viewCapacity() string {
	title := ""
	if m.completing != nil {
		title = m.completing.Title
	}
	lines := []string{fmt.Sprintf("How do you feel after %q?", title), ""}
	for i, mood := range models.AllMoods {
		lines = append(lines, fmt.Sprintf("[%d] %s", i+1, mood.Label()))
	}
	lines = append(lines, "", "[esc] Cancel")
	return lipgloss.Place(m.width, max(m.height-chrome, len(lines)),
		lipgloss.Center, lipgloss.Center,
		lipgloss.JoinVertical(lipgloss.Center, strings.Join(lines, "\n")),
	)
}
