package plan

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/helpme/internal/models"
)

var (
	rankStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Width(4)

	taskStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Bold(true)

	reasonStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240")).
			Italic(true)
)

// Model shows the ranked plan in a scrollable viewport.
type Model struct {
	viewport viewport.Model
	Plan     *models.DailyPlan
	Tasks    map[string]models.Task
}

func New(width, height int) Model {
	return Model{
		viewport: viewport.New(width, height),
		Tasks:    make(map[string]models.Task),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if m.Plan == nil {
		return "No plan for today. Run 'helpme checkin' first."
	}
	return m.viewport.View()
}

func (m *Model) SetSize(width, height int) {
	m.viewport.Width = width
	m.viewport.Height = height
	m.Render()
}

// SetPlan replaces the plan and the open tasks it is rendered against.
func (m *Model) SetPlan(plan *models.DailyPlan, tasks []models.Task) {
	m.Plan = plan
	m.Tasks = make(map[string]models.Task, len(tasks))
	for _, t := range tasks {
		m.Tasks[t.ID] = t
	}
	m.Render()
}

func (m *Model) Render() {
	m.viewport.SetContent(m.Content())
}

// Content is the plan as text, one ranked task per block.
func (m Model) Content() string {
	if m.Plan == nil {
		return "No plan loaded."
	}
	if m.Plan.Empty() {
		return "Nothing to plan. Every task is done."
	}

	var b strings.Builder
	if m.Plan.ReasoningSummary != nil {
		b.WriteString(reasonStyle.Render(*m.Plan.ReasoningSummary))
		b.WriteString("\n\n")
	}
	for i, id := range m.Plan.RankedTaskIDs {
		name := id + " (done)"
		if t, ok := m.Tasks[id]; ok {
			name = fmt.Sprintf("%s [%s]", t.Title, t.Intensity)
		}
		fmt.Fprintf(&b, "%s%s\n", rankStyle.Render(fmt.Sprintf("%d.", i+1)), taskStyle.Render(name))
		if reason := m.Plan.TaskReasoning[id]; reason != "" {
			fmt.Fprintf(&b, "%s%s\n", rankStyle.Render(""), reasonStyle.Render(reason))
		}
	}
	return b.String()
}
