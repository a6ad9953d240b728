package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/helpme/internal/constants"
	"github.com/julianstephens/helpme/internal/models"
)

var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205")).
			Bold(true)

	mutedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	summaryStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252")).
			Italic(true).
			PaddingLeft(2)

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")).
			Italic(true)

	barFullStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	barEmptyStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("236"))

	intensityStyles = map[models.Intensity]lipgloss.Style{
		models.IntensityDeepFocus: lipgloss.NewStyle().Foreground(lipgloss.Color("99")),
		models.IntensityRoutine:   lipgloss.NewStyle().Foreground(lipgloss.Color("75")),
		models.IntensityQuickWin:  lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		models.IntensityMeeting:   lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
	}
)

const barWidth = 20

// PrintJSON writes v as indented JSON.
func PrintJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// Warn prints a highlighted, non-fatal notice.
func Warn(w io.Writer, format string, args ...any) {
	fmt.Fprintln(w, warningStyle.Render("⚠ "+fmt.Sprintf(format, args...)))
}

// RenderPlan prints the ranked plan. tasks resolves ids to titles; ids it
// does not know (completed since the plan was made) are shown as such.
func RenderPlan(w io.Writer, plan models.DailyPlan, tasks map[string]models.Task) {
	fmt.Fprintln(w, titleStyle.Render("Plan for "+plan.PlanDate))
	fmt.Fprintln(w, mutedStyle.Render(fmt.Sprintf("Energy budget %d • %s", plan.EnergyBudget, algorithmLabel(plan.AlgorithmVersion))))
	if plan.ReasoningSummary != nil && *plan.ReasoningSummary != "" {
		fmt.Fprintln(w, summaryStyle.Render(*plan.ReasoningSummary))
	}
	fmt.Fprintln(w)

	if plan.Empty() {
		fmt.Fprintln(w, "No open tasks. Add one with 'helpme task add'.")
		return
	}

	for i, id := range plan.RankedTaskIDs {
		task, ok := tasks[id]
		if !ok {
			fmt.Fprintf(w, "%2d. %s\n", i+1, mutedStyle.Render(id+" (no longer open)"))
			continue
		}
		fmt.Fprintf(w, "%2d. %s %s%s\n", i+1, task.Title, intensityLabel(task.Intensity), dueLabel(task))
		if reason := plan.TaskReasoning[id]; reason != "" {
			fmt.Fprintf(w, "    %s\n", mutedStyle.Render(reason))
		}
		fmt.Fprintf(w, "    %s\n", mutedStyle.Render("id: "+id))
	}
}

func algorithmLabel(version string) string {
	switch version {
	case constants.AlgorithmVersionLLM:
		return "model ranked"
	case constants.AlgorithmVersionHeuristic:
		return "heuristic"
	default:
		return version
	}
}

func intensityLabel(i models.Intensity) string {
	style, ok := intensityStyles[i]
	if !ok {
		return "[" + string(i) + "]"
	}
	return style.Render("[" + string(i) + "]")
}

func dueLabel(t models.Task) string {
	if t.DueAt == nil {
		return ""
	}
	return mutedStyle.Render(" due " + t.DueAt.Local().Format("2006-01-02 15:04"))
}

// RenderEnergy prints the remaining-energy gauge for date.
func RenderEnergy(w io.Writer, date string, e models.RemainingEnergy) {
	fmt.Fprintln(w, titleStyle.Render("Energy for "+date))
	fmt.Fprintf(w, "%s %d/%d remaining (%d used)\n", EnergyBar(e), e.Remaining, e.EnergyBudget, e.TotalDeducted)
}

// EnergyBar draws remaining energy as a fixed-width bar.
func EnergyBar(e models.RemainingEnergy) string {
	filled := 0
	if e.EnergyBudget > 0 {
		filled = e.Remaining * barWidth / e.EnergyBudget
	}
	if filled > barWidth {
		filled = barWidth
	}
	return barFullStyle.Render(strings.Repeat("█", filled)) +
		barEmptyStyle.Render(strings.Repeat("░", barWidth-filled))
}

func RenderCheckIn(w io.Writer, c models.CheckIn) {
	fmt.Fprintln(w, titleStyle.Render("Check-in for "+c.Date))
	fmt.Fprintf(w, "Rest quality: %d/10\n", c.RestQuality)
	fmt.Fprintf(w, "Mood:         %s\n", c.Mood.Label())
	fmt.Fprintf(w, "Energy:       %d\n", c.EnergyBudget)
	if c.SleepNotes != nil {
		fmt.Fprintf(w, "Notes:        %s\n", *c.SleepNotes)
	}
	if c.EveningSummary != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, summaryStyle.Render(*c.EveningSummary))
	}
}

func RenderProfile(w io.Writer, p models.UserProfile) {
	fmt.Fprintln(w, titleStyle.Render(p.DisplayName))
	fmt.Fprintf(w, "Role:          %s\n", p.Role)
	fmt.Fprintf(w, "Working hours: %s-%s\n", models.FormatMinutes(p.WorkingStartMinutes), models.FormatMinutes(p.WorkingEndMinutes))
	fmt.Fprintf(w, "Focus period:  %s\n", p.PrimaryFocusPeriod)
	fmt.Fprintf(w, "Time zone:     %s\n", p.TimeZone)
	if p.Bio != nil {
		fmt.Fprintf(w, "Bio:           %s\n", *p.Bio)
	}
}

// RenderReport prints one line per reported day.
func RenderReport(w io.Writer, rows []models.DailyReportRow) {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No check-ins in this period.")
		return
	}
	header := fmt.Sprintf("%-10s  %4s  %6s  %4s  %5s  %4s", "Date", "Rest", "Budget", "Used", "Tasks", "Deep")
	fmt.Fprintln(w, titleStyle.Render(header))
	for _, r := range rows {
		fmt.Fprintf(w, "%-10s  %4d  %6d  %4d  %5d  %4d\n",
			r.Date, r.RestQuality, r.EnergyBudget, r.EnergyUsed, r.TasksCompletedCount, r.DeepFocusCount)
	}
}
