package prompts

import (
	"fmt"
	"strings"

	"github.com/julianstephens/helpme/internal/models"
)

const eveningSystem = `You are HelpMe's reflection assistant. The user tracks energy and tasks. Given a day's check-in and what they completed, write a short end-of-day summary.

Output only plain text: 2-3 sentences total. No bullet points, no JSON, no markdown.
- One sentence: what went well (output, energy use, or rest).
- One sentence: what was hard or could improve (if nothing notable, say something brief and kind).
- One optional brief takeaway or encouragement for tomorrow.

Tone: supportive, human-first, concise. Do not lecture.`

const insightSystem = `You are HelpMe's analytics assistant. Given a short series of daily data (rest quality 1-10, tasks completed, energy used), output exactly one concise sentence that states a simple correlation or insight: e.g. "Your output increases when rest is above 7/10" or "On low-rest days you completed fewer tasks."

Output only that one sentence. No preamble, no bullet points, no JSON. Plain text only.`

// NoDataInsight is what the model is asked to echo when there is nothing
// to correlate yet.
const NoDataInsight = "Log a few days of check-ins and tasks to see insights."

// EveningSummary asks for a 2-3 sentence reflection on a finished day.
func EveningSummary(checkIn models.CheckIn, completed []models.Task, energyUsed int) Prompt {
	day := checkInBlock("Day: "+checkIn.Date, checkIn)
	if checkIn.SleepNotes != nil && strings.TrimSpace(*checkIn.SleepNotes) != "" {
		day += "\n- Sleep notes: " + strings.TrimSpace(*checkIn.SleepNotes)
	}

	tasks := "Tasks completed: none recorded."
	if len(completed) > 0 {
		lines := make([]string, len(completed))
		for i, t := range completed {
			lines[i] = fmt.Sprintf("- %s (%s)", t.Title, t.Intensity)
		}
		tasks = fmt.Sprintf("Tasks completed (%d):\n%s", len(completed), strings.Join(lines, "\n"))
	}
	energy := fmt.Sprintf("Energy used (points): %d of %d budget.", energyUsed, checkIn.EnergyBudget)

	user := day + "\n\n" + tasks + "\n" + energy + "\n\nWrite the 2-3 sentence end-of-day summary (plain text only)."
	return Prompt{System: eveningSystem, User: user}
}

// SuccessInsight asks for one sentence correlating rest with output.
func SuccessInsight(rows []models.DailyReportRow) Prompt {
	if len(rows) == 0 {
		return Prompt{System: insightSystem, User: fmt.Sprintf("No daily data. Reply with: %q", NoDataInsight)}
	}

	lines := make([]string, len(rows))
	for i, r := range rows {
		lines[i] = fmt.Sprintf("%s: rest %d/10, tasks done %d, energy used %d/%d",
			r.Date, r.RestQuality, r.TasksCompletedCount, r.EnergyUsed, r.EnergyBudget)
	}
	user := "Daily data (rest, tasks completed, energy used):\n" + strings.Join(lines, "\n") + "\n\nOne sentence correlation or insight:"
	return Prompt{System: insightSystem, User: user}
}
