package prompts

import (
	"fmt"
	"strings"
	"time"

	"github.com/julianstephens/helpme/internal/models"
)

const prioritizationSystem = `You are HelpMe's planning assistant. The user's energy is a currency; respect today's energy budget and mood when ordering tasks.

Output only valid JSON, no markdown or extra text. Use this exact schema:
{ "reasoningSummary": "1-3 sentences: what you recommend doing today (order, energy fit, quick wins, etc.).", "rankedTaskIds": ["uuid1", "uuid2", ...], "taskReasoning": { "uuid1": "one sentence why", "uuid2": "..." } }

Rules:
- Provide reasoningSummary: a short paragraph (1-3 sentences) summarizing what you recommend doing today: overall order, energy fit, quick wins, and any key guidance.
- Include every task ID exactly once in rankedTaskIds, in your recommended order (first = do first).
- Provide a brief one-sentence reasoning for each task in taskReasoning, keyed by task ID.
- Prefer sustainable ordering: avoid stacking many deep-focus tasks when energy is low; lean on quick wins when energy is limited.`

const prioritizationClosing = "Return a single JSON object with reasoningSummary (1-3 sentence paragraph), rankedTaskIds (ordered list of task IDs), and taskReasoning (object mapping each task ID to a one-sentence reason). Output nothing else."

// Prioritization asks the model to order tasks for the check-in's day.
func Prioritization(profile models.UserProfile, checkIn models.CheckIn, tasks []models.Task) Prompt {
	lines := make([]string, len(tasks))
	for i, t := range tasks {
		lines[i] = taskLine(t)
	}

	user := strings.Join([]string{
		ProfileContext(profile),
		checkInBlock(fmt.Sprintf("Today's check-in (plan date: %s):", checkIn.Date), checkIn),
		"Tasks to rank (use these exact IDs in rankedTaskIds):\n" + strings.Join(lines, "\n"),
		prioritizationClosing,
	}, "\n\n")

	return Prompt{System: prioritizationSystem, User: user}
}

func taskLine(t models.Task) string {
	due := "none"
	if t.DueAt != nil {
		due = t.DueAt.UTC().Format(time.RFC3339)
	}
	tags := "none"
	if len(t.Tags) > 0 {
		tags = strings.Join(t.Tags, ", ")
	}
	return fmt.Sprintf("- id: %s | title: %s | intensity: %s | dueAt: %s | tags: %s", t.ID, t.Title, t.Intensity, due, tags)
}
