// Package prompts renders the instructions sent to the text-completion
// service. Output is plain text; nothing here talks to the network.
package prompts

import (
	"fmt"
	"strings"

	"github.com/julianstephens/helpme/internal/models"
)

// Prompt is a system instruction plus a single user message.
type Prompt struct {
	System string
	User   string
}

// ProfileContext describes the owner so rankings can respect working
// hours and focus period.
func ProfileContext(p models.UserProfile) string {
	var b strings.Builder
	b.WriteString("User Profile:\n")
	fmt.Fprintf(&b, "- Name: %s\n", p.DisplayName)
	fmt.Fprintf(&b, "- Role: %s\n", p.Role)
	fmt.Fprintf(&b, "- Working Hours: %s to %s\n", models.FormatMinutes(p.WorkingStartMinutes), models.FormatMinutes(p.WorkingEndMinutes))
	fmt.Fprintf(&b, "- Primary Focus Period: %s", p.PrimaryFocusPeriod)
	if p.Bio != nil && strings.TrimSpace(*p.Bio) != "" {
		fmt.Fprintf(&b, "\n- About: %s", strings.TrimSpace(*p.Bio))
	}
	return b.String()
}

func checkInBlock(heading string, c models.CheckIn) string {
	return fmt.Sprintf("%s\n- Rest quality (1-10): %d\n- Morning mood: %s\n- Energy budget (points): %d",
		heading, c.RestQuality, c.Mood, c.EnergyBudget)
}
