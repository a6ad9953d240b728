package plans

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/tui"
)

// TodayCmd opens the interactive dashboard for today's plan.
type TodayCmd struct{}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	// Snapshot before the session starts completing tasks.
	ctx.PerformAutomaticBackup()

	m := tui.NewModel(ctx.Ctx, ctx.Planner(), ctx.Tasks(), ctx.OwnerID, ctx.Today())
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx.Ctx))
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("dashboard error: %w", err)
	}
	return nil
}
