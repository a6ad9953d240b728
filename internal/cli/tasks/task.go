package tasks

import (
	"fmt"
	"strings"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/validation"
)

type TaskAddCmd struct {
	Title     string   `arg:"" help:"Task title."`
	Intensity string   `help:"DeepFocus, Routine, QuickWin or Meeting." default:"Routine"`
	Due       string   `help:"Due date (YYYY-MM-DD) or timestamp (RFC3339)."`
	Tags      []string `help:"Comma-separated tags." sep:","`
}

func (c *TaskAddCmd) Run(ctx *cli.Context) error {
	task, err := ctx.Tasks().Add(ctx.Ctx, ctx.OwnerID, validation.TaskInput{
		Title:     c.Title,
		Intensity: c.Intensity,
		Due:       c.Due,
		Tags:      c.Tags,
	})
	if err != nil {
		return err
	}

	fmt.Fprintf(ctx.Writer(), "✓ Added task %q (%s)\n  id: %s\n", task.Title, task.Intensity, task.ID)
	fmt.Fprintln(ctx.Writer(), "  Run 'helpme reprioritize' to fold it into today's plan.")
	return nil
}

type TaskListCmd struct {
	JSON bool `name:"json" help:"Print tasks as JSON."`
}

func (c *TaskListCmd) Run(ctx *cli.Context) error {
	open, err := ctx.Tasks().ListOpen(ctx.Ctx, ctx.OwnerID)
	if err != nil {
		return err
	}

	w := ctx.Writer()
	if c.JSON {
		if open == nil {
			open = []models.Task{}
		}
		return cli.PrintJSON(w, open)
	}
	if len(open) == 0 {
		fmt.Fprintln(w, "No open tasks.")
		return nil
	}
	for _, t := range open {
		line := fmt.Sprintf("%s  %-9s  %s", t.ID, t.Intensity, t.Title)
		if t.DueAt != nil {
			line += "  (due " + t.DueAt.Local().Format("2006-01-02 15:04") + ")"
		}
		if len(t.Tags) > 0 {
			line += "  #" + strings.Join(t.Tags, " #")
		}
		fmt.Fprintln(w, line)
	}
	return nil
}
