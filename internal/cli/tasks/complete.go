package tasks

import (
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/models"
)

// CompleteCmd marks a task done and charges its energy cost to today.
type CompleteCmd struct {
	TaskID   string `arg:"" help:"Id of the task to complete."`
	Capacity string `help:"How you feel afterwards: Fresh, Neutral, Tired or Taxed. Asked for when omitted."`
	JSON     bool   `name:"json" help:"Print the result as JSON."`
}

func (c *CompleteCmd) Run(ctx *cli.Context) error {
	capacity, err := c.capacity()
	if err != nil {
		return err
	}

	svc := ctx.Tasks()
	done, err := svc.Complete(ctx.Ctx, ctx.OwnerID, c.TaskID, capacity)
	if err != nil {
		return err
	}

	w := ctx.Writer()
	if c.JSON {
		return cli.PrintJSON(w, struct {
			Task             models.Task `json:"task"`
			Deducted         int         `json:"deducted"`
			EnergyNotTracked bool        `json:"energyNotTracked"`
			Date             string      `json:"date"`
		}{done.Task, done.Deducted, done.EnergyNotTracked, done.Date})
	}

	fmt.Fprintf(w, "✓ Completed %q\n", done.Task.Title)
	if done.EnergyNotTracked {
		cli.Warn(w, "energy not tracked: no check-in for %s", done.Date)
		return nil
	}
	remaining, err := svc.Remaining(ctx.Ctx, ctx.OwnerID, done.Date)
	if err != nil {
		return err
	}
	fmt.Fprintf(w, "  -%d energy\n", done.Deducted)
	cli.RenderEnergy(w, done.Date, remaining)
	return nil
}

func (c *CompleteCmd) capacity() (models.Mood, error) {
	if c.Capacity != "" {
		return models.ParseMood(c.Capacity)
	}

	capacity := models.MoodNeutral
	options := make([]huh.Option[models.Mood], 0, len(models.AllMoods))
	for _, m := range models.AllMoods {
		options = append(options, huh.NewOption(m.Label(), m))
	}
	err := huh.NewSelect[models.Mood]().
		Title("How do you feel after this task?").
		Options(options...).
		Value(&capacity).
		Run()
	if err != nil {
		return "", fmt.Errorf("interactive form error: %w", err)
	}
	return capacity, nil
}

// EnergyCmd shows the energy budget left for a day.
type EnergyCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
	JSON bool   `name:"json" help:"Print as JSON."`
}

func (c *EnergyCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	remaining, err := ctx.Tasks().Remaining(ctx.Ctx, ctx.OwnerID, date)
	if err != nil {
		return err
	}

	w := ctx.Writer()
	if c.JSON {
		return cli.PrintJSON(w, remaining)
	}
	if remaining.EnergyBudget == 0 {
		fmt.Fprintf(w, "No check-in for %s. Run 'helpme checkin' to set today's budget.\n", date)
		return nil
	}
	cli.RenderEnergy(w, date, remaining)
	return nil
}
