package plans

import (
	"github.com/julianstephens/helpme/internal/cli"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/models"
)

// PlanCmd shows the plan for a day, generating it first if the day has a
// check-in but no plan yet.
type PlanCmd struct {
	Date string `arg:"" optional:"" help:"Plan date (YYYY-MM-DD). Defaults to today."`
	JSON bool   `name:"json" help:"Print the plan as JSON."`
}

func (c *PlanCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}

	planner := ctx.Planner()
	plan, err := planner.GetPlan(ctx.Ctx, ctx.OwnerID, date)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		plan, err = planner.GeneratePlan(ctx.Ctx, ctx.OwnerID, date)
	}
	if err != nil {
		return err
	}
	return show(ctx, plan, c.JSON)
}

// ReprioritizeCmd regenerates the plan for a day, replacing the stored one.
type ReprioritizeCmd struct {
	Date string `arg:"" optional:"" help:"Plan date (YYYY-MM-DD). Defaults to today."`
	JSON bool   `name:"json" help:"Print the plan as JSON."`
}

func (c *ReprioritizeCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	plan, err := ctx.Planner().GeneratePlan(ctx.Ctx, ctx.OwnerID, date)
	if err != nil {
		return err
	}
	return show(ctx, plan, c.JSON)
}

func show(ctx *cli.Context, plan models.DailyPlan, asJSON bool) error {
	if asJSON {
		return cli.PrintJSON(ctx.Writer(), plan.View())
	}
	return renderPlan(ctx, plan)
}

func renderPlan(ctx *cli.Context, plan models.DailyPlan) error {
	open, err := ctx.Tasks().ListOpen(ctx.Ctx, ctx.OwnerID)
	if err != nil {
		return err
	}
	byID := make(map[string]models.Task, len(open))
	for _, t := range open {
		byID[t.ID] = t
	}
	cli.RenderPlan(ctx.Writer(), plan, byID)
	return nil
}
