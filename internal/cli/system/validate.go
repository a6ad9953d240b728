package system

import (
	"fmt"

	"github.com/julianstephens/helpme/internal/cli"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/validation"
)

type ValidateCmd struct {
	Date string `arg:"" optional:"" help:"Plan date (YYYY-MM-DD). Defaults to today."`
}

func (c *ValidateCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	res, found, err := validatePlan(ctx, date)
	if err != nil {
		return err
	}
	w := ctx.Writer()
	if !found {
		fmt.Fprintf(w, "No plan for %s.\n", date)
		return nil
	}
	fmt.Fprintln(w, res.FormatReport())
	if res.HasProblems() {
		return fmt.Errorf("plan for %s has %d problem(s)", date, len(res.Problems))
	}
	return nil
}

// validatePlan checks the stored plan for date. found is false when there
// is no plan.
func validatePlan(ctx *cli.Context, date string) (validation.Result, bool, error) {
	plan, err := ctx.Planner().GetPlan(ctx.Ctx, ctx.OwnerID, date)
	if apperrors.Is(err, apperrors.CodeNotFound) {
		return validation.Result{}, false, nil
	}
	if err != nil {
		return validation.Result{}, false, err
	}

	owned := make(map[string]bool, len(plan.RankedTaskIDs))
	for _, id := range plan.RankedTaskIDs {
		task, err := ctx.Store.GetTask(ctx.Ctx, id)
		if err == nil && task.OwnerID == ctx.OwnerID {
			owned[id] = true
		}
	}
	return validation.New().Plan(plan, owned), true, nil
}
