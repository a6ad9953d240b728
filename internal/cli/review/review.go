package review

import (
	"fmt"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/utils"
)

// SummaryCmd writes the evening reflection for a day.
type SummaryCmd struct {
	Date string `arg:"" optional:"" help:"Date (YYYY-MM-DD). Defaults to today."`
}

func (c *SummaryCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	checkIn, err := ctx.Reflection().EveningSummary(ctx.Ctx, ctx.OwnerID, date)
	if err != nil {
		return err
	}
	cli.RenderCheckIn(ctx.Writer(), checkIn)
	return nil
}

// TrendsCmd reports the last N days and, with a model configured, a
// one-line insight drawn from them.
type TrendsCmd struct {
	Days int  `help:"Number of days to include, ending today." default:"7"`
	JSON bool `name:"json" help:"Print the report as JSON."`
}

func (c *TrendsCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	to := ctx.Today()
	from, err := utils.AddDays(to, -(c.Days - 1))
	if err != nil {
		return err
	}

	svc := ctx.Reflection()
	rows, err := svc.DailyReport(ctx.Ctx, ctx.OwnerID, from, to)
	if err != nil {
		return err
	}

	var insight *string
	if ctx.Model != nil {
		text, err := svc.SuccessInsight(ctx.Ctx, ctx.OwnerID, rows)
		if err != nil {
			return err
		}
		insight = &text
	}

	w := ctx.Writer()
	if c.JSON {
		if rows == nil {
			rows = []models.DailyReportRow{}
		}
		return cli.PrintJSON(w, struct {
			From    string                  `json:"from"`
			To      string                  `json:"to"`
			Rows    []models.DailyReportRow `json:"rows"`
			Insight *string                 `json:"insight"`
		}{from, to, rows, insight})
	}

	fmt.Fprintf(w, "%s to %s\n\n", from, to)
	cli.RenderReport(w, rows)
	if insight != nil {
		fmt.Fprintf(w, "\n💡 %s\n", *insight)
	}
	return nil
}
