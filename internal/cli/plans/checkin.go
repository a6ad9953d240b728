package plans

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/constants"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/validation"
)

// CheckInCmd records the morning check-in and generates the day's plan.
// Missing rest or mood values are asked for interactively.
type CheckInCmd struct {
	Date  string `help:"Check-in date (YYYY-MM-DD). Defaults to today."`
	Rest  int    `help:"Rest quality from 1 to 10."`
	Mood  string `help:"Morning mood: Fresh, Neutral, Tired or Taxed."`
	Notes string `help:"Optional sleep notes."`
	JSON  bool   `name:"json" help:"Print the check-in and plan as JSON."`
}

func (c *CheckInCmd) Run(ctx *cli.Context) error {
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	if c.Rest == 0 || c.Mood == "" {
		if err := c.prompt(); err != nil {
			return err
		}
	}

	out, err := ctx.CheckIns().Submit(ctx.Ctx, ctx.OwnerID, validation.CheckInInput{
		Date:        date,
		RestQuality: c.Rest,
		Mood:        c.Mood,
		SleepNotes:  c.Notes,
	})
	if err != nil {
		return err
	}

	w := ctx.Writer()
	if c.JSON {
		payload := struct {
			CheckIn   models.CheckIn   `json:"checkIn"`
			Plan      *models.PlanView `json:"plan"`
			PlanError *string          `json:"planError"`
		}{CheckIn: out.CheckIn}
		if out.Plan != nil {
			view := out.Plan.View()
			payload.Plan = &view
		}
		if out.PlanErr != nil {
			msg := out.PlanErr.Error()
			payload.PlanError = &msg
		}
		return cli.PrintJSON(w, payload)
	}

	cli.RenderCheckIn(w, out.CheckIn)
	fmt.Fprintln(w)
	if out.PlanErr != nil {
		cli.Warn(w, "check-in saved, but the plan could not be generated: %v", out.PlanErr)
		return nil
	}
	return renderPlan(ctx, *out.Plan)
}

func (c *CheckInCmd) prompt() error {
	rest := ""
	if c.Rest != 0 {
		rest = strconv.Itoa(c.Rest)
	}
	mood := models.Mood(c.Mood)
	if !mood.Valid() {
		mood = models.MoodNeutral
	}

	moodOptions := make([]huh.Option[models.Mood], 0, len(models.AllMoods))
	for _, m := range models.AllMoods {
		moodOptions = append(moodOptions, huh.NewOption(m.Label(), m))
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title(fmt.Sprintf("How well did you rest? (%d-%d)", constants.MinRestQuality, constants.MaxRestQuality)).
				Value(&rest).
				Validate(func(s string) error {
					n, err := strconv.Atoi(s)
					if err != nil || n < constants.MinRestQuality || n > constants.MaxRestQuality {
						return fmt.Errorf("enter a number from %d to %d", constants.MinRestQuality, constants.MaxRestQuality)
					}
					return nil
				}),
			huh.NewSelect[models.Mood]().
				Title("How are you feeling?").
				Options(moodOptions...).
				Value(&mood),
			huh.NewText().
				Title("Sleep notes (optional)").
				CharLimit(constants.MaxSleepNotesLen).
				Value(&c.Notes),
		),
	).WithTheme(huh.ThemeDracula())

	if err := form.Run(); err != nil {
		return fmt.Errorf("interactive form error: %w", err)
	}

	n, err := strconv.Atoi(rest)
	if err != nil {
		return fmt.Errorf("invalid rest quality %q", rest)
	}
	c.Rest = n
	c.Mood = string(mood)
	return nil
}
