package settings

import (
	"fmt"

	"github.com/julianstephens/helpme/internal/cli"
	"github.com/julianstephens/helpme/internal/constants"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/validation"
)

// ProfileSetCmd creates or updates the owner's profile. Flags left empty
// keep their current value.
type ProfileSetCmd struct {
	Name     string `help:"Display name."`
	Role     string `help:"Role or job title."`
	Bio      string `help:"Short bio used as planning context."`
	Start    string `help:"Working day start (HH:MM)."`
	End      string `help:"Working day end (HH:MM)."`
	Focus    string `help:"Primary focus period: Morning or Noon."`
	Timezone string `help:"IANA time zone, e.g. Europe/Berlin."`
}

func (c *ProfileSetCmd) Run(ctx *cli.Context) error {
	in, err := c.input(ctx)
	if err != nil {
		return err
	}
	profile, err := ctx.Profiles().Set(ctx.Ctx, ctx.OwnerID, in)
	if err != nil {
		return err
	}
	fmt.Fprintln(ctx.Writer(), "✓ Profile saved")
	cli.RenderProfile(ctx.Writer(), profile)
	return nil
}

// input overlays the flags on the stored profile, or on the defaults when
// there is none yet.
func (c *ProfileSetCmd) input(ctx *cli.Context) (validation.ProfileInput, error) {
	in := validation.ProfileInput{
		WorkingStart: constants.DefaultWorkingStart,
		WorkingEnd:   constants.DefaultWorkingEnd,
		FocusPeriod:  string(models.FocusMorning),
		TimeZone:     ctx.Config.DefaultTimezone,
	}
	current, err := ctx.Profiles().Get(ctx.Ctx, ctx.OwnerID)
	switch {
	case err == nil:
		in = validation.ProfileInput{
			DisplayName:  current.DisplayName,
			Role:         current.Role,
			WorkingStart: models.FormatMinutes(current.WorkingStartMinutes),
			WorkingEnd:   models.FormatMinutes(current.WorkingEndMinutes),
			FocusPeriod:  string(current.PrimaryFocusPeriod),
			TimeZone:     current.TimeZone,
		}
		if current.Bio != nil {
			in.Bio = *current.Bio
		}
	case !apperrors.Is(err, apperrors.CodeNotFound):
		return validation.ProfileInput{}, err
	}

	overlay(&in.DisplayName, c.Name)
	overlay(&in.Role, c.Role)
	overlay(&in.Bio, c.Bio)
	overlay(&in.WorkingStart, c.Start)
	overlay(&in.WorkingEnd, c.End)
	overlay(&in.FocusPeriod, c.Focus)
	overlay(&in.TimeZone, c.Timezone)
	return in, nil
}

func overlay(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

type ProfileShowCmd struct {
	JSON bool `name:"json" help:"Print the profile as JSON."`
}

func (c *ProfileShowCmd) Run(ctx *cli.Context) error {
	profile, err := ctx.Profiles().Get(ctx.Ctx, ctx.OwnerID)
	if err != nil {
		return err
	}
	if c.JSON {
		return cli.PrintJSON(ctx.Writer(), profile)
	}
	cli.RenderProfile(ctx.Writer(), profile)
	return nil
}
