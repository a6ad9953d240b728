package validation

import (
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/julianstephens/helpme/internal/constants"
	apperrors "github.com/julianstephens/helpme/internal/errors"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/utils"
)

// ProblemType represents the kind of validation problem
type ProblemType string

const (
	ProblemInvalidField        ProblemType = "invalid_field"
	ProblemDuplicateRankedTask ProblemType = "duplicate_ranked_task"
	ProblemMissingReasoning    ProblemType = "missing_reasoning"
	ProblemStrayReasoning      ProblemType = "stray_reasoning"
	ProblemBudgetOutOfRange    ProblemType = "budget_out_of_range"
	ProblemUnknownAlgorithm    ProblemType = "unknown_algorithm"
	ProblemForeignTask         ProblemType = "foreign_task"
)

// Problem is one detected issue in user input or a stored plan
type Problem struct {
	Type        ProblemType
	Field       string
	Description string
	TaskIDs     []string
}

// Result contains all detected problems
type Result struct {
	Problems []Problem
}

func (r *Result) add(t ProblemType, field, format string, args ...any) {
	r.Problems = append(r.Problems, Problem{Type: t, Field: field, Description: fmt.Sprintf(format, args...)})
}

// HasProblems returns true if there are any problems
func (r *Result) HasProblems() bool {
	return len(r.Problems) > 0
}

// FormatReport returns a human-readable report of all problems
func (r *Result) FormatReport() string {
	if !r.HasProblems() {
		return "No problems detected."
	}

	var b strings.Builder
	b.WriteString("Problems detected:\n")
	for _, p := range r.Problems {
		fmt.Fprintf(&b, "- %s\n", p.Description)
	}
	return b.String()
}

// Err returns a VALIDATION_ERROR describing the problems, or nil.
func (r *Result) Err() error {
	if !r.HasProblems() {
		return nil
	}
	descs := make([]string, len(r.Problems))
	for i, p := range r.Problems {
		descs[i] = p.Description
	}
	return apperrors.Validation("invalid input", fmt.Errorf("%s", strings.Join(descs, "; ")))
}

// Validator checks user input and stored plans
type Validator struct{}

// New creates a new Validator
func New() *Validator {
	return &Validator{}
}

type CheckInInput struct {
	Date        string
	RestQuality int
	Mood        string
	SleepNotes  string
}

// CheckIn is a validated check-in submission.
type CheckIn struct {
	Date        string
	RestQuality int
	Mood        models.Mood
	SleepNotes  *string
}

func (v *Validator) CheckIn(in CheckInInput) (CheckIn, Result) {
	var res Result
	out := CheckIn{Date: strings.TrimSpace(in.Date), RestQuality: in.RestQuality}

	if !utils.ValidateDateFormat(out.Date) {
		res.add(ProblemInvalidField, "date", "date %q must be YYYY-MM-DD", in.Date)
	}
	if in.RestQuality < constants.MinRestQuality || in.RestQuality > constants.MaxRestQuality {
		res.add(ProblemInvalidField, "restQuality", "rest quality must be between %d and %d, got %d",
			constants.MinRestQuality, constants.MaxRestQuality, in.RestQuality)
	}
	mood, err := models.ParseMood(in.Mood)
	if err != nil {
		res.add(ProblemInvalidField, "mood", "%v", err)
	}
	out.Mood = mood

	if notes := strings.TrimSpace(in.SleepNotes); notes != "" {
		if utf8.RuneCountInString(notes) > constants.MaxSleepNotesLen {
			res.add(ProblemInvalidField, "sleepNotes", "sleep notes must be at most %d characters", constants.MaxSleepNotesLen)
		}
		out.SleepNotes = &notes
	}
	return out, res
}

type ProfileInput struct {
	DisplayName  string
	Role         string
	Bio          string
	WorkingStart string // HH:MM
	WorkingEnd   string // HH:MM
	FocusPeriod  string
	TimeZone     string
}

// Profile validates in. A blank or unknown time zone falls back to UTC
// instead of failing.
func (v *Validator) Profile(in ProfileInput) (models.ProfileValues, Result) {
	var res Result
	out := models.ProfileValues{
		DisplayName: strings.TrimSpace(in.DisplayName),
		Role:        strings.TrimSpace(in.Role),
	}

	checkLen(&res, "displayName", "display name", out.DisplayName, 1, constants.MaxNameLen)
	checkLen(&res, "role", "role", out.Role, 1, constants.MaxNameLen)

	if bio := strings.TrimSpace(in.Bio); bio != "" {
		checkLen(&res, "bio", "bio", bio, 1, constants.MaxBioLen)
		out.Bio = &bio
	}

	start, err := utils.ParseTimeToMinutes(in.WorkingStart)
	if err != nil {
		res.add(ProblemInvalidField, "workingStart", "working start %q must be HH:MM", in.WorkingStart)
	}
	end, err := utils.ParseTimeToMinutes(in.WorkingEnd)
	if err != nil {
		res.add(ProblemInvalidField, "workingEnd", "working end %q must be HH:MM", in.WorkingEnd)
	}
	out.WorkingStartMinutes, out.WorkingEndMinutes = start, end

	focus, err := models.ParseFocusPeriod(in.FocusPeriod)
	if err != nil {
		res.add(ProblemInvalidField, "focusPeriod", "%v", err)
	}
	out.PrimaryFocusPeriod = focus

	out.TimeZone = strings.TrimSpace(in.TimeZone)
	if out.TimeZone == "" || !utils.ValidateTimezone(out.TimeZone) {
		out.TimeZone = constants.DefaultTimezone
	}
	return out, res
}

type TaskInput struct {
	Title     string
	Intensity string
	Due       string // RFC3339, or YYYY-MM-DD for end of that day
	Tags      []string
}

// Task is a validated task submission.
type Task struct {
	Title     string
	Intensity models.Intensity
	DueAt     *time.Time
	Tags      []string
}

// Task validates in. Bare due dates are resolved in loc.
func (v *Validator) Task(in TaskInput, loc *time.Location) (Task, Result) {
	if loc == nil {
		loc = time.UTC
	}
	var res Result
	out := Task{Title: strings.TrimSpace(in.Title), Tags: models.NormalizeTags(in.Tags)}

	checkLen(&res, "title", "title", out.Title, 1, constants.MaxTitleLen)

	intensity, err := models.ParseIntensity(in.Intensity)
	if err != nil {
		res.add(ProblemInvalidField, "intensity", "%v", err)
	}
	out.Intensity = intensity

	if due := strings.TrimSpace(in.Due); due != "" {
		at, err := parseDue(due, loc)
		if err != nil {
			res.add(ProblemInvalidField, "due", "due %q must be YYYY-MM-DD or RFC3339", in.Due)
		} else {
			out.DueAt = &at
		}
	}
	if len(out.Tags) > constants.MaxTags {
		res.add(ProblemInvalidField, "tags", "at most %d tags are allowed", constants.MaxTags)
	}
	return out, res
}

func parseDue(s string, loc *time.Location) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t, nil
	}
	_, end, err := utils.DayBounds(s, loc)
	if err != nil {
		return time.Time{}, err
	}
	return end.Add(-time.Second), nil
}

func checkLen(res *Result, field, label, value string, min, max int) {
	n := utf8.RuneCountInString(value)
	switch {
	case n < min:
		res.add(ProblemInvalidField, field, "%s is required", label)
	case n > max:
		res.add(ProblemInvalidField, field, "%s must be at most %d characters", label, max)
	}
}

// Plan checks a stored plan against its own invariants: every ranked id
// once, a reason for each, nothing extra, a budget in range and a known
// algorithm tag. ownedTaskIDs, when non-nil, flags ids the owner never had.
func (v *Validator) Plan(plan models.DailyPlan, ownedTaskIDs map[string]bool) Result {
	var res Result

	seen := make(map[string]bool, len(plan.RankedTaskIDs))
	for _, id := range plan.RankedTaskIDs {
		if seen[id] {
			res.Problems = append(res.Problems, Problem{
				Type:        ProblemDuplicateRankedTask,
				Field:       "rankedTaskIds",
				Description: fmt.Sprintf("plan %s ranks task %s more than once", plan.PlanDate, id),
				TaskIDs:     []string{id},
			})
			continue
		}
		seen[id] = true

		if strings.TrimSpace(plan.TaskReasoning[id]) == "" {
			res.Problems = append(res.Problems, Problem{
				Type:        ProblemMissingReasoning,
				Field:       "taskReasoning",
				Description: fmt.Sprintf("plan %s has no reasoning for task %s", plan.PlanDate, id),
				TaskIDs:     []string{id},
			})
		}
		if ownedTaskIDs != nil && !ownedTaskIDs[id] {
			res.Problems = append(res.Problems, Problem{
				Type:        ProblemForeignTask,
				Field:       "rankedTaskIds",
				Description: fmt.Sprintf("plan %s ranks unknown task %s", plan.PlanDate, id),
				TaskIDs:     []string{id},
			})
		}
	}

	for id := range plan.TaskReasoning {
		if !seen[id] {
			res.Problems = append(res.Problems, Problem{
				Type:        ProblemStrayReasoning,
				Field:       "taskReasoning",
				Description: fmt.Sprintf("plan %s has reasoning for unranked task %s", plan.PlanDate, id),
				TaskIDs:     []string{id},
			})
		}
	}

	if plan.EnergyBudget < constants.MinEnergyBudget || plan.EnergyBudget > constants.MaxEnergyBudget {
		res.add(ProblemBudgetOutOfRange, "energyBudget", "plan %s budget %d is outside %d-%d",
			plan.PlanDate, plan.EnergyBudget, constants.MinEnergyBudget, constants.MaxEnergyBudget)
	}
	switch plan.AlgorithmVersion {
	case constants.AlgorithmVersionHeuristic, constants.AlgorithmVersionLLM:
	default:
		res.add(ProblemUnknownAlgorithm, "algorithmVersion", "plan %s has unknown algorithm version %q", plan.PlanDate, plan.AlgorithmVersion)
	}
	return res
}
