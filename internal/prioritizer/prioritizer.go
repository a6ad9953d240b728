// Package prioritizer asks a text-completion model to order the open
// tasks and validates what comes back.
package prioritizer

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/helpme/internal/completion"
	"github.com/julianstephens/helpme/internal/constants"
	"github.com/julianstephens/helpme/internal/models"
	"github.com/julianstephens/helpme/internal/prompts"
)

// ErrNoRanking is returned for every failure. Callers fall back.
var ErrNoRanking = errors.New("model ranking unavailable")

// Ranking is a reconciled model ordering.
type Ranking struct {
	RankedTaskIDs    []string
	TaskReasoning    map[string]string
	ReasoningSummary *string
}

type Prioritizer struct {
	client completion.Client
}

// New wraps client. A nil client makes every Rank call fail.
func New(client completion.Client) *Prioritizer {
	return &Prioritizer{client: client}
}

// Rank orders tasks for the check-in's day. The returned ranking always
// covers exactly the ids in tasks.
func (p *Prioritizer) Rank(ctx context.Context, profile *models.UserProfile, checkIn models.CheckIn, tasks []models.Task) (*Ranking, error) {
	switch {
	case p == nil || p.client == nil:
		return nil, noRanking("no completion client configured")
	case profile == nil:
		return nil, noRanking("no profile for owner")
	case len(tasks) == 0:
		return nil, noRanking("no tasks to rank")
	}

	prompt := prompts.Prioritization(*profile, checkIn, tasks)
	resp, err := p.client.Complete(ctx, completion.UserRequest(prompt.System, prompt.User, constants.PrioritizationMaxTokens))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrNoRanking, err)
	}

	proposed, err := parseProposal(resp.Text)
	if err != nil {
		return nil, fmt.Errorf("%w: unparseable response: %v", ErrNoRanking, err)
	}

	knownIDs := make([]string, len(tasks))
	for i, t := range tasks {
		knownIDs[i] = t.ID
	}

	ranked, kept := Reconcile(knownIDs, proposed.RankedTaskIDs)
	if kept == 0 {
		return nil, noRanking("response ranked none of the known tasks")
	}

	return &Ranking{
		RankedTaskIDs:    ranked,
		TaskReasoning:    ReconcileReasoning(knownIDs, proposed.TaskReasoning),
		ReasoningSummary: proposed.Summary,
	}, nil
}

func noRanking(reason string) error {
	return fmt.Errorf("%w: %s", ErrNoRanking, reason)
}
