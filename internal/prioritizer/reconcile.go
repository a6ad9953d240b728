package prioritizer

import (
	"strings"

	"github.com/julianstephens/helpme/internal/constants"
)

// Reconcile makes ranked a duplicate-free ordering of exactly knownIDs.
// Unknown ids are dropped and missing ones are appended in knownIDs order.
// It also reports how many ids survived from ranked.
func Reconcile(knownIDs, ranked []string) ([]string, int) {
	known := make(map[string]bool, len(knownIDs))
	for _, id := range knownIDs {
		known[id] = true
	}

	out := make([]string, 0, len(knownIDs))
	placed := make(map[string]bool, len(knownIDs))
	for _, id := range ranked {
		if known[id] && !placed[id] {
			placed[id] = true
			out = append(out, id)
		}
	}
	kept := len(out)

	for _, id := range knownIDs {
		if !placed[id] {
			placed[id] = true
			out = append(out, id)
		}
	}
	return out, kept
}

// ReconcileReasoning keeps one trimmed, non-empty reason per known id.
func ReconcileReasoning(knownIDs []string, reasons map[string]string) map[string]string {
	out := make(map[string]string, len(knownIDs))
	for _, id := range knownIDs {
		r := strings.TrimSpace(reasons[id])
		if r == "" {
			r = constants.NoReasoningProvided
		}
		out[id] = r
	}
	return out
}
