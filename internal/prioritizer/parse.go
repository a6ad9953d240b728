package prioritizer

import (
	"encoding/json"
	"errors"
	"regexp"
	"strings"
)

var codeFence = regexp.MustCompile("(?m)^```(?:json)?\\s*([\\s\\S]*?)```\\s*$")

// proposal is what the model returned before reconciliation.
type proposal struct {
	RankedTaskIDs []string
	TaskReasoning map[string]string
	Summary       *string
}

var errNotObject = errors.New("response is not a JSON object")

// parseProposal strips an optional code fence and decodes the JSON object.
// Values of the wrong type are dropped rather than rejected.
func parseProposal(raw string) (proposal, error) {
	text := strings.TrimSpace(raw)
	if m := codeFence.FindStringSubmatch(text); m != nil {
		text = strings.TrimSpace(m[1])
	}

	var decoded any
	if err := json.Unmarshal([]byte(text), &decoded); err != nil {
		return proposal{}, err
	}
	obj, ok := decoded.(map[string]any)
	if !ok {
		return proposal{}, errNotObject
	}

	var p proposal
	if ids, ok := obj["rankedTaskIds"].([]any); ok {
		for _, id := range ids {
			if s, ok := id.(string); ok {
				p.RankedTaskIDs = append(p.RankedTaskIDs, s)
			}
		}
	}

	p.TaskReasoning = map[string]string{}
	if reasons, ok := obj["taskReasoning"].(map[string]any); ok {
		for k, v := range reasons {
			if s, ok := v.(string); ok {
				p.TaskReasoning[k] = s
			}
		}
	}

	if s, ok := obj["reasoningSummary"].(string); ok {
		if s = strings.TrimSpace(s); s != "" {
			p.Summary = &s
		}
	}
	return p, nil
}
