package reporter

import (
	"encoding/json"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// JSONReporter outputs actions in JSON format
type JSONReporter struct{}

// jsonOutput represents the JSON output structure
type jsonOutput struct {
	Summary jsonSummary  `json:"summary"`
	Actions []jsonAction `json:"actions"`
}

type jsonSummary struct {
	TotalActions int `json:"total_actions"`
	Failed       int `json:"failed"`
	Hosts        int `json:"hosts"`
}

type jsonAction struct {
	Host    string `json:"host"`
	Kind    string `json:"kind"`
	Target  string `json:"target"`
	Version string `json:"version,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Report generates JSON output for the given actions
func (r *JSONReporter) Report(actions []models.Action) ([]byte, error) {
	output := jsonOutput{
		Summary: jsonSummary{TotalActions: len(actions)},
		Actions: make([]jsonAction, 0, len(actions)),
	}

	seen := make(map[string]bool)
	for _, a := range actions {
		if !seen[a.Host] {
			seen[a.Host] = true
			output.Summary.Hosts++
		}

		ja := jsonAction{
			Host:    a.Host,
			Kind:    string(a.Kind),
			Target:  a.Target,
			Version: a.Version,
		}
		if a.Err != nil {
			ja.Error = a.Err.Error()
			output.Summary.Failed++
		}
		output.Actions = append(output.Actions, ja)
	}

	return json.MarshalIndent(output, "", "  ")
}
