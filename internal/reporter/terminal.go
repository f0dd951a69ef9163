package reporter

import (
	"fmt"
	"strings"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

// TerminalReporter outputs actions in a human-readable terminal format
type TerminalReporter struct{}

// Report generates terminal output for the given actions, grouped by host
func (r *TerminalReporter) Report(actions []models.Action) ([]byte, error) {
	if len(actions) == 0 {
		return []byte("Nothing to do.\n"), nil
	}

	var sb strings.Builder

	failed := 0
	for _, a := range actions {
		if a.Failed() {
			failed++
		}
	}

	currentHost := ""
	for _, a := range actions {
		if a.Host != currentHost {
			if currentHost != "" {
				sb.WriteString("\n")
			}
			currentHost = a.Host
			sb.WriteString(fmt.Sprintf("%s\n", a.Host))
		}

		status := "ok"
		if a.Failed() {
			status = "FAILED"
		}
		target := a.Target
		if a.Version != "" {
			target += "@" + a.Version
		}
		sb.WriteString(fmt.Sprintf("  %-16s %-40s %s\n", a.Kind, target, status))
		if a.Failed() {
			sb.WriteString(fmt.Sprintf("    %s\n", a.Err))
		}
	}

	sb.WriteString(strings.Repeat("-", 60) + "\n")
	sb.WriteString(fmt.Sprintf("%d actions, %d failed\n", len(actions), failed))

	return []byte(sb.String()), nil
}
