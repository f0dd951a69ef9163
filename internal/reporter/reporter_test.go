package reporter

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ethanolivertroy/modinstall/internal/models"
)

var sampleActions = []models.Action{
	{Host: "master", Kind: models.ActionInstallModule, Target: "puppetlabs-stdlib", Version: "4.14.0"},
	{Host: "master", Kind: models.ActionCopyModule, Target: "vcsrepo"},
	{Host: "agent", Kind: models.ActionInstallPkg, Target: "git", Err: errors.New("yum: no such package")},
}

func TestGet(t *testing.T) {
	assert.IsType(t, &JSONReporter{}, Get("json"))
	assert.IsType(t, &TerminalReporter{}, Get("terminal"))
	assert.IsType(t, &TerminalReporter{}, Get("anything"))
}

func TestJSONReporter(t *testing.T) {
	out, err := (&JSONReporter{}).Report(sampleActions)
	require.NoError(t, err)

	var decoded jsonOutput
	require.NoError(t, json.Unmarshal(out, &decoded))
	assert.Equal(t, jsonSummary{TotalActions: 3, Failed: 1, Hosts: 2}, decoded.Summary)
	assert.Equal(t, "4.14.0", decoded.Actions[0].Version)
	assert.Equal(t, "yum: no such package", decoded.Actions[2].Error)
}

func TestTerminalReporter(t *testing.T) {
	out, err := (&TerminalReporter{}).Report(sampleActions)
	require.NoError(t, err)

	text := string(out)
	assert.Contains(t, text, "puppetlabs-stdlib@4.14.0")
	assert.Contains(t, text, "FAILED")
	assert.Contains(t, text, "3 actions, 1 failed")

	out, err = (&TerminalReporter{}).Report(nil)
	require.NoError(t, err)
	assert.Equal(t, "Nothing to do.\n", string(out))
}
