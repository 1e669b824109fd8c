package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleRecords = `[
  {"id": "r1.json", "case_type": "criminal", "criminal": {"charges": ["Theft"]}},
  {"id": "r2.json", "case_type": "criminal", "criminal": {"charges": ["Theft", "Assault"]}},
  {"id": "r3.json", "case_type": "civil", "civil": {"cause_of_action": "Negligence"}}
]`

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	groupFlags.axes, groupFlags.records, groupFlags.json = nil, "", false
	availableFlags.axes, availableFlags.position = nil, -1

	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func writeRecords(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "records.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleRecords), 0o644))
	return path
}

func TestFieldsCommand(t *testing.T) {
	out, err := runCLI(t, "fields")
	require.NoError(t, err)
	assert.Contains(t, out, "case_type")
	assert.Contains(t, out, "Proximate Causation Score")
}

func TestAvailableCommand(t *testing.T) {
	out, err := runCLI(t, "available", "--axis", "weapon_type")
	require.NoError(t, err)
	assert.Contains(t, out, "charges")
	assert.NotContains(t, out, "cause_of_action")
}

func TestGroupCommand(t *testing.T) {
	path := writeRecords(t)

	out, err := runCLI(t, "group", "--axis", "case_type", "--axis", "charges", "--records", path)
	require.NoError(t, err)
	assert.Contains(t, out, "Grouped by: Case Type > Charges")
	assert.Contains(t, out, "Total: 3")
	assert.Contains(t, out, "CRIMINAL (3)")
	assert.Contains(t, out, "Theft (2)")
}

func TestGroupCommandJSON(t *testing.T) {
	path := writeRecords(t)

	out, err := runCLI(t, "group", "--axis", "cause_of_action", "--records", path, "--json")
	require.NoError(t, err)
	assert.Contains(t, out, `"complete": true`)
	assert.Contains(t, out, `"key": "Negligence"`)
}

func TestGroupCommandErrors(t *testing.T) {
	path := writeRecords(t)

	_, err := runCLI(t, "group", "--axis", "judge", "--records", path)
	assert.Error(t, err)

	_, err = runCLI(t, "group", "--axis", "charges", "--records", filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}
