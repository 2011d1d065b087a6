package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rgehrsitz/dayplan/internal/calculation"
	"github.com/rgehrsitz/dayplan/internal/config"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
)

const planYAML = `
start: 2023-01-01
end: 2023-12-31
assets:
  - name: Checking
    category: Cash
    balance: 1000
transactions:
  - name: Paycheck
    destination: Checking
    amount: 100
`

const overdrawnYAML = `
start: 2023-01-01
end: 2023-12-31
assets:
  - name: Checking
    balance: 100
transactions:
  - name: Rent
    source: Checking
    amount: 500
`

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// execute runs the root command with fresh flag values and returns stdout.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	for _, c := range rootCmd.Commands() {
		resetFlags(c)
	}
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	rootCmd.SetErr(&buf)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return buf.String(), err
}

func resetFlags(cmd *cobra.Command) {
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	})
}

func TestRootCommand(t *testing.T) {
	assert.Equal(t, "dayplan", rootCmd.Use)
	assert.NotEmpty(t, rootCmd.Short)
	assert.NotEmpty(t, rootCmd.Long)

	out, err := execute(t, "--help")
	require.NoError(t, err)
	assert.Contains(t, out, "run")
	assert.Contains(t, out, "validate")
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "dayplan dev")
}

func TestRunCommand(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", planYAML)

	out, err := execute(t, "run", plan, "--format", "csv-networth")
	require.NoError(t, err)
	assert.Contains(t, out, "date,Cash,Total")
	assert.Contains(t, out, "2023-01-31,1100.00,1100.00")
	assert.Contains(t, out, "2023-12-31,2200.00,2200.00")
}

func TestRunCommand_DateOverride(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", planYAML)

	out, err := execute(t, "run", plan, "--format", "csv-networth", "--end", "2023-03-31")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-03-31,1300.00,1300.00")
	assert.NotContains(t, out, "2023-04-30")
}

func TestRunCommand_List(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "plan.yaml", planYAML)
	list := writeFile(t, dir, "files.yaml", "- plan.yaml\n")

	out, err := execute(t, "run", "--list", list, "--format", "csv-assets")
	require.NoError(t, err)
	assert.Contains(t, out, "2023-12-31,Checking,2200.00")
}

func TestRunCommand_Halted(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", overdrawnYAML)

	out, err := execute(t, "run", plan, "--format", "console")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation halted")
	assert.Contains(t, out, "Simulation halted")
}

func TestRunCommand_Errors(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", planYAML)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"no files", []string{"run"}, "at least one configuration file"},
		{"unknown format", []string{"run", plan, "--format", "pdf"}, "unknown format"},
		{"bad date", []string{"run", plan, "--start", "01/01/2023"}, "invalid --start date"},
		{"files and list", []string{"run", plan, "--list", plan}, "mutually exclusive"},
		{"missing file", []string{"run", filepath.Join(dir, "missing.yaml")}, "failed to read file"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", planYAML)

	out, err := execute(t, "validate", plan)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid: 2023-01-01 to 2023-12-31, 1 assets, 1 transactions, 0 mortgages")
}

func TestValidateCommand_SetupError(t *testing.T) {
	dir := t.TempDir()
	plan := writeFile(t, dir, "plan.yaml", `
start: 2023-01-01
end: 2023-12-31
assets:
  - name: Checking
    balance: 100
transactions:
  - name: Rent
    source: Nowhere
    amount: 500
`)

	_, err := execute(t, "validate", plan)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "simulation setup failed")
}

func TestExtension(t *testing.T) {
	assert.Equal(t, "csv", extension("csv-assets"))
	assert.Equal(t, "json", extension("json"))
	assert.Equal(t, "html", extension("html"))
	assert.Equal(t, "txt", extension("console"))
}

func TestExamplePlan(t *testing.T) {
	examplePlan := filepath.Join("..", "..", "examples", "plan.yaml")

	cfg, err := config.NewInputParser().LoadFromFile(examplePlan)
	require.NoError(t, err)

	results, err := calculation.NewSimulation(cfg).Run(context.Background())
	require.NoError(t, err)
	require.False(t, results.Failed(), "example plan halted: %v", results.Error)

	assert.Equal(t, 3287, results.Days)
	assert.Len(t, results.FederalTaxSummary, 9)
	assert.Len(t, results.StateTaxSummary, 9)
	require.NotEmpty(t, results.AssetStates)
	assert.Equal(t, dateutil.Date(2033, time.December, 31), results.AssetStates[len(results.AssetStates)-1].Date)

	out, err := execute(t, "validate", examplePlan)
	require.NoError(t, err)
	assert.Contains(t, out, "Configuration is valid: 2025-01-01 to 2033-12-31")
}
