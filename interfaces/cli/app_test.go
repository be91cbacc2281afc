package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/felixgeelhaar/descent/application"
	"github.com/felixgeelhaar/descent/domain/descent"
	"github.com/felixgeelhaar/descent/domain/pack"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()

	var stdout, stderr bytes.Buffer
	app := New().WithOutput(&stdout, &stderr)
	err := app.ExecuteWithArgs(context.Background(), args)
	return stdout.String(), err
}

func TestApp_Version(t *testing.T) {
	output, err := run(t, "version")
	if err != nil {
		t.Fatalf("version command failed: %v", err)
	}
	if !strings.Contains(output, "descent version") {
		t.Errorf("version output missing 'descent version', got: %s", output)
	}
}

func TestApp_Help(t *testing.T) {
	output, err := run(t, "--help")
	if err != nil {
		t.Fatalf("help command failed: %v", err)
	}
	for _, want := range []string{"infinite descent", "solve", "sweep", "validate", "mcp"} {
		if !strings.Contains(output, want) {
			t.Errorf("help output missing %q, got: %s", want, output)
		}
	}
}

func TestApp_List(t *testing.T) {
	output, err := run(t, "list", "-v")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}
	for _, want := range []string{"imo1988-q6", "divisor-plus-one", "relation:"} {
		if !strings.Contains(output, want) {
			t.Errorf("list output missing %q, got: %s", want, output)
		}
	}
}

func TestApp_ListJSON(t *testing.T) {
	output, err := run(t, "list", "--json")
	if err != nil {
		t.Fatalf("list command failed: %v", err)
	}

	var infos []pack.Info
	if err := json.Unmarshal([]byte(output), &infos); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(infos) != 2 {
		t.Errorf("expected 2 problems, got %d", len(infos))
	}
}

func TestApp_Solve(t *testing.T) {
	output, err := run(t, "solve", "imo1988-q6", "8", "30", "--log-level", "error")
	if err != nil {
		t.Fatalf("solve command failed: %v", err)
	}
	for _, want := range []string{"Steps:    1", "(2, 8) [vieta_equals_y]", "Claim:    k = 4 = 2²"} {
		if !strings.Contains(output, want) {
			t.Errorf("solve output missing %q, got: %s", want, output)
		}
	}
}

func TestApp_SolveTrace(t *testing.T) {
	output, err := run(t, "solve", "divisor-plus-one", "34", "13", "--trace", "--log-level", "error")
	if err != nil {
		t.Fatalf("solve command failed: %v", err)
	}
	if got := strings.Count(output, "step "); got != 3 {
		t.Errorf("expected 3 step entries, got %d: %s", got, output)
	}
	if !strings.Contains(output, "discharged") {
		t.Errorf("trace missing discharged entry, got: %s", output)
	}
}

func TestApp_SolveJSON(t *testing.T) {
	output, err := run(t, "solve", "imo1988-q6", "30", "112", "--json", "--log-level", "error")
	if err != nil {
		t.Fatalf("solve command failed: %v", err)
	}

	var out application.Outcome[pack.Claim]
	if err := json.Unmarshal([]byte(output), &out); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if out.Steps != 2 || out.Claim.Statement != "k = 4 = 2²" {
		t.Errorf("outcome = %+v", out)
	}
	if len(out.Entries) != 0 {
		t.Errorf("entries should be omitted without --trace")
	}
}

func TestApp_SolveErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want error
	}{
		{"unknown problem", []string{"solve", "fermat", "1", "2"}, pack.ErrFamilyNotFound},
		{"not a witness", []string{"solve", "imo1988-q6", "8", "31"}, pack.ErrNotAWitness},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, append(tt.args, "--log-level", "error")...)
			if !errors.Is(err, tt.want) {
				t.Errorf("error = %v, want %v", err, tt.want)
			}
		})
	}

	if _, err := run(t, "solve", "imo1988-q6", "eight", "30"); err == nil {
		t.Error("expected error for a malformed coordinate")
	}
	if _, err := run(t, "solve", "imo1988-q6", "8"); err == nil {
		t.Error("expected error for a missing coordinate")
	}
}

func TestApp_SolveStepCap(t *testing.T) {
	_, err := run(t, "solve", "divisor-plus-one", "34", "13", "--max-steps", "1", "--log-level", "error")
	if err == nil {
		t.Fatal("expected step cap violation")
	}
	if !errors.Is(err, descent.ErrIterationCapExceeded) {
		t.Errorf("error = %v, want ErrIterationCapExceeded", err)
	}
}

func TestApp_Sweep(t *testing.T) {
	output, err := run(t, "sweep", "imo1988-q6", "--limit", "3", "--log-level", "error")
	if err != nil {
		t.Fatalf("sweep command failed: %v", err)
	}
	if !strings.Contains(output, "solved 3, skipped 0, failed 0, rejected 0") {
		t.Errorf("unexpected sweep output: %s", output)
	}
}

func TestApp_SweepBadgerAndResults(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")

	output, err := run(t, "sweep", "divisor-plus-one", "--limit", "2",
		"--store", "badger", "--path", dir, "--json", "--log-level", "error")
	if err != nil {
		t.Fatalf("sweep command failed: %v", err)
	}
	var summaries []application.SweepSummary
	if err := json.Unmarshal([]byte(output), &summaries); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(summaries) != 1 || summaries[0].Solved != 2 {
		t.Fatalf("summaries = %+v", summaries)
	}

	// The records survive the process and are skipped next time.
	output, err = run(t, "sweep", "divisor-plus-one", "--limit", "2",
		"--store", "badger", "--path", dir, "--log-level", "error")
	if err != nil {
		t.Fatalf("second sweep failed: %v", err)
	}
	if !strings.Contains(output, "skipped 2") {
		t.Errorf("second sweep should skip, got: %s", output)
	}

	output, err = run(t, "results", "--path", dir, "--problem", "divisor-plus-one", "--log-level", "error")
	if err != nil {
		t.Fatalf("results command failed: %v", err)
	}
	if got := strings.Count(output, "✓"); got != 2 {
		t.Errorf("expected 2 verified records, got %d: %s", got, output)
	}
}

func TestApp_SweepSQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.db")

	if _, err := run(t, "sweep", "imo1988-q6", "--limit", "3",
		"--store", "sqlite", "--path", path, "--log-level", "error"); err != nil {
		t.Fatalf("sweep command failed: %v", err)
	}

	output, err := run(t, "results", "--store", "sqlite", "--path", path, "--json", "--log-level", "error")
	if err != nil {
		t.Fatalf("results command failed: %v", err)
	}
	var records []map[string]any
	if err := json.Unmarshal([]byte(output), &records); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if len(records) != 3 {
		t.Errorf("expected 3 records, got %d", len(records))
	}
}

func TestApp_ResultsRequiresPath(t *testing.T) {
	if _, err := run(t, "results"); err == nil {
		t.Error("expected error without a store path")
	}
}

func TestApp_Validate(t *testing.T) {
	content := `
name: test-solver
version: "1.0"
engine:
  max_steps: 50
  timeout: 10s
sweep:
  problems: [imo1988-q6]
  limit: 5
`
	configPath := filepath.Join(t.TempDir(), "descent.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	output, err := run(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("validate command failed: %v", err)
	}
	for _, want := range []string{"valid", "Max steps: 50", "Problems: imo1988-q6"} {
		if !strings.Contains(output, want) {
			t.Errorf("validate output missing %q, got: %s", want, output)
		}
	}
}

func TestApp_ValidateInvalid(t *testing.T) {
	content := `
name: ""
version: ""
storage:
  backend: cassandra
`
	configPath := filepath.Join(t.TempDir(), "descent.yaml")
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := run(t, "validate", "-c", configPath); err == nil {
		t.Error("expected validation error for invalid config")
	}
}

func TestApp_ValidateMissingPath(t *testing.T) {
	if _, err := run(t, "validate"); err == nil {
		t.Error("expected error when no config path given")
	}
}

func TestApp_ValidateShowSchema(t *testing.T) {
	output, err := run(t, "validate", "--schema")
	if err != nil {
		t.Fatalf("validate --schema failed: %v", err)
	}
	if !strings.Contains(output, `"$schema"`) {
		t.Errorf("schema output missing $schema, got: %s", output)
	}
}

func TestApp_ExportSchemaToFile(t *testing.T) {
	outputPath := filepath.Join(t.TempDir(), "schema.json")

	output, err := run(t, "export-schema", "-o", outputPath)
	if err != nil {
		t.Fatalf("export-schema failed: %v", err)
	}
	if !strings.Contains(output, "Schema exported") {
		t.Errorf("unexpected output: %s", output)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		t.Fatalf("failed to read schema file: %v", err)
	}
	if !json.Valid(data) {
		t.Error("exported schema is not valid JSON")
	}
}

func TestApp_InitRoundTrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "descent.yaml")

	if _, err := run(t, "init", configPath); err != nil {
		t.Fatalf("init failed: %v", err)
	}
	if _, err := run(t, "init", configPath); err == nil {
		t.Error("init should refuse to overwrite without --force")
	}
	if _, err := run(t, "init", configPath, "--force"); err != nil {
		t.Errorf("init --force failed: %v", err)
	}

	output, err := run(t, "validate", "-c", configPath)
	if err != nil {
		t.Fatalf("generated config does not validate: %v", err)
	}
	if !strings.Contains(output, "valid") {
		t.Errorf("unexpected output: %s", output)
	}
}

func TestApp_MCPRejectsArgs(t *testing.T) {
	if _, err := run(t, "mcp", "extra", "--log-level", "error"); err == nil {
		t.Error("expected error for positional argument")
	}
}

func TestApp_SharedRuntimeFlags(t *testing.T) {
	app := New()

	tests := map[string][]string{
		"solve":   {"config", "log-level", "telemetry", "max-steps", "timeout"},
		"sweep":   {"config", "log-level", "telemetry", "max-steps", "timeout", "store", "path", "dsn", "redis-addr"},
		"mcp":     {"config", "log-level", "telemetry", "max-steps", "timeout"},
		"results": {"config", "log-level", "store", "path", "dsn", "redis-addr"},
	}
	for name, flags := range tests {
		cmd, _, err := app.root.Find([]string{name})
		if err != nil {
			t.Fatalf("Find(%q) error = %v", name, err)
		}
		for _, flag := range flags {
			if cmd.Flags().Lookup(flag) == nil {
				t.Errorf("%s is missing --%s", name, flag)
			}
		}
	}
}

func TestApp_ResultsLogLevel(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "results")
	if _, err := run(t, "sweep", "divisor-plus-one", "--limit", "2",
		"--store", "badger", "--path", dir, "--log-level", "error"); err != nil {
		t.Fatalf("sweep failed: %v", err)
	}

	if _, err := run(t, "results", "--path", dir, "--log-level", "error"); err != nil {
		t.Fatalf("results --log-level failed: %v", err)
	}
}
