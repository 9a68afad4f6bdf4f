package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"propalyze-cleaner/config"
)

func testConfig() *config.Config {
	return &config.Config{
		MaxConcurrency: 2,
		MaxRetries:     1,
		LogLevel:       "error",
		ValidateOutput: true,
	}
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	cmd := NewCommand(testConfig(), &stdout, &stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func writeInput(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "property_details.json")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestCleansArrayDocument(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, `[{"Property ID": "A", "Price": "₹1.55 Cr", "Total Area": "1000"}, {"Name": "B"}]`)
	out := filepath.Join(dir, "cleaned.json")
	csvPath := filepath.Join(dir, "cleaned.csv")

	stdout, err := runCommand(t, in, out, "--csv", csvPath)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := "[OK] Cleaned data written to " + out + " (records: 2)"
	if !strings.Contains(stdout, want) {
		t.Errorf("stdout: got %q, want it to contain %q", stdout, want)
	}

	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(body), "[") {
		t.Errorf("array input should give array output, got %.20q", body)
	}
	if !strings.Contains(string(body), `"price_per_sqft": 15500`) {
		t.Errorf("expected derived price_per_sqft in output:\n%s", body)
	}
	if _, err := os.Stat(csvPath); err != nil {
		t.Errorf("csv export missing: %v", err)
	}
}

func TestCleansSingleObject(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, `{"Property ID": "A"}`)
	out := filepath.Join(dir, "cleaned.json")

	if _, err := runCommand(t, in, out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(body), "{") {
		t.Errorf("object input should give object output, got %.20q", body)
	}
}

func TestExitCodes(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		body string
		args func(in string) []string
		want int
	}{
		{
			name: "missing input",
			args: func(string) []string { return []string{filepath.Join(dir, "nope.json"), filepath.Join(dir, "o.json")} },
			want: ExitReadFailure,
		},
		{
			name: "malformed input",
			body: `[{"a":`,
			args: func(in string) []string { return []string{in, filepath.Join(dir, "o.json")} },
			want: ExitReadFailure,
		},
		{
			name: "scalar input",
			body: `"just text"`,
			args: func(in string) []string { return []string{in, filepath.Join(dir, "o.json")} },
			want: ExitInputShape,
		},
		{
			name: "unwritable output",
			body: `[]`,
			args: func(in string) []string { return []string{in, in + "/o.json"} },
			want: ExitWriteFailure,
		},
		{
			name: "too many args",
			body: `[]`,
			args: func(in string) []string { return []string{in, "b", "c"} },
			want: ExitUsage,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := filepath.Join(t.TempDir(), "in.json")
			if tt.body != "" {
				if err := os.WriteFile(in, []byte(tt.body), 0644); err != nil {
					t.Fatal(err)
				}
			}
			_, err := runCommand(t, tt.args(in)...)
			if got := ExitCode(err); got != tt.want {
				t.Errorf("exit code: got %d, want %d (err: %v)", got, tt.want, err)
			}
		})
	}
}

func TestInsightsFlag(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, `[{"Property ID": "A", "Price": "85.5 Lakh", "Locality": "Baner"}]`)

	stdout, err := runCommand(t, in, filepath.Join(dir, "o.json"), "--insights")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(stdout, "PROPERTY DATASET INSIGHTS") || !strings.Contains(stdout, "Baner") {
		t.Errorf("insights missing from stdout:\n%s", stdout)
	}
}

func TestMetricsFile(t *testing.T) {
	dir := t.TempDir()
	in := writeInput(t, dir, `[{"Property ID": "A"}, {}]`)
	metricsPath := filepath.Join(dir, "cleaner.prom")

	if _, err := runCommand(t, in, filepath.Join(dir, "o.json"), "--metrics-file", metricsPath); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	body, err := os.ReadFile(metricsPath)
	if err != nil {
		t.Fatalf("metrics file missing: %v", err)
	}
	if !strings.Contains(string(body), "propalyze_records_assembled_total 2") {
		t.Errorf("unexpected metrics:\n%s", body)
	}
}

func TestExitCodeOfNil(t *testing.T) {
	if ExitCode(nil) != ExitOK {
		t.Error("nil error should map to ExitOK")
	}
}
