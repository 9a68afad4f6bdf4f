package config

import "testing"

func TestFromEnvDefaults(t *testing.T) {
	for _, k := range []string{"INPUT_PATH", "OUTPUT_PATH", "MAX_CONCURRENCY", "VALIDATE_OUTPUT", "LOAD_TO_DB", "CSV_OUTPUT_PATH"} {
		t.Setenv(k, "")
	}

	cfg := FromEnv()
	if cfg.InputPath != "./property_details.json" {
		t.Errorf("InputPath: got %q", cfg.InputPath)
	}
	if cfg.OutputPath != "./property_details_cleaned.json" {
		t.Errorf("OutputPath: got %q", cfg.OutputPath)
	}
	if cfg.MaxConcurrency != 4 {
		t.Errorf("MaxConcurrency: got %d, want 4", cfg.MaxConcurrency)
	}
	if !cfg.ValidateOutput {
		t.Error("ValidateOutput should default to true")
	}
	if cfg.LoadToDB {
		t.Error("LoadToDB should default to false")
	}
	if cfg.CSVOutputPath != "" {
		t.Errorf("CSVOutputPath: got %q, want disabled", cfg.CSVOutputPath)
	}
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("MAX_CONCURRENCY", "16")
	t.Setenv("LOAD_TO_DB", "true")
	t.Setenv("VALIDATE_OUTPUT", "0")
	t.Setenv("POSTGRES_HOST", "db")

	cfg := FromEnv()
	if cfg.MaxConcurrency != 16 {
		t.Errorf("MaxConcurrency: got %d, want 16", cfg.MaxConcurrency)
	}
	if !cfg.LoadToDB {
		t.Error("LoadToDB: want true")
	}
	if cfg.ValidateOutput {
		t.Error("ValidateOutput: want false")
	}
	if cfg.PostgresHost != "db" {
		t.Errorf("PostgresHost: got %q", cfg.PostgresHost)
	}
}

func TestFromEnvIgnoresGarbage(t *testing.T) {
	t.Setenv("MAX_RETRIES", "lots")
	t.Setenv("LOAD_TO_DB", "maybe")

	cfg := FromEnv()
	if cfg.MaxRetries != 3 {
		t.Errorf("MaxRetries: got %d, want fallback 3", cfg.MaxRetries)
	}
	if cfg.LoadToDB {
		t.Error("LoadToDB: unparseable value should fall back to false")
	}
}

func TestDSN(t *testing.T) {
	cfg := &Config{
		PostgresHost: "h", PostgresPort: "1", PostgresUser: "u",
		PostgresPassword: "p", PostgresDB: "d", PostgresSSLMode: "disable",
	}
	want := "host=h port=1 user=u password=p dbname=d sslmode=disable"
	if got := cfg.DSN(); got != want {
		t.Errorf("DSN: got %q, want %q", got, want)
	}
}
