// Package cli wires the cleaning pipeline behind the propalyze-cleaner
// command.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"propalyze-cleaner/config"
	"propalyze-cleaner/contracts"
	"propalyze-cleaner/metrics"
	"propalyze-cleaner/models"
	"propalyze-cleaner/services"
	"propalyze-cleaner/storage"
	"propalyze-cleaner/utils"
)

// Process exit codes.
const (
	ExitOK            = 0
	ExitUsage         = 1
	ExitReadFailure   = 2
	ExitWriteFailure  = 3
	ExitInputShape    = 4
	ExitLoadFailure   = 5
	ExitContractCheck = 6
)

type exitError struct {
	code int
	err  error
}

func (e *exitError) Error() string { return e.err.Error() }
func (e *exitError) Unwrap() error { return e.err }

func fail(code int, err error) error { return &exitError{code: code, err: err} }

// ExitCode maps an error returned by the command to a process exit code.
func ExitCode(err error) int {
	if err == nil {
		return ExitOK
	}
	var ee *exitError
	if errors.As(err, &ee) {
		return ee.code
	}
	return ExitUsage
}

type options struct {
	input       string
	output      string
	csvPath     string
	metricsPath string
	logLevel    string
	concurrency int
	validate    bool
	load        bool
	insights    bool
}

// NewCommand builds the root command. Flag defaults come from cfg.
func NewCommand(cfg *config.Config, stdout, stderr io.Writer) *cobra.Command {
	opts := options{
		input:       cfg.InputPath,
		output:      cfg.OutputPath,
		csvPath:     cfg.CSVOutputPath,
		metricsPath: cfg.MetricsPath,
		logLevel:    cfg.LogLevel,
		concurrency: cfg.MaxConcurrency,
		validate:    cfg.ValidateOutput,
		load:        cfg.LoadToDB,
	}

	cmd := &cobra.Command{
		Use:   "propalyze-cleaner [input] [output]",
		Short: "Normalize scraped property listings into canonical records",
		Long: "Reads a scraped property document (one listing object or an array of them),\n" +
			"resolves aliased keys, parses prices, areas, floors and parking, and writes the\n" +
			"cleaned document with the same shape. Optionally exports CSV and loads PostgreSQL.",
		Args:          cobra.MaximumNArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.input = args[0]
			}
			if len(args) > 1 {
				opts.output = args[1]
			}
			return run(cfg, opts, stdout, stderr)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.csvPath, "csv", opts.csvPath, "also write a flat CSV export to this path")
	flags.StringVar(&opts.metricsPath, "metrics-file", opts.metricsPath, "write Prometheus metrics in textfile format to this path")
	flags.StringVar(&opts.logLevel, "log-level", opts.logLevel, "debug, info, warn or error")
	flags.IntVarP(&opts.concurrency, "concurrency", "c", opts.concurrency, "records assembled in parallel")
	flags.BoolVar(&opts.validate, "validate", opts.validate, "check the output against the property schema before writing")
	flags.BoolVar(&opts.load, "load", opts.load, "bulk-load cleaned properties into PostgreSQL")
	flags.BoolVar(&opts.insights, "insights", false, "print a summary report after cleaning")
	return cmd
}

func run(cfg *config.Config, opts options, stdout, stderr io.Writer) error {
	logger := utils.NewLoggerTo(stderr, opts.logLevel)
	reg := metrics.NewRegistry()
	defer writeMetrics(logger, reg, opts.metricsPath)

	raw, err := storage.ReadDocument(opts.input)
	if err != nil {
		return fail(ExitReadFailure, err)
	}

	assembler := services.NewAssembler(logger, opts.concurrency, reg)
	doc, err := assembler.Assemble(raw)
	if err != nil {
		if errors.Is(err, services.ErrInputShape) {
			return fail(ExitInputShape, err)
		}
		return fail(ExitReadFailure, err)
	}

	body, err := storage.EncodeDocument(doc)
	if err != nil {
		return fail(ExitWriteFailure, err)
	}
	if opts.validate {
		if err := contracts.ValidateDocument(body); err != nil {
			return fail(ExitContractCheck, err)
		}
	}
	if err := storage.WriteJSON(opts.output, body); err != nil {
		return fail(ExitWriteFailure, err)
	}
	if opts.csvPath != "" {
		if err := writeCSV(opts.csvPath, doc.Records); err != nil {
			return fail(ExitWriteFailure, err)
		}
		logger.Info("[cli] CSV export saved to %s", opts.csvPath)
	}

	fmt.Fprintf(stdout, "[OK] Cleaned data written to %s (records: %d)\n", opts.output, doc.Len())

	reportOn := doc.Records
	if opts.load {
		stored, err := load(cfg, logger, reg, doc.Records)
		if err != nil {
			return fail(ExitLoadFailure, err)
		}
		if stored != nil {
			reportOn = stored
		}
	}

	if opts.insights {
		svc := services.NewInsightService(logger)
		svc.Print(stdout, svc.Generate(reportOn))
	}
	return nil
}

func writeCSV(path string, properties []*models.Property) error {
	w, err := storage.NewCSVWriter(path)
	if err != nil {
		return err
	}
	if err := w.Write(properties); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

// load writes the properties to PostgreSQL and reads the table back for
// the report. A failed read-back is logged and yields nil.
func load(cfg *config.Config, logger *utils.Logger, reg *metrics.Registry, properties []*models.Property) ([]*models.Property, error) {
	retry := &utils.RetryConfig{
		MaxAttempts: cfg.MaxRetries,
		BaseDelay:   2 * time.Second,
		Logger:      logger,
	}
	pg, err := storage.NewPostgresWriter(cfg.DSN(), retry, logger, reg)
	if err != nil {
		return nil, err
	}
	defer pg.Close()

	if err := pg.Write(properties); err != nil {
		return nil, err
	}

	stored, err := pg.FetchAll()
	if err != nil {
		logger.Warn("[cli] Could not read properties back for the report: %v", err)
		return nil, nil
	}
	return stored, nil
}

func writeMetrics(logger *utils.Logger, reg *metrics.Registry, path string) {
	if path == "" {
		return
	}
	if err := reg.WriteTextfile(path); err != nil {
		logger.Warn("[cli] Could not write metrics to %s: %v", path, err)
	}
}

// Execute runs the command with the process arguments and returns the
// exit code.
func Execute() int {
	cfg := config.Load()
	cmd := NewCommand(cfg, os.Stdout, os.Stderr)
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		return ExitCode(err)
	}
	return ExitOK
}
