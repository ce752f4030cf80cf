package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/iwvelando/sorting-roi/internal/config"
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"go.uber.org/zap"
)

func TestInitializeLogger(t *testing.T) {
	tests := []struct {
		name      string
		conf      config.LoggingConfig
		override  string
		expectErr bool
	}{
		{name: "Defaults", conf: config.LoggingConfig{}},
		{name: "Console debug", conf: config.LoggingConfig{Level: "debug", Format: "console"}},
		{name: "Override wins", conf: config.LoggingConfig{Level: "bogus"}, override: "warn"},
		{name: "Warning alias", conf: config.LoggingConfig{Level: "warning", Format: "json"}},
		{name: "Invalid level", conf: config.LoggingConfig{Level: "verbose"}, expectErr: true},
		{name: "Invalid format", conf: config.LoggingConfig{Format: "xml"}, expectErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := initializeLogger(tt.conf, tt.override)
			if tt.expectErr {
				if err == nil {
					t.Errorf("initializeLogger() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Fatalf("initializeLogger() error = %v", err)
			}
			if logger == nil {
				t.Fatalf("initializeLogger() returned nil logger")
			}
		})
	}
}

func TestInitializeLoggerOutputFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "sorting-roi.log")
	logger, err := initializeLogger(config.LoggingConfig{Level: "info", OutputFile: path}, "")
	if err != nil {
		t.Fatalf("initializeLogger() error = %v", err)
	}
	logger.Info("hello", zap.String("op", "test"))
	_ = logger.Sync()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}
	if !strings.Contains(string(data), "hello") {
		t.Errorf("log file does not contain the logged message")
	}
}

func TestResolveConfigPath(t *testing.T) {
	dir := t.TempDir()
	present := filepath.Join(dir, "config.yaml")
	if err := os.WriteFile(present, []byte("simulation:\n  horizonDays: 10\n"), 0o644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	absent := filepath.Join(dir, "absent.yaml")

	if got := resolveConfigPath(present, false); got != present {
		t.Errorf("resolveConfigPath(present) = %q", got)
	}
	if got := resolveConfigPath(absent, false); got != "" {
		t.Errorf("resolveConfigPath(absent, implicit) = %q, expected defaults", got)
	}
	if got := resolveConfigPath(absent, true); got != absent {
		t.Errorf("resolveConfigPath(absent, explicit) = %q, expected the path so loading fails", got)
	}
}

func TestOverridesApply(t *testing.T) {
	seed := int64(9)
	runs := 5
	ov := overrides{seed: &seed, runs: &runs, csvPath: "a.csv", chartDataPath: "c.json", metricsFile: "m.prom"}

	conf := config.Default()
	ov.apply(&conf)

	if !conf.Seeded() || *conf.Simulation.RandomSeed != 9 {
		t.Errorf("seed not applied")
	}
	if conf.MonteCarlo.Runs != 5 {
		t.Errorf("MonteCarlo.Runs = %d, expected 5", conf.MonteCarlo.Runs)
	}
	if conf.Output.CSVPath != "a.csv" || conf.Output.ChartDataPath != "c.json" || conf.Output.MetricsFile != "m.prom" {
		t.Errorf("output paths = %+v", conf.Output)
	}

	untouched := config.Default()
	overrides{}.apply(&untouched)
	if untouched.Seeded() || untouched.MonteCarlo.Runs != constants.DefaultMonteCarloRuns {
		t.Errorf("empty overrides changed the configuration")
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	conf := config.Default().WithSeed(42)
	conf.MonteCarlo.Runs = 3
	conf.MonteCarlo.Workers = 2
	conf.Sensitivity.RejectionRates = []float64{0.10, 0.20}
	conf.Output.CSVPath = filepath.Join(dir, "daily.csv")
	conf.Output.ChartDataPath = filepath.Join(dir, "charts.json")
	conf.Output.MetricsFile = filepath.Join(dir, "sorting_roi.prom")

	var buf bytes.Buffer
	if err := run(context.Background(), zap.NewNop(), conf, constants.OutputFormatPretty, &buf); err != nil {
		t.Fatalf("run() error = %v", err)
	}

	out := buf.String()
	for _, want := range []string{"seed 42", "Current rejection rate sensitivity:", "Break-even", "Monte-Carlo (3 runs from seed 42)"} {
		if !strings.Contains(out, want) {
			t.Errorf("report missing %q", want)
		}
	}
	for _, path := range []string{conf.Output.CSVPath, conf.Output.ChartDataPath, conf.Output.MetricsFile} {
		if _, err := os.Stat(path); err != nil {
			t.Errorf("expected export %s: %v", path, err)
		}
	}
}

func TestRunInvalidConfiguration(t *testing.T) {
	conf := config.Default()
	conf.Simulation.HorizonDays = 0

	err := run(context.Background(), zap.NewNop(), conf, constants.OutputFormatPretty, &bytes.Buffer{})
	if !errors.Is(err, config.ErrInvalidConfiguration) {
		t.Errorf("run() error = %v, expected ErrInvalidConfiguration", err)
	}
}
