package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/iwvelando/sorting-roi/internal/config"
	"github.com/iwvelando/sorting-roi/internal/metrics"
	"github.com/iwvelando/sorting-roi/internal/montecarlo"
	"github.com/iwvelando/sorting-roi/internal/output"
	"github.com/iwvelando/sorting-roi/internal/roi"
	"github.com/iwvelando/sorting-roi/internal/sensitivity"
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/iwvelando/sorting-roi/pkg/validation"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var logLevels = map[string]zapcore.Level{
	"debug":   zapcore.DebugLevel,
	"info":    zapcore.InfoLevel,
	"warn":    zapcore.WarnLevel,
	"warning": zapcore.WarnLevel,
	"error":   zapcore.ErrorLevel,
}

var logFormats = map[string]func() zap.Config{
	"console": zap.NewDevelopmentConfig,
	"json":    zap.NewProductionConfig,
}

// initializeLogger builds the zap logger. A non-empty override replaces the
// configured level. Logs go to stderr unless a file is configured, leaving
// stdout to the report.
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}
	zapLevel, ok := logLevels[level]
	if !ok {
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "json"
	}
	newConfig, ok := logFormats[format]
	if !ok {
		return nil, fmt.Errorf("invalid log format: %s", format)
	}

	zapConfig := newConfig()
	zapConfig.Level = zap.NewAtomicLevelAt(zapLevel)
	zapConfig.OutputPaths = []string{"stderr"}

	if path := loggingConfig.OutputFile; path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("failed to create log directory for %s: %w", path, err)
		}
		zapConfig.OutputPaths = []string{path}
		zapConfig.ErrorOutputPaths = []string{path}
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}
	return logger, nil
}

// overrides carries the command line flags that take precedence over the
// configuration file. Pointer fields are nil when the flag was not given.
type overrides struct {
	seed          *int64
	runs          *int
	csvPath       string
	chartDataPath string
	metricsFile   string
}

func (o overrides) apply(conf *config.Configuration) {
	if o.seed != nil {
		*conf = conf.WithSeed(*o.seed)
	}
	if o.runs != nil {
		conf.MonteCarlo.Runs = *o.runs
	}
	if o.csvPath != "" {
		conf.Output.CSVPath = o.csvPath
	}
	if o.chartDataPath != "" {
		conf.Output.ChartDataPath = o.chartDataPath
	}
	if o.metricsFile != "" {
		conf.Output.MetricsFile = o.metricsFile
	}
}

// resolveConfigPath returns the path to load, or "" to run on defaults when
// the default config file is absent and no path was given explicitly.
func resolveConfigPath(path string, explicit bool) string {
	if explicit {
		return path
	}
	if _, err := os.Stat(path); errors.Is(err, fs.ErrNotExist) {
		return ""
	}
	return path
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load .env file\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}

	configLocation := flag.String("config", constants.DefaultConfigFile, "path to configuration file")
	outputFormatFlag := flag.String("output-format", "", "type of output override: pretty, csv, yaml, json")
	logLevel := flag.String("log-level", "", "log level override (debug, info, warn, error)")
	seedFlag := flag.Int64("seed", 0, "random seed override")
	runsFlag := flag.Int("runs", 0, "number of Monte-Carlo runs override")
	csvFlag := flag.String("csv", "", "write the per-day table to this CSV file")
	chartFlag := flag.String("chart-data", "", "write chart data to this JSON file")
	metricsFlag := flag.String("metrics-file", "", "write Prometheus metrics to this textfile")
	flag.Parse()

	var ov overrides
	configExplicit := false
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "config":
			configExplicit = true
		case "seed":
			ov.seed = seedFlag
		case "runs":
			ov.runs = runsFlag
		}
	})
	ov.csvPath = *csvFlag
	ov.chartDataPath = *chartFlag
	ov.metricsFile = *metricsFlag

	path := resolveConfigPath(*configLocation, configExplicit)
	conf, err := config.LoadConfiguration(path)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to load configuration at %s\", \"error\": \"%v\"}\n", path, err)
		os.Exit(1)
	}
	ov.apply(conf)

	logger, err := initializeLogger(conf.Logging, *logLevel)
	if err != nil {
		fmt.Printf("{\"op\": \"main\", \"level\": \"fatal\", \"msg\": \"failed to initialize logger\", \"error\": \"%v\"}\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat := conf.Output.Format
	if *outputFormatFlag != "" {
		outputFormat = *outputFormatFlag
	}
	if outputFormat == "" {
		outputFormat = constants.OutputFormatPretty
	}

	err = validation.ValidateOutputFormat(outputFormat)
	if err != nil {
		logger.Fatal(err.Error(),
			zap.String("op", "main"),
		)
	}

	if path == "" {
		logger.Info("no configuration file found, using defaults",
			zap.String("op", "main"),
			zap.String("config", *configLocation),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, logger, *conf, outputFormat, os.Stdout); err != nil {
		logger.Fatal("failed to compute sorting machine ROI",
			zap.String("op", "main"),
			zap.Error(err),
		)
	}
}

// run computes the simulated year and every configured extra analysis,
// writes the exports and renders the report to w.
func run(ctx context.Context, logger *zap.Logger, conf config.Configuration, outputFormat string, w io.Writer) error {
	if err := conf.Validate(); err != nil {
		return err
	}

	warnings := conf.ValidateConfiguration()
	for _, warning := range warnings {
		logger.Warn("Configuration warning: "+warning,
			zap.String("op", "main"),
		)
	}

	recorder := metrics.NewRecorder()

	started := time.Now()
	result, err := roi.Run(logger, conf)
	if err != nil {
		return err
	}
	recorder.Observe(result, time.Since(started))
	logger.Info("simulated year complete",
		zap.String("op", "main"),
		zap.String("run", result.RunID.String()),
		zap.Int64("seed", result.Seed),
		zap.Float64("roiPercent", result.Financial.ROIPercent),
	)

	report := output.NewReport(result)

	if len(conf.Sensitivity.RejectionRates) > 0 {
		points, err := sensitivity.SweepCurrentRejection(logger, result.Records, result.Policy, result.Costs, conf.Sensitivity.RejectionRates)
		if err != nil {
			return fmt.Errorf("sensitivity sweep failed: %w", err)
		}
		report.Sensitivity = points
	}

	if conf.Sensitivity.TargetPaybackMonths > 0 {
		be, err := sensitivity.BreakEvenDailyCost(result, conf.Sensitivity.TargetPaybackMonths)
		if err != nil {
			return fmt.Errorf("break-even analysis failed: %w", err)
		}
		report.BreakEven = &be
	}

	if conf.MonteCarlo.Runs > 0 {
		// Monte-Carlo continues from the seed actually used so the whole
		// invocation can be repeated with -seed.
		summary, err := montecarlo.Run(ctx, logger, conf.WithSeed(result.Seed), conf.MonteCarlo.Runs, conf.MonteCarlo.Workers)
		if err != nil {
			return fmt.Errorf("monte-carlo simulation failed: %w", err)
		}
		recorder.ObserveMonteCarlo(summary)
		report.MonteCarlo = summary
	}

	if conf.Output.CSVPath != "" {
		if err := output.WriteCSV(conf.Output.CSVPath, result.Records); err != nil {
			return err
		}
		logger.Info("wrote daily records",
			zap.String("op", "main"),
			zap.String("path", conf.Output.CSVPath),
		)
	}

	if conf.Output.ChartDataPath != "" {
		if err := output.WriteChartData(conf.Output.ChartDataPath, result.ChartData()); err != nil {
			return err
		}
		logger.Info("wrote chart data",
			zap.String("op", "main"),
			zap.String("path", conf.Output.ChartDataPath),
		)
	}

	if conf.Output.MetricsFile != "" {
		if err := recorder.WriteTextfile(conf.Output.MetricsFile); err != nil {
			return err
		}
		logger.Info("wrote metrics",
			zap.String("op", "main"),
			zap.String("path", conf.Output.MetricsFile),
		)
	}

	return output.Render(w, outputFormat, report, result.Records)
}
