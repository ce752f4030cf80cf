package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/iwvelando/sorting-roi/pkg/constants"
)

func TestLoadConfiguration(t *testing.T) {
	tests := []struct {
		name       string
		configPath string
		wantError  bool
	}{
		{
			name:       "Non-existent config file",
			configPath: "nonexistent.yaml",
			wantError:  true,
		},
		{
			name:       "Defaults only",
			configPath: "",
			wantError:  false,
		},
		{
			name:       "Test configuration",
			configPath: "../../test/test_config.yaml",
			wantError:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config, err := LoadConfiguration(tt.configPath)
			if tt.wantError {
				if err == nil {
					t.Errorf("LoadConfiguration() expected error but got none")
				}
				return
			}
			if err != nil {
				t.Errorf("LoadConfiguration() error = %v", err)
				return
			}
			if config == nil {
				t.Errorf("LoadConfiguration() returned nil config")
			}
		})
	}
}

func TestLoadConfigurationDefaults(t *testing.T) {
	config, err := LoadConfiguration("")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if config.Simulation.HorizonDays != constants.DefaultHorizonDays {
		t.Errorf("Expected HorizonDays = %d, got %d", constants.DefaultHorizonDays, config.Simulation.HorizonDays)
	}
	if config.Simulation.StartDate != constants.DefaultStartDate {
		t.Errorf("Expected StartDate = %s, got %s", constants.DefaultStartDate, config.Simulation.StartDate)
	}
	if config.Simulation.BaseDemandBaseline != 15000 {
		t.Errorf("Expected BaseDemandBaseline = 15000, got %d", config.Simulation.BaseDemandBaseline)
	}
	if config.Simulation.UnitPrice != 1000 {
		t.Errorf("Expected UnitPrice = 1000, got %v", config.Simulation.UnitPrice)
	}
	if config.LossModel.RejectionRateCurrent != 0.15 {
		t.Errorf("Expected RejectionRateCurrent = 0.15, got %v", config.LossModel.RejectionRateCurrent)
	}
	if config.LossModel.RejectionRateOptimized != 0.03 {
		t.Errorf("Expected RejectionRateOptimized = 0.03, got %v", config.LossModel.RejectionRateOptimized)
	}
	if config.LossModel.QualityThreshold != 2.5 {
		t.Errorf("Expected QualityThreshold = 2.5, got %v", config.LossModel.QualityThreshold)
	}
	if config.Investment.MachineCost != 150_000_000 {
		t.Errorf("Expected MachineCost = 150000000, got %v", config.Investment.MachineCost)
	}
	if config.Investment.DailyOperationalCost != 150_000 {
		t.Errorf("Expected DailyOperationalCost = 150000, got %v", config.Investment.DailyOperationalCost)
	}
	if config.Seeded() {
		t.Errorf("Expected no random seed by default, got %d", *config.Simulation.RandomSeed)
	}
	if config.Output.Format != constants.OutputFormatPretty {
		t.Errorf("Expected output format %s, got %s", constants.OutputFormatPretty, config.Output.Format)
	}
	if err := config.Validate(); err != nil {
		t.Errorf("Validate() on loaded defaults returned error: %v", err)
	}
}

func TestLoadConfigurationStructure(t *testing.T) {
	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !config.Seeded() || *config.Simulation.RandomSeed != 42 {
		t.Errorf("Expected RandomSeed = 42, got %v", config.Simulation.RandomSeed)
	}
	if config.MonteCarlo.Runs != 20 {
		t.Errorf("Expected MonteCarlo.Runs = 20, got %d", config.MonteCarlo.Runs)
	}
	if config.MonteCarlo.Workers != 2 {
		t.Errorf("Expected MonteCarlo.Workers = 2, got %d", config.MonteCarlo.Workers)
	}
	expectedRates := []float64{0.05, 0.10, 0.15, 0.20, 0.25}
	if len(config.Sensitivity.RejectionRates) != len(expectedRates) {
		t.Fatalf("Expected %d sensitivity rates, got %d", len(expectedRates), len(config.Sensitivity.RejectionRates))
	}
	for i, rate := range expectedRates {
		if config.Sensitivity.RejectionRates[i] != rate {
			t.Errorf("Expected sensitivity rate %v at %d, got %v", rate, i, config.Sensitivity.RejectionRates[i])
		}
	}
	if config.Sensitivity.TargetPaybackMonths != 24 {
		t.Errorf("Expected TargetPaybackMonths = 24, got %v", config.Sensitivity.TargetPaybackMonths)
	}
	if config.Logging.Level != "warn" || config.Logging.Format != "console" {
		t.Errorf("Expected console logging at warn, got %s/%s", config.Logging.Format, config.Logging.Level)
	}
	if config.Output.Format != constants.OutputFormatYAML {
		t.Errorf("Expected output format yaml, got %s", config.Output.Format)
	}
}

func TestLoadConfigurationPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	content := []byte("investment:\n  dailyOperationalCost: 90000\n")
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	config, err := LoadConfiguration(path)
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}
	if config.Investment.DailyOperationalCost != 90000 {
		t.Errorf("Expected DailyOperationalCost = 90000, got %v", config.Investment.DailyOperationalCost)
	}
	if config.Investment.MachineCost != constants.DefaultMachineCost {
		t.Errorf("Expected default MachineCost, got %v", config.Investment.MachineCost)
	}
	if config.Simulation.HorizonDays != constants.DefaultHorizonDays {
		t.Errorf("Expected default HorizonDays, got %d", config.Simulation.HorizonDays)
	}
}

func TestLoadConfigurationEnvironmentOverrides(t *testing.T) {
	t.Setenv("SORTING_ROI_SIMULATION_RANDOMSEED", "7")
	t.Setenv("SORTING_ROI_LOSSMODEL_REJECTIONRATECURRENT", "0.2")
	t.Setenv("SORTING_ROI_SIMULATION_HORIZONDAYS", "30")

	config, err := LoadConfiguration("../../test/test_config.yaml")
	if err != nil {
		t.Fatalf("LoadConfiguration() error = %v", err)
	}

	if !config.Seeded() || *config.Simulation.RandomSeed != 7 {
		t.Errorf("Expected RandomSeed = 7 from environment, got %v", config.Simulation.RandomSeed)
	}
	if config.LossModel.RejectionRateCurrent != 0.2 {
		t.Errorf("Expected RejectionRateCurrent = 0.2 from environment, got %v", config.LossModel.RejectionRateCurrent)
	}
	if config.Simulation.HorizonDays != 30 {
		t.Errorf("Expected HorizonDays = 30 from environment, got %d", config.Simulation.HorizonDays)
	}
}

func TestWithSeed(t *testing.T) {
	base := Default()
	seeded := base.WithSeed(99)

	if base.Seeded() {
		t.Errorf("WithSeed() modified the original configuration")
	}
	if !seeded.Seeded() || *seeded.Simulation.RandomSeed != 99 {
		t.Errorf("WithSeed() = %v, expected 99", seeded.Simulation.RandomSeed)
	}
}

func TestStartTime(t *testing.T) {
	conf := Default()
	start, err := conf.StartTime()
	if err != nil {
		t.Fatalf("StartTime() error = %v", err)
	}
	if start.Format(DateLayout) != constants.DefaultStartDate {
		t.Errorf("StartTime() = %s, expected %s", start.Format(DateLayout), constants.DefaultStartDate)
	}

	conf.Simulation.StartDate = "not-a-date"
	if _, err := conf.StartTime(); err == nil {
		t.Errorf("StartTime() expected error for malformed date")
	}
}
