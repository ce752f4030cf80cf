package metrics

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/iwvelando/sorting-roi/internal/analysis"
	"github.com/iwvelando/sorting-roi/internal/montecarlo"
	"github.com/iwvelando/sorting-roi/internal/roi"
	"github.com/iwvelando/sorting-roi/internal/simulation"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func sampleResult(status analysis.PaybackStatus, months float64) *roi.Result {
	return &roi.Result{
		Current:   simulation.ScenarioSummary{TotalUnitsLost: 3000, TotalRevenue: 9_000_000},
		Optimized: simulation.ScenarioSummary{TotalUnitsLost: 600, TotalRevenue: 11_400_000},
		Financial: analysis.FinancialResult{
			TotalUnitsRecovered: 2400,
			AnnualNetBenefit:    1_950_000,
			ROIPercent:          1.3,
			Payback:             analysis.Payback{Status: status, Months: months},
		},
	}
}

func TestObserve(t *testing.T) {
	tests := []struct {
		name          string
		result        *roi.Result
		expectReached float64
		expectMonths  float64
	}{
		{name: "Payback reached", result: sampleResult(analysis.PaybackReached, 92.3), expectReached: 1, expectMonths: 92.3},
		{name: "Payback unreachable", result: sampleResult(analysis.PaybackUnreachable, 0), expectReached: 0, expectMonths: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := NewRecorder()
			r.Observe(tt.result, 20*time.Millisecond)

			if got := testutil.ToFloat64(r.runs); got != 1 {
				t.Errorf("runs_total = %v, expected 1", got)
			}
			if got := testutil.ToFloat64(r.roiPercent); got != 1.3 {
				t.Errorf("roi_percent = %v, expected 1.3", got)
			}
			if got := testutil.ToFloat64(r.unitsRecovered); got != 2400 {
				t.Errorf("units_recovered = %v, expected 2400", got)
			}
			if got := testutil.ToFloat64(r.paybackReached); got != tt.expectReached {
				t.Errorf("payback_reached = %v, expected %v", got, tt.expectReached)
			}
			if got := testutil.ToFloat64(r.paybackMonths); got != tt.expectMonths {
				t.Errorf("payback_months = %v, expected %v", got, tt.expectMonths)
			}
			if got := testutil.ToFloat64(r.unitsLost.WithLabelValues("current")); got != 3000 {
				t.Errorf("units_lost{scenario=current} = %v, expected 3000", got)
			}
			if got := testutil.ToFloat64(r.revenue.WithLabelValues("optimized")); got != 11_400_000 {
				t.Errorf("revenue{scenario=optimized} = %v, expected 11400000", got)
			}
		})
	}
}

func TestObserveNil(t *testing.T) {
	r := NewRecorder()
	r.Observe(nil, time.Second)
	r.ObserveMonteCarlo(nil)
	if got := testutil.ToFloat64(r.runs); got != 0 {
		t.Errorf("runs_total = %v after nil observations, expected 0", got)
	}
}

func TestRegistry(t *testing.T) {
	r := NewRecorder()
	r.Observe(sampleResult(analysis.PaybackReached, 92.3), time.Millisecond)

	tests := []struct {
		name     string
		recorder *Recorder
		metrics  []string
		expected int
	}{
		{name: "Scenario series", recorder: r, metrics: []string{"sorting_roi_units_lost", "sorting_roi_revenue"}, expected: 4},
		{name: "No Monte-Carlo yet", recorder: r, metrics: []string{"sorting_roi_montecarlo_roi_percent"}, expected: 0},
		{name: "Separate recorder", recorder: NewRecorder(), metrics: []string{"sorting_roi_units_lost"}, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			count, err := testutil.GatherAndCount(tt.recorder.Registry(), tt.metrics...)
			if err != nil {
				t.Fatalf("GatherAndCount() error = %v", err)
			}
			if count != tt.expected {
				t.Errorf("GatherAndCount(%v) = %d, expected %d", tt.metrics, count, tt.expected)
			}
		})
	}
}

func TestObserveMonteCarlo(t *testing.T) {
	r := NewRecorder()
	r.ObserveMonteCarlo(&montecarlo.Summary{
		Runs:       25,
		ROIPercent: montecarlo.Distribution{P10: -4, P50: 1.5, P90: 6},
	})

	if got := testutil.ToFloat64(r.runs); got != 25 {
		t.Errorf("runs_total = %v, expected 25", got)
	}
	if got := testutil.ToFloat64(r.monteCarloROI.WithLabelValues("0.5")); got != 1.5 {
		t.Errorf("montecarlo_roi_percent{quantile=0.5} = %v, expected 1.5", got)
	}
	if got := testutil.ToFloat64(r.monteCarloROI.WithLabelValues("0.1")); got != -4 {
		t.Errorf("montecarlo_roi_percent{quantile=0.1} = %v, expected -4", got)
	}
}

func TestWriteTextfile(t *testing.T) {
	r := NewRecorder()
	r.Observe(sampleResult(analysis.PaybackReached, 92.3), time.Millisecond)

	path := filepath.Join(t.TempDir(), "sorting_roi.prom")
	if err := r.WriteTextfile(path); err != nil {
		t.Fatalf("WriteTextfile() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read metrics file: %v", err)
	}
	content := string(data)
	for _, want := range []string{
		"sorting_roi_roi_percent 1.3",
		"sorting_roi_runs_total 1",
		`sorting_roi_units_lost{scenario="current"} 3000`,
		"sorting_roi_run_duration_seconds_count 1",
	} {
		if !strings.Contains(content, want) {
			t.Errorf("metrics file missing %q", want)
		}
	}

	if err := r.WriteTextfile(filepath.Join(t.TempDir(), "missing", "x.prom")); err == nil {
		t.Errorf("WriteTextfile() expected error for missing directory")
	}
}
