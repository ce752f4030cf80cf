// Package metrics exposes simulation results as Prometheus metrics and
// writes them in the text exposition format for the node exporter's
// textfile collector.
package metrics

import (
	"fmt"
	"time"

	"github.com/iwvelando/sorting-roi/internal/montecarlo"
	"github.com/iwvelando/sorting-roi/internal/roi"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "sorting_roi"

// Recorder owns a private registry so repeated runs in one process never
// collide on the global one.
type Recorder struct {
	registry *prometheus.Registry

	runs             prometheus.Counter
	runDuration      prometheus.Histogram
	roiPercent       prometheus.Gauge
	annualNetBenefit prometheus.Gauge
	paybackMonths    prometheus.Gauge
	paybackReached   prometheus.Gauge
	unitsRecovered   prometheus.Gauge
	unitsLost        *prometheus.GaugeVec
	revenue          *prometheus.GaugeVec
	monteCarloROI    *prometheus.GaugeVec
}

// NewRecorder builds a Recorder with every collector registered.
func NewRecorder() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "runs_total",
			Help:      "Total number of simulated years.",
		}),
		runDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "run_duration_seconds",
			Help:      "Wall time of one simulated year.",
			Buckets:   prometheus.DefBuckets,
		}),
		roiPercent: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "roi_percent",
			Help:      "Annual net benefit as a percentage of the machine cost.",
		}),
		annualNetBenefit: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "annual_net_benefit",
			Help:      "Recovered revenue minus operating cost over the simulated year.",
		}),
		paybackMonths: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "payback_months",
			Help:      "Months until the machine cost is recovered, 0 when never.",
		}),
		paybackReached: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "payback_reached",
			Help:      "1 when the machine pays for itself, 0 otherwise.",
		}),
		unitsRecovered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "units_recovered",
			Help:      "Units sold with the machine that would have been lost without it.",
		}),
		unitsLost: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "units_lost",
			Help:      "Units lost to rejection over the simulated year.",
		}, []string{"scenario"}),
		revenue: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "revenue",
			Help:      "Revenue over the simulated year.",
		}, []string{"scenario"}),
		monteCarloROI: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "montecarlo_roi_percent",
			Help:      "ROI distribution across Monte-Carlo runs.",
		}, []string{"quantile"}),
	}

	r.registry.MustRegister(
		r.runs,
		r.runDuration,
		r.roiPercent,
		r.annualNetBenefit,
		r.paybackMonths,
		r.paybackReached,
		r.unitsRecovered,
		r.unitsLost,
		r.revenue,
		r.monteCarloROI,
	)
	return r
}

// Registry returns the registry backing the recorder.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// Observe records one simulated year and how long it took.
func (r *Recorder) Observe(result *roi.Result, elapsed time.Duration) {
	if result == nil {
		return
	}
	r.runs.Inc()
	r.runDuration.Observe(elapsed.Seconds())

	f := result.Financial
	r.roiPercent.Set(f.ROIPercent)
	r.annualNetBenefit.Set(f.AnnualNetBenefit)
	r.unitsRecovered.Set(f.TotalUnitsRecovered)
	r.paybackMonths.Set(f.Payback.Months)
	if _, err := f.PaybackPeriod(); err == nil {
		r.paybackReached.Set(1)
	} else {
		r.paybackReached.Set(0)
	}

	for _, s := range []struct {
		name      string
		unitsLost float64
		revenue   float64
	}{
		{"current", result.Current.TotalUnitsLost, result.Current.TotalRevenue},
		{"optimized", result.Optimized.TotalUnitsLost, result.Optimized.TotalRevenue},
	} {
		r.unitsLost.WithLabelValues(s.name).Set(s.unitsLost)
		r.revenue.WithLabelValues(s.name).Set(s.revenue)
	}
}

// ObserveMonteCarlo records the ROI quantiles of a Monte-Carlo summary.
func (r *Recorder) ObserveMonteCarlo(summary *montecarlo.Summary) {
	if summary == nil {
		return
	}
	r.runs.Add(float64(summary.Runs))
	d := summary.ROIPercent
	r.monteCarloROI.WithLabelValues("0.1").Set(d.P10)
	r.monteCarloROI.WithLabelValues("0.5").Set(d.P50)
	r.monteCarloROI.WithLabelValues("0.9").Set(d.P90)
}

// WriteTextfile writes every metric to path atomically.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return fmt.Errorf("failed to write metrics to %s: %w", path, err)
	}
	return nil
}
