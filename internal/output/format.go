// Package output provides utilities for formatting and exporting simulation results.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/iwvelando/sorting-roi/internal/roi"
	"github.com/iwvelando/sorting-roi/internal/simulation"
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/iwvelando/sorting-roi/pkg/format"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"gopkg.in/yaml.v3"
)

// CSVHeader is the column order of CsvFormat.
var CSVHeader = []string{
	"date",
	"base_demand",
	"unit_price",
	"quality_score",
	"rejection_ratio_current",
	"units_lost_current",
	"actual_sales_current",
	"revenue_current",
	"rejection_ratio_optimized",
	"units_lost_optimized",
	"actual_sales_optimized",
	"revenue_optimized",
	"units_recovered",
}

// Render writes the report in the requested output format. The csv format
// writes the per-day records instead of the summary.
func Render(w io.Writer, outputFormat string, report Report, records []simulation.DailyRecord) error {
	switch outputFormat {
	case constants.OutputFormatPretty:
		return PrettyFormat(w, report)
	case constants.OutputFormatCSV:
		return CsvFormat(w, records)
	case constants.OutputFormatYAML:
		return YAMLFormat(w, report)
	case constants.OutputFormatJSON:
		return JSONFormat(w, report)
	default:
		return fmt.Errorf("unsupported output format %q", outputFormat)
	}
}

// PrettyFormat outputs a human-readable rather than machine-readable summary.
func PrettyFormat(w io.Writer, report Report) error {
	p := message.NewPrinter(language.English)
	var b strings.Builder

	fmt.Fprintf(&b, "--- Sorting machine ROI (run %s, seed %d) ---\n", report.RunID, report.Seed)
	fmt.Fprintf(&b, "Simulated days: %d (%s to %s)\n\n", report.Days, report.StartDate, report.EndDate)

	fmt.Fprintf(&b, "%-26s | %-12s | %-8s | %-20s | %s\n", "Scenario", "Units Lost", "Loss", "Revenue", "Revenue Loss")
	fmt.Fprintf(&b, "%-26s | %-12s | %-8s | %-20s | %s\n", "________", "__________", "____", "_______", "____________")
	for _, s := range []ScenarioReport{report.Current, report.Optimized} {
		fmt.Fprintf(&b, "%-26s | %-12s | %-8s | %-20s | %s\n",
			s.Name,
			p.Sprintf("%.0f", s.TotalUnitsLost),
			format.Percent(s.LossPercentage, 2),
			money(s.TotalRevenue),
			money(s.TotalRevenueLoss),
		)
	}
	b.WriteString("\n")

	_, _ = p.Fprintf(&b, "%-24s %.0f\n", "Units recovered:", report.UnitsRecovered)
	fmt.Fprintf(&b, "%-24s %s\n", "Gross benefit:", money(report.GrossBenefit))
	fmt.Fprintf(&b, "%-24s %s\n", "Annual operating cost:", money(report.AnnualOperationalCost))
	fmt.Fprintf(&b, "%-24s %s\n", "Annual net benefit:", money(report.AnnualNetBenefit))
	fmt.Fprintf(&b, "%-24s %s\n", "ROI:", format.Percent(report.ROIPercent, 2))
	if report.PaybackReached() {
		fmt.Fprintf(&b, "%-24s %.1f months\n", "Payback:", *report.PaybackMonths)
	} else {
		fmt.Fprintf(&b, "%-24s %s\n", "Payback:", report.PaybackStatus)
	}
	fmt.Fprintf(&b, "%-24s %s: %s | %s: %s\n", "Revenue totals:",
		report.Current.Name, format.Millions(report.Current.TotalRevenue),
		report.Optimized.Name, format.Millions(report.Optimized.TotalRevenue))

	if len(report.Sensitivity) > 0 {
		b.WriteString("\nCurrent rejection rate sensitivity:\n")
		for _, pt := range report.Sensitivity {
			if !pt.Evaluated {
				fmt.Fprintf(&b, "  %s: skipped (%s)\n", format.Percent(pt.RejectionRateCurrent*constants.PercentageMultiplier, 1), strings.Join(pt.Notes, ", "))
				continue
			}
			payback := string(pt.Payback.Status)
			if pt.Payback.Months > 0 {
				payback = fmt.Sprintf("%.1f months", pt.Payback.Months)
			}
			_, _ = p.Fprintf(&b, "  %s: units lost %.0f, ROI %s, payback %s\n",
				format.Percent(pt.RejectionRateCurrent*constants.PercentageMultiplier, 1),
				pt.TotalUnitsLost, format.Percent(pt.ROIPercent, 2), payback)
		}
	}

	if be := report.BreakEven; be != nil {
		fmt.Fprintf(&b, "\nBreak-even for a %g month payback:\n", be.TargetPaybackMonths)
		if be.Feasible {
			fmt.Fprintf(&b, "  Max daily operating cost: %s (headroom %s)\n",
				money(be.MaxDailyOperationalCost), money(be.Headroom))
		} else {
			fmt.Fprintf(&b, "  Not reachable: %s\n", strings.Join(be.Notes, "; "))
		}
		fmt.Fprintf(&b, "  No payback above: %s per day\n", money(be.NoPaybackDailyCost))
	}

	if mc := report.MonteCarlo; mc != nil {
		fmt.Fprintf(&b, "\nMonte-Carlo (%d runs from seed %d):\n", mc.Runs, mc.BaseSeed)
		fmt.Fprintf(&b, "  ROI P10/P50/P90: %s / %s / %s\n",
			format.Percent(mc.ROIPercent.P10, 2), format.Percent(mc.ROIPercent.P50, 2), format.Percent(mc.ROIPercent.P90, 2))
		fmt.Fprintf(&b, "  Net benefit mean: %s (min %s, max %s)\n",
			money(mc.AnnualNetBenefit.Mean), money(mc.AnnualNetBenefit.Min), money(mc.AnnualNetBenefit.Max))
		fmt.Fprintf(&b, "  Runs reaching payback: %s\n", format.Percent(mc.PaybackShare*constants.PercentageMultiplier, 1))
	}

	_, err := io.WriteString(w, b.String())
	return err
}

// CsvFormat outputs one row per day in comma-separated value format.
func CsvFormat(w io.Writer, records []simulation.DailyRecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{
			r.Date.Format(constants.DateLayout),
			strconv.Itoa(r.BaseDemand),
			formatFloat(r.UnitPrice),
			formatFloat(r.QualityScore),
			formatFloat(r.Current.RejectionRatio),
			formatFloat(r.Current.UnitsLost),
			formatFloat(r.Current.ActualSales),
			formatFloat(r.Current.Revenue),
			formatFloat(r.Optimized.RejectionRatio),
			formatFloat(r.Optimized.UnitsLost),
			formatFloat(r.Optimized.ActualSales),
			formatFloat(r.Optimized.Revenue),
			formatFloat(r.UnitsRecovered),
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// money renders whole pesos; COP has no minor unit in everyday use.
func money(amount float64) string {
	return format.CurrencyPlaces(amount, 0)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// YAMLFormat outputs the summary report as YAML.
func YAMLFormat(w io.Writer, report Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report as YAML: %w", err)
	}
	return enc.Close()
}

// JSONFormat outputs the summary report, including chart data, as JSON.
func JSONFormat(w io.Writer, report Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return fmt.Errorf("failed to encode report as JSON: %w", err)
	}
	return nil
}

// WriteCSV exports the per-day records to path.
func WriteCSV(path string, records []simulation.DailyRecord) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create CSV file %s: %w", path, err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close CSV file %s: %w", path, cerr)
		}
	}()
	if err := CsvFormat(f, records); err != nil {
		return fmt.Errorf("failed to write CSV file %s: %w", path, err)
	}
	return nil
}

// WriteChartData exports what a renderer needs to draw both charts to path as JSON.
func WriteChartData(path string, data roi.ChartData) error {
	encoded, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode chart data: %w", err)
	}
	if err := os.WriteFile(path, append(encoded, '\n'), 0o644); err != nil {
		return fmt.Errorf("failed to write chart data to %s: %w", path, err)
	}
	return nil
}
