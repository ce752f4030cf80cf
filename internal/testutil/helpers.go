// Package testutil provides common utility functions for testing.
package testutil

import (
	"github.com/iwvelando/sorting-roi/internal/roi"
	"github.com/iwvelando/sorting-roi/internal/sensitivity"
	"github.com/iwvelando/sorting-roi/internal/simulation"
	"github.com/iwvelando/sorting-roi/pkg/constants"
)

// FindScenario finds a scenario revenue total by name.
// Returns a pointer to the total if found, nil otherwise.
func FindScenario(totals []roi.ScenarioTotal, name string) *roi.ScenarioTotal {
	for i := range totals {
		if totals[i].Scenario == name {
			return &totals[i]
		}
	}
	return nil
}

// FindRecord finds the record of a day given in constants.DateLayout.
// Returns nil if no record falls on that day.
func FindRecord(records []simulation.DailyRecord, date string) *simulation.DailyRecord {
	for i := range records {
		if records[i].Date.Format(constants.DateLayout) == date {
			return &records[i]
		}
	}
	return nil
}

// FindRate finds the sensitivity point evaluated at a current rejection rate.
// Returns nil if the rate was not part of the sweep.
func FindRate(points []sensitivity.Point, rate float64) *sensitivity.Point {
	for i := range points {
		if points[i].RejectionRateCurrent == rate {
			return &points[i]
		}
	}
	return nil
}
