// Package validation provides configuration validation utilities.
package validation

import (
	"fmt"

	"github.com/iwvelando/sorting-roi/pkg/datetime"
)

// ValidateHorizon checks whether the simulated days starting at startDate
// cover exactly one year. The financial figures are labelled annual, so any
// other span yields a warning. An unparsable start date is an error.
func ValidateHorizon(startDate string, horizonDays int) (string, error) {
	end, err := datetime.OffsetDate(startDate, datetime.DateLayout, horizonDays)
	if err != nil {
		return "", err
	}
	yearLater, err := datetime.OffsetYears(startDate, datetime.DateLayout, 1)
	if err != nil {
		return "", err
	}

	short, err := datetime.DateBeforeDate(end, yearLater)
	if err != nil {
		return "", err
	}
	long, err := datetime.DateBeforeDate(yearLater, end)
	if err != nil {
		return "", err
	}

	switch {
	case short:
		return fmt.Sprintf("horizon of %d days starting %s ends before %s - annual figures cover less than one year",
			horizonDays, startDate, yearLater), nil
	case long:
		return fmt.Sprintf("horizon of %d days starting %s runs past %s - annual figures cover more than one year",
			horizonDays, startDate, yearLater), nil
	}
	return "", nil
}
