package config

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/iwvelando/sorting-roi/pkg/constants"
	"github.com/iwvelando/sorting-roi/pkg/validation"
)

// ErrInvalidConfiguration is wrapped by every ConfigurationError.
var ErrInvalidConfiguration = errors.New("invalid configuration")

// Problem describes one rejected configuration field.
type Problem struct {
	Field  string
	Reason string
}

// ConfigurationError collects every problem found while validating a
// configuration. It is returned before any simulation starts.
type ConfigurationError struct {
	Problems []Problem
}

func (e *ConfigurationError) Error() string {
	parts := make([]string, 0, len(e.Problems))
	for _, p := range e.Problems {
		parts = append(parts, fmt.Sprintf("%s: %s", p.Field, p.Reason))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidConfiguration, strings.Join(parts, "; "))
}

func (e *ConfigurationError) Unwrap() error {
	return ErrInvalidConfiguration
}

func (e *ConfigurationError) add(field, reason string) {
	e.Problems = append(e.Problems, Problem{Field: field, Reason: reason})
}

var validate = validator.New()

// Validate checks the configuration against every rule the simulation
// depends on and returns a *ConfigurationError describing all violations.
func (c *Configuration) Validate() error {
	cfgErr := &ConfigurationError{}

	if err := validate.Struct(c); err != nil {
		var fieldErrs validator.ValidationErrors
		if !errors.As(err, &fieldErrs) {
			return fmt.Errorf("unable to validate configuration: %w", err)
		}
		for _, fe := range fieldErrs {
			cfgErr.add(fieldPath(fe), describe(fe))
		}
	}

	for _, field := range c.nonFinite() {
		cfgErr.add(field, "must be a finite number")
	}

	if c.LossModel.RejectionRateOptimized >= c.LossModel.RejectionRateCurrent {
		cfgErr.add("lossModel.rejectionRateOptimized",
			fmt.Sprintf("must be lower than rejectionRateCurrent (%g >= %g)",
				c.LossModel.RejectionRateOptimized, c.LossModel.RejectionRateCurrent))
	}

	if len(cfgErr.Problems) > 0 {
		return cfgErr
	}
	return nil
}

// ValidateConfiguration performs general validation of the configuration and
// returns warnings that do not prevent a run.
func (c *Configuration) ValidateConfiguration() []string {
	var warnings []string

	if !c.Seeded() {
		warnings = append(warnings, "no random seed configured - results will differ between runs")
	}

	if warning, err := validation.ValidateHorizon(c.Simulation.StartDate, c.Simulation.HorizonDays); err == nil && warning != "" {
		warnings = append(warnings, warning)
	}

	threshold := c.LossModel.QualityThreshold
	if threshold <= constants.MinQualityScore {
		warnings = append(warnings, fmt.Sprintf("quality threshold %g is at or below the minimum score %g - no day can be rejected",
			threshold, constants.MinQualityScore))
	} else if threshold > constants.MaxQualityScore {
		warnings = append(warnings, fmt.Sprintf("quality threshold %g is above the maximum score %g - every day is rejected",
			threshold, constants.MaxQualityScore))
	}

	if c.LossModel.RejectionRateOptimized == 0 {
		warnings = append(warnings, "optimized rejection rate is zero - the machine is assumed to eliminate all maturity losses")
	}

	if c.Simulation.QualityStddev == 0 {
		warnings = append(warnings, "quality standard deviation is zero - every day has the same maturity score")
	}

	if c.Simulation.BaseDemandBaseline < 10 {
		warnings = append(warnings, fmt.Sprintf("base demand baseline %d is too small to vary - every day has the same demand",
			c.Simulation.BaseDemandBaseline))
	}

	for _, rate := range c.Sensitivity.RejectionRates {
		if rate <= c.LossModel.RejectionRateOptimized {
			warnings = append(warnings, fmt.Sprintf("sensitivity rate %g does not exceed the optimized rate %g - the machine recovers nothing at that rate",
				rate, c.LossModel.RejectionRateOptimized))
		}
	}

	return warnings
}

func (c *Configuration) nonFinite() []string {
	values := []struct {
		field string
		value float64
	}{
		{"simulation.unitPrice", c.Simulation.UnitPrice},
		{"simulation.qualityMean", c.Simulation.QualityMean},
		{"simulation.qualityStddev", c.Simulation.QualityStddev},
		{"lossModel.qualityThreshold", c.LossModel.QualityThreshold},
		{"lossModel.rejectionRateCurrent", c.LossModel.RejectionRateCurrent},
		{"lossModel.rejectionRateOptimized", c.LossModel.RejectionRateOptimized},
		{"investment.machineCost", c.Investment.MachineCost},
		{"investment.dailyOperationalCost", c.Investment.DailyOperationalCost},
		{"sensitivity.targetPaybackMonths", c.Sensitivity.TargetPaybackMonths},
	}
	var fields []string
	for _, v := range values {
		if math.IsNaN(v.value) || math.IsInf(v.value, 0) {
			fields = append(fields, v.field)
		}
	}
	return fields
}

// fieldPath converts "Configuration.LossModel.RejectionRateCurrent" into the
// config key "lossModel.rejectionRateCurrent".
func fieldPath(fe validator.FieldError) string {
	parts := strings.Split(fe.Namespace(), ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, part := range parts {
		if part == "" {
			continue
		}
		parts[i] = strings.ToLower(part[:1]) + part[1:]
	}
	return strings.Join(parts, ".")
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "gt":
		return fmt.Sprintf("must be greater than %s (got %v)", fe.Param(), fe.Value())
	case "gte":
		return fmt.Sprintf("must be at least %s (got %v)", fe.Param(), fe.Value())
	case "lte":
		return fmt.Sprintf("must be at most %s (got %v)", fe.Param(), fe.Value())
	case "oneof":
		return fmt.Sprintf("must be one of [%s] (got %v)", fe.Param(), fe.Value())
	case "datetime":
		return fmt.Sprintf("must be a date formatted as %s (got %v)", fe.Param(), fe.Value())
	default:
		return fmt.Sprintf("failed %s validation (got %v)", fe.Tag(), fe.Value())
	}
}
