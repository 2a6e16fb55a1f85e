package bearsolve

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

// ErrInvalidConfig is wrapped by all validation errors of Config.
var ErrInvalidConfig = errors.New("invalid configuration")

// Config holds every option of a solver run. It is passed explicitly to the
// constructors of grids and enumerators; nothing is read from global state.
type Config struct {
	RangeMin    decimal.Decimal
	RangeMax    decimal.Decimal
	RangeStep   decimal.Decimal
	BearingMin  decimal.Decimal
	BearingMax  decimal.Decimal
	BearingStep decimal.Decimal

	// PrecisionOrder is the number of non-zero terms of the sin/cos Taylor
	// polynomials.
	PrecisionOrder int
	// Pi is the approximation of π used to convert degrees to radians.
	Pi decimal.Decimal

	MaxChecks int           // maximum number of satisfiability checks, 0 for no limit
	Timeout   time.Duration // wall-clock budget of an enumeration, 0 for no limit
	Shards    int           // number of independent sub-domains searched in parallel
	Table     string        // identifier of the substitution table, e.g. "symbols/1"
}

// DefaultConfig returns the configuration the tool has always used:
// Range in 0…10 with step 0.4, bearing in -180…180 with step 8, and
// precision order 5.
func DefaultConfig() Config {
	return Config{
		RangeMin:       decimal.NewFromInt(0),
		RangeMax:       decimal.NewFromInt(10),
		RangeStep:      decimal.RequireFromString("0.4"),
		BearingMin:     decimal.NewFromInt(-180),
		BearingMax:     decimal.NewFromInt(180),
		BearingStep:    decimal.NewFromInt(8),
		PrecisionOrder: 5,
		Pi:             decimal.RequireFromString("3.14159"),
		Shards:         1,
		Table:          "symbols/1",
	}
}

// Validate checks a configuration for consistency.
func (c Config) Validate() error {
	if err := checkInterval(RangeVar, c.RangeMin, c.RangeMax, c.RangeStep); err != nil {
		return err
	}
	if err := checkInterval(BearingVar, c.BearingMin, c.BearingMax, c.BearingStep); err != nil {
		return err
	}
	if c.PrecisionOrder < 1 {
		return errors.Wrapf(ErrInvalidConfig, "precision order must be >= 1, is %d", c.PrecisionOrder)
	}
	if !c.Pi.IsPositive() {
		return errors.Wrapf(ErrInvalidConfig, "pi must be positive, is %s", c.Pi)
	}
	if c.MaxChecks < 0 || c.Timeout < 0 {
		return errors.Wrap(ErrInvalidConfig, "budgets must not be negative")
	}
	if c.Shards < 1 {
		return errors.Wrapf(ErrInvalidConfig, "number of shards must be >= 1, is %d", c.Shards)
	}
	return nil
}

func checkInterval(name string, min, max, step decimal.Decimal) error {
	if !step.IsPositive() {
		return errors.Wrapf(ErrInvalidConfig, "%s step must be positive, is %s", name, step)
	}
	if max.LessThan(min) {
		return errors.Wrapf(ErrInvalidConfig, "%s max %s is less than min %s", name, max, min)
	}
	return nil
}

func (c Config) String() string {
	return fmt.Sprintf("Range=[%s…%s/%s] bearing=[%s…%s/%s] P=%d π=%s",
		c.RangeMin, c.RangeMax, c.RangeStep,
		c.BearingMin, c.BearingMax, c.BearingStep,
		c.PrecisionOrder, c.Pi)
}
