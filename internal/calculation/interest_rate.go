package calculation

import (
	"math"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
)

// InterestRate is a named annual rate in percent, compounded daily.
type InterestRate struct {
	Name string
	Rate float64
}

// NewInterestRate creates an interest rate from its configuration.
func NewInterestRate(cfg domain.InterestRateConfig) *InterestRate {
	return &InterestRate{Name: cfg.Name, Rate: cfg.Rate}
}

// DailyRate returns the rate per day as a fraction.
func (ir *InterestRate) DailyRate() float64 {
	return ir.Rate / 100.0 / 365.0
}

// CalculateValue projects presentValue from presentDate to futureDate. A
// future date before the present date discounts instead of compounding.
func (ir *InterestRate) CalculateValue(presentValue float64, presentDate, futureDate time.Time) float64 {
	if ir.Rate == 0 {
		return presentValue
	}
	return FutureValue(presentValue, ir.DailyRate(), dateutil.DaysBetween(presentDate, futureDate))
}

// FutureValue compounds presentValue at rate per period over periods.
func FutureValue(presentValue, rate float64, periods int) float64 {
	return presentValue * math.Pow(1+rate, float64(periods))
}
