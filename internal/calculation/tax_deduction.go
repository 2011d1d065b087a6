package calculation

import (
	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// TaxDeduction is a fixed deduction or credit stated in relativeYear terms
// and grown by its interest rate.
type TaxDeduction struct {
	Name      string
	Amount    decimal.Decimal
	StartYear *int
	EndYear   *int

	rateName     string
	interestRate *InterestRate
	relativeYear int
}

// NewTaxDeduction creates an unresolved deduction from its configuration.
func NewTaxDeduction(cfg domain.TaxDeductionConfig) *TaxDeduction {
	return &TaxDeduction{
		Name:      cfg.Name,
		Amount:    cfg.Amount,
		StartYear: cfg.StartYear,
		EndYear:   cfg.EndYear,
		rateName:  cfg.InterestRate,
	}
}

// Setup resolves the interest rate and records the year Amount is stated in.
func (d *TaxDeduction) Setup(rates map[string]*InterestRate, relativeYear int) error {
	rate, err := lookupRate(rates, d.rateName, "tax deduction "+d.Name)
	if err != nil {
		return err
	}
	d.interestRate = rate
	d.relativeYear = relativeYear
	return nil
}

// Executable reports whether the deduction applies to year.
func (d *TaxDeduction) Executable(year int) bool {
	if d.StartYear != nil && year < *d.StartYear {
		return false
	}
	if d.EndYear != nil && year > *d.EndYear {
		return false
	}
	return true
}

// GetAmount returns the deduction for year, grown from January 1st of the
// relative year to January 1st of year.
func (d *TaxDeduction) GetAmount(year int) float64 {
	amount := d.Amount.InexactFloat64()
	if d.interestRate == nil {
		return amount
	}
	return d.interestRate.CalculateValue(amount, dateutil.YearStart(d.relativeYear), dateutil.YearStart(year))
}
