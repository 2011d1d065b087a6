package calculation

import (
	"fmt"
	"math"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Mortgage is a monthly amortized payment out of Source against the debt
// held, as a negative balance, in Destination.
type Mortgage struct {
	*Transaction
	LoanAmount     decimal.Decimal
	LoanRate       float64
	TermMonths     int
	ExtraPrincipal decimal.Decimal

	interestPaid map[int]float64
}

// NewMortgage creates an unresolved mortgage from its configuration.
func NewMortgage(cfg domain.MortgageConfig) *Mortgage {
	return &Mortgage{
		Transaction:    NewTransaction(cfg.TransactionSpec),
		LoanAmount:     cfg.LoanAmount,
		LoanRate:       cfg.LoanRate,
		TermMonths:     cfg.TermMonths,
		ExtraPrincipal: cfg.ExtraPrincipal,
		interestPaid:   make(map[int]float64),
	}
}

// Setup resolves the underlying transaction and checks the mortgage.
func (m *Mortgage) Setup(start, end time.Time, assets map[string]*Asset, rates map[string]*InterestRate, dates map[string]time.Time) error {
	if err := m.Transaction.Setup(start, end, assets, rates, dates); err != nil {
		return err
	}
	return m.Check()
}

// Check adds the mortgage rules to the transaction's.
func (m *Mortgage) Check() error {
	if err := m.Transaction.Check(); err != nil {
		return err
	}
	if m.Source == nil {
		return fmt.Errorf("%w: mortgage %s does not have a source defined", ErrInvalidTransaction, m.Name)
	}
	if m.Destination == nil {
		return fmt.Errorf("%w: mortgage %s does not have a destination defined", ErrInvalidTransaction, m.Name)
	}
	if m.Frequency != domain.FrequencyMonthly {
		return fmt.Errorf("%w: mortgage %s must have a monthly frequency, not %s", ErrInvalidTransaction, m.Name, m.Frequency)
	}
	if m.TermMonths < 1 {
		return fmt.Errorf("%w: mortgage %s needs a term of at least one month", ErrInvalidTransaction, m.Name)
	}
	return nil
}

// LoanRateMonth returns the monthly rate as a fraction.
func (m *Mortgage) LoanRateMonth() float64 {
	return m.LoanRate / 100.0 / 12.0
}

// Payment returns the fixed monthly payment, including extra principal.
func (m *Mortgage) Payment() float64 {
	loan := m.LoanAmount.InexactFloat64()
	rate := m.LoanRateMonth()
	var payment float64
	if rate == 0 {
		payment = loan / float64(m.TermMonths)
	} else {
		term := math.Pow(1+rate, float64(m.TermMonths))
		payment = loan * (rate * term / (term - 1))
	}
	return payment + m.ExtraPrincipal.InexactFloat64()
}

// PaymentInterest returns this month's interest on the outstanding balance.
func (m *Mortgage) PaymentInterest() float64 {
	return math.Abs(m.Destination.FloatBalance()) * m.LoanRateMonth()
}

// GetAmount returns the withdrawal from Source (deposit false) or the
// principal paid into Destination (deposit true). When the outstanding
// balance is smaller than a regular principal payment the loan is closed
// out: the principal leg pays exactly what remains and the source leg pays
// that plus the month's interest.
func (m *Mortgage) GetAmount(date time.Time, deposit bool) (float64, error) {
	payment := m.Payment()
	interest := m.PaymentInterest()
	principal := payment - interest
	remaining := math.Abs(m.Destination.FloatBalance())
	closeout := remaining < principal

	switch {
	case deposit && closeout:
		return remaining, nil
	case deposit:
		return principal, nil
	case closeout:
		return interest + remaining, nil
	default:
		return payment, nil
	}
}

// Executable stops once the loan is fully paid.
func (m *Mortgage) Executable(date time.Time) (bool, error) {
	if m.Destination.Balance().IsZero() {
		return false, nil
	}
	return m.Transaction.Executable(date)
}

// RecordInterest adds interest paid on date to its year's total.
func (m *Mortgage) RecordInterest(date time.Time, interest float64) {
	m.interestPaid[date.Year()] += interest
}

// InterestPaid returns the interest paid during year.
func (m *Mortgage) InterestPaid(year int) float64 {
	return m.interestPaid[year]
}
