package calculation

import (
	"fmt"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Transaction is a scheduled, possibly recurring, movement of money into
// Destination and/or out of Source. It is built from a domain.TransactionSpec
// and becomes usable once Setup has resolved its references.
type Transaction struct {
	Name     string
	Category string
	Amount   decimal.Decimal

	// Amount modes; at most one is set.
	AmountRemainingBalance bool
	AmountAbove            *decimal.Decimal
	MaintainBalance        *decimal.Decimal
	AssetMaturity          bool
	SEPPBirth              *time.Time
	SEPPInterestRateYearly *float64

	Frequency        domain.Frequency
	FrequencyPeriods int

	Source         *Asset
	Destination    *Asset
	DonationSource *Asset
	DonationFactor float64

	StartDate        time.Time
	EndDate          time.Time
	PresentValueDate time.Time
	InterestRate     *InterestRate

	Priority       int
	AmountRequired bool

	IncomeTaxable         bool
	FedIncomeTaxPayment   bool
	StateIncomeTaxPayment bool
	FedTaxDeductable      bool
	StateTaxDeductable    bool
	ContributionsOnly     bool

	spec     domain.TransactionSpec
	resolved bool

	periodCounter  int
	lastOccurrence time.Time
	lastExecuted   time.Time
	seppPayment    *float64
}

// NewTransaction creates an unresolved transaction from spec, filling in the
// defaults: monthly, every period, amount required, no growth.
func NewTransaction(spec domain.TransactionSpec) *Transaction {
	t := &Transaction{
		Name:                   spec.Name,
		Category:               spec.Category,
		Amount:                 decimal.Zero,
		AmountRemainingBalance: boolValue(spec.AmountRemainingBalance, false),
		AmountAbove:            spec.AmountAbove,
		MaintainBalance:        spec.MaintainBalance,
		AssetMaturity:          boolValue(spec.AssetMaturity, false),
		SEPPBirth:              spec.SEPPBirth,
		SEPPInterestRateYearly: spec.SEPPInterestRateYearly,
		Frequency:              spec.Frequency,
		FrequencyPeriods:       1,
		AmountRequired:         boolValue(spec.AmountRequired, true),
		IncomeTaxable:          boolValue(spec.IncomeTaxable, false),
		FedIncomeTaxPayment:    boolValue(spec.FedIncomeTaxPayment, false),
		StateIncomeTaxPayment:  boolValue(spec.StateIncomeTaxPayment, false),
		FedTaxDeductable:       boolValue(spec.FedTaxDeductable, false),
		StateTaxDeductable:     boolValue(spec.StateTaxDeductable, false),
		ContributionsOnly:      boolValue(spec.ContributionsOnly, false),
		spec:                   spec,
	}
	if spec.Amount != nil {
		t.Amount = *spec.Amount
	}
	if t.Frequency == "" {
		t.Frequency = domain.FrequencyMonthly
	}
	if spec.FrequencyPeriods != nil {
		t.FrequencyPeriods = *spec.FrequencyPeriods
	}
	if spec.Priority != nil {
		t.Priority = *spec.Priority
	}
	if spec.DonationFactor != nil {
		t.DonationFactor = *spec.DonationFactor
	}
	return t
}

// Spec returns the configuration the transaction was built from.
func (t *Transaction) Spec() domain.TransactionSpec {
	return t.spec
}

// Setup resolves asset, interest-rate and date references and checks the
// transaction. It runs once; later calls are no-ops.
func (t *Transaction) Setup(start, end time.Time, assets map[string]*Asset, rates map[string]*InterestRate, dates map[string]time.Time) error {
	if t.resolved {
		return nil
	}
	var err error
	if t.Source, err = lookupAsset(assets, t.spec.Source, "source", t.Name); err != nil {
		return err
	}
	if t.Destination, err = lookupAsset(assets, t.spec.Destination, "destination", t.Name); err != nil {
		return err
	}
	if t.DonationSource, err = lookupAsset(assets, t.spec.DonationSource, "donation source", t.Name); err != nil {
		return err
	}
	if t.InterestRate, err = lookupRate(rates, t.spec.InterestRate, t.Name); err != nil {
		return err
	}
	if t.StartDate, err = resolveDate(t.spec.StartName, t.spec.Start, start, dates, t.Name); err != nil {
		return err
	}
	if t.EndDate, err = resolveDate(t.spec.EndName, t.spec.End, end, dates, t.Name); err != nil {
		return err
	}
	t.PresentValueDate = start
	if t.spec.PresentValueDate != nil {
		t.PresentValueDate = dateutil.Truncate(*t.spec.PresentValueDate)
	}
	// Forces execution on the first matching date.
	t.periodCounter = t.FrequencyPeriods
	if err := t.Check(); err != nil {
		return err
	}
	t.resolved = true
	return nil
}

// Check verifies the transaction's field combinations.
func (t *Transaction) Check() error {
	invalid := func(format string, args ...any) error {
		return fmt.Errorf("%w: transaction %s: %s", ErrInvalidTransaction, t.Name, fmt.Sprintf(format, args...))
	}
	if !knownFrequency(t.Frequency) {
		return fmt.Errorf("%w: %q on transaction %s", ErrUnknownFrequency, t.Frequency, t.Name)
	}
	if t.FrequencyPeriods < 1 {
		return invalid("frequency_periods must be at least 1, got %d", t.FrequencyPeriods)
	}
	if t.Source == nil && t.Destination == nil {
		return invalid("must have at least a source or destination")
	}
	if t.EndDate.Before(t.StartDate) {
		return invalid("end %s is before start %s", t.EndDate.Format(dateutil.Layout), t.StartDate.Format(dateutil.Layout))
	}
	modes := 0
	for _, set := range []bool{t.AmountRemainingBalance, t.SEPPBirth != nil, t.AmountAbove != nil, t.MaintainBalance != nil, t.AssetMaturity} {
		if set {
			modes++
		}
	}
	if modes > 1 {
		return invalid("only one of amount_remaining_balance, sepp_birth, amount_above, maintain_balance and asset_maturity may be set")
	}
	if t.AmountRemainingBalance && t.Source == nil {
		return invalid("cannot transfer remaining balance without a defined source")
	}
	if t.AmountAbove != nil && t.Source == nil {
		return invalid("cannot transfer balance above threshold without a defined source")
	}
	if t.MaintainBalance != nil && t.Destination == nil {
		return invalid("cannot maintain a balance without a defined destination")
	}
	if t.AssetMaturity && t.Destination == nil {
		return invalid("asset maturity must have a valid destination")
	}
	if t.SEPPBirth != nil {
		if t.Frequency != domain.FrequencyYearly {
			return invalid("SEPP withdrawals must be yearly, not %s", t.Frequency)
		}
		if t.Source == nil || t.Destination == nil {
			return invalid("SEPP withdrawals need both a source and a destination")
		}
	}
	if t.FedIncomeTaxPayment && t.StateIncomeTaxPayment {
		return invalid("cannot be both a federal and a state income tax payment")
	}
	if (t.FedIncomeTaxPayment || t.StateIncomeTaxPayment) && t.Destination != nil {
		return invalid("income tax payments cannot have a destination")
	}
	if t.DonationFactor != 0 && t.DonationSource == nil {
		return invalid("donation factor requires a donation source")
	}
	if t.DonationSource != nil && t.DonationFactor == 0 {
		return invalid("donation source requires a donation factor")
	}
	return nil
}

// Executable reports whether the transaction runs on date, advancing its
// schedule state. Each date matching the frequency pattern counts as one
// period; only every FrequencyPeriods-th period executes. A date is never
// counted twice.
func (t *Transaction) Executable(date time.Time) (bool, error) {
	if !dateutil.InRange(date, t.StartDate, t.EndDate) {
		return false, nil
	}
	if !t.lastOccurrence.IsZero() && date.Equal(t.lastOccurrence) {
		return false, nil
	}
	match := false
	switch t.Frequency {
	case domain.FrequencyDaily:
		match = true
	case domain.FrequencyYearly:
		match = date.Day() == t.StartDate.Day() && date.Month() == t.StartDate.Month()
	case domain.FrequencyMonthly:
		match = date.Day() == t.StartDate.Day()
	case domain.FrequencyWeekly, domain.FrequencyBiweekly:
		if t.lastOccurrence.IsZero() {
			match = date.Day() == t.StartDate.Day()
		} else {
			// Measured from the last eligible date rather than the last
			// execution, so frequency_periods > 1 keeps counting periods.
			interval := 7
			if t.Frequency == domain.FrequencyBiweekly {
				interval = 14
			}
			match = dateutil.DaysBetween(t.lastOccurrence, date) == interval
		}
	default:
		return false, fmt.Errorf("%w: %q on transaction %s", ErrUnknownFrequency, t.Frequency, t.Name)
	}
	if !match {
		return false, nil
	}
	t.lastOccurrence = date
	t.periodCounter++
	if t.periodCounter < t.FrequencyPeriods {
		return false, nil
	}
	t.periodCounter = 0
	t.lastExecuted = date
	return true, nil
}

// LastExecuted returns the last date the transaction executed, or the zero
// time if it has not.
func (t *Transaction) LastExecuted() time.Time {
	return t.lastExecuted
}

// GetAmount computes the amount to move on date. The deposit and
// withdrawal legs of a transaction move the same amount; a donation is the
// computed amount scaled by DonationFactor and funded by DonationSource.
//
// When the funding asset cannot cover the amount, a required transaction
// fails with *InsufficientBalanceError and an optional one is clamped to what
// is available. ContributionsOnly applies the same rule against the funding
// asset's contribution balance.
func (t *Transaction) GetAmount(date time.Time, deposit, isDonation bool) (float64, error) {
	amount := t.modeAmount(date)
	if isDonation {
		return t.DonationAmount(amount, date)
	}
	return t.fund(amount, t.Source, date)
}

// DonationAmount scales base, the parent amount already computed for date,
// into the donation drawn from DonationSource.
func (t *Transaction) DonationAmount(base float64, date time.Time) (float64, error) {
	return t.fund(base*t.DonationFactor, t.DonationSource, date)
}

func (t *Transaction) fund(amount float64, funding *Asset, date time.Time) (float64, error) {
	if funding == nil {
		return amount, nil
	}
	amount, err := t.limit(amount, funding.FloatBalance(), funding, date, false)
	if err != nil {
		return 0, err
	}
	if t.ContributionsOnly {
		return t.limit(amount, funding.ContributionBalance(), funding, date, true)
	}
	return amount, nil
}

func (t *Transaction) modeAmount(date time.Time) float64 {
	switch {
	case t.AmountRemainingBalance:
		if balance := t.Source.FloatBalance(); balance > 0 {
			return balance
		}
		return 0
	case t.SEPPBirth != nil:
		return t.seppAmount(date)
	case t.AmountAbove != nil:
		threshold := t.AmountAbove.InexactFloat64()
		if balance := t.Source.FloatBalance(); balance >= threshold {
			return balance - threshold
		}
		return 0
	case t.MaintainBalance != nil:
		target := t.MaintainBalance.InexactFloat64()
		if balance := t.Destination.FloatBalance(); balance < target {
			return target - balance
		}
		return 0
	case t.AssetMaturity:
		balance := t.Destination.FloatBalance()
		amount := t.InterestRate.CalculateValue(balance, t.PresentValueDate, date) - balance
		t.PresentValueDate = date
		return amount
	default:
		return t.InterestRate.CalculateValue(t.Amount.InexactFloat64(), t.PresentValueDate, date)
	}
}

func (t *Transaction) limit(amount, available float64, funding *Asset, date time.Time, contributions bool) (float64, error) {
	if amount <= available {
		return amount, nil
	}
	if t.AmountRequired {
		return 0, &InsufficientBalanceError{
			Asset:         funding.Name,
			Transaction:   t.Name,
			Date:          date,
			Amount:        amount,
			Available:     available,
			Contributions: contributions,
		}
	}
	return available, nil
}

// newSettlementTransaction builds an already-resolved one-off transaction
// against source, used for tax settlements.
func newSettlementTransaction(name, category string, amount decimal.Decimal, source *Asset, rate *InterestRate, date time.Time) *Transaction {
	t := NewTransaction(domain.TransactionSpec{Name: name, Category: category, Amount: &amount, Source: source.Name})
	t.Source = source
	t.InterestRate = rate
	t.StartDate, t.EndDate, t.PresentValueDate = date, date, date
	t.resolved = true
	return t
}

func knownFrequency(f domain.Frequency) bool {
	switch f {
	case domain.FrequencyDaily, domain.FrequencyWeekly, domain.FrequencyBiweekly, domain.FrequencyMonthly, domain.FrequencyYearly:
		return true
	}
	return false
}

func lookupAsset(assets map[string]*Asset, name, role, owner string) (*Asset, error) {
	if name == "" {
		return nil, nil
	}
	a, ok := assets[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s (%s) on transaction %s", ErrUnknownAsset, role, name, owner)
	}
	return a, nil
}

func lookupRate(rates map[string]*InterestRate, name, owner string) (*InterestRate, error) {
	if name == "" {
		name = domain.DefaultInterestRateName
	}
	r, ok := rates[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", ErrUnknownInterestRate, name, owner)
	}
	return r, nil
}

// resolveDate picks a named date first, then a literal one, then fallback.
func resolveDate(name string, literal *time.Time, fallback time.Time, dates map[string]time.Time, owner string) (time.Time, error) {
	if name != "" {
		d, ok := dates[name]
		if !ok {
			return time.Time{}, fmt.Errorf("%w: %s on %s", ErrUnknownDate, name, owner)
		}
		return dateutil.Truncate(d), nil
	}
	if literal != nil {
		return dateutil.Truncate(*literal), nil
	}
	return fallback, nil
}

func boolValue(b *bool, fallback bool) bool {
	if b == nil {
		return fallback
	}
	return *b
}
