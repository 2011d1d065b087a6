package calculation

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// TAX SETTLEMENT ASSUMPTIONS:
//
// 1. Taxes are settled once a year, on December 31st, from the year's
//    action logs. A final partial year is not settled.
// 2. Bracket thresholds and deduction amounts are stated in the relative
//    year and grown to each settled year by the calculator's interest rate.
// 3. Prepayments are the year's logged tax-payment withdrawals; credits
//    reduce the bill after the progressive walk.

// Jurisdiction selects which tax flags a calculator reads.
type Jurisdiction string

const (
	Federal Jurisdiction = "Federal"
	State   Jurisdiction = "State"
)

// BracketStep is one bracket as a width of income taxed at Rate. The last
// step of a table is unbounded.
type BracketStep struct {
	Width float64
	Rate  float64
}

// IncomeTaxCalculator settles one jurisdiction's income taxes each year and
// keeps a summary of every settlement.
type IncomeTaxCalculator struct {
	Jurisdiction Jurisdiction
	Source       *Asset
	Deductions   []*TaxDeduction
	Credits      []*TaxDeduction
	Brackets     []domain.TaxBracket
	InterestRate *InterestRate
	RelativeYear int

	cfg       domain.IncomeTaxConfig
	summaries []domain.YearSummary
}

// NewIncomeTaxCalculator creates an unresolved calculator. With no brackets
// configured the default table is used; brackets are kept sorted by their
// bottom of range.
func NewIncomeTaxCalculator(jurisdiction Jurisdiction, cfg domain.IncomeTaxConfig) *IncomeTaxCalculator {
	brackets := cfg.TaxBrackets
	if len(brackets) == 0 {
		brackets = domain.DefaultTaxBrackets
	}
	sorted := make([]domain.TaxBracket, len(brackets))
	copy(sorted, brackets)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].BottomOfRange < sorted[j].BottomOfRange })

	itc := &IncomeTaxCalculator{
		Jurisdiction: jurisdiction,
		Brackets:     sorted,
		RelativeYear: cfg.RelativeYear,
		cfg:          cfg,
	}
	for _, d := range cfg.Deductions {
		itc.Deductions = append(itc.Deductions, NewTaxDeduction(d))
	}
	for _, c := range cfg.Credits {
		itc.Credits = append(itc.Credits, NewTaxDeduction(c))
	}
	return itc
}

// Setup resolves the paying asset and interest rates. relativeYear is used
// when the configuration does not name one.
func (itc *IncomeTaxCalculator) Setup(assets map[string]*Asset, rates map[string]*InterestRate, relativeYear int) error {
	source, ok := assets[itc.cfg.Source]
	if !ok {
		return fmt.Errorf("%w: source (%s) on %s income taxes", ErrUnknownAsset, itc.cfg.Source, itc.Jurisdiction)
	}
	itc.Source = source

	rate, err := lookupRate(rates, itc.cfg.InterestRate, string(itc.Jurisdiction)+" income taxes")
	if err != nil {
		return err
	}
	itc.InterestRate = rate
	if itc.RelativeYear == 0 {
		itc.RelativeYear = relativeYear
	}
	for _, d := range append(append([]*TaxDeduction{}, itc.Deductions...), itc.Credits...) {
		if err := d.Setup(rates, itc.RelativeYear); err != nil {
			return err
		}
	}
	return nil
}

// BracketTable returns the brackets for year as widths, with thresholds
// grown from the relative year.
func (itc *IncomeTaxCalculator) BracketTable(year int) []BracketStep {
	from, to := dateutil.YearStart(itc.RelativeYear), dateutil.YearStart(year)
	steps := make([]BracketStep, len(itc.Brackets))
	for i, b := range itc.Brackets {
		width := math.Inf(1)
		if i+1 < len(itc.Brackets) {
			next := itc.InterestRate.CalculateValue(itc.Brackets[i+1].BottomOfRange, from, to)
			width = next - itc.InterestRate.CalculateValue(b.BottomOfRange, from, to)
		}
		steps[i] = BracketStep{Width: width, Rate: b.Rate}
	}
	return steps
}

// ProgressiveTax walks balance through steps and returns the tax owed, the
// rate of the last bracket reached and the balance that entered it. Both of
// the latter are zero when there is nothing to tax.
func ProgressiveTax(balance float64, steps []BracketStep) (owed, maxRate, balanceAtMax float64) {
	for i := 0; balance > 0 && i < len(steps); i++ {
		maxRate, balanceAtMax = steps[i].Rate, balance
		if balance > steps[i].Width {
			owed += steps[i].Width * steps[i].Rate
			balance -= steps[i].Width
			continue
		}
		owed += balance * steps[i].Rate
		balance = 0
	}
	return owed, maxRate, balanceAtMax
}

// CalculateTaxes settles year from its action logs. It returns the settlement
// transaction, always for a non-negative amount, and whether it is a refund
// (a deposit into Source) rather than a payment.
func (itc *IncomeTaxCalculator) CalculateTaxes(logs []ActionLog, year int, mortgageInterest float64) (*Transaction, bool, error) {
	if itc.Source == nil {
		return nil, false, fmt.Errorf("%w: %s income taxes used before setup", ErrInvalidSimulation, itc.Jurisdiction)
	}
	taxableIncome := decimal.Zero
	deductions := decimal.Zero
	prepaid := decimal.Zero
	for _, log := range logs {
		t := log.Transaction
		if t == nil {
			continue
		}
		if t.IncomeTaxable && log.Amount.IsPositive() {
			taxableIncome = taxableIncome.Add(log.Amount)
		}
		if itc.deductible(t) {
			deductions = deductions.Add(log.Amount)
		}
		if itc.prepayment(t) {
			prepaid = prepaid.Add(log.Amount)
		}
	}

	instruments := 0.0
	for _, d := range itc.Deductions {
		if d.Executable(year) {
			instruments += d.GetAmount(year)
		}
	}
	deductions = deductions.Sub(roundCents(instruments)).Sub(roundCents(mortgageInterest))

	balance := taxableIncome.Add(deductions).InexactFloat64()
	owed, maxRate, balanceAtMax := ProgressiveTax(balance, itc.BracketTable(year))
	owedPreCredits := owed

	// Prepayments are logged as negative withdrawals.
	owed += prepaid.InexactFloat64()
	credits := 0.0
	for _, c := range itc.Credits {
		if c.Executable(year) {
			credits += c.GetAmount(year)
		}
	}
	owed -= credits

	itc.summaries = append(itc.summaries, domain.YearSummary{
		Year:                 year,
		TaxableIncome:        taxableIncome,
		Deductions:           deductions,
		IncomePostDeductions: roundCents(balance),
		TaxesOwedPreCredits:  roundCents(owedPreCredits),
		Credits:              roundCents(credits),
		TaxesPrepaid:         prepaid,
		TaxBill:              roundCents(owed),
		MaxRate:              maxRate,
		BalanceAtMaxRate:     roundCents(balanceAtMax),
	})

	refund := owed < 0
	name := fmt.Sprintf("%d %s Income Taxes", year, itc.Jurisdiction)
	date := dateutil.Date(year, time.December, 31)
	return newSettlementTransaction(name, "Taxes", roundCents(math.Abs(owed)), itc.Source, itc.InterestRate, date), refund, nil
}

// Summaries returns the settled years in order.
func (itc *IncomeTaxCalculator) Summaries() []domain.YearSummary {
	return itc.summaries
}

func (itc *IncomeTaxCalculator) deductible(t *Transaction) bool {
	if itc.Jurisdiction == Federal {
		return t.FedTaxDeductable
	}
	return t.StateTaxDeductable
}

func (itc *IncomeTaxCalculator) prepayment(t *Transaction) bool {
	if itc.Jurisdiction == Federal {
		return t.FedIncomeTaxPayment
	}
	return t.StateIncomeTaxPayment
}
