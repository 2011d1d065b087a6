package calculation

import (
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Asset is an account holding a balance. The running balance is kept as a
// float so daily compounding does not lose precision to rounding; the
// reported balance is that value rounded to cents. The balance is split into
// contributions (money put in) and earnings (growth), which lets withdrawal
// restrictions apply to earnings alone.
type Asset struct {
	Name                 string
	Category             string
	AllowNegativeBalance bool
	// Zero values mean no restriction.
	MinWithdrawalDate time.Time
	MinEarningsDate   time.Time

	InterestRateName string
	MaturityPriority int

	fBalance            float64
	contributionBalance float64
	earningsBalance     float64
}

// NewAsset creates an asset from its configuration. A configured earnings
// balance is carved out of the opening balance; the rest is contributions.
func NewAsset(cfg domain.AssetConfig) *Asset {
	a := &Asset{
		Name:                 cfg.Name,
		Category:             cfg.Category,
		AllowNegativeBalance: cfg.AllowNegativeBalance,
		InterestRateName:     cfg.InterestRate,
		MaturityPriority:     cfg.MaturityPriority,
	}
	if a.Category == "" {
		a.Category = cfg.Name
	}
	if cfg.MinWithdrawalDate != nil {
		a.MinWithdrawalDate = *cfg.MinWithdrawalDate
	}
	if cfg.MinEarningsDate != nil {
		a.MinEarningsDate = *cfg.MinEarningsDate
	}
	a.fBalance = cfg.Balance.InexactFloat64()
	a.earningsBalance = cfg.EarningsBalance.InexactFloat64()
	a.contributionBalance = a.fBalance - a.earningsBalance
	return a
}

// Balance returns the balance rounded to cents.
func (a *Asset) Balance() decimal.Decimal {
	return roundCents(a.fBalance)
}

// FloatBalance returns the unrounded running balance.
func (a *Asset) FloatBalance() float64 {
	return a.fBalance
}

// ContributionBalance returns the unrounded contribution portion.
func (a *Asset) ContributionBalance() float64 {
	return a.contributionBalance
}

// EarningsBalance returns the unrounded earnings portion.
func (a *Asset) EarningsBalance() float64 {
	return a.earningsBalance
}

// ExecuteTransaction applies amount to the asset on behalf of txn, adding it
// for a deposit and subtracting it for a withdrawal. It returns the new
// rounded balance, the signed amount applied and the log entry describing
// the change. The log entry is returned even when err is non-nil; callers
// discard it on failure.
//
// A withdrawal before MinWithdrawalDate, or one reaching into earnings before
// MinEarningsDate, is rejected without touching the balance. A balance that
// ends below zero on an asset that does not allow it is reported after the
// change has been applied.
func (a *Asset) ExecuteTransaction(amount float64, txn *Transaction, deposit bool, date time.Time) (decimal.Decimal, float64, ActionLog, error) {
	delta := amount
	actionType := ActionDeposit
	if !deposit {
		delta = -amount
		actionType = ActionWithdrawal
	}
	log := ActionLog{
		Date:        date,
		ActionType:  actionType,
		Amount:      roundCents(delta),
		ChangedItem: a.Name,
		Transaction: txn,
	}

	if !deposit && !a.MinWithdrawalDate.IsZero() && date.Before(a.MinWithdrawalDate) {
		return a.Balance(), 0, log, &PrematureWithdrawalError{
			Asset:       a.Name,
			Transaction: txnName(txn),
			Date:        date,
			Allowed:     a.MinWithdrawalDate,
		}
	}

	switch {
	case txn != nil && txn.AssetMaturity:
		a.earningsBalance += delta
	case deposit:
		a.contributionBalance += delta
	case amount > a.contributionBalance:
		fromEarnings := amount - a.contributionBalance
		if !a.MinEarningsDate.IsZero() && date.Before(a.MinEarningsDate) {
			return a.Balance(), 0, log, &PrematureWithdrawalError{
				Asset:       a.Name,
				Transaction: txnName(txn),
				Date:        date,
				Allowed:     a.MinEarningsDate,
				Earnings:    true,
			}
		}
		a.contributionBalance = 0
		a.earningsBalance -= fromEarnings
	default:
		a.contributionBalance -= amount
	}
	before := a.fBalance
	a.fBalance += delta

	// Negative earnings cannot be attributed back to contributions, so the
	// whole balance is treated as contributions from here on.
	if a.earningsBalance < 0 {
		a.earningsBalance = 0
		a.contributionBalance = a.fBalance
	}

	if !a.AllowNegativeBalance && a.fBalance < 0 {
		return a.Balance(), delta, log, &InsufficientBalanceError{
			Asset:       a.Name,
			Transaction: txnName(txn),
			Date:        date,
			Amount:      amount,
			Available:   before,
		}
	}
	return a.Balance(), delta, log, nil
}

// State returns the snapshot record of the asset on date.
func (a *Asset) State(date time.Time) domain.AssetState {
	return domain.AssetState{
		Date:                date,
		Name:                a.Name,
		Balance:             a.Balance(),
		Category:            a.Category,
		ContributionBalance: roundCents(a.contributionBalance),
		EarningsBalance:     roundCents(a.earningsBalance),
	}
}

func txnName(t *Transaction) string {
	if t == nil {
		return ""
	}
	return t.Name
}

// roundCents converts a running float value to a reported amount, rounding
// half to even like the reports always have.
func roundCents(v float64) decimal.Decimal {
	return decimal.NewFromFloat(v).RoundBank(2)
}
