package calculation

import (
	"errors"
	"fmt"
	"time"

	"github.com/rgehrsitz/dayplan/pkg/dateutil"
)

// Configuration errors. These are returned from setup and are never retried.
var (
	ErrUnknownAsset        = errors.New("unknown asset")
	ErrUnknownInterestRate = errors.New("unknown interest rate")
	ErrUnknownDate         = errors.New("unknown date")
	ErrUnknownFrequency    = errors.New("unknown transaction frequency")
	ErrInvalidTransaction  = errors.New("invalid transaction")
	ErrGroupNotExecutable  = errors.New("transaction groups cannot be executed")
	ErrInvalidSimulation   = errors.New("invalid simulation")
)

// InsufficientBalanceError reports a transaction that needed more money than
// its funding asset held, or an asset driven below zero when that is not
// allowed.
type InsufficientBalanceError struct {
	Asset       string
	Transaction string
	Date        time.Time
	Amount      float64
	Available   float64
	// Contributions is set when the limit was the asset's contribution
	// balance rather than its full balance.
	Contributions bool
}

func (e *InsufficientBalanceError) Error() string {
	what := "funds"
	if e.Contributions {
		what = "contributions"
	}
	return fmt.Sprintf("transaction %s cannot get sufficient %s (%.2f, available %.2f) on %s from %s",
		e.Transaction, what, e.Amount, e.Available, e.Date.Format(dateutil.Layout), e.Asset)
}

// PrematureWithdrawalError reports a withdrawal attempted before the asset
// allows it. Earnings is set when only the earnings portion was locked.
type PrematureWithdrawalError struct {
	Asset       string
	Transaction string
	Date        time.Time
	Allowed     time.Time
	Earnings    bool
}

func (e *PrematureWithdrawalError) Error() string {
	what := "withdrawal"
	if e.Earnings {
		what = "earnings withdrawal"
	}
	return fmt.Sprintf("transaction %s attempted %s from %s on %s, not allowed before %s",
		e.Transaction, what, e.Asset, e.Date.Format(dateutil.Layout), e.Allowed.Format(dateutil.Layout))
}

// IsRunHalting reports whether err is a runtime balance outcome that stops a
// simulation run without invalidating what was produced before it.
func IsRunHalting(err error) bool {
	var insufficient *InsufficientBalanceError
	var premature *PrematureWithdrawalError
	return errors.As(err, &insufficient) || errors.As(err, &premature)
}
