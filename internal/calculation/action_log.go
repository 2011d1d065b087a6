package calculation

import (
	"sort"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/shopspring/decimal"
)

// Action types recorded in the log.
const (
	ActionDeposit    = "deposit"
	ActionWithdrawal = "withdrawal"
)

// ActionLog is an immutable record of one change to one asset's balance.
type ActionLog struct {
	Date        time.Time
	ActionType  string
	Amount      decimal.Decimal
	ChangedItem string
	Transaction *Transaction
}

// Record flattens the log entry and its transaction for reporting.
func (l ActionLog) Record() domain.ActionLogRecord {
	rec := domain.ActionLogRecord{
		Date:        l.Date,
		ActionType:  l.ActionType,
		Amount:      l.Amount,
		ChangedItem: l.ChangedItem,
	}
	if t := l.Transaction; t != nil {
		rec.TransactionName = t.Name
		rec.Category = t.Category
		rec.Source = assetName(t.Source)
		rec.Destination = assetName(t.Destination)
		rec.AssetMaturity = t.AssetMaturity
		rec.IncomeTaxable = t.IncomeTaxable
		rec.FedIncomeTaxPayment = t.FedIncomeTaxPayment
		rec.StateIncomeTaxPayment = t.StateIncomeTaxPayment
		rec.FedTaxDeductable = t.FedTaxDeductable
		rec.StateTaxDeductable = t.StateTaxDeductable
	}
	return rec
}

func assetName(a *Asset) string {
	if a == nil {
		return ""
	}
	return a.Name
}

// ActionLogger keeps the action logs of a run, grouped by calendar year in
// the order they were added.
type ActionLogger struct {
	years map[int][]ActionLog
}

// NewActionLogger creates an empty logger.
func NewActionLogger() *ActionLogger {
	return &ActionLogger{years: make(map[int][]ActionLog)}
}

// Add appends log to its year. Zero-amount entries are dropped; Add reports
// whether the entry was kept.
func (al *ActionLogger) Add(log ActionLog) bool {
	if log.Amount.IsZero() {
		return false
	}
	year := log.Date.Year()
	al.years[year] = append(al.years[year], log)
	return true
}

// Year returns the logs of one year in chronological order.
func (al *ActionLogger) Year(year int) []ActionLog {
	return al.years[year]
}

// Years returns the years that have logs, ascending.
func (al *ActionLogger) Years() []int {
	years := make([]int, 0, len(al.years))
	for y := range al.years {
		years = append(years, y)
	}
	sort.Ints(years)
	return years
}

// Len returns the total number of logs kept.
func (al *ActionLogger) Len() int {
	n := 0
	for _, logs := range al.years {
		n += len(logs)
	}
	return n
}

// Records flattens all logs, year by year.
func (al *ActionLogger) Records() []domain.ActionLogRecord {
	records := make([]domain.ActionLogRecord, 0, al.Len())
	for _, y := range al.Years() {
		for _, log := range al.years[y] {
			records = append(records, log.Record())
		}
	}
	return records
}
