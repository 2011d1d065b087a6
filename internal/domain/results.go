package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// AssetState is a snapshot of one asset, captured at each month end.
type AssetState struct {
	Date                time.Time       `json:"date"`
	Name                string          `json:"name"`
	Balance             decimal.Decimal `json:"balance"`
	Category            string          `json:"category"`
	ContributionBalance decimal.Decimal `json:"contribution_balance"`
	EarningsBalance     decimal.Decimal `json:"earnings_balance"`
}

// ActionLogRecord is the flattened form of one balance change together with
// the fields of the transaction that caused it.
type ActionLogRecord struct {
	Date        time.Time       `json:"date"`
	ActionType  string          `json:"action_type"`
	Amount      decimal.Decimal `json:"amount"`
	ChangedItem string          `json:"changed_item"`

	TransactionName       string `json:"transaction_name"`
	Category              string `json:"category"`
	Source                string `json:"source,omitempty"`
	Destination           string `json:"destination,omitempty"`
	AssetMaturity         bool   `json:"asset_maturity"`
	IncomeTaxable         bool   `json:"income_taxable"`
	FedIncomeTaxPayment   bool   `json:"fed_income_tax_payment"`
	StateIncomeTaxPayment bool   `json:"state_income_tax_payment"`
	FedTaxDeductable      bool   `json:"fed_tax_deductable"`
	StateTaxDeductable    bool   `json:"state_tax_deductable"`
}

// YearSummary records one calendar year of income tax settlement.
type YearSummary struct {
	Year                 int             `json:"year"`
	TaxableIncome        decimal.Decimal `json:"taxable_income"`
	Deductions           decimal.Decimal `json:"deductions"`
	IncomePostDeductions decimal.Decimal `json:"income_post_deductions"`
	TaxesOwedPreCredits  decimal.Decimal `json:"taxes_owed_pre_credits"`
	Credits              decimal.Decimal `json:"credits"`
	TaxesPrepaid         decimal.Decimal `json:"taxes_prepaid"`
	TaxBill              decimal.Decimal `json:"tax_bill"`
	MaxRate              float64         `json:"max_rate"`
	BalanceAtMaxRate     decimal.Decimal `json:"balance_at_max_rate"`
}

// NetWorthTotal is the NetWorthRecord type used for the sum over all
// categories.
const NetWorthTotal = "Total"

// NetWorthRecord is the summed balance of one asset category (or the total)
// at a month end.
type NetWorthRecord struct {
	Date    time.Time       `json:"date"`
	Type    string          `json:"type"`
	Balance decimal.Decimal `json:"balance"`
}

// SimulationResult is everything a run produces. When the run halted early,
// Error is set and the collections hold what accumulated before the halt.
type SimulationResult struct {
	RunID             string            `json:"run_id"`
	Start             time.Time         `json:"start"`
	End               time.Time         `json:"end"`
	Days              int               `json:"days"`
	AssetStates       []AssetState      `json:"asset_states"`
	ActionLogs        []ActionLogRecord `json:"action_logs"`
	FederalTaxSummary []YearSummary     `json:"federal_tax_summary"`
	StateTaxSummary   []YearSummary     `json:"state_tax_summary"`
	NetWorth          []NetWorthRecord  `json:"net_worth"`
	Error             error             `json:"-"`
	ErrorMessage      string            `json:"error,omitempty"`
}

// Failed reports whether the run halted before its end date.
func (r *SimulationResult) Failed() bool {
	return r.Error != nil
}
