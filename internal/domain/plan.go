package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// DefaultInterestRateName names the zero-growth rate used when an item does
// not reference an interest rate of its own.
const DefaultInterestRateName = "Default_Interest"

// InterestRateConfig is a named annual rate, expressed in percent.
type InterestRateConfig struct {
	Name string  `yaml:"name" json:"name" toml:"name"`
	Rate float64 `yaml:"rate" json:"rate" toml:"rate"`
}

// AssetConfig describes an account holding a balance.
type AssetConfig struct {
	Name                 string          `yaml:"name" json:"name" toml:"name"`
	Category             string          `yaml:"category,omitempty" json:"category,omitempty" toml:"category,omitempty"`
	Balance              decimal.Decimal `yaml:"balance" json:"balance" toml:"balance"`
	EarningsBalance      decimal.Decimal `yaml:"earnings_balance,omitempty" json:"earnings_balance,omitempty" toml:"earnings_balance,omitempty"`
	AllowNegativeBalance bool            `yaml:"allow_negative_balance,omitempty" json:"allow_negative_balance,omitempty" toml:"allow_negative_balance,omitempty"`
	MinWithdrawalDate    *time.Time      `yaml:"min_withdrawal_date,omitempty" json:"min_withdrawal_date,omitempty" toml:"min_withdrawal_date,omitempty"`
	MinEarningsDate      *time.Time      `yaml:"min_earnings_date,omitempty" json:"min_earnings_date,omitempty" toml:"min_earnings_date,omitempty"`

	// InterestRate, when set, gives the asset a daily maturity transaction
	// growing its balance at that rate.
	InterestRate     string `yaml:"interest_rate,omitempty" json:"interest_rate,omitempty" toml:"interest_rate,omitempty"`
	MaturityPriority int    `yaml:"maturity_priority,omitempty" json:"maturity_priority,omitempty" toml:"maturity_priority,omitempty"`
}

// MortgageConfig is a monthly amortized loan payment from Source against the
// (negative) balance of Destination.
type MortgageConfig struct {
	TransactionSpec `yaml:",inline"`
	LoanAmount      decimal.Decimal `yaml:"loan_amount" json:"loan_amount" toml:"loan_amount"`
	LoanRate        float64         `yaml:"loan_rate" json:"loan_rate" toml:"loan_rate"`
	TermMonths      int             `yaml:"term_months" json:"term_months" toml:"term_months"`
	ExtraPrincipal  decimal.Decimal `yaml:"extra_principal,omitempty" json:"extra_principal,omitempty" toml:"extra_principal,omitempty"`
}

// TaxBracket is one step of a progressive rate schedule. Rate is a fraction
// (0.10 for 10%).
type TaxBracket struct {
	BottomOfRange float64 `yaml:"bottom_of_range" json:"bottom_of_range" toml:"bottom_of_range"`
	Rate          float64 `yaml:"rate" json:"rate" toml:"rate"`
}

// DefaultTaxBrackets is the 2024 US federal schedule for single filers.
var DefaultTaxBrackets = []TaxBracket{
	{BottomOfRange: 0, Rate: 0.10},
	{BottomOfRange: 11600, Rate: 0.12},
	{BottomOfRange: 47150, Rate: 0.22},
	{BottomOfRange: 100525, Rate: 0.24},
	{BottomOfRange: 191950, Rate: 0.32},
	{BottomOfRange: 243725, Rate: 0.35},
	{BottomOfRange: 609350, Rate: 0.37},
}

// TaxDeductionConfig is a fixed deduction or credit, optionally limited to a
// range of years and grown by an interest rate.
type TaxDeductionConfig struct {
	Name         string          `yaml:"name" json:"name" toml:"name"`
	Amount       decimal.Decimal `yaml:"amount" json:"amount" toml:"amount"`
	InterestRate string          `yaml:"interest_rate,omitempty" json:"interest_rate,omitempty" toml:"interest_rate,omitempty"`
	StartYear    *int            `yaml:"start_year,omitempty" json:"start_year,omitempty" toml:"start_year,omitempty"`
	EndYear      *int            `yaml:"end_year,omitempty" json:"end_year,omitempty" toml:"end_year,omitempty"`
}

// IncomeTaxConfig configures a federal or state income tax calculator.
type IncomeTaxConfig struct {
	Source       string               `yaml:"source" json:"source" toml:"source"`
	Deductions   []TaxDeductionConfig `yaml:"deductions,omitempty" json:"deductions,omitempty" toml:"deductions,omitempty"`
	Credits      []TaxDeductionConfig `yaml:"credits,omitempty" json:"credits,omitempty" toml:"credits,omitempty"`
	TaxBrackets  []TaxBracket         `yaml:"tax_brackets,omitempty" json:"tax_brackets,omitempty" toml:"tax_brackets,omitempty"`
	InterestRate string               `yaml:"interest_rate,omitempty" json:"interest_rate,omitempty" toml:"interest_rate,omitempty"`
	// RelativeYear is the year the bracket thresholds and deduction amounts
	// are stated in. Zero means the simulation start year.
	RelativeYear int `yaml:"relative_year,omitempty" json:"relative_year,omitempty" toml:"relative_year,omitempty"`
}

// Configuration is the merged plan handed to the simulation engine.
type Configuration struct {
	Start              *time.Time           `yaml:"start,omitempty" json:"start,omitempty" toml:"start,omitempty"`
	End                *time.Time           `yaml:"end,omitempty" json:"end,omitempty" toml:"end,omitempty"`
	Dates              map[string]time.Time `yaml:"dates,omitempty" json:"dates,omitempty" toml:"dates,omitempty"`
	Assets             []AssetConfig        `yaml:"assets,omitempty" json:"assets,omitempty" toml:"assets,omitempty"`
	InterestRates      []InterestRateConfig `yaml:"interest_rates,omitempty" json:"interest_rates,omitempty" toml:"interest_rates,omitempty"`
	Transactions       []TransactionNode    `yaml:"transactions,omitempty" json:"transactions,omitempty" toml:"transactions,omitempty"`
	Mortgages          []MortgageConfig     `yaml:"mortgages,omitempty" json:"mortgages,omitempty" toml:"mortgages,omitempty"`
	FederalIncomeTaxes *IncomeTaxConfig     `yaml:"federal_income_taxes,omitempty" json:"federal_income_taxes,omitempty" toml:"federal_income_taxes,omitempty"`
	StateIncomeTaxes   *IncomeTaxConfig     `yaml:"state_income_taxes,omitempty" json:"state_income_taxes,omitempty" toml:"state_income_taxes,omitempty"`
}
