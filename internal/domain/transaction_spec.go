package domain

import (
	"reflect"
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is how often a transaction recurs.
type Frequency string

const (
	FrequencyDaily    Frequency = "daily"
	FrequencyWeekly   Frequency = "weekly"
	FrequencyBiweekly Frequency = "biweekly"
	FrequencyMonthly  Frequency = "monthly"
	FrequencyYearly   Frequency = "yearly"
)

// TransactionSpec is the configured, unresolved form of a transaction. Every
// field is optional: a nil pointer or empty string means "unset", which lets
// a group's defaults be told apart from a child explicitly choosing the zero
// value. Asset, interest-rate and date references are plain names here and
// are resolved into runtime objects by the calculation package.
type TransactionSpec struct {
	Name string `yaml:"name,omitempty" json:"name,omitempty" toml:"name,omitempty"`

	Amount                 *decimal.Decimal `yaml:"amount,omitempty" json:"amount,omitempty" toml:"amount,omitempty"`
	AmountRemainingBalance *bool            `yaml:"amount_remaining_balance,omitempty" json:"amount_remaining_balance,omitempty" toml:"amount_remaining_balance,omitempty"`
	AmountAbove            *decimal.Decimal `yaml:"amount_above,omitempty" json:"amount_above,omitempty" toml:"amount_above,omitempty"`
	MaintainBalance        *decimal.Decimal `yaml:"maintain_balance,omitempty" json:"maintain_balance,omitempty" toml:"maintain_balance,omitempty"`
	AssetMaturity          *bool            `yaml:"asset_maturity,omitempty" json:"asset_maturity,omitempty" toml:"asset_maturity,omitempty"`
	SEPPBirth              *time.Time       `yaml:"sepp_birth,omitempty" json:"sepp_birth,omitempty" toml:"sepp_birth,omitempty"`
	SEPPInterestRateYearly *float64         `yaml:"sepp_interest_rate_yearly,omitempty" json:"sepp_interest_rate_yearly,omitempty" toml:"sepp_interest_rate_yearly,omitempty"`

	Frequency        Frequency `yaml:"frequency,omitempty" json:"frequency,omitempty" toml:"frequency,omitempty"`
	FrequencyPeriods *int      `yaml:"frequency_periods,omitempty" json:"frequency_periods,omitempty" toml:"frequency_periods,omitempty"`

	Source      string `yaml:"source,omitempty" json:"source,omitempty" toml:"source,omitempty"`
	Destination string `yaml:"destination,omitempty" json:"destination,omitempty" toml:"destination,omitempty"`

	// A named date (StartName/EndName, looked up in Configuration.Dates)
	// takes priority over a literal Start/End.
	Start            *time.Time `yaml:"start,omitempty" json:"start,omitempty" toml:"start,omitempty"`
	End              *time.Time `yaml:"end,omitempty" json:"end,omitempty" toml:"end,omitempty"`
	StartName        string     `yaml:"start_name,omitempty" json:"start_name,omitempty" toml:"start_name,omitempty"`
	EndName          string     `yaml:"end_name,omitempty" json:"end_name,omitempty" toml:"end_name,omitempty"`
	PresentValueDate *time.Time `yaml:"present_value_date,omitempty" json:"present_value_date,omitempty" toml:"present_value_date,omitempty"`

	InterestRate   string `yaml:"interest_rate,omitempty" json:"interest_rate,omitempty" toml:"interest_rate,omitempty"`
	Priority       *int   `yaml:"priority,omitempty" json:"priority,omitempty" toml:"priority,omitempty"`
	Category       string `yaml:"category,omitempty" json:"category,omitempty" toml:"category,omitempty"`
	AmountRequired *bool  `yaml:"amount_required,omitempty" json:"amount_required,omitempty" toml:"amount_required,omitempty"`

	IncomeTaxable         *bool `yaml:"income_taxable,omitempty" json:"income_taxable,omitempty" toml:"income_taxable,omitempty"`
	FedIncomeTaxPayment   *bool `yaml:"fed_income_tax_payment,omitempty" json:"fed_income_tax_payment,omitempty" toml:"fed_income_tax_payment,omitempty"`
	StateIncomeTaxPayment *bool `yaml:"state_income_tax_payment,omitempty" json:"state_income_tax_payment,omitempty" toml:"state_income_tax_payment,omitempty"`
	FedTaxDeductable      *bool `yaml:"fed_tax_deductable,omitempty" json:"fed_tax_deductable,omitempty" toml:"fed_tax_deductable,omitempty"`
	StateTaxDeductable    *bool `yaml:"state_tax_deductable,omitempty" json:"state_tax_deductable,omitempty" toml:"state_tax_deductable,omitempty"`
	ContributionsOnly     *bool `yaml:"contributions_only,omitempty" json:"contributions_only,omitempty" toml:"contributions_only,omitempty"`

	DonationFactor *float64 `yaml:"donation_factor,omitempty" json:"donation_factor,omitempty" toml:"donation_factor,omitempty"`
	DonationSource string   `yaml:"donation_source,omitempty" json:"donation_source,omitempty" toml:"donation_source,omitempty"`
}

// Overlay returns s with every field that is set in child replaced by the
// child's value. Neither input is modified.
func (s TransactionSpec) Overlay(child TransactionSpec) TransactionSpec {
	merged := s
	dst := reflect.ValueOf(&merged).Elem()
	src := reflect.ValueOf(child)
	for i := 0; i < src.NumField(); i++ {
		if field := src.Field(i); !field.IsZero() {
			dst.Field(i).Set(field)
		}
	}
	return merged
}

// TransactionNode is one entry of the configured transaction list: either a
// concrete transaction or, when SubTransactions is present, a group whose
// own fields are defaults for its children.
type TransactionNode struct {
	TransactionSpec `yaml:",inline"`
	SubTransactions []TransactionNode `yaml:"sub_transactions,omitempty" json:"sub_transactions,omitempty" toml:"sub_transactions,omitempty"`
}

// IsGroup reports whether the node is a transaction group.
func (n TransactionNode) IsGroup() bool {
	return n.SubTransactions != nil
}

// Helpers for building specs in code.

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool { return &b }

// IntPtr returns a pointer to i.
func IntPtr(i int) *int { return &i }

// FloatPtr returns a pointer to f.
func FloatPtr(f float64) *float64 { return &f }

// DecimalPtr returns a pointer to d.
func DecimalPtr(d decimal.Decimal) *decimal.Decimal { return &d }

// TimePtr returns a pointer to t.
func TimePtr(t time.Time) *time.Time { return &t }
