package output

import (
	"bytes"
	"encoding/csv"
	"sort"
	"strconv"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
)

// AssetStatesCSV writes the month-end asset snapshots, one row per asset.
type AssetStatesCSV struct{}

func (AssetStatesCSV) Name() string { return "csv-assets" }

func (AssetStatesCSV) Format(results *domain.SimulationResult) ([]byte, error) {
	header := []string{"date", "name", "balance", "category", "contribution_balance", "earnings_balance"}
	rows := make([][]string, 0, len(results.AssetStates))
	for _, s := range results.AssetStates {
		rows = append(rows, []string{
			s.Date.Format(dateutil.Layout),
			s.Name,
			s.Balance.StringFixed(2),
			s.Category,
			s.ContributionBalance.StringFixed(2),
			s.EarningsBalance.StringFixed(2),
		})
	}
	return writeCSV(header, rows)
}

// ActionLogsCSV writes every balance change with its transaction's fields.
type ActionLogsCSV struct{}

func (ActionLogsCSV) Name() string { return "csv-actions" }

func (ActionLogsCSV) Format(results *domain.SimulationResult) ([]byte, error) {
	header := []string{
		"date", "action_type", "amount", "changed_item", "transaction", "category", "source", "destination",
		"asset_maturity", "income_taxable", "fed_income_tax_payment", "state_income_tax_payment",
		"fed_tax_deductable", "state_tax_deductable",
	}
	rows := make([][]string, 0, len(results.ActionLogs))
	for _, a := range results.ActionLogs {
		rows = append(rows, []string{
			a.Date.Format(dateutil.Layout),
			a.ActionType,
			a.Amount.StringFixed(2),
			a.ChangedItem,
			a.TransactionName,
			a.Category,
			a.Source,
			a.Destination,
			strconv.FormatBool(a.AssetMaturity),
			strconv.FormatBool(a.IncomeTaxable),
			strconv.FormatBool(a.FedIncomeTaxPayment),
			strconv.FormatBool(a.StateIncomeTaxPayment),
			strconv.FormatBool(a.FedTaxDeductable),
			strconv.FormatBool(a.StateTaxDeductable),
		})
	}
	return writeCSV(header, rows)
}

// TaxSummaryCSV writes the yearly federal and state tax summaries.
type TaxSummaryCSV struct{}

func (TaxSummaryCSV) Name() string { return "csv-taxes" }

func (TaxSummaryCSV) Format(results *domain.SimulationResult) ([]byte, error) {
	header := []string{
		"jurisdiction", "year", "taxable_income", "deductions", "income_post_deductions",
		"taxes_owed_pre_credits", "credits", "taxes_prepaid", "tax_bill", "max_rate", "balance_at_max_rate",
	}
	var rows [][]string
	add := func(jurisdiction string, summaries []domain.YearSummary) {
		for _, s := range summaries {
			rows = append(rows, []string{
				jurisdiction,
				strconv.Itoa(s.Year),
				s.TaxableIncome.StringFixed(2),
				s.Deductions.StringFixed(2),
				s.IncomePostDeductions.StringFixed(2),
				s.TaxesOwedPreCredits.StringFixed(2),
				s.Credits.StringFixed(2),
				s.TaxesPrepaid.StringFixed(2),
				s.TaxBill.StringFixed(2),
				strconv.FormatFloat(s.MaxRate, 'f', -1, 64),
				s.BalanceAtMaxRate.StringFixed(2),
			})
		}
	}
	add("federal", results.FederalTaxSummary)
	add("state", results.StateTaxSummary)
	return writeCSV(header, rows)
}

func writeCSV(header []string, rows [][]string) ([]byte, error) {
	buf := &bytes.Buffer{}
	w := csv.NewWriter(buf)
	if err := w.Write(header); err != nil {
		return nil, err
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// NetWorthCSV writes one row per month end with a column per category,
// ending with the total.
type NetWorthCSV struct{}

func (NetWorthCSV) Name() string { return "csv-networth" }

func (NetWorthCSV) Format(results *domain.SimulationResult) ([]byte, error) {
	var types []string
	seen := map[string]bool{}
	for _, r := range results.NetWorth {
		if r.Type != domain.NetWorthTotal && !seen[r.Type] {
			seen[r.Type] = true
			types = append(types, r.Type)
		}
	}
	sort.Strings(types)
	types = append(types, domain.NetWorthTotal)

	header := append([]string{"date"}, types...)
	var rows [][]string
	var current []string
	var currentDate time.Time
	flush := func() {
		if current != nil {
			rows = append(rows, current)
		}
	}
	for _, r := range results.NetWorth {
		if current == nil || !r.Date.Equal(currentDate) {
			flush()
			currentDate = r.Date
			current = make([]string, len(header))
			current[0] = r.Date.Format(dateutil.Layout)
			for i := 1; i < len(current); i++ {
				current[i] = "0.00"
			}
		}
		for i, t := range types {
			if t == r.Type {
				current[i+1] = r.Balance.StringFixed(2)
			}
		}
	}
	flush()
	return writeCSV(header, rows)
}
