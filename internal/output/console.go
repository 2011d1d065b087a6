package output

import (
	"fmt"
	"sort"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/shopspring/decimal"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
)

// FormatCurrency formats an amount as US dollars with thousands separators.
func FormatCurrency(amount decimal.Decimal) string {
	cur := money.GetCurrency(money.USD)
	return cur.Formatter().Format(amount.Shift(int32(cur.Fraction)).Round(0).IntPart())
}

// ConsoleFormatter renders a terminal summary: final balances, year-end net
// worth and the tax settlements.
type ConsoleFormatter struct{}

func (ConsoleFormatter) Name() string { return "console" }

func (ConsoleFormatter) Format(results *domain.SimulationResult) ([]byte, error) {
	var b strings.Builder

	b.WriteString(TitleStyle.Render("DAYPLAN SIMULATION"))
	b.WriteString("\n")
	fmt.Fprintf(&b, "%s %s\n", MetricLabelStyle.Render("Run:   "), results.RunID)
	fmt.Fprintf(&b, "%s %s to %s (%d days)\n", MetricLabelStyle.Render("Period:"),
		results.Start.Format(dateutil.Layout), results.End.Format(dateutil.Layout), results.Days)
	if results.Failed() {
		fmt.Fprintf(&b, "%s\n", ErrorStyle.Render("Simulation halted: "+errorText(results)))
	}
	b.WriteString("\n")

	if balances := finalBalances(results.AssetStates); len(balances) > 0 {
		b.WriteString(SubtitleStyle.Render("Final Balances"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(balances))
		for _, s := range balances {
			rows = append(rows, []string{s.Name, s.Category, FormatCurrency(s.Balance), FormatCurrency(s.ContributionBalance), FormatCurrency(s.EarningsBalance)})
		}
		b.WriteString(renderTable([]string{"Asset", "Category", "Balance", "Contributions", "Earnings"}, rows, 2))
		b.WriteString("\n\n")
	}

	if worth := yearEndNetWorth(results.NetWorth); len(worth) > 0 {
		b.WriteString(SubtitleStyle.Render("Net Worth"))
		b.WriteString("\n")
		rows := make([][]string, 0, len(worth))
		for _, r := range worth {
			rows = append(rows, []string{r.Date.Format(dateutil.Layout), r.Type, FormatCurrency(r.Balance)})
		}
		b.WriteString(renderTable([]string{"Date", "Type", "Balance"}, rows, 2))
		b.WriteString("\n\n")
	}

	if len(results.FederalTaxSummary)+len(results.StateTaxSummary) > 0 {
		b.WriteString(SubtitleStyle.Render("Income Taxes"))
		b.WriteString("\n")
		var rows [][]string
		add := func(label string, summaries []domain.YearSummary) {
			for _, s := range summaries {
				rows = append(rows, []string{
					fmt.Sprintf("%d", s.Year), label,
					FormatCurrency(s.TaxableIncome), FormatCurrency(s.Deductions),
					FormatCurrency(s.TaxesPrepaid), FormatCurrency(s.TaxBill),
				})
			}
		}
		add("Federal", results.FederalTaxSummary)
		add("State", results.StateTaxSummary)
		b.WriteString(renderTable([]string{"Year", "Jurisdiction", "Taxable", "Deductions", "Prepaid", "Bill"}, rows, 2))
		b.WriteString("\n")
	}

	return []byte(b.String()), nil
}

// renderTable right-aligns every column from numericFrom onward and colours
// negative currency cells.
func renderTable(headers []string, rows [][]string, numericFrom int) string {
	t := table.New().
		Border(lipgloss.NormalBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle
			}
			if col < numericFrom {
				return TableCellStyle
			}
			if row >= 0 && row < len(rows) && strings.Contains(rows[row][col], "-") {
				return TableNegativeStyle
			}
			return TableNumberStyle
		})
	return t.String()
}

func errorText(results *domain.SimulationResult) string {
	if results.Error != nil {
		return results.Error.Error()
	}
	return results.ErrorMessage
}

// finalBalances returns the snapshot rows from the latest snapshot date,
// sorted by asset name.
func finalBalances(states []domain.AssetState) []domain.AssetState {
	if len(states) == 0 {
		return nil
	}
	last := states[len(states)-1].Date
	var out []domain.AssetState
	for _, s := range states {
		if s.Date.Equal(last) {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// yearEndNetWorth keeps the December records and those from the final
// snapshot date.
func yearEndNetWorth(records []domain.NetWorthRecord) []domain.NetWorthRecord {
	if len(records) == 0 {
		return nil
	}
	last := records[len(records)-1].Date
	var out []domain.NetWorthRecord
	for _, r := range records {
		if dateutil.IsYearEnd(r.Date) || r.Date.Equal(last) {
			out = append(out, r)
		}
	}
	return out
}
