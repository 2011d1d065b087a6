package output

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
)

// HTMLFormatter produces a standalone HTML report.
type HTMLFormatter struct{}

func (HTMLFormatter) Name() string { return "html" }

//go:embed templates/report.html.tmpl
var htmlTemplateSource string

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"curr": FormatCurrency,
	"date": func(d interface{ Format(string) string }) string { return d.Format(dateutil.Layout) },
}).Parse(htmlTemplateSource))

func (HTMLFormatter) Format(results *domain.SimulationResult) ([]byte, error) {
	var buf bytes.Buffer
	data := struct {
		*domain.SimulationResult
		Message       string
		FinalBalances []domain.AssetState
		NetWorthRows  []domain.NetWorthRecord
		Assumptions   []string
	}{
		SimulationResult: results,
		FinalBalances:    finalBalances(results.AssetStates),
		NetWorthRows:     yearEndNetWorth(results.NetWorth),
		Assumptions:      DefaultAssumptions,
	}
	if results.Failed() || results.ErrorMessage != "" {
		data.Message = errorText(results)
	}
	if err := htmlTemplate.Execute(&buf, data); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
