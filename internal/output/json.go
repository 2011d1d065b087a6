package output

import (
	"encoding/json"

	"github.com/rgehrsitz/dayplan/internal/domain"
)

// JSONFormatter writes the whole result as indented JSON.
type JSONFormatter struct{}

func (JSONFormatter) Name() string { return "json" }

func (JSONFormatter) Format(results *domain.SimulationResult) ([]byte, error) {
	if results.Error != nil && results.ErrorMessage == "" {
		copied := *results
		copied.ErrorMessage = results.Error.Error()
		results = &copied
	}
	return json.MarshalIndent(results, "", "  ")
}
