package output

import (
	"fmt"
	"os"
	"sort"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
)

// Formatter renders a simulation result.
type Formatter interface {
	Name() string
	Format(results *domain.SimulationResult) ([]byte, error)
}

// FormatterFunc adapts a function to Formatter.
type FormatterFunc struct {
	ID string
	F  func(results *domain.SimulationResult) ([]byte, error)
}

func (f FormatterFunc) Name() string { return f.ID }

func (f FormatterFunc) Format(results *domain.SimulationResult) ([]byte, error) {
	return f.F(results)
}

var formatters = map[string]Formatter{}

func register(f Formatter) {
	formatters[f.Name()] = f
}

func init() {
	register(ConsoleFormatter{})
	register(AssetStatesCSV{})
	register(ActionLogsCSV{})
	register(TaxSummaryCSV{})
	register(NetWorthCSV{})
	register(HTMLFormatter{})
	register(JSONFormatter{})
}

// GetFormatterByName returns the formatter with the given name, or nil.
func GetFormatterByName(name string) Formatter {
	return formatters[name]
}

// FormatterNames lists the registered formatter names, sorted.
func FormatterNames() []string {
	names := make([]string, 0, len(formatters))
	for name := range formatters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// WriteFormatted formats results and writes them to a timestamped file in the
// working directory, returning the file name.
func WriteFormatted(f Formatter, results *domain.SimulationResult, ext string) (string, error) {
	data, err := f.Format(results)
	if err != nil {
		return "", err
	}
	filename := fmt.Sprintf("dayplan_report_%s.%s", time.Now().Format("20060102_150405"), ext)
	if err := os.WriteFile(filename, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", filename, err)
	}
	return filename, nil
}
