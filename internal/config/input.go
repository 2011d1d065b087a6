package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"gopkg.in/yaml.v3"
)

// DefaultHorizonYears is how far past the start a plan runs when no end date
// is given.
const DefaultHorizonYears = 20

// Options override the dates found in the configuration files.
type Options struct {
	Start *time.Time
	End   *time.Time
}

// InputParser loads plan configuration files. A plan may be split across
// several files (assets in one, transactions in another); they are merged in
// the order given.
type InputParser struct {
	// Now supplies the default start date.
	Now func() time.Time
}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{Now: time.Now}
}

// LoadFromFile loads and validates a single complete configuration file.
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	return ip.LoadFromFiles([]string{filename}, Options{})
}

// LoadFromFiles decodes every file, merges them, applies date defaults and
// overrides, and validates the result.
func (ip *InputParser) LoadFromFiles(filenames []string, opts Options) (*domain.Configuration, error) {
	if len(filenames) == 0 {
		return nil, fmt.Errorf("no configuration files given")
	}
	configs := make([]*domain.Configuration, 0, len(filenames))
	for _, filename := range filenames {
		cfg, err := ip.decodeFile(filename)
		if err != nil {
			return nil, err
		}
		configs = append(configs, cfg)
	}

	config := CombineConfigs(configs...)
	ip.applyDates(config, opts)

	if err := ip.ValidateConfiguration(config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}
	return config, nil
}

// LoadFromList loads the files named in listFile, a YAML list of paths
// relative to the list file itself.
func (ip *InputParser) LoadFromList(listFile string, opts Options) (*domain.Configuration, error) {
	data, err := os.ReadFile(listFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", listFile, err)
	}
	var names []string
	if err := yaml.Unmarshal(data, &names); err != nil {
		return nil, fmt.Errorf("failed to parse configuration list %s: %w", listFile, err)
	}
	dir := filepath.Dir(listFile)
	paths := make([]string, len(names))
	for i, name := range names {
		if filepath.IsAbs(name) {
			paths[i] = name
		} else {
			paths[i] = filepath.Join(dir, name)
		}
	}
	return ip.LoadFromFiles(paths, opts)
}

// decodeFile reads one, possibly partial, configuration. TOML files are
// recognized by extension; everything else goes through the YAML decoder,
// which also reads JSON as long as its dates are RFC 3339 timestamps.
func (ip *InputParser) decodeFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var config domain.Configuration
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".toml":
		if _, err := toml.Decode(string(data), &config); err != nil {
			return nil, fmt.Errorf("failed to parse TOML %s: %w", filename, err)
		}
	default:
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", filename, err)
		}
	}
	return &config, nil
}

// CombineConfigs merges partial configurations. List sections are
// concatenated in order, dates are merged with later files winning, and
// start, end and the tax sections are taken from the last file that sets
// them.
func CombineConfigs(configs ...*domain.Configuration) *domain.Configuration {
	combined := &domain.Configuration{Dates: map[string]time.Time{}}
	for _, c := range configs {
		if c == nil {
			continue
		}
		if c.Start != nil {
			combined.Start = c.Start
		}
		if c.End != nil {
			combined.End = c.End
		}
		for name, d := range c.Dates {
			combined.Dates[name] = d
		}
		combined.Assets = append(combined.Assets, c.Assets...)
		combined.InterestRates = append(combined.InterestRates, c.InterestRates...)
		combined.Transactions = append(combined.Transactions, c.Transactions...)
		combined.Mortgages = append(combined.Mortgages, c.Mortgages...)
		if c.FederalIncomeTaxes != nil {
			combined.FederalIncomeTaxes = c.FederalIncomeTaxes
		}
		if c.StateIncomeTaxes != nil {
			combined.StateIncomeTaxes = c.StateIncomeTaxes
		}
	}
	return combined
}

// applyDates resolves the simulation bounds: an override wins, then the
// configured date, then today for the start and DefaultHorizonYears after
// the start for the end.
func (ip *InputParser) applyDates(config *domain.Configuration, opts Options) {
	if opts.Start != nil {
		config.Start = opts.Start
	}
	if opts.End != nil {
		config.End = opts.End
	}
	if config.Start == nil {
		now := time.Now
		if ip.Now != nil {
			now = ip.Now
		}
		config.Start = domain.TimePtr(dateutil.Truncate(now()))
	}
	start := dateutil.Truncate(*config.Start)
	config.Start = &start
	if config.End == nil {
		config.End = domain.TimePtr(start.AddDate(DefaultHorizonYears, 0, 0))
	}
	end := dateutil.Truncate(*config.End)
	config.End = &end
}

// ValidateConfiguration checks the merged configuration for problems that
// can be found without building the simulation.
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if config.Start == nil || config.End == nil {
		return fmt.Errorf("start and end dates are required")
	}
	if config.End.Before(*config.Start) {
		return fmt.Errorf("end date %s is before start date %s", config.End.Format(dateutil.Layout), config.Start.Format(dateutil.Layout))
	}
	if len(config.Assets) == 0 {
		return fmt.Errorf("at least one asset is required")
	}

	assets := make(map[string]bool, len(config.Assets))
	for i, a := range config.Assets {
		if a.Name == "" {
			return fmt.Errorf("asset %d: name is required", i)
		}
		if assets[a.Name] {
			return fmt.Errorf("duplicate asset %s", a.Name)
		}
		if a.EarningsBalance.IsNegative() {
			return fmt.Errorf("asset %s: earnings balance cannot be negative", a.Name)
		}
		assets[a.Name] = true
	}

	rates := make(map[string]bool, len(config.InterestRates))
	for i, r := range config.InterestRates {
		if r.Name == "" {
			return fmt.Errorf("interest rate %d: name is required", i)
		}
		if rates[r.Name] {
			return fmt.Errorf("duplicate interest rate %s", r.Name)
		}
		rates[r.Name] = true
	}

	for i, m := range config.Mortgages {
		if m.TermMonths <= 0 {
			return fmt.Errorf("mortgage %d (%s): term_months must be positive", i, m.Name)
		}
		if !m.LoanAmount.IsPositive() {
			return fmt.Errorf("mortgage %d (%s): loan_amount must be positive", i, m.Name)
		}
		if m.LoanRate < 0 {
			return fmt.Errorf("mortgage %d (%s): loan_rate cannot be negative", i, m.Name)
		}
	}

	if err := ip.validateIncomeTaxes(config.FederalIncomeTaxes); err != nil {
		return fmt.Errorf("federal_income_taxes: %w", err)
	}
	if err := ip.validateIncomeTaxes(config.StateIncomeTaxes); err != nil {
		return fmt.Errorf("state_income_taxes: %w", err)
	}
	return nil
}

func (ip *InputParser) validateIncomeTaxes(taxes *domain.IncomeTaxConfig) error {
	if taxes == nil {
		return nil
	}
	if taxes.Source == "" {
		return fmt.Errorf("source is required")
	}
	for _, b := range taxes.TaxBrackets {
		if b.Rate < 0 || b.Rate > 1 {
			return fmt.Errorf("bracket at %.2f: rate %.4f must be a fraction between 0 and 1", b.BottomOfRange, b.Rate)
		}
		if b.BottomOfRange < 0 {
			return fmt.Errorf("bracket bottom_of_range %.2f cannot be negative", b.BottomOfRange)
		}
	}
	for _, d := range append(append([]domain.TaxDeductionConfig{}, taxes.Deductions...), taxes.Credits...) {
		if d.StartYear != nil && d.EndYear != nil && *d.EndYear < *d.StartYear {
			return fmt.Errorf("%s: end_year %d is before start_year %d", d.Name, *d.EndYear, *d.StartYear)
		}
	}
	return nil
}
