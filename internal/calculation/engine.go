package calculation

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"github.com/shopspring/decimal"
)

// Simulation walks a plan one calendar day at a time. Each day it runs the
// executable transactions (by priority, then configuration order), then the
// mortgages, settles income taxes on December 31st and snapshots every asset
// at month end. Everything runs on the calling goroutine; amounts read live
// balances, so the order is part of the result.
type Simulation struct {
	Start time.Time
	End   time.Time

	Assets       []*Asset
	Transactions []*Transaction
	Mortgages    []*Mortgage
	Federal      *IncomeTaxCalculator
	State        *IncomeTaxCalculator

	Logger Logger

	cfg          *domain.Configuration
	assetsByName map[string]*Asset
	rates        map[string]*InterestRate
	dates        map[string]time.Time
	ready        bool
	ran          bool

	actions  *ActionLogger
	states   []domain.AssetState
	netWorth []domain.NetWorthRecord
	days     int
}

// NewSimulation creates a simulation for cfg. cfg must have Start and End
// set; the config package fills them in when loading.
func NewSimulation(cfg *domain.Configuration) *Simulation {
	return &Simulation{
		cfg:     cfg,
		Logger:  NopLogger{},
		actions: NewActionLogger(),
	}
}

// SetLogger sets the logger; nil restores NopLogger.
func (s *Simulation) SetLogger(l Logger) {
	if l == nil {
		s.Logger = NopLogger{}
		return
	}
	s.Logger = l
}

// Setup builds the runtime objects and resolves every reference. Any error
// is a configuration error. Setup runs once; Run calls it if needed.
func (s *Simulation) Setup() error {
	if s.ready {
		return nil
	}
	cfg := s.cfg
	if cfg == nil || cfg.Start == nil || cfg.End == nil {
		return fmt.Errorf("%w: start and end dates are required", ErrInvalidSimulation)
	}
	s.Start, s.End = dateutil.Truncate(*cfg.Start), dateutil.Truncate(*cfg.End)
	if s.End.Before(s.Start) {
		return fmt.Errorf("%w: end %s is before start %s", ErrInvalidSimulation, s.End.Format(dateutil.Layout), s.Start.Format(dateutil.Layout))
	}

	s.rates = make(map[string]*InterestRate)
	for _, rc := range cfg.InterestRates {
		if _, dup := s.rates[rc.Name]; dup {
			return fmt.Errorf("%w: duplicate interest rate %s", ErrInvalidSimulation, rc.Name)
		}
		s.rates[rc.Name] = NewInterestRate(rc)
	}
	if _, ok := s.rates[domain.DefaultInterestRateName]; !ok {
		s.rates[domain.DefaultInterestRateName] = &InterestRate{Name: domain.DefaultInterestRateName}
	}

	s.dates = make(map[string]time.Time, len(cfg.Dates))
	for name, d := range cfg.Dates {
		s.dates[name] = dateutil.Truncate(d)
	}

	s.assetsByName = make(map[string]*Asset)
	s.Assets = nil
	for _, ac := range cfg.Assets {
		if _, dup := s.assetsByName[ac.Name]; dup {
			return fmt.Errorf("%w: duplicate asset %s", ErrInvalidSimulation, ac.Name)
		}
		a := NewAsset(ac)
		s.Assets = append(s.Assets, a)
		s.assetsByName[a.Name] = a
	}

	s.Transactions = ExpandTransactions(cfg.Transactions)
	for _, a := range s.Assets {
		if a.InterestRateName != "" {
			s.Transactions = append(s.Transactions, maturityTransaction(a))
		}
	}
	for _, t := range s.Transactions {
		if err := t.Setup(s.Start, s.End, s.assetsByName, s.rates, s.dates); err != nil {
			return err
		}
	}
	sort.SliceStable(s.Transactions, func(i, j int) bool {
		return s.Transactions[i].Priority < s.Transactions[j].Priority
	})

	s.Mortgages = nil
	for _, mc := range cfg.Mortgages {
		m := NewMortgage(mc)
		if err := m.Setup(s.Start, s.End, s.assetsByName, s.rates, s.dates); err != nil {
			return err
		}
		s.Mortgages = append(s.Mortgages, m)
	}

	var err error
	if s.Federal, err = s.setupTaxes(Federal, cfg.FederalIncomeTaxes); err != nil {
		return err
	}
	if s.State, err = s.setupTaxes(State, cfg.StateIncomeTaxes); err != nil {
		return err
	}

	s.Logger.Infof("simulation %s to %s: %d assets, %d transactions, %d mortgages",
		s.Start.Format(dateutil.Layout), s.End.Format(dateutil.Layout), len(s.Assets), len(s.Transactions), len(s.Mortgages))
	s.ready = true
	return nil
}

func (s *Simulation) setupTaxes(j Jurisdiction, cfg *domain.IncomeTaxConfig) (*IncomeTaxCalculator, error) {
	if cfg == nil {
		return nil, nil
	}
	itc := NewIncomeTaxCalculator(j, *cfg)
	if err := itc.Setup(s.assetsByName, s.rates, s.Start.Year()); err != nil {
		return nil, err
	}
	return itc, nil
}

// maturityTransaction grows an asset daily at its own interest rate.
func maturityTransaction(a *Asset) *Transaction {
	return NewTransaction(domain.TransactionSpec{
		Name:          a.Name + " Maturity",
		Category:      "Maturity",
		Destination:   a.Name,
		AssetMaturity: domain.BoolPtr(true),
		Frequency:     domain.FrequencyDaily,
		InterestRate:  a.InterestRateName,
		Priority:      domain.IntPtr(a.MaturityPriority),
	})
}

// Run simulates every day from Start to End inclusive. A returned error is
// a configuration error and comes with no result. A balance error or a
// cancelled ctx halts the run instead: the result holds everything up to
// the failing day and carries the cause in its Error field. A Simulation
// runs once.
func (s *Simulation) Run(ctx context.Context) (*domain.SimulationResult, error) {
	if s.ran {
		return nil, fmt.Errorf("%w: simulation already run", ErrInvalidSimulation)
	}
	if err := s.Setup(); err != nil {
		return nil, err
	}
	s.ran = true
	runID := uuid.NewString()
	s.Logger.Infof("run %s: simulating %s to %s", runID, s.Start.Format(dateutil.Layout), s.End.Format(dateutil.Layout))

	var halt error
	for date := s.Start; !date.After(s.End); date = dateutil.NextDay(date) {
		if err := ctx.Err(); err != nil {
			halt = err
			break
		}
		s.days++
		if err := s.step(date); err != nil {
			if !IsRunHalting(err) {
				return nil, err
			}
			halt = err
			break
		}
		if dateutil.IsMonthEnd(date) {
			s.snapshot(date)
		}
	}

	result := s.result(runID)
	if halt != nil {
		s.Logger.Warnf("run %s halted after %d days: %v", runID, s.days, halt)
		result.Error = halt
		result.ErrorMessage = halt.Error()
	} else {
		s.Logger.Infof("run %s: %d days, %d actions", runID, s.days, s.actions.Len())
	}
	return result, nil
}

func (s *Simulation) step(date time.Time) error {
	for _, t := range s.Transactions {
		ok, err := t.Executable(date)
		if err != nil {
			return err
		}
		if ok {
			if err := s.executeTransaction(t, date); err != nil {
				return err
			}
		}
	}
	for _, m := range s.Mortgages {
		ok, err := m.Executable(date)
		if err != nil {
			return err
		}
		if ok {
			if err := s.executeMortgage(m, date); err != nil {
				return err
			}
		}
	}
	if dateutil.IsYearEnd(date) {
		for _, itc := range []*IncomeTaxCalculator{s.Federal, s.State} {
			if itc == nil {
				continue
			}
			if err := s.settleTaxes(itc, date); err != nil {
				return err
			}
		}
	}
	return nil
}

// executeTransaction computes the amount once and applies the deposit leg,
// the withdrawal leg and any donation, in that order.
func (s *Simulation) executeTransaction(t *Transaction, date time.Time) error {
	amount, err := t.GetAmount(date, t.Destination != nil, false)
	if err != nil {
		return err
	}
	if t.Destination != nil {
		if err := s.apply(t.Destination, amount, t, true, date); err != nil {
			return err
		}
	}
	if t.Source != nil {
		if err := s.apply(t.Source, amount, t, false, date); err != nil {
			return err
		}
	}
	if t.DonationSource != nil {
		donation, err := t.DonationAmount(amount, date)
		if err != nil {
			return err
		}
		if err := s.apply(t.DonationSource, donation, t, false, date); err != nil {
			return err
		}
	}
	return nil
}

func (s *Simulation) executeMortgage(m *Mortgage, date time.Time) error {
	payment, err := m.GetAmount(date, false)
	if err != nil {
		return err
	}
	interest := m.PaymentInterest()
	principal, err := m.GetAmount(date, true)
	if err != nil {
		return err
	}
	if err := s.apply(m.Source, payment, m.Transaction, false, date); err != nil {
		return err
	}
	m.RecordInterest(date, interest)
	return s.apply(m.Destination, principal, m.Transaction, true, date)
}

func (s *Simulation) settleTaxes(itc *IncomeTaxCalculator, date time.Time) error {
	year := date.Year()
	mortgageInterest := 0.0
	for _, m := range s.Mortgages {
		mortgageInterest += m.InterestPaid(year)
	}
	txn, refund, err := itc.CalculateTaxes(s.actions.Year(year), year, mortgageInterest)
	if err != nil {
		return err
	}
	s.Logger.Debugf("%s: %s %s", date.Format(dateutil.Layout), txn.Name, txn.Amount.StringFixed(2))
	return s.apply(itc.Source, txn.Amount.InexactFloat64(), txn, refund, date)
}

// apply moves amount into or out of asset and logs it. Zero amounts are
// skipped so that restrictions on an asset only bite when money moves.
func (s *Simulation) apply(asset *Asset, amount float64, t *Transaction, deposit bool, date time.Time) error {
	if amount == 0 {
		return nil
	}
	_, _, log, err := asset.ExecuteTransaction(amount, t, deposit, date)
	if err != nil {
		return err
	}
	if s.actions.Add(log) {
		s.Logger.Debugf("%s: %s %s %s %s", date.Format(dateutil.Layout), t.Name, log.ActionType, asset.Name, log.Amount.StringFixed(2))
	}
	return nil
}

func (s *Simulation) snapshot(date time.Time) {
	byCategory := make(map[string]decimal.Decimal)
	total := decimal.Zero
	for _, a := range s.Assets {
		state := a.State(date)
		s.states = append(s.states, state)
		byCategory[state.Category] = byCategory[state.Category].Add(state.Balance)
		total = total.Add(state.Balance)
	}
	categories := make([]string, 0, len(byCategory))
	for c := range byCategory {
		categories = append(categories, c)
	}
	sort.Strings(categories)
	for _, c := range categories {
		s.netWorth = append(s.netWorth, domain.NetWorthRecord{Date: date, Type: c, Balance: byCategory[c]})
	}
	s.netWorth = append(s.netWorth, domain.NetWorthRecord{Date: date, Type: domain.NetWorthTotal, Balance: total})
}

func (s *Simulation) result(runID string) *domain.SimulationResult {
	r := &domain.SimulationResult{
		RunID:             runID,
		Start:             s.Start,
		End:               s.End,
		Days:              s.days,
		AssetStates:       s.states,
		ActionLogs:        s.actions.Records(),
		FederalTaxSummary: []domain.YearSummary{},
		StateTaxSummary:   []domain.YearSummary{},
		NetWorth:          s.netWorth,
	}
	if s.Federal != nil {
		r.FederalTaxSummary = s.Federal.Summaries()
	}
	if s.State != nil {
		r.StateTaxSummary = s.State.Summaries()
	}
	return r
}

// Actions exposes the action logger of the run.
func (s *Simulation) Actions() *ActionLogger {
	return s.actions
}
