package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

var (
	testStart = dateutil.Date(2023, time.January, 1)
	testEnd   = dateutil.Date(2024, time.January, 1)
)

func testAsset(name string, balance float64) *Asset {
	return NewAsset(domain.AssetConfig{Name: name, Balance: decimal.NewFromFloat(balance)})
}

func testRates(extra ...*InterestRate) map[string]*InterestRate {
	rates := map[string]*InterestRate{
		domain.DefaultInterestRateName: {Name: domain.DefaultInterestRateName},
	}
	for _, r := range extra {
		rates[r.Name] = r
	}
	return rates
}

func assetMap(assets ...*Asset) map[string]*Asset {
	m := make(map[string]*Asset, len(assets))
	for _, a := range assets {
		m[a.Name] = a
	}
	return m
}

// setupTransaction resolves spec against assets with only the default rate.
func setupTransaction(t *testing.T, spec domain.TransactionSpec, assets ...*Asset) *Transaction {
	t.Helper()
	txn := NewTransaction(spec)
	require.NoError(t, txn.Setup(testStart, testEnd, assetMap(assets...), testRates(), nil))
	return txn
}

func amountPtr(v float64) *decimal.Decimal {
	return domain.DecimalPtr(decimal.NewFromFloat(v))
}

// TestLogger records formats for assertions.
type TestLogger struct {
	messages []string
}

func (tl *TestLogger) Debugf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "DEBUG: "+format)
}

func (tl *TestLogger) Infof(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "INFO: "+format)
}

func (tl *TestLogger) Warnf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "WARN: "+format)
}

func (tl *TestLogger) Errorf(format string, args ...interface{}) {
	tl.messages = append(tl.messages, "ERROR: "+format)
}
