package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testMortgage(t *testing.T, loan float64, rate float64, months int) (*Mortgage, *Asset, *Asset) {
	t.Helper()
	checking := testAsset("Checking", 1_000_000)
	house := NewAsset(domain.AssetConfig{Name: "Mortgage", Balance: decimal.NewFromFloat(-loan), AllowNegativeBalance: true})
	m := NewMortgage(domain.MortgageConfig{
		TransactionSpec: domain.TransactionSpec{Name: "a", Source: "Checking", Destination: "Mortgage"},
		LoanAmount:      decimal.NewFromFloat(loan),
		LoanRate:        rate,
		TermMonths:      months,
	})
	require.NoError(t, m.Setup(testStart, testEnd, assetMap(checking, house), testRates(), nil))
	return m, checking, house
}

func TestMortgage_Payment(t *testing.T) {
	m, _, _ := testMortgage(t, 460000, 2.99, 180)

	payment, err := m.GetAmount(testStart, false)
	require.NoError(t, err)
	assert.InDelta(t, 3174.46, payment, 0.01)

	principal, err := m.GetAmount(testStart, true)
	require.NoError(t, err)
	assert.InDelta(t, 2028.29, principal, 0.01)
	assert.InDelta(t, payment-principal, m.PaymentInterest(), 1e-9)
}

func TestMortgage_PaysOffExactly(t *testing.T) {
	m, _, house := testMortgage(t, 460000, 2.99, 180)

	payments := 0
	for house.FloatBalance() < 0 {
		principal, err := m.GetAmount(testStart, true)
		require.NoError(t, err)
		_, _, _, err = house.ExecuteTransaction(principal, m.Transaction, true, testStart)
		require.NoError(t, err)
		payments++
		require.LessOrEqual(t, payments, 181)
	}
	assert.Equal(t, 0.0, house.FloatBalance(), "closeout never overshoots")
	assert.InDelta(t, 180, payments, 1)
}

func TestMortgage_Closeout(t *testing.T) {
	m, _, house := testMortgage(t, 1200, 12.0, 12)
	_, _, _, err := house.ExecuteTransaction(1150, nil, true, testStart)
	require.NoError(t, err)

	deposit, err := m.GetAmount(testStart, true)
	require.NoError(t, err)
	assert.InDelta(t, 50.0, deposit, 1e-9)

	withdrawal, err := m.GetAmount(testStart, false)
	require.NoError(t, err)
	assert.InDelta(t, 50.0+0.5, withdrawal, 1e-9, "remaining balance plus the month's interest")
}

func TestMortgage_ZeroRateAndExtraPrincipal(t *testing.T) {
	m, _, _ := testMortgage(t, 1200, 0, 12)
	assert.Equal(t, 100.0, m.Payment())
	m.ExtraPrincipal = decimal.NewFromInt(50)
	assert.Equal(t, 150.0, m.Payment())
}

func TestMortgage_ExecutableStopsWhenPaid(t *testing.T) {
	m, _, house := testMortgage(t, 1200, 0, 12)
	ok, err := m.Executable(testStart)
	require.NoError(t, err)
	assert.True(t, ok)

	_, _, _, err = house.ExecuteTransaction(1200, nil, true, testStart)
	require.NoError(t, err)
	ok, err = m.Executable(dateutil.Date(2023, time.February, 1))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMortgage_Check(t *testing.T) {
	checking := testAsset("Checking", 0)
	m := NewMortgage(domain.MortgageConfig{
		TransactionSpec: domain.TransactionSpec{Name: "m", Destination: "Checking"},
		LoanAmount:      decimal.NewFromInt(1000),
		TermMonths:      12,
	})
	assert.ErrorIs(t, m.Setup(testStart, testEnd, assetMap(checking), testRates(), nil), ErrInvalidTransaction)

	m = NewMortgage(domain.MortgageConfig{
		TransactionSpec: domain.TransactionSpec{Name: "m", Source: "Checking", Destination: "Checking", Frequency: domain.FrequencyWeekly},
		LoanAmount:      decimal.NewFromInt(1000),
		TermMonths:      12,
	})
	assert.ErrorIs(t, m.Setup(testStart, testEnd, assetMap(checking), testRates(), nil), ErrInvalidTransaction)
}

func TestMortgage_InterestPaid(t *testing.T) {
	m, _, _ := testMortgage(t, 1200, 12.0, 12)
	m.RecordInterest(dateutil.Date(2023, time.March, 1), 12)
	m.RecordInterest(dateutil.Date(2023, time.April, 1), 11)
	m.RecordInterest(dateutil.Date(2024, time.January, 1), 5)
	assert.Equal(t, 23.0, m.InterestPaid(2023))
	assert.Equal(t, 5.0, m.InterestPaid(2024))
	assert.Equal(t, 0.0, m.InterestPaid(2022))
}
