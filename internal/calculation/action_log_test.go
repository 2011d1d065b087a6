package calculation

import (
	"testing"
	"time"

	"github.com/rgehrsitz/dayplan/pkg/dateutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestActionLogger(t *testing.T) {
	al := NewActionLogger()
	rent := &Transaction{Name: "rent", Category: "Housing", Source: testAsset("Checking", 0), FedTaxDeductable: true}

	assert.True(t, al.Add(ActionLog{Date: dateutil.Date(2024, time.February, 1), ActionType: ActionWithdrawal, Amount: decimal.NewFromInt(-10), ChangedItem: "Checking", Transaction: rent}))
	assert.True(t, al.Add(ActionLog{Date: dateutil.Date(2023, time.May, 1), ActionType: ActionWithdrawal, Amount: decimal.NewFromInt(-20), ChangedItem: "Checking", Transaction: rent}))
	assert.True(t, al.Add(ActionLog{Date: dateutil.Date(2023, time.June, 1), ActionType: ActionWithdrawal, Amount: decimal.NewFromInt(-30), ChangedItem: "Checking"}))
	assert.False(t, al.Add(ActionLog{Date: dateutil.Date(2023, time.July, 1), Amount: decimal.Zero}), "zero amounts are dropped")

	assert.Equal(t, 3, al.Len())
	assert.Equal(t, []int{2023, 2024}, al.Years())
	assert.Len(t, al.Year(2023), 2)
	assert.Empty(t, al.Year(2022))

	records := al.Records()
	assert.Len(t, records, 3)
	assert.Equal(t, "-20", records[0].Amount.String(), "year-ordered")
	assert.Equal(t, "rent", records[0].TransactionName)
	assert.Equal(t, "Housing", records[0].Category)
	assert.Equal(t, "Checking", records[0].Source)
	assert.Empty(t, records[0].Destination)
	assert.True(t, records[0].FedTaxDeductable)
	assert.Empty(t, records[1].TransactionName)
	assert.Equal(t, 2024, records[2].Date.Year())
}
