package calculation

import (
	"testing"

	"github.com/rgehrsitz/dayplan/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExpandTransactions(t *testing.T) {
	nodes := []domain.TransactionNode{
		{TransactionSpec: domain.TransactionSpec{Name: "first", Destination: "Checking"}},
		{
			TransactionSpec: domain.TransactionSpec{
				Name:          "Paychecks",
				Destination:   "Checking",
				Frequency:     domain.FrequencyBiweekly,
				IncomeTaxable: domain.BoolPtr(true),
				Category:      "Income",
			},
			SubTransactions: []domain.TransactionNode{
				{TransactionSpec: domain.TransactionSpec{Name: "salary", Amount: amountPtr(3000)}},
				{
					TransactionSpec: domain.TransactionSpec{Category: "Bonus", Frequency: domain.FrequencyYearly},
					SubTransactions: []domain.TransactionNode{
						{TransactionSpec: domain.TransactionSpec{Name: "bonus", Amount: amountPtr(5000)}},
						{TransactionSpec: domain.TransactionSpec{Name: "untaxed gift", IncomeTaxable: domain.BoolPtr(false)}},
					},
				},
			},
		},
		{TransactionSpec: domain.TransactionSpec{Name: "last", Source: "Checking"}},
	}

	txns := ExpandTransactions(nodes)
	require.Len(t, txns, 5)

	names := make([]string, len(txns))
	for i, txn := range txns {
		names[i] = txn.Name
	}
	assert.Equal(t, []string{"first", "salary", "bonus", "untaxed gift", "last"}, names)

	salary := txns[1]
	assert.Equal(t, domain.FrequencyBiweekly, salary.Frequency)
	assert.True(t, salary.IncomeTaxable)
	assert.Equal(t, "Income", salary.Category)
	assert.Equal(t, "3000", salary.Amount.String())

	bonus := txns[2]
	assert.Equal(t, domain.FrequencyYearly, bonus.Frequency, "inner group overrides")
	assert.Equal(t, "Bonus", bonus.Category)
	assert.True(t, bonus.IncomeTaxable, "inherited through both groups")
	assert.Equal(t, "Checking", bonus.Spec().Destination)

	assert.False(t, txns[3].IncomeTaxable, "explicit false beats inherited true")
}

func TestTransactionGroup_Check(t *testing.T) {
	g := NewTransactionGroup(domain.TransactionNode{
		TransactionSpec: domain.TransactionSpec{Name: "Paychecks"},
		SubTransactions: []domain.TransactionNode{},
	})
	assert.ErrorIs(t, g.Check(), ErrGroupNotExecutable)
	assert.Empty(t, g.ToTransactionList(domain.TransactionSpec{}))
}
