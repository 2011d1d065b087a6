package calculation

import (
	"fmt"

	"github.com/rgehrsitz/dayplan/internal/domain"
)

// TransactionGroup holds shared defaults for a set of transactions. Groups
// nest; a child's set fields override its group's.
type TransactionGroup struct {
	Spec     domain.TransactionSpec
	Children []domain.TransactionNode
}

// NewTransactionGroup wraps a configured group node.
func NewTransactionGroup(node domain.TransactionNode) *TransactionGroup {
	return &TransactionGroup{Spec: node.TransactionSpec, Children: node.SubTransactions}
}

// ToTransactionList flattens the group into concrete transactions, depth
// first in configuration order, with parent's fields as the outermost
// defaults.
func (g *TransactionGroup) ToTransactionList(parent domain.TransactionSpec) []*Transaction {
	base := parent.Overlay(g.Spec)
	var out []*Transaction
	for _, child := range g.Children {
		if child.IsGroup() {
			out = append(out, NewTransactionGroup(child).ToTransactionList(base)...)
			continue
		}
		out = append(out, NewTransaction(base.Overlay(child.TransactionSpec)))
	}
	return out
}

// Check always fails; groups only exist to be flattened.
func (g *TransactionGroup) Check() error {
	return fmt.Errorf("%w: %s", ErrGroupNotExecutable, g.Spec.Name)
}

// ExpandTransactions turns the configured transaction list into concrete
// transactions in configuration order.
func ExpandTransactions(nodes []domain.TransactionNode) []*Transaction {
	var out []*Transaction
	for _, node := range nodes {
		if node.IsGroup() {
			out = append(out, NewTransactionGroup(node).ToTransactionList(domain.TransactionSpec{})...)
			continue
		}
		out = append(out, NewTransaction(node.TransactionSpec))
	}
	return out
}
