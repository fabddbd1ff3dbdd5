// Package balance keeps Customer.balance equal to the signed sum of the
// committed transactions that reference the customer.
package balance

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/prom"
)

const (
	DirectionApply   = "apply"
	DirectionReverse = "reverse"
)

// Store locks a customer row and adds delta to its balance. It runs on the
// transaction bound to ctx.
type Store interface {
	AdjustBalance(ctx context.Context, customerID int64, delta decimal.Decimal) (decimal.Decimal, error)
}

// Result describes one adjustment. Balance is only meaningful when Applied.
type Result struct {
	Applied bool
	Balance decimal.Decimal
}

type Engine struct {
	store Store
}

func NewEngine(store Store) *Engine {
	return &Engine{store: store}
}

// Delta is the change a transaction of type t applies to its customer's
// balance. Negative means the customer owes more.
func Delta(t model.TransactionType, total decimal.Decimal) decimal.Decimal {
	switch t {
	case model.TransactionSell, model.TransactionDue:
		return total.Neg()
	case model.TransactionBuy, model.TransactionReceivable:
		return total
	}
	return decimal.Zero
}

// Adjusts reports whether txn moves a customer balance at all: it needs a
// customer and a due payment.
func Adjusts(txn *model.Transaction) bool {
	return txn.HasCustomer() && txn.PaymentType == model.PaymentDue
}

// Apply adds the transaction's effect to the customer balance.
func (e *Engine) Apply(ctx context.Context, txn *model.Transaction) (Result, error) {
	return e.adjust(ctx, txn, DirectionApply)
}

// Reverse removes the effect Apply added. It uses the same gate, so it is a
// no-op exactly when Apply was.
func (e *Engine) Reverse(ctx context.Context, txn *model.Transaction) (Result, error) {
	return e.adjust(ctx, txn, DirectionReverse)
}

func (e *Engine) adjust(ctx context.Context, txn *model.Transaction, direction string) (Result, error) {
	if !Adjusts(txn) {
		return Result{}, nil
	}

	delta := Delta(txn.Type, txn.Total)
	if direction == DirectionReverse {
		delta = delta.Neg()
	}

	balance, err := e.store.AdjustBalance(ctx, *txn.CustomerID, delta)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Debug("balance adjustment skipped, customer missing",
				"transaction_id", txn.ID,
				"customer_id", *txn.CustomerID,
				"direction", direction)
			return Result{}, nil
		}
		return Result{}, err
	}

	prom.IncBalanceAdjustment(string(txn.Type), direction)
	logger.Debug("balance adjusted",
		"transaction_id", txn.ID,
		"customer_id", *txn.CustomerID,
		"delta", delta.String(),
		"balance", balance.String())

	return Result{Applied: true, Balance: balance}, nil
}
