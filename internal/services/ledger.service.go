package services

import (
	"context"
	"errors"
	"time"

	"github.com/nimasrn/ledger-api/internal/balance"
	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/prom"
)

type Transactor interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

type TransactionRepository interface {
	Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error)
	GetByID(ctx context.Context, id int64) (*model.Transaction, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error)
	SumByType(ctx context.Context) (model.TypeTotals, error)
}

type CustomerReader interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}

type BalanceEngine interface {
	Apply(ctx context.Context, txn *model.Transaction) (balance.Result, error)
	Reverse(ctx context.Context, txn *model.Transaction) (balance.Result, error)
}

type NotificationDispatcher interface {
	Prepare(ctx context.Context, txn *model.Transaction) (*model.Notification, error)
	Enqueue(ctx context.Context, n *model.Notification) *model.Notification
}

// LedgerService records transactions. The ledger row, its line items, the
// balance adjustment and a requested notification row commit together; the
// SMS itself is queued after commit.
type LedgerService struct {
	db         Transactor
	txns       TransactionRepository
	customers  CustomerReader
	engine     BalanceEngine
	dispatcher NotificationDispatcher
	now        func() time.Time
}

func NewLedgerService(db Transactor, txns TransactionRepository, customers CustomerReader, engine BalanceEngine, dispatcher NotificationDispatcher) *LedgerService {
	return &LedgerService{
		db:         db,
		txns:       txns,
		customers:  customers,
		engine:     engine,
		dispatcher: dispatcher,
		now:        time.Now,
	}
}

func (s *LedgerService) Create(ctx context.Context, req model.TransactionCreateRequest) (*model.TransactionResult, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	date, err := req.ParseDate(s.now())
	if err != nil {
		return nil, err
	}

	txn := &model.Transaction{
		Type:         req.Type,
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		Products:     req.Products,
		Total:        *req.Total,
		Date:         date,
		Note:         req.Note,
		PaymentType:  req.PaymentType,
	}

	var (
		created      *model.Transaction
		notification *model.Notification
	)
	err = s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := s.fillCustomerName(ctx, txn); err != nil {
			return err
		}

		var err error
		created, err = s.txns.Create(ctx, txn)
		if err != nil {
			return err
		}

		if _, err := s.engine.Apply(ctx, created); err != nil {
			return err
		}

		if req.SMS && s.dispatcher != nil {
			notification, err = s.dispatcher.Prepare(ctx, created)
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	prom.IncTransaction(string(created.Type), "created")
	logger.Info("transaction created",
		"transaction_id", created.ID,
		"type", created.Type,
		"total", created.Total.String(),
		"payment_type", created.PaymentType)

	if notification != nil {
		notification = s.dispatcher.Enqueue(ctx, notification)
	}
	return &model.TransactionResult{Transaction: created, Notification: notification}, nil
}

// fillCustomerName snapshots the customer's name when the request carries an
// id without one. An unknown id is kept as is.
func (s *LedgerService) fillCustomerName(ctx context.Context, txn *model.Transaction) error {
	if !txn.HasCustomer() || txn.CustomerName != "" {
		return nil
	}
	customer, err := s.customers.GetByID(ctx, *txn.CustomerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil
		}
		return err
	}
	txn.CustomerName = customer.Name
	return nil
}

// Delete removes the transaction and reverses its balance effect atomically.
func (s *LedgerService) Delete(ctx context.Context, id int64) error {
	var deleted *model.Transaction
	err := s.db.WithinTransaction(ctx, func(ctx context.Context) error {
		txn, err := s.txns.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if err := s.txns.Delete(ctx, id); err != nil {
			return err
		}
		if _, err := s.engine.Reverse(ctx, txn); err != nil {
			return err
		}
		deleted = txn
		return nil
	})
	if err != nil {
		return err
	}

	prom.IncTransaction(string(deleted.Type), "deleted")
	logger.Info("transaction deleted", "transaction_id", id, "type", deleted.Type)
	return nil
}

func (s *LedgerService) List(ctx context.Context, f model.TransactionFilter) (*model.TransactionPage, error) {
	f.Pagination = f.Pagination.Normalize()
	if f.Type == "all" {
		f.Type = ""
	}
	if f.Type != "" && !f.Type.Valid() {
		return nil, model.Validation("invalid transaction type %q", f.Type)
	}

	txns, total, err := s.txns.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if txns == nil {
		txns = []*model.Transaction{}
	}
	return &model.TransactionPage{
		Data:        txns,
		CurrentPage: f.Page,
		TotalPages:  f.TotalPages(total),
		TotalItems:  total,
	}, nil
}

func (s *LedgerService) Totals(ctx context.Context) (*model.TransactionTotals, error) {
	sums, err := s.txns.SumByType(ctx)
	if err != nil {
		return nil, err
	}

	sales := sums.Get(model.TransactionSell)
	buys := sums.Get(model.TransactionBuy)
	expenses := sums.Get(model.TransactionExpense)
	return &model.TransactionTotals{
		TotalSales:    sales,
		TotalBuys:     buys,
		TotalExpenses: expenses,
		RemainingCash: sales.Sub(buys).Sub(expenses),
	}, nil
}

