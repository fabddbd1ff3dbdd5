package services

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"

	gateway "github.com/nimasrn/ledger-api/internal/gateways"
	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/internal/notify"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/prom"
)

type CustomerRepository interface {
	Create(ctx context.Context, c *model.Customer) (*model.Customer, error)
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
	Update(ctx context.Context, id int64, req model.CustomerRequest) (*model.Customer, error)
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error)
}

type CustomerLedgerReader interface {
	ListForCustomer(ctx context.Context, customerID int64, name string, p model.Pagination) ([]*model.Transaction, int64, error)
	CustomerTotals(ctx context.Context, customerID int64, name string) (model.ReportTotals, error)
}

type SMSSender interface {
	Send(ctx context.Context, phone, message string) (*gateway.SendResponse, error)
}

type NotificationRecorder interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

type CustomerService struct {
	customers     CustomerRepository
	ledger        CustomerLedgerReader
	sms           SMSSender
	notifications NotificationRecorder
}

func NewCustomerService(customers CustomerRepository, ledger CustomerLedgerReader, sms SMSSender, notifications NotificationRecorder) *CustomerService {
	return &CustomerService{
		customers:     customers,
		ledger:        ledger,
		sms:           sms,
		notifications: notifications,
	}
}

func (s *CustomerService) Create(ctx context.Context, req model.CustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	c, err := s.customers.Create(ctx, &model.Customer{Name: req.Name, Phone: req.Phone, Note: req.Note})
	if err != nil {
		return nil, err
	}
	logger.Info("customer created", "customer_id", c.ID)
	return c, nil
}

func (s *CustomerService) Get(ctx context.Context, id int64) (*model.Customer, error) {
	return s.customers.GetByID(ctx, id)
}

func (s *CustomerService) Update(ctx context.Context, id int64, req model.CustomerRequest) (*model.Customer, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	return s.customers.Update(ctx, id, req)
}

func (s *CustomerService) Delete(ctx context.Context, id int64) error {
	if err := s.customers.Delete(ctx, id); err != nil {
		return err
	}
	logger.Info("customer deleted", "customer_id", id)
	return nil
}

func (s *CustomerService) List(ctx context.Context, f model.CustomerFilter) (*model.CustomerPage, error) {
	f.Pagination = f.Pagination.Normalize()
	customers, total, err := s.customers.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if customers == nil {
		customers = []*model.Customer{}
	}
	return &model.CustomerPage{
		Data:        customers,
		CurrentPage: f.Page,
		TotalPages:  f.TotalPages(total),
		Total:       total,
	}, nil
}

// Report pages every transaction linked to the customer by id or by name
// snapshot. Totals cover all of them, not just the page.
func (s *CustomerService) Report(ctx context.Context, id int64, p model.Pagination) (*model.CustomerReport, error) {
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	p = p.Normalize()

	txns, total, err := s.ledger.ListForCustomer(ctx, customer.ID, customer.Name, p)
	if err != nil {
		return nil, err
	}
	totals, err := s.ledger.CustomerTotals(ctx, customer.ID, customer.Name)
	if err != nil {
		return nil, err
	}

	rows := make([]model.ReportTransaction, len(txns))
	for i, txn := range txns {
		rows[i] = toReportTransaction(txn)
	}

	return &model.CustomerReport{
		CustomerInfo: model.ReportCustomerInfo{
			Name:    customer.Name,
			Contact: customer.Phone,
			Balance: customer.Balance,
		},
		Totals: totals,
		Transactions: model.ReportTransactions{
			Data: rows,
			Pagination: model.ReportPagination{
				CurrentPage:         p.Page,
				TotalPages:          p.TotalPages(total),
				TotalTransactions:   total,
				TransactionsPerPage: p.Limit,
			},
		},
	}, nil
}

// toReportTransaction signs the amount from the business's point of view:
// sales are positive, everything else negative.
func toReportTransaction(txn *model.Transaction) model.ReportTransaction {
	amount := txn.Total
	if txn.Type != model.TransactionSell {
		amount = amount.Neg()
	}

	products := make([]model.ReportProduct, len(txn.Products))
	for i, item := range txn.Products {
		name := item.ProductName
		if name == "" {
			name = model.UnknownProductName
		}
		products[i] = model.ReportProduct{Name: name, Price: item.Price, Quantity: item.Quantity}
	}

	paymentType := txn.PaymentType
	if paymentType == "" {
		paymentType = model.PaymentCash
	}

	return model.ReportTransaction{
		ID:          txn.ID,
		Type:        txn.Type,
		Date:        txn.Date,
		Amount:      amount,
		PaymentType: paymentType,
		Products:    products,
		Note:        txn.Note,
	}
}

// SendSMS renders {name} and {balance} into the message and sends it right
// away. The attempt is recorded as a notification either way.
func (s *CustomerService) SendSMS(ctx context.Context, id int64, req model.CustomerSMSRequest) (*model.Notification, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}
	customer, err := s.customers.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	content := notify.Render(req.Message, notify.Vars{Name: customer.Name, Balance: customer.Balance})
	n, err := s.notifications.Create(ctx, &model.Notification{
		CustomerID: customer.ID,
		Phone:      customer.Phone,
		Content:    content,
		Status:     model.NotificationQueued,
	})
	if err != nil {
		return nil, err
	}

	if _, sendErr := s.sms.Send(ctx, customer.Phone, content); sendErr != nil {
		prom.IncNotification(string(model.NotificationFailed))
		if err := s.notifications.MarkFailed(ctx, n.ID, sendErr.Error()); err != nil {
			logger.Error("failed to mark notification failed", "notification_id", n.ID, "error", err)
		}
		return nil, pkgerrors.Wrap(sendErr, "send sms")
	}

	prom.IncNotification(string(model.NotificationSent))
	now := time.Now().UTC()
	if err := s.notifications.MarkSent(ctx, n.ID, now); err != nil {
		logger.Error("failed to mark notification sent", "notification_id", n.ID, "error", err)
	}
	n.Status = model.NotificationSent
	n.SentAt = &now
	return n, nil
}
