package notify

import (
	"context"
	"errors"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/prom"
)

var (
	ErrCustomerNotFound = model.NotFound("Customer not found")
	ErrTemplateNotFound = model.NotFound("Template not found")
)

type CustomerReader interface {
	GetByID(ctx context.Context, id int64) (*model.Customer, error)
}

type TemplateReader interface {
	GetByName(ctx context.Context, name string) (*model.Template, error)
}

type NotificationStore interface {
	Create(ctx context.Context, n *model.Notification) (*model.Notification, error)
	MarkFailed(ctx context.Context, id int64, reason string) error
}

type Publisher interface {
	PublishJSON(ctx context.Context, data interface{}, metadata map[string]string) (string, error)
}

// Dispatcher turns a ledger transaction into a queued SMS. Prepare runs
// inside the ledger write so lookup failures roll it back; Enqueue runs after
// commit and never fails the request.
type Dispatcher struct {
	customers     CustomerReader
	templates     TemplateReader
	notifications NotificationStore
	publisher     Publisher
}

func NewDispatcher(customers CustomerReader, templates TemplateReader, notifications NotificationStore, publisher Publisher) *Dispatcher {
	return &Dispatcher{
		customers:     customers,
		templates:     templates,
		notifications: notifications,
		publisher:     publisher,
	}
}

// Prepare renders the template for txn and stores a queued notification.
// It returns nil for types without a template.
func (d *Dispatcher) Prepare(ctx context.Context, txn *model.Transaction) (*model.Notification, error) {
	key, ok := model.TemplateKeyFor(txn.Type)
	if !ok {
		return nil, nil
	}
	if !txn.HasCustomer() {
		return nil, ErrCustomerNotFound
	}

	customer, err := d.customers.GetByID(ctx, *txn.CustomerID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	tmpl, err := d.templates.GetByName(ctx, key)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, err
	}

	total := txn.Total
	content := Render(tmpl.Content, Vars{
		Name:    customer.Name,
		Amount:  &total,
		Balance: customer.Balance,
	})

	txnID := txn.ID
	return d.notifications.Create(ctx, &model.Notification{
		TransactionID: &txnID,
		CustomerID:    customer.ID,
		Phone:         customer.Phone,
		Content:       content,
		Status:        model.NotificationQueued,
	})
}

// Enqueue publishes n to the notification stream. A publish failure marks
// the notification failed and is reflected in the returned copy.
func (d *Dispatcher) Enqueue(ctx context.Context, n *model.Notification) *model.Notification {
	if n == nil {
		return nil
	}

	_, err := d.publisher.PublishJSON(ctx, model.NotificationJob{NotificationID: n.ID}, nil)
	if err == nil {
		prom.IncNotification(string(model.NotificationQueued))
		logger.Debug("notification queued", "notification_id", n.ID)
		return n
	}

	logger.Error("failed to queue notification", "notification_id", n.ID, "error", err)
	prom.IncNotification(string(model.NotificationFailed))

	failed := *n
	failed.Status = model.NotificationFailed
	failed.Error = err.Error()
	if markErr := d.notifications.MarkFailed(ctx, n.ID, failed.Error); markErr != nil {
		logger.Error("failed to mark notification failed", "notification_id", n.ID, "error", markErr)
	}
	return &failed
}
