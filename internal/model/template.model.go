package model

import (
	"strings"
	"time"
)

const (
	TemplateSalesInvoice         = "Sales Invoice"
	TemplatePurchaseInvoice      = "Purchase Invoice"
	TemplateReceivableAdjustment = "Receivable Adjustment"
	TemplateDueAdjustment        = "Due Adjustment"
)

// TemplateKeyFor maps a transaction type to the template used for its SMS.
// Expense has none.
func TemplateKeyFor(t TransactionType) (string, bool) {
	switch t {
	case TransactionSell:
		return TemplateSalesInvoice, true
	case TransactionBuy:
		return TemplatePurchaseInvoice, true
	case TransactionReceivable:
		return TemplateReceivableAdjustment, true
	case TransactionDue:
		return TemplateDueAdjustment, true
	}
	return "", false
}

// DefaultTemplates are seeded when missing.
var DefaultTemplates = map[string]string{
	TemplateSalesInvoice:         "Dear {name}, thank you for your purchase of {amount}. Your current balance is {balance}.",
	TemplatePurchaseInvoice:      "Dear {name}, we recorded a purchase of {amount} from you. Your current balance is {balance}.",
	TemplateReceivableAdjustment: "Dear {name}, we received {amount}. Your current balance is {balance}.",
	TemplateDueAdjustment:        "Dear {name}, {amount} has been added as due. Your current balance is {balance}.",
}

type Template struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Content   string    `json:"content"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TemplateUpdateRequest struct {
	Name    string `json:"name"`
	Content string `json:"content"`
}

func (r *TemplateUpdateRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return Validation("name is required")
	}
	if strings.TrimSpace(r.Content) == "" {
		return Validation("content is required")
	}
	return nil
}
