package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type TransactionType string

const (
	TransactionSell       TransactionType = "sell"
	TransactionBuy        TransactionType = "buy"
	TransactionReceivable TransactionType = "receivable"
	TransactionDue        TransactionType = "due"
	TransactionExpense    TransactionType = "expense"
)

func (t TransactionType) Valid() bool {
	switch t {
	case TransactionSell, TransactionBuy, TransactionReceivable, TransactionDue, TransactionExpense:
		return true
	}
	return false
}

type PaymentType string

const (
	PaymentCash PaymentType = "cash"
	PaymentDue  PaymentType = "due"
)

func (p PaymentType) Valid() bool {
	return p == PaymentCash || p == PaymentDue
}

// LineItem is one product row of a transaction. ProductName is resolved on
// read and empty when the product was deleted.
type LineItem struct {
	ProductID   int64           `json:"productId"`
	ProductName string          `json:"productName,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Quantity    int             `json:"quantity"`
}

type Transaction struct {
	ID           int64           `json:"id"`
	Type         TransactionType `json:"type"`
	CustomerID   *int64          `json:"customerId"`
	CustomerName string          `json:"customerName"`
	Products     []LineItem      `json:"products"`
	Total        decimal.Decimal `json:"total"`
	Date         time.Time       `json:"date"`
	Note         string          `json:"note"`
	PaymentType  PaymentType     `json:"paymentType"`
	CreatedAt    time.Time       `json:"createdAt"`
}

// HasCustomer reports whether the transaction references a customer record.
func (t *Transaction) HasCustomer() bool {
	return t.CustomerID != nil && *t.CustomerID > 0
}

type TransactionCreateRequest struct {
	Type         TransactionType  `json:"type"`
	CustomerID   *int64           `json:"customerId"`
	CustomerName string           `json:"customerName"`
	Products     []LineItem       `json:"products"`
	Total        *decimal.Decimal `json:"total"`
	Note         string           `json:"note"`
	Date         string           `json:"date"`
	PaymentType  PaymentType      `json:"paymentType"`
	SMS          bool             `json:"sms"`
}

var requestDateLayouts = []string{time.RFC3339Nano, "2006-01-02T15:04", "2006-01-02"}

// Validate checks the request and fills defaults. now is used when no date
// is given.
func (r *TransactionCreateRequest) Validate() error {
	if !r.Type.Valid() {
		return Validation("invalid transaction type %q", r.Type)
	}
	if r.PaymentType == "" {
		r.PaymentType = PaymentCash
	}
	if !r.PaymentType.Valid() {
		return Validation("invalid payment type %q", r.PaymentType)
	}
	if r.Total == nil {
		return Validation("total is required")
	}
	if r.CustomerID != nil && *r.CustomerID <= 0 {
		r.CustomerID = nil
	}
	for i, item := range r.Products {
		if item.ProductID <= 0 {
			return Validation("products[%d].productId is required", i)
		}
		if item.Price.IsNegative() {
			return Validation("products[%d].price must not be negative", i)
		}
		if item.Quantity < 1 {
			return Validation("products[%d].quantity must be at least 1", i)
		}
	}
	if _, err := r.ParseDate(time.Now()); err != nil {
		return err
	}
	return nil
}

// ParseDate returns the requested date in UTC, or now when none was given.
func (r *TransactionCreateRequest) ParseDate(now time.Time) (time.Time, error) {
	s := strings.TrimSpace(r.Date)
	if s == "" {
		return now.UTC(), nil
	}
	for _, layout := range requestDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, Validation("invalid date %q", r.Date)
}

// TransactionFilter lists transactions. Zero values disable a filter.
type TransactionFilter struct {
	Search   string
	Type     TransactionType
	DateFrom *time.Time
	DateTo   *time.Time
	Pagination
}

// DayRange widens DateFrom to the start and DateTo to the last millisecond
// of their UTC days.
func (f TransactionFilter) DayRange() (from, to *time.Time) {
	if f.DateFrom != nil {
		d := f.DateFrom.UTC()
		start := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, time.UTC)
		from = &start
	}
	if f.DateTo != nil {
		d := f.DateTo.UTC()
		end := time.Date(d.Year(), d.Month(), d.Day(), 23, 59, 59, int(999*time.Millisecond), time.UTC)
		to = &end
	}
	return from, to
}

type TransactionPage struct {
	Data        []*Transaction `json:"data"`
	CurrentPage int            `json:"currentPage"`
	TotalPages  int            `json:"totalPages"`
	TotalItems  int64          `json:"totalItems"`
}

type TransactionTotals struct {
	TotalSales    decimal.Decimal `json:"totalSales"`
	TotalBuys     decimal.Decimal `json:"totalBuys"`
	TotalExpenses decimal.Decimal `json:"totalExpenses"`
	RemainingCash decimal.Decimal `json:"remainingCash"`
}

// TransactionResult is returned by create. Notification is set when an SMS
// was requested.
type TransactionResult struct {
	*Transaction
	Notification *Notification `json:"notification,omitempty"`
}
