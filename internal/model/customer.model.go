package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Customer balance is derived from committed transactions and only moves
// through the balance engine.
type Customer struct {
	ID        int64           `json:"id"`
	Name      string          `json:"name"`
	Phone     string          `json:"phone"`
	Note      string          `json:"note"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// CustomerRequest is the body of create and update. Any balance sent by a
// client is ignored.
type CustomerRequest struct {
	Name  string `json:"name"`
	Phone string `json:"phone"`
	Note  string `json:"note"`
}

func (r *CustomerRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	r.Phone = strings.TrimSpace(r.Phone)
	if r.Name == "" {
		return Validation("name is required")
	}
	if r.Phone == "" {
		return Validation("phone is required")
	}
	return nil
}

type CustomerFilter struct {
	Search string
	Pagination
}

type CustomerPage struct {
	Data        []*Customer `json:"data"`
	CurrentPage int         `json:"currentPage"`
	TotalPages  int         `json:"totalPages"`
	Total       int64       `json:"total"`
}

// CustomerSMSRequest is a free-form message; {name} and {balance} are
// substituted before sending.
type CustomerSMSRequest struct {
	Message string `json:"message"`
}

func (r CustomerSMSRequest) Validate() error {
	if strings.TrimSpace(r.Message) == "" {
		return Validation("message is required")
	}
	return nil
}
