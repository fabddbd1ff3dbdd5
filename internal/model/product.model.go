package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type Product struct {
	ID           int64           `json:"id"`
	Name         string          `json:"name"`
	BuyingPrice  decimal.Decimal `json:"buyingPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Note         string          `json:"note"`
	CreatedAt    time.Time       `json:"createdAt"`
	UpdatedAt    time.Time       `json:"updatedAt"`
}

type ProductRequest struct {
	Name         string          `json:"name"`
	BuyingPrice  decimal.Decimal `json:"buyingPrice"`
	SellingPrice decimal.Decimal `json:"sellingPrice"`
	Note         string          `json:"note"`
}

func (r *ProductRequest) Validate() error {
	r.Name = strings.TrimSpace(r.Name)
	if r.Name == "" {
		return Validation("name is required")
	}
	if r.BuyingPrice.IsNegative() {
		return Validation("buyingPrice must not be negative")
	}
	if r.SellingPrice.IsNegative() {
		return Validation("sellingPrice must not be negative")
	}
	return nil
}
