package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nimasrn/ledger-api/internal/model"
)

type ProductEntity struct {
	ID           int64           `gorm:"primaryKey;autoIncrement;column:id"`
	Name         string          `gorm:"column:name;not null"`
	BuyingPrice  decimal.Decimal `gorm:"column:buying_price;type:numeric(18,2);not null;default:0"`
	SellingPrice decimal.Decimal `gorm:"column:selling_price;type:numeric(18,2);not null;default:0"`
	Note         string          `gorm:"column:note;not null;default:''"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time       `gorm:"column:updated_at;autoUpdateTime"`
}

func (ProductEntity) TableName() string {
	return "products"
}

func toProductModel(e *ProductEntity) *model.Product {
	if e == nil {
		return nil
	}
	return &model.Product{
		ID:           e.ID,
		Name:         e.Name,
		BuyingPrice:  e.BuyingPrice,
		SellingPrice: e.SellingPrice,
		Note:         e.Note,
		CreatedAt:    e.CreatedAt,
		UpdatedAt:    e.UpdatedAt,
	}
}
