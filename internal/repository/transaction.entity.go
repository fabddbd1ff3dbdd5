package repository

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/nimasrn/ledger-api/internal/model"
)

type TransactionEntity struct {
	ID           int64           `gorm:"primaryKey;autoIncrement;column:id"`
	Type         string          `gorm:"column:type;not null;index"`
	CustomerID   *int64          `gorm:"column:customer_id;index"`
	CustomerName string          `gorm:"column:customer_name;not null;default:''"`
	Total        decimal.Decimal `gorm:"column:total;type:numeric(18,2);not null"`
	Date         time.Time       `gorm:"column:date;not null;index"`
	Note         string          `gorm:"column:note;not null;default:''"`
	PaymentType  string          `gorm:"column:payment_type;not null;default:'cash'"`
	CreatedAt    time.Time       `gorm:"column:created_at;autoCreateTime"`
}

func (TransactionEntity) TableName() string {
	return "transactions"
}

type TransactionItemEntity struct {
	ID            int64           `gorm:"primaryKey;autoIncrement;column:id"`
	TransactionID int64           `gorm:"column:transaction_id;not null;index"`
	ProductID     int64           `gorm:"column:product_id;not null;index"`
	Price         decimal.Decimal `gorm:"column:price;type:numeric(18,2);not null"`
	Quantity      int             `gorm:"column:quantity;not null"`
	Position      int             `gorm:"column:position;not null"`
}

func (TransactionItemEntity) TableName() string {
	return "transaction_items"
}

// transactionItemRow is an item joined with its product name.
type transactionItemRow struct {
	TransactionItemEntity
	ProductName *string `gorm:"column:product_name"`
}

func toTransactionEntity(m *model.Transaction) *TransactionEntity {
	return &TransactionEntity{
		ID:           m.ID,
		Type:         string(m.Type),
		CustomerID:   m.CustomerID,
		CustomerName: m.CustomerName,
		Total:        m.Total,
		Date:         m.Date.UTC(),
		Note:         m.Note,
		PaymentType:  string(m.PaymentType),
		CreatedAt:    m.CreatedAt,
	}
}

func toTransactionItemEntities(txnID int64, items []model.LineItem) []*TransactionItemEntity {
	out := make([]*TransactionItemEntity, len(items))
	for i, it := range items {
		out[i] = &TransactionItemEntity{
			TransactionID: txnID,
			ProductID:     it.ProductID,
			Price:         it.Price,
			Quantity:      it.Quantity,
			Position:      i,
		}
	}
	return out
}

func toTransactionModel(e *TransactionEntity) *model.Transaction {
	if e == nil {
		return nil
	}
	return &model.Transaction{
		ID:           e.ID,
		Type:         model.TransactionType(e.Type),
		CustomerID:   e.CustomerID,
		CustomerName: e.CustomerName,
		Products:     []model.LineItem{},
		Total:        e.Total,
		Date:         e.Date.UTC(),
		Note:         e.Note,
		PaymentType:  model.PaymentType(e.PaymentType),
		CreatedAt:    e.CreatedAt,
	}
}

func toLineItem(r *transactionItemRow) model.LineItem {
	item := model.LineItem{
		ProductID: r.ProductID,
		Price:     r.Price,
		Quantity:  r.Quantity,
	}
	if r.ProductName != nil {
		item.ProductName = *r.ProductName
	}
	return item
}
