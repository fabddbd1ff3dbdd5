package repository

import (
	"context"
	"time"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/pg"
)

// StatisticsRepository runs the read-only dashboard aggregates.
type StatisticsRepository struct {
	*pg.DB
}

func NewStatisticsRepository(db *pg.DB) *StatisticsRepository {
	return &StatisticsRepository{db}
}

type topProductRow struct {
	ProductID     int64               `gorm:"column:product_id"`
	Name          string              `gorm:"column:name"`
	TotalQuantity int64               `gorm:"column:total_quantity"`
	TotalRevenue  decimal.NullDecimal `gorm:"column:total_revenue"`
}

// TopProducts ranks existing products by quantity sold in sell transactions.
func (r *StatisticsRepository) TopProducts(ctx context.Context, limit int) ([]model.TopProduct, error) {
	var rows []topProductRow
	err := r.Read(ctx).
		Table("transaction_items AS ti").
		Select("ti.product_id, p.name, SUM(ti.quantity) AS total_quantity, SUM(ti.price * ti.quantity) AS total_revenue").
		Joins("JOIN transactions t ON t.id = ti.transaction_id").
		Joins("JOIN products p ON p.id = ti.product_id").
		Where("t.type = ?", string(model.TransactionSell)).
		Group("ti.product_id, p.name").
		Order("total_quantity DESC").Order("ti.product_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top products")
	}

	out := make([]model.TopProduct, len(rows))
	for i, row := range rows {
		out[i] = model.TopProduct{
			ProductID:     row.ProductID,
			Name:          row.Name,
			TotalQuantity: row.TotalQuantity,
			TotalRevenue:  row.TotalRevenue.Decimal,
		}
	}
	return out, nil
}

type topCustomerRow struct {
	CustomerID       int64               `gorm:"column:customer_id"`
	Name             string              `gorm:"column:name"`
	TotalSales       decimal.NullDecimal `gorm:"column:total_sales"`
	TransactionCount int64               `gorm:"column:transaction_count"`
}

// TopCustomers ranks existing customers by their sell total. The count
// covers every transaction linked to the customer.
func (r *StatisticsRepository) TopCustomers(ctx context.Context, limit int) ([]model.TopCustomer, error) {
	var rows []topCustomerRow
	err := r.Read(ctx).
		Table("transactions AS t").
		Select(`t.customer_id, c.name,
			SUM(CASE WHEN t.type = 'sell' THEN t.total ELSE 0 END) AS total_sales,
			COUNT(t.id) AS transaction_count`).
		Joins("JOIN customers c ON c.id = t.customer_id").
		Group("t.customer_id, c.name").
		Order("total_sales DESC").Order("t.customer_id ASC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "top customers")
	}

	out := make([]model.TopCustomer, len(rows))
	for i, row := range rows {
		out[i] = model.TopCustomer{
			CustomerID:       row.CustomerID,
			Name:             row.Name,
			TotalSales:       row.TotalSales.Decimal,
			TransactionCount: row.TransactionCount,
		}
	}
	return out, nil
}

type datedAmountRow struct {
	Date  time.Time       `gorm:"column:date"`
	Total decimal.Decimal `gorm:"column:total"`
}

// AmountsSince lists totals of txnType dated at or after since. Month
// bucketing happens in the caller so it stays independent of SQL dialect.
func (r *StatisticsRepository) AmountsSince(ctx context.Context, txnType model.TransactionType, since time.Time) ([]model.DatedAmount, error) {
	var rows []datedAmountRow
	err := r.Read(ctx).Model(&TransactionEntity{}).
		Select("date, total").
		Where("type = ? AND date >= ?", string(txnType), since.UTC()).
		Scan(&rows).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list amounts")
	}

	out := make([]model.DatedAmount, len(rows))
	for i, row := range rows {
		out[i] = model.DatedAmount{Date: row.Date, Total: row.Total}
	}
	return out, nil
}
