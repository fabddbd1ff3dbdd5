package repository

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/pg"
)

var ErrTransactionNotFound = model.NotFound("Transaction not found")

type TransactionRepository struct {
	*pg.DB
}

func NewTransactionRepository(db *pg.DB) *TransactionRepository {
	return &TransactionRepository{db}
}

// Create inserts the transaction and its line items in order.
func (r *TransactionRepository) Create(ctx context.Context, txn *model.Transaction) (*model.Transaction, error) {
	entity := toTransactionEntity(txn)
	entity.ID = 0

	db := r.Write(ctx)
	if err := db.Create(entity).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "create transaction")
	}

	if len(txn.Products) > 0 {
		items := toTransactionItemEntities(entity.ID, txn.Products)
		if err := db.Create(&items).Error; err != nil {
			return nil, pkgerrors.Wrap(err, "create transaction items")
		}
	}

	return r.GetByID(ctx, entity.ID)
}

func (r *TransactionRepository) GetByID(ctx context.Context, id int64) (*model.Transaction, error) {
	var entity TransactionEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTransactionNotFound
		}
		return nil, pkgerrors.Wrap(err, "get transaction")
	}

	txns := []*model.Transaction{toTransactionModel(&entity)}
	if err := r.loadItems(ctx, txns); err != nil {
		return nil, err
	}
	return txns[0], nil
}

// Delete removes the transaction and its items.
func (r *TransactionRepository) Delete(ctx context.Context, id int64) error {
	db := r.Write(ctx)
	if err := db.Where("transaction_id = ?", id).Delete(&TransactionItemEntity{}).Error; err != nil {
		return pkgerrors.Wrap(err, "delete transaction items")
	}

	res := db.Where("id = ?", id).Delete(&TransactionEntity{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "delete transaction")
	}
	if res.RowsAffected == 0 {
		return ErrTransactionNotFound
	}
	return nil
}

func (r *TransactionRepository) List(ctx context.Context, f model.TransactionFilter) ([]*model.Transaction, int64, error) {
	q := whereContainsAny(r.Read(ctx).Model(&TransactionEntity{}), f.Search, "note", "customer_name")
	if f.Type != "" {
		q = q.Where("type = ?", string(f.Type))
	}
	from, to := f.DayRange()
	if from != nil {
		q = q.Where("date >= ?", *from)
	}
	if to != nil {
		q = q.Where("date <= ?", *to)
	}

	return r.page(ctx, q, f.Pagination)
}

// ListForCustomer pages the transactions linked to a customer by id or by
// the customerName snapshot.
func (r *TransactionRepository) ListForCustomer(ctx context.Context, customerID int64, name string, p model.Pagination) ([]*model.Transaction, int64, error) {
	q := r.Read(ctx).Model(&TransactionEntity{}).
		Where("customer_id = ? OR customer_name = ?", customerID, name)
	return r.page(ctx, q, p)
}

// Recent returns the n latest transactions by date.
func (r *TransactionRepository) Recent(ctx context.Context, n int) ([]*model.Transaction, error) {
	txns, _, err := r.page(ctx, r.Read(ctx).Model(&TransactionEntity{}), model.Pagination{Page: 1, Limit: n})
	return txns, err
}

func (r *TransactionRepository) page(ctx context.Context, q *gorm.DB, p model.Pagination) ([]*model.Transaction, int64, error) {
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count transactions")
	}

	var entities []*TransactionEntity
	err := q.Order("date DESC").Order("id DESC").
		Limit(p.Limit).Offset(p.Offset()).
		Find(&entities).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list transactions")
	}

	txns := make([]*model.Transaction, len(entities))
	for i, e := range entities {
		txns[i] = toTransactionModel(e)
	}
	if err := r.loadItems(ctx, txns); err != nil {
		return nil, 0, err
	}
	return txns, total, nil
}

func (r *TransactionRepository) loadItems(ctx context.Context, txns []*model.Transaction) error {
	if len(txns) == 0 {
		return nil
	}

	ids := make([]int64, len(txns))
	byID := make(map[int64]*model.Transaction, len(txns))
	for i, t := range txns {
		ids[i] = t.ID
		byID[t.ID] = t
	}

	var rows []*transactionItemRow
	err := r.Read(ctx).
		Table("transaction_items AS ti").
		Select("ti.id, ti.transaction_id, ti.product_id, ti.price, ti.quantity, ti.position, p.name AS product_name").
		Joins("LEFT JOIN products p ON p.id = ti.product_id").
		Where("ti.transaction_id IN ?", ids).
		Order("ti.transaction_id").Order("ti.position").
		Scan(&rows).Error
	if err != nil {
		return pkgerrors.Wrap(err, "load transaction items")
	}

	for _, row := range rows {
		if t, ok := byID[row.TransactionID]; ok {
			t.Products = append(t.Products, toLineItem(row))
		}
	}
	return nil
}

type typeSumRow struct {
	Type  string              `gorm:"column:type"`
	Total decimal.NullDecimal `gorm:"column:total"`
}

// SumByType totals the ledger per transaction type and over every
// due-payment transaction.
func (r *TransactionRepository) SumByType(ctx context.Context) (model.TypeTotals, error) {
	totals := model.TypeTotals{ByType: make(map[model.TransactionType]decimal.Decimal)}

	var rows []typeSumRow
	err := r.Read(ctx).Model(&TransactionEntity{}).
		Select("type, SUM(total) AS total").
		Group("type").
		Scan(&rows).Error
	if err != nil {
		return totals, pkgerrors.Wrap(err, "sum transactions by type")
	}
	for _, row := range rows {
		if row.Total.Valid {
			totals.ByType[model.TransactionType(row.Type)] = row.Total.Decimal
		}
	}

	var due sumRow
	err = r.Read(ctx).Model(&TransactionEntity{}).
		Select("SUM(total) AS total").
		Where("payment_type = ?", string(model.PaymentDue)).
		Scan(&due).Error
	if err != nil {
		return totals, pkgerrors.Wrap(err, "sum due transactions")
	}
	totals.DueTotal = due.value()
	return totals, nil
}

type customerTotalsRow struct {
	TotalPurchases decimal.NullDecimal `gorm:"column:total_purchases"`
	TotalSales     decimal.NullDecimal `gorm:"column:total_sales"`
	AmountDue      decimal.NullDecimal `gorm:"column:amount_due"`
	AmountOwed     decimal.NullDecimal `gorm:"column:amount_owed"`
}

// CustomerTotals aggregates every transaction linked to the customer.
// amountDue sums due-payment sales, amountOwed every other due-payment type.
func (r *TransactionRepository) CustomerTotals(ctx context.Context, customerID int64, name string) (model.ReportTotals, error) {
	var row customerTotalsRow
	err := r.Read(ctx).Model(&TransactionEntity{}).
		Select(`SUM(CASE WHEN type = 'buy' THEN total ELSE 0 END) AS total_purchases,
			SUM(CASE WHEN type = 'sell' THEN total ELSE 0 END) AS total_sales,
			SUM(CASE WHEN payment_type = 'due' AND type = 'sell' THEN total ELSE 0 END) AS amount_due,
			SUM(CASE WHEN payment_type = 'due' AND type <> 'sell' THEN total ELSE 0 END) AS amount_owed`).
		Where("customer_id = ? OR customer_name = ?", customerID, name).
		Scan(&row).Error
	if err != nil {
		return model.ReportTotals{}, pkgerrors.Wrap(err, "sum customer transactions")
	}

	orZero := func(d decimal.NullDecimal) decimal.Decimal {
		if d.Valid {
			return d.Decimal
		}
		return decimal.Zero
	}
	return model.ReportTotals{
		TotalPurchases: orZero(row.TotalPurchases),
		TotalSales:     orZero(row.TotalSales),
		AmountDue:      orZero(row.AmountDue),
		AmountOwed:     orZero(row.AmountOwed),
	}, nil
}
