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

var ErrProductNotFound = model.NotFound("Product not found")

type ProductRepository struct {
	*pg.DB
}

func NewProductRepository(db *pg.DB) *ProductRepository {
	return &ProductRepository{db}
}

func (r *ProductRepository) Create(ctx context.Context, req model.ProductRequest) (*model.Product, error) {
	entity := &ProductEntity{
		Name:         req.Name,
		BuyingPrice:  req.BuyingPrice,
		SellingPrice: req.SellingPrice,
		Note:         req.Note,
	}
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "create product")
	}
	return toProductModel(entity), nil
}

func (r *ProductRepository) GetByID(ctx context.Context, id int64) (*model.Product, error) {
	var entity ProductEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrProductNotFound
		}
		return nil, pkgerrors.Wrap(err, "get product")
	}
	return toProductModel(&entity), nil
}

func (r *ProductRepository) Update(ctx context.Context, id int64, req model.ProductRequest) (*model.Product, error) {
	res := r.Write(ctx).Model(&ProductEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":          req.Name,
			"buying_price":  req.BuyingPrice,
			"selling_price": req.SellingPrice,
			"note":          req.Note,
		})
	if res.Error != nil {
		return nil, pkgerrors.Wrap(res.Error, "update product")
	}
	if res.RowsAffected == 0 {
		return nil, ErrProductNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&ProductEntity{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "delete product")
	}
	if res.RowsAffected == 0 {
		return ErrProductNotFound
	}
	return nil
}

// List returns every product matching search, ordered by name.
func (r *ProductRepository) List(ctx context.Context, search string) ([]*model.Product, error) {
	var entities []*ProductEntity
	err := whereContainsAny(r.Read(ctx).Model(&ProductEntity{}), search, "name", "note").
		Order("name ASC").Order("id ASC").
		Find(&entities).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "list products")
	}

	out := make([]*model.Product, len(entities))
	for i, e := range entities {
		out[i] = toProductModel(e)
	}
	return out, nil
}

func (r *ProductRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.Read(ctx).Model(&ProductEntity{}).Count(&n).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "count products")
	}
	return n, nil
}

// InventoryValue sums buying prices, one unit per product.
func (r *ProductRepository) InventoryValue(ctx context.Context) (decimal.Decimal, error) {
	var row sumRow
	err := r.Read(ctx).Model(&ProductEntity{}).
		Select("SUM(buying_price) AS total").
		Scan(&row).Error
	if err != nil {
		return decimal.Zero, pkgerrors.Wrap(err, "sum buying prices")
	}
	return row.value(), nil
}
