package repository

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/pg"
)

var ErrCustomerNotFound = model.NotFound("Customer not found")

type CustomerRepository struct {
	*pg.DB
}

func NewCustomerRepository(db *pg.DB) *CustomerRepository {
	return &CustomerRepository{
		db,
	}
}

// Create inserts a customer with a zero balance.
func (r *CustomerRepository) Create(ctx context.Context, c *model.Customer) (*model.Customer, error) {
	entity := toCustomerEntity(c)
	entity.ID = 0
	entity.Balance = decimal.Zero

	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "create customer")
	}
	return toCustomerModel(entity), nil
}

func (r *CustomerRepository) GetByID(ctx context.Context, id int64) (*model.Customer, error) {
	var entity CustomerEntity
	err := r.Read(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, pkgerrors.Wrap(err, "get customer")
	}
	return toCustomerModel(&entity), nil
}

// Update changes the descriptive fields. Balance is not touched.
func (r *CustomerRepository) Update(ctx context.Context, id int64, req model.CustomerRequest) (*model.Customer, error) {
	res := r.Write(ctx).Model(&CustomerEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"name":  req.Name,
			"phone": req.Phone,
			"note":  req.Note,
		})
	if res.Error != nil {
		return nil, pkgerrors.Wrap(res.Error, "update customer")
	}
	if res.RowsAffected == 0 {
		return nil, ErrCustomerNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *CustomerRepository) Delete(ctx context.Context, id int64) error {
	res := r.Write(ctx).Where("id = ?", id).Delete(&CustomerEntity{})
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "delete customer")
	}
	if res.RowsAffected == 0 {
		return ErrCustomerNotFound
	}
	return nil
}

// List searches name, phone and note, newest first.
func (r *CustomerRepository) List(ctx context.Context, f model.CustomerFilter) ([]*model.Customer, int64, error) {
	q := whereContainsAny(r.Read(ctx).Model(&CustomerEntity{}), f.Search, "name", "phone", "note")

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count customers")
	}

	var entities []*CustomerEntity
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset()).
		Find(&entities).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list customers")
	}
	return toCustomerModels(entities), total, nil
}

func (r *CustomerRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	if err := r.Read(ctx).Model(&CustomerEntity{}).Count(&n).Error; err != nil {
		return 0, pkgerrors.Wrap(err, "count customers")
	}
	return n, nil
}

// AdjustBalance locks the customer row and adds delta to its balance,
// returning the new balance. It must run inside pg.WithinTransaction for the
// lock to hold until commit.
func (r *CustomerRepository) AdjustBalance(ctx context.Context, id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	var entity CustomerEntity
	err := r.Write(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return decimal.Zero, ErrCustomerNotFound
		}
		return decimal.Zero, pkgerrors.Wrap(err, "lock customer")
	}

	balance := entity.Balance.Add(delta)
	res := r.Write(ctx).Model(&CustomerEntity{}).
		Where("id = ?", id).
		Update("balance", balance)
	if res.Error != nil {
		return decimal.Zero, pkgerrors.Wrap(res.Error, "update balance")
	}
	if res.RowsAffected == 0 {
		return decimal.Zero, ErrCustomerNotFound
	}
	return balance, nil
}
