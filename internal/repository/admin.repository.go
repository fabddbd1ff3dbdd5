package repository

import (
	"context"
	"errors"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/pg"
)

var ErrAdminNotFound = model.NotFound("Admin not found")

type AdminRepository struct {
	*pg.DB
}

func NewAdminRepository(db *pg.DB) *AdminRepository {
	return &AdminRepository{db}
}

func (r *AdminRepository) GetByEmail(ctx context.Context, email string) (*model.Admin, error) {
	var entity AdminEntity
	if err := r.Read(ctx).Where("email = ?", email).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAdminNotFound
		}
		return nil, pkgerrors.Wrap(err, "get admin")
	}
	return toAdminModel(&entity), nil
}

// CreateIfMissing inserts the admin unless the email is taken.
func (r *AdminRepository) CreateIfMissing(ctx context.Context, email, passwordHash string) (bool, error) {
	res := r.Write(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "email"}}, DoNothing: true}).
		Create(&AdminEntity{Email: email, PasswordHash: passwordHash})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "create admin")
	}
	return res.RowsAffected > 0, nil
}

func (r *AdminRepository) UpdatePassword(ctx context.Context, id int64, passwordHash string) error {
	res := r.Write(ctx).Model(&AdminEntity{}).
		Where("id = ?", id).
		Update("password_hash", passwordHash)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "update admin password")
	}
	if res.RowsAffected == 0 {
		return ErrAdminNotFound
	}
	return nil
}
