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

var ErrTemplateNotFound = model.NotFound("Template not found")

type TemplateRepository struct {
	*pg.DB
}

func NewTemplateRepository(db *pg.DB) *TemplateRepository {
	return &TemplateRepository{db}
}

func (r *TemplateRepository) List(ctx context.Context) ([]*model.Template, error) {
	var entities []*TemplateEntity
	if err := r.Read(ctx).Order("name ASC").Find(&entities).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "list templates")
	}
	out := make([]*model.Template, len(entities))
	for i, e := range entities {
		out[i] = toTemplateModel(e)
	}
	return out, nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, id int64) (*model.Template, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *TemplateRepository) GetByName(ctx context.Context, name string) (*model.Template, error) {
	return r.first(ctx, "name = ?", name)
}

func (r *TemplateRepository) first(ctx context.Context, cond string, arg interface{}) (*model.Template, error) {
	var entity TemplateEntity
	if err := r.Read(ctx).Where(cond, arg).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTemplateNotFound
		}
		return nil, pkgerrors.Wrap(err, "get template")
	}
	return toTemplateModel(&entity), nil
}

func (r *TemplateRepository) Update(ctx context.Context, id int64, req model.TemplateUpdateRequest) (*model.Template, error) {
	var clash int64
	err := r.Read(ctx).Model(&TemplateEntity{}).
		Where("name = ? AND id <> ?", req.Name, id).
		Count(&clash).Error
	if err != nil {
		return nil, pkgerrors.Wrap(err, "check template name")
	}
	if clash > 0 {
		return nil, model.Validation("template %q already exists", req.Name)
	}

	res := r.Write(ctx).Model(&TemplateEntity{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"name": req.Name, "content": req.Content})
	if res.Error != nil {
		return nil, pkgerrors.Wrap(res.Error, "update template")
	}
	if res.RowsAffected == 0 {
		return nil, ErrTemplateNotFound
	}
	return r.GetByID(ctx, id)
}

// CreateIfMissing inserts the template unless one with the same name exists.
// It reports whether a row was inserted.
func (r *TemplateRepository) CreateIfMissing(ctx context.Context, name, content string) (bool, error) {
	res := r.Write(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&TemplateEntity{Name: name, Content: content})
	if res.Error != nil {
		return false, pkgerrors.Wrap(res.Error, "seed template")
	}
	return res.RowsAffected > 0, nil
}
