package repository

import (
	"context"
	"errors"
	"time"

	pkgerrors "github.com/pkg/errors"
	"gorm.io/gorm"

	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/pkg/pg"
)

var ErrNotificationNotFound = model.NotFound("Notification not found")

type NotificationRepository struct {
	*pg.DB
}

func NewNotificationRepository(db *pg.DB) *NotificationRepository {
	return &NotificationRepository{db}
}

func (r *NotificationRepository) Create(ctx context.Context, n *model.Notification) (*model.Notification, error) {
	entity := toNotificationEntity(n)
	entity.ID = 0
	if entity.Status == "" {
		entity.Status = string(model.NotificationQueued)
	}
	if err := r.Write(ctx).Create(entity).Error; err != nil {
		return nil, pkgerrors.Wrap(err, "create notification")
	}
	return toNotificationModel(entity), nil
}

func (r *NotificationRepository) GetByID(ctx context.Context, id int64) (*model.Notification, error) {
	var entity NotificationEntity
	if err := r.Read(ctx).Where("id = ?", id).First(&entity).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotificationNotFound
		}
		return nil, pkgerrors.Wrap(err, "get notification")
	}
	return toNotificationModel(&entity), nil
}

func (r *NotificationRepository) MarkSent(ctx context.Context, id int64, at time.Time) error {
	at = at.UTC()
	return r.setStatus(ctx, id, map[string]interface{}{
		"status":  string(model.NotificationSent),
		"error":   "",
		"sent_at": &at,
	})
}

func (r *NotificationRepository) MarkFailed(ctx context.Context, id int64, reason string) error {
	return r.setStatus(ctx, id, map[string]interface{}{
		"status": string(model.NotificationFailed),
		"error":  reason,
	})
}

func (r *NotificationRepository) setStatus(ctx context.Context, id int64, fields map[string]interface{}) error {
	res := r.Write(ctx).Model(&NotificationEntity{}).Where("id = ?", id).Updates(fields)
	if res.Error != nil {
		return pkgerrors.Wrap(res.Error, "update notification")
	}
	if res.RowsAffected == 0 {
		return ErrNotificationNotFound
	}
	return nil
}

func (r *NotificationRepository) List(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, int64, error) {
	q := r.Read(ctx).Model(&NotificationEntity{})
	if f.CustomerID != nil {
		q = q.Where("customer_id = ?", *f.CustomerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, pkgerrors.Wrap(err, "count notifications")
	}

	var entities []*NotificationEntity
	err := q.Order("created_at DESC").Order("id DESC").
		Limit(f.Limit).Offset(f.Offset()).
		Find(&entities).Error
	if err != nil {
		return nil, 0, pkgerrors.Wrap(err, "list notifications")
	}

	out := make([]*model.Notification, len(entities))
	for i, e := range entities {
		out[i] = toNotificationModel(e)
	}
	return out, total, nil
}
