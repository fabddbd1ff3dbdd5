package services

import (
	"context"

	"github.com/nimasrn/ledger-api/internal/model"
)

type NotificationRepository interface {
	List(ctx context.Context, f model.NotificationFilter) ([]*model.Notification, int64, error)
}

type NotificationService struct {
	notifications NotificationRepository
}

func NewNotificationService(notifications NotificationRepository) *NotificationService {
	return &NotificationService{notifications: notifications}
}

func (s *NotificationService) List(ctx context.Context, f model.NotificationFilter) (*model.NotificationPage, error) {
	f.Pagination = f.Pagination.Normalize()
	switch f.Status {
	case "", model.NotificationQueued, model.NotificationSent, model.NotificationFailed:
	default:
		return nil, model.Validation("invalid notification status %q", f.Status)
	}

	items, total, err := s.notifications.List(ctx, f)
	if err != nil {
		return nil, err
	}
	if items == nil {
		items = []*model.Notification{}
	}
	return &model.NotificationPage{
		Data:        items,
		CurrentPage: f.Page,
		TotalPages:  f.TotalPages(total),
		TotalItems:  total,
	}, nil
}
