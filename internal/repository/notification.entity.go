package repository

import (
	"time"

	"github.com/nimasrn/ledger-api/internal/model"
)

type NotificationEntity struct {
	ID            int64      `gorm:"primaryKey;autoIncrement;column:id"`
	TransactionID *int64     `gorm:"column:transaction_id;index"`
	CustomerID    int64      `gorm:"column:customer_id;not null;index"`
	Phone         string     `gorm:"column:phone;not null"`
	Content       string     `gorm:"column:content;not null"`
	Status        string     `gorm:"column:status;not null;default:'queued';index"`
	Error         string     `gorm:"column:error;not null;default:''"`
	CreatedAt     time.Time  `gorm:"column:created_at;autoCreateTime"`
	SentAt        *time.Time `gorm:"column:sent_at"`
}

func (NotificationEntity) TableName() string {
	return "notifications"
}

func toNotificationEntity(m *model.Notification) *NotificationEntity {
	return &NotificationEntity{
		ID:            m.ID,
		TransactionID: m.TransactionID,
		CustomerID:    m.CustomerID,
		Phone:         m.Phone,
		Content:       m.Content,
		Status:        string(m.Status),
		Error:         m.Error,
		CreatedAt:     m.CreatedAt,
		SentAt:        m.SentAt,
	}
}

func toNotificationModel(e *NotificationEntity) *model.Notification {
	if e == nil {
		return nil
	}
	return &model.Notification{
		ID:            e.ID,
		TransactionID: e.TransactionID,
		CustomerID:    e.CustomerID,
		Phone:         e.Phone,
		Content:       e.Content,
		Status:        model.NotificationStatus(e.Status),
		Error:         e.Error,
		CreatedAt:     e.CreatedAt,
		SentAt:        e.SentAt,
	}
}
