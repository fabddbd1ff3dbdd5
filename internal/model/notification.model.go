package model

import "time"

type NotificationStatus string

const (
	NotificationQueued NotificationStatus = "queued"
	NotificationSent   NotificationStatus = "sent"
	NotificationFailed NotificationStatus = "failed"
)

// Notification is the durable record of one SMS attempt.
type Notification struct {
	ID            int64              `json:"id"`
	TransactionID *int64             `json:"transactionId"`
	CustomerID    int64              `json:"customerId"`
	Phone         string             `json:"phone"`
	Content       string             `json:"content"`
	Status        NotificationStatus `json:"status"`
	Error         string             `json:"error,omitempty"`
	CreatedAt     time.Time          `json:"createdAt"`
	SentAt        *time.Time         `json:"sentAt"`
}

type NotificationFilter struct {
	CustomerID *int64
	Status     NotificationStatus
	Pagination
}

type NotificationPage struct {
	Data        []*Notification `json:"data"`
	CurrentPage int             `json:"currentPage"`
	TotalPages  int             `json:"totalPages"`
	TotalItems  int64           `json:"totalItems"`
}

// NotificationJob is the payload published to the notification stream.
type NotificationJob struct {
	NotificationID int64 `json:"notificationId"`
}
