package notify

import (
	"context"
	"errors"
	"strconv"
	"time"

	gateway "github.com/nimasrn/ledger-api/internal/gateways"
	"github.com/nimasrn/ledger-api/internal/model"
	"github.com/nimasrn/ledger-api/internal/queue"
	"github.com/nimasrn/ledger-api/pkg/logger"
	"github.com/nimasrn/ledger-api/pkg/prom"
)

type NotificationRepository interface {
	GetByID(ctx context.Context, id int64) (*model.Notification, error)
	MarkSent(ctx context.Context, id int64, at time.Time) error
	MarkFailed(ctx context.Context, id int64, reason string) error
}

type Sender interface {
	Send(ctx context.Context, phone, message string) (*gateway.SendResponse, error)
}

// SMSProcessor sends one queued notification per stream entry. A gateway
// failure is recorded on the notification and acknowledged; it is not
// redelivered.
type SMSProcessor struct {
	notifications NotificationRepository
	sender        Sender
	idempotency   *IdempotencyService
}

func NewSMSProcessor(notifications NotificationRepository, sender Sender, idempotency *IdempotencyService) *SMSProcessor {
	return &SMSProcessor{
		notifications: notifications,
		sender:        sender,
		idempotency:   idempotency,
	}
}

func (p *SMSProcessor) GetType() string {
	return "sms"
}

func (p *SMSProcessor) Process(ctx context.Context, msg *queue.Message) error {
	start := time.Now()
	defer func() { prom.ObserveNotificationProcessing(time.Since(start)) }()

	var job model.NotificationJob
	if err := msg.Decode(&job); err != nil || job.NotificationID <= 0 {
		// malformed entries can never succeed
		logger.Error("invalid notification job", "stream_id", msg.ID, "error", err)
		return nil
	}
	key := strconv.FormatInt(job.NotificationID, 10)

	pc, err := p.idempotency.AcquireProcessingLock(ctx, key)
	if err != nil {
		if errors.Is(err, ErrAlreadyProcessed) {
			logger.Info("notification already processed, skipping", "notification_id", job.NotificationID)
			return nil
		}
		return err
	}
	defer p.idempotency.ReleaseLock(ctx, pc)

	n, err := p.notifications.GetByID(ctx, job.NotificationID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			logger.Warn("notification not found, dropping job", "notification_id", job.NotificationID)
			return nil
		}
		return err
	}
	if n.Status != model.NotificationQueued {
		logger.Info("notification no longer queued", "notification_id", n.ID, "status", n.Status)
		return p.idempotency.MarkProcessed(ctx, pc)
	}

	logger.Info("sending notification", "notification_id", n.ID, "phone", n.Phone, "attempts", msg.Attempts)

	if _, sendErr := p.sender.Send(ctx, n.Phone, n.Content); sendErr != nil {
		prom.IncNotification(string(model.NotificationFailed))
		if err := p.notifications.MarkFailed(ctx, n.ID, sendErr.Error()); err != nil {
			logger.Error("failed to mark notification failed", "notification_id", n.ID, "error", err)
		}
		if err := p.idempotency.MarkProcessed(ctx, pc); err != nil {
			logger.Error("failed to mark notification processed", "notification_id", n.ID, "error", err)
		}
		return nil
	}

	prom.IncNotification(string(model.NotificationSent))
	if err := p.notifications.MarkSent(ctx, n.ID, time.Now()); err != nil {
		logger.Error("failed to mark notification sent", "notification_id", n.ID, "error", err)
	}
	if err := p.idempotency.MarkProcessed(ctx, pc); err != nil {
		logger.Error("failed to mark notification processed", "notification_id", n.ID, "error", err)
	}
	return nil
}
