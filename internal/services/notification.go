package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/aaravmahajanofficial/buyme/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
	"github.com/aaravmahajanofficial/buyme/pkg/sendgrid"
	"github.com/google/uuid"
)

type NotificationService interface {
	SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error)
	ListNotifications(ctx context.Context, recipient string, page, pageSize int) ([]*models.Notification, int, error)
}

type notificationService struct {
	repo         repository.NotificationRepository
	emailService sendgrid.EmailService
}

func NewNotificationService(repo repository.NotificationRepository, emailService sendgrid.EmailService) NotificationService {
	return &notificationService{repo: repo, emailService: emailService}
}

// SendEmail records the notification as pending, sends it and stores the outcome.
func (n *notificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error) {
	logger := middleware.LoggerFromContext(ctx)

	var metadata json.RawMessage

	if req.Metadata != nil {
		raw, err := json.Marshal(req.Metadata)
		if err != nil {
			return nil, appErrors.BadRequestError("Invalid notification metadata").WithError(err)
		}

		metadata = raw
	}

	now := time.Now()
	notification := &models.Notification{
		ID:        uuid.New(),
		Type:      models.NotificationTypeEmail,
		Recipient: req.To,
		Subject:   req.Subject,
		Content:   req.Content,
		Status:    models.StatusPending,
		Metadata:  metadata,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := n.repo.CreateNotification(ctx, notification); err != nil {
		return nil, appErrors.DatabaseError("Failed to create notification record").WithError(err)
	}

	if err := n.emailService.Send(ctx, req); err != nil {
		if updateErr := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusFailed, err.Error()); updateErr != nil {
			logger.Error("Failed to mark notification as failed",
				slog.String("notificationId", notification.ID.String()), slog.Any("error", updateErr))
		}

		return nil, appErrors.ThirdPartyError("Failed to send email").WithError(err)
	}

	notification.Status = models.StatusSent

	if err := n.repo.UpdateNotificationStatus(ctx, notification.ID, models.StatusSent, ""); err != nil {
		return nil, appErrors.DatabaseError("Email sent but notification status was not updated").WithError(err)
	}

	return &models.NotificationResponse{
		ID:        notification.ID,
		Type:      notification.Type,
		Status:    notification.Status,
		Recipient: notification.Recipient,
		CreatedAt: notification.CreatedAt,
	}, nil
}

func (n *notificationService) ListNotifications(ctx context.Context, recipient string, page, pageSize int) ([]*models.Notification, int, error) {
	notifications, total, err := n.repo.ListNotificationsByRecipient(ctx, recipient, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch notifications").WithError(err)
	}

	return notifications, total, nil
}
