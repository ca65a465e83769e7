package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/aaravmahajanofficial/buyme/internal/utils"
	"github.com/google/uuid"
)

type NotificationRepository interface {
	CreateNotification(ctx context.Context, notification *models.Notification) error
	UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error
	ListNotificationsByRecipient(ctx context.Context, recipient string, page, size int) ([]*models.Notification, int, error)
}

type notificationRepository struct {
	DB *sql.DB
}

func NewNotificationRepo(db *sql.DB) NotificationRepository {
	return &notificationRepository{DB: db}
}

func (r *notificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		INSERT INTO notifications (id, type, recipient, subject, content, status, error_message, metadata, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, NOW(), NOW())
		RETURNING created_at, updated_at`

	var metadata []byte
	if len(notification.Metadata) > 0 {
		metadata = notification.Metadata
	}

	err := r.DB.QueryRowContext(dbCtx, query, notification.ID, notification.Type, notification.Recipient, notification.Subject,
		notification.Content, notification.Status, notification.ErrorMessage, metadata).Scan(&notification.CreatedAt, &notification.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting notification: %w", err)
	}

	return nil
}

func (r *notificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `UPDATE notifications SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4`

	result, err := r.DB.ExecContext(dbCtx, query, status, errorMsg, time.Now(), id)
	if err != nil {
		return fmt.Errorf("updating notification status: %w", err)
	}

	return expectAffected(result)
}

func (r *notificationRepository) ListNotificationsByRecipient(ctx context.Context, recipient string, page, size int) ([]*models.Notification, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM notifications WHERE recipient = $1`, recipient).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting notifications: %w", err)
	}

	query := `
		SELECT id, type, recipient, subject, content, status, error_message, metadata, created_at, updated_at
		FROM notifications
		WHERE recipient = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, recipient, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("querying notifications: %w", err)
	}
	defer rows.Close()

	notifications := []*models.Notification{}

	for rows.Next() {
		notification := &models.Notification{}

		var (
			errorMsg sql.NullString
			metadata []byte
		)

		err := rows.Scan(&notification.ID, &notification.Type, &notification.Recipient, &notification.Subject, &notification.Content,
			&notification.Status, &errorMsg, &metadata, &notification.CreatedAt, &notification.UpdatedAt)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning notification: %w", err)
		}

		notification.ErrorMessage = errorMsg.String
		if len(metadata) > 0 {
			notification.Metadata = metadata
		}

		notifications = append(notifications, notification)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("iterating notifications: %w", err)
	}

	return notifications, total, nil
}
