package repository_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNotificationRepository(t *testing.T) {
	ctx := context.Background()

	t.Run("CreateNotification_Success", func(t *testing.T) {
		// Arrange
		repo, mock := newMockDB(t)
		now := time.Now()
		notification := &models.Notification{
			ID:        uuid.New(),
			Type:      models.NotificationTypeEmail,
			Recipient: "buyer@example.com",
			Subject:   "Order placed",
			Content:   "Thanks",
			Status:    models.StatusPending,
			Metadata:  json.RawMessage(`{"order_id":"1"}`),
		}

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notifications")).
			WithArgs(notification.ID, models.NotificationTypeEmail, "buyer@example.com", "Order placed", "Thanks",
				models.StatusPending, "", sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"created_at", "updated_at"}).AddRow(now, now))

		// Act
		err := repo.Notification.CreateNotification(ctx, notification)

		// Assert
		require.NoError(t, err)
		assert.WithinDuration(t, now, notification.CreatedAt, time.Second)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("CreateNotification_Error", func(t *testing.T) {
		repo, mock := newMockDB(t)
		dbErr := errors.New("insert failed")

		mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO notifications")).WillReturnError(dbErr)

		err := repo.Notification.CreateNotification(ctx, &models.Notification{ID: uuid.New()})

		require.ErrorIs(t, err, dbErr)
	})

	t.Run("UpdateNotificationStatus_Success", func(t *testing.T) {
		repo, mock := newMockDB(t)
		id := uuid.New()

		mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications SET status = $1, error_message = $2, updated_at = $3 WHERE id = $4")).
			WithArgs(models.StatusFailed, "bounced", sqlmock.AnyArg(), id).
			WillReturnResult(sqlmock.NewResult(0, 1))

		require.NoError(t, repo.Notification.UpdateNotificationStatus(ctx, id, models.StatusFailed, "bounced"))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("UpdateNotificationStatus_NotFound", func(t *testing.T) {
		repo, mock := newMockDB(t)

		mock.ExpectExec(regexp.QuoteMeta("UPDATE notifications")).
			WillReturnResult(sqlmock.NewResult(0, 0))

		err := repo.Notification.UpdateNotificationStatus(ctx, uuid.New(), models.StatusSent, "")

		require.ErrorIs(t, err, repository.ErrNotFound)
	})

	t.Run("ListNotificationsByRecipient", func(t *testing.T) {
		repo, mock := newMockDB(t)
		now := time.Now()

		mock.ExpectQuery(regexp.QuoteMeta("SELECT COUNT(*) FROM notifications WHERE recipient = $1")).
			WithArgs("buyer@example.com").
			WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
		mock.ExpectQuery(regexp.QuoteMeta("WHERE recipient = $1 ORDER BY created_at DESC LIMIT $2 OFFSET $3")).
			WithArgs("buyer@example.com", 20, 20).
			WillReturnRows(sqlmock.NewRows([]string{"id", "type", "recipient", "subject", "content", "status", "error_message", "metadata", "created_at", "updated_at"}).
				AddRow(uuid.NewString(), "email", "buyer@example.com", "Order placed", "Thanks", "sent", nil, []byte(`{"order_id":"1"}`), now, now))

		notifications, total, err := repo.Notification.ListNotificationsByRecipient(ctx, "buyer@example.com", 2, 20)

		require.NoError(t, err)
		assert.Equal(t, 1, total)
		require.Len(t, notifications, 1)
		assert.Equal(t, models.StatusSent, notifications[0].Status)
		assert.Empty(t, notifications[0].ErrorMessage)
		assert.JSONEq(t, `{"order_id":"1"}`, string(notifications[0].Metadata))
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
