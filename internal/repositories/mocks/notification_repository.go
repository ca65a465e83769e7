package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type NotificationRepository struct {
	mock.Mock
}

func NewNotificationRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *NotificationRepository {
	m := &NotificationRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *NotificationRepository) CreateNotification(ctx context.Context, notification *models.Notification) error {
	args := m.Called(ctx, notification)
	return args.Error(0)
}

func (m *NotificationRepository) UpdateNotificationStatus(ctx context.Context, id uuid.UUID, status models.NotificationStatus, errorMsg string) error {
	args := m.Called(ctx, id, status, errorMsg)
	return args.Error(0)
}

func (m *NotificationRepository) ListNotificationsByRecipient(ctx context.Context, recipient string, page, size int) ([]*models.Notification, int, error) {
	args := m.Called(ctx, recipient, page, size)

	notifications, _ := args.Get(0).([]*models.Notification)

	return notifications, args.Int(1), args.Error(2)
}
