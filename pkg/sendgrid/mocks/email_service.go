package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	sg "github.com/sendgrid/sendgrid-go"
	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func NewEmailService(t interface {
	mock.TestingT
	Cleanup(func())
}) *EmailService {
	m := &EmailService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *EmailService) Send(ctx context.Context, req *models.EmailNotificationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *EmailService) GetSendGridClient() *sg.Client {
	args := m.Called()

	client, _ := args.Get(0).(*sg.Client)

	return client
}
