package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type OrderRepository struct {
	mock.Mock
}

func NewOrderRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *OrderRepository {
	m := &OrderRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *OrderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, id)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error) {
	args := m.Called(ctx, userID, page, size)

	orders, _ := args.Get(0).([]*models.Order)

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderRepository) UpdateOrderState(ctx context.Context, id uuid.UUID, from, to models.OrderState) error {
	args := m.Called(ctx, id, from, to)
	return args.Error(0)
}

func (m *OrderRepository) IsOrderSeller(ctx context.Context, orderID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, orderID, userID)
	return args.Bool(0), args.Error(1)
}

type ContactRepository struct {
	mock.Mock
}

func NewContactRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *ContactRepository {
	m := &ContactRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *ContactRepository) CreateContact(ctx context.Context, contact *models.Contact) error {
	args := m.Called(ctx, contact)
	return args.Error(0)
}

func (m *ContactRepository) GetContactByID(ctx context.Context, id uuid.UUID) (*models.Contact, error) {
	args := m.Called(ctx, id)

	contact, _ := args.Get(0).(*models.Contact)

	return contact, args.Error(1)
}

func (m *ContactRepository) ListContactsByUser(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	args := m.Called(ctx, userID)

	contacts, _ := args.Get(0).([]*models.Contact)

	return contacts, args.Error(1)
}
