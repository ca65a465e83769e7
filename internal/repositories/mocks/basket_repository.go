package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
)

type BasketRepository struct {
	mock.Mock
}

func NewBasketRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *BasketRepository {
	m := &BasketRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *BasketRepository) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*models.Basket, error) {
	args := m.Called(ctx, userID)

	basket, _ := args.Get(0).(*models.Basket)

	return basket, args.Error(1)
}

// WithinBasketTx returns the third configured value as the transaction error
// when set. Otherwise fn runs against the configured BasketTx and basket.
func (m *BasketRepository) WithinBasketTx(ctx context.Context, userID uuid.UUID, fn repository.BasketTxFunc) error {
	args := m.Called(ctx, userID, fn)

	if err := args.Error(2); err != nil {
		return err
	}

	tx, _ := args.Get(0).(repository.BasketTx)
	basket, _ := args.Get(1).(*models.Basket)

	return fn(ctx, tx, basket)
}

type BasketTx struct {
	mock.Mock
}

func NewBasketTx(t interface {
	mock.TestingT
	Cleanup(func())
}) *BasketTx {
	m := &BasketTx{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *BasketTx) GetListing(ctx context.Context, listingID int64) (*models.ProductListing, error) {
	args := m.Called(ctx, listingID)

	listing, _ := args.Get(0).(*models.ProductListing)

	return listing, args.Error(1)
}

func (m *BasketTx) CreateItem(ctx context.Context, basketID uuid.UUID, item *models.BasketItem) error {
	args := m.Called(ctx, basketID, item)
	return args.Error(0)
}

func (m *BasketTx) UpdateItem(ctx context.Context, item *models.BasketItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *BasketTx) DeleteItem(ctx context.Context, basketID, itemID uuid.UUID) error {
	args := m.Called(ctx, basketID, itemID)
	return args.Error(0)
}

func (m *BasketTx) SaveBasket(ctx context.Context, basket *models.Basket) error {
	args := m.Called(ctx, basket)
	return args.Error(0)
}

func (m *BasketTx) ReserveStock(ctx context.Context, listingID int64, quantity int) (decimal.Decimal, error) {
	args := m.Called(ctx, listingID, quantity)

	price, _ := args.Get(0).(decimal.Decimal)

	return price, args.Error(1)
}

func (m *BasketTx) CreateOrder(ctx context.Context, order *models.Order) error {
	args := m.Called(ctx, order)
	return args.Error(0)
}

func (m *BasketTx) ClearBasket(ctx context.Context, basketID uuid.UUID) error {
	args := m.Called(ctx, basketID)
	return args.Error(0)
}
