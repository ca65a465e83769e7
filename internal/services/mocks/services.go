package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type testingT interface {
	mock.TestingT
	Cleanup(func())
}

type BasketService struct {
	mock.Mock
}

func NewBasketService(t testingT) *BasketService {
	m := &BasketService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *BasketService) GetBasket(ctx context.Context, userID uuid.UUID) (*models.Basket, error) {
	args := m.Called(ctx, userID)

	basket, _ := args.Get(0).(*models.Basket)

	return basket, args.Error(1)
}

func (m *BasketService) AddOrIncrease(ctx context.Context, userID uuid.UUID, req *models.AddBasketItemRequest) (*models.BasketChange, error) {
	args := m.Called(ctx, userID, req)

	change, _ := args.Get(0).(*models.BasketChange)

	return change, args.Error(1)
}

func (m *BasketService) Decrease(ctx context.Context, userID uuid.UUID, listingID int64, n int) (*models.BasketChange, error) {
	args := m.Called(ctx, userID, listingID, n)

	change, _ := args.Get(0).(*models.BasketChange)

	return change, args.Error(1)
}

func (m *BasketService) RemoveItem(ctx context.Context, userID uuid.UUID, listingID int64) (*models.BasketChange, error) {
	args := m.Called(ctx, userID, listingID)

	change, _ := args.Get(0).(*models.BasketChange)

	return change, args.Error(1)
}

type CatalogService struct {
	mock.Mock
}

func NewCatalogService(t testingT) *CatalogService {
	m := &CatalogService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *CatalogService) ListShops(ctx context.Context, page, pageSize int) ([]*models.Shop, int, error) {
	args := m.Called(ctx, page, pageSize)

	shops, _ := args.Get(0).([]*models.Shop)

	return shops, args.Int(1), args.Error(2)
}

func (m *CatalogService) GetShop(ctx context.Context, id int64) (*models.Shop, error) {
	args := m.Called(ctx, id)

	shop, _ := args.Get(0).(*models.Shop)

	return shop, args.Error(1)
}

func (m *CatalogService) ListListings(ctx context.Context, filter models.ListingFilter, page, pageSize int) ([]*models.ProductListing, int, error) {
	args := m.Called(ctx, filter, page, pageSize)

	listings, _ := args.Get(0).([]*models.ProductListing)

	return listings, args.Int(1), args.Error(2)
}

func (m *CatalogService) GetListing(ctx context.Context, id int64) (*models.ProductListing, error) {
	args := m.Called(ctx, id)

	listing, _ := args.Get(0).(*models.ProductListing)

	return listing, args.Error(1)
}

func (m *CatalogService) InvalidateListings(ctx context.Context, ids ...int64) {
	m.Called(ctx, ids)
}

type ContactService struct {
	mock.Mock
}

func NewContactService(t testingT) *ContactService {
	m := &ContactService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *ContactService) CreateContact(ctx context.Context, userID uuid.UUID, req *models.CreateContactRequest) (*models.Contact, error) {
	args := m.Called(ctx, userID, req)

	contact, _ := args.Get(0).(*models.Contact)

	return contact, args.Error(1)
}

func (m *ContactService) ListContacts(ctx context.Context, userID uuid.UUID) ([]*models.Contact, error) {
	args := m.Called(ctx, userID)

	contacts, _ := args.Get(0).([]*models.Contact)

	return contacts, args.Error(1)
}

type OrderService struct {
	mock.Mock
}

func NewOrderService(t testingT) *OrderService {
	m := &OrderService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *OrderService) PlaceOrder(ctx context.Context, buyer *models.Claims, req *models.PlaceOrderRequest) (*models.Order, error) {
	args := m.Called(ctx, buyer, req)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

func (m *OrderService) ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Order, int, error) {
	args := m.Called(ctx, userID, page, pageSize)

	orders, _ := args.Get(0).([]*models.Order)

	return orders, args.Int(1), args.Error(2)
}

func (m *OrderService) UpdateOrderState(ctx context.Context, userID, orderID uuid.UUID, state models.OrderState) (*models.Order, error) {
	args := m.Called(ctx, userID, orderID, state)

	order, _ := args.Get(0).(*models.Order)

	return order, args.Error(1)
}

type UserService struct {
	mock.Mock
}

func NewUserService(t testingT) *UserService {
	m := &UserService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *UserService) Register(ctx context.Context, req *models.RegisterRequest) (*models.User, error) {
	args := m.Called(ctx, req)

	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *UserService) Login(ctx context.Context, req *models.LoginRequest) (*models.LoginResponse, error) {
	args := m.Called(ctx, req)

	resp, _ := args.Get(0).(*models.LoginResponse)

	return resp, args.Error(1)
}

func (m *UserService) GetUserByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	args := m.Called(ctx, id)

	user, _ := args.Get(0).(*models.User)

	return user, args.Error(1)
}

func (m *UserService) RefreshToken(ctx context.Context, claims *models.Claims) (*models.TokenResponse, error) {
	args := m.Called(ctx, claims)

	resp, _ := args.Get(0).(*models.TokenResponse)

	return resp, args.Error(1)
}

func (m *UserService) VerifyToken(ctx context.Context, token string) *models.TokenVerification {
	args := m.Called(ctx, token)

	verification, _ := args.Get(0).(*models.TokenVerification)

	return verification
}

type NotificationService struct {
	mock.Mock
}

func NewNotificationService(t testingT) *NotificationService {
	m := &NotificationService{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *NotificationService) SendEmail(ctx context.Context, req *models.EmailNotificationRequest) (*models.NotificationResponse, error) {
	args := m.Called(ctx, req)

	resp, _ := args.Get(0).(*models.NotificationResponse)

	return resp, args.Error(1)
}

func (m *NotificationService) ListNotifications(ctx context.Context, recipient string, page, pageSize int) ([]*models.Notification, int, error) {
	args := m.Called(ctx, recipient, page, pageSize)

	notifications, _ := args.Get(0).([]*models.Notification)

	return notifications, args.Int(1), args.Error(2)
}
