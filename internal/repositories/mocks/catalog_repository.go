package mocks

import (
	"context"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/stretchr/testify/mock"
)

type CatalogRepository struct {
	mock.Mock
}

func NewCatalogRepository(t interface {
	mock.TestingT
	Cleanup(func())
}) *CatalogRepository {
	m := &CatalogRepository{}
	m.Test(t)
	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}

func (m *CatalogRepository) ListShops(ctx context.Context, page, size int) ([]*models.Shop, int, error) {
	args := m.Called(ctx, page, size)

	shops, _ := args.Get(0).([]*models.Shop)

	return shops, args.Int(1), args.Error(2)
}

func (m *CatalogRepository) GetShopByID(ctx context.Context, id int64) (*models.Shop, error) {
	args := m.Called(ctx, id)

	shop, _ := args.Get(0).(*models.Shop)

	return shop, args.Error(1)
}

func (m *CatalogRepository) GetListingByID(ctx context.Context, id int64) (*models.ProductListing, error) {
	args := m.Called(ctx, id)

	listing, _ := args.Get(0).(*models.ProductListing)

	return listing, args.Error(1)
}

func (m *CatalogRepository) ListListings(ctx context.Context, filter models.ListingFilter, page, size int) ([]*models.ProductListing, int, error) {
	args := m.Called(ctx, filter, page, size)

	listings, _ := args.Get(0).([]*models.ProductListing)

	return listings, args.Int(1), args.Error(2)
}
