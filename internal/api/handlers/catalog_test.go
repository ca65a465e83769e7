package handlers_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/aaravmahajanofficial/buyme/internal/api/handlers"
	appErrors "github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/aaravmahajanofficial/buyme/internal/services/mocks"
	"github.com/aaravmahajanofficial/buyme/internal/testutils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestCatalogHandler_ListShops(t *testing.T) {
	catalogService := mocks.NewCatalogService(t)
	handler := handlers.NewCatalogHandler(catalogService)

	shops := []*models.Shop{{ID: 1, Name: "Electronics Hub", AcceptingOrders: true}}
	catalogService.On("ListShops", mock.Anything, 2, 5).Return(shops, 6, nil).Once()

	req := testutils.CreateTestRequestWithContext(http.MethodGet, "/shops?page=2&pageSize=5", nil, uuid.New(), nil)
	rr := httptest.NewRecorder()

	handler.ListShops().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var page models.PaginatedResponse
	decodeResponse(t, rr, &page)
	assert.Equal(t, 6, page.Total)
	assert.Equal(t, 2, page.Page)
	assert.Equal(t, 5, page.PageSize)
}

func TestCatalogHandler_GetShop(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		catalogService := mocks.NewCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		shop := &models.Shop{ID: 3, Name: "Books", Categories: []models.Category{{ID: 1, Name: "Fiction"}}}
		catalogService.On("GetShop", mock.Anything, int64(3)).Return(shop, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/shops/3", nil, uuid.New(), map[string]string{"id": "3"})
		rr := httptest.NewRecorder()

		handler.GetShop().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.Shop
		decodeResponse(t, rr, &got)
		assert.Equal(t, "Books", got.Name)
		assert.Len(t, got.Categories, 1)
	})

	t.Run("Failure - Not Found", func(t *testing.T) {
		catalogService := mocks.NewCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		catalogService.On("GetShop", mock.Anything, int64(4)).Return(nil, appErrors.NotFoundError("Shop not found")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/shops/4", nil, uuid.New(), map[string]string{"id": "4"})
		rr := httptest.NewRecorder()

		handler.GetShop().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusNotFound, rr.Code)
	})

	t.Run("Failure - Invalid Id", func(t *testing.T) {
		handler := handlers.NewCatalogHandler(mocks.NewCatalogService(t))

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/shops/-1", nil, uuid.New(), map[string]string{"id": "-1"})
		rr := httptest.NewRecorder()

		handler.GetShop().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestCatalogHandler_ListListings(t *testing.T) {
	t.Run("Success - Shop Filter", func(t *testing.T) {
		catalogService := mocks.NewCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		listings := []*models.ProductListing{{ID: 7, ShopID: 1, Price: decimal.NewFromInt(100)}}
		catalogService.On("ListListings", mock.Anything, mock.MatchedBy(func(f models.ListingFilter) bool {
			return f.ShopID != nil && *f.ShopID == 1
		}), 1, 10).Return(listings, 1, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/listings?shopId=1", nil, uuid.New(), nil)
		rr := httptest.NewRecorder()

		handler.ListListings().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Success - No Filter", func(t *testing.T) {
		catalogService := mocks.NewCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		catalogService.On("ListListings", mock.Anything, models.ListingFilter{}, 1, 10).
			Return([]*models.ProductListing{}, 0, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/listings", nil, uuid.New(), nil)
		rr := httptest.NewRecorder()

		handler.ListListings().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Bad Shop Filter", func(t *testing.T) {
		catalogService := mocks.NewCatalogService(t)
		handler := handlers.NewCatalogHandler(catalogService)

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/listings?shopId=abc", nil, uuid.New(), nil)
		rr := httptest.NewRecorder()

		handler.ListListings().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		catalogService.AssertNotCalled(t, "ListListings", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestCatalogHandler_GetListing(t *testing.T) {
	catalogService := mocks.NewCatalogService(t)
	handler := handlers.NewCatalogHandler(catalogService)

	listing := &models.ProductListing{ID: 7, Name: "Phone X", Quantity: 5, Price: decimal.RequireFromString("199.99")}
	catalogService.On("GetListing", mock.Anything, int64(7)).Return(listing, nil).Once()

	req := testutils.CreateTestRequestWithContext(http.MethodGet, "/listings/7", nil, uuid.New(), map[string]string{"id": "7"})
	rr := httptest.NewRecorder()

	handler.GetListing().ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)

	var got models.ProductListing
	decodeResponse(t, rr, &got)
	assert.True(t, listing.Price.Equal(got.Price))
	assert.Equal(t, 5, got.Quantity)
}
