package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
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

func TestOrderHandler_PlaceOrder(t *testing.T) {
	userID := uuid.New()
	contactID := uuid.New()

	t.Run("Success - Order Placed", func(t *testing.T) {
		// Arrange
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		expected := models.NewOrder(userID, contactID)
		expected.AddItem(7, 2, decimal.NewFromInt(150))

		orderService.On("PlaceOrder", mock.Anything, mock.MatchedBy(func(c *models.Claims) bool {
			return c.UserID == userID && c.Email == "test@example.com"
		}), &models.PlaceOrderRequest{ContactID: contactID}).Return(expected, nil).Once()

		body := mustJSON(t, models.PlaceOrderRequest{ContactID: contactID})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/orders", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		// Act
		handler.PlaceOrder().ServeHTTP(rr, req)

		// Assert
		assert.Equal(t, http.StatusCreated, rr.Code)

		var got models.Order
		resp := decodeResponse(t, rr, &got)
		assert.True(t, resp.Success)
		assert.Equal(t, expected.ID, got.ID)
		assert.Equal(t, models.OrderStateNew, got.State)
		assert.True(t, decimal.NewFromInt(300).Equal(got.TotalAmount))
	})

	t.Run("Failure - Empty Basket", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		orderService.On("PlaceOrder", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, appErrors.BadRequestError("Basket is empty")).Once()

		body := mustJSON(t, models.PlaceOrderRequest{ContactID: contactID})
		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/orders", bytes.NewReader(body), userID, nil)
		rr := httptest.NewRecorder()

		handler.PlaceOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, "Basket is empty", decodeResponse(t, rr, nil).Error.Message)
	})

	t.Run("Failure - Missing Contact", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		req := testutils.CreateTestRequestWithContext(http.MethodPost, "/orders", strings.NewReader(`{}`), userID, nil)
		rr := httptest.NewRecorder()

		handler.PlaceOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		orderService.AssertNotCalled(t, "PlaceOrder", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("Failure - Unauthorized", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		body := mustJSON(t, models.PlaceOrderRequest{ContactID: contactID})
		req := testutils.CreateTestRequestWithoutContext(http.MethodPost, "/orders", bytes.NewReader(body), nil)
		rr := httptest.NewRecorder()

		handler.PlaceOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
	})
}

func TestOrderHandler_GetOrder(t *testing.T) {
	userID := uuid.New()

	t.Run("Success", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		order := models.NewOrder(userID, uuid.New())
		orderService.On("GetOrder", mock.Anything, userID, order.ID).Return(order, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/"+order.ID.String(), nil, userID,
			map[string]string{"id": order.ID.String()})
		rr := httptest.NewRecorder()

		handler.GetOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)
	})

	t.Run("Failure - Forbidden", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)
		orderID := uuid.New()

		orderService.On("GetOrder", mock.Anything, userID, orderID).
			Return(nil, appErrors.ForbiddenError("You do not have permission to view this order")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/"+orderID.String(), nil, userID,
			map[string]string{"id": orderID.String()})
		rr := httptest.NewRecorder()

		handler.GetOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
	})

	t.Run("Failure - Invalid Id", func(t *testing.T) {
		handler := handlers.NewOrderHandler(mocks.NewOrderService(t))

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders/not-a-uuid", nil, userID,
			map[string]string{"id": "not-a-uuid"})
		rr := httptest.NewRecorder()

		handler.GetOrder().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestOrderHandler_ListOrders(t *testing.T) {
	userID := uuid.New()

	t.Run("Success - Default Pagination", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		orders := []*models.Order{models.NewOrder(userID, uuid.New())}
		orderService.On("ListOrders", mock.Anything, userID, 1, 10).Return(orders, 1, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders?pageSize=1000", nil, userID, nil)
		rr := httptest.NewRecorder()

		handler.ListOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var page models.PaginatedResponse
		decodeResponse(t, rr, &page)
		assert.Equal(t, 1, page.Total)
		assert.Equal(t, 10, page.PageSize)
	})

	t.Run("Failure - Service Error", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		orderService.On("ListOrders", mock.Anything, userID, 3, 20).
			Return(nil, 0, appErrors.DatabaseError("Failed to fetch orders")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodGet, "/orders?page=3&pageSize=20", nil, userID, nil)
		rr := httptest.NewRecorder()

		handler.ListOrders().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusInternalServerError, rr.Code)
	})
}

func TestOrderHandler_UpdateOrderState(t *testing.T) {
	userID := uuid.New()
	orderID := uuid.New()
	pathParams := map[string]string{"id": orderID.String()}

	t.Run("Success", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		order := models.NewOrder(userID, uuid.New())
		order.ID = orderID
		order.State = models.OrderStateConfirmed

		orderService.On("UpdateOrderState", mock.Anything, userID, orderID, models.OrderStateConfirmed).Return(order, nil).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/orders/"+orderID.String()+"/state",
			strings.NewReader(`{"state": "confirmed"}`), userID, pathParams)
		rr := httptest.NewRecorder()

		handler.UpdateOrderState().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusOK, rr.Code)

		var got models.Order
		decodeResponse(t, rr, &got)
		assert.Equal(t, models.OrderStateConfirmed, got.State)
	})

	t.Run("Failure - Unknown State", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/orders/"+orderID.String()+"/state",
			strings.NewReader(`{"state": "lost"}`), userID, pathParams)
		rr := httptest.NewRecorder()

		handler.UpdateOrderState().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
		assert.Equal(t, appErrors.ErrCodeValidation, decodeResponse(t, rr, nil).Error.Code)
	})

	t.Run("Failure - Illegal Transition", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		orderService.On("UpdateOrderState", mock.Anything, userID, orderID, models.OrderStateCanceled).
			Return(nil, appErrors.BadRequestError("Order cannot move from delivered to canceled")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/orders/"+orderID.String()+"/state",
			strings.NewReader(`{"state": "canceled"}`), userID, pathParams)
		rr := httptest.NewRecorder()

		handler.UpdateOrderState().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("Failure - Concurrent Change", func(t *testing.T) {
		orderService := mocks.NewOrderService(t)
		handler := handlers.NewOrderHandler(orderService)

		orderService.On("UpdateOrderState", mock.Anything, userID, orderID, models.OrderStateSent).
			Return(nil, appErrors.ConflictError("Order state was changed by another request")).Once()

		req := testutils.CreateTestRequestWithContext(http.MethodPatch, "/orders/"+orderID.String()+"/state",
			strings.NewReader(`{"state": "sent"}`), userID, pathParams)
		rr := httptest.NewRecorder()

		handler.UpdateOrderState().ServeHTTP(rr, req)

		assert.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, appErrors.ErrCodeConflict, decodeResponse(t, rr, nil).Error.Code)
	})
}
