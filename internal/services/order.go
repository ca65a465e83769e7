package service

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/aaravmahajanofficial/buyme/internal/api/middleware"
	appErrors "github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/events"
	"github.com/aaravmahajanofficial/buyme/internal/metrics"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
	"github.com/aaravmahajanofficial/buyme/internal/tracing"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, buyer *models.Claims, req *models.PlaceOrderRequest) (*models.Order, error)
	GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Order, int, error)
	UpdateOrderState(ctx context.Context, userID, orderID uuid.UUID, state models.OrderState) (*models.Order, error)
}

type orderService struct {
	orders        repository.OrderRepository
	baskets       repository.BasketRepository
	contacts      repository.ContactRepository
	catalog       CatalogService
	notifications NotificationService
	events        events.Publisher
}

func NewOrderService(
	orders repository.OrderRepository,
	baskets repository.BasketRepository,
	contacts repository.ContactRepository,
	catalog CatalogService,
	notifications NotificationService,
	publisher events.Publisher,
) OrderService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &orderService{
		orders:        orders,
		baskets:       baskets,
		contacts:      contacts,
		catalog:       catalog,
		notifications: notifications,
		events:        publisher,
	}
}

// PlaceOrder converts the buyer's basket into an order. Stock for every item
// is reserved in the same transaction that empties the basket, so either the
// whole order is placed or nothing changes.
func (s *orderService) PlaceOrder(ctx context.Context, buyer *models.Claims, req *models.PlaceOrderRequest) (*models.Order, error) {
	ctx, span := tracing.Tracer().Start(ctx, "OrderService.PlaceOrder", trace.WithAttributes(
		attribute.String("user.id", buyer.UserID.String()),
	))
	defer span.End()

	contact, err := s.contacts.GetContactByID(ctx, req.ContactID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Contact not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to get contact").WithError(err)
	}

	if contact.UserID != buyer.UserID {
		return nil, appErrors.NotFoundError("Contact not found")
	}

	var order *models.Order

	err = s.baskets.WithinBasketTx(ctx, buyer.UserID, func(ctx context.Context, tx repository.BasketTx, basket *models.Basket) error {
		if basket.IsEmpty() {
			return appErrors.BadRequestError("Basket is empty")
		}

		order = models.NewOrder(buyer.UserID, contact.ID)

		// listing rows are locked in id order so concurrent orders over the
		// same listings cannot deadlock
		items := slices.Clone(basket.Items)
		slices.SortFunc(items, func(a, b models.BasketItem) int {
			return cmp.Compare(a.ListingID, b.ListingID)
		})

		for _, item := range items {
			price, err := tx.ReserveStock(ctx, item.ListingID, item.Quantity)
			if err != nil {
				if errors.Is(err, models.ErrStockExceeded) {
					return appErrors.StockExceededError("Requested quantity exceeds available stock").
						WithDetail(fmt.Sprintf("listing %d cannot supply %d units", item.ListingID, item.Quantity)).
						WithError(err)
				}

				return appErrors.DatabaseError("Failed to reserve stock").WithError(err)
			}

			order.AddItem(item.ListingID, item.Quantity, price)
		}

		if err := tx.CreateOrder(ctx, order); err != nil {
			return appErrors.DatabaseError("Failed to create order").WithError(err)
		}

		if err := tx.ClearBasket(ctx, basket.ID); err != nil {
			return appErrors.DatabaseError("Failed to clear basket").WithError(err)
		}

		basket.Clear()

		if err := tx.SaveBasket(ctx, basket); err != nil {
			return appErrors.DatabaseError("Failed to update basket").WithError(err)
		}

		return nil
	})
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		return nil, basketError(err)
	}

	span.SetAttributes(attribute.String("order.id", order.ID.String()))
	metrics.ObserveOrderPlaced()

	s.afterPlaced(ctx, buyer, order)

	return order, nil
}

// afterPlaced runs the best effort side effects of a committed order.
func (s *orderService) afterPlaced(ctx context.Context, buyer *models.Claims, order *models.Order) {
	logger := middleware.LoggerFromContext(ctx).With(slog.String("orderId", order.ID.String()))

	s.catalog.InvalidateListings(ctx, orderListingIDs(order)...)

	event := models.OrderPlacedEvent{
		OrderID:     order.ID,
		UserID:      order.UserID,
		TotalAmount: order.TotalAmount,
		Items:       order.Items,
	}

	if err := s.events.Publish(ctx, events.RoutingOrderPlaced, event); err != nil {
		logger.Warn("Failed to publish order event", slog.Any("error", err))
	}

	if buyer.Email == "" {
		return
	}

	_, err := s.notifications.SendEmail(ctx, &models.EmailNotificationRequest{
		To:      buyer.Email,
		Subject: "Your Buy me order " + order.ID.String(),
		Content: orderSummary(order),
		Metadata: map[string]string{
			"order_id": order.ID.String(),
		},
	})
	if err != nil {
		logger.Warn("Failed to send order confirmation", slog.Any("error", err))
	}
}

func (s *orderService) GetOrder(ctx context.Context, userID, orderID uuid.UUID) (*models.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to get order").WithError(err)
	}

	if order.UserID != userID {
		return nil, appErrors.ForbiddenError("You do not have permission to view this order")
	}

	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, userID uuid.UUID, page, pageSize int) ([]*models.Order, int, error) {
	orders, total, err := s.orders.ListOrdersByUser(ctx, userID, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch orders").WithError(err)
	}

	return orders, total, nil
}

// UpdateOrderState moves an order along its lifecycle. The buyer may only
// cancel; every other move belongs to a seller of the order's listings.
func (s *orderService) UpdateOrderState(ctx context.Context, userID, orderID uuid.UUID, state models.OrderState) (*models.Order, error) {
	order, err := s.orders.GetOrderByID(ctx, orderID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Order not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to get order").WithError(err)
	}

	if err := s.authorizeStateChange(ctx, userID, order, state); err != nil {
		return nil, err
	}

	if !order.State.CanTransitionTo(state) {
		return nil, appErrors.BadRequestError(fmt.Sprintf("Order cannot move from %s to %s", order.State, state))
	}

	if err := s.orders.UpdateOrderState(ctx, orderID, order.State, state); err != nil {
		if errors.Is(err, repository.ErrStateConflict) {
			return nil, appErrors.ConflictError("Order state was changed by another request").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to update order state").WithError(err)
	}

	if state == models.OrderStateCanceled {
		s.catalog.InvalidateListings(ctx, orderListingIDs(order)...)
	}

	event := models.OrderStateChangedEvent{OrderID: order.ID, UserID: order.UserID, From: order.State, To: state}
	if err := s.events.Publish(ctx, events.RoutingOrderStateChanged, event); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to publish order state event", slog.Any("error", err))
	}

	order.State = state
	order.UpdatedAt = time.Now()

	return order, nil
}

func (s *orderService) authorizeStateChange(ctx context.Context, userID uuid.UUID, order *models.Order, state models.OrderState) error {
	buyer := order.UserID == userID
	if buyer && state == models.OrderStateCanceled {
		return nil
	}

	seller, err := s.orders.IsOrderSeller(ctx, order.ID, userID)
	if err != nil {
		return appErrors.DatabaseError("Failed to check order permissions").WithError(err)
	}

	if seller {
		return nil
	}

	if buyer {
		return appErrors.ForbiddenError(fmt.Sprintf("Only the shop can move an order to %s", state))
	}

	return appErrors.ForbiddenError("You do not have permission to update this order")
}

func orderListingIDs(order *models.Order) []int64 {
	ids := make([]int64, 0, len(order.Items))
	for _, item := range order.Items {
		ids = append(ids, item.ListingID)
	}

	return ids
}

func orderSummary(order *models.Order) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Thank you for your order %s.\n\n", order.ID)

	for _, item := range order.Items {
		fmt.Fprintf(&b, "Listing %d: %d x %s = %s\n", item.ListingID, item.Quantity, item.UnitPrice.StringFixed(2), item.LinePrice.StringFixed(2))
	}

	fmt.Fprintf(&b, "\nTotal: %s\n", order.TotalAmount.StringFixed(2))

	return b.String()
}
