package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

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

type BasketService interface {
	GetBasket(ctx context.Context, userID uuid.UUID) (*models.Basket, error)
	AddOrIncrease(ctx context.Context, userID uuid.UUID, req *models.AddBasketItemRequest) (*models.BasketChange, error)
	Decrease(ctx context.Context, userID uuid.UUID, listingID int64, n int) (*models.BasketChange, error)
	RemoveItem(ctx context.Context, userID uuid.UUID, listingID int64) (*models.BasketChange, error)
}

type basketService struct {
	repo   repository.BasketRepository
	events events.Publisher
}

func NewBasketService(repo repository.BasketRepository, publisher events.Publisher) BasketService {
	if publisher == nil {
		publisher = events.NoopPublisher{}
	}

	return &basketService{repo: repo, events: publisher}
}

func (s *basketService) GetBasket(ctx context.Context, userID uuid.UUID) (*models.Basket, error) {
	basket, err := s.repo.GetOrCreateBasket(ctx, userID)
	if err != nil {
		return nil, appErrors.DatabaseError("Failed to get basket").WithError(err)
	}

	return basket, nil
}

// AddOrIncrease puts n units of the listing into the user's basket, creating
// the ledger item on first add. n defaults to 1.
func (s *basketService) AddOrIncrease(ctx context.Context, userID uuid.UUID, req *models.AddBasketItemRequest) (*models.BasketChange, error) {
	n := quantityOrOne(req.Quantity)

	ctx, span := tracing.Tracer().Start(ctx, "BasketService.AddOrIncrease", trace.WithAttributes(
		attribute.Int64("listing.id", req.ListingID),
		attribute.Int("basket.quantity", n),
	))
	defer span.End()

	var change *models.BasketChange

	err := s.repo.WithinBasketTx(ctx, userID, func(ctx context.Context, tx repository.BasketTx, basket *models.Basket) error {
		listing, err := loadListing(ctx, tx, req.ListingID)
		if err != nil {
			return err
		}

		if !listing.ShopAcceptsOrders {
			return appErrors.BadRequestError("Shop is not accepting orders")
		}

		item, exists := basket.Item(listing.ID)
		if !exists {
			item = models.NewBasketItem(userID, listing.ID)
		}

		if err := item.Increase(n, listing); err != nil {
			if errors.Is(err, models.ErrStockExceeded) {
				return appErrors.StockExceededError("Requested quantity exceeds available stock").
					WithDetail(stockDetail(listing, item.Quantity, n)).WithError(err)
			}

			return appErrors.BadRequestError("Basket item cannot be increased").WithError(err)
		}

		if exists {
			err = tx.UpdateItem(ctx, &item)
		} else {
			err = tx.CreateItem(ctx, basket.ID, &item)
		}

		if err != nil {
			return appErrors.DatabaseError("Failed to save basket item").WithError(err)
		}

		basket.Put(item)

		if err := tx.SaveBasket(ctx, basket); err != nil {
			return appErrors.DatabaseError("Failed to update basket").WithError(err)
		}

		change = &models.BasketChange{Item: &item, Basket: basket}

		return nil
	})

	s.observe(span, metrics.BasketOpAdd, err)

	if err != nil {
		return nil, basketError(err)
	}

	s.publish(ctx, change)

	return change, nil
}

// Decrease takes n units off the item for the listing. Going to zero or below
// removes the item from the basket.
func (s *basketService) Decrease(ctx context.Context, userID uuid.UUID, listingID int64, n int) (*models.BasketChange, error) {
	n = quantityOrOne(n)

	ctx, span := tracing.Tracer().Start(ctx, "BasketService.Decrease", trace.WithAttributes(
		attribute.Int64("listing.id", listingID),
		attribute.Int("basket.quantity", n),
	))
	defer span.End()

	var change *models.BasketChange

	err := s.repo.WithinBasketTx(ctx, userID, func(ctx context.Context, tx repository.BasketTx, basket *models.Basket) error {
		item, exists := basket.Item(listingID)
		if !exists {
			return appErrors.NotFoundError("Item not found in basket")
		}

		listing, err := loadListing(ctx, tx, listingID)
		if err != nil {
			return err
		}

		removed := item.Decrease(n, listing.Price)

		if removed {
			err = tx.DeleteItem(ctx, basket.ID, item.ID)
		} else {
			err = tx.UpdateItem(ctx, &item)
		}

		if err != nil {
			return appErrors.DatabaseError("Failed to save basket item").WithError(err)
		}

		basket.Put(item)

		if err := tx.SaveBasket(ctx, basket); err != nil {
			return appErrors.DatabaseError("Failed to update basket").WithError(err)
		}

		change = &models.BasketChange{Item: &item, Removed: removed, Basket: basket}

		return nil
	})

	s.observe(span, metrics.BasketOpDecrease, err)

	if err != nil {
		return nil, basketError(err)
	}

	s.publish(ctx, change)

	return change, nil
}

func (s *basketService) RemoveItem(ctx context.Context, userID uuid.UUID, listingID int64) (*models.BasketChange, error) {
	ctx, span := tracing.Tracer().Start(ctx, "BasketService.RemoveItem", trace.WithAttributes(
		attribute.Int64("listing.id", listingID),
	))
	defer span.End()

	var change *models.BasketChange

	err := s.repo.WithinBasketTx(ctx, userID, func(ctx context.Context, tx repository.BasketTx, basket *models.Basket) error {
		item, exists := basket.Item(listingID)
		if !exists {
			return appErrors.NotFoundError("Item not found in basket")
		}

		if err := tx.DeleteItem(ctx, basket.ID, item.ID); err != nil {
			return appErrors.DatabaseError("Failed to delete basket item").WithError(err)
		}

		item.Remove()
		basket.Put(item)

		if err := tx.SaveBasket(ctx, basket); err != nil {
			return appErrors.DatabaseError("Failed to update basket").WithError(err)
		}

		change = &models.BasketChange{Item: &item, Removed: true, Basket: basket}

		return nil
	})

	s.observe(span, metrics.BasketOpRemove, err)

	if err != nil {
		return nil, basketError(err)
	}

	s.publish(ctx, change)

	return change, nil
}

func (s *basketService) observe(span trace.Span, operation string, err error) {
	result := metrics.ResultOK

	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())

		result = metrics.ResultError

		if appErr, ok := appErrors.IsAppError(err); ok {
			switch appErr.Code {
			case appErrors.ErrCodeStockExceeded:
				result = metrics.ResultStockExceeded
			case appErrors.ErrCodeNotFound:
				result = metrics.ResultNotFound
			}
		}
	}

	metrics.ObserveBasketOperation(operation, result)
}

func (s *basketService) publish(ctx context.Context, change *models.BasketChange) {
	event := models.BasketItemChangedEvent{
		UserID:     change.Basket.UserID,
		ListingID:  change.Item.ListingID,
		Quantity:   change.Item.Quantity,
		Removed:    change.Removed,
		FinalPrice: change.Basket.FinalPrice,
	}

	if err := s.events.Publish(ctx, events.RoutingBasketItemChanged, event); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to publish basket event",
			slog.Int64("listingId", event.ListingID), slog.Any("error", err))
	}
}

func loadListing(ctx context.Context, tx repository.BasketTx, listingID int64) (*models.ProductListing, error) {
	listing, err := tx.GetListing(ctx, listingID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Listing not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to get listing").WithError(err)
	}

	return listing, nil
}

// basketError keeps AppErrors raised inside the transaction and wraps the
// begin, lock and commit failures.
func basketError(err error) error {
	if _, ok := appErrors.IsAppError(err); ok {
		return err
	}

	return appErrors.DatabaseError("Failed to update basket").WithError(err)
}

func stockDetail(listing *models.ProductListing, inBasket, requested int) string {
	return fmt.Sprintf("listing %d has %d in stock, basket holds %d, requested %d more",
		listing.ID, listing.Quantity, inBasket, requested)
}

func quantityOrOne(n int) int {
	if n < 1 {
		return 1
	}

	return n
}
