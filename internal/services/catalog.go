package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/aaravmahajanofficial/buyme/internal/api/middleware"
	"github.com/aaravmahajanofficial/buyme/internal/cache"
	"github.com/aaravmahajanofficial/buyme/internal/config"
	appErrors "github.com/aaravmahajanofficial/buyme/internal/errors"
	"github.com/aaravmahajanofficial/buyme/internal/models"
	repository "github.com/aaravmahajanofficial/buyme/internal/repositories"
)

type CatalogService interface {
	ListShops(ctx context.Context, page, pageSize int) ([]*models.Shop, int, error)
	GetShop(ctx context.Context, id int64) (*models.Shop, error)
	ListListings(ctx context.Context, filter models.ListingFilter, page, pageSize int) ([]*models.ProductListing, int, error)
	GetListing(ctx context.Context, id int64) (*models.ProductListing, error)
	InvalidateListings(ctx context.Context, ids ...int64)
}

type catalogService struct {
	repo  repository.CatalogRepository
	cache cache.Cache
	cfg   config.CacheConfig
}

func NewCatalogService(repo repository.CatalogRepository, c cache.Cache, cfg config.CacheConfig) CatalogService {
	return &catalogService{repo: repo, cache: c, cfg: cfg}
}

type shopPage struct {
	Shops []*models.Shop `json:"shops"`
	Total int            `json:"total"`
}

func (s *catalogService) ListShops(ctx context.Context, page, pageSize int) ([]*models.Shop, int, error) {
	key := cache.Key(cache.ShopListKeyPrefix, fmt.Sprintf("%d:%d", page, pageSize))

	var cached shopPage
	if s.fromCache(ctx, key, &cached) {
		return cached.Shops, cached.Total, nil
	}

	shops, total, err := s.repo.ListShops(ctx, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch shops").WithError(err)
	}

	s.toCache(ctx, key, shopPage{Shops: shops, Total: total}, s.cfg.DefaultTTL)

	return shops, total, nil
}

func (s *catalogService) GetShop(ctx context.Context, id int64) (*models.Shop, error) {
	key := cache.Key(cache.ShopKeyPrefix, strconv.FormatInt(id, 10))

	var cached models.Shop
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	shop, err := s.repo.GetShopByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Shop not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to get shop").WithError(err)
	}

	s.toCache(ctx, key, shop, s.cfg.DefaultTTL)

	return shop, nil
}

// ListListings always reads through to the database since stock changes with every order.
func (s *catalogService) ListListings(ctx context.Context, filter models.ListingFilter, page, pageSize int) ([]*models.ProductListing, int, error) {
	listings, total, err := s.repo.ListListings(ctx, filter, page, pageSize)
	if err != nil {
		return nil, 0, appErrors.DatabaseError("Failed to fetch listings").WithError(err)
	}

	return listings, total, nil
}

func (s *catalogService) GetListing(ctx context.Context, id int64) (*models.ProductListing, error) {
	key := listingKey(id)

	var cached models.ProductListing
	if s.fromCache(ctx, key, &cached) {
		return &cached, nil
	}

	listing, err := s.repo.GetListingByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, appErrors.NotFoundError("Listing not found").WithError(err)
		}

		return nil, appErrors.DatabaseError("Failed to get listing").WithError(err)
	}

	s.toCache(ctx, key, listing, s.cfg.ListingTTL)

	return listing, nil
}

// InvalidateListings drops cached listings whose stock has changed.
func (s *catalogService) InvalidateListings(ctx context.Context, ids ...int64) {
	if len(ids) == 0 {
		return
	}

	keys := make([]string, 0, len(ids))
	for _, id := range ids {
		keys = append(keys, listingKey(id))
	}

	if err := s.cache.Delete(ctx, keys...); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Failed to invalidate listing cache", slog.Any("error", err))
	}
}

// cache failures degrade to a database read
func (s *catalogService) fromCache(ctx context.Context, key string, dest any) bool {
	found, err := s.cache.Get(ctx, key, dest)
	if err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache read failed", slog.String("key", key), slog.Any("error", err))
		return false
	}

	return found
}

func (s *catalogService) toCache(ctx context.Context, key string, value any, ttl time.Duration) {
	if err := s.cache.Set(ctx, key, value, ttl); err != nil {
		middleware.LoggerFromContext(ctx).Warn("Cache write failed", slog.String("key", key), slog.Any("error", err))
	}
}

func listingKey(id int64) string {
	return cache.Key(cache.ListingKeyPrefix, strconv.FormatInt(id, 10))
}
