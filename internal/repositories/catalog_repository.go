package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/aaravmahajanofficial/buyme/internal/utils"
)

// CatalogRepository reads shops and listings. The catalog is seeded outside the API.
type CatalogRepository interface {
	ListShops(ctx context.Context, page, size int) ([]*models.Shop, int, error)
	GetShopByID(ctx context.Context, id int64) (*models.Shop, error)
	GetListingByID(ctx context.Context, id int64) (*models.ProductListing, error)
	ListListings(ctx context.Context, filter models.ListingFilter, page, size int) ([]*models.ProductListing, int, error)
}

type catalogRepository struct {
	DB *sql.DB
}

func NewCatalogRepo(db *sql.DB) CatalogRepository {
	return &catalogRepository{DB: db}
}

const listingColumns = `l.id, l.product_id, l.shop_id, l.name, l.model, l.quantity, l.price, l.price_rrc, l.parameters, s.accepting_orders, l.updated_at`

func (r *catalogRepository) ListShops(ctx context.Context, page, size int) ([]*models.Shop, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM shops`).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting shops: %w", err)
	}

	query := `
		SELECT id, name, url, accepting_orders, created_at
		FROM shops
		ORDER BY id
		LIMIT $1 OFFSET $2`

	rows, err := r.DB.QueryContext(dbCtx, query, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("querying shops: %w", err)
	}
	defer rows.Close()

	shops := []*models.Shop{}

	for rows.Next() {
		shop := &models.Shop{}

		var url sql.NullString

		if err := rows.Scan(&shop.ID, &shop.Name, &url, &shop.AcceptingOrders, &shop.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("scanning shop: %w", err)
		}

		shop.URL = url.String
		shops = append(shops, shop)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return shops, total, nil
}

// GetShopByID loads the shop with the categories it sells in.
func (r *catalogRepository) GetShopByID(ctx context.Context, id int64) (*models.Shop, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	shop := &models.Shop{}

	var url sql.NullString

	query := `SELECT id, name, url, owner_id, accepting_orders, created_at FROM shops WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&shop.ID, &shop.Name, &url, &shop.OwnerID, &shop.AcceptingOrders, &shop.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("querying shop: %w", err)
	}

	shop.URL = url.String

	categoryQuery := `
		SELECT c.id, c.name
		FROM categories c
		JOIN category_shops cs ON cs.category_id = c.id
		WHERE cs.shop_id = $1
		ORDER BY c.name`

	rows, err := r.DB.QueryContext(dbCtx, categoryQuery, id)
	if err != nil {
		return nil, fmt.Errorf("querying shop categories: %w", err)
	}
	defer rows.Close()

	shop.Categories = []models.Category{}

	for rows.Next() {
		var category models.Category

		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, fmt.Errorf("scanning category: %w", err)
		}

		shop.Categories = append(shop.Categories, category)
	}

	return shop, rows.Err()
}

func (r *catalogRepository) GetListingByID(ctx context.Context, id int64) (*models.ProductListing, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `SELECT ` + listingColumns + `
		FROM product_listings l
		JOIN shops s ON s.id = l.shop_id
		WHERE l.id = $1`

	listing, err := scanListing(r.DB.QueryRowContext(dbCtx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("querying listing: %w", err)
	}

	return listing, nil
}

func (r *catalogRepository) ListListings(ctx context.Context, filter models.ListingFilter, page, size int) ([]*models.ProductListing, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	// a NULL shop filter matches every shop
	var shopID sql.NullInt64
	if filter.ShopID != nil {
		shopID = sql.NullInt64{Int64: *filter.ShopID, Valid: true}
	}

	var total int

	countQuery := `SELECT COUNT(*) FROM product_listings WHERE ($1::bigint IS NULL OR shop_id = $1)`

	if err := r.DB.QueryRowContext(dbCtx, countQuery, shopID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting listings: %w", err)
	}

	query := `SELECT ` + listingColumns + `
		FROM product_listings l
		JOIN shops s ON s.id = l.shop_id
		WHERE ($1::bigint IS NULL OR l.shop_id = $1)
		ORDER BY l.id
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, shopID, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("querying listings: %w", err)
	}
	defer rows.Close()

	listings := []*models.ProductListing{}

	for rows.Next() {
		listing, err := scanListing(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("scanning listing: %w", err)
		}

		listings = append(listings, listing)
	}

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	return listings, total, nil
}
