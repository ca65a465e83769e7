package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/aaravmahajanofficial/buyme/internal/utils"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var ErrNotFound = errors.New("record not found")

// BasketTx is the set of writes allowed while a user's basket row is locked.
type BasketTx interface {
	GetListing(ctx context.Context, listingID int64) (*models.ProductListing, error)
	CreateItem(ctx context.Context, basketID uuid.UUID, item *models.BasketItem) error
	UpdateItem(ctx context.Context, item *models.BasketItem) error
	DeleteItem(ctx context.Context, basketID, itemID uuid.UUID) error
	SaveBasket(ctx context.Context, basket *models.Basket) error
	ReserveStock(ctx context.Context, listingID int64, quantity int) (decimal.Decimal, error)
	CreateOrder(ctx context.Context, order *models.Order) error
	ClearBasket(ctx context.Context, basketID uuid.UUID) error
}

// BasketTxFunc runs with the basket locked. Returning an error rolls back every write.
type BasketTxFunc func(ctx context.Context, tx BasketTx, basket *models.Basket) error

type BasketRepository interface {
	GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*models.Basket, error)
	WithinBasketTx(ctx context.Context, userID uuid.UUID, fn BasketTxFunc) error
}

type basketRepository struct {
	DB *sql.DB
}

func NewBasketRepo(db *sql.DB) BasketRepository {
	return &basketRepository{DB: db}
}

const (
	ensureBasketQuery = `INSERT INTO baskets (id, user_id, final_price) VALUES ($1, $2, 0) ON CONFLICT (user_id) DO NOTHING`

	selectBasketQuery = `SELECT id, user_id, final_price, created_at, updated_at FROM baskets WHERE user_id = $1`

	selectMemberItemsQuery = `
		SELECT i.id, i.user_id, i.listing_id, i.quantity, i.line_price, i.created_at, i.updated_at
		FROM basket_members m
		JOIN basket_items i ON i.id = m.item_id
		WHERE m.basket_id = $1
		ORDER BY i.created_at, i.id`
)

// GetOrCreateBasket returns the user's basket, creating an empty one on first use.
func (r *basketRepository) GetOrCreateBasket(ctx context.Context, userID uuid.UUID) (*models.Basket, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	return loadBasket(dbCtx, r.DB, userID, false)
}

// WithinBasketTx locks the user's basket row for the duration of fn so
// concurrent mutations of the same basket are serialized.
func (r *basketRepository) WithinBasketTx(ctx context.Context, userID uuid.UUID, fn BasketTxFunc) (err error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("beginning basket transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	basket, err := loadBasket(dbCtx, tx, userID, true)
	if err != nil {
		return err
	}

	if err = fn(dbCtx, &basketTx{q: tx}, basket); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing basket transaction: %w", err)
	}

	return nil
}

func loadBasket(ctx context.Context, q querier, userID uuid.UUID, forUpdate bool) (*models.Basket, error) {
	if _, err := q.ExecContext(ctx, ensureBasketQuery, uuid.New(), userID); err != nil {
		return nil, fmt.Errorf("creating basket: %w", err)
	}

	query := selectBasketQuery
	if forUpdate {
		query += " FOR UPDATE"
	}

	basket := &models.Basket{}

	err := q.QueryRowContext(ctx, query, userID).Scan(&basket.ID, &basket.UserID, &basket.FinalPrice, &basket.CreatedAt, &basket.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("querying basket: %w", err)
	}

	rows, err := q.QueryContext(ctx, selectMemberItemsQuery, basket.ID)
	if err != nil {
		return nil, fmt.Errorf("querying basket items: %w", err)
	}
	defer rows.Close()

	basket.Items = []models.BasketItem{}

	for rows.Next() {
		item := models.BasketItem{State: models.BasketItemActive}

		if err := rows.Scan(&item.ID, &item.UserID, &item.ListingID, &item.Quantity, &item.LinePrice, &item.CreatedAt, &item.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scanning basket item: %w", err)
		}

		basket.Items = append(basket.Items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating basket items: %w", err)
	}

	return basket, nil
}

type basketTx struct {
	q querier
}

// GetListing takes a shared lock on the listing so its stock cannot change before commit.
func (t *basketTx) GetListing(ctx context.Context, listingID int64) (*models.ProductListing, error) {
	query := `
		SELECT l.id, l.product_id, l.shop_id, l.name, l.model, l.quantity, l.price, l.price_rrc, l.parameters, s.accepting_orders, l.updated_at
		FROM product_listings l
		JOIN shops s ON s.id = l.shop_id
		WHERE l.id = $1
		FOR SHARE OF l`

	listing, err := scanListing(t.q.QueryRowContext(ctx, query, listingID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("querying listing %d: %w", listingID, err)
	}

	return listing, nil
}

func (t *basketTx) CreateItem(ctx context.Context, basketID uuid.UUID, item *models.BasketItem) error {
	itemQuery := `
		INSERT INTO basket_items (id, user_id, listing_id, quantity, line_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := t.q.ExecContext(ctx, itemQuery, item.ID, item.UserID, item.ListingID, item.Quantity, item.LinePrice, item.CreatedAt, item.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting basket item: %w", err)
	}

	memberQuery := `INSERT INTO basket_members (basket_id, item_id) VALUES ($1, $2)`

	if _, err := t.q.ExecContext(ctx, memberQuery, basketID, item.ID); err != nil {
		return fmt.Errorf("inserting basket member: %w", err)
	}

	return nil
}

func (t *basketTx) UpdateItem(ctx context.Context, item *models.BasketItem) error {
	query := `UPDATE basket_items SET quantity = $1, line_price = $2, updated_at = $3 WHERE id = $4`

	result, err := t.q.ExecContext(ctx, query, item.Quantity, item.LinePrice, item.UpdatedAt, item.ID)
	if err != nil {
		return fmt.Errorf("updating basket item: %w", err)
	}

	return expectAffected(result)
}

// DeleteItem removes the membership and then the ledger row.
func (t *basketTx) DeleteItem(ctx context.Context, basketID, itemID uuid.UUID) error {
	if _, err := t.q.ExecContext(ctx, `DELETE FROM basket_members WHERE basket_id = $1 AND item_id = $2`, basketID, itemID); err != nil {
		return fmt.Errorf("deleting basket member: %w", err)
	}

	result, err := t.q.ExecContext(ctx, `DELETE FROM basket_items WHERE id = $1`, itemID)
	if err != nil {
		return fmt.Errorf("deleting basket item: %w", err)
	}

	return expectAffected(result)
}

func (t *basketTx) SaveBasket(ctx context.Context, basket *models.Basket) error {
	query := `UPDATE baskets SET final_price = $1, updated_at = $2 WHERE id = $3`

	result, err := t.q.ExecContext(ctx, query, basket.FinalPrice, basket.UpdatedAt, basket.ID)
	if err != nil {
		return fmt.Errorf("updating basket final price: %w", err)
	}

	return expectAffected(result)
}

// ReserveStock decrements the listing's stock only if enough is left and
// returns the listing's current unit price.
func (t *basketTx) ReserveStock(ctx context.Context, listingID int64, quantity int) (decimal.Decimal, error) {
	query := `
		UPDATE product_listings SET quantity = quantity - $1, updated_at = NOW()
		WHERE id = $2 AND quantity >= $1
		RETURNING price`

	var price decimal.Decimal

	err := t.q.QueryRowContext(ctx, query, quantity, listingID).Scan(&price)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return decimal.Zero, models.ErrStockExceeded
		}

		return decimal.Zero, fmt.Errorf("reserving stock for listing %d: %w", listingID, err)
	}

	return price, nil
}

func (t *basketTx) CreateOrder(ctx context.Context, order *models.Order) error {
	orderQuery := `
		INSERT INTO orders (id, user_id, contact_id, state, total_amount, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := t.q.ExecContext(ctx, orderQuery, order.ID, order.UserID, order.ContactID, order.State, order.TotalAmount, order.CreatedAt, order.UpdatedAt)
	if err != nil {
		return fmt.Errorf("inserting order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (id, order_id, listing_id, quantity, unit_price, line_price, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	for _, item := range order.Items {
		_, err := t.q.ExecContext(ctx, itemQuery, item.ID, item.OrderID, item.ListingID, item.Quantity, item.UnitPrice, item.LinePrice, item.CreatedAt)
		if err != nil {
			return fmt.Errorf("inserting order item: %w", err)
		}
	}

	return nil
}

// ClearBasket deletes every member item. Memberships cascade with their items.
func (t *basketTx) ClearBasket(ctx context.Context, basketID uuid.UUID) error {
	query := `DELETE FROM basket_items WHERE id IN (SELECT item_id FROM basket_members WHERE basket_id = $1)`

	if _, err := t.q.ExecContext(ctx, query, basketID); err != nil {
		return fmt.Errorf("clearing basket: %w", err)
	}

	return nil
}

func expectAffected(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if affected == 0 {
		return ErrNotFound
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanListing(row rowScanner) (*models.ProductListing, error) {
	listing := &models.ProductListing{}

	var (
		model  sql.NullString
		params []byte
	)

	err := row.Scan(&listing.ID, &listing.ProductID, &listing.ShopID, &listing.Name, &model, &listing.Quantity,
		&listing.Price, &listing.PriceRRC, &params, &listing.ShopAcceptsOrders, &listing.UpdatedAt)
	if err != nil {
		return nil, err
	}

	listing.Model = model.String
	if len(params) > 0 {
		listing.Parameters = params
	}

	return listing, nil
}
