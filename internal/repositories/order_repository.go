package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/aaravmahajanofficial/buyme/internal/models"
	"github.com/aaravmahajanofficial/buyme/internal/utils"
	"github.com/google/uuid"
)

// OrderRepository reads placed orders and moves them between states. Orders are written by BasketTx.CreateOrder
// so the basket and stock changes commit together.
type OrderRepository interface {
	GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error)
	UpdateOrderState(ctx context.Context, id uuid.UUID, from, to models.OrderState) error
	IsOrderSeller(ctx context.Context, orderID, userID uuid.UUID) (bool, error)
}

// ErrStateConflict is returned when an order left the expected state before the update ran.
var ErrStateConflict = errors.New("order state changed concurrently")

type orderRepository struct {
	DB *sql.DB
}

func NewOrderRepo(db *sql.DB) OrderRepository {
	return &orderRepository{DB: db}
}

const selectOrderItemsQuery = `
	SELECT id, listing_id, quantity, unit_price, line_price, created_at
	FROM order_items
	WHERE order_id = $1
	ORDER BY created_at, id`

func (r *orderRepository) GetOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	order := &models.Order{ID: id}

	query := `
		SELECT user_id, contact_id, state, total_amount, created_at, updated_at
		FROM orders
		WHERE id = $1`

	err := r.DB.QueryRowContext(dbCtx, query, id).Scan(&order.UserID, &order.ContactID, &order.State, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}

		return nil, fmt.Errorf("querying order: %w", err)
	}

	if order.Items, err = r.orderItems(dbCtx, id); err != nil {
		return nil, err
	}

	return order, nil
}

// ListOrdersByUser returns the newest orders first, each with its items.
func (r *orderRepository) ListOrdersByUser(ctx context.Context, userID uuid.UUID, page, size int) ([]*models.Order, int, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	var total int

	if err := r.DB.QueryRowContext(dbCtx, `SELECT COUNT(*) FROM orders WHERE user_id = $1`, userID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("counting orders: %w", err)
	}

	query := `
		SELECT id, contact_id, state, total_amount, created_at, updated_at
		FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(dbCtx, query, userID, size, (page-1)*size)
	if err != nil {
		return nil, 0, fmt.Errorf("querying orders: %w", err)
	}

	orders := []*models.Order{}

	for rows.Next() {
		order := &models.Order{UserID: userID}

		if err := rows.Scan(&order.ID, &order.ContactID, &order.State, &order.TotalAmount, &order.CreatedAt, &order.UpdatedAt); err != nil {
			rows.Close()
			return nil, 0, fmt.Errorf("scanning order: %w", err)
		}

		orders = append(orders, order)
	}

	rows.Close()

	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	// items are loaded after the order cursor is closed so the connection is free
	for _, order := range orders {
		if order.Items, err = r.orderItems(dbCtx, order.ID); err != nil {
			return nil, 0, err
		}
	}

	return orders, total, nil
}

// UpdateOrderState moves the order from one state to another. The write only
// applies while the order is still in from; otherwise ErrStateConflict is
// returned. Canceling puts the order's reserved units back into stock.
func (r *orderRepository) UpdateOrderState(ctx context.Context, id uuid.UUID, from, to models.OrderState) (err error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	tx, err := r.DB.BeginTx(dbCtx, nil)
	if err != nil {
		return fmt.Errorf("beginning order state transaction: %w", err)
	}

	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	query := `UPDATE orders SET state = $1, updated_at = $2 WHERE id = $3 AND state = $4`

	result, err := tx.ExecContext(dbCtx, query, to, time.Now(), id, from)
	if err != nil {
		return fmt.Errorf("updating order state: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("reading affected rows: %w", err)
	}

	if affected == 0 {
		return ErrStateConflict
	}

	if to == models.OrderStateCanceled {
		if err = releaseStock(dbCtx, tx, id); err != nil {
			return err
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("committing order state transaction: %w", err)
	}

	return nil
}

// releaseStock returns the order's quantities to their listings. Listing rows
// are locked in id order, the same order PlaceOrder reserves them in.
func releaseStock(ctx context.Context, q querier, orderID uuid.UUID) error {
	lockQuery := `
		SELECT COUNT(*) FROM (
			SELECT l.id FROM product_listings l
			JOIN order_items oi ON oi.listing_id = l.id
			WHERE oi.order_id = $1
			ORDER BY l.id
			FOR UPDATE OF l
		) locked`

	var locked int

	if err := q.QueryRowContext(ctx, lockQuery, orderID).Scan(&locked); err != nil {
		return fmt.Errorf("locking order listings: %w", err)
	}

	releaseQuery := `
		UPDATE product_listings l
		SET quantity = l.quantity + oi.quantity, updated_at = NOW()
		FROM order_items oi
		WHERE oi.order_id = $1 AND oi.listing_id = l.id`

	if _, err := q.ExecContext(ctx, releaseQuery, orderID); err != nil {
		return fmt.Errorf("releasing stock: %w", err)
	}

	return nil
}

// IsOrderSeller reports whether the user owns a shop that supplies any item of the order.
func (r *orderRepository) IsOrderSeller(ctx context.Context, orderID, userID uuid.UUID) (bool, error) {
	dbCtx, cancel := utils.WithDBTimeout(ctx)
	defer cancel()

	query := `
		SELECT EXISTS (
			SELECT 1 FROM order_items oi
			JOIN product_listings l ON l.id = oi.listing_id
			JOIN shops s ON s.id = l.shop_id
			WHERE oi.order_id = $1 AND s.owner_id = $2
		)`

	var seller bool

	if err := r.DB.QueryRowContext(dbCtx, query, orderID, userID).Scan(&seller); err != nil {
		return false, fmt.Errorf("checking order seller: %w", err)
	}

	return seller, nil
}

func (r *orderRepository) orderItems(ctx context.Context, orderID uuid.UUID) ([]models.OrderItem, error) {
	rows, err := r.DB.QueryContext(ctx, selectOrderItemsQuery, orderID)
	if err != nil {
		return nil, fmt.Errorf("querying order items: %w", err)
	}
	defer rows.Close()

	items := []models.OrderItem{}

	for rows.Next() {
		item := models.OrderItem{OrderID: orderID}

		if err := rows.Scan(&item.ID, &item.ListingID, &item.Quantity, &item.UnitPrice, &item.LinePrice, &item.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning order item: %w", err)
		}

		items = append(items, item)
	}

	return items, rows.Err()
}
