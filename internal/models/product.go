package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Shop is a seller. AcceptingOrders gates adding its listings to a basket.
type Shop struct {
	ID              int64      `json:"id"`
	Name            string     `json:"name"`
	URL             string     `json:"url,omitempty"`
	OwnerID         *uuid.UUID `json:"owner_id,omitempty"`
	AcceptingOrders bool       `json:"accepting_orders"`
	Categories      []Category `json:"categories,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

type Category struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Product struct {
	ID         int64  `json:"id"`
	CategoryID int64  `json:"category_id"`
	Name       string `json:"name"`
}

// ProductListing is a product offered by one shop, with its own price and stock.
type ProductListing struct {
	ID                int64           `json:"id"`
	ProductID         int64           `json:"product_id"`
	ShopID            int64           `json:"shop_id"`
	Name              string          `json:"name"`
	Model             string          `json:"model,omitempty"`
	Quantity          int             `json:"quantity"`
	Price             decimal.Decimal `json:"price"`
	PriceRRC          decimal.Decimal `json:"price_rrc"`
	Parameters        json.RawMessage `json:"parameters,omitempty" swaggertype:"object"`
	ShopAcceptsOrders bool            `json:"shop_accepts_orders"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// InStock reports whether n more units fit on top of an existing quantity.
func (l *ProductListing) InStock(existing, n int) bool {
	return existing+n <= l.Quantity
}

type ListingFilter struct {
	ShopID *int64
}
