package models

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrStockExceeded = errors.New("requested quantity exceeds available stock")
	ErrItemRemoved   = errors.New("basket item has been removed")
)

type BasketItemState string

const (
	BasketItemActive  BasketItemState = "active"
	BasketItemRemoved BasketItemState = "removed"
)

// BasketItem is one ledger row: a user's quantity of a single listing.
// LinePrice is derived and only changes through RecalculatePrice.
type BasketItem struct {
	ID        uuid.UUID       `json:"id"`
	UserID    uuid.UUID       `json:"user_id"`
	ListingID int64           `json:"listing_id"`
	Quantity  int             `json:"quantity"`
	LinePrice decimal.Decimal `json:"line_price"`
	State     BasketItemState `json:"state"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// NewBasketItem returns an empty active item. It must be increased before it is stored.
func NewBasketItem(userID uuid.UUID, listingID int64) BasketItem {
	now := time.Now()

	return BasketItem{
		ID:        uuid.New(),
		UserID:    userID,
		ListingID: listingID,
		LinePrice: decimal.Zero,
		State:     BasketItemActive,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func (i *BasketItem) Active() bool {
	return i.State == BasketItemActive
}

// Increase adds n units if the listing has enough stock. On error the item is untouched.
func (i *BasketItem) Increase(n int, listing *ProductListing) error {
	if !i.Active() {
		return ErrItemRemoved
	}

	if !listing.InStock(i.Quantity, n) {
		return ErrStockExceeded
	}

	i.Quantity += n
	i.RecalculatePrice(listing.Price)

	return nil
}

// Decrease takes n units off the item. When nothing would remain the item
// moves to the removed state and Decrease reports true.
func (i *BasketItem) Decrease(n int, unitPrice decimal.Decimal) bool {
	if !i.Active() {
		return true
	}

	if i.Quantity-n <= 0 {
		i.Remove()
		return true
	}

	i.Quantity -= n
	i.RecalculatePrice(unitPrice)

	return false
}

// Remove moves the item to the removed state. A removed item cannot be increased again.
func (i *BasketItem) Remove() {
	i.State = BasketItemRemoved
	i.Quantity = 0
	i.LinePrice = decimal.Zero
	i.UpdatedAt = time.Now()
}

func (i *BasketItem) RecalculatePrice(unitPrice decimal.Decimal) {
	i.LinePrice = unitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	i.UpdatedAt = time.Now()
}

// Basket aggregates a user's items. FinalPrice is kept equal to the sum of
// active line prices by every membership method.
type Basket struct {
	ID         uuid.UUID       `json:"id"`
	UserID     uuid.UUID       `json:"user_id"`
	Items      []BasketItem    `json:"items"`
	FinalPrice decimal.Decimal `json:"final_price"`
	CreatedAt  time.Time       `json:"created_at"`
	UpdatedAt  time.Time       `json:"updated_at"`
}

func NewBasket(userID uuid.UUID) *Basket {
	now := time.Now()

	return &Basket{
		ID:         uuid.New(),
		UserID:     userID,
		Items:      []BasketItem{},
		FinalPrice: decimal.Zero,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

// Item returns a copy of the member item for the listing.
func (b *Basket) Item(listingID int64) (BasketItem, bool) {
	for _, item := range b.Items {
		if item.ListingID == listingID && item.Active() {
			return item, true
		}
	}

	return BasketItem{}, false
}

// Put inserts or replaces a member item. Removed items are dropped instead.
func (b *Basket) Put(item BasketItem) {
	if !item.Active() {
		b.Drop(item.ID)
		return
	}

	for idx := range b.Items {
		if b.Items[idx].ID == item.ID {
			b.Items[idx] = item
			b.RecalculateFinalPrice()

			return
		}
	}

	b.Items = append(b.Items, item)
	b.RecalculateFinalPrice()
}

func (b *Basket) Drop(itemID uuid.UUID) bool {
	for idx := range b.Items {
		if b.Items[idx].ID == itemID {
			b.Items = append(b.Items[:idx], b.Items[idx+1:]...)
			b.RecalculateFinalPrice()

			return true
		}
	}

	return false
}

func (b *Basket) Clear() {
	b.Items = []BasketItem{}
	b.RecalculateFinalPrice()
}

func (b *Basket) IsEmpty() bool {
	return len(b.Items) == 0
}

func (b *Basket) RecalculateFinalPrice() decimal.Decimal {
	total := decimal.Zero

	for _, item := range b.Items {
		if item.Active() {
			total = total.Add(item.LinePrice)
		}
	}

	b.FinalPrice = total
	b.UpdatedAt = time.Now()

	return total
}

// BasketChange is the result of a basket mutation.
type BasketChange struct {
	Item    *BasketItem `json:"item"`
	Removed bool        `json:"removed"`
	Basket  *Basket     `json:"basket"`
}

type AddBasketItemRequest struct {
	ListingID int64 `json:"listing_id" validate:"required,gt=0"`
	Quantity  int   `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

type DecreaseBasketItemRequest struct {
	Quantity int `json:"quantity" validate:"omitempty,min=1,max=1000"`
}

// BasketItemChangedEvent is published after a basket mutation commits.
type BasketItemChangedEvent struct {
	UserID     uuid.UUID       `json:"user_id"`
	ListingID  int64           `json:"listing_id"`
	Quantity   int             `json:"quantity"`
	Removed    bool            `json:"removed"`
	FinalPrice decimal.Decimal `json:"final_price"`
}
