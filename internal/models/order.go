package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type OrderState string

const (
	OrderStateNew       OrderState = "new"
	OrderStateConfirmed OrderState = "confirmed"
	OrderStateAssembled OrderState = "assembled"
	OrderStateSent      OrderState = "sent"
	OrderStateDelivered OrderState = "delivered"
	OrderStateCanceled  OrderState = "canceled"
)

var orderTransitions = map[OrderState][]OrderState{
	OrderStateNew:       {OrderStateConfirmed, OrderStateCanceled},
	OrderStateConfirmed: {OrderStateAssembled, OrderStateCanceled},
	OrderStateAssembled: {OrderStateSent, OrderStateCanceled},
	OrderStateSent:      {OrderStateDelivered},
}

// CanTransitionTo reports whether an order may move from s to next.
// Delivered and canceled orders are final.
func (s OrderState) CanTransitionTo(next OrderState) bool {
	for _, allowed := range orderTransitions[s] {
		if allowed == next {
			return true
		}
	}

	return false
}

type OrderItem struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	ListingID int64           `json:"listing_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	LinePrice decimal.Decimal `json:"line_price"`
	CreatedAt time.Time       `json:"created_at"`
}

type Order struct {
	ID          uuid.UUID       `json:"id"`
	UserID      uuid.UUID       `json:"user_id"`
	ContactID   uuid.UUID       `json:"contact_id"`
	State       OrderState      `json:"state"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItem     `json:"items"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

func NewOrder(userID, contactID uuid.UUID) *Order {
	now := time.Now()

	return &Order{
		ID:          uuid.New(),
		UserID:      userID,
		ContactID:   contactID,
		State:       OrderStateNew,
		TotalAmount: decimal.Zero,
		Items:       []OrderItem{},
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// AddItem appends a line priced at unitPrice and updates the total.
func (o *Order) AddItem(listingID int64, quantity int, unitPrice decimal.Decimal) {
	line := unitPrice.Mul(decimal.NewFromInt(int64(quantity)))

	o.Items = append(o.Items, OrderItem{
		ID:        uuid.New(),
		OrderID:   o.ID,
		ListingID: listingID,
		Quantity:  quantity,
		UnitPrice: unitPrice,
		LinePrice: line,
		CreatedAt: o.CreatedAt,
	})
	o.TotalAmount = o.TotalAmount.Add(line)
}

type PlaceOrderRequest struct {
	ContactID uuid.UUID `json:"contact_id" validate:"required"`
}

type UpdateOrderStateRequest struct {
	State OrderState `json:"state" validate:"required,oneof=confirmed assembled sent delivered canceled"`
}

// OrderPlacedEvent is published once an order has been committed.
type OrderPlacedEvent struct {
	OrderID     uuid.UUID       `json:"order_id"`
	UserID      uuid.UUID       `json:"user_id"`
	TotalAmount decimal.Decimal `json:"total_amount"`
	Items       []OrderItem     `json:"items"`
}

type OrderStateChangedEvent struct {
	OrderID uuid.UUID  `json:"order_id"`
	UserID  uuid.UUID  `json:"user_id"`
	From    OrderState `json:"from"`
	To      OrderState `json:"to"`
}
