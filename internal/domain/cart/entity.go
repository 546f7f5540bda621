package cart

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrCartNotActive   = errors.New("cart is not active")
	ErrCartExpired     = errors.New("cart has expired")
	ErrEmptyCart       = errors.New("cart has no items and no booking")
	ErrInvalidQuantity = errors.New("item quantity must be positive")
	ErrNegativePrice   = errors.New("item price cannot be negative")
)

// Item is one product or service line in a cart. LineTotal is always
// recomputed server-side from the unit price; client-submitted totals are
// never trusted.
type Item struct {
	id        uuid.UUID
	itemID    uuid.UUID
	itemType  ItemType
	name      string
	unitPrice Money
	quantity  int32
	lineTotal Money
}

func NewItem(id, itemID uuid.UUID, itemType ItemType, name string, unitPriceCents int64, quantity int32) (Item, error) {
	if quantity <= 0 {
		return Item{}, ErrInvalidQuantity
	}
	if unitPriceCents < 0 {
		return Item{}, ErrNegativePrice
	}

	unitPrice := NewMoney(unitPriceCents)
	return Item{
		id:        id,
		itemID:    itemID,
		itemType:  itemType,
		name:      name,
		unitPrice: unitPrice,
		quantity:  quantity,
		lineTotal: unitPrice.Mul(quantity),
	}, nil
}

func (i Item) ID() uuid.UUID      { return i.id }
func (i Item) ItemID() uuid.UUID  { return i.itemID }
func (i Item) Type() ItemType     { return i.itemType }
func (i Item) Name() string       { return i.name }
func (i Item) UnitPrice() Money   { return i.unitPrice }
func (i Item) Quantity() int32    { return i.quantity }
func (i Item) LineTotal() Money   { return i.lineTotal }
func (i Item) IsProduct() bool    { return i.itemType == ItemTypeProduct }

// BookingDraft is the at-most-one service appointment attached to a cart
// before checkout. Customer fields collected here may be overridden by the
// contact info submitted at checkout time.
type BookingDraft struct {
	ID            uuid.UUID
	ServiceID     uuid.UUID
	ServiceName   string
	PriceCents    int64
	StartTime     time.Time
	EndTime       time.Time
	Timezone      string
	CustomerName  *string
	CustomerEmail *string
	CustomerPhone *string
	Notes         *string
}

// DurationMinutes derives the appointment length from the slot bounds.
func (b BookingDraft) DurationMinutes() int32 {
	return int32(b.EndTime.Sub(b.StartTime) / time.Minute)
}

type Cart struct {
	id           uuid.UUID
	sessionToken SessionToken
	businessID   uuid.UUID
	status       Status
	expiresAt    time.Time
	items        []Item
	booking      *BookingDraft
}

func ReconstructCart(
	id uuid.UUID,
	sessionToken SessionToken,
	businessID uuid.UUID,
	status Status,
	expiresAt time.Time,
	items []Item,
	booking *BookingDraft,
) *Cart {
	return &Cart{
		id:           id,
		sessionToken: sessionToken,
		businessID:   businessID,
		status:       status,
		expiresAt:    expiresAt,
		items:        items,
		booking:      booking,
	}
}

func (c *Cart) ID() uuid.UUID               { return c.id }
func (c *Cart) SessionToken() SessionToken  { return c.sessionToken }
func (c *Cart) BusinessID() uuid.UUID       { return c.businessID }
func (c *Cart) Status() Status              { return c.status }
func (c *Cart) ExpiresAt() time.Time        { return c.expiresAt }
func (c *Cart) Items() []Item               { return c.items }
func (c *Cart) Booking() *BookingDraft      { return c.booking }

func (c *Cart) IsEmpty() bool {
	return len(c.items) == 0 && c.booking == nil
}

func (c *Cart) HasProductItems() bool {
	for _, item := range c.items {
		if item.IsProduct() {
			return true
		}
	}
	return false
}

// ProductItems returns only the product lines; service lines are priced
// through the booking draft instead.
func (c *Cart) ProductItems() []Item {
	products := make([]Item, 0, len(c.items))
	for _, item := range c.items {
		if item.IsProduct() {
			products = append(products, item)
		}
	}
	return products
}

// ItemsSubtotal sums the server-computed line totals.
func (c *Cart) ItemsSubtotal() Money {
	subtotal := NewMoney(0)
	for _, item := range c.items {
		subtotal = subtotal.Add(item.LineTotal())
	}
	return subtotal
}

// CheckoutEligible enforces the mutation invariant: only an active,
// unexpired, non-empty cart may enter checkout.
func (c *Cart) CheckoutEligible(now time.Time) error {
	if c.status != StatusActive {
		return ErrCartNotActive
	}
	if !c.expiresAt.IsZero() && now.After(c.expiresAt) {
		return ErrCartExpired
	}
	if c.IsEmpty() {
		return ErrEmptyCart
	}
	return nil
}
