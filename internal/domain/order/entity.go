package order

import (
	"errors"
	"time"

	"unified-checkout/internal/domain/cart"

	"github.com/google/uuid"
)

var ErrNoProductItems = errors.New("shop order requires at least one product item")

// Item snapshots a product line at time of purchase. Prices on an existing
// order never change retroactively.
type Item struct {
	id             uuid.UUID
	productID      uuid.UUID
	name           string
	unitPriceCents int64
	quantity       int32
	lineTotalCents int64
}

func (i Item) ID() uuid.UUID         { return i.id }
func (i Item) ProductID() uuid.UUID  { return i.productID }
func (i Item) Name() string          { return i.name }
func (i Item) UnitPriceCents() int64 { return i.unitPriceCents }
func (i Item) Quantity() int32       { return i.quantity }
func (i Item) LineTotalCents() int64 { return i.lineTotalCents }

// ShopOrder is the materialized commerce record for the product portion of a
// paid checkout session.
type ShopOrder struct {
	id              uuid.UUID
	businessID      uuid.UUID
	sessionID       uuid.UUID
	customerName    string
	customerEmail   string
	customerPhone   *string
	subtotalCents   int64
	taxCents        int64
	totalCents      int64
	squarePaymentID string
	idempotencyKey  string
	paidAt          *time.Time
	items           []Item
	createdAt       time.Time
}

type CustomerContact struct {
	Name  string
	Email string
	Phone *string
}

// NewShopOrder materializes the product lines of a cart. The subtotal is the
// session subtotal minus the booked service's portion, carried forward from
// validation rather than re-derived.
func NewShopOrder(
	businessID, sessionID uuid.UUID,
	contact CustomerContact,
	productItems []cart.Item,
	subtotalCents, taxCents, totalCents int64,
	squarePaymentID, idempotencyKey string,
	paidAt *time.Time,
	now time.Time,
) (*ShopOrder, error) {
	if len(productItems) == 0 {
		return nil, ErrNoProductItems
	}

	items := make([]Item, len(productItems))
	for idx, ci := range productItems {
		items[idx] = Item{
			id:             uuid.New(),
			productID:      ci.ItemID(),
			name:           ci.Name(),
			unitPriceCents: ci.UnitPrice().Cents(),
			quantity:       ci.Quantity(),
			lineTotalCents: ci.LineTotal().Cents(),
		}
	}

	return &ShopOrder{
		id:              uuid.New(),
		businessID:      businessID,
		sessionID:       sessionID,
		customerName:    contact.Name,
		customerEmail:   contact.Email,
		customerPhone:   contact.Phone,
		subtotalCents:   subtotalCents,
		taxCents:        taxCents,
		totalCents:      totalCents,
		squarePaymentID: squarePaymentID,
		idempotencyKey:  idempotencyKey,
		paidAt:          paidAt,
		items:           items,
		createdAt:       now,
	}, nil
}

func (o *ShopOrder) ID() uuid.UUID           { return o.id }
func (o *ShopOrder) BusinessID() uuid.UUID   { return o.businessID }
func (o *ShopOrder) SessionID() uuid.UUID    { return o.sessionID }
func (o *ShopOrder) CustomerName() string    { return o.customerName }
func (o *ShopOrder) CustomerEmail() string   { return o.customerEmail }
func (o *ShopOrder) CustomerPhone() *string  { return o.customerPhone }
func (o *ShopOrder) SubtotalCents() int64    { return o.subtotalCents }
func (o *ShopOrder) TaxCents() int64         { return o.taxCents }
func (o *ShopOrder) TotalCents() int64       { return o.totalCents }
func (o *ShopOrder) SquarePaymentID() string { return o.squarePaymentID }
func (o *ShopOrder) IdempotencyKey() string  { return o.idempotencyKey }
func (o *ShopOrder) PaidAt() *time.Time      { return o.paidAt }
func (o *ShopOrder) Items() []Item           { return o.items }
func (o *ShopOrder) CreatedAt() time.Time    { return o.createdAt }
