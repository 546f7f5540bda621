//go:build unit || e2e

package builder

import (
	"time"

	"unified-checkout/internal/domain/cart"

	"github.com/google/uuid"
)

// CartBuilder assembles carts for tests. The default is an active, unexpired
// cart holding two units of a $10.00 product, matching the worked pricing
// scenario used across the checkout tests.
type CartBuilder struct {
	id         uuid.UUID
	token      string
	businessID uuid.UUID
	status     cart.Status
	expiresAt  time.Time
	items      []cart.Item
	booking    *cart.BookingDraft
	itemErr    error
}

func NewCartBuilder() *CartBuilder {
	b := &CartBuilder{
		id:         uuid.New(),
		token:      "cart-session-token",
		businessID: uuid.New(),
		status:     cart.StatusActive,
		expiresAt:  time.Now().Add(time.Hour),
	}
	b.WithProduct("Widget", 1000, 2)
	return b
}

func (b *CartBuilder) WithID(id uuid.UUID) *CartBuilder {
	b.id = id
	return b
}

func (b *CartBuilder) WithToken(token string) *CartBuilder {
	b.token = token
	return b
}

func (b *CartBuilder) WithBusinessID(id uuid.UUID) *CartBuilder {
	b.businessID = id
	return b
}

func (b *CartBuilder) WithStatus(status cart.Status) *CartBuilder {
	b.status = status
	return b
}

func (b *CartBuilder) WithExpiresAt(t time.Time) *CartBuilder {
	b.expiresAt = t
	return b
}

func (b *CartBuilder) Empty() *CartBuilder {
	b.items = nil
	b.booking = nil
	return b
}

func (b *CartBuilder) WithProduct(name string, unitPriceCents int64, quantity int32) *CartBuilder {
	item, err := cart.NewItem(uuid.New(), uuid.New(), cart.ItemTypeProduct, name, unitPriceCents, quantity)
	if err != nil {
		b.itemErr = err
		return b
	}
	b.items = append(b.items, item)
	return b
}

func (b *CartBuilder) WithBooking(serviceName string, priceCents int64, start, end time.Time) *CartBuilder {
	b.booking = &cart.BookingDraft{
		ID:          uuid.New(),
		ServiceID:   uuid.New(),
		ServiceName: serviceName,
		PriceCents:  priceCents,
		StartTime:   start,
		EndTime:     end,
		Timezone:    "America/New_York",
	}
	return b
}

func (b *CartBuilder) Build() (*cart.Cart, error) {
	if b.itemErr != nil {
		return nil, b.itemErr
	}
	token, err := cart.NewSessionToken(b.token)
	if err != nil {
		return nil, err
	}
	return cart.ReconstructCart(b.id, token, b.businessID, b.status, b.expiresAt, b.items, b.booking), nil
}

// MustBuild panics on builder misuse; for tests where construction is not
// the behavior under test.
func (b *CartBuilder) MustBuild() *cart.Cart {
	c, err := b.Build()
	if err != nil {
		panic(err)
	}
	return c
}
