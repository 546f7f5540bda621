package cart

import (
	"errors"
	"strings"
)

var ErrEmptySessionToken = errors.New("session token cannot be empty")

// SessionToken is the opaque, client-generated key a cart is addressed by.
// The server never derives meaning from its contents.
type SessionToken struct {
	value string
}

func NewSessionToken(value string) (SessionToken, error) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return SessionToken{}, ErrEmptySessionToken
	}
	return SessionToken{value: trimmed}, nil
}

func (t SessionToken) String() string {
	return t.value
}

type Money struct {
	cents int64
}

func NewMoney(cents int64) Money {
	return Money{cents: cents}
}

func (m Money) Cents() int64 {
	return m.cents
}

func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

func (m Money) Sub(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

func (m Money) IsNegative() bool {
	return m.cents < 0
}

func (m Money) IsZero() bool {
	return m.cents == 0
}

// Mul scales a unit price by a quantity.
func (m Money) Mul(quantity int32) Money {
	return Money{cents: m.cents * int64(quantity)}
}
