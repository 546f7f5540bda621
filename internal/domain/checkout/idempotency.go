package checkout

import (
	"fmt"

	"github.com/google/uuid"
)

// IdempotencyKey is the token handed to the payment gateway so a
// transport-level retry of the same charge never captures twice. Each
// checkout attempt generates a fresh key; the random component leaves a
// retried client request free to start a new attempt after a prior one
// definitively failed.
type IdempotencyKey struct {
	value string
}

func NewIdempotencyKey(cartID uuid.UUID) IdempotencyKey {
	return IdempotencyKey{
		value: fmt.Sprintf("%s:%s", cartID, uuid.New()),
	}
}

func ReconstructIdempotencyKey(value string) IdempotencyKey {
	return IdempotencyKey{value: value}
}

func (k IdempotencyKey) String() string {
	return k.value
}

func (k IdempotencyKey) IsZero() bool {
	return k.value == ""
}
