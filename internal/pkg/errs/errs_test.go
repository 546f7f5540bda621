//go:build unit

package errs_test

import (
	"testing"

	"unified-checkout/internal/pkg/errs"

	"github.com/stretchr/testify/assert"
)

func TestMarkIdentity(t *testing.T) {
	sentinel := errs.New("payment failed")
	cause := errs.New("card declined")

	marked := errs.Mark(cause, sentinel)

	t.Run("Is sees the mark", func(t *testing.T) {
		assert.True(t, errs.Is(marked, sentinel))
	})

	t.Run("Is still sees the cause", func(t *testing.T) {
		assert.True(t, errs.Is(marked, cause))
	})

	t.Run("wrapping preserves the mark", func(t *testing.T) {
		wrapped := errs.Wrap(marked, "capture failed")
		assert.True(t, errs.Is(wrapped, sentinel))
	})

	t.Run("nil cause collapses to the mark itself", func(t *testing.T) {
		assert.True(t, errs.Is(errs.Mark(nil, sentinel), sentinel))
	})
}

func TestAsThroughMark(t *testing.T) {
	type typedErr struct{ error }
	cause := &typedErr{errs.New("boom")}

	marked := errs.Mark(cause, errs.New("sentinel"))

	var target *typedErr
	assert.True(t, errs.As(marked, &target))
	assert.Same(t, cause, target)
}
