// Package errs is a thin facade over cockroachdb/errors so the rest of the
// codebase never imports it directly.
package errs

import (
	cr "github.com/cockroachdb/errors"
)

func New(msg string) error {
	return cr.New(msg)
}

func Errorf(format string, args ...any) error {
	return cr.Newf(format, args...)
}

func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return cr.Wrap(err, msg)
}

// Mark attaches markErr as an identity of err so errs.Is(err, markErr)
// holds while the original cause is preserved.
func Mark(err error, markErr error) error {
	if err == nil {
		return markErr
	}
	return cr.Mark(err, markErr)
}

// Is reports whether ref appears in err's chain, including identities
// attached with Mark. Stdlib errors.Is does not see marks, so sentinel
// matching must go through this.
func Is(err, ref error) bool {
	return cr.Is(err, ref)
}

// As finds the first error in err's chain matching target's type.
func As(err error, target any) bool {
	return cr.As(err, target)
}
