package pdftext

import (
	"context"
	"errors"
	"fmt"
)

// Strategy is one way of getting text out of a PDF document.
type Strategy interface {
	Name() string
	// Available reports whether the strategy's backend is usable.
	Available() bool
	Extract(ctx context.Context, data []byte) (string, error)
}

// ErrMalformed is returned by strategies that could not decode the document.
var ErrMalformed = errors.New("malformed pdf")

// recoverMalformed converts a panic raised by a PDF decoder into an error.
func recoverMalformed(err *error) {
	if r := recover(); r != nil {
		*err = fmt.Errorf("%w: %v", ErrMalformed, r)
	}
}
