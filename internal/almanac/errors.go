package almanac

import (
	"errors"
	"fmt"
)

var (
	// ErrMalformedInput reports a grammar violation anywhere in the almanac text.
	ErrMalformedInput = errors.New("malformed almanac")
	// ErrArithmeticOverflow reports a rule whose interval does not fit in 64 bits.
	ErrArithmeticOverflow = errors.New("rule arithmetic overflows uint64")
	// ErrEmptySeedSet is returned by reductions when there is nothing to reduce.
	ErrEmptySeedSet = errors.New("no seeds to resolve")
)

// SyntaxError pinpoints the line the parser gave up on.
type SyntaxError struct {
	Line   int
	Text   string
	Reason string
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("%s: %s", ErrMalformedInput, e.Reason)
	}
	return fmt.Sprintf("%s: line %d: %s: %q", ErrMalformedInput, e.Line, e.Reason, e.Text)
}

func (e *SyntaxError) Unwrap() error { return ErrMalformedInput }

// OverflowError names the map and rule that failed validation.
type OverflowError struct {
	Map  string
	Rule Rule
}

func (e *OverflowError) Error() string {
	return fmt.Sprintf("%s: %s rule %s", ErrArithmeticOverflow, e.Map, e.Rule)
}

func (e *OverflowError) Unwrap() error { return ErrArithmeticOverflow }
