package almanac

import (
	"fmt"
	"math"
	"math/bits"
)

// Rule maps the half-open source interval [Source, Source+Length) onto
// [Destination, Destination+Length).
type Rule struct {
	Destination uint64
	Source      uint64
	Length      uint64
}

// Contains reports whether v falls inside the rule's source interval.
func (r Rule) Contains(v uint64) bool {
	return v >= r.Source && v-r.Source < r.Length
}

// Apply returns the mapped value and true when v is inside the rule, or v and
// false when it is not.
func (r Rule) Apply(v uint64) (uint64, bool) {
	if !r.Contains(v) {
		return v, false
	}
	out, carry := bits.Add64(r.Destination, v-r.Source, 0)
	if carry != 0 {
		// Validate rejects every rule that can get here.
		panic(&OverflowError{Rule: r})
	}
	return out, true
}

// Validate checks that the rule is non-empty and that the last value of both
// intervals is representable.
func (r Rule) Validate() error {
	if r.Length == 0 {
		return fmt.Errorf("%w: zero length rule %s", ErrMalformedInput, r)
	}
	last := r.Length - 1
	if last > math.MaxUint64-r.Source || last > math.MaxUint64-r.Destination {
		return &OverflowError{Rule: r}
	}
	return nil
}

func (r Rule) String() string {
	return fmt.Sprintf("%d %d %d", r.Destination, r.Source, r.Length)
}
