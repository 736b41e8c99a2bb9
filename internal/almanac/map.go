package almanac

import "errors"

// Map is one stage of the almanac, converting values of the From category
// into the To category. The labels are informational only.
type Map struct {
	From  string
	To    string
	Rules []Rule
}

// Name is the map's header without the " map:" suffix, e.g. "seed-to-soil".
func (m Map) Name() string {
	return m.From + "-to-" + m.To
}

// Lookup applies the first rule containing v, in declaration order. Values no
// rule covers pass through unchanged.
func (m Map) Lookup(v uint64) uint64 {
	for _, r := range m.Rules {
		if out, ok := r.Apply(v); ok {
			return out
		}
	}
	return v
}

// Validate checks every rule in the map.
func (m Map) Validate() error {
	for _, r := range m.Rules {
		if err := r.Validate(); err != nil {
			var oe *OverflowError
			if errors.As(err, &oe) {
				oe.Map = m.Name()
			}
			return err
		}
	}
	return nil
}
