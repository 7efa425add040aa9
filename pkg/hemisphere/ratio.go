package hemisphere

import (
	"encoding/json"
	"fmt"
	"math"
)

// Ratio is a dominance ratio, at least 1 by construction. When the weaker
// hemisphere mean is zero the ratio is unbounded; it is carried as +Inf
// internally and encoded as the string "unbounded", since JSON has no
// representation for infinity.
type Ratio float64

const unboundedLabel = "unbounded"

// UnboundedRatio returns the marker used when the weaker mean is zero.
func UnboundedRatio() Ratio { return Ratio(math.Inf(1)) }

// Unbounded reports whether the ratio is the unbounded marker.
func (r Ratio) Unbounded() bool { return math.IsInf(float64(r), 1) }

// MarshalJSON writes the numeric value, or "unbounded" when infinite.
func (r Ratio) MarshalJSON() ([]byte, error) {
	if r.Unbounded() {
		return json.Marshal(unboundedLabel)
	}
	return json.Marshal(float64(r))
}

// UnmarshalJSON accepts either the numeric form or "unbounded".
func (r *Ratio) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		if s != unboundedLabel {
			return fmt.Errorf("hemisphere: invalid ratio %q", s)
		}
		*r = UnboundedRatio()
		return nil
	}
	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return err
	}
	*r = Ratio(f)
	return nil
}
