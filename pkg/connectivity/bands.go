package connectivity

// Band is a named frequency range over which connectivity was estimated.
type Band struct {
	Name string  `json:"name"`
	Low  float64 `json:"low"`  // inclusive lower bound, Hz
	High float64 `json:"high"` // exclusive upper bound, Hz
}

// DefaultBands returns the canonical EEG frequency bands in ascending order.
func DefaultBands() []Band {
	return []Band{
		{Name: "delta", Low: 1, High: 4},
		{Name: "theta", Low: 4, High: 8},
		{Name: "alpha", Low: 8, High: 13},
		{Name: "beta", Low: 13, High: 30},
		{Name: "gamma", Low: 30, High: 100},
	}
}

// BandByName looks a band up in a band list by its name.
func BandByName(bands []Band, name string) (Band, bool) {
	for _, b := range bands {
		if b.Name == name {
			return b, true
		}
	}
	return Band{}, false
}
