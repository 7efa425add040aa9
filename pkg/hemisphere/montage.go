package hemisphere

// Hemisphere labels a side of the head in analysis results.
type Hemisphere string

const (
	Left      Hemisphere = "Left"
	Right     Hemisphere = "Right"
	Bilateral Hemisphere = "Bilateral"
	Midline   Hemisphere = "Midline"
	Mixed     Hemisphere = "Mixed"
)

// Montage fixes which channels belong to each side of the head. Analyzers
// take it as a value so alternate electrode layouts can be passed in where
// the 10-20 default does not fit the recording.
type Montage struct {
	Left    []string `json:"left"`
	Right   []string `json:"right"`
	Midline []string `json:"midline"`
}

// DefaultMontage returns the standard 10-20 grouping.
func DefaultMontage() Montage {
	return Montage{
		Left:    []string{"C3", "F3", "F7", "Fp1", "P3", "T3", "T5"},
		Right:   []string{"C4", "F4", "F8", "Fp2", "P4", "T4", "T6"},
		Midline: []string{"Cz", "Fpz", "Pz", "O1", "O2"},
	}
}

// Side reports which group a channel belongs to. Matching is exact and
// case-sensitive; the second return is false for channels in no group.
func (m Montage) Side(channel string) (Hemisphere, bool) {
	for _, c := range m.Left {
		if c == channel {
			return Left, true
		}
	}
	for _, c := range m.Right {
		if c == channel {
			return Right, true
		}
	}
	for _, c := range m.Midline {
		if c == channel {
			return Midline, true
		}
	}
	return "", false
}
