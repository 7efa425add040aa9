package hemisphere

// Tally counts string occurrences while remembering first-appearance order,
// so Max is deterministic: ties resolve to the key counted first rather
// than to whatever order a map happens to iterate in.
type Tally struct {
	order  []string
	counts map[string]int
}

// NewTally returns an empty tally.
func NewTally() *Tally {
	return &Tally{counts: make(map[string]int)}
}

// Add counts one occurrence of key.
func (t *Tally) Add(key string) {
	if _, ok := t.counts[key]; !ok {
		t.order = append(t.order, key)
	}
	t.counts[key]++
}

// Max returns the key with the highest count and that count. Ties resolve
// to the key added first; an empty tally returns "" and 0.
func (t *Tally) Max() (string, int) {
	best, bestCount := "", 0
	for _, key := range t.order {
		if t.counts[key] > bestCount {
			best, bestCount = key, t.counts[key]
		}
	}
	return best, bestCount
}

// Counts returns a copy of the counts by key.
func (t *Tally) Counts() map[string]int {
	out := make(map[string]int, len(t.counts))
	for k, v := range t.counts {
		out[k] = v
	}
	return out
}
