package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"gonum.org/v1/gonum/mat"

	"github.com/gilchrisn/brain-connectivity-service/pkg/connectivity"
)

// RawConnectivity is one band's connectivity payload in either form the
// estimator writes: the strict lower-triangle vector or the full matrix.
// Singleton dimensions left over from upstream array tooling are squeezed
// away during decoding.
type RawConnectivity struct {
	vector []float64
	rows   [][]float64
}

// IsVector reports whether the payload decoded to the triangular form.
func (r *RawConnectivity) IsVector() bool { return r.rows == nil }

// Matrix returns the band's connectivity as a symmetric matrix,
// reconstructing from the triangular vector when needed. n is the channel
// count the vector form is reconstructed against.
func (r *RawConnectivity) Matrix(n int) (*mat.SymDense, error) {
	if r.rows != nil {
		return connectivity.FromRows(r.rows)
	}
	return connectivity.Reconstruct(r.vector, n)
}

// UnmarshalJSON accepts a vector, a matrix, or a singly-stacked matrix.
func (r *RawConnectivity) UnmarshalJSON(data []byte) error {
	var vec []float64
	if err := json.Unmarshal(data, &vec); err == nil {
		r.vector, r.rows = vec, nil
		return nil
	}

	var rows [][]float64
	if err := json.Unmarshal(data, &rows); err == nil {
		r.squeeze(rows)
		return nil
	}

	var cube [][][]float64
	if err := json.Unmarshal(data, &cube); err != nil {
		return fmt.Errorf("connectivity must be a vector or matrix: %w", err)
	}
	if len(cube) != 1 {
		return fmt.Errorf("connectivity holds %d stacked matrices, want 1", len(cube))
	}
	r.squeeze(cube[0])
	return nil
}

// squeeze drops singleton dimensions: a 1 x k or k x 1 matrix is really a
// vector. A 1 x 1 input stays a matrix, since a single channel has no pairs.
func (r *RawConnectivity) squeeze(rows [][]float64) {
	if len(rows) == 1 && len(rows[0]) > 1 {
		r.vector, r.rows = rows[0], nil
		return
	}
	if len(rows) > 1 {
		column := true
		for _, row := range rows {
			if len(row) != 1 {
				column = false
				break
			}
		}
		if column {
			vec := make([]float64, len(rows))
			for i, row := range rows {
				vec[i] = row[0]
			}
			r.vector, r.rows = vec, nil
			return
		}
	}
	r.rows, r.vector = rows, nil
}

func (r *RawConnectivity) check(n int) error {
	m, err := r.Matrix(n)
	if err != nil {
		return err
	}
	if rows, _ := m.Dims(); rows != n {
		return fmt.Errorf("matrix is %dx%d, want %dx%d", rows, rows, n, n)
	}
	return nil
}

// DatasetBand is one frequency band's connectivity estimate.
type DatasetBand struct {
	Band         string          `json:"band"`
	Connectivity RawConnectivity `json:"connectivity"`
}

// Dataset is the input to an analysis run: one connectivity estimate per
// band over a fixed, index-aligned channel set.
type Dataset struct {
	Subject  string        `json:"subject,omitempty"`
	Channels []string      `json:"channels"`
	Bands    []DatasetBand `json:"bands"`
}

// ValidationError describes one way a dataset fails its contract.
type ValidationError struct {
	Field   string      `json:"field"`
	Message string      `json:"message"`
	Value   interface{} `json:"value,omitempty"`
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidationErrors collects every contract violation found in one pass.
type ValidationErrors []ValidationError

func (e ValidationErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

func (e *ValidationErrors) add(field, message string, value interface{}) {
	*e = append(*e, ValidationError{Field: field, Message: message, Value: value})
}

// Validate checks the dataset against the analysis contract and returns
// every violation found, not just the first.
func (d *Dataset) Validate() error {
	var errs ValidationErrors

	n := len(d.Channels)
	if n == 0 {
		errs.add("channels", "at least one channel is required", nil)
	}
	seenChannel := make(map[string]bool)
	for i, ch := range d.Channels {
		field := fmt.Sprintf("channels[%d]", i)
		if ch == "" {
			errs.add(field, "channel name is empty", nil)
			continue
		}
		if seenChannel[ch] {
			errs.add(field, "duplicate channel name", ch)
		}
		seenChannel[ch] = true
	}

	if len(d.Bands) == 0 {
		errs.add("bands", "at least one band is required", nil)
	}
	seenBand := make(map[string]bool)
	for i, band := range d.Bands {
		field := fmt.Sprintf("bands[%d]", i)
		if band.Band == "" {
			errs.add(field+".band", "band name is empty", nil)
		} else if seenBand[band.Band] {
			errs.add(field+".band", "duplicate band name", band.Band)
		}
		seenBand[band.Band] = true

		if n > 0 {
			if err := band.Connectivity.check(n); err != nil {
				errs.add(field+".connectivity", err.Error(), nil)
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// ParseDataset decodes a dataset from JSON and validates it.
func ParseDataset(data []byte) (*Dataset, error) {
	var ds Dataset
	if err := json.Unmarshal(data, &ds); err != nil {
		return nil, fmt.Errorf("failed to parse dataset: %w", err)
	}
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("invalid dataset: %w", err)
	}
	return &ds, nil
}

// LoadDataset reads and validates a dataset file.
func LoadDataset(path string) (*Dataset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read dataset: %w", err)
	}
	return ParseDataset(data)
}
