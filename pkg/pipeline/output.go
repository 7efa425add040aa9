package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// WriteReport encodes the report as JSON, indented when output.indent is set.
func (p *Pipeline) WriteReport(w io.Writer, r *Report) error {
	enc := json.NewEncoder(w)
	if p.cfg.GetBool("output.indent") {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("failed to encode report: %w", err)
	}
	return nil
}

// SaveReport writes the report to a file.
func (p *Pipeline) SaveReport(path string, r *Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()
	return p.WriteReport(f, r)
}
