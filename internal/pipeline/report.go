package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Result is the outcome of a single record. Immutable once appended to a
// Report.
type Result struct {
	Filename string  `json:"filename"`
	Success  bool    `json:"success"`
	Error    string  `json:"error,omitempty"`
	Duration float64 `json:"duration_s"`
}

// Report aggregates one batch run. It is owned by a single ProcessFolder
// invocation; results are appended in discovery order and never mutated
// afterward.
type Report struct {
	RunID      string   `json:"run_id"`
	Station    string   `json:"station"`
	StartedAt  string   `json:"started_at"`
	TotalFiles int      `json:"total_files"`
	Processed  int      `json:"processed"`
	Failed     int      `json:"failed"`
	Elapsed    float64  `json:"elapsed_s"`
	Results    []Result `json:"results"`
}

// Summary returns a human-readable account of the run, listing every
// failed filename with its error text.
func (r *Report) Summary() string {
	lines := []string{
		strings.Repeat("=", 50),
		"PIPELINE SUMMARY",
		strings.Repeat("=", 50),
		fmt.Sprintf("Total files found     : %d", r.TotalFiles),
		fmt.Sprintf("Successfully processed: %d", r.Processed),
		fmt.Sprintf("Failed                : %d", r.Failed),
		fmt.Sprintf("Total time            : %.2fs", r.Elapsed),
	}

	if r.Failed > 0 {
		lines = append(lines, "", "Failed files:")
		for _, res := range r.Results {
			if !res.Success {
				lines = append(lines, fmt.Sprintf("  - %s: %s", res.Filename, res.Error))
			}
		}
	}

	return strings.Join(lines, "\n")
}

// WriteJSON persists the report for downstream summary tooling, creating
// parent directories as needed.
func (r *Report) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("could not create reports directory: %w", err)
	}

	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("could not marshal report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("could not save report: %w", err)
	}

	return nil
}
