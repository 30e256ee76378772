package scan

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// Report is the persisted contradictions artifact. It is replaced wholesale
// by every scan run.
type Report struct {
	GeneratedAt    time.Time           `json:"generated_at"`
	RunID          string              `json:"run_id"`
	ScanCounts     Counts              `json:"scan_counts"`
	Contradictions []model.Opportunity `json:"contradictions"`
}

// NewReport wraps a scan result into the artifact form.
func NewReport(opps []model.Opportunity, counts Counts) *Report {
	return &Report{
		GeneratedAt:    time.Now().UTC(),
		RunID:          uuid.NewString(),
		ScanCounts:     counts,
		Contradictions: opps,
	}
}

// WriteReport persists the report as indented JSON via temp-file rename.
func WriteReport(path string, report *Report) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal report: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".contradictions-*.json")
	if err != nil {
		return fmt.Errorf("create temp report: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write report: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close report: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename report: %w", err)
	}
	return nil
}

// LoadReport reads a previously persisted contradictions artifact.
func LoadReport(path string) (*Report, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read report: %w", err)
	}

	var report Report
	if err := json.Unmarshal(data, &report); err != nil {
		return nil, fmt.Errorf("parse report: %w", err)
	}
	return &report, nil
}
