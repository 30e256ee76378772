package surface

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rgoodman/kalshi-scan/internal/model"
)

// WriteSnapshot persists the surface artifact as indented JSON, writing to
// a temp file first so a crash never leaves a half-written snapshot.
func WriteSnapshot(path string, surf *Surface) error {
	data, err := json.MarshalIndent(surf, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal surface: %w", err)
	}

	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".surface-*.json")
	if err != nil {
		return fmt.Errorf("create temp snapshot: %w", err)
	}

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("write snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("close snapshot: %w", err)
	}

	if err := os.Rename(tmp.Name(), path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// LoadSnapshot reads a previously persisted surface artifact.
func LoadSnapshot(path string) (*Surface, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}

	var surf Surface
	if err := json.Unmarshal(data, &surf); err != nil {
		return nil, fmt.Errorf("parse snapshot: %w", err)
	}
	if surf.Markets == nil {
		surf.Markets = make(map[string]*model.Market)
	}
	return &surf, nil
}
