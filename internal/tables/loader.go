package tables

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/maplepay/paycalc/internal/domain"
)

// LoadFile parses a single tax-table file (YAML or JSON by extension) and
// registers it in the store.
func (s *Store) LoadFile(filename string) error {
	data, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	var cfg domain.TaxYearConfig
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".json":
		if err := json.Unmarshal(data, &cfg); err != nil {
			return domain.NewConfigError("failed to parse %s: %v", filename, err)
		}
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return domain.NewConfigError("failed to parse %s: %v", filename, err)
		}
	default:
		return domain.NewConfigError("unsupported table file extension: %s", filename)
	}

	if err := s.Load(&cfg); err != nil {
		return fmt.Errorf("table file %s: %w", filename, err)
	}
	return nil
}

// LoadDir loads every .json/.yaml/.yml file in dir. At least one table must
// load; an empty directory is a config error, not a silent no-op.
func (s *Store) LoadDir(dir string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("failed to read table directory %s: %w", dir, err)
	}

	loaded := 0
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".json", ".yaml", ".yml":
			if err := s.LoadFile(filepath.Join(dir, entry.Name())); err != nil {
				return err
			}
			loaded++
		}
	}
	if loaded == 0 {
		return domain.NewConfigError("no tax table files found in %s", dir)
	}
	return nil
}
