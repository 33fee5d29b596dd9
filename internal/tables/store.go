// Package tables loads and serves the statutory tax tables the engine
// computes against. Tables are authored externally as YAML or JSON; this
// package only parses, validates and indexes them. A loaded config is
// immutable and safe to share across workers.
package tables

import (
	"fmt"
	"sort"

	"github.com/maplepay/paycalc/internal/domain"
)

// Store is an immutable-once-loaded lookup of tax-year configs keyed by
// (year, edition). Load everything up front, then share freely; Lookup does
// no locking because nothing mutates after loading.
type Store struct {
	configs map[string]*domain.TaxYearConfig
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{configs: make(map[string]*domain.TaxYearConfig)}
}

// Load validates cfg and registers it. Registering the same (year, edition)
// twice is a config error: editions are facts, not preferences.
func (s *Store) Load(cfg *domain.TaxYearConfig) error {
	if err := Validate(cfg); err != nil {
		return err
	}
	key := cfg.Key()
	if _, exists := s.configs[key]; exists {
		return domain.NewConfigError("duplicate tax table for %s", key)
	}
	s.configs[key] = cfg
	return nil
}

// Lookup returns the config for (year, edition).
func (s *Store) Lookup(year int, edition domain.Edition) (*domain.TaxYearConfig, error) {
	key := fmt.Sprintf("%d/%s", year, edition)
	cfg, ok := s.configs[key]
	if !ok {
		return nil, domain.NewConfigError("no tax table loaded for %s", key)
	}
	return cfg, nil
}

// Editions lists the loaded (year, edition) keys in sorted order.
func (s *Store) Editions() []string {
	keys := make([]string, 0, len(s.configs))
	for k := range s.configs {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Len returns the number of loaded editions.
func (s *Store) Len() int { return len(s.configs) }
