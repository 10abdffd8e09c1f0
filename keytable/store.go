package keytable

import (
	"fmt"
	"os"
	"sort"

	"github.com/moffa90/go-ntrcard/blowfish"
)

// Store holds key tables by selector and hands out copies. It implements
// ntrcard.TableProvider.
type Store struct {
	tables map[blowfish.Selector]*blowfish.Table
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{tables: make(map[blowfish.Selector]*blowfish.Table)}
}

// Register stores a copy of t under sel, replacing any previous table.
func (s *Store) Register(sel blowfish.Selector, t *blowfish.Table) {
	c := *t
	s.tables[sel] = &c
}

// Load reads the blob at path, checks it against digest (hex BLAKE2b-256,
// empty to skip) and registers it under sel.
func (s *Store) Load(sel blowfish.Selector, path, digest string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s key table: %w", sel, err)
	}
	if err := verifyDigest(path, data, digest); err != nil {
		return err
	}

	t, err := ParseTable(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	s.Register(sel, t)
	return nil
}

// InitTable copies the table registered under sel into t.
func (s *Store) InitTable(t *blowfish.Table, sel blowfish.Selector) error {
	src, ok := s.tables[sel]
	if !ok {
		return &MissingTableError{Selector: sel}
	}
	*t = *src
	return nil
}

// Selectors returns the registered selectors in ascending order.
func (s *Store) Selectors() []blowfish.Selector {
	sels := make([]blowfish.Selector, 0, len(s.tables))
	for sel := range s.tables {
		sels = append(sels, sel)
	}
	sort.Slice(sels, func(i, j int) bool { return sels[i] < sels[j] })
	return sels
}
