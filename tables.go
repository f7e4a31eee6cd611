package equity

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Federal is the region of the federal tax tables.
const Federal = "federal"

// TableQuery identifies a tax table.
type TableQuery struct {
	Year         int
	Region       string // a state, "district of columbia", or Federal.
	Status       FilingStatus
	CapitalGains bool // long-term capital-gains rates instead of income rates, federal only.
}

// TaxTable is a standard deduction and the brackets it applies before.
type TaxTable struct {
	Deduction Money
	Brackets  Brackets
}

// TaxTableProvider retrieves tax tables.
//
// Lookup fails with ErrInvalidRegion for an unknown region or for capital
// gains in a region other than Federal. A provider may report a known region
// without the requested table with ErrMissingTable. A year after the latest
// available one is served the latest table.
type TaxTableProvider interface {
	Lookup(ctx context.Context, q TableQuery) (TaxTable, error)
}

// NormalizeRegion returns the canonical region name: lower case, words
// separated by "_".
func NormalizeRegion(region string) string {
	return strings.Join(strings.Fields(strings.ToLower(region)), "_")
}

// Check validates the query's region and normalizes it.
func (q TableQuery) Check() (TableQuery, error) {
	q.Region = NormalizeRegion(q.Region)
	if q.Region == "" {
		return q, fmt.Errorf("%w: missing region", ErrInvalidRegion)
	}
	if q.CapitalGains && q.Region != Federal {
		return q, fmt.Errorf("%w: capital gains rates only exist for %q, not %q", ErrInvalidRegion, Federal, q.Region)
	}
	return q, nil
}

// MemoryTables is an in-memory TaxTableProvider. It is safe for concurrent use.
type MemoryTables struct {
	mu     sync.RWMutex
	tables map[TableQuery]TaxTable
	latest int
}

// NewMemoryTables returns an empty provider.
func NewMemoryTables() *MemoryTables {
	return &MemoryTables{tables: make(map[TableQuery]TaxTable)}
}

// Add registers the table for q.
func (m *MemoryTables) Add(q TableQuery, t TaxTable) error {
	q, err := q.Check()
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.tables[q] = t
	m.latest = max(m.latest, q.Year)
	return nil
}

// Lookup implements TaxTableProvider.
func (m *MemoryTables) Lookup(_ context.Context, q TableQuery) (TaxTable, error) {
	q, err := q.Check()
	if err != nil {
		return TaxTable{}, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()
	q.Year = min(q.Year, m.latest)
	t, ok := m.tables[q]
	if !ok && !m.hasRegion(q.Region) {
		return TaxTable{}, fmt.Errorf("%w: no %s tables", ErrInvalidRegion, q.Region)
	}
	if !ok {
		return TaxTable{}, fmt.Errorf("%w: no %s table for %d %s", ErrMissingTable, q.Region, q.Year, q.Status)
	}
	return t, nil
}

// hasRegion reports whether any table of region was added. m.mu must be held.
func (m *MemoryTables) hasRegion(region string) bool {
	for q := range m.tables {
		if q.Region == region {
			return true
		}
	}
	return false
}
