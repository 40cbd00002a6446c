package store

import (
	"sort"
	"sync"

	"github.com/angelcm/commerce-insights-go/internal/models"
)

// MemoryStore holds the fetched warehouse rows per customer, one row
// per calendar day. It is the materialized input the analytics service
// computes over; persistence stays with the warehouse.
type MemoryStore struct {
	mu   sync.RWMutex
	rows map[string]map[string]models.MetricRow // customer -> date -> row
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		rows: make(map[string]map[string]models.MetricRow),
	}
}

// UpsertRow stores the row under its customer and date, replacing any
// earlier fetch of the same day. Replacement is what makes re-ingest
// both idempotent and able to pick up corrected warehouse values.
func (s *MemoryStore) UpsertRow(customer string, r models.MetricRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	byDate, ok := s.rows[customer]
	if !ok {
		byDate = make(map[string]models.MetricRow)
		s.rows[customer] = byDate
	}
	byDate[r.Date] = r
}

// Rows returns all rows for a customer sorted ascending by date.
func (s *MemoryStore) Rows(customer string) []models.MetricRow {
	s.mu.RLock()
	defer s.mu.RUnlock()
	byDate := s.rows[customer]
	out := make([]models.MetricRow, 0, len(byDate))
	for _, r := range byDate {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })
	return out
}

// Count reports how many rows are stored for a customer.
func (s *MemoryStore) Count(customer string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.rows[customer])
}
