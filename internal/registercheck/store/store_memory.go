// Package store persists register checks and their raw result payloads.
//
// Stores are pure I/O. Lifecycle rules live on the model and in the service;
// the store only enforces the conditional versioned write.
package store

import (
	"context"
	"slices"
	"sort"
	"sync"
	"time"

	"regcheck/internal/registercheck/models"
	id "regcheck/pkg/domain"
	"regcheck/pkg/platform/sentinel"
)

// InMemoryStore is a mutex-guarded store for tests and STORE_DRIVER=memory.
type InMemoryStore struct {
	mu      sync.RWMutex
	checks  map[id.CorrelationID]models.RegisterCheck
	results map[id.CorrelationID][]byte
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		checks:  make(map[id.CorrelationID]models.RegisterCheck),
		results: make(map[id.CorrelationID][]byte),
	}
}

func (s *InMemoryStore) Create(_ context.Context, c *models.RegisterCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.checks[c.CorrelationID]; ok {
		return sentinel.ErrConflict
	}
	s.checks[c.CorrelationID] = *c
	return nil
}

// Save writes c only if the stored version still equals c.Version, then advances it.
func (s *InMemoryStore) Save(_ context.Context, c *models.RegisterCheck) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	cur, ok := s.checks[c.CorrelationID]
	if !ok {
		return sentinel.ErrNotFound
	}
	if cur.Version != c.Version {
		return sentinel.ErrStaleVersion
	}
	c.Version++
	s.checks[c.CorrelationID] = *c
	return nil
}

func (s *InMemoryStore) FindByCorrelationID(_ context.Context, cid id.CorrelationID) (*models.RegisterCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.checks[cid]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &c, nil
}

func (s *InMemoryStore) FindBySourceCorrelationID(_ context.Context, st models.SourceType, sourceCorrelationID string) (*models.RegisterCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var found *models.RegisterCheck
	for _, c := range s.checks {
		if c.SourceType == st && c.SourceCorrelationID == sourceCorrelationID {
			if found == nil || c.CreatedAt.Before(found.CreatedAt) {
				cp := c
				found = &cp
			}
		}
	}
	if found == nil {
		return nil, sentinel.ErrNotFound
	}
	return found, nil
}

// FindPending returns pending checks in codes, oldest first. limit <= 0 means no limit.
func (s *InMemoryStore) FindPending(_ context.Context, codes []id.JurisdictionCode, limit int) ([]*models.RegisterCheck, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.RegisterCheck, 0)
	for _, c := range s.checks {
		if c.Status.IsPending() && slices.Contains(codes, c.JurisdictionCode) {
			cp := c
			out = append(out, &cp)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID.String() < out[j].ID.String()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

// FindStaleSince groups pending checks created before cutoff by jurisdiction,
// largest group first. Excluded jurisdictions are omitted.
func (s *InMemoryStore) FindStaleSince(_ context.Context, cutoff time.Time, excluded []id.JurisdictionCode) ([]models.JurisdictionStaleness, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	groups := make(map[id.JurisdictionCode]*models.JurisdictionStaleness)
	for _, c := range s.checks {
		if !c.Status.IsPending() || !c.CreatedAt.Before(cutoff) || slices.Contains(excluded, c.JurisdictionCode) {
			continue
		}
		g, ok := groups[c.JurisdictionCode]
		if !ok {
			g = &models.JurisdictionStaleness{JurisdictionCode: c.JurisdictionCode, OldestPendingAt: c.CreatedAt}
			groups[c.JurisdictionCode] = g
		}
		g.StaleCount++
		if c.CreatedAt.Before(g.OldestPendingAt) {
			g.OldestPendingAt = c.CreatedAt
		}
	}
	out := make([]models.JurisdictionStaleness, 0, len(groups))
	for _, g := range groups {
		out = append(out, *g)
	}
	sortStaleness(out)
	return out, nil
}

// LastTerminalByJurisdiction returns the latest result time per jurisdiction.
func (s *InMemoryStore) LastTerminalByJurisdiction(_ context.Context, excluded []id.JurisdictionCode) (map[id.JurisdictionCode]time.Time, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[id.JurisdictionCode]time.Time)
	for _, c := range s.checks {
		if c.MatchResultSentAt == nil || slices.Contains(excluded, c.JurisdictionCode) {
			continue
		}
		if last, ok := out[c.JurisdictionCode]; !ok || c.MatchResultSentAt.After(last) {
			out[c.JurisdictionCode] = *c.MatchResultSentAt
		}
	}
	return out, nil
}

// DeleteBySourceReference removes matching checks and their result payloads.
// Deleting nothing is not an error.
func (s *InMemoryStore) DeleteBySourceReference(_ context.Context, st models.SourceType, ref string, code id.JurisdictionCode) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	deleted := 0
	for cid, c := range s.checks {
		if c.SourceType == st && c.SourceReference == ref && c.JurisdictionCode == code {
			delete(s.checks, cid)
			delete(s.results, cid)
			deleted++
		}
	}
	return deleted, nil
}

func (s *InMemoryStore) SaveResultData(_ context.Context, cid id.CorrelationID, payload []byte, _ time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.results[cid] = slices.Clone(payload)
	return nil
}

// ResultData returns the stored payload for cid.
func (s *InMemoryStore) ResultData(cid id.CorrelationID) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.results[cid]
	return b, ok
}

// ArchiveBefore moves match outcomes recorded before cutoff to ARCHIVED.
func (s *InMemoryStore) ArchiveBefore(_ context.Context, cutoff, now time.Time) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	archived := 0
	for cid, c := range s.checks {
		if !c.Status.IsOutcome() || c.MatchResultSentAt == nil || !c.MatchResultSentAt.Before(cutoff) {
			continue
		}
		if err := c.Archive(now); err != nil {
			continue
		}
		c.Version++
		s.checks[cid] = c
		archived++
	}
	return archived, nil
}

func sortStaleness(rows []models.JurisdictionStaleness) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].StaleCount != rows[j].StaleCount {
			return rows[i].StaleCount > rows[j].StaleCount
		}
		return rows[i].JurisdictionCode < rows[j].JurisdictionCode
	})
}
