package reconcile

import (
	"sync"

	"github.com/google/uuid"

	"contia/internal/domain"
)

// DraftStore holds in-progress drafts in memory. Drafts are session-scoped
// working state; they are never persisted and disappear on submission or
// process restart.
type DraftStore struct {
	mu     sync.RWMutex
	drafts map[uuid.UUID]*domain.Draft
}

// NewDraftStore creates an empty store.
func NewDraftStore() *DraftStore {
	return &DraftStore{drafts: make(map[uuid.UUID]*domain.Draft)}
}

// Put inserts or replaces a draft.
func (s *DraftStore) Put(d *domain.Draft) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.drafts[d.ID] = d
}

// Get returns a company's draft or domain.ErrDraftNotFound. Drafts of other
// companies are invisible.
func (s *DraftStore) Get(companyID, id uuid.UUID) (*domain.Draft, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	d, ok := s.drafts[id]
	if !ok || d.CompanyID != companyID {
		return nil, domain.ErrDraftNotFound
	}
	return d, nil
}

// Delete removes a draft. Missing drafts are not an error: submission and
// discard both end in the same state.
func (s *DraftStore) Delete(companyID, id uuid.UUID) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if d, ok := s.drafts[id]; ok && d.CompanyID == companyID {
		delete(s.drafts, id)
	}
}

// ListByCompany returns all drafts owned by a company.
func (s *DraftStore) ListByCompany(companyID uuid.UUID) []*domain.Draft {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []*domain.Draft
	for _, d := range s.drafts {
		if d.CompanyID == companyID {
			out = append(out, d)
		}
	}
	return out
}
