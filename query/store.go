package query

import (
	"fmt"
	"slices"
	"sync"
	"time"

	"civicsync-dashboard/models"
)

// Store is the ordered in-memory issue collection. Records are only ever
// replaced whole, by identity; nothing is deleted. Safe for concurrent use:
// writers are serialised and Replace checks that the record has not
// changed since the caller read it.
type Store struct {
	mu     sync.RWMutex
	issues []models.Issue
	index  map[string]int
}

// NewStore copies issues into a new store, keeping their order.
func NewStore(issues []models.Issue) (*Store, error) {
	s := &Store{
		issues: slices.Clone(issues),
		index:  make(map[string]int, len(issues)),
	}
	for i, issue := range s.issues {
		if _, dup := s.index[issue.ID]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateIssue, issue.ID)
		}
		s.index[issue.ID] = i
	}
	return s, nil
}

func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.issues)
}

// All returns a snapshot of every issue in store order.
func (s *Store) All() []models.Issue {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.issues)
}

func (s *Store) Get(id string) (models.Issue, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i, ok := s.index[id]
	if !ok {
		return models.Issue{}, false
	}
	return s.issues[i], true
}

// Replace swaps in updated for the record with the same ID, provided the
// stored record's UpdatedAt still equals expectedUpdatedAt.
func (s *Store) Replace(updated models.Issue, expectedUpdatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	i, ok := s.index[updated.ID]
	if !ok {
		return fmt.Errorf("%w: %s", ErrIssueNotFound, updated.ID)
	}
	if !s.issues[i].UpdatedAt.Equal(expectedUpdatedAt) {
		return fmt.Errorf("%w: %s", ErrConflict, updated.ID)
	}
	s.issues[i] = updated
	return nil
}
