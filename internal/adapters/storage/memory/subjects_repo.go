package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"shelter-status/internal/domain/subjects"
)

var ErrNotFound = errors.New("not found")

type subjectsRepo struct {
	mu   sync.RWMutex
	byID map[string]subjects.Subject
}

func NewSubjectsRepo() subjects.Repository {
	return &subjectsRepo{
		byID: make(map[string]subjects.Subject),
	}
}

func (r *subjectsRepo) Create(ctx context.Context, s subjects.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if s.ID == "" {
		return errors.New("subject id required")
	}
	if _, exists := r.byID[s.ID]; exists {
		return errors.New("subject already exists")
	}

	r.byID[s.ID] = s
	return nil
}

func (r *subjectsRepo) GetByID(ctx context.Context, id string) (subjects.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.byID[id]
	if !ok {
		return subjects.Subject{}, ErrNotFound
	}
	return s, nil
}

func (r *subjectsRepo) Update(ctx context.Context, s subjects.Subject) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[s.ID]; !ok {
		return ErrNotFound
	}
	r.byID[s.ID] = s
	return nil
}

func (r *subjectsRepo) ListByTeamLead(ctx context.Context, teamLeadID string) ([]subjects.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subjects.Subject, 0)
	for _, s := range r.byID {
		if s.TeamLeadID != nil && *s.TeamLeadID == teamLeadID {
			out = append(out, s)
		}
	}

	sortByName(out)
	return out, nil
}

func (r *subjectsRepo) ListTrackable(ctx context.Context) ([]subjects.Subject, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]subjects.Subject, 0)
	for _, s := range r.byID {
		if s.Role == subjects.RoleAdmin {
			continue
		}
		out = append(out, s)
	}

	sortByName(out)
	return out, nil
}

// Orden estable por nombre (igual que el adapter de postgres).
func sortByName(list []subjects.Subject) {
	sort.Slice(list, func(i, j int) bool {
		if list[i].Name != list[j].Name {
			return list[i].Name < list[j].Name
		}
		return list[i].ID < list[j].ID
	})
}
