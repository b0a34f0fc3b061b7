package memory

import (
	"context"
	"errors"
	"sort"
	"sync"

	"shelter-status/internal/domain/statuses"
)

type statusesRepo struct {
	mu        sync.RWMutex
	bySubject map[string][]statuses.StatusEvent
	seq       int64
}

func NewStatusesRepo() statuses.Repository {
	return &statusesRepo{
		bySubject: make(map[string][]statuses.StatusEvent),
	}
}

// Insert es append puro: nunca toca filas anteriores.
func (r *statusesRepo) Insert(ctx context.Context, e statuses.StatusEvent) (statuses.StatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if e.ID == "" || e.SubjectID == "" {
		return statuses.StatusEvent{}, errors.New("event id and subject id required")
	}

	r.seq++
	e.Seq = r.seq
	r.bySubject[e.SubjectID] = append(r.bySubject[e.SubjectID], e)
	return e, nil
}

func (r *statusesRepo) Latest(ctx context.Context, subjectID string) (statuses.StatusEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	events := r.bySubject[subjectID]
	if len(events) == 0 {
		return statuses.StatusEvent{}, statuses.ErrNoStatus
	}

	latest := events[0]
	for _, e := range events[1:] {
		if newer(e, latest) {
			latest = e
		}
	}
	return latest, nil
}

func (r *statusesRepo) LatestBySubjects(ctx context.Context, subjectIDs []string) (map[string]statuses.StatusEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make(map[string]statuses.StatusEvent)
	for _, id := range subjectIDs {
		events := r.bySubject[id]
		if len(events) == 0 {
			continue
		}
		latest := events[0]
		for _, e := range events[1:] {
			if newer(e, latest) {
				latest = e
			}
		}
		out[id] = latest
	}
	return out, nil
}

func (r *statusesRepo) History(ctx context.Context, subjectID string, filter statuses.HistoryFilter) ([]statuses.StatusEvent, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}

	out := make([]statuses.StatusEvent, 0)
	for _, e := range r.bySubject[subjectID] {
		if filter.Before != nil && !e.RecordedAt.Before(*filter.Before) {
			continue
		}
		out = append(out, e)
	}

	// Más reciente primero; empates por orden de inserción.
	sort.Slice(out, func(i, j int) bool {
		return newer(out[i], out[j])
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (r *statusesRepo) DeleteBySubject(ctx context.Context, subjectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.bySubject[subjectID]))
	delete(r.bySubject, subjectID)
	return n, nil
}

func (r *statusesRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var n int64
	for _, events := range r.bySubject {
		n += int64(len(events))
	}
	r.bySubject = make(map[string][]statuses.StatusEvent)
	return n, nil
}

func newer(a, b statuses.StatusEvent) bool {
	if !a.RecordedAt.Equal(b.RecordedAt) {
		return a.RecordedAt.After(b.RecordedAt)
	}
	return a.Seq > b.Seq
}
