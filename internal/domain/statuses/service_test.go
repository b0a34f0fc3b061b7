package statuses

import (
	"context"
	"sync"
	"testing"
	"time"
)

// -------------------------
// Test repo (in-memory)
// -------------------------

type testRepo struct {
	mu     sync.Mutex
	events []StatusEvent
	seq    int64
}

func newTestRepo() *testRepo {
	return &testRepo{}
}

func (r *testRepo) Insert(ctx context.Context, e StatusEvent) (StatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.seq++
	e.Seq = r.seq
	r.events = append(r.events, e)
	return e, nil
}

func (r *testRepo) Latest(ctx context.Context, subjectID string) (StatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var latest StatusEvent
	found := false
	for _, e := range r.events {
		if e.SubjectID != subjectID {
			continue
		}
		if !found || e.RecordedAt.After(latest.RecordedAt) ||
			(e.RecordedAt.Equal(latest.RecordedAt) && e.Seq > latest.Seq) {
			latest = e
			found = true
		}
	}
	if !found {
		return StatusEvent{}, ErrNoStatus
	}
	return latest, nil
}

func (r *testRepo) LatestBySubjects(ctx context.Context, subjectIDs []string) (map[string]StatusEvent, error) {
	out := make(map[string]StatusEvent)
	for _, id := range subjectIDs {
		e, err := r.Latest(ctx, id)
		if err != nil {
			continue
		}
		out[id] = e
	}
	return out, nil
}

func (r *testRepo) History(ctx context.Context, subjectID string, filter HistoryFilter) ([]StatusEvent, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]StatusEvent, 0)
	for _, e := range r.events {
		if e.SubjectID != subjectID {
			continue
		}
		if filter.Before != nil && !e.RecordedAt.Before(*filter.Before) {
			continue
		}
		out = append(out, e)
	}

	// newest first
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}

	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (r *testRepo) DeleteBySubject(ctx context.Context, subjectID string) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	kept := r.events[:0]
	var n int64
	for _, e := range r.events {
		if e.SubjectID == subjectID {
			n++
			continue
		}
		kept = append(kept, e)
	}
	r.events = kept
	return n, nil
}

func (r *testRepo) DeleteAll(ctx context.Context) (int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := int64(len(r.events))
	r.events = nil
	return n, nil
}

// -------------------------
// Helpers
// -------------------------

func boolPtr(v bool) *bool { return &v }

func set(v bool) OptionalBool {
	return OptionalBool{Set: true, Value: boolPtr(v)}
}

func unset() OptionalBool {
	return OptionalBool{Set: true, Value: nil}
}

func eq(a, b *bool) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// -------------------------
// Tests
// -------------------------

func TestService_Append_CarryForward_MergesPartialFields(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	t1 := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t1 }

	if _, err := svc.Append(context.Background(), "subj-A", PartialUpdate{InShelter: set(true)}); err != nil {
		t.Fatalf("Append #1 error: %v", err)
	}

	svc.now = func() time.Time { return t1.Add(time.Minute) }
	e2, err := svc.Append(context.Background(), "subj-A", PartialUpdate{SafeAfterAlarm: set(true)})
	if err != nil {
		t.Fatalf("Append #2 error: %v", err)
	}

	// El evento devuelto ya trae el merge: no hace falta una segunda lectura.
	if !eq(e2.InShelter, boolPtr(true)) || !eq(e2.SafeAfterAlarm, boolPtr(true)) {
		t.Fatalf("expected merged event {true,true}, got {%v,%v}", e2.InShelter, e2.SafeAfterAlarm)
	}

	latest, err := svc.Latest(context.Background(), "subj-A")
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if !eq(latest.InShelter, boolPtr(true)) || !eq(latest.SafeAfterAlarm, boolPtr(true)) {
		t.Fatalf("expected latest {true,true}, got {%v,%v}", latest.InShelter, latest.SafeAfterAlarm)
	}
}

func TestService_Append_ExplicitNull_ClearsToUnknown(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Append(context.Background(), "subj-A", PartialUpdate{InShelter: set(true), SafeAfterAlarm: set(false)}); err != nil {
		t.Fatalf("Append #1 error: %v", err)
	}

	e, err := svc.Append(context.Background(), "subj-A", PartialUpdate{InShelter: unset()})
	if err != nil {
		t.Fatalf("Append #2 error: %v", err)
	}

	if e.InShelter != nil {
		t.Fatalf("expected in_shelter cleared to unknown, got %v", *e.InShelter)
	}
	// El otro campo se arrastra intacto.
	if !eq(e.SafeAfterAlarm, boolPtr(false)) {
		t.Fatalf("expected safe_after_alarm carried as false, got %v", e.SafeAfterAlarm)
	}
}

func TestService_Append_EmptyUpdate_CopiesPriorState(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	if _, err := svc.Append(context.Background(), "subj-A", PartialUpdate{InShelter: set(true)}); err != nil {
		t.Fatalf("Append #1 error: %v", err)
	}

	// Sin campos: fila nueva, contenido idéntico al estado previo.
	e, err := svc.Append(context.Background(), "subj-A", PartialUpdate{})
	if err != nil {
		t.Fatalf("Append #2 error: %v", err)
	}
	if !eq(e.InShelter, boolPtr(true)) || e.SafeAfterAlarm != nil {
		t.Fatalf("expected copy of prior state, got {%v,%v}", e.InShelter, e.SafeAfterAlarm)
	}

	history, err := svc.History(context.Background(), "subj-A", HistoryFilter{Limit: 10})
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(history) != 2 {
		t.Fatalf("expected 2 ledger rows, got %d", len(history))
	}
}

func TestService_Append_RepeatedUpdate_SameLatestMoreRows(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	upd := PartialUpdate{InShelter: set(true)}

	first, err := svc.Append(context.Background(), "subj-A", upd)
	if err != nil {
		t.Fatalf("Append #1 error: %v", err)
	}
	second, err := svc.Append(context.Background(), "subj-A", upd)
	if err != nil {
		t.Fatalf("Append #2 error: %v", err)
	}

	if !eq(first.InShelter, second.InShelter) || !eq(first.SafeAfterAlarm, second.SafeAfterAlarm) {
		t.Fatalf("repeating the same update must not change the merged state")
	}

	history, _ := svc.History(context.Background(), "subj-A", HistoryFilter{Limit: 10})
	if len(history) != 2 {
		t.Fatalf("expected 2 rows (ledger is append-only), got %d", len(history))
	}
}

func TestService_Latest_FoldEqualsHistoryMerge(t *testing.T) {
	// Propiedad: Latest() == fold del merge sobre la secuencia en orden.
	repo := newTestRepo()
	svc := NewService(repo)

	updates := []PartialUpdate{
		{InShelter: set(true)},
		{SafeAfterAlarm: set(true)},
		{},
		{InShelter: set(false)},
		{SafeAfterAlarm: unset()},
		{InShelter: set(true), SafeAfterAlarm: set(false)},
		{SafeAfterAlarm: set(true)},
	}

	var wantInShelter, wantSafe *bool
	for _, upd := range updates {
		if _, err := svc.Append(context.Background(), "subj-A", upd); err != nil {
			t.Fatalf("Append error: %v", err)
		}
		if upd.InShelter.Set {
			wantInShelter = upd.InShelter.Value
		}
		if upd.SafeAfterAlarm.Set {
			wantSafe = upd.SafeAfterAlarm.Value
		}
	}

	latest, err := svc.Latest(context.Background(), "subj-A")
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if !eq(latest.InShelter, wantInShelter) || !eq(latest.SafeAfterAlarm, wantSafe) {
		t.Fatalf("fold mismatch: got {%v,%v} want {%v,%v}",
			latest.InShelter, latest.SafeAfterAlarm, wantInShelter, wantSafe)
	}
}

func TestService_Latest_NoHistory_ReturnsSentinel(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	latest, err := svc.Latest(context.Background(), "subj-A")
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if latest.InShelter != nil || latest.SafeAfterAlarm != nil || !latest.RecordedAt.IsZero() {
		t.Fatalf("expected all-unknown sentinel, got %+v", latest)
	}
}

func TestService_Append_MonotonicTimestamps(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	t1 := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return t1 }

	first, err := svc.Append(context.Background(), "subj-A", PartialUpdate{InShelter: set(true)})
	if err != nil {
		t.Fatalf("Append #1 error: %v", err)
	}

	// Reloj retrocede (NTP, etc): la fila nueva no puede quedar antes que la previa.
	svc.now = func() time.Time { return t1.Add(-time.Hour) }
	second, err := svc.Append(context.Background(), "subj-A", PartialUpdate{SafeAfterAlarm: set(true)})
	if err != nil {
		t.Fatalf("Append #2 error: %v", err)
	}

	if second.RecordedAt.Before(first.RecordedAt) {
		t.Fatalf("timestamps must be monotonic per subject: %v < %v", second.RecordedAt, first.RecordedAt)
	}

	latest, _ := svc.Latest(context.Background(), "subj-A")
	if !eq(latest.SafeAfterAlarm, boolPtr(true)) || !eq(latest.InShelter, boolPtr(true)) {
		t.Fatalf("clamped append must still win as latest, got %+v", latest)
	}
}

func TestService_ConcurrentAppends_NoLostUpdate(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	const n = 25
	var wg sync.WaitGroup
	wg.Add(2 * n)
	for i := 0; i < n; i++ {
		go func() {
			defer wg.Done()
			_, _ = svc.Append(context.Background(), "subj-A", PartialUpdate{InShelter: set(true)})
		}()
		go func() {
			defer wg.Done()
			_, _ = svc.Append(context.Background(), "subj-A", PartialUpdate{SafeAfterAlarm: set(true)})
		}()
	}
	wg.Wait()

	// Si dos appends leyeran el mismo estado previo, uno pisaría al otro
	// y un campo quedaría en unknown.
	latest, err := svc.Latest(context.Background(), "subj-A")
	if err != nil {
		t.Fatalf("Latest error: %v", err)
	}
	if !eq(latest.InShelter, boolPtr(true)) || !eq(latest.SafeAfterAlarm, boolPtr(true)) {
		t.Fatalf("lost update: latest = {%v,%v}", latest.InShelter, latest.SafeAfterAlarm)
	}
}

func TestService_ResetAll_CountsAndClears(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	subjects := []string{"subj-A", "subj-B", "subj-C"}
	total := 0
	for i, id := range subjects {
		for j := 0; j <= i; j++ {
			if _, err := svc.Append(context.Background(), id, PartialUpdate{InShelter: set(true)}); err != nil {
				t.Fatalf("Append error: %v", err)
			}
			total++
		}
	}

	n, err := svc.ResetAll(context.Background())
	if err != nil {
		t.Fatalf("ResetAll error: %v", err)
	}
	if n != int64(total) {
		t.Fatalf("expected removed count %d, got %d", total, n)
	}

	for _, id := range subjects {
		latest, err := svc.Latest(context.Background(), id)
		if err != nil {
			t.Fatalf("Latest error: %v", err)
		}
		if latest.InShelter != nil || latest.SafeAfterAlarm != nil {
			t.Fatalf("expected sentinel after reset for %s, got %+v", id, latest)
		}
	}
}

func TestService_ResetSubject_OnlyTouchesTarget(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	_, _ = svc.Append(context.Background(), "subj-A", PartialUpdate{InShelter: set(true)})
	_, _ = svc.Append(context.Background(), "subj-A", PartialUpdate{SafeAfterAlarm: set(true)})
	_, _ = svc.Append(context.Background(), "subj-B", PartialUpdate{InShelter: set(true)})

	n, err := svc.ResetSubject(context.Background(), "subj-A")
	if err != nil {
		t.Fatalf("ResetSubject error: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected removed count 2, got %d", n)
	}

	latestB, _ := svc.Latest(context.Background(), "subj-B")
	if !eq(latestB.InShelter, boolPtr(true)) {
		t.Fatalf("reset of subj-A must not touch subj-B, got %+v", latestB)
	}
}

func TestService_History_NewestFirst(t *testing.T) {
	repo := newTestRepo()
	svc := NewService(repo)

	t1 := time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)
	for i := 0; i < 3; i++ {
		ts := t1.Add(time.Duration(i) * time.Minute)
		svc.now = func() time.Time { return ts }
		if _, err := svc.Append(context.Background(), "subj-A", PartialUpdate{InShelter: set(i%2 == 0)}); err != nil {
			t.Fatalf("Append error: %v", err)
		}
	}

	history, err := svc.History(context.Background(), "subj-A", HistoryFilter{Limit: 10})
	if err != nil {
		t.Fatalf("History error: %v", err)
	}
	if len(history) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(history))
	}
	for i := 1; i < len(history); i++ {
		if history[i].RecordedAt.After(history[i-1].RecordedAt) {
			t.Fatalf("history must be newest first")
		}
	}
}
