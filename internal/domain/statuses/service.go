package statuses

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
)

var (
	ErrInvalidInput = errors.New("invalid input")

	// ErrNoStatus lo devuelven los repos cuando un subject no tiene filas.
	// El Service lo traduce al sentinel all-unknown, nunca llega al handler.
	ErrNoStatus = errors.New("no status recorded")
)

type Service struct {
	repo Repository
	now  func() time.Time

	// Serializa los Appends por subject: dos appends concurrentes no pueden
	// leer el mismo "estado previo" y pisarse (lost update). Las lecturas
	// no pasan por acá.
	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:  repo,
		now:   time.Now,
		locks: make(map[string]*sync.Mutex),
	}
}

func (s *Service) subjectLock(subjectID string) *sync.Mutex {
	s.locksMu.Lock()
	defer s.locksMu.Unlock()

	mu, ok := s.locks[subjectID]
	if !ok {
		mu = &sync.Mutex{}
		s.locks[subjectID] = mu
	}
	return mu
}

// Append registra un cambio de estado con merge carry-forward: cada campo
// toma el valor del partial update si vino, o el del estado previo si no.
// La fila insertada queda como snapshot completo, así "última fila" es
// siempre el estado actual. Devuelve la fila creada (resultado del merge)
// para que el caller sincronice sin una segunda lectura.
func (s *Service) Append(ctx context.Context, subjectID string, upd PartialUpdate) (StatusEvent, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return StatusEvent{}, ErrInvalidInput
	}

	mu := s.subjectLock(subjectID)
	mu.Lock()
	defer mu.Unlock()

	prev, err := s.repo.Latest(ctx, subjectID)
	if err != nil && !errors.Is(err, ErrNoStatus) {
		return StatusEvent{}, err
	}

	e := StatusEvent{
		ID:             uuid.NewString(),
		SubjectID:      subjectID,
		InShelter:      prev.InShelter,
		SafeAfterAlarm: prev.SafeAfterAlarm,
	}
	if upd.InShelter.Set {
		e.InShelter = upd.InShelter.Value
	}
	if upd.SafeAfterAlarm.Set {
		e.SafeAfterAlarm = upd.SafeAfterAlarm.Value
	}

	// Timestamp del servidor, nunca retrocede respecto a la última fila.
	ts := s.now().UTC()
	if !prev.RecordedAt.IsZero() && ts.Before(prev.RecordedAt) {
		ts = prev.RecordedAt
	}
	e.RecordedAt = ts

	return s.repo.Insert(ctx, e)
}

// Latest devuelve la fila más reciente, o el sentinel all-unknown
// (ambos campos nil, RecordedAt cero) si el subject no tiene historia.
// Historia vacía NO es un error.
func (s *Service) Latest(ctx context.Context, subjectID string) (StatusEvent, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return StatusEvent{}, ErrInvalidInput
	}

	e, err := s.repo.Latest(ctx, subjectID)
	if errors.Is(err, ErrNoStatus) {
		return StatusEvent{SubjectID: subjectID}, nil
	}
	if err != nil {
		return StatusEvent{}, err
	}
	return e, nil
}

// LatestBySubjects resuelve el estado actual de un set de subjects de una vez.
// Subjects sin eventos quedan con el sentinel all-unknown.
func (s *Service) LatestBySubjects(ctx context.Context, subjectIDs []string) (map[string]StatusEvent, error) {
	latest, err := s.repo.LatestBySubjects(ctx, subjectIDs)
	if err != nil {
		return nil, err
	}

	out := make(map[string]StatusEvent, len(subjectIDs))
	for _, id := range subjectIDs {
		if e, ok := latest[id]; ok {
			out[id] = e
			continue
		}
		out[id] = StatusEvent{SubjectID: id}
	}
	return out, nil
}

func (s *Service) History(ctx context.Context, subjectID string, filter HistoryFilter) ([]StatusEvent, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.History(ctx, subjectID, filter)
}

// ResetSubject descarta la historia de un subject (operación administrativa,
// no forma parte del flujo normal). Devuelve la cantidad de filas eliminadas.
func (s *Service) ResetSubject(ctx context.Context, subjectID string) (int64, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return 0, ErrInvalidInput
	}

	mu := s.subjectLock(subjectID)
	mu.Lock()
	defer mu.Unlock()

	return s.repo.DeleteBySubject(ctx, subjectID)
}

// ResetAll descarta toda la historia del ledger.
func (s *Service) ResetAll(ctx context.Context) (int64, error) {
	return s.repo.DeleteAll(ctx)
}
