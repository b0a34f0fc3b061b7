package scope

import (
	"context"
	"errors"
	"strings"

	"shelter-status/internal/domain/subjects"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrForbidden    = errors.New("forbidden")

	// ErrUnknownRole: rol no reconocido => fail closed, nunca open.
	ErrUnknownRole = errors.New("unknown role")
)

// Actor es la identidad autenticada tal como la entrega el Identity Directory.
type Actor struct {
	ID   string
	Role string
}

// Scope es el predicado de visibilidad de un actor: qué subjects puede
// leer o agregar. Es la ÚNICA frontera de autorización del core; no hay
// control por campo ni por evento debajo de esto.
type Scope struct {
	members map[string]struct{}
	list    []subjects.Subject
}

// Allows dice si el actor puede leer el ledger del subject dado.
func (s Scope) Allows(subjectID string) bool {
	_, ok := s.members[subjectID]
	return ok
}

// Subjects enumera el set alcanzable (para rosters y agregación).
func (s Scope) Subjects() []subjects.Subject {
	return s.list
}

func (s Scope) SubjectIDs() []string {
	ids := make([]string, 0, len(s.list))
	for _, sub := range s.list {
		ids = append(ids, sub.ID)
	}
	return ids
}

type Resolver struct {
	subjects *subjects.Service
}

func NewResolver(svc *subjects.Service) *Resolver {
	return &Resolver{subjects: svc}
}

// Resolve computa el scope de un actor:
//   - admin     => todos los subjects salvo admins (los admins no cuentan
//     como personal rastreable, aunque sí pueden escribir su propio estado)
//   - team_lead => subjects con TeamLeadID = actor.ID
//   - user      => solo él mismo
//   - otro rol  => ErrUnknownRole
func (r *Resolver) Resolve(ctx context.Context, actor Actor) (Scope, error) {
	actorID := strings.TrimSpace(actor.ID)
	if actorID == "" {
		return Scope{}, ErrInvalidInput
	}

	switch subjects.Role(actor.Role) {
	case subjects.RoleAdmin:
		list, err := r.subjects.ListTrackable(ctx)
		if err != nil {
			return Scope{}, err
		}
		return newScope(list), nil

	case subjects.RoleTeamLead:
		list, err := r.subjects.ListByTeamLead(ctx, actorID)
		if err != nil {
			return Scope{}, err
		}
		return newScope(list), nil

	case subjects.RoleUser:
		// Self-scope: el directorio puede no tener el perfil todavía
		// (el ledger referencia por id, no asume que el subject exista).
		sc := Scope{members: map[string]struct{}{actorID: {}}}
		if sub, err := r.subjects.GetByID(ctx, actorID); err == nil {
			sc.list = []subjects.Subject{sub}
		}
		return sc, nil

	default:
		return Scope{}, ErrUnknownRole
	}
}

func newScope(list []subjects.Subject) Scope {
	members := make(map[string]struct{}, len(list))
	for _, sub := range list {
		members[sub.ID] = struct{}{}
	}
	return Scope{members: members, list: list}
}
