package subjects

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"shelter-status/internal/platform/validation"
)

var (
	ErrInvalidInput = errors.New("invalid input")
	ErrNotFound     = errors.New("not found")

	// ErrNotTeamLead: el TeamLeadID referenciado no tiene rol team_lead.
	ErrNotTeamLead = errors.New("referenced subject is not a team lead")
)

type Service struct {
	repo     Repository
	validate *validation.Validator
	now      func() time.Time
}

func NewService(repo Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validation.New(),
		now:      time.Now,
	}
}

type CreateInput struct {
	Name       string `validate:"required,min=1,max=120"`
	Location   string `validate:"required,min=1,max=120"`
	Role       string `validate:"required,trackable_role"`
	TeamLeadID string `validate:"omitempty,uuid4"`
}

func (s *Service) Create(ctx context.Context, in CreateInput) (Subject, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Location = strings.TrimSpace(in.Location)
	in.TeamLeadID = strings.TrimSpace(in.TeamLeadID)

	if err := s.validate.Validate(in); err != nil {
		return Subject{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	role, ok := ParseRole(in.Role)
	if !ok {
		return Subject{}, ErrInvalidInput
	}

	var teamLeadID *string
	if in.TeamLeadID != "" {
		if err := s.requireTeamLead(ctx, in.TeamLeadID); err != nil {
			return Subject{}, err
		}
		teamLeadID = &in.TeamLeadID
	}

	now := s.now()
	sub := Subject{
		ID:         uuid.NewString(),
		Name:       in.Name,
		Location:   in.Location,
		Role:       role,
		TeamLeadID: teamLeadID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	if err := s.repo.Create(ctx, sub); err != nil {
		return Subject{}, err
	}
	return sub, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (Subject, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return Subject{}, ErrInvalidInput
	}
	return s.repo.GetByID(ctx, id)
}

func (s *Service) ListByTeamLead(ctx context.Context, teamLeadID string) ([]Subject, error) {
	teamLeadID = strings.TrimSpace(teamLeadID)
	if teamLeadID == "" {
		return nil, ErrInvalidInput
	}
	return s.repo.ListByTeamLead(ctx, teamLeadID)
}

func (s *Service) ListTrackable(ctx context.Context) ([]Subject, error) {
	return s.repo.ListTrackable(ctx)
}

// AssignTeamLead reasigna la pertenencia de un subject a otro team_lead.
func (s *Service) AssignTeamLead(ctx context.Context, subjectID, teamLeadID string) (Subject, error) {
	subjectID = strings.TrimSpace(subjectID)
	teamLeadID = strings.TrimSpace(teamLeadID)

	if subjectID == "" || teamLeadID == "" {
		return Subject{}, ErrInvalidInput
	}

	sub, err := s.repo.GetByID(ctx, subjectID)
	if err != nil {
		return Subject{}, fmt.Errorf("%w: subject %s", ErrNotFound, subjectID)
	}

	if err := s.requireTeamLead(ctx, teamLeadID); err != nil {
		return Subject{}, err
	}

	sub.TeamLeadID = &teamLeadID
	sub.UpdatedAt = s.now()

	if err := s.repo.Update(ctx, sub); err != nil {
		return Subject{}, err
	}
	return sub, nil
}

// ProvisionRecord es un registro de alta ya validado por el colaborador de
// bulk-import (el parseo de planillas queda afuera del core).
type ProvisionRecord struct {
	Name     string `json:"name" validate:"required,min=1,max=120"`
	Location string `json:"location" validate:"required,min=1,max=120"`
}

// AssignmentRecord reasigna un subject a un team lead (alta masiva de admin).
type AssignmentRecord struct {
	SubjectID  string `json:"subject_id" validate:"required"`
	TeamLeadID string `json:"team_lead_id" validate:"required"`
}

// BulkResult acumula el resultado fila por fila de una operación masiva.
type BulkResult struct {
	SuccessCount int       `json:"success_count"`
	ErrorCount   int       `json:"error_count"`
	Errors       []string  `json:"errors"`
	Created      []Subject `json:"-"`
}

func (r *BulkResult) fail(row int, err error) {
	r.ErrorCount++
	r.Errors = append(r.Errors, fmt.Sprintf("row %d: %v", row+1, err))
}

// BulkProvision crea subjects en lote bajo un team_lead dueño.
// Cada fila se procesa independiente: una fila mala no aborta el lote.
func (s *Service) BulkProvision(ctx context.Context, records []ProvisionRecord, ownerTeamLeadID string) (BulkResult, error) {
	ownerTeamLeadID = strings.TrimSpace(ownerTeamLeadID)
	if ownerTeamLeadID == "" {
		return BulkResult{}, ErrInvalidInput
	}
	if err := s.requireTeamLead(ctx, ownerTeamLeadID); err != nil {
		return BulkResult{}, err
	}

	res := BulkResult{Errors: []string{}}
	for i, rec := range records {
		rec.Name = strings.TrimSpace(rec.Name)
		rec.Location = strings.TrimSpace(rec.Location)

		if err := s.validate.Validate(rec); err != nil {
			res.fail(i, err)
			continue
		}

		now := s.now()
		sub := Subject{
			ID:         uuid.NewString(),
			Name:       rec.Name,
			Location:   rec.Location,
			Role:       RoleUser,
			TeamLeadID: &ownerTeamLeadID,
			CreatedAt:  now,
			UpdatedAt:  now,
		}
		if err := s.repo.Create(ctx, sub); err != nil {
			res.fail(i, err)
			continue
		}
		res.SuccessCount++
		res.Created = append(res.Created, sub)
	}
	return res, nil
}

// BulkAssign reasigna subjects a team leads en lote (solo admin).
func (s *Service) BulkAssign(ctx context.Context, records []AssignmentRecord) (BulkResult, error) {
	res := BulkResult{Errors: []string{}}
	for i, rec := range records {
		rec.SubjectID = strings.TrimSpace(rec.SubjectID)
		rec.TeamLeadID = strings.TrimSpace(rec.TeamLeadID)

		if err := s.validate.Validate(rec); err != nil {
			res.fail(i, err)
			continue
		}

		if _, err := s.AssignTeamLead(ctx, rec.SubjectID, rec.TeamLeadID); err != nil {
			res.fail(i, err)
			continue
		}
		res.SuccessCount++
	}
	return res, nil
}

func (s *Service) requireTeamLead(ctx context.Context, teamLeadID string) error {
	lead, err := s.repo.GetByID(ctx, teamLeadID)
	if err != nil {
		return fmt.Errorf("%w: team lead %s", ErrNotFound, teamLeadID)
	}
	if lead.Role != RoleTeamLead {
		return ErrNotTeamLead
	}
	return nil
}
