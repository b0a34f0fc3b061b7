package subjects

import "context"

type Repository interface {
	Create(ctx context.Context, s Subject) error
	GetByID(ctx context.Context, id string) (Subject, error)
	Update(ctx context.Context, s Subject) error
	ListByTeamLead(ctx context.Context, teamLeadID string) ([]Subject, error)

	// ListTrackable lista todos los subjects con rol != admin.
	ListTrackable(ctx context.Context) ([]Subject, error)
}
