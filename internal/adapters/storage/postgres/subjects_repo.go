package postgres

import (
	"context"
	"database/sql"
	"strings"

	"shelter-status/internal/domain/subjects"
)

type SubjectsRepo struct {
	db *sql.DB
}

func NewSubjectsRepo(db *sql.DB) *SubjectsRepo {
	return &SubjectsRepo{db: db}
}

func (r *SubjectsRepo) Create(ctx context.Context, s subjects.Subject) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO subjects (
			id, name, location, role, team_lead_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7)
	`,
		s.ID,
		s.Name,
		s.Location,
		string(s.Role),
		s.TeamLeadID,
		s.CreatedAt,
		s.UpdatedAt,
	)
	return err
}

func (r *SubjectsRepo) GetByID(ctx context.Context, id string) (subjects.Subject, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return subjects.Subject{}, ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, name, location, role, team_lead_id, created_at, updated_at
		FROM subjects
		WHERE id = $1
	`, id)

	s, err := scanSubject(row)
	if err == sql.ErrNoRows {
		return subjects.Subject{}, ErrNotFound
	}
	return s, err
}

func (r *SubjectsRepo) Update(ctx context.Context, s subjects.Subject) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE subjects
		SET name = $2, location = $3, role = $4, team_lead_id = $5, updated_at = $6
		WHERE id = $1
	`,
		s.ID,
		s.Name,
		s.Location,
		string(s.Role),
		s.TeamLeadID,
		s.UpdatedAt,
	)
	if err != nil {
		return err
	}

	n, _ := res.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *SubjectsRepo) ListByTeamLead(ctx context.Context, teamLeadID string) ([]subjects.Subject, error) {
	teamLeadID = strings.TrimSpace(teamLeadID)
	if teamLeadID == "" {
		return nil, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, role, team_lead_id, created_at, updated_at
		FROM subjects
		WHERE team_lead_id = $1
		ORDER BY name, id
	`, teamLeadID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubjects(rows)
}

func (r *SubjectsRepo) ListTrackable(ctx context.Context) ([]subjects.Subject, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT id, name, location, role, team_lead_id, created_at, updated_at
		FROM subjects
		WHERE role <> 'admin'
		ORDER BY name, id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectSubjects(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanSubject(row rowScanner) (subjects.Subject, error) {
	var s subjects.Subject
	var role string

	if err := row.Scan(
		&s.ID,
		&s.Name,
		&s.Location,
		&role,
		&s.TeamLeadID,
		&s.CreatedAt,
		&s.UpdatedAt,
	); err != nil {
		return subjects.Subject{}, err
	}

	s.Role = subjects.Role(role)
	return s, nil
}

func collectSubjects(rows *sql.Rows) ([]subjects.Subject, error) {
	out := make([]subjects.Subject, 0)
	for rows.Next() {
		s, err := scanSubject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
