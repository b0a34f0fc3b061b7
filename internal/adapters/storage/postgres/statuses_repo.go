package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"shelter-status/internal/domain/statuses"
)

type StatusesRepo struct {
	db *sql.DB
}

func NewStatusesRepo(db *sql.DB) *StatusesRepo {
	return &StatusesRepo{db: db}
}

// Insert agrega la fila y deja que la secuencia de la tabla asigne Seq
// (desempate de filas con igual recorded_at). Nunca hay UPDATE ni DELETE
// sobre status_events fuera de los resets administrativos.
func (r *StatusesRepo) Insert(ctx context.Context, e statuses.StatusEvent) (statuses.StatusEvent, error) {
	row := r.db.QueryRowContext(ctx, `
		INSERT INTO status_events (id, subject_id, in_shelter, safe_after_alarm, recorded_at)
		VALUES ($1,$2,$3,$4,$5)
		RETURNING seq
	`,
		e.ID,
		e.SubjectID,
		e.InShelter,
		e.SafeAfterAlarm,
		e.RecordedAt,
	)

	if err := row.Scan(&e.Seq); err != nil {
		return statuses.StatusEvent{}, err
	}
	return e, nil
}

func (r *StatusesRepo) Latest(ctx context.Context, subjectID string) (statuses.StatusEvent, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return statuses.StatusEvent{}, statuses.ErrNoStatus
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT id, subject_id, in_shelter, safe_after_alarm, recorded_at, seq
		FROM status_events
		WHERE subject_id = $1
		ORDER BY recorded_at DESC, seq DESC
		LIMIT 1
	`, subjectID)

	e, err := scanStatusEvent(row)
	if err == sql.ErrNoRows {
		return statuses.StatusEvent{}, statuses.ErrNoStatus
	}
	return e, err
}

func (r *StatusesRepo) LatestBySubjects(ctx context.Context, subjectIDs []string) (map[string]statuses.StatusEvent, error) {
	out := make(map[string]statuses.StatusEvent)
	if len(subjectIDs) == 0 {
		return out, nil
	}

	rows, err := r.db.QueryContext(ctx, `
		SELECT DISTINCT ON (subject_id)
			id, subject_id, in_shelter, safe_after_alarm, recorded_at, seq
		FROM status_events
		WHERE subject_id = ANY($1)
		ORDER BY subject_id, recorded_at DESC, seq DESC
	`, subjectIDs)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	for rows.Next() {
		e, err := scanStatusEvent(rows)
		if err != nil {
			return nil, err
		}
		out[e.SubjectID] = e
	}
	return out, rows.Err()
}

func (r *StatusesRepo) History(ctx context.Context, subjectID string, filter statuses.HistoryFilter) ([]statuses.StatusEvent, error) {
	subjectID = strings.TrimSpace(subjectID)
	if subjectID == "" {
		return nil, nil
	}

	sb := strings.Builder{}
	sb.WriteString(`
		SELECT id, subject_id, in_shelter, safe_after_alarm, recorded_at, seq
		FROM status_events
		WHERE subject_id = $1
	`)

	args := []any{subjectID}
	argN := 2

	if filter.Before != nil {
		sb.WriteString(fmt.Sprintf(" AND recorded_at < $%d", argN))
		args = append(args, *filter.Before)
		argN++
	}

	limit := filter.Limit
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	sb.WriteString(" ORDER BY recorded_at DESC, seq DESC")
	sb.WriteString(fmt.Sprintf(" LIMIT $%d", argN))
	args = append(args, limit)

	rows, err := r.db.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]statuses.StatusEvent, 0)
	for rows.Next() {
		e, err := scanStatusEvent(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *StatusesRepo) DeleteBySubject(ctx context.Context, subjectID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM status_events WHERE subject_id = $1
	`, subjectID)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func (r *StatusesRepo) DeleteAll(ctx context.Context) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		DELETE FROM status_events
	`)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

func scanStatusEvent(row rowScanner) (statuses.StatusEvent, error) {
	var e statuses.StatusEvent
	if err := row.Scan(
		&e.ID,
		&e.SubjectID,
		&e.InShelter,
		&e.SafeAfterAlarm,
		&e.RecordedAt,
		&e.Seq,
	); err != nil {
		return statuses.StatusEvent{}, err
	}
	return e, nil
}
