package reports

import (
	"context"
	"sort"
	"time"

	"shelter-status/internal/domain/statuses"
	"shelter-status/internal/domain/subjects"
	"shelter-status/internal/platform/timeutil"
)

type Service struct {
	statuses *statuses.Service
}

func NewService(statusesSvc *statuses.Service) *Service {
	return &Service{statuses: statusesSvc}
}

// Summarize agrupa el set de subjects por ubicación y cuenta, sobre el
// estado actual de cada uno, cuántos están en refugio y cuántos confirmaron
// estar a salvo. Un subject sin eventos suma al denominador con ambos
// contadores en cero. El orden por ubicación es estable para que los
// reportes sean reproducibles.
func (s *Service) Summarize(ctx context.Context, subs []subjects.Subject) ([]LocationSummary, error) {
	latest, err := s.statuses.LatestBySubjects(ctx, subjectIDs(subs))
	if err != nil {
		return nil, err
	}

	byLocation := make(map[string]*LocationSummary)
	for _, sub := range subs {
		g, ok := byLocation[sub.Location]
		if !ok {
			g = &LocationSummary{Location: sub.Location}
			byLocation[sub.Location] = g
		}

		g.SubjectCount++

		e := latest[sub.ID]
		if e.InShelter != nil && *e.InShelter {
			g.InShelterCount++
		}
		if e.SafeAfterAlarm != nil && *e.SafeAfterAlarm {
			g.SafeAfterAlarmCount++
		}
	}

	out := make([]LocationSummary, 0, len(byLocation))
	for _, g := range byLocation {
		out = append(out, *g)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Location < out[j].Location
	})
	return out, nil
}

// Members arma el roster con el último estado por subject, ordenado por nombre.
func (s *Service) Members(ctx context.Context, subs []subjects.Subject) ([]MemberStatus, error) {
	latest, err := s.statuses.LatestBySubjects(ctx, subjectIDs(subs))
	if err != nil {
		return nil, err
	}

	out := make([]MemberStatus, 0, len(subs))
	for _, sub := range subs {
		m := MemberStatus{
			ID:       sub.ID,
			Name:     sub.Name,
			Location: sub.Location,
		}

		e := latest[sub.ID]
		m.InShelter = e.InShelter
		m.SafeAfterAlarm = e.SafeAfterAlarm
		if !e.RecordedAt.IsZero() {
			ts := e.RecordedAt
			m.LastUpdated = &ts
		}

		out = append(out, m)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// Rows produce las filas planas para el report collaborator, con los
// timestamps formateados en la zona de reporte.
func (s *Service) Rows(ctx context.Context, subs []subjects.Subject, loc *time.Location) ([]ReportRow, error) {
	members, err := s.Members(ctx, subs)
	if err != nil {
		return nil, err
	}

	out := make([]ReportRow, 0, len(members))
	for _, m := range members {
		var last time.Time
		if m.LastUpdated != nil {
			last = *m.LastUpdated
		}
		out = append(out, ReportRow{
			Name:           m.Name,
			Location:       m.Location,
			InShelter:      yesNo(m.InShelter),
			SafeAfterAlarm: yesNo(m.SafeAfterAlarm),
			LastUpdated:    timeutil.FormatReport(last, loc),
		})
	}
	return out, nil
}

func yesNo(v *bool) string {
	if v != nil && *v {
		return "Yes"
	}
	return "No"
}

func subjectIDs(subs []subjects.Subject) []string {
	ids := make([]string, 0, len(subs))
	for _, sub := range subs {
		ids = append(ids, sub.ID)
	}
	return ids
}
