package reports

import "time"

// LocationSummary agrega el estado actual de un grupo de subjects por
// ubicación. unknown y false cuentan igual: solo true suma.
type LocationSummary struct {
	Location            string `json:"location"`
	InShelterCount      int    `json:"in_shelter_count"`
	SafeAfterAlarmCount int    `json:"safe_after_alarm_count"`
	SubjectCount        int    `json:"subject_count"`
}

// MemberStatus es una fila de roster: subject + su último estado.
type MemberStatus struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Location string `json:"location"`

	InShelter      *bool      `json:"in_shelter"`
	SafeAfterAlarm *bool      `json:"safe_after_alarm"`
	LastUpdated    *time.Time `json:"last_updated"`
}

// ReportRow es la forma plana que consume el report collaborator externo
// (él se encarga del encoding PDF/planilla byte a byte).
type ReportRow struct {
	Name           string `json:"name"`
	Location       string `json:"location"`
	InShelter      string `json:"in_shelter"`       // "Yes" / "No"
	SafeAfterAlarm string `json:"safe_after_alarm"` // "Yes" / "No"
	LastUpdated    string `json:"last_updated"`     // hora local de reporte, "" sin historia
}
