package timeutil

import (
	"os"
	"strings"
	"time"
)

// DefaultZone es la zona horaria en la que se formatean los reportes.
const DefaultZone = "Asia/Jerusalem"

const reportLayout = "2006-01-02 15:04:05"

// ReportLocation resuelve la zona de reportes desde REPORT_TZ.
// Si el nombre es inválido o falta tzdata, cae a UTC.
func ReportLocation() *time.Location {
	name := strings.TrimSpace(os.Getenv("REPORT_TZ"))
	if name == "" {
		name = DefaultZone
	}
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// FormatReport formatea un timestamp para filas de reporte ("2006-01-02 15:04:05"
// en la zona dada). Devuelve "" para el cero value (sujeto sin eventos).
func FormatReport(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(reportLayout)
}
