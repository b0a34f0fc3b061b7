package statuses

import "time"

// StatusEvent es una fila inmutable del ledger. Cada fila ya trae el
// snapshot completo mergeado (carry-forward en escritura), así que la fila
// más reciente ES el estado actual del subject.
type StatusEvent struct {
	ID        string
	SubjectID string

	// Tri-estado: nil = unknown/sin confirmar, true/false = reportado.
	InShelter      *bool
	SafeAfterAlarm *bool

	// RecordedAt lo asigna el servidor, monótono por subject.
	RecordedAt time.Time

	// Seq desempata filas con el mismo RecordedAt (orden de inserción).
	// Lo asigna el storage, no el caller.
	Seq int64
}

// HistoryFilter pagina la historia de un subject (más reciente primero).
type HistoryFilter struct {
	Limit  int
	Before *time.Time
}
