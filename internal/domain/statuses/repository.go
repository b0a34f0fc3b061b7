package statuses

import "context"

type Repository interface {
	// Insert agrega una fila al ledger y devuelve la fila con Seq asignado.
	// Nunca actualiza ni borra filas existentes.
	Insert(ctx context.Context, e StatusEvent) (StatusEvent, error)

	// Latest devuelve la fila más reciente del subject, o ErrNoStatus si no hay.
	Latest(ctx context.Context, subjectID string) (StatusEvent, error)

	// LatestBySubjects devuelve la fila más reciente por subject para el set dado.
	// Subjects sin historia simplemente no aparecen en el mapa.
	LatestBySubjects(ctx context.Context, subjectIDs []string) (map[string]StatusEvent, error)

	History(ctx context.Context, subjectID string, filter HistoryFilter) ([]StatusEvent, error)

	// DeleteBySubject / DeleteAll son el escape hatch administrativo de reset.
	// Devuelven la cantidad de filas eliminadas.
	DeleteBySubject(ctx context.Context, subjectID string) (int64, error)
	DeleteAll(ctx context.Context) (int64, error)
}
