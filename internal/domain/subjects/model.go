package subjects

import "time"

// Subject representa una persona rastreada por el sistema.
// Las credenciales (username/password) viven en el Identity Directory,
// acá solo está el perfil que el core necesita.
type Subject struct {
	ID string

	Name     string
	Location string
	Role     Role

	// TeamLeadID apunta al team_lead dueño; nil para team_leads y admin.
	// Invariante: si no es nil, debe referenciar un Subject con Role = team_lead.
	TeamLeadID *string

	CreatedAt time.Time
	UpdatedAt time.Time
}
