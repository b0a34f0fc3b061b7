package subjects

// Role define la jerarquía de dos niveles: admin en la raíz,
// team_leads con cero o más users debajo.
type Role string

const (
	RoleUser     Role = "user"
	RoleTeamLead Role = "team_lead"
	RoleAdmin    Role = "admin"
)

func ParseRole(s string) (Role, bool) {
	switch Role(s) {
	case RoleUser, RoleTeamLead, RoleAdmin:
		return Role(s), true
	default:
		return "", false
	}
}
