package auth

// Claims representa la identidad resuelta por el Identity Directory.
// El core confía en esta tripleta sin re-verificar.
type Claims struct {
	UserID     string
	Role       string // user, team_lead, admin
	TeamLeadID string // vacío para team_leads y admin
}
