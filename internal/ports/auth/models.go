package auth

// Claims representa la identidad extraída del token.
// Role viaja como string crudo; los handlers lo validan contra el set de
// roles del dominio.
type Claims struct {
	UserID         string
	Email          string
	OrganizationID string
	Role           string
}
