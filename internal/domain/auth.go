package domain

// AdminSubject is the fixed subject of every token; there is a single administrator.
const AdminSubject = "admin"

// TokenType discriminates access tokens from refresh tokens.
type TokenType string

const (
	TokenTypeAccess  TokenType = "access"
	TokenTypeRefresh TokenType = "refresh"
)

// Valid reports whether t is a known token type.
func (t TokenType) Valid() bool {
	return t == TokenTypeAccess || t == TokenTypeRefresh
}

// Principal is the identity a guard forwards to downstream handlers.
type Principal struct {
	UserID string
	Email  string
}

// AdminProfile is returned by the "me" endpoint.
type AdminProfile struct {
	ID    string
	Email string
	Name  string
}
