package domain

// AuthMethod describes how a caller authenticated with the API.
type AuthMethod string

const (
	AuthMethodJWT      AuthMethod = "jwt"
	AuthMethodDisabled AuthMethod = "disabled"
)

// Principal captures the authenticated admin behind a request.
type Principal struct {
	Subject    string     `json:"subject"`
	Email      string     `json:"email"`
	Name       string     `json:"name,omitempty"`
	Issuer     string     `json:"issuer,omitempty"`
	AuthMethod AuthMethod `json:"auth_method"`
}

// Actor returns the identifier recorded on rows the principal changes.
func (p Principal) Actor() string {
	if p.Email != "" {
		return p.Email
	}
	return p.Subject
}
