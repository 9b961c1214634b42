package domain

// Claim types understood by the service. Role claims from Azure AD arrive as a
// "roles" array and are normalised into individual ClaimRole entries.
const (
	ClaimName     = "name"
	ClaimRole     = "role"
	ClaimSubject  = "sub"
	ClaimObjectID = "oid"
)

// Roles recognised by the authorization policy.
const (
	RoleAdmin = "Admin"
	RoleUser  = "User"
)

// DefaultIdentity is recorded as creator when a principal carries no usable identifier.
const DefaultIdentity = "system"

// Claim is a typed key/value fact about a principal.
type Claim struct {
	Type  string `json:"type"`
	Value string `json:"value"`
}

// Principal is an authenticated identity plus its claim set. A nil *Principal
// is the anonymous caller.
type Principal struct {
	Name   string
	Claims []Claim
}

// NewPrincipal builds a principal carrying a name claim followed by extra claims.
func NewPrincipal(name string, claims ...Claim) *Principal {
	all := make([]Claim, 0, len(claims)+1)
	all = append(all, Claim{Type: ClaimName, Value: name})
	all = append(all, claims...)
	return &Principal{Name: name, Claims: all}
}

// IsAnonymous reports whether p represents an unauthenticated caller.
func (p *Principal) IsAnonymous() bool {
	return p == nil || (p.Name == "" && len(p.Claims) == 0)
}

// ExtractClaim returns the first claim of the given type. Absence is reported
// through ok and is not an error.
func ExtractClaim(p *Principal, claimType string) (Claim, bool) {
	if p == nil {
		return Claim{}, false
	}
	for _, c := range p.Claims {
		if c.Type == claimType {
			return c, true
		}
	}
	return Claim{}, false
}

// HasRole reports whether any role claim equals role exactly.
func HasRole(p *Principal, role string) bool {
	if p == nil {
		return false
	}
	for _, c := range p.Claims {
		if c.Type == ClaimRole && c.Value == role {
			return true
		}
	}
	return false
}

// RoleOf returns the first role claim value.
func RoleOf(p *Principal) (string, bool) {
	c, ok := ExtractClaim(p, ClaimRole)
	return c.Value, ok
}

// RolesOf returns every role claim value in order.
func RolesOf(p *Principal) []string {
	if p == nil {
		return nil
	}
	var roles []string
	for _, c := range p.Claims {
		if c.Type == ClaimRole {
			roles = append(roles, c.Value)
		}
	}
	return roles
}

// SubjectOf returns the subject claim value.
func SubjectOf(p *Principal) (string, bool) {
	c, ok := ExtractClaim(p, ClaimSubject)
	return c.Value, ok
}

// NameOf returns the display name, preferring the name claim over the struct field.
func NameOf(p *Principal) (string, bool) {
	if c, ok := ExtractClaim(p, ClaimName); ok && c.Value != "" {
		return c.Value, true
	}
	if p != nil && p.Name != "" {
		return p.Name, true
	}
	return "", false
}

// Identifier returns the stable identifier used for ownership: object id,
// then subject, then display name, then DefaultIdentity.
func Identifier(p *Principal) string {
	if c, ok := ExtractClaim(p, ClaimObjectID); ok && c.Value != "" {
		return c.Value
	}
	if sub, ok := SubjectOf(p); ok && sub != "" {
		return sub
	}
	if name, ok := NameOf(p); ok {
		return name
	}
	return DefaultIdentity
}
