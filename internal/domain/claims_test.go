package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractClaim(t *testing.T) {
	p := NewPrincipal("alice", Claim{Type: ClaimRole, Value: "User"}, Claim{Type: ClaimRole, Value: "Auditor"})

	c, ok := ExtractClaim(p, ClaimRole)
	require.True(t, ok)
	assert.Equal(t, "User", c.Value)

	_, ok = ExtractClaim(p, ClaimObjectID)
	assert.False(t, ok)

	_, ok = ExtractClaim(nil, ClaimName)
	assert.False(t, ok)
}

func TestHasRole(t *testing.T) {
	p := NewPrincipal("alice", Claim{Type: ClaimRole, Value: "User"}, Claim{Type: ClaimRole, Value: RoleAdmin})

	assert.True(t, HasRole(p, RoleAdmin))
	assert.True(t, HasRole(p, "User"))
	assert.False(t, HasRole(p, "admin"), "role match is case-sensitive")
	assert.False(t, HasRole(nil, RoleAdmin))
	assert.Equal(t, []string{"User", RoleAdmin}, RolesOf(p))
}

func TestIdentifier_Fallbacks(t *testing.T) {
	t.Run("object id wins", func(t *testing.T) {
		p := NewPrincipal("Alice", Claim{Type: ClaimSubject, Value: "sub-1"}, Claim{Type: ClaimObjectID, Value: "oid-1"})
		assert.Equal(t, "oid-1", Identifier(p))
	})

	t.Run("subject before name", func(t *testing.T) {
		p := NewPrincipal("Alice", Claim{Type: ClaimSubject, Value: "sub-1"})
		assert.Equal(t, "sub-1", Identifier(p))
	})

	t.Run("name only", func(t *testing.T) {
		assert.Equal(t, "alice", Identifier(NewPrincipal("alice")))
	})

	t.Run("nothing usable", func(t *testing.T) {
		assert.Equal(t, DefaultIdentity, Identifier(&Principal{Claims: []Claim{{Type: ClaimRole, Value: RoleUser}}}))
		assert.Equal(t, DefaultIdentity, Identifier(nil))
	})
}

func TestIsAnonymous(t *testing.T) {
	var p *Principal
	assert.True(t, p.IsAnonymous())
	assert.True(t, (&Principal{}).IsAnonymous())
	assert.False(t, NewPrincipal("bob").IsAnonymous())
}
