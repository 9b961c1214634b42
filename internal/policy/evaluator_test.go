package policy

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/product-service/internal/domain"
)

func userPrincipal(name string) *domain.Principal {
	return domain.NewPrincipal(name,
		domain.Claim{Type: domain.ClaimSubject, Value: name},
		domain.Claim{Type: domain.ClaimRole, Value: domain.RoleUser},
	)
}

func adminPrincipal(name string) *domain.Principal {
	return domain.NewPrincipal(name,
		domain.Claim{Type: domain.ClaimSubject, Value: name},
		domain.Claim{Type: domain.ClaimRole, Value: domain.RoleAdmin},
	)
}

func TestEvaluate_PublicReadNeedsNoPrincipal(t *testing.T) {
	d := Evaluate(nil, OpReadPublic, nil)
	assert.True(t, d.Allow)
}

func TestEvaluate_AnonymousDenied(t *testing.T) {
	for _, op := range []Operation{OpRead, OpCreate, OpUpdate, OpDelete} {
		d := Evaluate(nil, op, &domain.Product{CreatedBy: "alice"})
		assert.False(t, d.Allow, op)
		assert.Equal(t, ReasonAuthenticationRequired, d.Reason)
		assert.False(t, d.Authenticated())
	}
}

func TestEvaluate_ReadAndCreateNeedOnlyAuthentication(t *testing.T) {
	p := userPrincipal("carol")
	assert.True(t, Evaluate(p, OpRead, nil).Allow)
	assert.True(t, Evaluate(p, OpCreate, nil).Allow)
}

func TestEvaluate_DeleteRequiresAdminRegardlessOfOwnership(t *testing.T) {
	for _, name := range []string{"alice", "bob", "admin", "Admin"} {
		p := userPrincipal(name)
		for _, owner := range []string{name, "someone-else", ""} {
			d := Evaluate(p, OpDelete, &domain.Product{ID: 1, CreatedBy: owner})
			require.False(t, d.Allow, fmt.Sprintf("%s deleting product of %q", name, owner))
			require.Equal(t, ReasonAdminRequired, d.Reason)
			require.True(t, d.Authenticated())
		}
	}
}

func TestEvaluate_OwnerMayUpdate(t *testing.T) {
	for _, name := range []string{"alice", "bob", "x"} {
		d := Evaluate(userPrincipal(name), OpUpdate, &domain.Product{ID: 1, CreatedBy: name})
		assert.True(t, d.Allow, name)
	}
}

func TestEvaluate_AdminMayUpdateAndDeleteAnything(t *testing.T) {
	admin := adminPrincipal("root")
	for _, owner := range []string{"alice", "", "root"} {
		target := &domain.Product{ID: 9, CreatedBy: owner}
		assert.True(t, Evaluate(admin, OpUpdate, target).Allow)
		assert.True(t, Evaluate(admin, OpDelete, target).Allow)
	}
}

func TestEvaluate_OwnershipScenario(t *testing.T) {
	alice := userPrincipal("alice")
	require.True(t, Evaluate(alice, OpCreate, nil).Allow)
	product := &domain.Product{ID: 1, Name: "P", CreatedBy: OwnerFor(alice)}
	require.Equal(t, "alice", product.CreatedBy)

	d := Evaluate(userPrincipal("bob"), OpUpdate, product)
	require.False(t, d.Allow)
	require.Equal(t, ReasonOwnershipViolation, d.Reason)

	require.True(t, Evaluate(adminPrincipal("admin-role-holder"), OpUpdate, product).Allow)
}

func TestEvaluate_UnownedProductNotUpdatableByDefaultIdentity(t *testing.T) {
	anonymousish := &domain.Principal{Claims: []domain.Claim{{Type: domain.ClaimRole, Value: domain.RoleUser}}}
	d := Evaluate(anonymousish, OpUpdate, &domain.Product{ID: 2})
	assert.False(t, d.Allow)
	assert.Equal(t, ReasonOwnershipViolation, d.Reason)
}

func TestEvaluate_RoleMatchIsExact(t *testing.T) {
	p := domain.NewPrincipal("eve", domain.Claim{Type: domain.ClaimRole, Value: "admin"})
	assert.False(t, Evaluate(p, OpDelete, &domain.Product{ID: 3}).Allow)
}

func TestEvaluate_UnknownOperation(t *testing.T) {
	d := Evaluate(userPrincipal("alice"), Operation("archive"), nil)
	assert.False(t, d.Allow)
	assert.Equal(t, ReasonUnknownOperation, d.Reason)
}
