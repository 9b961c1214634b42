// Package policy holds the authorization decision table for product operations.
// Evaluation is a pure function of the principal, the operation and the target.
package policy

import "github.com/spec-kit/product-service/internal/domain"

// Operation names an action on the product resource.
type Operation string

const (
	OpReadPublic Operation = "read_public"
	OpRead       Operation = "read"
	OpCreate     Operation = "create"
	OpUpdate     Operation = "update"
	OpDelete     Operation = "delete"
)

// Denial reasons. These strings are safe to return to callers.
const (
	ReasonAuthenticationRequired = "authentication required"
	ReasonOwnershipViolation     = "ownership violation"
	ReasonAdminRequired          = "admin required"
	ReasonUnknownOperation       = "unknown operation"
)

// Decision is the outcome of one evaluation.
type Decision struct {
	Allow  bool
	Reason string
}

// Authenticated reports whether a denial is due to a missing principal rather
// than insufficient entitlement.
func (d Decision) Authenticated() bool {
	return d.Allow || d.Reason != ReasonAuthenticationRequired
}

func allow() Decision { return Decision{Allow: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Evaluate decides whether principal may perform op on target. target is the
// existing product for update and delete and is ignored otherwise.
func Evaluate(principal *domain.Principal, op Operation, target *domain.Product) Decision {
	if op == OpReadPublic {
		return allow()
	}
	if principal.IsAnonymous() {
		return deny(ReasonAuthenticationRequired)
	}

	switch op {
	case OpRead, OpCreate:
		return allow()
	case OpUpdate:
		if domain.HasRole(principal, domain.RoleAdmin) {
			return allow()
		}
		if target != nil && target.CreatedBy != "" && domain.Identifier(principal) == target.CreatedBy {
			return allow()
		}
		return deny(ReasonOwnershipViolation)
	case OpDelete:
		if domain.HasRole(principal, domain.RoleAdmin) {
			return allow()
		}
		return deny(ReasonAdminRequired)
	default:
		return deny(ReasonUnknownOperation)
	}
}

// OwnerFor returns the createdBy value recorded for products the principal creates.
func OwnerFor(principal *domain.Principal) string {
	return domain.Identifier(principal)
}
