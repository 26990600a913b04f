package entity

import "github.com/google/uuid"

// UnknownTenantID is the sentinel tenant used for login attempts whose
// identity could not be resolved. Login records must always carry a tenant.
var UnknownTenantID = uuid.MustParse("00000000-0000-0000-0000-000000000001")

// TenantRef is the result of resolving an identity's tenant. Callers must
// check Resolved instead of comparing against a magic value.
type TenantRef struct {
	id       uuid.UUID
	resolved bool
}

// ResolvedTenant builds a TenantRef for a known tenant.
func ResolvedTenant(id uuid.UUID) TenantRef {
	return TenantRef{id: id, resolved: true}
}

// UnresolvedTenant builds a TenantRef for an attempt with no known tenant.
func UnresolvedTenant() TenantRef {
	return TenantRef{}
}

// Resolved reports whether a tenant could be determined.
func (r TenantRef) Resolved() bool {
	return r.resolved
}

// ID returns the resolved tenant id, or the unknown-tenant sentinel.
func (r TenantRef) ID() uuid.UUID {
	if !r.resolved {
		return UnknownTenantID
	}

	return r.id
}
