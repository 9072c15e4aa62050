package domain

// TenantContext identifies the caller of an engine operation.
// Staff calls carry the authenticated user; public calls resolve the tenant from a calendar slug.
type TenantContext struct {
	TenantID int64
	UserID   int64 // 0 for public callers
	Public   bool
}

// NewStaffContext builds a context for an authenticated staff user
func NewStaffContext(tenantID, userID int64) TenantContext {
	return TenantContext{TenantID: tenantID, UserID: userID}
}

// NewPublicContext builds a context for an unauthenticated caller of a public calendar
func NewPublicContext(tenantID int64) TenantContext {
	return TenantContext{TenantID: tenantID, Public: true}
}

// Source maps the caller kind to a booking source
func (t TenantContext) Source() BookingSource {
	if t.Public {
		return SourcePublic
	}
	return SourceStaff
}

// Owns reports whether a tenant-scoped record belongs to this caller
func (t TenantContext) Owns(tenantID int64) bool {
	return t.TenantID != 0 && t.TenantID == tenantID
}
