package http

import (
	"context"

	"clubstay-backend/internal/security"
)

type ctxKey int

const staffKey ctxKey = iota

func withStaff(ctx context.Context, claims *security.StaffClaims) context.Context {
	return context.WithValue(ctx, staffKey, claims)
}

// StaffFromContext returns the authenticated staff member, if any.
func StaffFromContext(ctx context.Context) (*security.StaffClaims, bool) {
	claims, ok := ctx.Value(staffKey).(*security.StaffClaims)
	return claims, ok
}

// performedBy is the identity recorded on state changes.
func performedBy(ctx context.Context) string {
	if claims, ok := StaffFromContext(ctx); ok {
		return claims.Name
	}
	return ""
}
