package orgcontext

import "context"

type orgIDKey struct{}

// WithOrgID stores the tenant the request acts on.
func WithOrgID(ctx context.Context, orgID int64) context.Context {
	return context.WithValue(ctx, orgIDKey{}, orgID)
}

// OrgIDFromContext returns the tenant stored by WithOrgID.
func OrgIDFromContext(ctx context.Context) (int64, bool) {
	if ctx == nil {
		return 0, false
	}
	orgID, ok := ctx.Value(orgIDKey{}).(int64)
	return orgID, ok
}
