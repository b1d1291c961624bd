package insured

import "context"

type principalKey struct{}

// WithPrincipal stores the authenticated insured in ctx
func WithPrincipal(ctx context.Context, principal *Insured) context.Context {
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the authenticated insured, if any
func PrincipalFromContext(ctx context.Context) (*Insured, bool) {
	principal, ok := ctx.Value(principalKey{}).(*Insured)
	return principal, ok && principal != nil
}
