package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
)

type contextKey string

const (
	ContextKeyUserID    = contextKey("userID")
	ContextKeyPrincipal = contextKey("principal")

	// set by RevocationPrecheck for the exact token it looked up
	contextKeyRevocationChecked = contextKey("revocationChecked")
)

// BearerToken returns the token from "Authorization: Bearer <token>", or ""
// when the header is absent or uses another scheme.
func BearerToken(r *http.Request) string {
	h := r.Header.Get("Authorization")
	if !strings.HasPrefix(h, "Bearer ") {
		return ""
	}
	return strings.TrimSpace(strings.TrimPrefix(h, "Bearer "))
}

// PrincipalFromContext returns the principal stored by AuthMiddleware.
func PrincipalFromContext(ctx context.Context) (*auth.Principal, bool) {
	p, ok := ctx.Value(ContextKeyPrincipal).(*auth.Principal)
	return p, ok && p != nil
}

// UserIDFromContext returns the authenticated subject id, or "".
func UserIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(ContextKeyUserID).(string)
	return id
}

// WithPrincipal attaches p the way AuthMiddleware does. Handlers under test use it too.
func WithPrincipal(ctx context.Context, p *auth.Principal) context.Context {
	ctx = context.WithValue(ctx, ContextKeyPrincipal, p)
	return context.WithValue(ctx, ContextKeyUserID, p.SubjectID)
}

func revocationCheckedFor(ctx context.Context, token string) bool {
	checked, _ := ctx.Value(contextKeyRevocationChecked).(string)
	return checked != "" && checked == token
}
