package middleware

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
)

// RevocationPrecheck rejects a revoked bearer token on any route, public ones
// included, except the named routes (login and registration). Requests
// without a bearer token pass through untouched. Store errors are 401.
//
// It must be installed with Router.Use so the matched route is known.
func RevocationPrecheck(guard *auth.Guard, exemptRoutes ...string) mux.MiddlewareFunc {
	exempt := make(map[string]struct{}, len(exemptRoutes))
	for _, name := range exemptRoutes {
		exempt[name] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if route := mux.CurrentRoute(r); route != nil {
				if _, skip := exempt[route.GetName()]; skip {
					next.ServeHTTP(w, r)
					return
				}
			}

			tokenStr := BearerToken(r)
			if tokenStr == "" {
				next.ServeHTTP(w, r)
				return
			}

			if err := guard.CheckRevocation(r.Context(), tokenStr); err != nil {
				RespondAuthError(w, err)
				return
			}

			ctx := context.WithValue(r.Context(), contextKeyRevocationChecked, tokenStr)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
