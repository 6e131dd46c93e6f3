package middleware

import (
	"errors"
	"net/http"

	"github.com/iamavinashmourya/FarmCare/internal/auth"
	"github.com/iamavinashmourya/FarmCare/internal/metrics"
	"github.com/iamavinashmourya/FarmCare/internal/utils"
)

// AuthMiddleware verifies the bearer token and enforces role on protected
// endpoints. Authentication failures are 401; a valid token lacking the role
// is 403.
func AuthMiddleware(guard *auth.Guard, clock auth.Clock, role auth.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			tokenStr := BearerToken(r)
			if tokenStr == "" {
				RespondAuthError(w, auth.ErrMissingToken)
				return
			}

			var (
				p   *auth.Principal
				err error
			)
			if revocationCheckedFor(r.Context(), tokenStr) {
				p, err = guard.VerifySignature(tokenStr, clock.Now())
			} else {
				p, err = guard.VerifyToken(r.Context(), tokenStr, clock.Now())
			}
			if err == nil {
				err = guard.RequireRole(p, role)
			}
			if err != nil {
				RespondAuthError(w, err)
				return
			}

			metrics.TokenVerificationsTotal.WithLabelValues(metrics.OutcomeOK).Inc()
			next.ServeHTTP(w, r.WithContext(WithPrincipal(r.Context(), p)))
		})
	}
}

// RespondAuthError writes the status and error code for a guard failure.
func RespondAuthError(w http.ResponseWriter, err error) {
	status, code, msg, outcome := classifyAuthError(err)
	metrics.TokenVerificationsTotal.WithLabelValues(outcome).Inc()
	utils.RespondErrorWithCode(w, status, code, msg, nil, err)
}

func classifyAuthError(err error) (status int, code, msg, outcome string) {
	switch {
	case errors.Is(err, auth.ErrInsufficientRole):
		return http.StatusForbidden, utils.ErrCodeForbidden, "Insufficient permissions", metrics.OutcomeInsufficientRole
	case errors.Is(err, auth.ErrMissingToken):
		return http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Token is missing", metrics.OutcomeMissing
	case errors.Is(err, auth.ErrExpired):
		return http.StatusUnauthorized, utils.ErrCodeTokenExpired, "Token has expired", metrics.OutcomeExpired
	case errors.Is(err, auth.ErrRevoked):
		return http.StatusUnauthorized, utils.ErrCodeTokenRevoked, "Token has been revoked", metrics.OutcomeRevoked
	case errors.Is(err, auth.ErrInvalidSignature):
		return http.StatusUnauthorized, utils.ErrCodeInvalidSignature, "Invalid token", metrics.OutcomeInvalidSignature
	case errors.Is(err, auth.ErrRevocationUnavailable):
		return http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Unable to verify token", metrics.OutcomeStoreUnavailable
	case errors.Is(err, auth.ErrMalformed):
		return http.StatusUnauthorized, utils.ErrCodeTokenMalformed, "Invalid token", metrics.OutcomeMalformed
	}
	return http.StatusUnauthorized, utils.ErrCodeUnauthorized, "Invalid token", metrics.OutcomeMalformed
}
