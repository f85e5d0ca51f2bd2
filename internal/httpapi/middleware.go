package httpapi

import (
	"context"
	"net/http"
	"strings"
)

type ctxKey string

const operatorIDKey ctxKey = "operator_id"

// RequireAuth enforces a valid "Bearer <token>" Authorization header,
// stashing the operator id it carries in the request context.
func RequireAuth(tokens *TokenService) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			authz := r.Header.Get("Authorization")
			parts := strings.SplitN(authz, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
				writeError(w, http.StatusUnauthorized, "missing bearer token")
				return
			}
			operatorID, err := tokens.ParseToken(parts[1])
			if err != nil {
				writeError(w, http.StatusUnauthorized, "invalid token")
				return
			}
			ctx := context.WithValue(r.Context(), operatorIDKey, operatorID)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// OperatorID returns the operator id stashed by RequireAuth, if any.
func OperatorID(r *http.Request) (string, bool) {
	v := r.Context().Value(operatorIDKey)
	if v == nil {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}
