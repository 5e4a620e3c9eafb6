package httpx

import "net/http"

// RequireRole rejects requests whose resolved identity does not hold the
// given role. Must run after Authn.
func RequireRole(role string) Middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id, ok := IdentityFromContext(r.Context())
			if !ok {
				writeBearerError(w, "missing bearer token")
				return
			}
			if id.Role != role {
				WriteJSON(w, http.StatusForbidden, ErrorResponse{
					Error:            "forbidden",
					ErrorDescription: "insufficient privileges",
				})
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
