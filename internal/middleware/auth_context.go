package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"pet-adoption-api/internal/ports/auth"
)

type ctxKey string

const identityKey ctxKey = "identity"

// RequireAuth corta el request si no hay un bearer token válido; el
// handler de atrás nunca corre sin identidad resuelta.
// Con verifier nil (secreto de firma ausente) falla cerrado con 500:
// es una misconfiguración, no un bypass.
func RequireAuth(verifier auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if verifier == nil {
				writeMessage(w, http.StatusInternalServerError, "Authentication is not configured")
				return
			}

			header := r.Header.Get("Authorization")
			if strings.TrimSpace(header) == "" {
				writeMessage(w, http.StatusUnauthorized, "Authorization token is required")
				return
			}

			token := bearerToken(header)
			if token == "" {
				writeMessage(w, http.StatusUnauthorized, "Authorization header must be 'Bearer <token>'")
				return
			}

			identity, err := verifier.Verify(r.Context(), token)
			if err != nil {
				if errors.Is(err, auth.ErrUnknownSubject) {
					writeMessage(w, http.StatusUnauthorized, "User not found")
					return
				}
				writeMessage(w, http.StatusUnauthorized, "Invalid or expired token")
				return
			}

			ctx := context.WithValue(r.Context(), identityKey, identity)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetIdentity devuelve la identidad resuelta por RequireAuth.
func GetIdentity(ctx context.Context) (auth.Identity, bool) {
	v := ctx.Value(identityKey)
	if v == nil {
		return auth.Identity{}, false
	}
	id, ok := v.(auth.Identity)
	return id, ok
}

func bearerToken(authHeader string) string {
	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 {
		return ""
	}
	if !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}

func writeMessage(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]string{"message": msg})
}
