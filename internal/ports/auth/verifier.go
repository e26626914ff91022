package auth

import (
	"context"
	"errors"
)

var (
	// ErrInvalidToken: firma inválida, token malformado o expirado.
	ErrInvalidToken = errors.New("invalid or expired token")
	// ErrUnknownSubject: el token verifica pero el usuario ya no existe.
	ErrUnknownSubject = errors.New("unknown subject")
)

// Verifier verifica un bearer token y lo resuelve a una identidad.
type Verifier interface {
	Verify(ctx context.Context, token string) (Identity, error)
}

// TokenIssuer firma un token para un usuario (login).
type TokenIssuer interface {
	Issue(userID string) (string, error)
}
