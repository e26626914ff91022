// Package jwtauth implementa el Verifier y el TokenIssuer sobre JWT
// HS256 firmado con un secreto de proceso. El subject del token se
// resuelve contra el repo de usuarios: un token bien firmado de un
// usuario borrado no pasa.
package jwtauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pet-adoption-api/internal/domain/users"
	"pet-adoption-api/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL es la vigencia del token emitido en login.
const TokenTTL = 24 * time.Hour

var errInvalidAlgorithm = errors.New("invalid signing algorithm")

type Service struct {
	secret []byte
	repo   users.Repository
	now    func() time.Time
}

func New(secret []byte, repo users.Repository) (*Service, error) {
	if len(secret) == 0 {
		return nil, errors.New("jwtauth: empty signing secret")
	}
	return &Service{
		secret: secret,
		repo:   repo,
		now:    time.Now,
	}, nil
}

// Issue firma un token con sub = userID y expiración de 24h.
func (s *Service) Issue(userID string) (string, error) {
	now := s.now()
	claims := jwt.RegisteredClaims{
		Subject:   userID,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(TokenTTL)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// Verify chequea firma y expiración antes de confiar en ningún claim,
// y recién después resuelve el subject contra el store.
func (s *Service) Verify(ctx context.Context, tokenString string) (auth.Identity, error) {
	token, err := jwt.ParseWithClaims(tokenString, &jwt.RegisteredClaims{}, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("%w: %v", errInvalidAlgorithm, t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil {
		return auth.Identity{}, fmt.Errorf("%w: %v", auth.ErrInvalidToken, err)
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || !token.Valid || claims.Subject == "" {
		return auth.Identity{}, auth.ErrInvalidToken
	}

	u, err := s.repo.GetByID(ctx, claims.Subject)
	if err != nil {
		if errors.Is(err, users.ErrNotFound) {
			return auth.Identity{}, auth.ErrUnknownSubject
		}
		return auth.Identity{}, err
	}

	return auth.Identity{
		UserID:   u.ID,
		Username: u.Username,
		Email:    u.Email,
		Role:     u.Role,
	}, nil
}
