package jwtauth_test

import (
	"context"
	"testing"
	"time"

	"pet-adoption-api/internal/adapters/auth/jwtauth"
	"pet-adoption-api/internal/adapters/storage/memory"
	"pet-adoption-api/internal/domain/users"
	"pet-adoption-api/internal/ports/auth"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

var testSecret = []byte("test-secret")

func seedUser(t *testing.T, repo users.Repository) users.User {
	t.Helper()

	u := users.User{
		ID:           "11111111-1111-1111-1111-111111111111",
		Username:     "a",
		Email:        "a@x.com",
		PasswordHash: "irrelevant",
		Role:         "user",
		CreatedAt:    time.Now(),
		UpdatedAt:    time.Now(),
	}
	require.NoError(t, repo.Create(context.Background(), u))
	return u
}

func TestNew_RejectsEmptySecret(t *testing.T) {
	_, err := jwtauth.New(nil, memory.NewUserRepo())
	require.Error(t, err)
}

func TestIssueAndVerify(t *testing.T) {
	repo := memory.NewUserRepo()
	u := seedUser(t, repo)

	svc, err := jwtauth.New(testSecret, repo)
	require.NoError(t, err)

	token, err := svc.Issue(u.ID)
	require.NoError(t, err)

	id, err := svc.Verify(context.Background(), token)
	require.NoError(t, err)
	require.Equal(t, u.ID, id.UserID)
	require.Equal(t, u.Email, id.Email)
	require.Equal(t, u.Role, id.Role)
}

func TestVerify_GarbageToken(t *testing.T) {
	svc, err := jwtauth.New(testSecret, memory.NewUserRepo())
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), "not-a-jwt")
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_WrongSecret(t *testing.T) {
	repo := memory.NewUserRepo()
	u := seedUser(t, repo)

	other, err := jwtauth.New([]byte("other-secret"), repo)
	require.NoError(t, err)
	token, err := other.Issue(u.ID)
	require.NoError(t, err)

	svc, err := jwtauth.New(testSecret, repo)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_ExpiredToken(t *testing.T) {
	repo := memory.NewUserRepo()
	u := seedUser(t, repo)

	// token firmado con el mismo secreto pero ya vencido
	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		IssuedAt:  jwt.NewNumericDate(time.Now().Add(-48 * time.Hour)),
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(-24 * time.Hour)),
	}
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(testSecret)
	require.NoError(t, err)

	svc, err := jwtauth.New(testSecret, repo)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), expired)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_UnsignedAlgorithm(t *testing.T) {
	repo := memory.NewUserRepo()
	u := seedUser(t, repo)

	claims := jwt.RegisteredClaims{
		Subject:   u.ID,
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	svc, err := jwtauth.New(testSecret, repo)
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), unsigned)
	require.ErrorIs(t, err, auth.ErrInvalidToken)
}

func TestVerify_DeletedUserIsUnknownSubject(t *testing.T) {
	// token válido pero el subject no existe en el store
	svc, err := jwtauth.New(testSecret, memory.NewUserRepo())
	require.NoError(t, err)

	token, err := svc.Issue("22222222-2222-2222-2222-222222222222")
	require.NoError(t, err)

	_, err = svc.Verify(context.Background(), token)
	require.ErrorIs(t, err, auth.ErrUnknownSubject)
}
