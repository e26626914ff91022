package users

import (
	"context"
	"errors"
	"strings"
	"time"

	"pet-adoption-api/internal/ports/auth"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLen = 6

var ErrInvalidCredentials = errors.New("invalid email or password")

// ValidationError lleva el mensaje tal cual se responde al cliente.
type ValidationError struct {
	msg string
}

func (e ValidationError) Error() string { return e.msg }

func invalidInput(msg string) error { return ValidationError{msg: msg} }

type Service struct {
	repo   Repository
	issuer auth.TokenIssuer
	now    func() time.Time
}

func NewService(repo Repository, issuer auth.TokenIssuer) *Service {
	return &Service{
		repo:   repo,
		issuer: issuer,
		now:    time.Now,
	}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
	Role     string
}

func (s *Service) Register(ctx context.Context, in RegisterInput) (User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)

	if username == "" || email == "" || in.Password == "" {
		return User{}, invalidInput("All fields are required")
	}
	if len(in.Password) < minPasswordLen {
		return User{}, invalidInput("Password must be at least 6 characters long")
	}

	// Chequeo previo; el store vuelve a aplicar unicidad en el write.
	if _, err := s.repo.GetByEmail(ctx, email); err == nil {
		return User{}, ErrEmailTaken
	} else if !errors.Is(err, ErrNotFound) {
		return User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return User{}, err
	}

	now := s.now()
	u := User{
		ID:           uuid.NewString(),
		Username:     username,
		Email:        email,
		PasswordHash: string(hash),
		Role:         strings.TrimSpace(in.Role),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.repo.Create(ctx, u); err != nil {
		return User{}, err
	}
	return u, nil
}

// Login valida credenciales y emite un token firmado (sub = user id, 24h).
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return User{}, "", invalidInput("All fields are required")
	}

	u, err := s.repo.GetByEmail(ctx, email)
	if err != nil {
		return User{}, "", err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)); err != nil {
		return User{}, "", ErrInvalidCredentials
	}

	if s.issuer == nil {
		return User{}, "", errors.New("token issuer is not configured")
	}
	token, err := s.issuer.Issue(u.ID)
	if err != nil {
		return User{}, "", err
	}

	return u, token, nil
}

func (s *Service) GetByID(ctx context.Context, id string) (User, error) {
	return s.repo.GetByID(ctx, id)
}
