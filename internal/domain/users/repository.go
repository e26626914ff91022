package users

import (
	"context"
	"errors"
)

var (
	ErrNotFound = errors.New("user not found")
	// ErrEmailTaken: el email ya está registrado (unicidad a nivel store).
	ErrEmailTaken = errors.New("user already exists")
)

type Repository interface {
	Create(ctx context.Context, u User) error
	GetByEmail(ctx context.Context, email string) (User, error)
	GetByID(ctx context.Context, id string) (User, error)
}
