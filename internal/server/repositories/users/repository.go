// Package users declares the credential store the auth core depends on and
// provides PostgreSQL and in-memory implementations of it.
package users

import (
	"context"

	"github.com/dmitrijs2005/fitkeeper/internal/server/models"
)

// Repository stores credential records keyed by email.
//
// Lookups of an absent email return common.ErrNotFound. Insert returns
// common.ErrConflict when the email is already taken. Any other error is an
// unexpected storage fault.
type Repository interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	Insert(ctx context.Context, user *models.User) (*models.User, error)
	UpdatePasswordHash(ctx context.Context, email string, passwordHash string) error
	DeleteByEmail(ctx context.Context, email string) error
}
