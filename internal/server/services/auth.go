// Package services contains server-side business logic. AuthService handles
// signup, login, password change, account deletion and profile lookups;
// RefreshService trades a refresh token for a new access token.
//
// Every failure returned from this package is a *common.Failure whose kind
// tells the transport which status to answer with.
package services

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/server/auth"
	"github.com/dmitrijs2005/fitkeeper/internal/server/models"
	"github.com/dmitrijs2005/fitkeeper/internal/server/repositories/users"
)

const (
	msgMissingFields     = "Enter All The Fields"
	msgEmailTaken        = "User with this email already exists"
	msgUnknownEmail      = "Enter Correct Email"
	msgBadCredentials    = "Invalid Credentials"
	msgMissingNewPass    = "New Password was not entered"
	msgUserNotFound      = "User not found"
	msgSamePassword      = "Old Password and New Password cannot be the same"
	msgDeleteNotFound    = "The person to delete was not found"
	msgPasswordTooLong   = "Password is too long"
	msgMissingRefresh    = "Refresh token not provided"
	msgBadRefreshToken   = "Invalid or expired refresh token"
	msgMissingDeleteMail = "Email of the person to delete was not entered"
)

// TokenMinter issues signed tokens.
type TokenMinter interface {
	Mint(kind auth.Kind, id auth.Identity) (string, error)
}

// SignupRequest carries the fields required to create an account.
type SignupRequest struct {
	Name     string
	Email    string
	Password string
	Phone    string
	Address  string
}

func (r SignupRequest) complete() bool {
	return r.Name != "" && r.Email != "" && r.Password != "" && r.Phone != "" && r.Address != ""
}

// LoginResult is returned by a successful Login. Both tokens carry the same
// user id and email.
type LoginResult struct {
	AccessToken  string
	RefreshToken string
	Profile      models.Profile
}

// AuthService implements the account operations on top of a credential store.
type AuthService struct {
	users  users.Repository
	hasher auth.PasswordHasher
	tokens TokenMinter
}

func NewAuthService(repo users.Repository, hasher auth.PasswordHasher, tokens TokenMinter) *AuthService {
	return &AuthService{users: repo, hasher: hasher, tokens: tokens}
}

// Signup creates a credential record. No tokens are issued; the client logs
// in afterwards.
func (s *AuthService) Signup(ctx context.Context, req SignupRequest) (*models.Profile, error) {
	if !req.complete() {
		return nil, common.NewFailure(common.ErrValidation, msgMissingFields)
	}

	_, err := s.users.FindByEmail(ctx, req.Email)
	switch {
	case err == nil:
		return nil, common.NewFailure(common.ErrConflict, msgEmailTaken)
	case !errors.Is(err, common.ErrNotFound):
		return nil, common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}

	hash, err := s.hash(req.Password)
	if err != nil {
		return nil, err
	}

	user, err := s.users.Insert(ctx, &models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: hash,
		Phone:        req.Phone,
		Address:      req.Address,
	})
	if err != nil {
		// a concurrent signup may have taken the email after the lookup above
		if errors.Is(err, common.ErrConflict) {
			return nil, common.Wrap(common.ErrConflict, msgEmailTaken, err)
		}
		return nil, common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}

	p := user.Profile()
	return &p, nil
}

// Login checks the password against the stored hash and mints an access and
// a refresh token. An unknown email is reported as not found, a wrong
// password as unauthorized.
func (s *AuthService) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	if email == "" || password == "" {
		return nil, common.NewFailure(common.ErrValidation, msgMissingFields)
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Wrap(common.ErrNotFound, msgUnknownEmail, err)
		}
		return nil, common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}

	if !s.hasher.Verify(password, user.PasswordHash) {
		return nil, common.NewFailure(common.ErrUnauthorized, msgBadCredentials)
	}

	id := auth.Identity{UserID: user.ID, Email: user.Email}

	access, err := s.tokens.Mint(auth.KindAccess, id)
	if err != nil {
		return nil, common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}
	refresh, err := s.tokens.Mint(auth.KindRefresh, id)
	if err != nil {
		return nil, common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}

	return &LoginResult{AccessToken: access, RefreshToken: refresh, Profile: user.Profile()}, nil
}

// ChangePassword replaces the caller's password hash. The identity must come
// from a verified access token. A new password that matches the current hash
// is rejected.
func (s *AuthService) ChangePassword(ctx context.Context, id auth.Identity, newPassword string) error {
	if newPassword == "" {
		return common.NewFailure(common.ErrValidation, msgMissingNewPass)
	}

	user, err := s.users.FindByEmail(ctx, id.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Wrap(common.ErrNotFound, msgUserNotFound, err)
		}
		return common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}

	if s.hasher.Verify(newPassword, user.PasswordHash) {
		return common.NewFailure(common.ErrValidation, msgSamePassword)
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}

	if err := s.users.UpdatePasswordHash(ctx, user.Email, hash); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Wrap(common.ErrNotFound, msgUserNotFound, err)
		}
		return common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}
	return nil
}

// DeleteAccount removes the record with the given email.
//
// The email is taken from the request body, not from a verified token, so
// any caller can delete any account whose email they know. Callers that need
// a stricter boundary must gate the route and compare against the identity.
func (s *AuthService) DeleteAccount(ctx context.Context, email string) error {
	if email == "" {
		return common.NewFailure(common.ErrValidation, msgMissingDeleteMail)
	}

	if err := s.users.DeleteByEmail(ctx, email); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return common.Wrap(common.ErrNotFound, msgDeleteNotFound, err)
		}
		return common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}
	return nil
}

// Profile returns the caller's stored profile.
func (s *AuthService) Profile(ctx context.Context, id auth.Identity) (*models.Profile, error) {
	user, err := s.users.FindByEmail(ctx, id.Email)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return nil, common.Wrap(common.ErrNotFound, msgUserNotFound, err)
		}
		return nil, common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}

	p := user.Profile()
	return &p, nil
}

func (s *AuthService) hash(password string) (string, error) {
	hash, err := s.hasher.Hash(password)
	if err != nil {
		if errors.Is(err, auth.ErrPasswordTooLong) {
			return "", common.Wrap(common.ErrValidation, msgPasswordTooLong, err)
		}
		return "", common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}
	return hash, nil
}
