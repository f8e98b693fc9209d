package services

import (
	"context"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
	"github.com/dmitrijs2005/fitkeeper/internal/server/auth"
)

// TokenRenewer verifies refresh tokens and mints access tokens.
type TokenRenewer interface {
	TokenMinter
	Verify(token string, kind auth.Kind) (*auth.Claims, error)
}

// RefreshResult holds the access token minted by Refresh.
type RefreshResult struct {
	AccessToken string
}

// RefreshService exchanges a refresh token for a new access token. Refresh
// tokens are neither rotated nor revoked: one stays usable until it expires.
type RefreshService struct {
	tokens TokenRenewer
}

func NewRefreshService(tokens TokenRenewer) *RefreshService {
	return &RefreshService{tokens: tokens}
}

func (s *RefreshService) Refresh(ctx context.Context, refreshToken string) (*RefreshResult, error) {
	if refreshToken == "" {
		return nil, common.NewFailure(common.ErrValidation, msgMissingRefresh)
	}

	claims, err := s.tokens.Verify(refreshToken, auth.KindRefresh)
	if err != nil {
		return nil, common.Wrap(common.ErrUnauthorized, msgBadRefreshToken, err)
	}

	access, err := s.tokens.Mint(auth.KindAccess, claims.Identity())
	if err != nil {
		return nil, common.Wrap(common.ErrInternal, common.InternalMessage, err)
	}

	return &RefreshResult{AccessToken: access}, nil
}
