package auth

import (
	"strings"

	"github.com/dmitrijs2005/fitkeeper/internal/common"
)

const (
	msgTokenNotProvided = "Token not provided properly"
	msgTokenInvalid     = "Invalid or expired token"
)

// TokenVerifier is the part of TokenManager the gate needs.
type TokenVerifier interface {
	Verify(token string, kind Kind) (*Claims, error)
}

// Gate converts a bearer Authorization value into an Identity. It keeps no
// state between calls; transports wrap it as middleware or interceptors.
type Gate struct {
	verifier TokenVerifier
}

func NewGate(v TokenVerifier) *Gate {
	return &Gate{verifier: v}
}

// Authenticate expects "Bearer <access token>". Every failure is a
// common.ErrUnauthorized; the verifier error is kept as the cause.
func (g *Gate) Authenticate(authorization string) (Identity, error) {
	token, ok := strings.CutPrefix(authorization, common.BearerScheme+" ")
	if !ok || token == "" {
		return Identity{}, common.NewFailure(common.ErrUnauthorized, msgTokenNotProvided)
	}

	claims, err := g.verifier.Verify(token, KindAccess)
	if err != nil {
		return Identity{}, common.Wrap(common.ErrUnauthorized, msgTokenInvalid, err)
	}

	return claims.Identity(), nil
}
