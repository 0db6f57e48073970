package commands

import (
	"context"

	"stockflow/internal/infra/session"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/pkg/jwt"
)

// TokenValidator is what the auth middleware consumes: signature check
// plus the revocation denylist, so logged-out tokens die immediately.
type TokenValidator interface {
	Validate(ctx context.Context, token string) (*jwt.Claims, error)
}

type tokenValidatorImpl struct {
	jwtService *jwt.Service
	revoker    session.TokenRevoker
}

func NewTokenValidator(jwtService *jwt.Service, revoker session.TokenRevoker) TokenValidator {
	return &tokenValidatorImpl{jwtService: jwtService, revoker: revoker}
}

func (v *tokenValidatorImpl) Validate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := v.jwtService.ValidateToken(token)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	revoked, err := v.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if revoked {
		return nil, ErrTokenValidation
	}
	return claims, nil
}
