package commands

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"stockflow/internal/domain/user"
	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/infra"
	"stockflow/internal/infra/session"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/errs"
	"stockflow/internal/pkg/jwt"
	"stockflow/internal/pkg/password"
	"stockflow/internal/usecase/shared"
)

var (
	ErrInvalidCredentials   = errs.New("invalid credentials")
	ErrUserInactive         = errs.New("user inactive")
	ErrAuthenticationFailed = errs.New("authentication failed")
	ErrTokenGeneration      = errs.New("token generation failed")
	ErrTokenValidation      = errs.New("token validation failed")
	ErrAdminSeedFailed      = errs.New("admin account seed failed")
)

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

type LoginResult struct {
	UserID    uuid.UUID
	Role      string
	TokenPair *TokenPair
}

type AuthCommands interface {
	Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error)
	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)
	Logout(ctx context.Context, accessToken, refreshToken string) error
	EnsureAdminUser(ctx context.Context, email, rawPassword string) error
}

type authCommandsImpl struct {
	uow        shared.UnitOfWork
	jwtService *jwt.Service
	revoker    session.TokenRevoker
	clock      clock.Clock
}

func NewAuthCommands(uow shared.UnitOfWork, jwtService *jwt.Service, revoker session.TokenRevoker, clk clock.Clock) AuthCommands {
	return &authCommandsImpl{
		uow:        uow,
		jwtService: jwtService,
		revoker:    revoker,
		clock:      clk,
	}
}

func (a *authCommandsImpl) Login(ctx context.Context, req reqdto.LoginRequest) (*LoginResult, error) {
	credentials, err := req.ToDomain()
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	snapshot, err := a.uow.CommandReads().UserByEmail(ctx, credentials.Email().Value())
	if err != nil {
		if infra.IsKind(err, infra.KindNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	if !snapshot.IsActive {
		return nil, ErrUserInactive
	}
	if err := password.ComparePassword(snapshot.PasswordHash, credentials.Password().Value()); err != nil {
		return nil, ErrInvalidCredentials
	}

	role, err := user.NewRole(snapshot.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrAuthenticationFailed)
	}

	pair, err := a.generatePair(snapshot.ID, role)
	if err != nil {
		return nil, err
	}

	userID := snapshot.ID
	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		if updateErr := tx.Users().UpdateLastLogin(ctx, tx.DB(), userID, a.clock.Now()); updateErr != nil {
			slog.Warn("failed to update last login", "user_id", userID, "error", updateErr.Error())
		}
		return nil
	})
	if err != nil {
		slog.Warn("transaction failed during login", "user_id", userID, "error", err.Error())
	}

	return &LoginResult{UserID: snapshot.ID, Role: role.String(), TokenPair: pair}, nil
}

// EnsureAdminUser creates the bootstrap admin account when no user exists
// under the given email. An existing account is left untouched, password
// included.
func (a *authCommandsImpl) EnsureAdminUser(ctx context.Context, rawEmail, rawPassword string) error {
	email, err := user.NewEmail(rawEmail)
	if err != nil {
		return errs.Mark(err, ErrAdminSeedFailed)
	}

	if _, err := a.uow.CommandReads().UserByEmail(ctx, email.Value()); err == nil {
		return nil
	} else if !infra.IsKind(err, infra.KindNotFound) {
		return errs.Mark(err, ErrAdminSeedFailed)
	}

	hash, err := password.HashPassword(rawPassword)
	if err != nil {
		return errs.Mark(err, ErrAdminSeedFailed)
	}
	admin := user.NewUser(email, hash, user.RoleAdmin)

	err = a.uow.Within(ctx, func(ctx context.Context, tx shared.Tx) error {
		_, createErr := tx.Users().Create(ctx, tx.DB(), admin)
		return createErr
	})
	if err != nil {
		// Lost a concurrent seed race; the account exists either way.
		if infra.IsKind(err, infra.KindDuplicateKey) {
			return nil
		}
		return errs.Mark(err, ErrAdminSeedFailed)
	}

	slog.Info("seeded bootstrap admin account", "email", email.Value())
	return nil
}

func (a *authCommandsImpl) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	claims, err := a.validate(ctx, refreshToken)
	if err != nil {
		return nil, err
	}
	if claims.TokenType != jwt.TokenTypeRefresh {
		return nil, ErrTokenValidation
	}

	role, err := user.NewRole(claims.Role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}

	// The old refresh token is single use.
	if err := a.revokeClaims(ctx, claims); err != nil {
		slog.Warn("failed to revoke used refresh token", "error", err.Error())
	}

	return a.generatePair(claims.UserID, role)
}

// Logout denylists both tokens for their remaining lifetimes. An already
// invalid token is treated as logged out.
func (a *authCommandsImpl) Logout(ctx context.Context, accessToken, refreshToken string) error {
	for _, token := range []string{accessToken, refreshToken} {
		if token == "" {
			continue
		}
		claims, err := a.jwtService.ValidateToken(token)
		if err != nil {
			continue
		}
		if err := a.revokeClaims(ctx, claims); err != nil {
			return errs.Mark(err, ErrAuthenticationFailed)
		}
	}
	return nil
}

func (a *authCommandsImpl) validate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := a.jwtService.ValidateToken(token)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	revoked, err := a.revoker.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenValidation)
	}
	if revoked {
		return nil, ErrTokenValidation
	}
	return claims, nil
}

func (a *authCommandsImpl) revokeClaims(ctx context.Context, claims *jwt.Claims) error {
	if claims.ExpiresAt == nil {
		return nil
	}
	ttl := time.Until(claims.ExpiresAt.Time)
	return a.revoker.Revoke(ctx, claims.ID, ttl)
}

func (a *authCommandsImpl) generatePair(userID uuid.UUID, role user.Role) (*TokenPair, error) {
	accessToken, err := a.jwtService.GenerateAccessToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	refreshToken, err := a.jwtService.GenerateRefreshToken(userID, role)
	if err != nil {
		return nil, errs.Mark(err, ErrTokenGeneration)
	}
	return &TokenPair{AccessToken: accessToken, RefreshToken: refreshToken}, nil
}
