//go:build unit

package commands_test

import (
	"context"
	"testing"
	"time"

	reqdto "stockflow/internal/handler/dto/request"
	"stockflow/internal/pkg/clock"
	"stockflow/internal/pkg/jwt"
	"stockflow/internal/pkg/password"
	"stockflow/internal/usecase/commands"
	"stockflow/internal/usecase/shared"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRevoker struct {
	revoked map[string]bool
}

func newFakeRevoker() *fakeRevoker {
	return &fakeRevoker{revoked: map[string]bool{}}
}

func (r *fakeRevoker) Revoke(_ context.Context, jti string, _ time.Duration) error {
	r.revoked[jti] = true
	return nil
}

func (r *fakeRevoker) IsRevoked(_ context.Context, jti string) (bool, error) {
	return r.revoked[jti], nil
}

func newAuthFixture(t *testing.T, store *memStore) (commands.AuthCommands, *fakeRevoker) {
	t.Helper()
	jwtService := jwt.NewService("test-secret", 30*time.Minute, 14*24*time.Hour)
	revoker := newFakeRevoker()
	clk := clock.NewMockClock(time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC))
	return commands.NewAuthCommands(newFakeUoW(store), jwtService, revoker, clk), revoker
}

func seedUser(t *testing.T, store *memStore, email, plain, role string, active bool) uuid.UUID {
	t.Helper()
	hash, err := password.HashPassword(plain)
	require.NoError(t, err)
	id := uuid.New()
	store.users[email] = shared.UserSnapshot{
		ID:           id,
		Email:        email,
		PasswordHash: hash,
		Role:         role,
		IsActive:     active,
	}
	return id
}

func TestLogin(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)
	userID := seedUser(t, store, "op@example.com", "correct horse", "operator", true)

	result, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "op@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	assert.Equal(t, userID, result.UserID)
	assert.Equal(t, "operator", result.Role)
	assert.NotEmpty(t, result.TokenPair.AccessToken)
	assert.NotEmpty(t, result.TokenPair.RefreshToken)
}

func TestLogin_WrongPassword(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)
	seedUser(t, store, "op@example.com", "correct horse", "operator", true)

	_, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "op@example.com", Password: "wrong password",
	})
	assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
}

func TestLogin_UnknownEmail(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)

	_, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "nobody@example.com", Password: "whatever1",
	})
	assert.ErrorIs(t, err, commands.ErrInvalidCredentials)
}

func TestLogin_InactiveUser(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)
	seedUser(t, store, "op@example.com", "correct horse", "operator", false)

	_, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "op@example.com", Password: "correct horse",
	})
	assert.ErrorIs(t, err, commands.ErrUserInactive)
}

func TestRefreshToken_IsSingleUse(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)
	seedUser(t, store, "op@example.com", "correct horse", "operator", true)

	login, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "op@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	pair, err := cmds.RefreshToken(context.Background(), login.TokenPair.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, pair.AccessToken)

	_, err = cmds.RefreshToken(context.Background(), login.TokenPair.RefreshToken)
	assert.ErrorIs(t, err, commands.ErrTokenValidation)
}

func TestRefreshToken_RejectsAccessToken(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)
	seedUser(t, store, "op@example.com", "correct horse", "operator", true)

	login, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "op@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	_, err = cmds.RefreshToken(context.Background(), login.TokenPair.AccessToken)
	assert.ErrorIs(t, err, commands.ErrTokenValidation)
}

func TestLogout_RevokesBothTokens(t *testing.T) {
	store := newMemStore()
	cmds, revoker := newAuthFixture(t, store)
	seedUser(t, store, "op@example.com", "correct horse", "operator", true)

	login, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "op@example.com", Password: "correct horse",
	})
	require.NoError(t, err)

	require.NoError(t, cmds.Logout(context.Background(), login.TokenPair.AccessToken, login.TokenPair.RefreshToken))
	assert.Len(t, revoker.revoked, 2)

	_, err = cmds.RefreshToken(context.Background(), login.TokenPair.RefreshToken)
	assert.ErrorIs(t, err, commands.ErrTokenValidation)
}

func TestLogout_InvalidTokenIsLoggedOut(t *testing.T) {
	store := newMemStore()
	cmds, revoker := newAuthFixture(t, store)

	require.NoError(t, cmds.Logout(context.Background(), "garbage", ""))
	assert.Empty(t, revoker.revoked)
}

func TestEnsureAdminUser_SeedsFreshStore(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)

	require.NoError(t, cmds.EnsureAdminUser(context.Background(), "admin@stockflow.local", "admin123"))

	seeded, ok := store.users["admin@stockflow.local"]
	require.True(t, ok)
	assert.Equal(t, "admin", seeded.Role)
	assert.True(t, seeded.IsActive)

	result, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "admin@stockflow.local", Password: "admin123",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", result.Role)
}

func TestEnsureAdminUser_KeepsExistingAccount(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)
	seedUser(t, store, "admin@stockflow.local", "original pass", "admin", true)

	require.NoError(t, cmds.EnsureAdminUser(context.Background(), "admin@stockflow.local", "replacement"))

	_, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "admin@stockflow.local", Password: "replacement",
	})
	assert.ErrorIs(t, err, commands.ErrInvalidCredentials)

	result, err := cmds.Login(context.Background(), reqdto.LoginRequest{
		Email: "admin@stockflow.local", Password: "original pass",
	})
	require.NoError(t, err)
	assert.Equal(t, "admin", result.Role)
}

func TestEnsureAdminUser_InvalidEmail(t *testing.T) {
	store := newMemStore()
	cmds, _ := newAuthFixture(t, store)

	err := cmds.EnsureAdminUser(context.Background(), "not-an-email", "admin123")
	assert.ErrorIs(t, err, commands.ErrAdminSeedFailed)
	assert.Empty(t, store.users)
}
