//go:build unit

package user_test

import (
	"testing"
	"time"

	"stockflow/internal/domain/user"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	email, err := user.NewEmail("op@example.com")
	require.NoError(t, err)
	role, err := user.NewRole("operator")
	require.NoError(t, err)

	u := user.NewUser(email, "hashed", role)

	assert.NotEqual(t, uuid.Nil, u.ID())
	assert.Equal(t, "op@example.com", u.Email().Value())
	assert.Equal(t, user.RoleOperator, u.Role())
	assert.True(t, u.IsActive())
	assert.Nil(t, u.LastLogin())
}

func TestNewEmail(t *testing.T) {
	cases := []struct {
		name  string
		input string
		errIs error
	}{
		{name: "valid", input: "a@example.com"},
		{name: "trims spaces", input: "  a@example.com  "},
		{name: "missing at", input: "example.com", errIs: user.ErrInvalidEmail},
		{name: "missing tld", input: "a@example", errIs: user.ErrInvalidEmail},
		{name: "empty", input: "", errIs: user.ErrInvalidEmail},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			email, err := user.NewEmail(tc.input)
			if tc.errIs != nil {
				assert.ErrorIs(t, err, tc.errIs)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "a@example.com", email.Value())
		})
	}
}

func TestNewPassword(t *testing.T) {
	_, err := user.NewPassword("short")
	assert.ErrorIs(t, err, user.ErrPasswordTooWeak)

	_, err = user.NewPassword("long enough")
	assert.NoError(t, err)
}

func TestNewRole(t *testing.T) {
	for _, valid := range []string{"admin", "operator", "viewer"} {
		_, err := user.NewRole(valid)
		assert.NoError(t, err)
	}
	_, err := user.NewRole("superuser")
	assert.ErrorIs(t, err, user.ErrInvalidRole)
}

func TestRecordLogin(t *testing.T) {
	email, err := user.NewEmail("op@example.com")
	require.NoError(t, err)
	u := user.NewUser(email, "hashed", user.RoleViewer)

	at := time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
	u.RecordLogin(at)

	require.NotNil(t, u.LastLogin())
	assert.Equal(t, at, *u.LastLogin())
}
