package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"book-review/internal/domain"
)

func TestRegisterThenAuthenticate(t *testing.T) {
	repos := newTestRepos(t)
	users := NewUserService(repos.users)
	ctx := context.Background()

	registered, err := users.Register(ctx, "alice", "secretpassword")
	require.NoError(t, err)
	require.NotEmpty(t, registered.ID)
	assert.Equal(t, domain.RoleUser, registered.Role)
	assert.Empty(t, registered.PasswordHash)

	authed, err := users.Authenticate(ctx, "alice", "secretpassword")
	require.NoError(t, err)
	assert.Equal(t, registered.ID, authed.ID)
	assert.Empty(t, authed.PasswordHash)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	repos := newTestRepos(t)
	users := NewUserService(repos.users)
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "secretpassword")
	require.NoError(t, err)

	_, err = users.Register(ctx, "alice", "otherpassword")
	require.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegisterValidation(t *testing.T) {
	repos := newTestRepos(t)
	users := NewUserService(repos.users)
	ctx := context.Background()

	_, err := users.Register(ctx, "", "secretpassword")
	require.ErrorIs(t, err, domain.ErrValidation)

	_, err = users.Register(ctx, "alice", "")
	require.ErrorIs(t, err, domain.ErrValidation)
}

func TestAuthenticateFailures(t *testing.T) {
	repos := newTestRepos(t)
	users := NewUserService(repos.users)
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "secretpassword")
	require.NoError(t, err)

	// unknown username and wrong password must be indistinguishable
	_, unknownErr := users.Authenticate(ctx, "nobody", "secretpassword")
	require.ErrorIs(t, unknownErr, domain.ErrInvalidCredentials)

	_, badPassErr := users.Authenticate(ctx, "alice", "wrongpassword")
	require.ErrorIs(t, badPassErr, domain.ErrInvalidCredentials)

	assert.Equal(t, unknownErr.Error(), badPassErr.Error())
}

func TestEnsureAdminCreatesAndPromotes(t *testing.T) {
	repos := newTestRepos(t)
	users := NewUserService(repos.users)
	ctx := context.Background()

	require.NoError(t, users.EnsureAdmin(ctx, "root", "adminpassword"))

	admin, err := users.Authenticate(ctx, "root", "adminpassword")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, admin.Role)

	// idempotent on restart
	require.NoError(t, users.EnsureAdmin(ctx, "root", "adminpassword"))

	// promotes an existing regular user
	_, err = users.Register(ctx, "bob", "secretpassword")
	require.NoError(t, err)
	require.NoError(t, users.EnsureAdmin(ctx, "bob", "ignored"))

	bob, err := users.Authenticate(ctx, "bob", "secretpassword")
	require.NoError(t, err)
	assert.Equal(t, domain.RoleAdmin, bob.Role)
}

func TestListUsersOmitsPasswordHashes(t *testing.T) {
	repos := newTestRepos(t)
	users := NewUserService(repos.users)
	ctx := context.Background()

	_, err := users.Register(ctx, "alice", "secretpassword")
	require.NoError(t, err)
	_, err = users.Register(ctx, "bob", "secretpassword")
	require.NoError(t, err)

	list, err := users.List(ctx)
	require.NoError(t, err)
	require.Len(t, list, 2)
	for _, u := range list {
		assert.Empty(t, u.PasswordHash)
	}
}
