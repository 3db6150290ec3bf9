package member

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/masthead-press/masthead/internal/infrastructure/store"
	"github.com/masthead-press/masthead/pkg/logger"
)

type fakeRoleSource struct {
	roles []string
}

func (f *fakeRoleSource) ValidRoles(ctx context.Context) ([]string, error) {
	return f.roles, nil
}

func newTestService(t *testing.T) Service {
	t.Helper()
	repo := NewRepository(store.NewMemoryStore())
	roles := &fakeRoleSource{roles: []string{"Editor", "Writer", "Photographer"}}
	return NewService(repo, roles, logger.NewNop())
}

func TestCreateMember(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m, err := svc.Create(ctx, "Ada Lovelace", "  Ada@Example.COM ", "Writer")
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, m.ID)
	assert.Equal(t, "ada@example.com", m.Email)
	assert.False(t, m.Archived)

	t.Run("duplicate email", func(t *testing.T) {
		_, err := svc.Create(ctx, "Other Ada", "ada@example.com", "Editor")
		assert.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("role case-insensitive", func(t *testing.T) {
		m, err := svc.Create(ctx, "Grace Hopper", "grace@example.com", "editor")
		require.NoError(t, err)
		assert.Equal(t, "editor", m.Role)
	})

	t.Run("unknown role", func(t *testing.T) {
		_, err := svc.Create(ctx, "Nope", "nope@example.com", "Janitor")
		assert.ErrorIs(t, err, ErrInvalidRole)
	})
}

func TestChangeRole(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m, err := svc.Create(ctx, "Ada Lovelace", "ada@example.com", "Writer")
	require.NoError(t, err)

	require.NoError(t, svc.ChangeRole(ctx, m.ID, "Editor"))
	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, "Editor", got.Role)

	assert.ErrorIs(t, svc.ChangeRole(ctx, m.ID, "Janitor"), ErrInvalidRole)
	assert.ErrorIs(t, svc.ChangeRole(ctx, uuid.New(), "Editor"), ErrMemberNotFound)
}

func TestArchiveMember(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t)

	m, err := svc.Create(ctx, "Ada Lovelace", "ada@example.com", "Writer")
	require.NoError(t, err)
	other, err := svc.Create(ctx, "Grace Hopper", "grace@example.com", "Editor")
	require.NoError(t, err)

	require.NoError(t, svc.Archive(ctx, m.ID))

	active, err := svc.List(ctx, false)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, other.ID, active[0].ID)

	all, err := svc.List(ctx, true)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	// Archived members stay resolvable by id and email.
	got, err := svc.Get(ctx, m.ID)
	require.NoError(t, err)
	assert.True(t, got.Archived)
	_, err = svc.GetByEmail(ctx, "ada@example.com")
	assert.NoError(t, err)

	assert.ErrorIs(t, svc.Archive(ctx, uuid.New()), ErrMemberNotFound)
}
