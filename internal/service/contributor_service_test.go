package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marga-Ghale/softdesk-backend/internal/types"
)

func TestContributorService_DuplicateAddConflicts(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	a := db.addUser("a@softdesk.dev")
	b := db.addUser("b@softdesk.dev")

	alpha, err := svc.Project.Create(ctx, a, "Alpha", "", types.ProjectBackend)
	require.NoError(t, err)

	_, err = svc.Contributor.Add(ctx, a, alpha.ID, b)
	require.NoError(t, err)

	_, err = svc.Contributor.Add(ctx, a, alpha.ID, b)
	assert.ErrorIs(t, err, ErrConflict)

	_, err = svc.Contributor.Add(ctx, a, alpha.ID, a)
	assert.ErrorIs(t, err, ErrConflict)
}

func TestContributorService_UnknownUser(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	a := db.addUser("a@softdesk.dev")

	alpha, err := svc.Project.Create(ctx, a, "Alpha", "", types.ProjectBackend)
	require.NoError(t, err)

	for _, id := range []string{uuid.NewString(), "42"} {
		_, err = svc.Contributor.Add(ctx, a, alpha.ID, id)
		var verr *ValidationError
		require.True(t, errors.As(err, &verr), id)
		assert.Equal(t, "user_id", verr.Field)
	}
}

func TestContributorService_LimitedMemberCannotManage(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	a := db.addUser("a@softdesk.dev")
	b := db.addUser("b@softdesk.dev")
	c := db.addUser("c@softdesk.dev")

	alpha, err := svc.Project.Create(ctx, a, "Alpha", "", types.ProjectBackend)
	require.NoError(t, err)
	_, err = svc.Contributor.Add(ctx, a, alpha.ID, b)
	require.NoError(t, err)

	_, err = svc.Contributor.Add(ctx, b, alpha.ID, c)
	assert.ErrorIs(t, err, ErrPermissionDenied)
	assert.ErrorIs(t, svc.Contributor.Remove(ctx, b, alpha.ID, a), ErrPermissionDenied)

	members, err := svc.Contributor.List(ctx, b, alpha.ID)
	require.NoError(t, err)
	assert.Len(t, members, 2)
}

func TestContributorService_Remove(t *testing.T) {
	svc, db := newTestServices(t)
	ctx := context.Background()
	a := db.addUser("a@softdesk.dev")
	b := db.addUser("b@softdesk.dev")

	alpha, err := svc.Project.Create(ctx, a, "Alpha", "", types.ProjectBackend)
	require.NoError(t, err)
	_, err = svc.Contributor.Add(ctx, a, alpha.ID, b)
	require.NoError(t, err)

	require.NoError(t, svc.Contributor.Remove(ctx, a, alpha.ID, b))
	assert.Nil(t, db.membership(alpha.ID, b))

	assert.ErrorIs(t, svc.Contributor.Remove(ctx, a, alpha.ID, b), ErrNotFound)

	_, err = svc.Issue.List(ctx, b, alpha.ID)
	assert.ErrorIs(t, err, ErrPermissionDenied)
}
