package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Marga-Ghale/softdesk-backend/internal/types"
)

func TestContributorRepository_AddDuplicate(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("INSERT INTO contributors").
		WithArgs(testProjectID, testOtherID, types.PermissionLimited, types.RoleContributor).
		WillReturnError(&pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: ConstraintContributorPair})

	err = NewContributorRepository(db).Add(context.Background(), &Contributor{
		ProjectID:  testProjectID,
		UserID:     testOtherID,
		Permission: types.PermissionLimited,
		Role:       types.RoleContributor,
	})

	ce, ok := AsConstraintError(err)
	require.True(t, ok)
	assert.True(t, ce.IsUnique())
	assert.Equal(t, ConstraintContributorPair, ce.Constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributorRepository_Find(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	cols := []string{"project_id", "user_id", "permission", "role", "joined_at"}
	mock.ExpectQuery("FROM contributors WHERE project_id = \\$1 AND user_id = \\$2").
		WithArgs(testProjectID, testUserID).
		WillReturnRows(sqlmock.NewRows(cols).AddRow(testProjectID, testUserID, types.PermissionComplete, types.RoleAuthor, now))
	mock.ExpectQuery("FROM contributors WHERE project_id = \\$1 AND user_id = \\$2").
		WithArgs(testProjectID, testOtherID).
		WillReturnRows(sqlmock.NewRows(cols))

	repo := NewContributorRepository(db)

	member, err := repo.Find(context.Background(), testProjectID, testUserID)
	require.NoError(t, err)
	require.NotNil(t, member)
	assert.Equal(t, types.PermissionComplete, member.Permission)
	assert.Equal(t, types.RoleAuthor, member.Role)

	member, err = repo.Find(context.Background(), testProjectID, testOtherID)
	require.NoError(t, err)
	assert.Nil(t, member)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributorRepository_FindByProjectIncludesUser(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{
		"project_id", "user_id", "permission", "role", "joined_at",
		"id", "email", "first_name", "last_name", "created_at",
	}).AddRow(testProjectID, testUserID, types.PermissionComplete, types.RoleAuthor, now,
		testUserID, "alice@softdesk.dev", "Alice", "Martin", now)
	mock.ExpectQuery("JOIN users u").WithArgs(testProjectID).WillReturnRows(rows)

	members, err := NewContributorRepository(db).FindByProject(context.Background(), testProjectID)
	require.NoError(t, err)
	require.Len(t, members, 1)
	require.NotNil(t, members[0].User)
	assert.Equal(t, "alice@softdesk.dev", members[0].User.Email)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestContributorRepository_Remove(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM contributors").
		WithArgs(testProjectID, testOtherID).
		WillReturnResult(sqlmock.NewResult(0, 0))

	removed, err := NewContributorRepository(db).Remove(context.Background(), testProjectID, testOtherID)
	require.NoError(t, err)
	assert.False(t, removed)
	assert.NoError(t, mock.ExpectationsWereMet())
}
