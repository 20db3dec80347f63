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

const (
	testProjectID = "7d3c1a52-3f0e-4c33-9d0a-5b8f61f1a001"
	testUserID    = "0b8e4f7a-9b1c-4d2e-8f3a-6c5d4e3f2a01"
	testOtherID   = "0b8e4f7a-9b1c-4d2e-8f3a-6c5d4e3f2a02"
)

func TestProjectRepository_CreateWithAuthor(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO projects").
		WithArgs("Alpha", "desc", types.ProjectBackend, testUserID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(testProjectID, now, now))
	mock.ExpectQuery("INSERT INTO contributors").
		WithArgs(testProjectID, testUserID, types.PermissionComplete, types.RoleAuthor).
		WillReturnRows(sqlmock.NewRows([]string{"joined_at"}).AddRow(now))
	mock.ExpectCommit()

	repo := NewProjectRepository(db)
	project := &Project{Title: "Alpha", Description: "desc", Type: types.ProjectBackend, AuthorID: testUserID}
	author := &Contributor{UserID: testUserID, Permission: types.PermissionComplete, Role: types.RoleAuthor}

	require.NoError(t, repo.CreateWithAuthor(context.Background(), project, author))
	assert.Equal(t, testProjectID, project.ID)
	assert.Equal(t, testProjectID, author.ProjectID)
	assert.Equal(t, now, author.JoinedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_CreateWithAuthor_RollsBackOnMembershipFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO projects").
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at", "updated_at"}).AddRow(testProjectID, now, now))
	mock.ExpectQuery("INSERT INTO contributors").
		WillReturnError(&pgconn.PgError{Code: CodeForeignKeyViolation, ConstraintName: "contributors_user_id_fkey"})
	mock.ExpectRollback()

	repo := NewProjectRepository(db)
	err = repo.CreateWithAuthor(context.Background(),
		&Project{Title: "Alpha", Type: types.ProjectBackend, AuthorID: testUserID},
		&Contributor{UserID: testUserID, Permission: types.PermissionComplete, Role: types.RoleAuthor},
	)

	ce, ok := AsConstraintError(err)
	require.True(t, ok)
	assert.Equal(t, CodeForeignKeyViolation, ce.Code)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_CreateWithAuthor_DuplicateTitle(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("INSERT INTO projects").
		WillReturnError(&pgconn.PgError{Code: CodeUniqueViolation, ConstraintName: ConstraintProjectTitle})
	mock.ExpectRollback()

	repo := NewProjectRepository(db)
	err = repo.CreateWithAuthor(context.Background(),
		&Project{Title: "Alpha", Type: types.ProjectBackend, AuthorID: testUserID},
		&Contributor{UserID: testUserID},
	)

	ce, ok := AsConstraintError(err)
	require.True(t, ok)
	assert.Equal(t, ConstraintProjectTitle, ce.Constraint)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_FindByID_NotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectQuery("SELECT (.+) FROM projects WHERE id").
		WithArgs(testProjectID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "type", "author_id", "created_at", "updated_at"}))

	project, err := NewProjectRepository(db).FindByID(context.Background(), testProjectID)
	require.NoError(t, err)
	assert.Nil(t, project)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_FindByMember(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	now := time.Now().UTC()
	rows := sqlmock.NewRows([]string{"id", "title", "description", "type", "author_id", "created_at", "updated_at"}).
		AddRow(testProjectID, "Alpha", "", types.ProjectBackend, testOtherID, now, now)
	mock.ExpectQuery("FROM projects p\\s+JOIN contributors c").
		WithArgs(testUserID).
		WillReturnRows(rows)

	projects, err := NewProjectRepository(db).FindByMember(context.Background(), testUserID)
	require.NoError(t, err)
	require.Len(t, projects, 1)
	assert.Equal(t, "Alpha", projects[0].Title)
	assert.Equal(t, testOtherID, projects[0].AuthorID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestProjectRepository_Delete(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	mock.ExpectExec("DELETE FROM projects").WithArgs(testProjectID).WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM projects").WithArgs(testProjectID).WillReturnResult(sqlmock.NewResult(0, 0))

	repo := NewProjectRepository(db)

	deleted, err := repo.Delete(context.Background(), testProjectID)
	require.NoError(t, err)
	assert.True(t, deleted)

	deleted, err = repo.Delete(context.Background(), testProjectID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
