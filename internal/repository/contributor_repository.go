package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

// Contributor is a project membership: the (project, user) pair with its
// permission and role codes.
type Contributor struct {
	ProjectID  string
	UserID     string
	Permission string
	Role       string
	JoinedAt   time.Time
	User       *User
}

// ContributorRepository is the membership registry. Find is a keyed lookup on
// the (project_id, user_id) primary key.
type ContributorRepository interface {
	// Add inserts a membership. A duplicate pair fails with a unique
	// *ConstraintError on ConstraintContributorPair.
	Add(ctx context.Context, contributor *Contributor) error
	Find(ctx context.Context, projectID, userID string) (*Contributor, error)
	FindByProject(ctx context.Context, projectID string) ([]*Contributor, error)
	Remove(ctx context.Context, projectID, userID string) (bool, error)
}

type pgContributorRepository struct {
	db DBTX
}

func NewContributorRepository(db DBTX) ContributorRepository {
	return &pgContributorRepository{db: db}
}

func (r *pgContributorRepository) Add(ctx context.Context, contributor *Contributor) error {
	return insertContributor(ctx, r.db, contributor)
}

func insertContributor(ctx context.Context, db DBTX, c *Contributor) error {
	query := `
		INSERT INTO contributors (project_id, user_id, permission, role)
		VALUES ($1, $2, $3, $4)
		RETURNING joined_at
	`
	err := db.QueryRowContext(ctx, query, c.ProjectID, c.UserID, c.Permission, c.Role).Scan(&c.JoinedAt)
	return classify(err)
}

func (r *pgContributorRepository) Find(ctx context.Context, projectID, userID string) (*Contributor, error) {
	query := `
		SELECT project_id, user_id, permission, role, joined_at
		FROM contributors WHERE project_id = $1 AND user_id = $2
	`
	c := &Contributor{}
	err := r.db.QueryRowContext(ctx, query, projectID, userID).Scan(
		&c.ProjectID, &c.UserID, &c.Permission, &c.Role, &c.JoinedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *pgContributorRepository) FindByProject(ctx context.Context, projectID string) ([]*Contributor, error) {
	query := `
		SELECT c.project_id, c.user_id, c.permission, c.role, c.joined_at,
		       u.id, u.email, u.first_name, u.last_name, u.created_at
		FROM contributors c
		JOIN users u ON c.user_id = u.id
		WHERE c.project_id = $1
		ORDER BY c.joined_at
	`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var contributors []*Contributor
	for rows.Next() {
		c := &Contributor{User: &User{}}
		if err := rows.Scan(
			&c.ProjectID, &c.UserID, &c.Permission, &c.Role, &c.JoinedAt,
			&c.User.ID, &c.User.Email, &c.User.FirstName, &c.User.LastName, &c.User.CreatedAt,
		); err != nil {
			return nil, err
		}
		contributors = append(contributors, c)
	}
	return contributors, rows.Err()
}

func (r *pgContributorRepository) Remove(ctx context.Context, projectID, userID string) (bool, error) {
	query := `DELETE FROM contributors WHERE project_id = $1 AND user_id = $2`
	res, err := r.db.ExecContext(ctx, query, projectID, userID)
	if err != nil {
		return false, err
	}
	return affected(res)
}
