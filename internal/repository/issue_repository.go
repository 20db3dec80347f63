package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Issue struct {
	ID          string
	ProjectID   string
	Title       string
	Description string
	Tag         string
	Priority    string
	Status      string
	AuthorID    string
	AssigneeID  string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type IssueRepository interface {
	Create(ctx context.Context, issue *Issue) error
	FindByID(ctx context.Context, id string) (*Issue, error)
	FindByProject(ctx context.Context, projectID string) ([]*Issue, error)
	Update(ctx context.Context, issue *Issue) error
	Delete(ctx context.Context, id string) (bool, error)
}

type issueRepository struct {
	db DBTX
}

func NewIssueRepository(db DBTX) IssueRepository {
	return &issueRepository{db: db}
}

const issueColumns = `id, project_id, title, description, tag, priority, status, author_id, assignee_id, created_at, updated_at`

func scanIssue(row interface{ Scan(...any) error }) (*Issue, error) {
	i := &Issue{}
	err := row.Scan(
		&i.ID, &i.ProjectID, &i.Title, &i.Description, &i.Tag, &i.Priority, &i.Status,
		&i.AuthorID, &i.AssigneeID, &i.CreatedAt, &i.UpdatedAt,
	)
	return i, err
}

// Create inserts a new issue; created_at is assigned by the database.
func (r *issueRepository) Create(ctx context.Context, issue *Issue) error {
	query := `
		INSERT INTO issues (project_id, title, description, tag, priority, status, author_id, assignee_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		issue.ProjectID, issue.Title, issue.Description, issue.Tag, issue.Priority,
		issue.Status, issue.AuthorID, issue.AssigneeID,
	).Scan(&issue.ID, &issue.CreatedAt, &issue.UpdatedAt)
	return classify(err)
}

func (r *issueRepository) FindByID(ctx context.Context, id string) (*Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE id = $1`
	issue, err := scanIssue(r.db.QueryRowContext(ctx, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (r *issueRepository) FindByProject(ctx context.Context, projectID string) ([]*Issue, error) {
	query := `SELECT ` + issueColumns + ` FROM issues WHERE project_id = $1 ORDER BY created_at ASC`
	rows, err := r.db.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var issues []*Issue
	for rows.Next() {
		issue, err := scanIssue(rows)
		if err != nil {
			return nil, err
		}
		issues = append(issues, issue)
	}
	return issues, rows.Err()
}

// Update writes the mutable fields. Project, author and created_at never change.
func (r *issueRepository) Update(ctx context.Context, issue *Issue) error {
	query := `
		UPDATE issues SET
			title = $2,
			description = $3,
			tag = $4,
			priority = $5,
			status = $6,
			assignee_id = $7,
			updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		issue.ID, issue.Title, issue.Description, issue.Tag, issue.Priority, issue.Status, issue.AssigneeID,
	).Scan(&issue.UpdatedAt)
	return classify(err)
}

// Delete removes the issue and, by cascade, its comments.
func (r *issueRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM issues WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}
