package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"
)

type Comment struct {
	ID          string
	IssueID     string
	AuthorID    string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type CommentRepository interface {
	Create(ctx context.Context, comment *Comment) error
	FindByID(ctx context.Context, id string) (*Comment, error)
	FindByIssue(ctx context.Context, issueID string) ([]*Comment, error)
	Update(ctx context.Context, comment *Comment) error
	Delete(ctx context.Context, id string) (bool, error)
}

type commentRepository struct {
	db DBTX
}

func NewCommentRepository(db DBTX) CommentRepository {
	return &commentRepository{db: db}
}

func (r *commentRepository) Create(ctx context.Context, comment *Comment) error {
	query := `
		INSERT INTO comments (issue_id, author_id, description)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query, comment.IssueID, comment.AuthorID, comment.Description).
		Scan(&comment.ID, &comment.CreatedAt, &comment.UpdatedAt)
	return classify(err)
}

func (r *commentRepository) FindByID(ctx context.Context, id string) (*Comment, error) {
	query := `
		SELECT id, issue_id, author_id, description, created_at, updated_at
		FROM comments WHERE id = $1
	`
	c := &Comment{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&c.ID, &c.IssueID, &c.AuthorID, &c.Description, &c.CreatedAt, &c.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (r *commentRepository) FindByIssue(ctx context.Context, issueID string) ([]*Comment, error) {
	query := `
		SELECT id, issue_id, author_id, description, created_at, updated_at
		FROM comments WHERE issue_id = $1
		ORDER BY created_at ASC
	`
	rows, err := r.db.QueryContext(ctx, query, issueID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var comments []*Comment
	for rows.Next() {
		c := &Comment{}
		if err := rows.Scan(
			&c.ID, &c.IssueID, &c.AuthorID, &c.Description, &c.CreatedAt, &c.UpdatedAt,
		); err != nil {
			return nil, err
		}
		comments = append(comments, c)
	}
	return comments, rows.Err()
}

func (r *commentRepository) Update(ctx context.Context, comment *Comment) error {
	query := `
		UPDATE comments SET description = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query, comment.ID, comment.Description).Scan(&comment.UpdatedAt)
	return classify(err)
}

func (r *commentRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}
