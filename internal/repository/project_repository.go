package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type Project struct {
	ID          string
	Title       string
	Description string
	Type        string
	AuthorID    string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type ProjectRepository interface {
	// CreateWithAuthor inserts the project and its author's membership in one
	// transaction. author.ProjectID is filled in from the new project.
	CreateWithAuthor(ctx context.Context, project *Project, author *Contributor) error
	FindByID(ctx context.Context, id string) (*Project, error)
	FindByMember(ctx context.Context, userID string) ([]*Project, error)
	Update(ctx context.Context, project *Project) error
	Delete(ctx context.Context, id string) (bool, error)
}

type pgProjectRepository struct {
	db *sql.DB
}

func NewProjectRepository(db *sql.DB) ProjectRepository {
	return &pgProjectRepository{db: db}
}

func (r *pgProjectRepository) CreateWithAuthor(ctx context.Context, project *Project, author *Contributor) (err error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() {
		if err != nil {
			tx.Rollback()
		}
	}()

	query := `
		INSERT INTO projects (title, description, type, author_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	err = tx.QueryRowContext(ctx, query,
		project.Title, project.Description, project.Type, project.AuthorID,
	).Scan(&project.ID, &project.CreatedAt, &project.UpdatedAt)
	if err != nil {
		return classify(err)
	}

	author.ProjectID = project.ID
	if err = insertContributor(ctx, tx, author); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *pgProjectRepository) FindByID(ctx context.Context, id string) (*Project, error) {
	query := `
		SELECT id, title, description, type, author_id, created_at, updated_at
		FROM projects WHERE id = $1
	`
	p := &Project{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&p.ID, &p.Title, &p.Description, &p.Type, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return p, nil
}

func (r *pgProjectRepository) FindByMember(ctx context.Context, userID string) ([]*Project, error) {
	query := `
		SELECT p.id, p.title, p.description, p.type, p.author_id, p.created_at, p.updated_at
		FROM projects p
		JOIN contributors c ON p.id = c.project_id
		WHERE c.user_id = $1
		ORDER BY p.created_at
	`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var projects []*Project
	for rows.Next() {
		p := &Project{}
		if err := rows.Scan(
			&p.ID, &p.Title, &p.Description, &p.Type, &p.AuthorID, &p.CreatedAt, &p.UpdatedAt,
		); err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}
	return projects, rows.Err()
}

func (r *pgProjectRepository) Update(ctx context.Context, project *Project) error {
	query := `
		UPDATE projects
		SET title = $2, description = $3, type = $4, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		project.ID, project.Title, project.Description, project.Type,
	).Scan(&project.UpdatedAt)
	return classify(err)
}

// Delete removes the project; contributors, issues and comments cascade.
func (r *pgProjectRepository) Delete(ctx context.Context, id string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM projects WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	return affected(res)
}
