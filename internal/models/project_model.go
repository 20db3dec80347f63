package models

import "time"

// ============================================
// Project DTOs
// ============================================

type CreateProjectRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"max=2048"`
	Type        string `json:"type" binding:"required"`
}

// UpdateProjectRequest is a partial update; omitted fields keep their value.
type UpdateProjectRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=128"`
	Description *string `json:"description" binding:"omitempty,max=2048"`
	Type        *string `json:"type"`
}

// ProjectListItem is the list shape: no description.
type ProjectListItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Type     string `json:"type"`
	AuthorID string `json:"author_id"`
}

type ProjectResponse struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Type        string    `json:"type"`
	AuthorID    string    `json:"author_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ProjectDetailResponse struct {
	ProjectResponse
	Contributors []ContributorResponse `json:"contributors"`
	Issues       []IssueListItem       `json:"issues"`
}

// ============================================
// Contributor DTOs
// ============================================

// AddContributorRequest carries only the user; permission and role are
// assigned by the server.
type AddContributorRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type ContributorResponse struct {
	ProjectID  string        `json:"project_id"`
	UserID     string        `json:"user_id"`
	Permission string        `json:"permission"`
	Role       string        `json:"role"`
	JoinedAt   time.Time     `json:"joined_at"`
	User       *UserResponse `json:"user,omitempty"`
}
