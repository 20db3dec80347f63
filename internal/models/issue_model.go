package models

import "time"

// ============================================
// Issue DTOs
// ============================================

type CreateIssueRequest struct {
	Title       string `json:"title" binding:"required,max=128"`
	Description string `json:"description" binding:"max=2048"`
	Tag         string `json:"tag" binding:"required"`
	Priority    string `json:"priority" binding:"required"`
	Status      string `json:"status"`
}

type UpdateIssueRequest struct {
	Title       *string `json:"title" binding:"omitempty,max=128"`
	Description *string `json:"description" binding:"omitempty,max=2048"`
	Tag         *string `json:"tag"`
	Priority    *string `json:"priority"`
	Status      *string `json:"status"`
	AssigneeID  *string `json:"assignee_id"`
}

// IssueListItem is the list shape: no description.
type IssueListItem struct {
	ID         string    `json:"id"`
	ProjectID  string    `json:"project_id"`
	Title      string    `json:"title"`
	Tag        string    `json:"tag"`
	Priority   string    `json:"priority"`
	Status     string    `json:"status"`
	AuthorID   string    `json:"author_id"`
	AssigneeID string    `json:"assignee_id"`
	CreatedAt  time.Time `json:"created_at"`
}

type IssueResponse struct {
	ID          string    `json:"id"`
	ProjectID   string    `json:"project_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	Tag         string    `json:"tag"`
	Priority    string    `json:"priority"`
	Status      string    `json:"status"`
	AuthorID    string    `json:"author_id"`
	AssigneeID  string    `json:"assignee_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type IssueDetailResponse struct {
	IssueResponse
	Comments []CommentResponse `json:"comments"`
}

// ============================================
// Comment DTOs
// ============================================

type CommentRequest struct {
	Description string `json:"description" binding:"required,max=2048"`
}

type CommentResponse struct {
	ID          string    `json:"id"`
	IssueID     string    `json:"issue_id"`
	AuthorID    string    `json:"author_id"`
	Description string    `json:"description"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
