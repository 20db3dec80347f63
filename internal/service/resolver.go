package service

import (
	"context"

	"github.com/google/uuid"

	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
)

// resolver turns nested route identifiers into records. A child that exists
// but belongs to another parent resolves as not found.
type resolver struct {
	projectRepo repository.ProjectRepository
	issueRepo   repository.IssueRepository
	commentRepo repository.CommentRepository
}

func newResolver(projectRepo repository.ProjectRepository, issueRepo repository.IssueRepository, commentRepo repository.CommentRepository) *resolver {
	return &resolver{projectRepo: projectRepo, issueRepo: issueRepo, commentRepo: commentRepo}
}

func (r *resolver) project(ctx context.Context, projectID string) (*repository.Project, error) {
	if !isUUID(projectID) {
		return nil, &NotFoundError{Resource: "project"}
	}
	project, err := r.projectRepo.FindByID(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, &NotFoundError{Resource: "project"}
	}
	return project, nil
}

func (r *resolver) issue(ctx context.Context, projectID, issueID string) (*repository.Issue, error) {
	if !isUUID(issueID) {
		return nil, &NotFoundError{Resource: "issue"}
	}
	issue, err := r.issueRepo.FindByID(ctx, issueID)
	if err != nil {
		return nil, err
	}
	if issue == nil || issue.ProjectID != projectID {
		return nil, &NotFoundError{Resource: "issue"}
	}
	return issue, nil
}

func (r *resolver) comment(ctx context.Context, issueID, commentID string) (*repository.Comment, error) {
	if !isUUID(commentID) {
		return nil, &NotFoundError{Resource: "comment"}
	}
	comment, err := r.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if comment == nil || comment.IssueID != issueID {
		return nil, &NotFoundError{Resource: "comment"}
	}
	return comment, nil
}

func isUUID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}
