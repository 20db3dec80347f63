package service

import (
	"context"
	"strings"

	"github.com/Marga-Ghale/softdesk-backend/internal/authz"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
)

// ============================================
// Comment Service
// ============================================

type CommentService interface {
	List(ctx context.Context, principalID, projectID, issueID string) ([]*repository.Comment, error)
	Create(ctx context.Context, principalID, projectID, issueID, description string) (*repository.Comment, error)
	Get(ctx context.Context, principalID, projectID, issueID, commentID string) (*repository.Comment, error)
	Update(ctx context.Context, principalID, projectID, issueID, commentID, description string) (*repository.Comment, error)
	Delete(ctx context.Context, principalID, projectID, issueID, commentID string) error
}

type commentService struct {
	commentRepo repository.CommentRepository
	resolve     *resolver
	perms       PermissionService
}

func NewCommentService(commentRepo repository.CommentRepository, resolve *resolver, perms PermissionService) CommentService {
	return &commentService{
		commentRepo: commentRepo,
		resolve:     resolve,
		perms:       perms,
	}
}

// scoped resolves project and issue, checking read access in between so a
// non-member learns nothing about the project's issues.
func (s *commentService) scoped(ctx context.Context, principalID, projectID, issueID string) (*repository.Project, *repository.Issue, error) {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Read, authz.KindComment, project.ID, ""); err != nil {
		return nil, nil, err
	}
	issue, err := s.resolve.issue(ctx, project.ID, issueID)
	if err != nil {
		return nil, nil, err
	}
	return project, issue, nil
}

func (s *commentService) List(ctx context.Context, principalID, projectID, issueID string) ([]*repository.Comment, error) {
	_, issue, err := s.scoped(ctx, principalID, projectID, issueID)
	if err != nil {
		return nil, err
	}
	return s.commentRepo.FindByIssue(ctx, issue.ID)
}

func (s *commentService) Create(ctx context.Context, principalID, projectID, issueID, description string) (*repository.Comment, error) {
	project, issue, err := s.scoped(ctx, principalID, projectID, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Write, authz.KindComment, project.ID, ""); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, invalid("description", "this field may not be blank")
	}

	comment := &repository.Comment{
		IssueID:     issue.ID,
		AuthorID:    principalID,
		Description: description,
	}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, mapStorageError(err)
	}
	return comment, nil
}

func (s *commentService) Get(ctx context.Context, principalID, projectID, issueID, commentID string) (*repository.Comment, error) {
	_, issue, err := s.scoped(ctx, principalID, projectID, issueID)
	if err != nil {
		return nil, err
	}
	return s.resolve.comment(ctx, issue.ID, commentID)
}

func (s *commentService) Update(ctx context.Context, principalID, projectID, issueID, commentID, description string) (*repository.Comment, error) {
	project, issue, err := s.scoped(ctx, principalID, projectID, issueID)
	if err != nil {
		return nil, err
	}
	comment, err := s.resolve.comment(ctx, issue.ID, commentID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Write, authz.KindComment, project.ID, comment.AuthorID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		return nil, invalid("description", "this field may not be blank")
	}

	comment.Description = description
	if err := s.commentRepo.Update(ctx, comment); err != nil {
		return nil, mapStorageError(err)
	}
	return comment, nil
}

func (s *commentService) Delete(ctx context.Context, principalID, projectID, issueID, commentID string) error {
	project, issue, err := s.scoped(ctx, principalID, projectID, issueID)
	if err != nil {
		return err
	}
	comment, err := s.resolve.comment(ctx, issue.ID, commentID)
	if err != nil {
		return err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Delete, authz.KindComment, project.ID, comment.AuthorID); err != nil {
		return err
	}

	deleted, err := s.commentRepo.Delete(ctx, comment.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Resource: "comment"}
	}
	return nil
}
