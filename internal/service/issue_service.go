package service

import (
	"context"
	"strings"

	"github.com/Marga-Ghale/softdesk-backend/internal/authz"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
	"github.com/Marga-Ghale/softdesk-backend/internal/types"
)

// ============================================
// Issue Service
// ============================================

type CreateIssueInput struct {
	Title       string
	Description string
	Tag         string
	Priority    string
	Status      string
}

// UpdateIssueInput holds the fields a PATCH may change; nil means unchanged.
type UpdateIssueInput struct {
	Title       *string
	Description *string
	Tag         *string
	Priority    *string
	Status      *string
	AssigneeID  *string
}

type IssueDetail struct {
	Issue    *repository.Issue
	Comments []*repository.Comment
}

type IssueService interface {
	List(ctx context.Context, principalID, projectID string) ([]*repository.Issue, error)
	Create(ctx context.Context, principalID, projectID string, in CreateIssueInput) (*repository.Issue, error)
	Get(ctx context.Context, principalID, projectID, issueID string) (*IssueDetail, error)
	Update(ctx context.Context, principalID, projectID, issueID string, in UpdateIssueInput) (*repository.Issue, error)
	Delete(ctx context.Context, principalID, projectID, issueID string) error
}

type issueService struct {
	issueRepo       repository.IssueRepository
	commentRepo     repository.CommentRepository
	contributorRepo repository.ContributorRepository
	resolve         *resolver
	perms           PermissionService
}

func NewIssueService(
	issueRepo repository.IssueRepository,
	commentRepo repository.CommentRepository,
	contributorRepo repository.ContributorRepository,
	resolve *resolver,
	perms PermissionService,
) IssueService {
	return &issueService{
		issueRepo:       issueRepo,
		commentRepo:     commentRepo,
		contributorRepo: contributorRepo,
		resolve:         resolve,
		perms:           perms,
	}
}

// scoped resolves the project and checks that the principal may read inside it.
func (s *issueService) scoped(ctx context.Context, principalID, projectID string) (*repository.Project, error) {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Read, authz.KindIssue, project.ID, ""); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *issueService) List(ctx context.Context, principalID, projectID string) ([]*repository.Issue, error) {
	project, err := s.scoped(ctx, principalID, projectID)
	if err != nil {
		return nil, err
	}
	return s.issueRepo.FindByProject(ctx, project.ID)
}

// Create files an issue authored by and assigned to the principal.
func (s *issueService) Create(ctx context.Context, principalID, projectID string, in CreateIssueInput) (*repository.Issue, error) {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Write, authz.KindIssue, project.ID, ""); err != nil {
		return nil, err
	}

	if in.Status == "" {
		in.Status = types.StatusTodo
	}
	issue := &repository.Issue{
		ProjectID:   project.ID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		Tag:         in.Tag,
		Priority:    in.Priority,
		Status:      in.Status,
		AuthorID:    principalID,
		AssigneeID:  principalID,
	}
	if err := validateIssue(issue); err != nil {
		return nil, err
	}

	if err := s.issueRepo.Create(ctx, issue); err != nil {
		return nil, mapStorageError(err)
	}
	return issue, nil
}

func (s *issueService) Get(ctx context.Context, principalID, projectID, issueID string) (*IssueDetail, error) {
	project, err := s.scoped(ctx, principalID, projectID)
	if err != nil {
		return nil, err
	}
	issue, err := s.resolve.issue(ctx, project.ID, issueID)
	if err != nil {
		return nil, err
	}

	comments, err := s.commentRepo.FindByIssue(ctx, issue.ID)
	if err != nil {
		return nil, err
	}
	return &IssueDetail{Issue: issue, Comments: comments}, nil
}

// Update is reserved to the current assignee, who may hand the issue to
// another project member.
func (s *issueService) Update(ctx context.Context, principalID, projectID, issueID string, in UpdateIssueInput) (*repository.Issue, error) {
	project, err := s.scoped(ctx, principalID, projectID)
	if err != nil {
		return nil, err
	}
	issue, err := s.resolve.issue(ctx, project.ID, issueID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Write, authz.KindIssue, project.ID, issue.AssigneeID); err != nil {
		return nil, err
	}

	if in.Title != nil {
		issue.Title = strings.TrimSpace(*in.Title)
	}
	if in.Description != nil {
		issue.Description = *in.Description
	}
	if in.Tag != nil {
		issue.Tag = *in.Tag
	}
	if in.Priority != nil {
		issue.Priority = *in.Priority
	}
	if in.Status != nil {
		issue.Status = *in.Status
	}
	if err := validateIssue(issue); err != nil {
		return nil, err
	}

	if in.AssigneeID != nil && *in.AssigneeID != issue.AssigneeID {
		if !isUUID(*in.AssigneeID) {
			return nil, invalid("assignee_id", "assignee must be a contributor of the project")
		}
		member, err := s.contributorRepo.Find(ctx, project.ID, *in.AssigneeID)
		if err != nil {
			return nil, err
		}
		if member == nil {
			return nil, invalid("assignee_id", "assignee must be a contributor of the project")
		}
		issue.AssigneeID = member.UserID
	}

	if err := s.issueRepo.Update(ctx, issue); err != nil {
		return nil, mapStorageError(err)
	}
	return issue, nil
}

func (s *issueService) Delete(ctx context.Context, principalID, projectID, issueID string) error {
	project, err := s.scoped(ctx, principalID, projectID)
	if err != nil {
		return err
	}
	issue, err := s.resolve.issue(ctx, project.ID, issueID)
	if err != nil {
		return err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Delete, authz.KindIssue, project.ID, issue.AssigneeID); err != nil {
		return err
	}

	deleted, err := s.issueRepo.Delete(ctx, issue.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Resource: "issue"}
	}
	return nil
}

func validateIssue(issue *repository.Issue) error {
	if issue.Title == "" {
		return invalid("title", "this field may not be blank")
	}
	if !types.IsValidTag(issue.Tag) {
		return invalid("tag", "must be one of bug, improvement, task")
	}
	if !types.IsValidPriority(issue.Priority) {
		return invalid("priority", "must be one of low, medium, high")
	}
	if !types.IsValidIssueStatus(issue.Status) {
		return invalid("status", "must be one of todo, in-progress, done")
	}
	return nil
}
