package service

import (
	"context"
	"strings"

	"github.com/Marga-Ghale/softdesk-backend/internal/authz"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
	"github.com/Marga-Ghale/softdesk-backend/internal/types"
)

// ============================================
// Project Service
// ============================================

// ProjectDetail is a project with the records its detail view embeds.
type ProjectDetail struct {
	Project      *repository.Project
	Contributors []*repository.Contributor
	Issues       []*repository.Issue
}

type ProjectService interface {
	List(ctx context.Context, principalID string) ([]*repository.Project, error)
	Create(ctx context.Context, principalID, title, description, projectType string) (*repository.Project, error)
	Get(ctx context.Context, principalID, projectID string) (*ProjectDetail, error)
	Update(ctx context.Context, principalID, projectID string, title, description, projectType *string) (*repository.Project, error)
	Delete(ctx context.Context, principalID, projectID string) error
}

type projectService struct {
	projectRepo     repository.ProjectRepository
	contributorRepo repository.ContributorRepository
	issueRepo       repository.IssueRepository
	resolve         *resolver
	perms           PermissionService
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	contributorRepo repository.ContributorRepository,
	issueRepo repository.IssueRepository,
	resolve *resolver,
	perms PermissionService,
) ProjectService {
	return &projectService{
		projectRepo:     projectRepo,
		contributorRepo: contributorRepo,
		issueRepo:       issueRepo,
		resolve:         resolve,
		perms:           perms,
	}
}

// List returns the projects the principal is a member of.
func (s *projectService) List(ctx context.Context, principalID string) ([]*repository.Project, error) {
	return s.projectRepo.FindByMember(ctx, principalID)
}

// Create stores the project and makes the principal its complete author in
// the same transaction.
func (s *projectService) Create(ctx context.Context, principalID, title, description, projectType string) (*repository.Project, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, invalid("title", "this field may not be blank")
	}
	if !types.IsValidProjectType(projectType) {
		return nil, invalid("type", "must be one of backend, frontend, android, ios")
	}

	project := &repository.Project{
		Title:       title,
		Description: description,
		Type:        projectType,
		AuthorID:    principalID,
	}
	author := &repository.Contributor{
		UserID:     principalID,
		Permission: types.PermissionComplete,
		Role:       types.RoleAuthor,
	}

	if err := s.projectRepo.CreateWithAuthor(ctx, project, author); err != nil {
		return nil, mapStorageError(err)
	}
	return project, nil
}

func (s *projectService) Get(ctx context.Context, principalID, projectID string) (*ProjectDetail, error) {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Read, authz.KindProject, project.ID, ""); err != nil {
		return nil, err
	}

	contributors, err := s.contributorRepo.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}
	issues, err := s.issueRepo.FindByProject(ctx, project.ID)
	if err != nil {
		return nil, err
	}

	return &ProjectDetail{Project: project, Contributors: contributors, Issues: issues}, nil
}

func (s *projectService) Update(ctx context.Context, principalID, projectID string, title, description, projectType *string) (*repository.Project, error) {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Write, authz.KindProject, project.ID, ""); err != nil {
		return nil, err
	}

	if title != nil {
		t := strings.TrimSpace(*title)
		if t == "" {
			return nil, invalid("title", "this field may not be blank")
		}
		project.Title = t
	}
	if description != nil {
		project.Description = *description
	}
	if projectType != nil {
		if !types.IsValidProjectType(*projectType) {
			return nil, invalid("type", "must be one of backend, frontend, android, ios")
		}
		project.Type = *projectType
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, mapStorageError(err)
	}
	return project, nil
}

func (s *projectService) Delete(ctx context.Context, principalID, projectID string) error {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Delete, authz.KindProject, project.ID, ""); err != nil {
		return err
	}

	deleted, err := s.projectRepo.Delete(ctx, project.ID)
	if err != nil {
		return err
	}
	if !deleted {
		return &NotFoundError{Resource: "project"}
	}
	return nil
}
