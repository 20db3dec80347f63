package service

import (
	"context"

	"github.com/Marga-Ghale/softdesk-backend/internal/authz"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
	"github.com/Marga-Ghale/softdesk-backend/internal/types"
)

// ============================================
// Contributor Service
// ============================================

type ContributorService interface {
	List(ctx context.Context, principalID, projectID string) ([]*repository.Contributor, error)
	// Add makes userID a limited contributor. Permission and role are never
	// taken from the caller.
	Add(ctx context.Context, principalID, projectID, userID string) (*repository.Contributor, error)
	Remove(ctx context.Context, principalID, projectID, userID string) error
}

type contributorService struct {
	contributorRepo repository.ContributorRepository
	userRepo        repository.UserRepository
	resolve         *resolver
	perms           PermissionService
}

func NewContributorService(
	contributorRepo repository.ContributorRepository,
	userRepo repository.UserRepository,
	resolve *resolver,
	perms PermissionService,
) ContributorService {
	return &contributorService{
		contributorRepo: contributorRepo,
		userRepo:        userRepo,
		resolve:         resolve,
		perms:           perms,
	}
}

func (s *contributorService) List(ctx context.Context, principalID, projectID string) ([]*repository.Contributor, error) {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Read, authz.KindContributor, project.ID, ""); err != nil {
		return nil, err
	}
	return s.contributorRepo.FindByProject(ctx, project.ID)
}

func (s *contributorService) Add(ctx context.Context, principalID, projectID, userID string) (*repository.Contributor, error) {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return nil, err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Write, authz.KindContributor, project.ID, ""); err != nil {
		return nil, err
	}

	if !isUUID(userID) {
		return nil, invalid("user_id", "user does not exist")
	}
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, invalid("user_id", "user does not exist")
	}

	contributor := &repository.Contributor{
		ProjectID:  project.ID,
		UserID:     user.ID,
		Permission: types.PermissionLimited,
		Role:       types.RoleContributor,
		User:       user,
	}
	// Uniqueness is left to the primary key so concurrent adds cannot both succeed.
	if err := s.contributorRepo.Add(ctx, contributor); err != nil {
		return nil, mapStorageError(err)
	}
	return contributor, nil
}

func (s *contributorService) Remove(ctx context.Context, principalID, projectID, userID string) error {
	project, err := s.resolve.project(ctx, projectID)
	if err != nil {
		return err
	}
	if err := s.perms.Authorize(ctx, principalID, authz.Delete, authz.KindContributor, project.ID, ""); err != nil {
		return err
	}

	if !isUUID(userID) {
		return &NotFoundError{Resource: "contributor"}
	}
	removed, err := s.contributorRepo.Remove(ctx, project.ID, userID)
	if err != nil {
		return err
	}
	if !removed {
		return &NotFoundError{Resource: "contributor"}
	}
	return nil
}
