package service

import (
	"context"

	"github.com/sirupsen/logrus"

	"github.com/Marga-Ghale/softdesk-backend/internal/authz"
	"github.com/Marga-Ghale/softdesk-backend/internal/metrics"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
)

// PermissionService feeds the authorization engine with the principal's
// membership from the registry and turns a deny into ErrPermissionDenied.
type PermissionService interface {
	// Membership returns the principal's membership on the project, nil if none.
	Membership(ctx context.Context, projectID, userID string) (*repository.Contributor, error)

	// Authorize checks op on a resource of the given kind inside the project.
	// ownerID is the issue assignee or comment author, empty on create.
	Authorize(ctx context.Context, principalID string, op authz.Operation, kind authz.Kind, projectID, ownerID string) error
}

type permissionService struct {
	contributorRepo repository.ContributorRepository
	log             *logrus.Logger
}

func NewPermissionService(contributorRepo repository.ContributorRepository, log *logrus.Logger) PermissionService {
	if log == nil {
		log = logrus.StandardLogger()
	}
	return &permissionService{contributorRepo: contributorRepo, log: log}
}

func (s *permissionService) Membership(ctx context.Context, projectID, userID string) (*repository.Contributor, error) {
	return s.contributorRepo.Find(ctx, projectID, userID)
}

func (s *permissionService) Authorize(ctx context.Context, principalID string, op authz.Operation, kind authz.Kind, projectID, ownerID string) error {
	member, err := s.contributorRepo.Find(ctx, projectID, principalID)
	if err != nil {
		return err
	}

	res := authz.Resource{Kind: kind, OwnerID: ownerID}
	if member != nil {
		res.Membership = &authz.Membership{Permission: member.Permission, Role: member.Role}
	}

	decision := authz.Decide(principalID, op, res)
	metrics.AuthzDecisionsTotal.WithLabelValues(string(kind), string(op), decision.String()).Inc()

	if !decision.Allowed() {
		s.log.WithFields(logrus.Fields{
			"principal": principalID,
			"project":   projectID,
			"resource":  kind,
			"operation": op,
		}).Debug("[Authz] Denied")
		return ErrPermissionDenied
	}
	return nil
}
