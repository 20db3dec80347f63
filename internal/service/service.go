package service

import (
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/Marga-Ghale/softdesk-backend/internal/config"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrPermissionDenied   = errors.New("permission denied")
	ErrConflict           = errors.New("resource already exists")
)

// NotFoundError names the path segment that did not resolve.
type NotFoundError struct {
	Resource string
}

func (e *NotFoundError) Error() string {
	return e.Resource + " not found"
}

func (e *NotFoundError) Is(target error) bool {
	return target == ErrNotFound
}

// ValidationError is a client error tied to a single input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return e.Field + ": " + e.Message
}

func invalid(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}

// mapStorageError converts integrity violations into service errors so raw
// storage errors never reach the caller. Other errors pass through.
func mapStorageError(err error) error {
	ce, ok := repository.AsConstraintError(err)
	if !ok {
		return err
	}

	switch ce.Constraint {
	case repository.ConstraintContributorPair:
		return ErrConflict
	case repository.ConstraintProjectTitle:
		return invalid("title", "a project with this title already exists")
	case repository.ConstraintUserEmail:
		return invalid("email", "this email is already registered")
	}

	switch ce.Code {
	case repository.CodeUniqueViolation:
		return ErrConflict
	case repository.CodeForeignKeyViolation:
		return invalid("", "referenced resource does not exist")
	case repository.CodeStringDataRightTruncation:
		return invalid("", "value is too long")
	default:
		return invalid("", "invalid value")
	}
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth        AuthService
	User        UserService
	Permission  PermissionService
	Project     ProjectService
	Contributor ContributorService
	Issue       IssueService
	Comment     CommentService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config *config.Config
	Repos  *repository.Repositories
	Logger *logrus.Logger
}

func NewServices(deps *ServiceDeps) *Services {
	resolve := newResolver(deps.Repos.ProjectRepo, deps.Repos.IssueRepo, deps.Repos.CommentRepo)
	permissionService := NewPermissionService(deps.Repos.ContributorRepo, deps.Logger)

	return &Services{
		Auth:       NewAuthService(deps.Config, deps.Repos.UserRepo, deps.Repos.TokenRepo),
		User:       NewUserService(deps.Repos.UserRepo),
		Permission: permissionService,
		Project: NewProjectService(
			deps.Repos.ProjectRepo,
			deps.Repos.ContributorRepo,
			deps.Repos.IssueRepo,
			resolve,
			permissionService,
		),
		Contributor: NewContributorService(
			deps.Repos.ContributorRepo,
			deps.Repos.UserRepo,
			resolve,
			permissionService,
		),
		Issue: NewIssueService(
			deps.Repos.IssueRepo,
			deps.Repos.CommentRepo,
			deps.Repos.ContributorRepo,
			resolve,
			permissionService,
		),
		Comment: NewCommentService(
			deps.Repos.CommentRepo,
			resolve,
			permissionService,
		),
	}
}
