package handlers

import (
	"errors"
	"net/http"
	"reflect"
	"strings"
	"sync"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/Marga-Ghale/softdesk-backend/internal/models"
	"github.com/Marga-Ghale/softdesk-backend/internal/repository"
	"github.com/Marga-Ghale/softdesk-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth        *AuthHandler
	User        *UserHandler
	Project     *ProjectHandler
	Contributor *ContributorHandler
	Issue       *IssueHandler
	Comment     *CommentHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services) *Handlers {
	registerJSONFieldNames()

	return &Handlers{
		Auth:        NewAuthHandler(services.Auth),
		User:        NewUserHandler(services.User),
		Project:     NewProjectHandler(services.Project),
		Contributor: NewContributorHandler(services.Contributor),
		Issue:       NewIssueHandler(services.Issue),
		Comment:     NewCommentHandler(services.Comment),
	}
}

// ============================================
// Error Responses
// ============================================

// respondError writes the status and body for a service error. Anything not
// recognised becomes a 500 with a generic message and is attached to the
// context for the request logger.
func respondError(c *gin.Context, err error) {
	var verr *service.ValidationError
	var nf *service.NotFoundError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: verr.Message, Field: verr.Field})
	case errors.As(err, &nf):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: nf.Error()})
	case errors.Is(err, service.ErrNotFound), errors.Is(err, service.ErrUserNotFound):
		c.JSON(http.StatusNotFound, models.ErrorResponse{Error: "Not found"})
	case errors.Is(err, service.ErrPermissionDenied):
		c.JSON(http.StatusForbidden, models.ErrorResponse{Error: "You do not have permission to perform this action"})
	case errors.Is(err, service.ErrConflict):
		c.JSON(http.StatusConflict, models.ErrorResponse{Error: "Resource already exists"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid email or password"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusUnauthorized, models.ErrorResponse{Error: "Invalid or expired token"})
	default:
		_ = c.Error(err)
		c.JSON(http.StatusInternalServerError, models.ErrorResponse{Error: "Internal server error"})
	}
}

// respondBindError reports the first failing field of a request body.
func respondBindError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error: validationMessage(fe),
			Field: fe.Field(),
		})
		return
	}
	c.JSON(http.StatusBadRequest, models.ErrorResponse{Error: "Malformed request body"})
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "this field is required"
	case "min":
		return "must be at least " + fe.Param() + " characters"
	case "max":
		return "must be at most " + fe.Param() + " characters"
	default:
		return "invalid value"
	}
}

var registerOnce sync.Once

// registerJSONFieldNames makes validation errors report the json name of a
// field instead of the Go one.
func registerJSONFieldNames() {
	registerOnce.Do(func() {
		v, ok := binding.Validator.Engine().(*validator.Validate)
		if !ok {
			return
		}
		v.RegisterTagNameFunc(func(f reflect.StructField) string {
			name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
			if name == "" || name == "-" {
				return f.Name
			}
			return name
		})
	})
}

// ============================================
// Response Mappers
// ============================================

func toUserResponse(u *repository.User) models.UserResponse {
	return models.UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		CreatedAt: u.CreatedAt,
	}
}

func toProjectListItem(p *repository.Project) models.ProjectListItem {
	return models.ProjectListItem{
		ID:       p.ID,
		Title:    p.Title,
		Type:     p.Type,
		AuthorID: p.AuthorID,
	}
}

func toProjectResponse(p *repository.Project) models.ProjectResponse {
	return models.ProjectResponse{
		ID:          p.ID,
		Title:       p.Title,
		Description: p.Description,
		Type:        p.Type,
		AuthorID:    p.AuthorID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func toProjectDetailResponse(d *service.ProjectDetail) models.ProjectDetailResponse {
	resp := models.ProjectDetailResponse{
		ProjectResponse: toProjectResponse(d.Project),
		Contributors:    make([]models.ContributorResponse, len(d.Contributors)),
		Issues:          make([]models.IssueListItem, len(d.Issues)),
	}
	for i, m := range d.Contributors {
		resp.Contributors[i] = toContributorResponse(m)
	}
	for i, issue := range d.Issues {
		resp.Issues[i] = toIssueListItem(issue)
	}
	return resp
}

func toContributorResponse(m *repository.Contributor) models.ContributorResponse {
	resp := models.ContributorResponse{
		ProjectID:  m.ProjectID,
		UserID:     m.UserID,
		Permission: m.Permission,
		Role:       m.Role,
		JoinedAt:   m.JoinedAt,
	}
	if m.User != nil {
		user := toUserResponse(m.User)
		resp.User = &user
	}
	return resp
}

func toIssueListItem(i *repository.Issue) models.IssueListItem {
	return models.IssueListItem{
		ID:         i.ID,
		ProjectID:  i.ProjectID,
		Title:      i.Title,
		Tag:        i.Tag,
		Priority:   i.Priority,
		Status:     i.Status,
		AuthorID:   i.AuthorID,
		AssigneeID: i.AssigneeID,
		CreatedAt:  i.CreatedAt,
	}
}

func toIssueResponse(i *repository.Issue) models.IssueResponse {
	return models.IssueResponse{
		ID:          i.ID,
		ProjectID:   i.ProjectID,
		Title:       i.Title,
		Description: i.Description,
		Tag:         i.Tag,
		Priority:    i.Priority,
		Status:      i.Status,
		AuthorID:    i.AuthorID,
		AssigneeID:  i.AssigneeID,
		CreatedAt:   i.CreatedAt,
		UpdatedAt:   i.UpdatedAt,
	}
}

func toIssueDetailResponse(d *service.IssueDetail) models.IssueDetailResponse {
	resp := models.IssueDetailResponse{
		IssueResponse: toIssueResponse(d.Issue),
		Comments:      make([]models.CommentResponse, len(d.Comments)),
	}
	for i, cm := range d.Comments {
		resp.Comments[i] = toCommentResponse(cm)
	}
	return resp
}

func toCommentResponse(cm *repository.Comment) models.CommentResponse {
	return models.CommentResponse{
		ID:          cm.ID,
		IssueID:     cm.IssueID,
		AuthorID:    cm.AuthorID,
		Description: cm.Description,
		CreatedAt:   cm.CreatedAt,
		UpdatedAt:   cm.UpdatedAt,
	}
}
