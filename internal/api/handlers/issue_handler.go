package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/softdesk-backend/internal/api/middleware"
	"github.com/Marga-Ghale/softdesk-backend/internal/models"
	"github.com/Marga-Ghale/softdesk-backend/internal/service"
)

// ============================================
// Issue Handler
// ============================================

type IssueHandler struct {
	issueService service.IssueService
}

func NewIssueHandler(issueService service.IssueService) *IssueHandler {
	return &IssueHandler{issueService: issueService}
}

// List - GET /projects/:project_id/issues
func (h *IssueHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	issues, err := h.issueService.List(c.Request.Context(), userID, c.Param("project_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.IssueListItem, len(issues))
	for i, issue := range issues {
		response[i] = toIssueListItem(issue)
	}

	c.JSON(http.StatusOK, response)
}

// Create - POST /projects/:project_id/issues
func (h *IssueHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	issue, err := h.issueService.Create(c.Request.Context(), userID, c.Param("project_id"), service.CreateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
		Priority:    req.Priority,
		Status:      req.Status,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toIssueResponse(issue))
}

// Get - Issue detail with comments
// GET /projects/:project_id/issues/:issue_id
func (h *IssueHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	detail, err := h.issueService.Get(c.Request.Context(), userID, c.Param("project_id"), c.Param("issue_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toIssueDetailResponse(detail))
}

// Update - PATCH /projects/:project_id/issues/:issue_id
func (h *IssueHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.UpdateIssueRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	issue, err := h.issueService.Update(c.Request.Context(), userID, c.Param("project_id"), c.Param("issue_id"), service.UpdateIssueInput{
		Title:       req.Title,
		Description: req.Description,
		Tag:         req.Tag,
		Priority:    req.Priority,
		Status:      req.Status,
		AssigneeID:  req.AssigneeID,
	})
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toIssueResponse(issue))
}

// Delete - DELETE /projects/:project_id/issues/:issue_id
func (h *IssueHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.issueService.Delete(c.Request.Context(), userID, c.Param("project_id"), c.Param("issue_id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
