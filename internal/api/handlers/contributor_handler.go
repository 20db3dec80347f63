package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/softdesk-backend/internal/api/middleware"
	"github.com/Marga-Ghale/softdesk-backend/internal/models"
	"github.com/Marga-Ghale/softdesk-backend/internal/service"
)

// ============================================
// Contributor Handler
// ============================================

type ContributorHandler struct {
	contributorService service.ContributorService
}

func NewContributorHandler(contributorService service.ContributorService) *ContributorHandler {
	return &ContributorHandler{contributorService: contributorService}
}

// List - GET /projects/:project_id/users
func (h *ContributorHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	members, err := h.contributorService.List(c.Request.Context(), userID, c.Param("project_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.ContributorResponse, len(members))
	for i, m := range members {
		response[i] = toContributorResponse(m)
	}

	c.JSON(http.StatusOK, response)
}

// Add - POST /projects/:project_id/users
func (h *ContributorHandler) Add(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.AddContributorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	member, err := h.contributorService.Add(c.Request.Context(), userID, c.Param("project_id"), req.UserID)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toContributorResponse(member))
}

// Remove - DELETE /projects/:project_id/users/:user_id
func (h *ContributorHandler) Remove(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.contributorService.Remove(c.Request.Context(), userID, c.Param("project_id"), c.Param("user_id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
