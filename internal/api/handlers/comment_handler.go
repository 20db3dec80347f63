package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Marga-Ghale/softdesk-backend/internal/api/middleware"
	"github.com/Marga-Ghale/softdesk-backend/internal/models"
	"github.com/Marga-Ghale/softdesk-backend/internal/service"
)

// ============================================
// Comment Handler
// ============================================

type CommentHandler struct {
	commentService service.CommentService
}

func NewCommentHandler(commentService service.CommentService) *CommentHandler {
	return &CommentHandler{commentService: commentService}
}

// List - GET /projects/:project_id/issues/:issue_id/comments
func (h *CommentHandler) List(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	comments, err := h.commentService.List(c.Request.Context(), userID, c.Param("project_id"), c.Param("issue_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]models.CommentResponse, len(comments))
	for i, cm := range comments {
		response[i] = toCommentResponse(cm)
	}

	c.JSON(http.StatusOK, response)
}

// Create - POST /projects/:project_id/issues/:issue_id/comments
func (h *CommentHandler) Create(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.commentService.Create(c.Request.Context(), userID, c.Param("project_id"), c.Param("issue_id"), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, toCommentResponse(comment))
}

// Get - GET /projects/:project_id/issues/:issue_id/comments/:comment_id
func (h *CommentHandler) Get(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	comment, err := h.commentService.Get(c.Request.Context(), userID, c.Param("project_id"), c.Param("issue_id"), c.Param("comment_id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Update - PATCH /projects/:project_id/issues/:issue_id/comments/:comment_id
func (h *CommentHandler) Update(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	comment, err := h.commentService.Update(c.Request.Context(), userID, c.Param("project_id"), c.Param("issue_id"), c.Param("comment_id"), req.Description)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, toCommentResponse(comment))
}

// Delete - DELETE /projects/:project_id/issues/:issue_id/comments/:comment_id
func (h *CommentHandler) Delete(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	if err := h.commentService.Delete(c.Request.Context(), userID, c.Param("project_id"), c.Param("issue_id"), c.Param("comment_id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
