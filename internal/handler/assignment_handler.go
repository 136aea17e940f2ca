package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/WorkEnrich-llc/wds-assignment-service/internal/repository"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/response"
	"github.com/WorkEnrich-llc/wds-assignment-service/internal/service"
)

// AssignmentHandler handles the read side of the assignment catalog.
type AssignmentHandler struct {
	assignmentService *service.AssignmentService
}

// NewAssignmentHandler creates a new AssignmentHandler.
func NewAssignmentHandler(assignmentService *service.AssignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignmentService: assignmentService}
}

// ListAssignments godoc
// GET /api/v1/backoffice/assignments
// Lists assignments with pagination and optional name/code search.
func (h *AssignmentHandler) ListAssignments(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "10"))
	search := c.Query("search")

	assignments, pagination, err := h.assignmentService.List(c.Request.Context(), page, perPage, search)
	if err != nil {
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.SuccessWithPagination(c, http.StatusOK, gin.H{"assignments": assignments}, pagination)
}

// GetAssignment godoc
// GET /api/v1/backoffice/assignments/:assignment_id
// Returns a fully nested assignment: questions with answers and media.
func (h *AssignmentHandler) GetAssignment(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("assignment_id"), 10, 64)
	if err != nil || id < 1 {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	assignment, err := h.assignmentService.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, repository.ErrAssignmentNotFound) {
			response.Fail(c, http.StatusNotFound, response.ErrNotFound)
			return
		}
		response.Fail(c, http.StatusInternalServerError, response.ErrInternal)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"assignment": assignment})
}
