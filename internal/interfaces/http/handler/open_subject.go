package handler

import (
	academicapp "github.com/acadreg/backend/internal/application/academic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// OpenSubjectHandler handles open-subject list API endpoints
type OpenSubjectHandler struct {
	BaseHandler
	openSubjectService *academicapp.OpenSubjectService
}

// NewOpenSubjectHandler creates a new OpenSubjectHandler
func NewOpenSubjectHandler(openSubjectService *academicapp.OpenSubjectService) *OpenSubjectHandler {
	return &OpenSubjectHandler{
		openSubjectService: openSubjectService,
	}
}

// ReplaceOpenSubjectsRequest represents a full replacement of a list's subjects
// @Description Request body for replacing an open list's subject codes
type ReplaceOpenSubjectsRequest struct {
	SubjectCodes []string `json:"subject_codes" binding:"required"`
}

// SetVisibilityRequest represents a visibility change
// @Description Request body for changing an open list's visibility
type SetVisibilityRequest struct {
	Visibility string `json:"visibility" binding:"required,oneof=public private"`
}

// Create godoc
// @Summary      Create an open-subject list
// @Description  Create the open-subject list for one (academic year, term) bucket
// @Tags         open-subjects
// @Accept       json
// @Produce      json
// @Param        request body academicapp.CreateOpenListRequest true "Open list creation request"
// @Success      201 {object} dto.Response{data=academicapp.OpenListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects [post]
func (h *OpenSubjectHandler) Create(c *gin.Context) {
	var req academicapp.CreateOpenListRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	list, err := h.openSubjectService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, list)
}

// ReplaceSubjects godoc
// @Summary      Replace an open list's subjects
// @Tags         open-subjects
// @Accept       json
// @Produce      json
// @Param        id path string true "Open List ID" format(uuid)
// @Param        request body ReplaceOpenSubjectsRequest true "Replacement subject codes"
// @Success      200 {object} dto.Response{data=academicapp.OpenListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects/{id}/subjects [put]
func (h *OpenSubjectHandler) ReplaceSubjects(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid open list ID format")
		return
	}

	var req ReplaceOpenSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	list, err := h.openSubjectService.ReplaceSubjects(c.Request.Context(), listID, req.SubjectCodes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, list)
}

// AddSubject godoc
// @Summary      Add one subject to an open list
// @Tags         open-subjects
// @Produce      json
// @Param        id path string true "Open List ID" format(uuid)
// @Param        code path string true "Subject Code"
// @Success      200 {object} dto.Response{data=academicapp.OpenListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects/{id}/subjects/{code} [post]
func (h *OpenSubjectHandler) AddSubject(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid open list ID format")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Subject code is required")
		return
	}

	list, err := h.openSubjectService.AddSubject(c.Request.Context(), listID, code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, list)
}

// RemoveSubject godoc
// @Summary      Remove one subject from an open list
// @Tags         open-subjects
// @Produce      json
// @Param        id path string true "Open List ID" format(uuid)
// @Param        code path string true "Subject Code"
// @Success      200 {object} dto.Response{data=academicapp.OpenListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects/{id}/subjects/{code} [delete]
func (h *OpenSubjectHandler) RemoveSubject(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid open list ID format")
		return
	}

	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Subject code is required")
		return
	}

	list, err := h.openSubjectService.RemoveSubject(c.Request.Context(), listID, code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, list)
}

// SetVisibility godoc
// @Summary      Change an open list's visibility
// @Tags         open-subjects
// @Accept       json
// @Produce      json
// @Param        id path string true "Open List ID" format(uuid)
// @Param        request body SetVisibilityRequest true "Visibility change request"
// @Success      200 {object} dto.Response{data=academicapp.OpenListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects/{id}/visibility [put]
func (h *OpenSubjectHandler) SetVisibility(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid open list ID format")
		return
	}

	var req SetVisibilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	list, err := h.openSubjectService.SetVisibility(c.Request.Context(), listID, req.Visibility)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, list)
}

// GetByID godoc
// @Summary      Get open list by ID
// @Tags         open-subjects
// @Produce      json
// @Param        id path string true "Open List ID" format(uuid)
// @Success      200 {object} dto.Response{data=academicapp.OpenListResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects/{id} [get]
func (h *OpenSubjectHandler) GetByID(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid open list ID format")
		return
	}

	list, err := h.openSubjectService.Get(c.Request.Context(), listID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, list)
}

// GetBucket godoc
// @Summary      Get the open list of one (academic year, term) bucket
// @Tags         open-subjects
// @Produce      json
// @Param        academic_year query string true "Academic year (e.g. 2025-2026)"
// @Param        term query string true "Term"
// @Success      200 {object} dto.Response{data=academicapp.OpenListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects/bucket [get]
func (h *OpenSubjectHandler) GetBucket(c *gin.Context) {
	academicYear := c.Query("academic_year")
	term := c.Query("term")
	if academicYear == "" || term == "" {
		h.BadRequest(c, "Academic year and term are required")
		return
	}

	list, err := h.openSubjectService.GetBucket(c.Request.Context(), academicYear, term)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, list)
}

// List godoc
// @Summary      List open-subject lists
// @Tags         open-subjects
// @Produce      json
// @Param        academic_year query string false "Filter by academic year"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]academicapp.OpenListResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects [get]
func (h *OpenSubjectHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if academicYear := c.Query("academic_year"); academicYear != "" {
		filter.Filters["academic_year"] = academicYear
	}

	lists, err := h.openSubjectService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, lists)
}

// Delete godoc
// @Summary      Delete an open-subject list
// @Tags         open-subjects
// @Param        id path string true "Open List ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects/{id} [delete]
func (h *OpenSubjectHandler) Delete(c *gin.Context) {
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid open list ID format")
		return
	}

	if err := h.openSubjectService.Delete(c.Request.Context(), listID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// ValidateCoverage godoc
// @Summary      Validate required-subject coverage
// @Description  Check a candidate open list against training-program requirements for the term's semester ordinals. Terms outside the mapping are exempt and pass with a warning.
// @Tags         open-subjects
// @Accept       json
// @Produce      json
// @Param        request body academicapp.ValidateCoverageRequest true "Candidate list to validate"
// @Success      200 {object} dto.Response{data=academic.CoverageReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /open-subjects/validate-coverage [post]
func (h *OpenSubjectHandler) ValidateCoverage(c *gin.Context) {
	var req academicapp.ValidateCoverageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	report, err := h.openSubjectService.ValidateCoverage(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}
