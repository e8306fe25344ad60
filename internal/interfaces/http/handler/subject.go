package handler

import (
	academicapp "github.com/acadreg/backend/internal/application/academic"
	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// SubjectHandler handles subject catalog API endpoints
type SubjectHandler struct {
	BaseHandler
	subjectService *academicapp.SubjectService
}

// NewSubjectHandler creates a new SubjectHandler
func NewSubjectHandler(subjectService *academicapp.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		subjectService: subjectService,
	}
}

// ResolveSubjectsRequest represents a request to resolve subject codes
// @Description Request body for resolving a batch of subject codes
type ResolveSubjectsRequest struct {
	Codes []string `json:"codes" binding:"required,min=1"`
}

// ResolveSubjectsResponse reports which codes resolved and which did not
type ResolveSubjectsResponse struct {
	Found   []academicapp.SubjectResponse `json:"found"`
	Missing []string                      `json:"missing"`
}

// Create godoc
// @Summary      Create a new subject
// @Description  Create a new subject in the catalog
// @Tags         subjects
// @Accept       json
// @Produce      json
// @Param        request body academicapp.CreateSubjectRequest true "Subject creation request"
// @Success      201 {object} dto.Response{data=academicapp.SubjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subjects [post]
func (h *SubjectHandler) Create(c *gin.Context) {
	var req academicapp.CreateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	subject, err := h.subjectService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, subject)
}

// Update godoc
// @Summary      Update a subject
// @Description  Update an existing subject's details
// @Tags         subjects
// @Accept       json
// @Produce      json
// @Param        id path string true "Subject ID" format(uuid)
// @Param        request body academicapp.UpdateSubjectRequest true "Subject update request"
// @Success      200 {object} dto.Response{data=academicapp.SubjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subjects/{id} [put]
func (h *SubjectHandler) Update(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid subject ID format")
		return
	}

	var req academicapp.UpdateSubjectRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	subject, err := h.subjectService.Update(c.Request.Context(), subjectID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, subject)
}

// GetByID godoc
// @Summary      Get subject by ID
// @Description  Retrieve a subject by its ID
// @Tags         subjects
// @Produce      json
// @Param        id path string true "Subject ID" format(uuid)
// @Success      200 {object} dto.Response{data=academicapp.SubjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subjects/{id} [get]
func (h *SubjectHandler) GetByID(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid subject ID format")
		return
	}

	subject, err := h.subjectService.Get(c.Request.Context(), subjectID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, subject)
}

// GetByCode godoc
// @Summary      Get subject by code
// @Description  Retrieve a subject by its catalog code
// @Tags         subjects
// @Produce      json
// @Param        code path string true "Subject Code"
// @Success      200 {object} dto.Response{data=academicapp.SubjectResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subjects/code/{code} [get]
func (h *SubjectHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Subject code is required")
		return
	}

	subject, err := h.subjectService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, subject)
}

// List godoc
// @Summary      List subjects
// @Description  Retrieve a paginated list of subjects with optional filtering
// @Tags         subjects
// @Produce      json
// @Param        search query string false "Search term (code, name)"
// @Param        subject_type query string false "Subject type" Enums(general, foundation, major, elective)
// @Param        faculty_code query string false "Faculty code"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]academicapp.SubjectResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subjects [get]
func (h *SubjectHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if subjectType := c.Query("subject_type"); subjectType != "" {
		filter.Filters["subject_type"] = subjectType
	}
	if facultyCode := c.Query("faculty_code"); facultyCode != "" {
		filter.Filters["faculty_code"] = facultyCode
	}

	page, err := h.subjectService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Delete godoc
// @Summary      Delete a subject
// @Description  Remove a subject from the catalog
// @Tags         subjects
// @Param        id path string true "Subject ID" format(uuid)
// @Success      204
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subjects/{id} [delete]
func (h *SubjectHandler) Delete(c *gin.Context) {
	subjectID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid subject ID format")
		return
	}

	if err := h.subjectService.Delete(c.Request.Context(), subjectID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Resolve godoc
// @Summary      Resolve subject codes
// @Description  Resolve a batch of subject codes to catalog entries, reporting missing ones
// @Tags         subjects
// @Accept       json
// @Produce      json
// @Param        request body ResolveSubjectsRequest true "Codes to resolve"
// @Success      200 {object} dto.Response{data=ResolveSubjectsResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /subjects/resolve [post]
func (h *SubjectHandler) Resolve(c *gin.Context) {
	var req ResolveSubjectsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.subjectService.Resolve(c.Request.Context(), req.Codes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	resp := ResolveSubjectsResponse{
		Found:   make([]academicapp.SubjectResponse, 0, len(result.Found)),
		Missing: result.Missing,
	}
	for _, code := range academic.NormalizeCodes(req.Codes) {
		if subject, ok := result.Found[code]; ok {
			resp.Found = append(resp.Found, academicapp.ToSubjectResponse(subject))
		}
	}

	h.Success(c, resp)
}
