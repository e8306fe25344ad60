package handler

import (
	academicapp "github.com/acadreg/backend/internal/application/academic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// CurriculumHandler handles curriculum API endpoints
type CurriculumHandler struct {
	BaseHandler
	curriculumService *academicapp.CurriculumService
}

// NewCurriculumHandler creates a new CurriculumHandler
func NewCurriculumHandler(curriculumService *academicapp.CurriculumService) *CurriculumHandler {
	return &CurriculumHandler{
		curriculumService: curriculumService,
	}
}

// Create godoc
// @Summary      Create a curriculum entry
// @Description  Create a curriculum semester entry after running conflict checks against its track
// @Tags         curriculum
// @Accept       json
// @Produce      json
// @Param        request body academicapp.SaveCurriculumRequest true "Curriculum creation request"
// @Success      201 {object} dto.Response{data=academicapp.CurriculumResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curriculum [post]
func (h *CurriculumHandler) Create(c *gin.Context) {
	var req academicapp.SaveCurriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.curriculumService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// Update godoc
// @Summary      Update a curriculum entry
// @Description  Replace a curriculum entry's subjects in place, re-running conflict checks with the entry itself excluded
// @Tags         curriculum
// @Accept       json
// @Produce      json
// @Param        id path string true "Curriculum Entry ID" format(uuid)
// @Param        request body academicapp.SaveCurriculumRequest true "Curriculum update request"
// @Success      200 {object} dto.Response{data=academicapp.CurriculumResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curriculum/{id} [put]
func (h *CurriculumHandler) Update(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid curriculum entry ID format")
		return
	}

	var req academicapp.SaveCurriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	entry, err := h.curriculumService.Update(c.Request.Context(), entryID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// Check godoc
// @Summary      Check a curriculum submission for conflicts
// @Description  Run the conflict checks for a candidate submission without persisting anything
// @Tags         curriculum
// @Accept       json
// @Produce      json
// @Param        ignore_entry_id query string false "Entry to exclude (for in-place edits)" format(uuid)
// @Param        request body academicapp.SaveCurriculumRequest true "Candidate submission"
// @Success      200 {object} dto.Response{data=academic.ConflictReport}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curriculum/check [post]
func (h *CurriculumHandler) Check(c *gin.Context) {
	var req academicapp.SaveCurriculumRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	ignoreEntryID := uuid.Nil
	if raw := c.Query("ignore_entry_id"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid ignore_entry_id format")
			return
		}
		ignoreEntryID = id
	}

	report, err := h.curriculumService.Check(c.Request.Context(), req, ignoreEntryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, report)
}

// GetByID godoc
// @Summary      Get curriculum entry by ID
// @Tags         curriculum
// @Produce      json
// @Param        id path string true "Curriculum Entry ID" format(uuid)
// @Success      200 {object} dto.Response{data=academicapp.CurriculumResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curriculum/{id} [get]
func (h *CurriculumHandler) GetByID(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid curriculum entry ID format")
		return
	}

	entry, err := h.curriculumService.Get(c.Request.Context(), entryID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entry)
}

// ListTrack godoc
// @Summary      List a track's curriculum entries
// @Description  Retrieve all semester entries of one (major, program code) track
// @Tags         curriculum
// @Produce      json
// @Param        major query string true "Major name"
// @Param        program_code query string false "Program code"
// @Success      200 {object} dto.Response{data=[]academicapp.CurriculumResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curriculum/track [get]
func (h *CurriculumHandler) ListTrack(c *gin.Context) {
	major := c.Query("major")
	if major == "" {
		h.BadRequest(c, "Major is required")
		return
	}

	entries, err := h.curriculumService.ListTrack(c.Request.Context(), major, c.Query("program_code"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, entries)
}

// List godoc
// @Summary      List curriculum entries
// @Description  Retrieve a paginated list of curriculum entries with optional filtering
// @Tags         curriculum
// @Produce      json
// @Param        search query string false "Search term (major, semester label)"
// @Param        major query string false "Filter by major"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]academicapp.CurriculumResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curriculum [get]
func (h *CurriculumHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if major := c.Query("major"); major != "" {
		filter.Filters["major"] = major
	}

	page, err := h.curriculumService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// Delete godoc
// @Summary      Delete a curriculum entry
// @Tags         curriculum
// @Param        id path string true "Curriculum Entry ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /curriculum/{id} [delete]
func (h *CurriculumHandler) Delete(c *gin.Context) {
	entryID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid curriculum entry ID format")
		return
	}

	if err := h.curriculumService.Delete(c.Request.Context(), entryID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
