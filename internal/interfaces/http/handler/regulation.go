package handler

import (
	tuitionapp "github.com/acadreg/backend/internal/application/tuition"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// RegulationHandler handles regulation settings and tuition record endpoints
type RegulationHandler struct {
	BaseHandler
	regulationService *tuitionapp.RegulationService
}

// NewRegulationHandler creates a new RegulationHandler
func NewRegulationHandler(regulationService *tuitionapp.RegulationService) *RegulationHandler {
	return &RegulationHandler{
		regulationService: regulationService,
	}
}

// GetSettings godoc
// @Summary      Get regulation settings
// @Description  Retrieve the current institution-wide regulation settings
// @Tags         regulation
// @Produce      json
// @Success      200 {object} dto.Response{data=tuitionapp.UpdatedSettings}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /regulation/settings [get]
func (h *RegulationHandler) GetSettings(c *gin.Context) {
	settings, err := h.regulationService.Get(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}

// UpdateSettings godoc
// @Summary      Update regulation settings
// @Description  Apply a settings change. When credit costs move, every tuition record is recomputed and its previous fee snapshotted before the new amounts land. Concurrent changes are rejected while a cascade is running.
// @Tags         regulation
// @Accept       json
// @Produce      json
// @Param        request body tuitionapp.UpdateSettingsRequest true "Settings change request"
// @Success      200 {object} dto.Response{data=tuitionapp.UpdatedSettings}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /regulation/settings [put]
func (h *RegulationHandler) UpdateSettings(c *gin.Context) {
	var req tuitionapp.UpdateSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	settings, err := h.regulationService.ApplySettingsChange(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, settings)
}

// GetRecord godoc
// @Summary      Get tuition record by ID
// @Tags         regulation
// @Produce      json
// @Param        id path string true "Tuition Record ID" format(uuid)
// @Success      200 {object} dto.Response{data=tuitionapp.TuitionRecordResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /regulation/records/{id} [get]
func (h *RegulationHandler) GetRecord(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tuition record ID format")
		return
	}

	record, err := h.regulationService.GetRecord(c.Request.Context(), recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, record)
}

// ListRecords godoc
// @Summary      List tuition records
// @Description  Retrieve a paginated list of tuition records with optional filtering
// @Tags         regulation
// @Produce      json
// @Param        student_code query string false "Filter by student code"
// @Param        academic_year query string false "Filter by academic year"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]tuitionapp.TuitionRecordResponse,meta=dto.Meta}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /regulation/records [get]
func (h *RegulationHandler) ListRecords(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	if studentCode := c.Query("student_code"); studentCode != "" {
		filter.Filters["student_code"] = studentCode
	}
	if academicYear := c.Query("academic_year"); academicYear != "" {
		filter.Filters["academic_year"] = academicYear
	}

	page, err := h.regulationService.ListRecords(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, page.Items, page.Total, page.Page, page.PageSize)
}

// RecordHistory godoc
// @Summary      Get a tuition record's fee history
// @Description  Retrieve the historical fee snapshots taken before each recomputation, newest first
// @Tags         regulation
// @Produce      json
// @Param        id path string true "Tuition Record ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]tuitionapp.FeeHistoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /regulation/records/{id}/history [get]
func (h *RegulationHandler) RecordHistory(c *gin.Context) {
	recordID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid tuition record ID format")
		return
	}

	history, err := h.regulationService.RecordHistory(c.Request.Context(), recordID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}
