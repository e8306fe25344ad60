package handler

import (
	academicapp "github.com/acadreg/backend/internal/application/academic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// TrainingProgramHandler handles training-program API endpoints
type TrainingProgramHandler struct {
	BaseHandler
	programService *academicapp.TrainingProgramService
}

// NewTrainingProgramHandler creates a new TrainingProgramHandler
func NewTrainingProgramHandler(programService *academicapp.TrainingProgramService) *TrainingProgramHandler {
	return &TrainingProgramHandler{
		programService: programService,
	}
}

// UpdateTrainingProgramRequest represents a subject-list replacement
// @Description Request body for replacing a training program's subject list
type UpdateTrainingProgramRequest struct {
	SubjectCodes []string `json:"subject_codes" binding:"required,min=1"`
}

// Create godoc
// @Summary      Create a training program
// @Description  Create a required-subject record for one (major, faculty, ordinal) slot. Codes missing from the catalog are reported as warnings, never silently dropped.
// @Tags         training-programs
// @Accept       json
// @Produce      json
// @Param        request body academicapp.SaveTrainingProgramRequest true "Training program creation request"
// @Success      201 {object} dto.Response{data=academicapp.TrainingProgramResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /training-programs [post]
func (h *TrainingProgramHandler) Create(c *gin.Context) {
	var req academicapp.SaveTrainingProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	program, err := h.programService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, program)
}

// Update godoc
// @Summary      Replace a training program's subjects
// @Tags         training-programs
// @Accept       json
// @Produce      json
// @Param        id path string true "Training Program ID" format(uuid)
// @Param        request body UpdateTrainingProgramRequest true "Replacement subject codes"
// @Success      200 {object} dto.Response{data=academicapp.TrainingProgramResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /training-programs/{id} [put]
func (h *TrainingProgramHandler) Update(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid training program ID format")
		return
	}

	var req UpdateTrainingProgramRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	program, err := h.programService.Update(c.Request.Context(), programID, req.SubjectCodes)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, program)
}

// GetByID godoc
// @Summary      Get training program by ID
// @Tags         training-programs
// @Produce      json
// @Param        id path string true "Training Program ID" format(uuid)
// @Success      200 {object} dto.Response{data=academicapp.TrainingProgramResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /training-programs/{id} [get]
func (h *TrainingProgramHandler) GetByID(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid training program ID format")
		return
	}

	program, err := h.programService.Get(c.Request.Context(), programID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, program)
}

// ListGroup godoc
// @Summary      List a group's training programs
// @Description  Retrieve all ordinal records of one (major, faculty) group
// @Tags         training-programs
// @Produce      json
// @Param        major query string true "Major name"
// @Param        faculty_code query string true "Faculty code"
// @Success      200 {object} dto.Response{data=[]academicapp.TrainingProgramResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /training-programs/group [get]
func (h *TrainingProgramHandler) ListGroup(c *gin.Context) {
	major := c.Query("major")
	facultyCode := c.Query("faculty_code")
	if major == "" || facultyCode == "" {
		h.BadRequest(c, "Major and faculty code are required")
		return
	}

	programs, err := h.programService.ListGroup(c.Request.Context(), major, facultyCode)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, programs)
}

// List godoc
// @Summary      List training programs
// @Tags         training-programs
// @Produce      json
// @Param        search query string false "Search term (major)"
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20) maximum(100)
// @Success      200 {object} dto.Response{data=[]academicapp.TrainingProgramResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /training-programs [get]
func (h *TrainingProgramHandler) List(c *gin.Context) {
	filter, err := bindListFilter(c)
	if err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	programs, err := h.programService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, programs)
}

// Delete godoc
// @Summary      Delete a training program
// @Tags         training-programs
// @Param        id path string true "Training Program ID" format(uuid)
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /training-programs/{id} [delete]
func (h *TrainingProgramHandler) Delete(c *gin.Context) {
	programID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid training program ID format")
		return
	}

	if err := h.programService.Delete(c.Request.Context(), programID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
