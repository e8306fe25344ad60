package academic

import (
	"time"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/google/uuid"
)

// CreateSubjectRequest represents a request to create a subject
type CreateSubjectRequest struct {
	Code            string   `json:"code" binding:"required,min=1,max=20"`
	Name            string   `json:"name" binding:"required,min=1,max=200"`
	EnglishName     string   `json:"english_name" binding:"max=200"`
	FacultyCode     string   `json:"faculty_code" binding:"max=20"`
	SubjectType     string   `json:"subject_type" binding:"omitempty,oneof=general foundation major elective"`
	TheoryCredits   int      `json:"theory_credits" binding:"min=0"`
	PracticeCredits int      `json:"practice_credits" binding:"min=0"`
	Prerequisites   []string `json:"prerequisites"`
	Equivalents     []string `json:"equivalents"`
	Supersedes      []string `json:"supersedes"`
}

// UpdateSubjectRequest represents a request to update a subject
type UpdateSubjectRequest struct {
	Name            *string  `json:"name" binding:"omitempty,min=1,max=200"`
	EnglishName     *string  `json:"english_name" binding:"omitempty,max=200"`
	FacultyCode     *string  `json:"faculty_code" binding:"omitempty,max=20"`
	SubjectType     *string  `json:"subject_type" binding:"omitempty,oneof=general foundation major elective"`
	TheoryCredits   *int     `json:"theory_credits" binding:"omitempty,min=0"`
	PracticeCredits *int     `json:"practice_credits" binding:"omitempty,min=0"`
	Prerequisites   []string `json:"prerequisites"`
	Equivalents     []string `json:"equivalents"`
	Supersedes      []string `json:"supersedes"`
}

// SubjectResponse represents a subject in API responses
type SubjectResponse struct {
	ID              uuid.UUID `json:"id"`
	Code            string    `json:"code"`
	Name            string    `json:"name"`
	EnglishName     string    `json:"english_name"`
	FacultyCode     string    `json:"faculty_code"`
	SubjectType     string    `json:"subject_type"`
	TheoryCredits   int       `json:"theory_credits"`
	PracticeCredits int       `json:"practice_credits"`
	TotalPeriods    int       `json:"total_periods"`
	Prerequisites   []string  `json:"prerequisites"`
	Equivalents     []string  `json:"equivalents"`
	Supersedes      []string  `json:"supersedes"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
	Version         int       `json:"version"`
}

// ToSubjectResponse converts a domain Subject to SubjectResponse
func ToSubjectResponse(s *academic.Subject) SubjectResponse {
	return SubjectResponse{
		ID:              s.ID,
		Code:            s.Code,
		Name:            s.Name,
		EnglishName:     s.EnglishName,
		FacultyCode:     s.FacultyCode,
		SubjectType:     string(s.SubjectType),
		TheoryCredits:   s.TheoryCredits,
		PracticeCredits: s.PracticeCredits,
		TotalPeriods:    s.TotalPeriods,
		Prerequisites:   s.Prerequisites,
		Equivalents:     s.Equivalents,
		Supersedes:      s.Supersedes,
		CreatedAt:       s.CreatedAt,
		UpdatedAt:       s.UpdatedAt,
		Version:         s.Version,
	}
}

// ToSubjectResponses converts a slice of subjects
func ToSubjectResponses(subjects []academic.Subject) []SubjectResponse {
	out := make([]SubjectResponse, len(subjects))
	for i := range subjects {
		out[i] = ToSubjectResponse(&subjects[i])
	}
	return out
}

// ResolveResult is the outcome of resolving a set of subject codes
type ResolveResult struct {
	Found   map[string]*academic.Subject
	Missing []string
}

// AllFound reports whether every requested code resolved
func (r ResolveResult) AllFound() bool {
	return len(r.Missing) == 0
}

// CurriculumItemRequest is one subject slot in a curriculum submission
type CurriculumItemRequest struct {
	SubjectCode string `json:"subject_code" binding:"required,min=1,max=20"`
	Note        string `json:"note" binding:"max=500"`
}

// SaveCurriculumRequest represents a curriculum create or in-place edit
type SaveCurriculumRequest struct {
	Major         string                  `json:"major" binding:"required,min=1,max=100"`
	ProgramCode   string                  `json:"program_code" binding:"max=50"`
	SemesterLabel string                  `json:"semester_label" binding:"required,min=1,max=50"`
	Items         []CurriculumItemRequest `json:"items" binding:"required,min=1,dive"`
}

// SubjectCodes returns the submitted codes in order
func (r SaveCurriculumRequest) SubjectCodes() []string {
	codes := make([]string, len(r.Items))
	for i, item := range r.Items {
		codes[i] = item.SubjectCode
	}
	return codes
}

// CurriculumItemResponse is one subject slot in a curriculum response
type CurriculumItemResponse struct {
	Position        int    `json:"position"`
	SubjectCode     string `json:"subject_code"`
	SubjectName     string `json:"subject_name"`
	SubjectType     string `json:"subject_type"`
	TheoryCredits   int    `json:"theory_credits"`
	PracticeCredits int    `json:"practice_credits"`
	Note            string `json:"note,omitempty"`
}

// CurriculumResponse represents a curriculum entry in API responses
type CurriculumResponse struct {
	ID            uuid.UUID                `json:"id"`
	Major         string                   `json:"major"`
	ProgramCode   string                   `json:"program_code,omitempty"`
	SemesterLabel string                   `json:"semester_label"`
	Items         []CurriculumItemResponse `json:"items"`
	CreatedAt     time.Time                `json:"created_at"`
	UpdatedAt     time.Time                `json:"updated_at"`
	Version       int                      `json:"version"`
}

// ToCurriculumResponse converts a domain entry to CurriculumResponse
func ToCurriculumResponse(e *academic.CurriculumEntry) CurriculumResponse {
	items := make([]CurriculumItemResponse, len(e.Items))
	for i, item := range e.Items {
		items[i] = CurriculumItemResponse{
			Position:        item.Position,
			SubjectCode:     item.SubjectCode,
			SubjectName:     item.SubjectName,
			SubjectType:     string(item.SubjectType),
			TheoryCredits:   item.TheoryCredits,
			PracticeCredits: item.PracticeCredits,
			Note:            item.Note,
		}
	}
	return CurriculumResponse{
		ID:            e.ID,
		Major:         e.Major,
		ProgramCode:   e.ProgramCode,
		SemesterLabel: e.SemesterLabel,
		Items:         items,
		CreatedAt:     e.CreatedAt,
		UpdatedAt:     e.UpdatedAt,
		Version:       e.Version,
	}
}

// SaveTrainingProgramRequest represents a training-program create or update
type SaveTrainingProgramRequest struct {
	Major        string   `json:"major" binding:"required,min=1,max=100"`
	FacultyCode  string   `json:"faculty_code" binding:"required,min=1,max=20"`
	OrdinalLabel string   `json:"ordinal_label" binding:"required,min=1,max=50"`
	SubjectCodes []string `json:"subject_codes" binding:"required,min=1"`
}

// TrainingProgramResponse represents a training program in API responses.
// InvalidCodes carries write-time warnings for codes missing from the
// catalog; they are reported, never silently dropped or kept.
type TrainingProgramResponse struct {
	ID           uuid.UUID `json:"id"`
	Major        string    `json:"major"`
	FacultyCode  string    `json:"faculty_code"`
	OrdinalLabel string    `json:"ordinal_label"`
	SubjectCodes []string  `json:"subject_codes"`
	InvalidCodes []string  `json:"invalid_codes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
	Version      int       `json:"version"`
}

// ToTrainingProgramResponse converts a domain record to its response
func ToTrainingProgramResponse(p *academic.TrainingProgram, invalidCodes []string) TrainingProgramResponse {
	return TrainingProgramResponse{
		ID:           p.ID,
		Major:        p.Major,
		FacultyCode:  p.FacultyCode,
		OrdinalLabel: p.OrdinalLabel,
		SubjectCodes: p.SubjectCodes,
		InvalidCodes: invalidCodes,
		CreatedAt:    p.CreatedAt,
		UpdatedAt:    p.UpdatedAt,
		Version:      p.Version,
	}
}

// CreateOpenListRequest represents a request to create an open-subject list
type CreateOpenListRequest struct {
	AcademicYear string   `json:"academic_year" binding:"required,len=9"`
	Term         string   `json:"term" binding:"required"`
	SubjectCodes []string `json:"subject_codes"`
}

// ValidateCoverageRequest asks for a coverage check of a candidate list
type ValidateCoverageRequest struct {
	AcademicYear string   `json:"academic_year" binding:"required,len=9"`
	Term         string   `json:"term" binding:"required"`
	SubjectCodes []string `json:"subject_codes"`
}

// OpenListItemResponse is one slot of an open list in API responses
type OpenListItemResponse struct {
	Seq         int    `json:"seq"`
	SubjectCode string `json:"subject_code"`
}

// OpenListResponse represents an open-subject list in API responses
type OpenListResponse struct {
	ID           uuid.UUID              `json:"id"`
	AcademicYear string                 `json:"academic_year"`
	Term         string                 `json:"term"`
	Visibility   string                 `json:"visibility"`
	Items        []OpenListItemResponse `json:"items"`
	CreatedAt    time.Time              `json:"created_at"`
	UpdatedAt    time.Time              `json:"updated_at"`
	Version      int                    `json:"version"`
}

// ToOpenListResponse converts a domain list to OpenListResponse
func ToOpenListResponse(l *academic.OpenSubjectList) OpenListResponse {
	items := make([]OpenListItemResponse, len(l.Items))
	for i, item := range l.Items {
		items[i] = OpenListItemResponse{Seq: item.Seq, SubjectCode: item.SubjectCode}
	}
	return OpenListResponse{
		ID:           l.ID,
		AcademicYear: l.AcademicYear,
		Term:         string(l.Term),
		Visibility:   string(l.Visibility),
		Items:        items,
		CreatedAt:    l.CreatedAt,
		UpdatedAt:    l.UpdatedAt,
		Version:      l.Version,
	}
}
