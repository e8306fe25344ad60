package academic

import (
	"context"
	"strings"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// SubjectResolver resolves submitted codes against the subject catalog
type SubjectResolver interface {
	Resolve(ctx context.Context, codes []string) (ResolveResult, error)
}

// CurriculumService handles curriculum entries and their conflict checks
type CurriculumService struct {
	curriculumRepo academic.CurriculumRepository
	resolver       SubjectResolver
	detector       *academic.ConflictDetector
	eventBus       shared.EventPublisher
}

// NewCurriculumService creates a new CurriculumService
func NewCurriculumService(
	curriculumRepo academic.CurriculumRepository,
	resolver SubjectResolver,
	eventBus shared.EventPublisher,
) *CurriculumService {
	return &CurriculumService{
		curriculumRepo: curriculumRepo,
		resolver:       resolver,
		detector:       academic.NewConflictDetector(),
		eventBus:       eventBus,
	}
}

// Check runs the conflict pipeline for a candidate submission without
// persisting anything. The same pipeline gates Create and Update.
func (s *CurriculumService) Check(ctx context.Context, req SaveCurriculumRequest, ignoreEntryID uuid.UUID) (*academic.ConflictReport, error) {
	report, _, err := s.runPipeline(ctx, req, ignoreEntryID)
	if err != nil {
		return nil, err
	}
	return report, nil
}

// Create validates a curriculum submission and persists it as a new entry.
// A submission with any conflict is rejected before anything is stored.
func (s *CurriculumService) Create(ctx context.Context, req SaveCurriculumRequest) (*CurriculumResponse, error) {
	report, resolved, err := s.runPipeline(ctx, req, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if report.HasConflicts() {
		return nil, conflictError(report)
	}

	entry, err := academic.NewCurriculumEntry(req.Major, req.ProgramCode, req.SemesterLabel)
	if err != nil {
		return nil, err
	}
	if err := entry.ReplaceItems(s.itemInputs(req, resolved)); err != nil {
		return nil, err
	}

	if err := s.curriculumRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, academic.NewCurriculumEntryCreatedEvent(entry))
	}

	resp := ToCurriculumResponse(entry)
	return &resp, nil
}

// Update validates an in-place edit of an existing entry and persists it.
// The entry being edited is excluded from the collision checks so a
// same-semester resubmission does not conflict with itself.
func (s *CurriculumService) Update(ctx context.Context, id uuid.UUID, req SaveCurriculumRequest) (*CurriculumResponse, error) {
	entry, err := s.curriculumRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(entry.Major, req.Major) ||
		academic.NormalizeProgramCode(entry.ProgramCode) != academic.NormalizeProgramCode(req.ProgramCode) {
		return nil, shared.NewDomainError("TRACK_MISMATCH", "An entry cannot be moved to another major or program")
	}

	report, resolved, err := s.runPipeline(ctx, req, id)
	if err != nil {
		return nil, err
	}
	if report.HasConflicts() {
		return nil, conflictError(report)
	}

	if err := entry.Rename(req.SemesterLabel); err != nil {
		return nil, err
	}
	if err := entry.ReplaceItems(s.itemInputs(req, resolved)); err != nil {
		return nil, err
	}

	if err := s.curriculumRepo.Save(ctx, entry); err != nil {
		return nil, err
	}

	resp := ToCurriculumResponse(entry)
	return &resp, nil
}

// Get returns a curriculum entry by ID
func (s *CurriculumService) Get(ctx context.Context, id uuid.UUID) (*CurriculumResponse, error) {
	entry, err := s.curriculumRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToCurriculumResponse(entry)
	return &resp, nil
}

// ListTrack returns every entry of a (major, program) track
func (s *CurriculumService) ListTrack(ctx context.Context, major, programCode string) ([]CurriculumResponse, error) {
	entries, err := s.curriculumRepo.FindByTrack(ctx, major, programCode)
	if err != nil {
		return nil, err
	}
	out := make([]CurriculumResponse, len(entries))
	for i, entry := range entries {
		out[i] = ToCurriculumResponse(entry)
	}
	return out, nil
}

// List returns curriculum entries matching the filter
func (s *CurriculumService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[CurriculumResponse], error) {
	entries, err := s.curriculumRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.curriculumRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	items := make([]CurriculumResponse, len(entries))
	for i := range entries {
		items[i] = ToCurriculumResponse(&entries[i])
	}
	result := shared.NewPaginated(items, total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete removes a curriculum entry
func (s *CurriculumService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.curriculumRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.curriculumRepo.Delete(ctx, id)
}

// runPipeline performs the ordered validation of a submission: the
// repeated-code check runs before any catalog or track lookup so a
// malformed submission fails fast, then unknown codes are rejected, then
// the track is loaded and the collision checks run against it.
func (s *CurriculumService) runPipeline(ctx context.Context, req SaveCurriculumRequest, ignoreEntryID uuid.UUID) (*academic.ConflictReport, ResolveResult, error) {
	codes := req.SubjectCodes()

	if repeated := s.detector.RepeatedCodes(codes); len(repeated) > 0 {
		report := academic.ConflictReport{RepeatedSubjects: repeated}
		return &report, ResolveResult{}, nil
	}

	resolved, err := s.resolver.Resolve(ctx, codes)
	if err != nil {
		return nil, ResolveResult{}, err
	}
	if !resolved.AllFound() {
		return nil, ResolveResult{}, shared.NewDomainError("SUBJECTS_NOT_FOUND",
			"Unknown subject codes: "+strings.Join(resolved.Missing, ", "))
	}

	existing, err := s.curriculumRepo.FindByTrack(ctx, req.Major, req.ProgramCode)
	if err != nil {
		return nil, ResolveResult{}, err
	}

	report := s.detector.Detect(academic.TrackSubmission{
		Major:         req.Major,
		ProgramCode:   req.ProgramCode,
		SemesterLabel: req.SemesterLabel,
		SubjectCodes:  codes,
		IgnoreEntryID: ignoreEntryID,
	}, existing)

	return &report, resolved, nil
}

func (s *CurriculumService) itemInputs(req SaveCurriculumRequest, resolved ResolveResult) []academic.ItemInput {
	inputs := make([]academic.ItemInput, len(req.Items))
	for i, item := range req.Items {
		inputs[i] = academic.ItemInput{
			Subject: resolved.Found[academic.NormalizeCode(item.SubjectCode)],
			Note:    item.Note,
		}
	}
	return inputs
}

func conflictError(report *academic.ConflictReport) error {
	var parts []string
	if len(report.RepeatedSubjects) > 0 {
		parts = append(parts, "subjects repeated within the submission: "+strings.Join(report.RepeatedSubjects, ", "))
	}
	if report.SemesterExists {
		parts = append(parts, "the semester label is already used in this track")
	}
	if len(report.DuplicateSubjects) > 0 {
		codes := make([]string, len(report.DuplicateSubjects))
		for i, d := range report.DuplicateSubjects {
			codes[i] = d.Code
		}
		parts = append(parts, "subjects already assigned in other semesters: "+strings.Join(codes, ", "))
	}
	return shared.NewDomainError("CURRICULUM_CONFLICT", strings.Join(parts, "; "))
}
