package academic

import (
	"context"
	"strings"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/infrastructure/telemetry"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
)

// OpenSubjectService handles per-bucket open-subject lists and their
// coverage validation against training-program requirements
type OpenSubjectService struct {
	listRepo    academic.OpenSubjectListRepository
	programRepo academic.TrainingProgramRepository
	resolver    SubjectResolver
	parity      *academic.TermParity
	validator   *academic.CoverageValidator
	eventBus    shared.EventPublisher
}

// NewOpenSubjectService creates a new OpenSubjectService
func NewOpenSubjectService(
	listRepo academic.OpenSubjectListRepository,
	programRepo academic.TrainingProgramRepository,
	resolver SubjectResolver,
	parity *academic.TermParity,
	eventBus shared.EventPublisher,
) *OpenSubjectService {
	return &OpenSubjectService{
		listRepo:    listRepo,
		programRepo: programRepo,
		resolver:    resolver,
		parity:      parity,
		validator:   academic.NewCoverageValidator(),
		eventBus:    eventBus,
	}
}

// Create creates the open list of an (academic year, term) bucket
func (s *OpenSubjectService) Create(ctx context.Context, req CreateOpenListRequest) (*OpenListResponse, error) {
	term, err := academic.ParseCoarseTerm(req.Term)
	if err != nil {
		return nil, err
	}

	if existing, err := s.listRepo.FindByBucket(ctx, req.AcademicYear, term); err == nil && existing != nil {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "An open list already exists for this academic year and term")
	}

	list, err := academic.NewOpenSubjectList(req.AcademicYear, term)
	if err != nil {
		return nil, err
	}

	if len(req.SubjectCodes) > 0 {
		codes, err := s.checkedCodes(ctx, req.SubjectCodes)
		if err != nil {
			return nil, err
		}
		if err := list.ReplaceItems(codes); err != nil {
			return nil, err
		}
	}

	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, academic.NewOpenSubjectListChangedEvent(list))
	}

	resp := ToOpenListResponse(list)
	return &resp, nil
}

// ReplaceSubjects replaces the full subject set of a list
func (s *OpenSubjectService) ReplaceSubjects(ctx context.Context, id uuid.UUID, subjectCodes []string) (*OpenListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	codes, err := s.checkedCodes(ctx, subjectCodes)
	if err != nil {
		return nil, err
	}
	if err := list.ReplaceItems(codes); err != nil {
		return nil, err
	}

	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, academic.NewOpenSubjectListChangedEvent(list))
	}

	resp := ToOpenListResponse(list)
	return &resp, nil
}

// AddSubject appends one subject to a list
func (s *OpenSubjectService) AddSubject(ctx context.Context, id uuid.UUID, code string) (*OpenListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	resolved, err := s.resolver.Resolve(ctx, []string{code})
	if err != nil {
		return nil, err
	}
	if !resolved.AllFound() {
		return nil, shared.NewDomainError("SUBJECTS_NOT_FOUND", "Unknown subject code: "+academic.NormalizeCode(code))
	}

	if err := list.AddSubject(code); err != nil {
		return nil, err
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}

	resp := ToOpenListResponse(list)
	return &resp, nil
}

// RemoveSubject removes one subject from a list
func (s *OpenSubjectService) RemoveSubject(ctx context.Context, id uuid.UUID, code string) (*OpenListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := list.RemoveSubject(code); err != nil {
		return nil, err
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}

	resp := ToOpenListResponse(list)
	return &resp, nil
}

// SetVisibility publishes or hides a list
func (s *OpenSubjectService) SetVisibility(ctx context.Context, id uuid.UUID, visibility string) (*OpenListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := list.SetVisibility(academic.ListVisibility(visibility)); err != nil {
		return nil, err
	}
	if err := s.listRepo.Save(ctx, list); err != nil {
		return nil, err
	}

	resp := ToOpenListResponse(list)
	return &resp, nil
}

// Get returns a list by ID
func (s *OpenSubjectService) Get(ctx context.Context, id uuid.UUID) (*OpenListResponse, error) {
	list, err := s.listRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToOpenListResponse(list)
	return &resp, nil
}

// GetBucket returns the list of one (academic year, term) bucket
func (s *OpenSubjectService) GetBucket(ctx context.Context, academicYear, term string) (*OpenListResponse, error) {
	coarse, err := academic.ParseCoarseTerm(term)
	if err != nil {
		return nil, err
	}
	list, err := s.listRepo.FindByBucket(ctx, academicYear, coarse)
	if err != nil {
		return nil, err
	}
	resp := ToOpenListResponse(list)
	return &resp, nil
}

// List returns open lists matching the filter
func (s *OpenSubjectService) List(ctx context.Context, filter shared.Filter) ([]OpenListResponse, error) {
	lists, err := s.listRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]OpenListResponse, len(lists))
	for i := range lists {
		out[i] = ToOpenListResponse(&lists[i])
	}
	return out, nil
}

// Delete removes a list
func (s *OpenSubjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.listRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.listRepo.Delete(ctx, id)
}

// ValidateCoverage checks a candidate subject set against the
// training-program requirements of the semesters the term maps to.
// Summer terms are exempt and return immediately; an empty requirement
// set is a soft pass flagged as a warning.
func (s *OpenSubjectService) ValidateCoverage(ctx context.Context, req ValidateCoverageRequest) (*academic.CoverageReport, error) {
	ctx, span := telemetry.StartSpan(ctx, "academic.validate_coverage",
		attribute.String("term", req.Term),
		attribute.Int("candidate_count", len(req.SubjectCodes)))
	defer span.End()

	term, err := academic.ParseCoarseTerm(req.Term)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	ordinals, exempt := s.parity.Ordinals(term)
	if exempt {
		report := academic.ExemptReport()
		telemetry.SetOK(span)
		return &report, nil
	}

	programs, err := s.programRepo.FindByOrdinals(ctx, ordinals)
	if err != nil {
		telemetry.RecordError(span, err)
		return nil, err
	}

	report := s.validator.Validate(req.SubjectCodes, programs)
	telemetry.SetOK(span)
	span.SetAttributes(
		attribute.Bool("coverage_valid", report.Valid),
		attribute.Int("total_missing", report.Stats.TotalMissing))
	return &report, nil
}

func (s *OpenSubjectService) checkedCodes(ctx context.Context, codes []string) ([]string, error) {
	resolved, err := s.resolver.Resolve(ctx, codes)
	if err != nil {
		return nil, err
	}
	if !resolved.AllFound() {
		return nil, shared.NewDomainError("SUBJECTS_NOT_FOUND",
			"Unknown subject codes: "+strings.Join(resolved.Missing, ", "))
	}
	return codes, nil
}
