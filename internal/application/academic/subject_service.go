package academic

import (
	"context"
	"errors"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/google/uuid"
)

// SubjectService handles subject catalog operations
type SubjectService struct {
	subjectRepo    academic.SubjectRepository
	regulationRepo tuition.RegulationRepository
	eventBus       shared.EventPublisher
}

// NewSubjectService creates a new SubjectService
func NewSubjectService(subjectRepo academic.SubjectRepository, regulationRepo tuition.RegulationRepository, eventBus shared.EventPublisher) *SubjectService {
	return &SubjectService{
		subjectRepo:    subjectRepo,
		regulationRepo: regulationRepo,
		eventBus:       eventBus,
	}
}

// creditCoefficients loads the regulation's credit-to-period coefficients,
// falling back to the singleton defaults when no settings row exists yet.
func (s *SubjectService) creditCoefficients(ctx context.Context) (theory, practice int) {
	if s.regulationRepo != nil {
		if settings, err := s.regulationRepo.Get(ctx); err == nil {
			return settings.CreditCoefficientTheory, settings.CreditCoefficientPractice
		}
	}
	defaults := tuition.NewRegulationSettings()
	return defaults.CreditCoefficientTheory, defaults.CreditCoefficientPractice
}

// Create creates a new subject
func (s *SubjectService) Create(ctx context.Context, req CreateSubjectRequest) (*SubjectResponse, error) {
	exists, err := s.subjectRepo.ExistsByCode(ctx, req.Code)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, shared.NewDomainError("ALREADY_EXISTS", "Subject with this code already exists")
	}

	subject, err := academic.NewSubject(req.Code, req.Name, academic.SubjectType(req.SubjectType), req.TheoryCredits, req.PracticeCredits)
	if err != nil {
		return nil, err
	}
	subject.EnglishName = req.EnglishName
	subject.FacultyCode = academic.NormalizeCode(req.FacultyCode)
	subject.SetRelations(req.Prerequisites, req.Equivalents, req.Supersedes)
	subject.RecomputePeriods(s.creditCoefficients(ctx))

	if err := s.subjectRepo.Save(ctx, subject); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, academic.NewSubjectCreatedEvent(subject))
	}

	resp := ToSubjectResponse(subject)
	return &resp, nil
}

// Update updates an existing subject
func (s *SubjectService) Update(ctx context.Context, id uuid.UUID, req UpdateSubjectRequest) (*SubjectResponse, error) {
	subject, err := s.subjectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	name := subject.Name
	if req.Name != nil {
		name = *req.Name
	}
	englishName := subject.EnglishName
	if req.EnglishName != nil {
		englishName = *req.EnglishName
	}
	facultyCode := subject.FacultyCode
	if req.FacultyCode != nil {
		facultyCode = *req.FacultyCode
	}
	subjectType := subject.SubjectType
	if req.SubjectType != nil {
		subjectType = academic.SubjectType(*req.SubjectType)
	}
	if err := subject.Update(name, englishName, facultyCode, subjectType); err != nil {
		return nil, err
	}

	theory := subject.TheoryCredits
	if req.TheoryCredits != nil {
		theory = *req.TheoryCredits
	}
	practice := subject.PracticeCredits
	if req.PracticeCredits != nil {
		practice = *req.PracticeCredits
	}
	creditsChanged := theory != subject.TheoryCredits || practice != subject.PracticeCredits
	if err := subject.SetCredits(theory, practice); err != nil {
		return nil, err
	}
	if creditsChanged {
		subject.RecomputePeriods(s.creditCoefficients(ctx))
	}

	if req.Prerequisites != nil || req.Equivalents != nil || req.Supersedes != nil {
		prereqs := []string(subject.Prerequisites)
		if req.Prerequisites != nil {
			prereqs = req.Prerequisites
		}
		equivalents := []string(subject.Equivalents)
		if req.Equivalents != nil {
			equivalents = req.Equivalents
		}
		supersedes := []string(subject.Supersedes)
		if req.Supersedes != nil {
			supersedes = req.Supersedes
		}
		subject.SetRelations(prereqs, equivalents, supersedes)
	}

	if err := s.subjectRepo.Save(ctx, subject); err != nil {
		return nil, err
	}

	if s.eventBus != nil {
		_ = s.eventBus.Publish(ctx, academic.NewSubjectUpdatedEvent(subject))
	}

	resp := ToSubjectResponse(subject)
	return &resp, nil
}

// Get returns a subject by ID
func (s *SubjectService) Get(ctx context.Context, id uuid.UUID) (*SubjectResponse, error) {
	subject, err := s.subjectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToSubjectResponse(subject)
	return &resp, nil
}

// GetByCode returns a subject by its normalized code
func (s *SubjectService) GetByCode(ctx context.Context, code string) (*SubjectResponse, error) {
	subject, err := s.subjectRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	resp := ToSubjectResponse(subject)
	return &resp, nil
}

// List returns subjects matching the filter
func (s *SubjectService) List(ctx context.Context, filter shared.Filter) (*shared.Paginated[SubjectResponse], error) {
	subjects, err := s.subjectRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	total, err := s.subjectRepo.Count(ctx, filter)
	if err != nil {
		return nil, err
	}
	result := shared.NewPaginated(ToSubjectResponses(subjects), total, filter.Page, filter.PageSize)
	return &result, nil
}

// Delete removes a subject
func (s *SubjectService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.subjectRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.subjectRepo.Delete(ctx, id)
}

// Resolve maps submitted codes to catalog subjects. Codes are normalized
// before lookup; codes absent from the catalog are returned in Missing in
// first-seen submission order.
func (s *SubjectService) Resolve(ctx context.Context, codes []string) (ResolveResult, error) {
	normalized := academic.NormalizeCodes(codes)
	result := ResolveResult{Found: make(map[string]*academic.Subject, len(normalized))}
	if len(normalized) == 0 {
		return result, nil
	}

	subjects, err := s.subjectRepo.FindByCodes(ctx, normalized)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			result.Missing = normalized
			return result, nil
		}
		return ResolveResult{}, err
	}

	byCode := make(map[string]*academic.Subject, len(subjects))
	for i := range subjects {
		byCode[subjects[i].Code] = &subjects[i]
	}
	for _, code := range normalized {
		if subj, ok := byCode[code]; ok {
			result.Found[code] = subj
		} else {
			result.Missing = append(result.Missing, code)
		}
	}
	return result, nil
}
