package academic

import (
	"context"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// TrainingProgramService handles required-subject requirements per
// major, faculty and semester ordinal
type TrainingProgramService struct {
	programRepo academic.TrainingProgramRepository
	resolver    SubjectResolver
}

// NewTrainingProgramService creates a new TrainingProgramService
func NewTrainingProgramService(
	programRepo academic.TrainingProgramRepository,
	resolver SubjectResolver,
) *TrainingProgramService {
	return &TrainingProgramService{
		programRepo: programRepo,
		resolver:    resolver,
	}
}

// Create stores a new training-program record. Codes missing from the
// subject catalog are dropped from the stored set and reported back as
// warnings; the record is still saved as long as one valid code remains.
func (s *TrainingProgramService) Create(ctx context.Context, req SaveTrainingProgramRequest) (*TrainingProgramResponse, error) {
	valid, invalid, err := s.splitCodes(ctx, req.SubjectCodes)
	if err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return nil, shared.NewDomainError("NO_VALID_SUBJECTS", "None of the submitted subject codes exist in the catalog")
	}

	program, err := academic.NewTrainingProgram(req.Major, req.FacultyCode, req.OrdinalLabel, valid)
	if err != nil {
		return nil, err
	}

	if err := s.programRepo.Save(ctx, program); err != nil {
		return nil, err
	}

	resp := ToTrainingProgramResponse(program, invalid)
	return &resp, nil
}

// Update replaces the subject set of an existing record, with the same
// invalid-code handling as Create
func (s *TrainingProgramService) Update(ctx context.Context, id uuid.UUID, subjectCodes []string) (*TrainingProgramResponse, error) {
	program, err := s.programRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	valid, invalid, err := s.splitCodes(ctx, subjectCodes)
	if err != nil {
		return nil, err
	}
	if len(valid) == 0 {
		return nil, shared.NewDomainError("NO_VALID_SUBJECTS", "None of the submitted subject codes exist in the catalog")
	}

	program.ReplaceSubjects(valid)

	if err := s.programRepo.Save(ctx, program); err != nil {
		return nil, err
	}

	resp := ToTrainingProgramResponse(program, invalid)
	return &resp, nil
}

// Get returns a training-program record by ID
func (s *TrainingProgramService) Get(ctx context.Context, id uuid.UUID) (*TrainingProgramResponse, error) {
	program, err := s.programRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := ToTrainingProgramResponse(program, nil)
	return &resp, nil
}

// ListGroup returns the records of one (major, faculty) pair
func (s *TrainingProgramService) ListGroup(ctx context.Context, major, facultyCode string) ([]TrainingProgramResponse, error) {
	programs, err := s.programRepo.FindByGroup(ctx, major, facultyCode)
	if err != nil {
		return nil, err
	}
	out := make([]TrainingProgramResponse, len(programs))
	for i, program := range programs {
		out[i] = ToTrainingProgramResponse(program, nil)
	}
	return out, nil
}

// List returns training-program records matching the filter
func (s *TrainingProgramService) List(ctx context.Context, filter shared.Filter) ([]TrainingProgramResponse, error) {
	programs, err := s.programRepo.FindAll(ctx, filter)
	if err != nil {
		return nil, err
	}
	out := make([]TrainingProgramResponse, len(programs))
	for i := range programs {
		out[i] = ToTrainingProgramResponse(&programs[i], nil)
	}
	return out, nil
}

// Delete removes a training-program record
func (s *TrainingProgramService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.programRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.programRepo.Delete(ctx, id)
}

func (s *TrainingProgramService) splitCodes(ctx context.Context, codes []string) (valid, invalid []string, err error) {
	resolved, err := s.resolver.Resolve(ctx, codes)
	if err != nil {
		return nil, nil, err
	}
	for _, code := range academic.NormalizeCodes(codes) {
		if _, ok := resolved.Found[code]; ok {
			valid = append(valid, code)
		}
	}
	return valid, resolved.Missing, nil
}
