package academic

import (
	"context"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/domain/tuition"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockSubjectRepository is a mock implementation of SubjectRepository
type MockSubjectRepository struct {
	mock.Mock
}

func (m *MockSubjectRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.Subject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Subject), args.Error(1)
}

func (m *MockSubjectRepository) FindByCode(ctx context.Context, code string) (*academic.Subject, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.Subject), args.Error(1)
}

func (m *MockSubjectRepository) FindByCodes(ctx context.Context, codes []string) ([]academic.Subject, error) {
	args := m.Called(ctx, codes)
	return args.Get(0).([]academic.Subject), args.Error(1)
}

func (m *MockSubjectRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academic.Subject, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academic.Subject), args.Error(1)
}

func (m *MockSubjectRepository) Save(ctx context.Context, subject *academic.Subject) error {
	args := m.Called(ctx, subject)
	return args.Error(0)
}

func (m *MockSubjectRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockSubjectRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSubjectRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

// MockCurriculumRepository is a mock implementation of CurriculumRepository
type MockCurriculumRepository struct {
	mock.Mock
}

func (m *MockCurriculumRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.CurriculumEntry, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.CurriculumEntry), args.Error(1)
}

func (m *MockCurriculumRepository) FindByTrack(ctx context.Context, major, programCode string) ([]*academic.CurriculumEntry, error) {
	args := m.Called(ctx, major, programCode)
	return args.Get(0).([]*academic.CurriculumEntry), args.Error(1)
}

func (m *MockCurriculumRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academic.CurriculumEntry, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academic.CurriculumEntry), args.Error(1)
}

func (m *MockCurriculumRepository) Save(ctx context.Context, entry *academic.CurriculumEntry) error {
	args := m.Called(ctx, entry)
	return args.Error(0)
}

func (m *MockCurriculumRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockCurriculumRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

// MockTrainingProgramRepository is a mock implementation of TrainingProgramRepository
type MockTrainingProgramRepository struct {
	mock.Mock
}

func (m *MockTrainingProgramRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.TrainingProgram, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.TrainingProgram), args.Error(1)
}

func (m *MockTrainingProgramRepository) FindByOrdinals(ctx context.Context, ordinalLabels []string) ([]*academic.TrainingProgram, error) {
	args := m.Called(ctx, ordinalLabels)
	return args.Get(0).([]*academic.TrainingProgram), args.Error(1)
}

func (m *MockTrainingProgramRepository) FindByGroup(ctx context.Context, major, facultyCode string) ([]*academic.TrainingProgram, error) {
	args := m.Called(ctx, major, facultyCode)
	return args.Get(0).([]*academic.TrainingProgram), args.Error(1)
}

func (m *MockTrainingProgramRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academic.TrainingProgram, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academic.TrainingProgram), args.Error(1)
}

func (m *MockTrainingProgramRepository) Save(ctx context.Context, program *academic.TrainingProgram) error {
	args := m.Called(ctx, program)
	return args.Error(0)
}

func (m *MockTrainingProgramRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockOpenSubjectListRepository is a mock implementation of OpenSubjectListRepository
type MockOpenSubjectListRepository struct {
	mock.Mock
}

func (m *MockOpenSubjectListRepository) FindByID(ctx context.Context, id uuid.UUID) (*academic.OpenSubjectList, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.OpenSubjectList), args.Error(1)
}

func (m *MockOpenSubjectListRepository) FindByBucket(ctx context.Context, academicYear string, term academic.CoarseTerm) (*academic.OpenSubjectList, error) {
	args := m.Called(ctx, academicYear, term)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academic.OpenSubjectList), args.Error(1)
}

func (m *MockOpenSubjectListRepository) FindAll(ctx context.Context, filter shared.Filter) ([]academic.OpenSubjectList, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]academic.OpenSubjectList), args.Error(1)
}

func (m *MockOpenSubjectListRepository) Save(ctx context.Context, list *academic.OpenSubjectList) error {
	args := m.Called(ctx, list)
	return args.Error(0)
}

func (m *MockOpenSubjectListRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// stubResolver resolves against a fixed in-memory catalog, bypassing the
// repository round-trip the real SubjectService performs
type stubResolver struct {
	subjects map[string]*academic.Subject
}

func newStubResolver(codes ...string) *stubResolver {
	r := &stubResolver{subjects: make(map[string]*academic.Subject)}
	for _, code := range codes {
		s, _ := academic.NewSubject(code, "Subject "+code, academic.SubjectTypeMajor, 3, 0)
		r.subjects[s.Code] = s
	}
	return r
}

func (r *stubResolver) Resolve(_ context.Context, codes []string) (ResolveResult, error) {
	result := ResolveResult{Found: make(map[string]*academic.Subject)}
	for _, code := range academic.NormalizeCodes(codes) {
		if s, ok := r.subjects[code]; ok {
			result.Found[code] = s
		} else {
			result.Missing = append(result.Missing, code)
		}
	}
	return result, nil
}

// stubRegulationRepo serves fixed regulation settings to exercise
// period derivation without the tuition persistence layer.
type stubRegulationRepo struct {
	settings *tuition.RegulationSettings
	err      error
}

func (r *stubRegulationRepo) Get(_ context.Context) (*tuition.RegulationSettings, error) {
	if r.err != nil {
		return nil, r.err
	}
	return r.settings, nil
}

func (r *stubRegulationRepo) Save(_ context.Context, _ *tuition.RegulationSettings, _ int) error {
	return nil
}
