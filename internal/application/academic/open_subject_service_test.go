package academic

import (
	"context"
	"testing"

	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newOpenSubjectService(listRepo *MockOpenSubjectListRepository, programRepo *MockTrainingProgramRepository, resolver SubjectResolver) *OpenSubjectService {
	return NewOpenSubjectService(listRepo, programRepo, resolver, academic.NewTermParity(academic.DefaultProgramSemesters), nil)
}

func TestOpenSubjectService_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("creates a list for an empty bucket", func(t *testing.T) {
		listRepo := new(MockOpenSubjectListRepository)
		programRepo := new(MockTrainingProgramRepository)
		service := newOpenSubjectService(listRepo, programRepo, newStubResolver("CS101"))

		listRepo.On("FindByBucket", ctx, "2025-2026", academic.TermFirstHalf).Return(nil, shared.ErrNotFound)
		listRepo.On("Save", ctx, mock.AnythingOfType("*academic.OpenSubjectList")).Return(nil)

		resp, err := service.Create(ctx, CreateOpenListRequest{
			AcademicYear: "2025-2026",
			Term:         "first_half",
			SubjectCodes: []string{"CS101"},
		})

		require.NoError(t, err)
		assert.Equal(t, "2025-2026", resp.AcademicYear)
		assert.Equal(t, "first_half", resp.Term)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "CS101", resp.Items[0].SubjectCode)
		listRepo.AssertExpectations(t)
	})

	t.Run("rejects an occupied bucket", func(t *testing.T) {
		listRepo := new(MockOpenSubjectListRepository)
		programRepo := new(MockTrainingProgramRepository)
		service := newOpenSubjectService(listRepo, programRepo, newStubResolver())

		existing, err := academic.NewOpenSubjectList("2025-2026", academic.TermFirstHalf)
		require.NoError(t, err)
		listRepo.On("FindByBucket", ctx, "2025-2026", academic.TermFirstHalf).Return(existing, nil)

		_, err = service.Create(ctx, CreateOpenListRequest{AcademicYear: "2025-2026", Term: "first_half"})

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "ALREADY_EXISTS", domainErr.Code)
		listRepo.AssertNotCalled(t, "Save")
	})

	t.Run("rejects an invalid term", func(t *testing.T) {
		listRepo := new(MockOpenSubjectListRepository)
		programRepo := new(MockTrainingProgramRepository)
		service := newOpenSubjectService(listRepo, programRepo, newStubResolver())

		_, err := service.Create(ctx, CreateOpenListRequest{AcademicYear: "2025-2026", Term: "spring"})

		assert.Error(t, err)
		listRepo.AssertNotCalled(t, "FindByBucket")
	})
}

func TestOpenSubjectService_AddSubject(t *testing.T) {
	ctx := context.Background()

	t.Run("rejects codes missing from the catalog", func(t *testing.T) {
		listRepo := new(MockOpenSubjectListRepository)
		programRepo := new(MockTrainingProgramRepository)
		service := newOpenSubjectService(listRepo, programRepo, newStubResolver("CS101"))

		list, err := academic.NewOpenSubjectList("2025-2026", academic.TermFirstHalf)
		require.NoError(t, err)
		listRepo.On("FindByID", ctx, list.ID).Return(list, nil)

		_, err = service.AddSubject(ctx, list.ID, "XX999")

		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "SUBJECTS_NOT_FOUND", domainErr.Code)
		listRepo.AssertNotCalled(t, "Save")
	})
}

func TestOpenSubjectService_ValidateCoverage(t *testing.T) {
	ctx := context.Background()

	t.Run("summer term is exempt without touching programs", func(t *testing.T) {
		listRepo := new(MockOpenSubjectListRepository)
		programRepo := new(MockTrainingProgramRepository)
		service := newOpenSubjectService(listRepo, programRepo, newStubResolver())

		report, err := service.ValidateCoverage(ctx, ValidateCoverageRequest{
			AcademicYear: "2025-2026",
			Term:         "summer",
		})

		require.NoError(t, err)
		assert.True(t, report.Valid)
		assert.True(t, report.Exempt)
		programRepo.AssertNotCalled(t, "FindByOrdinals")
	})

	t.Run("first half checks odd semesters", func(t *testing.T) {
		listRepo := new(MockOpenSubjectListRepository)
		programRepo := new(MockTrainingProgramRepository)
		service := newOpenSubjectService(listRepo, programRepo, newStubResolver())

		p1, err := academic.NewTrainingProgram("Computer Science", "FIT", "Semester 1", []string{"CS101", "MA201"})
		require.NoError(t, err)
		p3, err := academic.NewTrainingProgram("Computer Science", "FIT", "Semester 3", []string{"CS301"})
		require.NoError(t, err)

		programRepo.On("FindByOrdinals", ctx, []string{"Semester 1", "Semester 3", "Semester 5", "Semester 7"}).
			Return([]*academic.TrainingProgram{p1, p3}, nil)

		report, err := service.ValidateCoverage(ctx, ValidateCoverageRequest{
			AcademicYear: "2025-2026",
			Term:         "first_half",
			SubjectCodes: []string{"CS101", "MA201"},
		})

		require.NoError(t, err)
		assert.False(t, report.Valid)
		require.Len(t, report.MissingByMajor, 1)
		assert.Equal(t, []string{"CS301"}, report.MissingByMajor[0].MissingSubjects)
		assert.Equal(t, 3, report.MissingByMajor[0].RequiredCount)
	})

	t.Run("no training programs is a soft pass with warning", func(t *testing.T) {
		listRepo := new(MockOpenSubjectListRepository)
		programRepo := new(MockTrainingProgramRepository)
		service := newOpenSubjectService(listRepo, programRepo, newStubResolver())

		programRepo.On("FindByOrdinals", ctx, mock.Anything).
			Return([]*academic.TrainingProgram{}, nil)

		report, err := service.ValidateCoverage(ctx, ValidateCoverageRequest{
			AcademicYear: "2025-2026",
			Term:         "second_half",
			SubjectCodes: []string{"CS101"},
		})

		require.NoError(t, err)
		assert.True(t, report.Valid)
		assert.True(t, report.Warning)
		assert.True(t, report.NoTrainingProgram)
	})
}
