package integration

import (
	"context"
	"errors"
	"testing"

	academicapp "github.com/acadreg/backend/internal/application/academic"
	"github.com/acadreg/backend/internal/domain/academic"
	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/acadreg/backend/internal/infrastructure/persistence"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestSubjectRepository_Integration tests the SubjectRepository against a real PostgreSQL database
func TestSubjectRepository_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	repo := persistence.NewGormSubjectRepository(testDB.DB)
	ctx := context.Background()

	t.Run("Save and FindByCode", func(t *testing.T) {
		subject, err := academic.NewSubject("cs101", "Introduction to Programming", academic.SubjectTypeMajor, 3, 1)
		require.NoError(t, err)

		err = repo.Save(ctx, subject)
		require.NoError(t, err)

		// Lookup normalizes the code the same way the constructor does
		found, err := repo.FindByCode(ctx, "  cs101 ")
		require.NoError(t, err)
		assert.Equal(t, "CS101", found.Code)
		assert.Equal(t, subject.ID, found.ID)
		assert.Equal(t, 3, found.TheoryCredits)
	})

	t.Run("FindByCodes returns only existing subjects", func(t *testing.T) {
		s2, err := academic.NewSubject("CS102", "Data Structures", academic.SubjectTypeMajor, 3, 1)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, s2))

		subjects, err := repo.FindByCodes(ctx, []string{"cs101", "CS102", "MISSING999"})
		require.NoError(t, err)
		assert.Len(t, subjects, 2)
	})

	t.Run("ExistsByCode", func(t *testing.T) {
		exists, err := repo.ExistsByCode(ctx, "cs101")
		require.NoError(t, err)
		assert.True(t, exists)

		exists, err = repo.ExistsByCode(ctx, "NOPE001")
		require.NoError(t, err)
		assert.False(t, exists)
	})

	t.Run("Delete", func(t *testing.T) {
		subject, err := academic.NewSubject("TMP001", "Temporary", academic.SubjectTypeElective, 2, 0)
		require.NoError(t, err)
		require.NoError(t, repo.Save(ctx, subject))

		require.NoError(t, repo.Delete(ctx, subject.ID))

		_, err = repo.FindByID(ctx, subject.ID)
		assert.ErrorIs(t, err, shared.ErrNotFound)
	})
}

// TestCurriculumConsistency_Integration exercises the conflict pipeline
// end to end with real repositories.
func TestCurriculumConsistency_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)
	ctx := context.Background()

	subjectRepo := persistence.NewGormSubjectRepository(testDB.DB)
	curriculumRepo := persistence.NewGormCurriculumRepository(testDB.DB)
	subjectService := academicapp.NewSubjectService(subjectRepo, nil, nil)
	curriculumService := academicapp.NewCurriculumService(curriculumRepo, subjectService, nil)

	for _, code := range []string{"CS101", "CS102", "CS103"} {
		_, err := subjectService.Create(ctx, academicapp.CreateSubjectRequest{
			Code:          code,
			Name:          "Subject " + code,
			SubjectType:   "major",
			TheoryCredits: 3,
		})
		require.NoError(t, err)
	}

	t.Run("Create persists a clean submission", func(t *testing.T) {
		resp, err := curriculumService.Create(ctx, academicapp.SaveCurriculumRequest{
			Major:         "Computer Science",
			ProgramCode:   "CS2025",
			SemesterLabel: "Semester 1",
			Items: []academicapp.CurriculumItemRequest{
				{SubjectCode: "CS101"},
				{SubjectCode: "CS102"},
			},
		})
		require.NoError(t, err)
		assert.Len(t, resp.Items, 2)
		assert.Equal(t, "Subject CS101", resp.Items[0].SubjectName)
	})

	t.Run("Create rejects a subject already placed in the track", func(t *testing.T) {
		_, err := curriculumService.Create(ctx, academicapp.SaveCurriculumRequest{
			Major:         "Computer Science",
			ProgramCode:   "CS2025",
			SemesterLabel: "Semester 2",
			Items: []academicapp.CurriculumItemRequest{
				{SubjectCode: "CS102"},
				{SubjectCode: "CS103"},
			},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "CURRICULUM_CONFLICT", domainErr.Code)

		// Nothing was persisted for the rejected semester
		entries, err := curriculumService.ListTrack(ctx, "Computer Science", "CS2025")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Create rejects a reused semester label", func(t *testing.T) {
		_, err := curriculumService.Create(ctx, academicapp.SaveCurriculumRequest{
			Major:         "Computer Science",
			ProgramCode:   "CS2025",
			SemesterLabel: "Semester 1",
			Items: []academicapp.CurriculumItemRequest{
				{SubjectCode: "CS103"},
			},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "CURRICULUM_CONFLICT", domainErr.Code)
	})

	t.Run("Check reports conflicts without persisting", func(t *testing.T) {
		report, err := curriculumService.Check(ctx, academicapp.SaveCurriculumRequest{
			Major:         "Computer Science",
			ProgramCode:   "CS2025",
			SemesterLabel: "Semester 2",
			Items: []academicapp.CurriculumItemRequest{
				{SubjectCode: "cs102"},
			},
		}, uuid.Nil)
		require.NoError(t, err)
		require.True(t, report.HasConflicts())
		require.Len(t, report.DuplicateSubjects, 1)
		assert.Equal(t, "CS102", report.DuplicateSubjects[0].Code)
		assert.Contains(t, report.DuplicateSubjects[0].Semesters, "Semester 1")

		entries, err := curriculumService.ListTrack(ctx, "Computer Science", "CS2025")
		require.NoError(t, err)
		assert.Len(t, entries, 1)
	})

	t.Run("Create rejects unknown subject codes", func(t *testing.T) {
		_, err := curriculumService.Create(ctx, academicapp.SaveCurriculumRequest{
			Major:         "Computer Science",
			ProgramCode:   "CS2025",
			SemesterLabel: "Semester 3",
			Items: []academicapp.CurriculumItemRequest{
				{SubjectCode: "GHOST404"},
			},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "SUBJECTS_NOT_FOUND", domainErr.Code)
	})

	t.Run("Tracks with different program codes are independent", func(t *testing.T) {
		resp, err := curriculumService.Create(ctx, academicapp.SaveCurriculumRequest{
			Major:         "Computer Science",
			ProgramCode:   "CS2026",
			SemesterLabel: "Semester 1",
			Items: []academicapp.CurriculumItemRequest{
				{SubjectCode: "CS101"},
			},
		})
		require.NoError(t, err)
		assert.Equal(t, "CS2026", resp.ProgramCode)
	})
}

// TestCurriculumEntryUniqueIndex_Integration writes entries directly,
// bypassing the application-level conflict check, to verify that the
// storage layer itself rejects a duplicate (major, track, semester)
// triple under the same normalization the repository applies.
func TestCurriculumEntryUniqueIndex_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	testDB := NewTestDB(t)

	insert := func(major, programCode, semesterLabel string) error {
		return testDB.DB.Exec(
			`INSERT INTO curriculum_entries (id, major, program_code, semester_label) VALUES (?, ?, ?, ?)`,
			uuid.New(), major, programCode, semesterLabel,
		).Error
	}

	t.Run("rejects duplicate triple regardless of case", func(t *testing.T) {
		require.NoError(t, insert("Mathematics", "MATH2025", "Semester 1"))

		err := insert("mathematics", "math2025", "semester 1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "uq_curriculum_entry_triple")
	})

	t.Run("empty and sentinel program codes collide", func(t *testing.T) {
		require.NoError(t, insert("Mathematics", "", "Semester 2"))

		err := insert("Mathematics", "__DEFAULT__", "Semester 2")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "uq_curriculum_entry_triple")
	})

	t.Run("distinct semester in the same track is allowed", func(t *testing.T) {
		assert.NoError(t, insert("Mathematics", "MATH2025", "Semester 3"))
	})
}
