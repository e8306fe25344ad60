package academic

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustEntry(t *testing.T, major, programCode, semester string, codes ...string) *CurriculumEntry {
	t.Helper()
	entry, err := NewCurriculumEntry(major, programCode, semester)
	require.NoError(t, err)

	inputs := make([]ItemInput, len(codes))
	for i, code := range codes {
		subject, err := NewSubject(code, "Subject "+code, SubjectTypeMajor, 3, 0)
		require.NoError(t, err)
		inputs[i] = ItemInput{Subject: subject}
	}
	require.NoError(t, entry.ReplaceItems(inputs))
	return entry
}

func TestConflictDetector_RepeatedCodes(t *testing.T) {
	d := NewConflictDetector()

	t.Run("reports codes occurring more than once", func(t *testing.T) {
		repeated := d.RepeatedCodes([]string{"A", "A", "B"})
		assert.Equal(t, []string{"A"}, repeated)
	})

	t.Run("preserves order of first duplicate occurrence", func(t *testing.T) {
		repeated := d.RepeatedCodes([]string{"C", "B", "B", "A", "C", "B"})
		assert.Equal(t, []string{"B", "C"}, repeated)
	})

	t.Run("normalizes before comparing", func(t *testing.T) {
		repeated := d.RepeatedCodes([]string{"cs101", " CS101 "})
		assert.Equal(t, []string{"CS101"}, repeated)
	})

	t.Run("ignores unique codes", func(t *testing.T) {
		assert.Empty(t, d.RepeatedCodes([]string{"A", "B", "C"}))
	})
}

func TestConflictDetector_Detect_SemesterExists(t *testing.T) {
	d := NewConflictDetector()
	existing := []*CurriculumEntry{
		mustEntry(t, "CS", "", "Semester 1", "CS101"),
	}

	t.Run("flags a second entry for the same triple", func(t *testing.T) {
		report := d.Detect(TrackSubmission{
			Major:         "CS",
			SemesterLabel: "Semester 1",
			SubjectCodes:  []string{"CS200"},
		}, existing)
		assert.True(t, report.SemesterExists)
		assert.True(t, report.HasConflicts())
	})

	t.Run("compares semester labels case-insensitively", func(t *testing.T) {
		report := d.Detect(TrackSubmission{
			Major:         "cs",
			SemesterLabel: "semester 1",
			SubjectCodes:  []string{"CS200"},
		}, existing)
		assert.True(t, report.SemesterExists)
	})

	t.Run("ignores the entry being edited", func(t *testing.T) {
		report := d.Detect(TrackSubmission{
			Major:         "CS",
			SemesterLabel: "Semester 1",
			SubjectCodes:  []string{"CS200"},
			IgnoreEntryID: existing[0].ID,
		}, existing)
		assert.False(t, report.SemesterExists)
		assert.False(t, report.HasConflicts())
	})

	t.Run("scopes to the track's program code", func(t *testing.T) {
		report := d.Detect(TrackSubmission{
			Major:         "CS",
			ProgramCode:   "ADV",
			SemesterLabel: "Semester 1",
			SubjectCodes:  []string{"CS200"},
		}, existing)
		assert.False(t, report.SemesterExists)
	})
}

func TestConflictDetector_Detect_DuplicateSubjects(t *testing.T) {
	d := NewConflictDetector()

	t.Run("reports a subject already in another semester of the track", func(t *testing.T) {
		existing := []*CurriculumEntry{
			mustEntry(t, "CS", "", "Semester 1", "A", "B"),
		}
		report := d.Detect(TrackSubmission{
			Major:         "CS",
			SemesterLabel: "Semester 2",
			SubjectCodes:  []string{"B", "C"},
		}, existing)

		require.Len(t, report.DuplicateSubjects, 1)
		assert.Equal(t, "B", report.DuplicateSubjects[0].Code)
		assert.Equal(t, []string{"Semester 1"}, report.DuplicateSubjects[0].Semesters)
		assert.False(t, report.SemesterExists)
		assert.Empty(t, report.RepeatedSubjects)
	})

	t.Run("collects every semester a code occupies", func(t *testing.T) {
		existing := []*CurriculumEntry{
			mustEntry(t, "CS", "", "Semester 1", "A"),
			mustEntry(t, "CS", "", "Semester 3", "A"),
		}
		report := d.Detect(TrackSubmission{
			Major:         "CS",
			SemesterLabel: "Semester 5",
			SubjectCodes:  []string{"A"},
		}, existing)

		require.Len(t, report.DuplicateSubjects, 1)
		assert.Equal(t, []string{"Semester 1", "Semester 3"}, report.DuplicateSubjects[0].Semesters)
	})

	t.Run("never reports collisions across different tracks", func(t *testing.T) {
		existing := []*CurriculumEntry{
			mustEntry(t, "CS", "ADV", "Semester 1", "A"),
			mustEntry(t, "MATH", "", "Semester 1", "A"),
		}
		report := d.Detect(TrackSubmission{
			Major:         "CS",
			SemesterLabel: "Semester 2",
			SubjectCodes:  []string{"A"},
		}, existing)

		assert.Empty(t, report.DuplicateSubjects)
		assert.False(t, report.HasConflicts())
	})

	t.Run("empty and absent program codes are the same track", func(t *testing.T) {
		existing := []*CurriculumEntry{
			mustEntry(t, "CS", "  ", "Semester 1", "A"),
		}
		report := d.Detect(TrackSubmission{
			Major:         "CS",
			ProgramCode:   "",
			SemesterLabel: "Semester 2",
			SubjectCodes:  []string{"A"},
		}, existing)

		require.Len(t, report.DuplicateSubjects, 1)
		assert.Equal(t, "A", report.DuplicateSubjects[0].Code)
	})
}

func TestConflictDetector_Detect_AllThreeChecksIndependent(t *testing.T) {
	d := NewConflictDetector()
	existing := []*CurriculumEntry{
		mustEntry(t, "CS", "", "Semester 1", "A", "B"),
	}

	report := d.Detect(TrackSubmission{
		Major:         "CS",
		SemesterLabel: "Semester 1",
		SubjectCodes:  []string{"B", "B", "C"},
	}, existing)

	assert.Equal(t, []string{"B"}, report.RepeatedSubjects)
	assert.True(t, report.SemesterExists)
	require.Len(t, report.DuplicateSubjects, 1)
	assert.Equal(t, "B", report.DuplicateSubjects[0].Code)
}

func TestConflictDetector_Detect_EmptyMajor(t *testing.T) {
	d := NewConflictDetector()
	existing := []*CurriculumEntry{
		mustEntry(t, "CS", "", "Semester 1", "A"),
	}

	// Required-field validation is the caller's job; the detector stays
	// quiet on an empty major.
	report := d.Detect(TrackSubmission{
		Major:         "",
		SemesterLabel: "Semester 1",
		SubjectCodes:  []string{"A", "A"},
	}, existing)

	assert.False(t, report.HasConflicts())
	assert.Empty(t, report.RepeatedSubjects)
	assert.False(t, report.SemesterExists)
	assert.Empty(t, report.DuplicateSubjects)
}

func TestConflictDetector_Detect_IgnoreEntryIDNil(t *testing.T) {
	d := NewConflictDetector()
	existing := []*CurriculumEntry{
		mustEntry(t, "CS", "", "Semester 1", "A"),
	}

	report := d.Detect(TrackSubmission{
		Major:         "CS",
		SemesterLabel: "Semester 2",
		SubjectCodes:  []string{"A"},
		IgnoreEntryID: uuid.Nil,
	}, existing)

	require.Len(t, report.DuplicateSubjects, 1)
}
