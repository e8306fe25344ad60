package academic

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/acadreg/backend/internal/domain/shared"
)

func TestNewSubject(t *testing.T) {
	t.Run("normalizes the code and defaults the type", func(t *testing.T) {
		subject, err := NewSubject("  cs101 ", "Intro to Programming", "", 3, 1)
		require.NoError(t, err)

		assert.Equal(t, "CS101", subject.Code)
		assert.Equal(t, SubjectTypeMajor, subject.SubjectType)
		assert.Equal(t, 3, subject.TheoryCredits)
		assert.Equal(t, 1, subject.PracticeCredits)
		assert.Equal(t, 4, subject.TotalCredits())
		assert.Len(t, subject.GetDomainEvents(), 1)
	})

	t.Run("rejects invalid codes", func(t *testing.T) {
		for _, code := range []string{"", "CS 101", "CS#101", strings.Repeat("A", 21)} {
			_, err := NewSubject(code, "Name", SubjectTypeGeneral, 0, 0)
			var domainErr *shared.DomainError
			require.True(t, errors.As(err, &domainErr), "code %q", code)
			assert.Equal(t, "INVALID_CODE", domainErr.Code)
		}
	})

	t.Run("allows underscores and hyphens in codes", func(t *testing.T) {
		subject, err := NewSubject("cs_101-a", "Name", SubjectTypeElective, 2, 0)
		require.NoError(t, err)
		assert.Equal(t, "CS_101-A", subject.Code)
	})

	t.Run("rejects empty name", func(t *testing.T) {
		_, err := NewSubject("CS101", "", SubjectTypeGeneral, 0, 0)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_NAME", domainErr.Code)
	})

	t.Run("rejects negative credits", func(t *testing.T) {
		_, err := NewSubject("CS101", "Name", SubjectTypeGeneral, -1, 0)
		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_CREDITS", domainErr.Code)
	})
}

func TestSubject_Update(t *testing.T) {
	subject, err := NewSubject("CS101", "Old Name", SubjectTypeGeneral, 3, 0)
	require.NoError(t, err)
	subject.ClearDomainEvents()
	before := subject.Version

	require.NoError(t, subject.Update("New Name", "Programming I", "cntt", SubjectTypeFoundation))

	assert.Equal(t, "New Name", subject.Name)
	assert.Equal(t, "Programming I", subject.EnglishName)
	assert.Equal(t, "CNTT", subject.FacultyCode)
	assert.Equal(t, SubjectTypeFoundation, subject.SubjectType)
	assert.Equal(t, before+1, subject.Version)
	assert.Len(t, subject.GetDomainEvents(), 1)

	t.Run("empty type keeps the current type", func(t *testing.T) {
		require.NoError(t, subject.Update("New Name", "", "", ""))
		assert.Equal(t, SubjectTypeFoundation, subject.SubjectType)
	})
}

func TestSubject_RecomputePeriods(t *testing.T) {
	subject, err := NewSubject("CS101", "Name", SubjectTypeMajor, 3, 2)
	require.NoError(t, err)

	subject.RecomputePeriods(15, 30)
	assert.Equal(t, 3*15+2*30, subject.TotalPeriods)

	subject.RecomputePeriods(14, 28)
	assert.Equal(t, 3*14+2*28, subject.TotalPeriods)
}

func TestSubject_SetRelations(t *testing.T) {
	subject, err := NewSubject("CS201", "Name", SubjectTypeMajor, 3, 0)
	require.NoError(t, err)

	subject.SetRelations([]string{" cs101 ", "cs102"}, nil, []string{"old201"})

	assert.Equal(t, StringList{"CS101", "CS102"}, subject.Prerequisites)
	assert.Empty(t, subject.Equivalents)
	assert.Equal(t, StringList{"OLD201"}, subject.Supersedes)
}
