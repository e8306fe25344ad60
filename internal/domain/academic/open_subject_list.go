package academic

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/acadreg/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ListVisibility controls whether students can see an open list.
// Visibility is independent of validity: a list with coverage gaps can
// still be published and a fully covered one kept private.
type ListVisibility string

const (
	VisibilityPublic  ListVisibility = "public"
	VisibilityPrivate ListVisibility = "private"
)

var academicYearPattern = regexp.MustCompile(`^\d{4}-\d{4}$`)

// OpenSubjectItem is one sequenced slot of an open-subject list
type OpenSubjectItem struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	ListID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Seq         int       `gorm:"not null"`
	SubjectCode string    `gorm:"type:varchar(20);not null"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// TableName returns the table name for GORM
func (OpenSubjectItem) TableName() string {
	return "open_subject_items"
}

// OpenSubjectList is the set of subjects opened for registration in one
// (academic year, coarse term) bucket. At most one list exists per bucket
// and a subject code appears at most once within it.
type OpenSubjectList struct {
	shared.BaseAggregateRoot
	AcademicYear string            `gorm:"type:varchar(9);not null;index:idx_open_list_bucket"`
	Term         CoarseTerm        `gorm:"type:varchar(20);not null;index:idx_open_list_bucket"`
	Visibility   ListVisibility    `gorm:"type:varchar(10);not null;default:'private'"`
	Items        []OpenSubjectItem `gorm:"foreignKey:ListID;references:ID"`
}

// TableName returns the table name for GORM
func (OpenSubjectList) TableName() string {
	return "open_subject_lists"
}

// NewOpenSubjectList creates an empty, private list for a term bucket
func NewOpenSubjectList(academicYear string, term CoarseTerm) (*OpenSubjectList, error) {
	academicYear = strings.TrimSpace(academicYear)
	if !academicYearPattern.MatchString(academicYear) {
		return nil, shared.NewDomainError("INVALID_ACADEMIC_YEAR", fmt.Sprintf("Academic year %q must have the form YYYY-YYYY", academicYear))
	}
	if !term.IsValid() {
		return nil, shared.NewDomainError("INVALID_TERM", fmt.Sprintf("Unknown term label %q", term))
	}

	return &OpenSubjectList{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		AcademicYear:      academicYear,
		Term:              term,
		Visibility:        VisibilityPrivate,
		Items:             make([]OpenSubjectItem, 0),
	}, nil
}

// SubjectCodes returns the list's codes in sequence order
func (l *OpenSubjectList) SubjectCodes() []string {
	codes := make([]string, len(l.Items))
	for i, item := range l.Items {
		codes[i] = item.SubjectCode
	}
	return codes
}

// HasSubject reports whether the list already contains the code
func (l *OpenSubjectList) HasSubject(code string) bool {
	code = NormalizeCode(code)
	for _, item := range l.Items {
		if item.SubjectCode == code {
			return true
		}
	}
	return false
}

// AddSubject appends a code at the next sequence number
func (l *OpenSubjectList) AddSubject(code string) error {
	code = NormalizeCode(code)
	if code == "" {
		return shared.NewDomainError("INVALID_CODE", "Subject code cannot be empty")
	}
	if l.HasSubject(code) {
		return shared.NewDomainError("DUPLICATE_SUBJECT", fmt.Sprintf("Subject %s is already in the list", code))
	}

	now := time.Now()
	l.Items = append(l.Items, OpenSubjectItem{
		ID:          uuid.New(),
		ListID:      l.ID,
		Seq:         len(l.Items) + 1,
		SubjectCode: code,
		CreatedAt:   now,
		UpdatedAt:   now,
	})
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewOpenSubjectListChangedEvent(l))

	return nil
}

// RemoveSubject removes a code and closes the sequence gap
func (l *OpenSubjectList) RemoveSubject(code string) error {
	code = NormalizeCode(code)
	for i, item := range l.Items {
		if item.SubjectCode == code {
			l.Items = append(l.Items[:i], l.Items[i+1:]...)
			for j := range l.Items {
				l.Items[j].Seq = j + 1
			}
			l.UpdatedAt = time.Now()
			l.IncrementVersion()
			l.AddDomainEvent(NewOpenSubjectListChangedEvent(l))
			return nil
		}
	}
	return shared.NewDomainError("SUBJECT_NOT_IN_LIST", fmt.Sprintf("Subject %s is not in the list", code))
}

// ReplaceItems replaces the whole list, the bulk-import path. Duplicate
// codes in the input are rejected, not silently collapsed.
func (l *OpenSubjectList) ReplaceItems(codes []string) error {
	normalized := NormalizeCodes(codes)
	seen := make(map[string]bool, len(normalized))
	for _, code := range normalized {
		if code == "" {
			return shared.NewDomainError("INVALID_CODE", "Subject code cannot be empty")
		}
		if seen[code] {
			return shared.NewDomainError("DUPLICATE_SUBJECT", fmt.Sprintf("Subject %s appears more than once", code))
		}
		seen[code] = true
	}

	now := time.Now()
	items := make([]OpenSubjectItem, len(normalized))
	for i, code := range normalized {
		items[i] = OpenSubjectItem{
			ID:          uuid.New(),
			ListID:      l.ID,
			Seq:         i + 1,
			SubjectCode: code,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
	}

	l.Items = items
	l.UpdatedAt = now
	l.IncrementVersion()

	l.AddDomainEvent(NewOpenSubjectListChangedEvent(l))

	return nil
}

// SetVisibility publishes or hides the list
func (l *OpenSubjectList) SetVisibility(v ListVisibility) error {
	if v != VisibilityPublic && v != VisibilityPrivate {
		return shared.NewDomainError("INVALID_VISIBILITY", fmt.Sprintf("Unknown visibility %q", v))
	}
	l.Visibility = v
	l.UpdatedAt = time.Now()
	l.IncrementVersion()
	return nil
}
