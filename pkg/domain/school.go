package domain

import (
	"errors"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// School is a single directory entry. Image is nil when no photo was
// supplied, so consumers can tell "no photo" apart from an empty URL.
type School struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Address   string    `json:"address"`
	City      string    `json:"city"`
	State     string    `json:"state"`
	Contact   string    `json:"contact"`
	EmailID   string    `json:"email_id"`
	Website   string    `json:"website"`
	Image     *string   `json:"image"`
	CreatedAt time.Time `json:"created_at"`
}

// Submission carries the raw text fields of one incoming school entry,
// before validation. Trimming happens during Validate.
type Submission struct {
	Name    string
	Address string
	City    string
	State   string
	Contact string
	EmailID string
	Website string
}

var (
	// ErrSchoolNotFound indicates a lookup for an id with no row.
	ErrSchoolNotFound = errors.New("school not found")

	contactPattern = regexp.MustCompile(`^[0-9]{10}$`)
	emailPattern   = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
)

// FieldError is one validation violation, keyed by the submitted field name.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every violation found in a submission.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field, f.Message))
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// Validate trims all text fields in place and returns every violation at
// once. Fields are checked in declaration order so the result is
// deterministic. hasImage reports whether a file part arrived;
// imageRequired turns a missing file into a violation.
func (s *Submission) Validate(hasImage, imageRequired bool) error {
	s.Name = strings.TrimSpace(s.Name)
	s.Address = strings.TrimSpace(s.Address)
	s.City = strings.TrimSpace(s.City)
	s.State = strings.TrimSpace(s.State)
	s.Contact = strings.TrimSpace(s.Contact)
	s.EmailID = strings.TrimSpace(s.EmailID)
	s.Website = strings.TrimSpace(s.Website)

	verr := &ValidationError{}
	if s.Name == "" {
		verr.add("name", "name is required")
	}
	if s.Address == "" {
		verr.add("address", "address is required")
	}
	if s.City == "" {
		verr.add("city", "city is required")
	}
	if s.State == "" {
		verr.add("state", "state is required")
	}
	if s.Contact == "" {
		verr.add("contact", "contact is required")
	} else if !contactPattern.MatchString(s.Contact) {
		verr.add("contact", "contact must be exactly 10 digits")
	}
	if s.EmailID == "" {
		verr.add("email_id", "email_id is required")
	} else if !emailPattern.MatchString(s.EmailID) {
		verr.add("email_id", "email_id must be a valid email address")
	}
	if s.Website != "" && !hasHTTPScheme(s.Website) {
		verr.add("website", "website must start with http:// or https://")
	}
	if imageRequired && !hasImage {
		verr.add("image", "image is required")
	}
	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func hasHTTPScheme(url string) bool {
	lower := strings.ToLower(url)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}

// SortKey selects the field Apply orders by. Unknown values fall back to
// sorting by name.
type SortKey string

const (
	SortByName  SortKey = "name"
	SortByCity  SortKey = "city"
	SortByState SortKey = "state"
)

// Apply filters and sorts a listing in memory. search matches
// case-insensitively against name, city or state; stateFilter is an exact
// match on state ("" disables it); both filters are AND-combined and run
// before the sort. The sort is ascending and stable, so ties keep their
// original order. The input slice is never modified.
func Apply(schools []School, search string, sortKey SortKey, stateFilter string) []School {
	needle := strings.ToLower(strings.TrimSpace(search))
	out := make([]School, 0, len(schools))
	for _, s := range schools {
		if needle != "" && !matchesSearch(s, needle) {
			continue
		}
		if stateFilter != "" && s.State != stateFilter {
			continue
		}
		out = append(out, s)
	}
	key := func(s School) string {
		switch sortKey {
		case SortByCity:
			return s.City
		case SortByState:
			return s.State
		default:
			return s.Name
		}
	}
	coll := collate.New(language.Und, collate.IgnoreCase)
	sort.SliceStable(out, func(i, j int) bool {
		return coll.CompareString(key(out[i]), key(out[j])) < 0
	})
	return out
}

func matchesSearch(s School, needle string) bool {
	return strings.Contains(strings.ToLower(s.Name), needle) ||
		strings.Contains(strings.ToLower(s.City), needle) ||
		strings.Contains(strings.ToLower(s.State), needle)
}
