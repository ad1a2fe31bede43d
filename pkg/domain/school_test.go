package domain

import (
	"errors"
	"strings"
	"testing"
)

func validSubmission() Submission {
	return Submission{
		Name:    "Oak Hill",
		Address: "12 Elm St",
		City:    "Springfield",
		State:   "IL",
		Contact: "5551234567",
		EmailID: "a@b.com",
		Website: "",
	}
}

func TestValidateAcceptsValidSubmission(t *testing.T) {
	sub := validSubmission()
	if err := sub.Validate(false, false); err != nil {
		t.Fatalf("validate: %v", err)
	}
}

func TestValidateTrimsFields(t *testing.T) {
	sub := validSubmission()
	sub.Name = "  Oak Hill  "
	sub.Contact = " 5551234567 "
	if err := sub.Validate(false, false); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if sub.Name != "Oak Hill" {
		t.Fatalf("name not trimmed: %q", sub.Name)
	}
	if sub.Contact != "5551234567" {
		t.Fatalf("contact not trimmed: %q", sub.Contact)
	}
}

func TestValidateRejectsInvalidFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*Submission)
		field  string
	}{
		{"missing name", func(s *Submission) { s.Name = "  " }, "name"},
		{"missing address", func(s *Submission) { s.Address = "" }, "address"},
		{"missing city", func(s *Submission) { s.City = "" }, "city"},
		{"missing state", func(s *Submission) { s.State = "" }, "state"},
		{"short contact", func(s *Submission) { s.Contact = "12345" }, "contact"},
		{"long contact", func(s *Submission) { s.Contact = "55512345678" }, "contact"},
		{"formatted contact", func(s *Submission) { s.Contact = "555-123-4567" }, "contact"},
		{"missing contact", func(s *Submission) { s.Contact = "" }, "contact"},
		{"bad email", func(s *Submission) { s.EmailID = "not-an-email" }, "email_id"},
		{"email without tld", func(s *Submission) { s.EmailID = "a@b" }, "email_id"},
		{"missing email", func(s *Submission) { s.EmailID = "" }, "email_id"},
		{"bad website scheme", func(s *Submission) { s.Website = "ftp://example.com" }, "website"},
		{"website without scheme", func(s *Submission) { s.Website = "example.com" }, "website"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			sub := validSubmission()
			tc.mutate(&sub)
			err := sub.Validate(false, false)
			if err == nil {
				t.Fatalf("expected validation error")
			}
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected *ValidationError, got %T", err)
			}
			found := false
			for _, f := range verr.Fields {
				if f.Field == tc.field {
					found = true
				}
			}
			if !found {
				t.Fatalf("expected violation on %q, got %v", tc.field, verr.Fields)
			}
			if !strings.Contains(err.Error(), tc.field) {
				t.Fatalf("error message %q does not mention %q", err.Error(), tc.field)
			}
		})
	}
}

func TestValidateAcceptsHTTPSAndMixedCaseScheme(t *testing.T) {
	for _, site := range []string{"http://example.com", "https://example.com", "HTTPS://example.com"} {
		sub := validSubmission()
		sub.Website = site
		if err := sub.Validate(false, false); err != nil {
			t.Fatalf("validate website %q: %v", site, err)
		}
	}
}

func TestValidateCollectsAllViolations(t *testing.T) {
	sub := Submission{}
	err := sub.Validate(false, false)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	// name, address, city, state, contact, email_id all missing.
	if len(verr.Fields) != 6 {
		t.Fatalf("expected 6 violations, got %d: %v", len(verr.Fields), verr.Fields)
	}
	// Deterministic order: declaration order.
	if verr.Fields[0].Field != "name" || verr.Fields[5].Field != "email_id" {
		t.Fatalf("unexpected field order: %v", verr.Fields)
	}
}

func TestValidateImageRequired(t *testing.T) {
	sub := validSubmission()
	err := sub.Validate(false, true)
	var verr *ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("expected *ValidationError, got %T", err)
	}
	if len(verr.Fields) != 1 || verr.Fields[0].Field != "image" {
		t.Fatalf("expected single image violation, got %v", verr.Fields)
	}

	sub = validSubmission()
	if err := sub.Validate(true, true); err != nil {
		t.Fatalf("validate with image present: %v", err)
	}
}
