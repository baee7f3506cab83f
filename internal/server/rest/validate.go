package rest

import (
	"regexp"
	"strings"
	"time"
	"unicode/utf8"
)

// emailPattern mirrors the permissive check the frontend applies: something
// before @, something after, and at least one dot in the domain part.
var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

const dueDateLayout = "2006-01-02"

// validateRegister checks the registration fields in a fixed order
// (username, email, password) and returns the first failure only.
func validateRegister(req *registerRequest) *FieldError {
	// Lengths count runes, not bytes, so multibyte names are measured the
	// way users perceive them.
	if n := utf8.RuneCountInString(req.Username); n < 3 || n > 50 {
		return &FieldError{
			Field:   "username",
			Code:    codeInvalidLength,
			Message: "username must be 3-50 characters",
		}
	}

	if !emailPattern.MatchString(req.Email) {
		return &FieldError{
			Field:   "email",
			Code:    codeInvalidFormat,
			Message: "invalid email format",
		}
	}

	if utf8.RuneCountInString(req.Password) < 6 {
		return &FieldError{
			Field:   "password",
			Code:    codeInvalidLength,
			Message: "password must be at least 6 characters",
		}
	}

	return nil
}

// validateTask checks all task fields and aggregates every failure, unlike
// registration which short-circuits.
func validateTask(req *taskRequest) []FieldError {
	var errs []FieldError

	switch {
	case req.Title == nil || *req.Title == "":
		errs = append(errs, FieldError{Field: "title", Code: codeRequired, Message: "title is required"})
	case len(strings.TrimSpace(*req.Title)) < 3:
		errs = append(errs, FieldError{Field: "title", Code: codeInvalidLength, Message: "title must be at least 3 characters"})
	case len(*req.Title) > 100:
		errs = append(errs, FieldError{Field: "title", Code: codeInvalidLength, Message: "title must be at most 100 characters"})
	}

	if req.DueDate == nil || *req.DueDate == "" {
		errs = append(errs, FieldError{Field: "due_date", Code: codeRequired, Message: "due_date is required"})
	} else if due, err := time.Parse(dueDateLayout, *req.DueDate); err != nil {
		errs = append(errs, FieldError{Field: "due_date", Code: codeInvalidFormat, Message: "due_date must be in YYYY-MM-DD format"})
	} else {
		now := time.Now().UTC()
		today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		if due.Before(today) {
			errs = append(errs, FieldError{Field: "due_date", Code: codeInvalidValue, Message: "due_date must not be in the past"})
		}
	}

	if req.Priority == nil {
		errs = append(errs, FieldError{Field: "priority", Code: codeRequired, Message: "priority is required"})
	} else if *req.Priority < 1 || *req.Priority > 5 {
		errs = append(errs, FieldError{Field: "priority", Code: codeInvalidValue, Message: "priority must be between 1 and 5"})
	}

	return errs
}
