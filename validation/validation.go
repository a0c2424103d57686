// Package validation checks inbound note data before it reaches the store.
package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"unicode/utf8"

	"public-notes/models"
)

const (
	MaxShortFieldLength = 255
	MaxTextLength       = 2000
)

var (
	ErrMissingField     = errors.New("missing field")
	ErrEmptyField       = errors.New("empty field")
	ErrFieldTooLong     = errors.New("field too long")
	ErrInvalidEmail     = errors.New("invalid email")
	ErrInvalidTagFormat = errors.New("invalid tag format")
)

var emailPattern = regexp.MustCompile(`^[^@]+@[^@]+\.[^@]+$`)

// FieldError names the offending field. It unwraps to one of the Err*
// sentinels above.
type FieldError struct {
	Field string
	Err   error
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Err)
}

func (e *FieldError) Unwrap() error {
	return e.Err
}

// IsClientError reports whether err came from this package.
func IsClientError(err error) bool {
	return errors.Is(err, ErrMissingField) ||
		errors.Is(err, ErrEmptyField) ||
		errors.Is(err, ErrFieldTooLong) ||
		errors.Is(err, ErrInvalidEmail) ||
		errors.Is(err, ErrInvalidTagFormat)
}

// Validate applies presence, emptiness, length and email checks in that
// order and stops at the first failure. The returned note carries trimmed
// fields and no tag.
func Validate(p models.NotePayload) (models.Note, error) {
	fields := []struct {
		name  string
		value *string
	}{
		{"title", p.Title},
		{"name", p.Name},
		{"email", p.Email},
		{"text", p.Text},
	}
	for _, f := range fields {
		if f.value == nil {
			return models.Note{}, &FieldError{Field: f.name, Err: ErrMissingField}
		}
	}

	note := models.Note{
		Title: strings.TrimSpace(*p.Title),
		Name:  strings.TrimSpace(*p.Name),
		Email: strings.TrimSpace(*p.Email),
		Text:  strings.TrimSpace(*p.Text),
	}

	switch {
	case note.Title == "":
		return models.Note{}, &FieldError{Field: "title", Err: ErrEmptyField}
	case note.Name == "":
		return models.Note{}, &FieldError{Field: "name", Err: ErrEmptyField}
	case note.Text == "":
		return models.Note{}, &FieldError{Field: "text", Err: ErrEmptyField}
	}

	switch {
	case utf8.RuneCountInString(note.Title) > MaxShortFieldLength:
		return models.Note{}, &FieldError{Field: "title", Err: ErrFieldTooLong}
	case utf8.RuneCountInString(note.Name) > MaxShortFieldLength:
		return models.Note{}, &FieldError{Field: "name", Err: ErrFieldTooLong}
	case utf8.RuneCountInString(note.Email) > MaxShortFieldLength:
		return models.Note{}, &FieldError{Field: "email", Err: ErrFieldTooLong}
	case utf8.RuneCountInString(note.Text) > MaxTextLength:
		return models.Note{}, &FieldError{Field: "text", Err: ErrFieldTooLong}
	}

	if !emailPattern.MatchString(note.Email) {
		return models.Note{}, &FieldError{Field: "email", Err: ErrInvalidEmail}
	}

	return note, nil
}

// ValidateEmail trims email and checks it the same way Validate does.
func ValidateEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if utf8.RuneCountInString(email) > MaxShortFieldLength {
		return "", &FieldError{Field: "email", Err: ErrFieldTooLong}
	}
	if !emailPattern.MatchString(email) {
		return "", &FieldError{Field: "email", Err: ErrInvalidEmail}
	}
	return email, nil
}

// ParseTag accepts a JSON integer or a JSON string holding a base-10
// integer. Absent and null tags are ErrMissingField; anything else that is
// not a whole number is ErrInvalidTagFormat.
func ParseTag(raw json.RawMessage) (int64, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return 0, &FieldError{Field: "tag", Err: ErrMissingField}
	}

	var text string
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return 0, &FieldError{Field: "tag", Err: ErrInvalidTagFormat}
		}
		text = strings.TrimSpace(text)
	} else {
		text = string(raw)
	}

	tag, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return 0, &FieldError{Field: "tag", Err: ErrInvalidTagFormat}
	}
	return tag, nil
}
