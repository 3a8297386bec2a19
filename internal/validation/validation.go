// Package validation provides structured validation error handling
package validation

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"
)

// Limits applied to request form fields.
const (
	MaxIDLength          = 256
	MaxCredentialsLength = 64 << 10
)

// Error represents a validation error with field-specific details
type Error struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Errors represents multiple validation errors
type Errors []Error

// Error implements the error interface
func (ve Errors) Error() string {
	if len(ve) == 0 {
		return "validation failed"
	}

	var messages []string
	for _, err := range ve {
		if err.Field != "" {
			messages = append(messages, fmt.Sprintf("%s: %s", err.Field, err.Message))
		} else {
			messages = append(messages, err.Message)
		}
	}

	return strings.Join(messages, "; ")
}

// Add adds a validation error
func (ve *Errors) Add(field, message string) {
	*ve = append(*ve, Error{Field: field, Message: message})
}

// HasErrors returns true if there are validation errors
func (ve Errors) HasErrors() bool {
	return len(ve) > 0
}

// ValidateRequired checks if a value is not empty
func ValidateRequired(value string, fieldName string) *Error {
	if strings.TrimSpace(value) == "" {
		return &Error{
			Field:   fieldName,
			Message: "is required",
		}
	}
	return nil
}

// ValidateMaxLength checks if a string doesn't exceed the maximum length
func ValidateMaxLength(value string, maxLength int, fieldName string) *Error {
	if utf8.RuneCountInString(value) > maxLength {
		return &Error{
			Field:   fieldName,
			Message: fmt.Sprintf("must not exceed %d characters", maxLength),
		}
	}
	return nil
}

// ValidateKeySegment checks a value that becomes part of a cache key. The
// ':' separator is rejected so two different user/org pairs can never map
// to the same key.
func ValidateKeySegment(value string, fieldName string) *Error {
	if err := ValidateRequired(value, fieldName); err != nil {
		return err
	}
	if err := ValidateMaxLength(value, MaxIDLength, fieldName); err != nil {
		return err
	}
	if strings.Contains(value, ":") {
		return &Error{
			Field:   fieldName,
			Message: "cannot contain ':'",
		}
	}
	return nil
}

// IdentityValidation validates the user and org a flow is run for
type IdentityValidation struct {
	UserID string
	OrgID  string
}

// Validate validates identity fields
func (iv *IdentityValidation) Validate() error {
	var errors Errors

	if err := ValidateKeySegment(iv.UserID, "user_id"); err != nil {
		errors.Add(err.Field, err.Message)
	}
	if err := ValidateKeySegment(iv.OrgID, "org_id"); err != nil {
		errors.Add(err.Field, err.Message)
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}

// CredentialsValidation validates the credentials form field of a listing request
type CredentialsValidation struct {
	Credentials string
}

// Validate validates the credentials blob
func (cv *CredentialsValidation) Validate() error {
	var errors Errors

	if err := ValidateRequired(cv.Credentials, "credentials"); err != nil {
		errors.Add(err.Field, err.Message)
	} else if len(cv.Credentials) > MaxCredentialsLength {
		errors.Add("credentials", fmt.Sprintf("must not exceed %d bytes", MaxCredentialsLength))
	} else {
		var obj map[string]json.RawMessage
		if err := json.Unmarshal([]byte(cv.Credentials), &obj); err != nil {
			errors.Add("credentials", "must be a JSON object")
		}
	}

	if errors.HasErrors() {
		return errors
	}

	return nil
}
