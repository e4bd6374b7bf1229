package validation

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

// FieldLabels maps struct field names to user-facing labels
var FieldLabels = map[string]string{
	// Auth fields
	"Username": "Username",
	"Email":    "Email",
	"Password": "Password",
	"Role":     "Role",

	// Job fields
	"Title":       "Job title",
	"Description": "Description",
	"Salary":      "Salary",
	"Location":    "Location",
	"Category":    "Category",
	"Company":     "Company",

	// Application fields
	"Status":      "Status",
	"CoverLetter": "Cover letter",
}

// FormatValidationErrors converts validator.ValidationErrors to user-friendly messages
func FormatValidationErrors(err error) []string {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []string{err.Error()}
	}

	messages := make([]string, 0, len(validationErrors))
	for _, e := range validationErrors {
		messages = append(messages, formatSingleError(e))
	}
	return messages
}

// Message joins the formatted errors into one line.
func Message(err error) string {
	return strings.Join(FormatValidationErrors(err), "; ")
}

func formatSingleError(e validator.FieldError) string {
	label := getFieldLabel(e.Field())
	param := e.Param()

	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s: This field is required", label)
	case "min":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: Must be at least %s characters", label, param)
		}
		return fmt.Sprintf("%s: Must be at least %s", label, param)
	case "max":
		if e.Kind().String() == "string" {
			return fmt.Sprintf("%s: Must be at most %s characters", label, param)
		}
		return fmt.Sprintf("%s: Must be at most %s", label, param)
	case "email":
		return fmt.Sprintf("%s: Enter a valid email address", label)
	case "oneof":
		return fmt.Sprintf("%s: Must be one of: %s", label, strings.Join(strings.Fields(param), ", "))
	case "username":
		return fmt.Sprintf("%s: Letters, digits and @/./+/-/_ only", label)
	case "no_emoji":
		return fmt.Sprintf("%s: Must not contain emoji or special symbols", label)
	default:
		return fmt.Sprintf("%s: Invalid value (%s)", label, e.Tag())
	}
}

func getFieldLabel(fieldName string) string {
	if label, ok := FieldLabels[fieldName]; ok {
		return label
	}
	return formatCamelCase(fieldName)
}

// formatCamelCase converts CamelCase to spaced words
func formatCamelCase(s string) string {
	var result strings.Builder
	for i, r := range s {
		if i > 0 && r >= 'A' && r <= 'Z' {
			result.WriteRune(' ')
		}
		result.WriteRune(r)
	}
	return result.String()
}
