package application

import (
	"fmt"
	"strings"
)

// ValidateRequired checks if a string field is non-empty (after trimming whitespace).
// Returns a ValidationError if the field is empty.
func ValidateRequired(fieldName, value string) error {
	if strings.TrimSpace(value) == "" {
		displayName := formatFieldName(fieldName)
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s is required", displayName),
		}
	}
	return nil
}

// ValidateSize checks that a note dimension is strictly positive
func ValidateSize(fieldName string, value float64) error {
	if value <= 0 {
		return &ValidationError{
			Field:   fieldName,
			Message: fmt.Sprintf("%s must be positive, got: %g", formatFieldName(fieldName), value),
		}
	}
	return nil
}

// ValidateOccurrence checks a 1-based occurrence index
func ValidateOccurrence(value int) error {
	if value < 1 {
		return &ValidationError{
			Field:   "occurrence",
			Message: fmt.Sprintf("occurrence must be at least 1, got: %d", value),
		}
	}
	return nil
}

// formatFieldName converts camelCase field names to space-separated words
// for more readable error messages (e.g., "noteID" -> "note ID")
func formatFieldName(fieldName string) string {
	replacements := map[string]string{
		"noteID":  "note ID",
		"pageURL": "page URL",
		"docPath": "document path",
		"width":   "width",
		"height":  "height",
	}

	if formatted, ok := replacements[fieldName]; ok {
		return formatted
	}

	return fieldName
}
