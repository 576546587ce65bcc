package service

import (
	"strings"

	"github.com/serialcheck/serialcheck-server/internal/model"
)

// SanitizeSerial trims surrounding whitespace. Serial numbers stay case sensitive.
func SanitizeSerial(sn string) string {
	return strings.TrimSpace(sn)
}

// NormalizeStatus lower-cases and trims s; anything outside the known
// statuses becomes unknown.
func NormalizeStatus(s string) model.SerialStatus {
	status := model.SerialStatus(strings.ToLower(strings.TrimSpace(s)))
	if !status.Valid() {
		return model.SerialStatusUnknown
	}
	return status
}

// NormalizeNote trims the note and maps blank notes to nil.
func NormalizeNote(note *string) *string {
	if note == nil {
		return nil
	}
	trimmed := strings.TrimSpace(*note)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

func equalNotes(a, b *string) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
