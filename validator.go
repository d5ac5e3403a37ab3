package rowangate

import (
	"time"
	"unicode/utf8"
)

// DefaultMaxMessageLength is the maximum outbound message length in runes.
// It matches the limit enforced server-side.
const DefaultMaxMessageLength = 1000

// validateMessage rejects malformed or oversized messages before any cache,
// rate-limit or network activity. It has no side effects.
func validateMessage(message string, maxLength int) error {
	if message == "" || !utf8.ValidString(message) {
		return &ClientError{
			Type:      ErrorTypeValidation,
			Message:   "message must be non-empty text",
			Timestamp: time.Now(),
		}
	}
	if utf8.RuneCountInString(message) > maxLength {
		return &ClientError{
			Type:      ErrorTypeValidation,
			Message:   "message exceeds maximum length",
			Timestamp: time.Now(),
		}
	}
	return nil
}
