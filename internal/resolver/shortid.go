// Package resolver resolves short ID prefixes against a set of full
// UUIDs, so CLI users can type the first few characters of a message
// or task ID instead of the whole thing.
package resolver

import (
	"fmt"
	"strings"
)

// MinShortIDLength is the minimum required length for short ID prefixes.
// Set to 6 characters to balance usability with collision avoidance.
const MinShortIDLength = 6

// Resolve resolves a short ID prefix against the candidate full IDs.
// Returns the full ID if exactly one candidate matches.
//
// The function handles three cases:
// 1. Input is already a full UUID (36 chars, 4 hyphens) - validates membership
// 2. Input is too short (< 6 chars) - returns validation error
// 3. Input is a short prefix - scans candidates and returns the unique match
func Resolve(shortID string, candidates []string) (string, error) {
	// If input is already a full UUID, verify it exists and return as-is
	if len(shortID) == 36 && strings.Count(shortID, "-") == 4 {
		for _, id := range candidates {
			if id == shortID {
				return shortID, nil
			}
		}
		return "", &NotFoundError{ShortID: shortID}
	}

	// Validate minimum length
	if len(shortID) < MinShortIDLength {
		return "", fmt.Errorf("short ID must be at least %d characters (got %d)", MinShortIDLength, len(shortID))
	}

	var matches []string
	for _, id := range candidates {
		if strings.HasPrefix(id, shortID) {
			matches = append(matches, id)
		}
	}

	switch len(matches) {
	case 0:
		return "", &NotFoundError{ShortID: shortID}
	case 1:
		return matches[0], nil
	default:
		return "", &AmbiguousError{ShortID: shortID, Matches: matches}
	}
}

// NotFoundError indicates no candidate matched the short ID.
type NotFoundError struct {
	ShortID string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("no IDs found matching '%s'", e.ShortID)
}

// AmbiguousError indicates multiple candidates matched the short ID.
type AmbiguousError struct {
	ShortID string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous short ID '%s' matches %d IDs", e.ShortID, len(e.Matches))
}

// FormatAmbiguousError creates a user-friendly error message for ambiguous short IDs.
// Lists all matching IDs (up to 10, then "...and N more").
func FormatAmbiguousError(err *AmbiguousError) string {
	msg := fmt.Sprintf("Error: ambiguous short ID '%s' matches %d IDs:\n", err.ShortID, len(err.Matches))

	displayCount := len(err.Matches)
	if displayCount > 10 {
		displayCount = 10
	}

	for i := 0; i < displayCount; i++ {
		msg += fmt.Sprintf("  %s\n", err.Matches[i])
	}

	if len(err.Matches) > 10 {
		msg += fmt.Sprintf("  ...and %d more\n", len(err.Matches)-10)
	}

	msg += "\nUse a longer prefix to uniquely identify the ID."
	return msg
}

// IsNotFoundError checks if an error is a NotFoundError.
func IsNotFoundError(err error) bool {
	_, ok := err.(*NotFoundError)
	return ok
}

// IsAmbiguousError checks if an error is an AmbiguousError.
func IsAmbiguousError(err error) bool {
	_, ok := err.(*AmbiguousError)
	return ok
}
