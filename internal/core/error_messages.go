// Package core provides the business logic for the character roster.
//
// # Error Codes Reference
//
// This file defines user-friendly error messages with codes for support
// reference. Every front end (menu, CLI, HTTP) shows these instead of raw
// technical errors.
//
// # Record Errors (REC001-REC099)
//
//	REC001 - Malformed line: A roster line could not be read
//	         Action: Check quoting and that the line has 5 comma-separated fields
//	         Sentinel: record.ErrParse
//
//	REC002 - Non-numeric field: Level or HP is not a whole number
//	         Action: Enter level and HP as whole numbers
//	         Sentinel: record.ErrNonNumericField
//
//	REC003 - Invalid character: The character details were rejected
//	         Action: Provide a name and single-line text fields
//	         Sentinel: ErrInvalidCharacter
//
// # Selection Errors (SEL001-SEL099)
//
//	SEL001 - Out of range: No character has that number
//	         Action: Pick a number from the character list
//	         Sentinel: ErrSelectionOutOfRange
//
//	SEL002 - Invalid input: The selection is not a number
//	         Action: Please enter a number
//	         Sentinel: ErrInvalidSelection
//
// # File Errors (FILE001-FILE099)
//
//	FILE001 - Not found: The roster data file does not exist
//	          Action: Add a character to create it, or check ROSTER_FILE
//	          Sentinel: ErrFileNotFound
//
//	FILE002 - Empty: The roster has no characters
//	          Action: Add a character first
//	          Sentinel: ErrNoCharacters
//
//	FILE003 - Busy: Another change to the roster is in progress
//	          Action: Please try again in a moment
//	          Sentinel: ErrStoreBusy
//
// # Export Errors (EXP001-EXP099)
//
//	EXP001 - Unsupported format: Only json and yaml exports exist
//	         Sentinel: ErrUnsupportedFormat
//
// # Database Errors (DB001-DB099)
//
// Only reached by the optional PostgreSQL sync:
//
//	DB001 - Not configured: Database sync is disabled
//	        Patterns: "database not configured"
//	DB002 - Connection refused: Unable to connect to database
//	        Patterns: "connection refused", "connection reset"
//	DB003 - Constraint: The database rejected the roster data
//	        Patterns: "violates", "duplicate key"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled      Patterns: "context canceled"
//	REQ002 - Request timeout        Patterns: "context deadline exceeded"
//
// # Default Error (ERR000)
//
// Fallback when nothing matches. Check application logs for the original
// technical error.
//
// # Matching
//
// Sentinels are matched first with errors.Is, so text inside a record (for
// example a name) can never change the code. Patterns are then matched
// case-insensitively with strings.Contains for errors from other libraries.
// The first match wins.
package core

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/JonMunkholm/roster/internal/record"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// ErrDatabaseNotConfigured is returned when a sync is requested without a
// database URL.
var ErrDatabaseNotConfigured = errors.New("database not configured")

type errorSentinel struct {
	err error
	msg UserMessage
}

// errorSentinels maps this module's errors to user messages.
var errorSentinels = []errorSentinel{
	{
		err: record.ErrNonNumericField,
		msg: UserMessage{
			Message: "Character level or HP is not a valid number",
			Action:  "Enter level and HP as whole numbers",
			Code:    "REC002",
		},
	},
	{
		err: record.ErrParse,
		msg: UserMessage{
			Message: "Character data is malformed",
			Action:  "Check quoting and that the line has 5 comma-separated fields",
			Code:    "REC001",
		},
	},
	{
		err: ErrInvalidCharacter,
		msg: UserMessage{
			Message: "Character details were rejected",
			Action:  "Provide a name and single-line text fields",
			Code:    "REC003",
		},
	},
	{
		err: ErrSelectionOutOfRange,
		msg: UserMessage{
			Message: "Selection out of range",
			Action:  "Pick a number from the character list",
			Code:    "SEL001",
		},
	},
	{
		err: ErrInvalidSelection,
		msg: UserMessage{
			Message: "Invalid input",
			Action:  "Please enter a number",
			Code:    "SEL002",
		},
	},
	{
		err: ErrFileNotFound,
		msg: UserMessage{
			Message: "Data file not found",
			Action:  "Add a character to create it, or check ROSTER_FILE",
			Code:    "FILE001",
		},
	},
	{
		err: ErrNoCharacters,
		msg: UserMessage{
			Message: "No characters found",
			Action:  "Add a character first",
			Code:    "FILE002",
		},
	},
	{
		err: ErrStoreBusy,
		msg: UserMessage{
			Message: "Another change to the roster is in progress",
			Action:  "Please try again in a moment",
			Code:    "FILE003",
		},
	},
	{
		err: ErrUnsupportedFormat,
		msg: UserMessage{
			Message: "Unsupported export format",
			Action:  "Use json or yaml",
			Code:    "EXP001",
		},
	},
	{
		err: ErrDatabaseNotConfigured,
		msg: UserMessage{
			Message: "Database sync is not configured",
			Action:  "Set DATABASE_URL to enable sync",
			Code:    "DB001",
		},
	},
	{
		err: context.Canceled,
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		err: context.DeadlineExceeded,
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB002",
		},
	},
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "The database rejected the roster data",
			Action:  "Check the roster for duplicate characters",
			Code:    "DB003",
		},
	},
	{
		pattern: "violates",
		msg: UserMessage{
			Message: "The database rejected the roster data",
			Action:  "Check the roster for invalid values",
			Code:    "DB003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Request timed out",
			Action:  "Please try again",
			Code:    "REQ002",
		},
	},
}

// defaultMessage is returned when nothing matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or check the logs",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
//
// Example:
//
//	_, err := svc.LevelUp(ctx, 9)
//	msg := MapError(err)
//	// msg.Code == "SEL001"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, es := range errorSentinels {
		if errors.Is(err, es.err) {
			return es.msg
		}
	}

	errStr := strings.ToLower(err.Error())
	for _, ep := range errorPatterns {
		if strings.Contains(errStr, ep.pattern) {
			return ep.msg
		}
	}

	return defaultMessage
}

// FormatUserError creates a formatted error string for display.
// The format is: "Message (Code: XXX). Action"
func FormatUserError(err error) string {
	if err == nil {
		return ""
	}
	return NewUserError(err).Display()
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return NewUserError(err).Known()
}

// UserError pairs a technical error with its user-friendly message.
// Front ends log Technical and show User.
type UserError struct {
	Technical error       // Original technical error for logging
	User      UserMessage // User-friendly message for display
}

func (e *UserError) Error() string {
	return e.User.Message
}

func (e *UserError) Unwrap() error {
	return e.Technical
}

// Display renders the user message as "Message (Code: XXX). Action".
func (e *UserError) Display() string {
	return fmt.Sprintf("%s (Code: %s). %s", e.User.Message, e.User.Code, e.User.Action)
}

// Known reports whether a specific message matched (not ERR000).
func (e *UserError) Known() bool {
	return e.User.Code != defaultMessage.Code
}

// NewUserError maps err to a UserError. Returns nil if err is nil.
// An err that already is a *UserError is returned as is.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	var ue *UserError
	if errors.As(err, &ue) {
		return ue
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
