package core

// error_messages.go maps ingestion and lookup errors to short messages with codes, so
// that diagnostics shown in the HTTP API and the interactive prompt can be
// quoted back when reporting a problem with a price file.
//
// # Validation Errors (VAL001-VAL099)
//
// Row-level problems. The row is skipped and ingestion continues:
//
//	VAL001 - Invalid number: Price or weight is not a number
//	         Action: Use a plain decimal such as 12.5 without currency or grouping
//	         Patterns: "invalid number"
//
//	VAL002 - Invalid weight: Weight is zero or negative
//	         Action: Enter the package weight in kilograms
//	         Patterns: "invalid weight"
//
//	VAL003 - Short row: Row has fewer cells than the header requires
//	         Action: Check the row for missing delimiters
//	         Patterns: "short row"
//
//	VAL004 - Missing column: Header lacks a product, price or weight column
//	         Action: Rename the header cells to one of the accepted names
//	         Patterns: "missing required column"
//
// # File Errors (FILE001-FILE099)
//
// File-level problems. The file is skipped; other files still load:
//
//	FILE001 - Empty file: The file has no header row
//	          Action: Add a header row followed by data rows
//	          Patterns: "empty file"
//
//	FILE002 - Invalid file: The file could not be parsed as a table
//	          Action: Save the file as semicolon or comma separated text
//	          Patterns: "parse error", "bare \" in non-quoted-field", "extraneous or missing \""
//
//	FILE003 - Not found: Directory or file does not exist
//	          Action: Check the configured prices directory
//	          Patterns: "no such file or directory", "file does not exist"
//
//	FILE004 - Not a directory: The prices path points to a file
//	          Action: Point the prices directory setting at a folder
//	          Patterns: "not a directory"
//
//	FILE005 - Permission denied: The file cannot be read
//	          Action: Check file permissions
//	          Patterns: "permission denied"
//
// # Catalog Errors (CAT001-CAT099)
//
//	CAT001 - Catalog sealed: The catalog no longer accepts entries
//	         Action: Reload the catalog to pick up new files
//	         Patterns: "catalog sealed"
//
//	CAT002 - Load busy: Another load is still running
//	         Action: Wait for the current load to finish and try again
//	         Patterns: "load already in progress"
//
//	CAT003 - Not loaded: No catalog has been loaded yet
//	         Action: Trigger a reload
//	         Patterns: "catalog not loaded"
//
// # Request Errors (REQ001-REQ099)
//
//	REQ001 - Request cancelled: Request was cancelled
//	         Action: Please try again
//	         Patterns: "context canceled"
//
//	REQ002 - Request timeout: Request timed out
//	         Action: Please try again
//	         Patterns: "context deadline exceeded"
//
//	REQ003 - Rate limited: Too many requests
//	         Action: Wait a minute before retrying
//	         Patterns: "rate limit exceeded"
//
// # Default Error (ERR000)
//
//	ERR000 - Unknown error: An unexpected error occurred
//	         Action: Check project.log for details
//
// # Pattern Matching
//
// Error patterns are matched case-insensitively using strings.Contains.
// The first matching pattern wins, so more specific patterns come first.

import (
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string // What happened (user-friendly)
	Action  string // What to do about it
	Code    string // Error code for support reference
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error patterns (case-insensitive) to user messages.
// The first matching pattern wins.
var errorPatterns = []errorPattern{
	// =========================================================================
	// Validation Errors (VAL001-VAL004)
	// =========================================================================
	{
		pattern: "invalid number",
		msg: UserMessage{
			Message: "Price or weight is not a number",
			Action:  "Use a plain decimal such as 12.5 without currency or grouping",
			Code:    "VAL001",
		},
	},
	{
		pattern: "invalid weight",
		msg: UserMessage{
			Message: "Weight is zero or negative",
			Action:  "Enter the package weight in kilograms",
			Code:    "VAL002",
		},
	},
	{
		pattern: "short row",
		msg: UserMessage{
			Message: "Row has fewer cells than the header requires",
			Action:  "Check the row for missing delimiters",
			Code:    "VAL003",
		},
	},
	{
		pattern: "missing required column",
		msg: UserMessage{
			Message: "Header lacks a product, price or weight column",
			Action:  "Rename the header cells to one of the accepted names",
			Code:    "VAL004",
		},
	},

	// =========================================================================
	// File Errors (FILE001-FILE005)
	// =========================================================================
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The file has no header row",
			Action:  "Add a header row followed by data rows",
			Code:    "FILE001",
		},
	},
	{
		pattern: "parse error",
		msg: UserMessage{
			Message: "The file could not be parsed as a table",
			Action:  "Save the file as semicolon or comma separated text",
			Code:    "FILE002",
		},
	},
	{
		pattern: `bare " in non-quoted-field`,
		msg: UserMessage{
			Message: "The file could not be parsed as a table",
			Action:  "Save the file as semicolon or comma separated text",
			Code:    "FILE002",
		},
	},
	{
		pattern: `extraneous or missing " in quoted-field`,
		msg: UserMessage{
			Message: "The file could not be parsed as a table",
			Action:  "Save the file as semicolon or comma separated text",
			Code:    "FILE002",
		},
	},
	{
		pattern: "no such file or directory",
		msg: UserMessage{
			Message: "Directory or file does not exist",
			Action:  "Check the configured prices directory",
			Code:    "FILE003",
		},
	},
	{
		pattern: "file does not exist",
		msg: UserMessage{
			Message: "Directory or file does not exist",
			Action:  "Check the configured prices directory",
			Code:    "FILE003",
		},
	},
	{
		pattern: "not a directory",
		msg: UserMessage{
			Message: "The prices path points to a file",
			Action:  "Point the prices directory setting at a folder",
			Code:    "FILE004",
		},
	},
	{
		pattern: "permission denied",
		msg: UserMessage{
			Message: "The file cannot be read",
			Action:  "Check file permissions",
			Code:    "FILE005",
		},
	},

	// =========================================================================
	// Catalog Errors (CAT001-CAT003)
	// =========================================================================
	{
		pattern: "catalog sealed",
		msg: UserMessage{
			Message: "The catalog no longer accepts entries",
			Action:  "Reload the catalog to pick up new files",
			Code:    "CAT001",
		},
	},
	{
		pattern: "load already in progress",
		msg: UserMessage{
			Message: "Another load is still running",
			Action:  "Wait for the current load to finish and try again",
			Code:    "CAT002",
		},
	},
	{
		pattern: "catalog not loaded",
		msg: UserMessage{
			Message: "No catalog has been loaded yet",
			Action:  "Trigger a reload",
			Code:    "CAT003",
		},
	},

	// =========================================================================
	// Request Errors (REQ001-REQ003)
	// =========================================================================
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
	{
		pattern: "rate limit exceeded",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Wait a minute before retrying",
			Code:    "REQ003",
		},
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Check project.log for details",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If no pattern matches, the ERR000 fallback is returned.
//
// Example:
//
//	err := &RowError{File: "price_1.csv", Line: 3, Err: ErrInvalidWeight}
//	msg := MapError(err)
//	// msg.Code == "VAL002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
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
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err matches a known pattern.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}

// UserError wraps a technical error with a user-friendly message.
// The original error is preserved for logging while providing a clean message for users.
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

// NewUserError maps a technical error to a UserError. Returns nil if err is nil.
func NewUserError(err error) *UserError {
	if err == nil {
		return nil
	}
	return &UserError{
		Technical: err,
		User:      MapError(err),
	}
}
