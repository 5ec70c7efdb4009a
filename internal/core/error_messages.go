package core

// error_messages.go maps technical errors to coded, user-facing messages.
//
// Codes are grouped by family so support staff can tell at a glance where a
// failure came from:
//
//	IMP001 - Unknown game mode          ErrUnknownGameMode
//	IMP002 - Unknown import profile     ErrUnknownProfile
//	IMP003 - Missing owner              ErrNilOwner
//	IMP004 - Paste too large            "paste too large"
//
//	FILE001 - File too large            "file too large"
//	FILE002 - Unsupported file type     "unsupported file format"
//	FILE003 - Encoding error            "encoding error"
//	FILE004 - No file                   "no file provided"
//	FILE005 - Empty file                "empty file"
//	FILE006 - Unreadable file           "invalid csv", "invalid xlsx"
//
//	CAT001 - Catalog unavailable        ErrCatalogUnavailable, "api returned status"
//	CAT002 - Catalog payload invalid    "invalid catalog payload", "catalog payload missing"
//
//	DB001 - Duplicate key               "duplicate key"
//	DB002 - Unique constraint           "unique constraint", "violates unique"
//	DB003 - Connection refused          "connection refused"
//	DB004 - Connection reset            "connection reset"
//	DB005 - Timeout                     "timeout", "context deadline exceeded"
//	DB006 - Deadlock                    "deadlock"
//
//	RATE001 - Too many imports          ErrTooManyImports, "rate limit"
//	REQ001  - Request cancelled         "context canceled"
//
//	ERR000 - Fallback; check the logs for the technical error.
//
// Sentinel errors are matched with errors.Is first. Everything else is
// matched case-insensitively with strings.Contains, first match wins, so more
// specific patterns come before general ones.

import (
	"errors"
	"fmt"
	"strings"
)

// UserMessage provides user-friendly error information with actionable guidance.
type UserMessage struct {
	Message string `json:"message"` // What happened (user-friendly)
	Action  string `json:"action"`  // What to do about it
	Code    string `json:"code"`    // Error code for support reference
}

var (
	msgUnknownMode = UserMessage{
		Message: "Unknown game mode",
		Action:  "Choose either magic or pokemon",
		Code:    "IMP001",
	}
	msgUnknownProfile = UserMessage{
		Message: "Unknown import profile",
		Action:  "Pick one of the profiles listed at /api/profiles",
		Code:    "IMP002",
	}
	msgNilOwner = UserMessage{
		Message: "No inventory owner was given",
		Action:  "Import into a specific seller inventory",
		Code:    "IMP003",
	}
	msgCatalogUnavailable = UserMessage{
		Message: "The card catalog is unavailable",
		Action:  "Try the sync again later",
		Code:    "CAT001",
	}
	msgTooManyImports = UserMessage{
		Message: "System is busy processing other imports",
		Action:  "Please wait a moment and try again",
		Code:    "RATE001",
	}
)

// sentinelMessages are checked with errors.Is before any text matching.
var sentinelMessages = []struct {
	err error
	msg UserMessage
}{
	{ErrUnknownGameMode, msgUnknownMode},
	{ErrUnknownProfile, msgUnknownProfile},
	{ErrNilOwner, msgNilOwner},
	{ErrTooManyImports, msgTooManyImports},
	{ErrCatalogUnavailable, msgCatalogUnavailable},
}

// errorPattern defines a pattern to match and its corresponding user message.
type errorPattern struct {
	pattern string
	msg     UserMessage
}

// errorPatterns maps technical error text (case-insensitive) to user messages.
var errorPatterns = []errorPattern{
	// Import request errors
	{
		pattern: "paste too large",
		msg: UserMessage{
			Message: "Pasted list is too long",
			Action:  "Split the list into several smaller pastes",
			Code:    "IMP004",
		},
	},

	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller chunks",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "File type is not supported",
			Action:  "Upload a .csv, .tsv, .txt or .xlsx export",
			Code:    "FILE002",
		},
	},
	{
		pattern: "encoding error",
		msg: UserMessage{
			Message: "File contains invalid characters",
			Action:  "Save file as UTF-8 encoding",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a spreadsheet to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "empty file",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row and data rows",
			Code:    "FILE005",
		},
	},
	{
		pattern: "invalid csv",
		msg: UserMessage{
			Message: "File could not be read as CSV",
			Action:  "Export the sheet again as comma-separated values",
			Code:    "FILE006",
		},
	},
	{
		pattern: "invalid xlsx",
		msg: UserMessage{
			Message: "File could not be read as an Excel workbook",
			Action:  "Open the file in Excel and save it again as .xlsx",
			Code:    "FILE006",
		},
	},

	// Catalog errors
	{
		pattern: "api returned status",
		msg:     msgCatalogUnavailable,
	},
	{
		pattern: "invalid catalog payload",
		msg: UserMessage{
			Message: "The card catalog sent an unreadable response",
			Action:  "Try the sync again later",
			Code:    "CAT002",
		},
	},
	{
		pattern: "catalog payload missing",
		msg: UserMessage{
			Message: "The card catalog sent an incomplete response",
			Action:  "Try the sync again later",
			Code:    "CAT002",
		},
	},

	// Database errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A record with this ID already exists",
			Action:  "Run the sync again; existing cards are skipped",
			Code:    "DB001",
		},
	},
	{
		pattern: "unique constraint",
		msg: UserMessage{
			Message: "This value must be unique but already exists",
			Action:  "Check for duplicate entries",
			Code:    "DB002",
		},
	},
	{
		pattern: "violates unique",
		msg: UserMessage{
			Message: "A duplicate value was found",
			Action:  "Check for duplicate entries",
			Code:    "DB002",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller import or try again later",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller import or try again later",
			Code:    "DB005",
		},
	},
	{
		pattern: "deadlock",
		msg: UserMessage{
			Message: "Database was busy with conflicting operations",
			Action:  "Please try again",
			Code:    "DB006",
		},
	},

	// Request errors
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "Request was cancelled",
			Action:  "Please try again",
			Code:    "REQ001",
		},
	},
	{
		pattern: "rate limit",
		msg:     msgTooManyImports,
	},
}

// defaultMessage is returned when no pattern matches (ERR000).
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message.
// If nothing matches, a generic fallback with code ERR000 is returned.
//
// Example:
//
//	msg := MapError(fmt.Errorf("parse: %w", ErrUnknownProfile))
//	// msg.Code == "IMP002"
func MapError(err error) UserMessage {
	if err == nil {
		return UserMessage{}
	}

	for _, sm := range sentinelMessages {
		if errors.Is(err, sm.err) {
			return sm.msg
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
	msg := MapError(err)
	if msg.Message == "" {
		return ""
	}
	return fmt.Sprintf("%s (Code: %s). %s", msg.Message, msg.Code, msg.Action)
}

// IsUserFacing reports whether err maps to a specific message rather than
// the ERR000 fallback.
func IsUserFacing(err error) bool {
	if err == nil {
		return false
	}
	return MapError(err).Code != defaultMessage.Code
}
