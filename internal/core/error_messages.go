package core

// error_messages.go maps technical errors to messages users can act on.
// Each message carries a code support staff can look up:
//
//	FILE001-FILE099  upload content (size, format, encoding)
//	IMP001-IMP099    import semantics (rows, mapping, search)
//	UPL001-UPL099    import lifecycle (busy, cancelled, timeout, expired)
//	DB001-DB099      storage
//	RATE001          request throttling
//	ERR000           fallback; check the logs for the technical error
//
// Patterns are matched case-insensitively with strings.Contains and the
// first match wins, so specific patterns come before general ones.

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

type errorPattern struct {
	pattern string
	msg     UserMessage
}

var errorPatterns = []errorPattern{
	// File errors
	{
		pattern: "file too large",
		msg: UserMessage{
			Message: "File exceeds the maximum upload size",
			Action:  "Split the file into smaller files",
			Code:    "FILE001",
		},
	},
	{
		pattern: "unsupported file format",
		msg: UserMessage{
			Message: "Unsupported file type",
			Action:  "Upload a CSV or XLSX file (legacy .xls files must be saved as .xlsx)",
			Code:    "FILE002",
		},
	},
	{
		pattern: "parse csv",
		msg: UserMessage{
			Message: "The CSV file could not be read",
			Action:  "Export the sheet again as CSV using comma or semicolon separators",
			Code:    "FILE003",
		},
	},
	{
		pattern: "open workbook",
		msg: UserMessage{
			Message: "The spreadsheet could not be opened",
			Action:  "Open the file in Excel and save it again as .xlsx",
			Code:    "FILE003",
		},
	},
	{
		pattern: "file could not be read",
		msg: UserMessage{
			Message: "The file could not be read",
			Action:  "Save the file again as CSV or .xlsx and retry",
			Code:    "FILE003",
		},
	},
	{
		pattern: "no file provided",
		msg: UserMessage{
			Message: "No file was selected",
			Action:  "Please select a CSV or XLSX file to upload",
			Code:    "FILE004",
		},
	},
	{
		pattern: "file is empty",
		msg: UserMessage{
			Message: "The uploaded file is empty",
			Action:  "Please upload a file with a header row and lead rows",
			Code:    "FILE005",
		},
	},

	{
		pattern: "invalid multipart form",
		msg: UserMessage{
			Message: "The upload could not be read",
			Action:  "Send the file as multipart/form-data in a field named \"file\"",
			Code:    "FILE006",
		},
	},

	// Import errors
	{
		pattern: "no data rows",
		msg: UserMessage{
			Message: "The file has no lead rows",
			Action:  "Make sure the first row is the header and leads start on the second row",
			Code:    "IMP001",
		},
	},
	{
		pattern: "invalid column mapping",
		msg: UserMessage{
			Message: "The column mapping does not match the file",
			Action:  "Use field names name, email, phone, address, city, state, website or type and existing column numbers",
			Code:    "IMP002",
		},
	},
	{
		pattern: "invalid search id",
		msg: UserMessage{
			Message: "The search ID is not valid",
			Action:  "Use the numeric ID of an existing search",
			Code:    "IMP004",
		},
	},
	{
		pattern: "search not found",
		msg: UserMessage{
			Message: "The lead search does not exist",
			Action:  "Create the search before importing leads into it",
			Code:    "IMP003",
		},
	},

	// Lifecycle errors
	{
		pattern: "too many concurrent imports",
		msg: UserMessage{
			Message: "Too many imports in progress",
			Action:  "Please wait a moment and try again",
			Code:    "UPL002",
		},
	},
	{
		pattern: "import not found",
		msg: UserMessage{
			Message: "Import result not found",
			Action:  "The result may have expired. Check the import history of the search",
			Code:    "UPL003",
		},
	},
	{
		pattern: "context canceled",
		msg: UserMessage{
			Message: "The import was cancelled",
			Action:  "Leads imported before cancellation were kept. Upload again to continue",
			Code:    "UPL004",
		},
	},
	{
		pattern: "context deadline exceeded",
		msg: UserMessage{
			Message: "The import timed out",
			Action:  "Leads imported before the timeout were kept. Split the file and upload the rest",
			Code:    "UPL005",
		},
	},

	// Storage errors
	{
		pattern: "duplicate key",
		msg: UserMessage{
			Message: "A lead with this key already exists",
			Action:  "Remove the duplicate rows and try again",
			Code:    "DB001",
		},
	},
	{
		pattern: "violates foreign key",
		msg: UserMessage{
			Message: "Referenced record does not exist",
			Action:  "Make sure the search exists before importing",
			Code:    "DB003",
		},
	},
	{
		pattern: "connection refused",
		msg: UserMessage{
			Message: "Unable to connect to database",
			Action:  "Please try again in a few moments",
			Code:    "DB004",
		},
	},
	{
		pattern: "connection reset",
		msg: UserMessage{
			Message: "Database connection was interrupted",
			Action:  "Please try again",
			Code:    "DB005",
		},
	},
	{
		pattern: "timeout",
		msg: UserMessage{
			Message: "Operation timed out",
			Action:  "Try a smaller file or try again later",
			Code:    "DB006",
		},
	},

	{
		pattern: "rate limit",
		msg: UserMessage{
			Message: "Too many requests",
			Action:  "Please wait a moment before trying again",
			Code:    "RATE001",
		},
	},
}

// defaultMessage is returned when no pattern matches.
var defaultMessage = UserMessage{
	Message: "An unexpected error occurred",
	Action:  "Please try again or contact support",
	Code:    "ERR000",
}

// MapError converts a technical error to a user-friendly message. It returns
// the zero UserMessage for a nil error and ERR000 when nothing matches.
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

// FormatUserError renders err as "Message (Code: XXX). Action".
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
