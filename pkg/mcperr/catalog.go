package mcperr

import (
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

// Code defines a canonical MCP error code used across tools.
type Code string

const (
	// Validation & Input
	Validation        Code = "VALIDATION"
	InvalidHandle     Code = "INVALID_HANDLE"
	InvalidSheet      Code = "INVALID_SHEET"
	InvalidCoordinate Code = "INVALID_COORDINATE"
	CursorInvalid     Code = "CURSOR_INVALID"
	CursorBuildFailed Code = "CURSOR_BUILD_FAILED"

	// Resource & Limits
	BusyResource    Code = "BUSY_RESOURCE"
	Timeout         Code = "TIMEOUT"
	LimitExceeded   Code = "LIMIT_EXCEEDED"
	PayloadTooLarge Code = "PAYLOAD_TOO_LARGE"
	FileTooLarge    Code = "FILE_TOO_LARGE"

	// IO & Formats
	OpenFailed   Code = "OPEN_FAILED"
	ParseFailed  Code = "PARSE_FAILED"
	DecodeFailed Code = "DECODE_FAILED"

	// Structure lookup
	BlockNotFound     Code = "BLOCK_NOT_FOUND"
	ConstructNotFound Code = "CONSTRUCT_NOT_FOUND"

	// Integrity
	CorruptWorkbook   Code = "CORRUPT_WORKBOOK"
	UnsupportedFormat Code = "UNSUPPORTED_FORMAT"
	PermissionDenied  Code = "PERMISSION_DENIED"
)

// Entry documents a code's standard message, retry semantics, and next steps.
type Entry struct {
	Code      Code
	Message   string
	Retryable bool
	NextSteps []string
}

// catalog maps canonical codes to guidance. Messages can be overridden per error.
var catalog = map[Code]Entry{
	Validation:        {Code: Validation, Message: "invalid inputs", Retryable: true, NextSteps: []string{"Correct the inputs per schema and retry", "See examples in tool description"}},
	InvalidHandle:     {Code: InvalidHandle, Message: "grid handle not found or expired", Retryable: true, NextSteps: []string{"Reopen the grid via path and retry"}},
	InvalidSheet:      {Code: InvalidSheet, Message: "sheet not found", Retryable: true, NextSteps: []string{"Call list_blocks to verify the grid loaded", "Check sheet name case and spacing"}},
	InvalidCoordinate: {Code: InvalidCoordinate, Message: "non-positive row or column coordinate", Retryable: false, NextSteps: []string{"Coordinates are 1-indexed; verify row/col values"}},
	CursorInvalid:     {Code: CursorInvalid, Message: "cursor is invalid for current context", Retryable: true, NextSteps: []string{"Restart pagination from the first page", "Avoid reparsing between pages or reissue the query"}},
	CursorBuildFailed: {Code: CursorBuildFailed, Message: "failed to encode next page cursor", Retryable: true, NextSteps: []string{"Retry or narrow scope (smaller pages)"}},

	BusyResource:    {Code: BusyResource, Message: "concurrent parse limit reached", Retryable: true, NextSteps: []string{"Retry after a short delay"}},
	Timeout:         {Code: Timeout, Message: "parse exceeded configured time limit", Retryable: true, NextSteps: []string{"Narrow the grid range or increase the timeout"}},
	LimitExceeded:   {Code: LimitExceeded, Message: "parse exceeded configured limits", Retryable: true, NextSteps: []string{"Narrow the range or lower the page size"}},
	PayloadTooLarge: {Code: PayloadTooLarge, Message: "payload exceeds configured size", Retryable: true, NextSteps: []string{"Reduce range size or split into batches"}},
	FileTooLarge:    {Code: FileTooLarge, Message: "file exceeds configured size", Retryable: false, NextSteps: []string{"Use a smaller file or increase the limit"}},

	OpenFailed:   {Code: OpenFailed, Message: "failed to open grid source", Retryable: true, NextSteps: []string{"Verify path, permissions, and format"}},
	ParseFailed:  {Code: ParseFailed, Message: "failed to parse grid", Retryable: true, NextSteps: []string{"Retry or narrow the grid bounds"}},
	DecodeFailed: {Code: DecodeFailed, Message: "failed to decode CSV/TSV input", Retryable: false, NextSteps: []string{"Verify the input is well-formed delimited text"}},

	BlockNotFound:     {Code: BlockNotFound, Message: "block not found in parse result", Retryable: true, NextSteps: []string{"Call list_blocks to see valid block IDs"}},
	ConstructNotFound: {Code: ConstructNotFound, Message: "construct not found in parse result", Retryable: true, NextSteps: []string{"Call list_constructs to see valid keys"}},

	CorruptWorkbook:   {Code: CorruptWorkbook, Message: "workbook appears corrupt or unreadable", Retryable: false, NextSteps: []string{"Open in Excel and re-save or repair", "Provide a clean copy"}},
	UnsupportedFormat: {Code: UnsupportedFormat, Message: "unsupported file format", Retryable: false, NextSteps: []string{"Convert to .xlsx/.csv/.tsv and retry"}},
	PermissionDenied:  {Code: PermissionDenied, Message: "insufficient permissions to access path", Retryable: false, NextSteps: []string{"Adjust permissions or choose an allowed directory"}},
}

// normalize builds a standard error string including next steps for MCP clients that
// surface only a message string. Format: "CODE: message" followed by a guidance tail.
func normalize(code Code, msg string) string {
	base := strings.TrimSpace(msg)
	e, ok := catalog[code]
	if !ok {
		// Unknown code; preserve as-is
		if base == "" {
			return string(code)
		}
		return fmt.Sprintf("%s: %s", string(code), base)
	}
	if base == "" {
		base = e.Message
	}
	// Append compact nextSteps guidance inline to aid clients lacking structured fields.
	guidance := ""
	if len(e.NextSteps) > 0 {
		guidance = " | nextSteps: " + strings.Join(e.NextSteps, "; ")
	}
	return fmt.Sprintf("%s: %s%s", e.Code, base, guidance)
}

// FromText parses a "CODE: message" string, enriches it with catalog guidance,
// and returns an MCP tool error result.
func FromText(text string) *mcp.CallToolResult {
	t := strings.TrimSpace(text)
	if t == "" {
		return mcp.NewToolResultError(normalize(Validation, ""))
	}
	parts := strings.SplitN(t, ":", 2)
	if len(parts) == 0 {
		return mcp.NewToolResultError(normalize(Validation, t))
	}
	code := Code(strings.TrimSpace(parts[0]))
	msg := ""
	if len(parts) > 1 {
		msg = strings.TrimSpace(parts[1])
	}
	return mcp.NewToolResultError(normalize(code, msg))
}

// New returns an MCP error result for a given code and optional message override.
func New(code Code, message string) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, message))
}

// Wrapf formats details and returns an MCP error result for the code.
func Wrapf(code Code, format string, args ...any) *mcp.CallToolResult {
	return mcp.NewToolResultError(normalize(code, fmt.Sprintf(format, args...)))
}

// Helpers for common mappings

// IsInvalidSheet returns true if an error matches common excelize "sheet does not exist" messages.
func IsInvalidSheet(err error) bool {
	if err == nil {
		return false
	}
	low := strings.ToLower(err.Error())
	return strings.Contains(low, "doesn't exist") || strings.Contains(low, "does not exist")
}

// FromParseError maps a *spatial.ParseError kind to its catalog code. Kind
// is passed as a string to avoid an import cycle (internal/spatial has no
// dependency on pkg/mcperr).
func FromParseError(kind string, message string) *mcp.CallToolResult {
	switch kind {
	case "INVALID_COORDINATE":
		return New(InvalidCoordinate, message)
	case "CANCELLED":
		return New(Timeout, message)
	default:
		return New(ParseFailed, message)
	}
}
