package summarize

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode is the fixed failure taxonomy. Raw upstream failures are
// free text with no structured codes, so they are pattern-classified
// exactly once at the dispatch boundary; everything above sees only the
// classified code and message.
type ErrorCode string

const (
	CodeNoAPIKey            ErrorCode = "NO_API_KEY"
	CodeInvalidAPIKey       ErrorCode = "INVALID_API_KEY"
	CodeRateLimit           ErrorCode = "API_RATE_LIMIT"
	CodeVideoTooLong        ErrorCode = "VIDEO_TOO_LONG"
	CodePrivateVideo        ErrorCode = "PRIVATE_VIDEO"
	CodeNetworkError        ErrorCode = "NETWORK_ERROR"
	CodeUnsupportedPlatform ErrorCode = "UNSUPPORTED_PLATFORM"
	CodeTimeout             ErrorCode = "TIMEOUT"
	CodePromptNotFound      ErrorCode = "PROMPT_NOT_FOUND"
	CodeUnknown             ErrorCode = "UNKNOWN_ERROR"
)

var errorMessages = map[ErrorCode]string{
	CodeNoAPIKey:            "No API key configured. Add your Gemini API key in settings.",
	CodeInvalidAPIKey:       "Invalid API key. Check your settings.",
	CodeRateLimit:           "API rate limit exceeded. Try again later.",
	CodeVideoTooLong:        "Video exceeds the daily limit (8 hours for free tier).",
	CodePrivateVideo:        "Cannot summarize private or unlisted videos.",
	CodeNetworkError:        "Network error. Check your connection.",
	CodeUnsupportedPlatform: "This video platform is not supported.",
	CodePromptNotFound:      "Selected prompt not found",
	CodeUnknown:             "An unexpected error occurred.",
}

// Error is a classified summarization failure. Message is the fixed
// user-facing text for the code; Details keeps the raw upstream text for
// logging.
type Error struct {
	Code    ErrorCode
	Message string
	Details string
}

func (e *Error) Error() string {
	return e.Message
}

// NewError builds a classified failure with the canonical message for
// its code.
func NewError(code ErrorCode, details string) *Error {
	return &Error{Code: code, Message: errorMessages[code], Details: details}
}

// NewTimeoutError carries the configured deadline in its message.
func NewTimeoutError(minutes int) *Error {
	return &Error{
		Code:    CodeTimeout,
		Message: fmt.Sprintf("Summarization timed out after %d minutes", minutes),
	}
}

// Classify maps a raw failure onto the taxonomy by case-insensitive
// message substrings. Already-classified errors pass through unchanged.
func Classify(err error) *Error {
	var classified *Error
	if errors.As(err, &classified) {
		return classified
	}

	msg := err.Error()
	lower := strings.ToLower(msg)

	switch {
	case containsAny(lower, "api key", "401", "unauthorized"):
		return NewError(CodeInvalidAPIKey, msg)
	case containsAny(lower, "rate limit", "429", "quota"):
		return NewError(CodeRateLimit, msg)
	case containsAny(lower, "too long", "duration limit"):
		return NewError(CodeVideoTooLong, msg)
	case containsAny(lower, "private", "unavailable"):
		return NewError(CodePrivateVideo, msg)
	case containsAny(lower, "network", "fetch", "connection", "econnrefused"):
		return NewError(CodeNetworkError, msg)
	default:
		return NewError(CodeUnknown, msg)
	}
}

func containsAny(s string, markers ...string) bool {
	for _, marker := range markers {
		if strings.Contains(s, marker) {
			return true
		}
	}
	return false
}
