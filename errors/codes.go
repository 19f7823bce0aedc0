package errors

// ErrorCode identifies an application error in API responses
type ErrorCode int

const (
	ErrorCode_HTTP_OK ErrorCode = 0

	// General
	ErrorCode_INTERNAL         ErrorCode = 1000
	ErrorCode_INVALID_ARGUMENT ErrorCode = 1001
	ErrorCode_NOT_FOUND        ErrorCode = 1002
	ErrorCode_UNAUTHENTICATED  ErrorCode = 1003
	ErrorCode_FORBIDDEN        ErrorCode = 1004
	ErrorCode_INVALID_PAYLOAD  ErrorCode = 1005

	// Auth
	ErrorCode_AUTH_INVALID_TOKEN       ErrorCode = 2000
	ErrorCode_AUTH_TOKEN_EXPIRED       ErrorCode = 2001
	ErrorCode_AUTH_INVALID_CREDENTIALS ErrorCode = 2002

	// Sessions
	ErrorCode_SESSION_NOT_FOUND     ErrorCode = 3000
	ErrorCode_SESSION_NAME_REQUIRED ErrorCode = 3001
	ErrorCode_NO_ACTIVE_SESSION     ErrorCode = 3002

	// Submissions
	ErrorCode_IMAGE_MISSING             ErrorCode = 4000
	ErrorCode_IMAGE_INVALID_TYPE        ErrorCode = 4001
	ErrorCode_IMAGE_TOO_LARGE           ErrorCode = 4002
	ErrorCode_EXTRACTION_NOT_CONFIGURED ErrorCode = 4003
	ErrorCode_EXTRACTION_FAILED         ErrorCode = 4004

	// Integrations
	ErrorCode_INTEGRATION_STORAGE_FAILED ErrorCode = 5000
)

var errorCodeNames = map[ErrorCode]string{
	ErrorCode_HTTP_OK:                    "OK",
	ErrorCode_INTERNAL:                   "INTERNAL",
	ErrorCode_INVALID_ARGUMENT:           "INVALID_ARGUMENT",
	ErrorCode_NOT_FOUND:                  "NOT_FOUND",
	ErrorCode_UNAUTHENTICATED:            "UNAUTHENTICATED",
	ErrorCode_FORBIDDEN:                  "FORBIDDEN",
	ErrorCode_INVALID_PAYLOAD:            "INVALID_PAYLOAD",
	ErrorCode_AUTH_INVALID_TOKEN:         "AUTH_INVALID_TOKEN",
	ErrorCode_AUTH_TOKEN_EXPIRED:         "AUTH_TOKEN_EXPIRED",
	ErrorCode_AUTH_INVALID_CREDENTIALS:   "AUTH_INVALID_CREDENTIALS",
	ErrorCode_SESSION_NOT_FOUND:          "SESSION_NOT_FOUND",
	ErrorCode_SESSION_NAME_REQUIRED:      "SESSION_NAME_REQUIRED",
	ErrorCode_NO_ACTIVE_SESSION:          "NO_ACTIVE_SESSION",
	ErrorCode_IMAGE_MISSING:              "IMAGE_MISSING",
	ErrorCode_IMAGE_INVALID_TYPE:         "IMAGE_INVALID_TYPE",
	ErrorCode_IMAGE_TOO_LARGE:            "IMAGE_TOO_LARGE",
	ErrorCode_EXTRACTION_NOT_CONFIGURED:  "EXTRACTION_NOT_CONFIGURED",
	ErrorCode_EXTRACTION_FAILED:          "EXTRACTION_FAILED",
	ErrorCode_INTEGRATION_STORAGE_FAILED: "INTEGRATION_STORAGE_FAILED",
}

func (c ErrorCode) String() string {
	if name, ok := errorCodeNames[c]; ok {
		return name
	}
	return "UNKNOWN"
}
