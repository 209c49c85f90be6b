package errors

import "net/http"

const (
	CodeBadRequest            = "BAD_REQUEST"
	CodePasswordLength        = "PASSWORD_LENGTH"
	CodePasswordRequired      = "PASSWORD_REQUIRED"
	CodeIncorrectPassword     = "INCORRECT_PASSWORD"
	CodeIncorrectCredentials  = "INCORRECT_CREDENTIALS"
	CodeNoRefreshToken        = "NO_REFRESH_TOKEN"
	CodeInvalidRefreshToken   = "INVALID_REFRESH_TOKEN"
	CodeInvalidCsrfToken      = "INVALID_CSRF_TOKEN"
	CodeUnauthorized          = "UNAUTHORIZED"
	CodeForbidden             = "FORBIDDEN"
	CodeUsernameTaken         = "USERNAME_TAKEN"
	CodeEmailTaken            = "EMAIL_TAKEN"
	CodeUserNotFound          = "USER_NOT_FOUND"
	CodeUserAlreadyBelongs    = "USER_ALREADY_BELONGS"
	CodeAccommodationNotFound = "ACCOMMODATION_NOT_FOUND"
	CodeTaskNotFound          = "TASK_NOT_FOUND"
	CodeRuleNotFound          = "RULE_NOT_FOUND"
	CodeEventNotFound         = "EVENT_NOT_FOUND"
	CodeRefundNotFound        = "REFUND_NOT_FOUND"
	CodeRoommateNotFound      = "ROOMMATE_NOT_FOUND"
	CodeFileNotFound          = "FILE_NOT_FOUND"
	CodeNoFile                = "NO_FILE"
	CodeInvalidFileType       = "INVALID_FILE_TYPE"
	CodeFileTooLarge          = "FILE_TOO_LARGE"
	CodeInternalServerError   = "INTERNAL_SERVER_ERROR"
)

// Error is the one error shape that crosses the service boundary. The
// status drives the HTTP response, code and message are what the client
// sees.
type Error struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *Error) Error() string {
	return e.Message
}

func New(status int, code string, message string) *Error {
	return &Error{Status: status, Code: code, Message: message}
}

func BadRequest() *Error {
	return New(http.StatusBadRequest, CodeBadRequest, "Bad request")
}

func BadRequestCode(code string, message string) *Error {
	return New(http.StatusBadRequest, code, message)
}

func Unauthorized(code string, message string) *Error {
	return New(http.StatusUnauthorized, code, message)
}

func Forbidden() *Error {
	return New(http.StatusForbidden, CodeForbidden, "Forbidden")
}

func NotFound(code string) *Error {
	return New(http.StatusNotFound, code, "Not found")
}

func Conflict(code string, message string) *Error {
	return New(http.StatusConflict, code, message)
}

func Internal() *Error {
	return New(http.StatusInternalServerError, CodeInternalServerError, "Internal server error")
}

// Wrap returns err as is when it already is an *Error and hides anything
// else behind a 500, so store failures never leak to the client.
func Wrap(err error) *Error {
	if appErr, ok := err.(*Error); ok {
		return appErr
	}
	return Internal()
}
