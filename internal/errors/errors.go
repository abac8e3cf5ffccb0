package errors

import (
	"errors"
	"net/http"
)

var (
	// ErrUserNotFound is returned when a user does not exist.
	ErrUserNotFound = errors.New("user not found")
	// ErrClubNotFound is returned when a club does not exist.
	ErrClubNotFound = errors.New("club not found")
	// ErrPostNotFound is returned when a post does not exist.
	ErrPostNotFound = errors.New("post not found")
	// ErrEventNotFound is returned when an event does not exist.
	ErrEventNotFound = errors.New("event not found")
	// ErrLogNotFound is returned when a club log entry does not exist or belongs to another club.
	ErrLogNotFound = errors.New("log entry not found")
	// ErrMembershipNotFound is returned when the target user has no membership in the club.
	ErrMembershipNotFound = errors.New("membership not found")
)

var (
	ErrEmailTaken           = errors.New("email is already registered")
	ErrStudentIDTaken       = errors.New("student ID is already registered")
	ErrDisposableEmail      = errors.New("disposable email addresses are not allowed")
	ErrInvalidCredentials   = errors.New("invalid email or password")
	ErrInvalidRefreshToken  = errors.New("invalid or expired refresh token")
	ErrEmailNotVerified     = errors.New("email address is not verified")
	ErrInvalidCode          = errors.New("invalid or expired verification code")
	ErrAlreadyVerified      = errors.New("email address is already verified")
	ErrVerificationCooldown = errors.New("a verification code was sent recently, try again later")
)

var (
	ErrShortNameTaken = errors.New("short name is already in use")
	// ErrForbidden is returned when the caller lacks the club role an action requires.
	ErrForbidden         = errors.New("you are not allowed to perform this action")
	ErrAlreadyMember     = errors.New("you already have a membership in this club")
	ErrNotPending        = errors.New("membership request is not pending")
	ErrNotMember         = errors.New("you are not a member of this club")
	ErrOwnerCannotLeave  = errors.New("the owner must transfer ownership or delete the club before leaving")
	ErrSelfTarget        = errors.New("you cannot perform this action on yourself")
	ErrInvalidRoleChange = errors.New("role change is not allowed for this member")
	ErrOwnsClubs         = errors.New("transfer ownership or delete your clubs before deleting your account")
)

var (
	// ErrFormRequired is returned when attending an event that has registration questions.
	ErrFormRequired     = errors.New("this event requires a registration form")
	ErrInvalidAnswers   = errors.New("form answers are invalid")
	ErrEventInPast      = errors.New("event date must be in the future")
	ErrAlreadyAttending = errors.New("you are already attending this event")
	ErrNotAttending     = errors.New("user is not attending this event")

	ErrInvalidInput     = errors.New("invalid input")
	ErrUnsupportedImage = errors.New("only JPEG and PNG images are supported")
	ErrStorageDisabled  = errors.New("object storage is not configured")
)

// ErrorResponse represents a standardized error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// HTTPError represents an HTTP error with status code.
type HTTPError struct {
	StatusCode int
	Message    string
	Code       string
}

func (e *HTTPError) Error() string {
	return e.Message
}

// NewHTTPError creates a new HTTP error.
func NewHTTPError(statusCode int, message, code string) *HTTPError {
	return &HTTPError{
		StatusCode: statusCode,
		Message:    message,
		Code:       code,
	}
}

// ToErrorResponse converts an HTTPError to ErrorResponse.
func (e *HTTPError) ToErrorResponse() ErrorResponse {
	return ErrorResponse{
		Error: e.Message,
		Code:  e.Code,
	}
}

// ValidationError carries a field-level message and unwraps to a sentinel.
type ValidationError struct {
	Message string
	Err     error
}

func (e *ValidationError) Error() string { return e.Message }
func (e *ValidationError) Unwrap() error { return e.Err }

// Invalid returns an ErrInvalidInput carrying msg.
func Invalid(msg string) error {
	return &ValidationError{Message: msg, Err: ErrInvalidInput}
}

// InvalidAnswers returns an ErrInvalidAnswers carrying msg.
func InvalidAnswers(msg string) error {
	return &ValidationError{Message: msg, Err: ErrInvalidAnswers}
}

type mapping struct {
	err    error
	status int
	code   string
}

var mappings = []mapping{
	{ErrUserNotFound, http.StatusNotFound, "USER_NOT_FOUND"},
	{ErrClubNotFound, http.StatusNotFound, "CLUB_NOT_FOUND"},
	{ErrPostNotFound, http.StatusNotFound, "POST_NOT_FOUND"},
	{ErrEventNotFound, http.StatusNotFound, "EVENT_NOT_FOUND"},
	{ErrLogNotFound, http.StatusNotFound, "LOG_NOT_FOUND"},
	{ErrMembershipNotFound, http.StatusNotFound, "MEMBERSHIP_NOT_FOUND"},
	{ErrEmailTaken, http.StatusConflict, "EMAIL_TAKEN"},
	{ErrStudentIDTaken, http.StatusConflict, "STUDENT_ID_TAKEN"},
	{ErrDisposableEmail, http.StatusBadRequest, "DISPOSABLE_EMAIL"},
	{ErrInvalidCredentials, http.StatusUnauthorized, "INVALID_CREDENTIALS"},
	{ErrInvalidRefreshToken, http.StatusUnauthorized, "INVALID_REFRESH_TOKEN"},
	{ErrEmailNotVerified, http.StatusForbidden, "EMAIL_NOT_VERIFIED"},
	{ErrInvalidCode, http.StatusBadRequest, "INVALID_CODE"},
	{ErrAlreadyVerified, http.StatusConflict, "ALREADY_VERIFIED"},
	{ErrVerificationCooldown, http.StatusTooManyRequests, "VERIFICATION_COOLDOWN"},
	{ErrShortNameTaken, http.StatusConflict, "SHORT_NAME_TAKEN"},
	{ErrForbidden, http.StatusForbidden, "FORBIDDEN"},
	{ErrAlreadyMember, http.StatusConflict, "ALREADY_MEMBER"},
	{ErrNotPending, http.StatusConflict, "NOT_PENDING"},
	{ErrNotMember, http.StatusForbidden, "NOT_MEMBER"},
	{ErrOwnerCannotLeave, http.StatusConflict, "OWNER_CANNOT_LEAVE"},
	{ErrSelfTarget, http.StatusBadRequest, "SELF_TARGET"},
	{ErrInvalidRoleChange, http.StatusConflict, "INVALID_ROLE_CHANGE"},
	{ErrOwnsClubs, http.StatusConflict, "OWNS_CLUBS"},
	{ErrFormRequired, http.StatusBadRequest, "FORM_REQUIRED"},
	{ErrInvalidAnswers, http.StatusBadRequest, "INVALID_ANSWERS"},
	{ErrEventInPast, http.StatusBadRequest, "EVENT_IN_PAST"},
	{ErrAlreadyAttending, http.StatusConflict, "ALREADY_ATTENDING"},
	{ErrNotAttending, http.StatusNotFound, "NOT_ATTENDING"},
	{ErrInvalidInput, http.StatusBadRequest, "INVALID_INPUT"},
	{ErrUnsupportedImage, http.StatusUnsupportedMediaType, "UNSUPPORTED_IMAGE"},
	{ErrStorageDisabled, http.StatusServiceUnavailable, "STORAGE_DISABLED"},
}

// MapErrorToHTTP maps domain errors to HTTP errors. Wrapped errors are matched
// with errors.Is; a ValidationError keeps its own message.
func MapErrorToHTTP(err error) *HTTPError {
	for _, m := range mappings {
		if errors.Is(err, m.err) {
			msg := m.err.Error()
			var ve *ValidationError
			if errors.As(err, &ve) {
				msg = ve.Message
			}
			return NewHTTPError(m.status, msg, m.code)
		}
	}
	return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
}
