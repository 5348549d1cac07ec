package errors

import (
	"errors"
	"net/http"

	"github.com/go-sql-driver/mysql"
)

var (
	// ErrInvalidArgument is returned when a required reference or field is missing.
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrUserNotFound is returned when a user id or unique key does not resolve.
	ErrUserNotFound = errors.New("user not found")
	// ErrCourseNotFound is returned when a course id or code does not resolve.
	ErrCourseNotFound = errors.New("course not found")
	// ErrEnrollmentNotFound is returned when an enrollment lookup finds no row.
	ErrEnrollmentNotFound = errors.New("enrollment not found")
	// ErrUsernameTaken is returned when the username is already registered.
	ErrUsernameTaken = errors.New("username is already taken")
	// ErrEmailTaken is returned when the email is already registered.
	ErrEmailTaken = errors.New("email is already in use")
	// ErrCourseCodeTaken is returned when a course with the same code exists.
	ErrCourseCodeTaken = errors.New("course code already exists")
	// ErrAlreadyEnrolled is returned on a duplicate enrollment attempt.
	ErrAlreadyEnrolled = errors.New("student is already enrolled in this course")
	// ErrCourseInactive is returned when enrolling into an inactive course.
	ErrCourseInactive = errors.New("course is not active")
	// ErrStudentInactive is returned when an inactive student attempts to enroll.
	ErrStudentInactive = errors.New("student account is not active")
	// ErrForbidden is returned when the role lacks permission for the operation.
	ErrForbidden = errors.New("operation not permitted for this role")
	// ErrUnauthenticated is returned when no valid identity accompanies the call.
	ErrUnauthenticated = errors.New("authentication required")
	// ErrConflict is returned for storage constraint violations not otherwise classified.
	ErrConflict = errors.New("resource conflict")
)

// IsDuplicateEntry reports whether err is a MySQL unique-constraint violation.
// The insert-time constraint is the authoritative arbiter for uniqueness; an
// existence check followed by an insert is not safe under concurrent writers.
func IsDuplicateEntry(err error) bool {
	var mysqlErr *mysql.MySQLError
	return errors.As(err, &mysqlErr) && mysqlErr.Number == 1062
}

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

// MapErrorToHTTP maps domain errors to HTTP errors.
func MapErrorToHTTP(err error) *HTTPError {
	switch {
	case errors.Is(err, ErrInvalidArgument):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "INVALID_ARGUMENT")
	case errors.Is(err, ErrUserNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "USER_NOT_FOUND")
	case errors.Is(err, ErrCourseNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "COURSE_NOT_FOUND")
	case errors.Is(err, ErrEnrollmentNotFound):
		return NewHTTPError(http.StatusNotFound, err.Error(), "ENROLLMENT_NOT_FOUND")
	case errors.Is(err, ErrUsernameTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "USERNAME_TAKEN")
	case errors.Is(err, ErrEmailTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "EMAIL_TAKEN")
	case errors.Is(err, ErrCourseCodeTaken):
		return NewHTTPError(http.StatusConflict, err.Error(), "COURSE_CODE_TAKEN")
	case errors.Is(err, ErrAlreadyEnrolled):
		return NewHTTPError(http.StatusConflict, err.Error(), "ALREADY_ENROLLED")
	case errors.Is(err, ErrCourseInactive):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "COURSE_INACTIVE")
	case errors.Is(err, ErrStudentInactive):
		return NewHTTPError(http.StatusBadRequest, err.Error(), "STUDENT_INACTIVE")
	case errors.Is(err, ErrForbidden):
		return NewHTTPError(http.StatusForbidden, err.Error(), "FORBIDDEN")
	case errors.Is(err, ErrUnauthenticated):
		return NewHTTPError(http.StatusUnauthorized, err.Error(), "UNAUTHENTICATED")
	case errors.Is(err, ErrConflict):
		return NewHTTPError(http.StatusConflict, err.Error(), "CONFLICT")
	default:
		return NewHTTPError(http.StatusInternalServerError, "internal server error", "INTERNAL_ERROR")
	}
}
