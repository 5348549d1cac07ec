package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus/internal/auth"
	"campus/internal/errors"
	"campus/internal/service"
)

// StudentHandler handles self-scoped endpoints. The target student is always
// the authenticated identity; ids supplied in the path or body are never
// trusted to select whose data is touched.
type StudentHandler struct {
	userService       service.UserService
	courseService     service.CourseService
	enrollmentService service.EnrollmentService
}

// NewStudentHandler creates a new student handler.
func NewStudentHandler(
	userService service.UserService,
	courseService service.CourseService,
	enrollmentService service.EnrollmentService,
) *StudentHandler {
	return &StudentHandler{
		userService:       userService,
		courseService:     courseService,
		enrollmentService: enrollmentService,
	}
}

// UpdateProfileRequest carries the self-editable profile fields.
type UpdateProfileRequest struct {
	FirstName string `json:"first_name" validate:"required"`
	LastName  string `json:"last_name" validate:"required"`
	Phone     string `json:"phone"`
}

// ContactInfoRequest carries the self-editable contact fields.
type ContactInfoRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone"`
}

// ChangePasswordRequest carries a password change.
type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password" validate:"required,min=6"`
}

// Dashboard godoc
// @Summary Student dashboard summary
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /student/dashboard [get]
func (h *StudentHandler) Dashboard(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermSelfProfile); err != nil {
		return respondError(c, err)
	}
	ctx := c.Request().Context()

	student, err := h.userService.GetUser(ctx, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	enrollments, err := h.enrollmentService.ListByStudent(ctx, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	activeCourses, err := h.courseService.ListByActive(ctx, true)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"student_name":      student.FullName(),
		"username":          student.Username,
		"email":             student.Email,
		"total_enrollments": len(enrollments),
		"has_enrollments":   len(enrollments) > 0,
		"available_courses": len(activeCourses),
	})
}

// Profile godoc
// @Summary Get own profile
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Router /student/profile [get]
func (h *StudentHandler) Profile(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermSelfProfile); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateProfile godoc
// @Summary Update own profile fields
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body UpdateProfileRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /student/profile [put]
func (h *StudentHandler) UpdateProfile(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermSelfProfile); err != nil {
		return respondError(c, err)
	}
	var req UpdateProfileRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateProfile(c.Request().Context(), identity.UserID, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// UpdateContactInfo godoc
// @Summary Update own contact information
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ContactInfoRequest true "Contact fields"
// @Success 200 {object} model.User
// @Failure 400 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /student/contact-info [put]
func (h *StudentHandler) UpdateContactInfo(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermSelfProfile); err != nil {
		return respondError(c, err)
	}
	var req ContactInfoRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.userService.UpdateContactInfo(c.Request().Context(), identity.UserID, req.Email, req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// ChangePassword godoc
// @Summary Change own password
// @Tags student
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body ChangePasswordRequest true "Password change"
// @Success 200 {object} map[string]string
// @Failure 400 {object} errors.ErrorResponse
// @Failure 401 {object} errors.ErrorResponse
// @Router /student/change-password [put]
func (h *StudentHandler) ChangePassword(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermSelfProfile); err != nil {
		return respondError(c, err)
	}
	var req ChangePasswordRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	if err := h.userService.ChangePassword(c.Request().Context(), identity.UserID, req.CurrentPassword, req.NewPassword); err != nil {
		if err == service.ErrInvalidCredentials {
			return echo.NewHTTPError(http.StatusBadRequest, errors.ErrorResponse{
				Error: "current password is incorrect",
				Code:  "INVALID_CURRENT_PASSWORD",
			})
		}
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "password changed successfully"})
}

// AccountStatus godoc
// @Summary Get own account status
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /student/account-status [get]
func (h *StudentHandler) AccountStatus(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermSelfProfile); err != nil {
		return respondError(c, err)
	}
	user, err := h.userService.GetUser(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{
		"active": user.Active,
		"role":   user.Role,
	})
}

// MyEnrollments godoc
// @Summary List own enrollments
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Enrollment
// @Failure 401 {object} errors.ErrorResponse
// @Router /student/enrollments [get]
func (h *StudentHandler) MyEnrollments(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermEnrollSelf); err != nil {
		return respondError(c, err)
	}
	enrollments, err := h.enrollmentService.ListByStudent(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, enrollments)
}

// CurrentCourse godoc
// @Summary Current course view (first enrollment, display convenience)
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /student/course [get]
func (h *StudentHandler) CurrentCourse(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermEnrollSelf); err != nil {
		return respondError(c, err)
	}
	ctx := c.Request().Context()

	student, err := h.userService.GetUser(ctx, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	enrollments, err := h.enrollmentService.ListByStudent(ctx, identity.UserID)
	if err != nil {
		return respondError(c, err)
	}

	if len(enrollments) == 0 {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"student_name":    student.FullName(),
			"message":         "student is not enrolled in any course",
			"enrolled_course": nil,
		})
	}

	// Multiple enrollments are allowed; the first is shown as the current
	// course for display purposes only.
	return c.JSON(http.StatusOK, map[string]interface{}{
		"student_name":    student.FullName(),
		"message":         "student enrolled course information",
		"enrolled_course": enrollments[0].Course,
	})
}

// AvailableCourses godoc
// @Summary Active courses the student is not yet enrolled in
// @Tags student
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Course
// @Failure 401 {object} errors.ErrorResponse
// @Router /student/available-courses [get]
func (h *StudentHandler) AvailableCourses(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermEnrollSelf); err != nil {
		return respondError(c, err)
	}
	courses, err := h.enrollmentService.AvailableCourses(c.Request().Context(), identity.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

// CanEnroll godoc
// @Summary Check own enrollment eligibility for a course
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} map[string]bool
// @Failure 401 {object} errors.ErrorResponse
// @Router /student/can-enroll/{courseId} [get]
func (h *StudentHandler) CanEnroll(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermEnrollSelf); err != nil {
		return respondError(c, err)
	}
	courseID, err := parseID(c.Param("courseId"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	eligible, err := h.enrollmentService.CanEnroll(c.Request().Context(), identity.UserID, courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]bool{"can_enroll": eligible})
}

// Enroll godoc
// @Summary Enroll self in a course
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 201 {object} model.Enrollment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /student/enroll/{courseId} [post]
func (h *StudentHandler) Enroll(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermEnrollSelf); err != nil {
		return respondError(c, err)
	}
	courseID, err := parseID(c.Param("courseId"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	enrollment, err := h.enrollmentService.Enroll(c.Request().Context(), identity.UserID, courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, enrollment)
}

// Unenroll godoc
// @Summary Unenroll self from a course
// @Tags student
// @Produce json
// @Security BearerAuth
// @Param courseId path int true "Course ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Router /student/enrollments/{courseId} [delete]
func (h *StudentHandler) Unenroll(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermEnrollSelf); err != nil {
		return respondError(c, err)
	}
	courseID, err := parseID(c.Param("courseId"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	removed, err := h.enrollmentService.Unenroll(c.Request().Context(), identity.UserID, courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"removed": removed})
}
