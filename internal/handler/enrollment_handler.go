package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus/internal/auth"
	"campus/internal/errors"
	"campus/internal/service"
)

// EnrollmentHandler handles admin-facing ledger endpoints. Admins may act on
// any (student, course) pair; students reach the ledger only through the
// self-scoped student endpoints.
type EnrollmentHandler struct {
	svc service.EnrollmentService
}

// NewEnrollmentHandler creates a new enrollment handler.
func NewEnrollmentHandler(svc service.EnrollmentService) *EnrollmentHandler {
	return &EnrollmentHandler{svc: svc}
}

// EnrollmentRequest identifies a (student, course) pair.
type EnrollmentRequest struct {
	StudentID uint `json:"student_id" validate:"required,gt=0"`
	CourseID  uint `json:"course_id" validate:"required,gt=0"`
}

// ListAll godoc
// @Summary List every enrollment in the system
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Enrollment
// @Failure 403 {object} errors.ErrorResponse
// @Router /enrollments [get]
func (h *EnrollmentHandler) ListAll(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermEnrollmentAdmin); err != nil {
		return respondError(c, err)
	}
	enrollments, err := h.svc.ListAll(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, enrollments)
}

// Enroll godoc
// @Summary Enroll a student in a course
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EnrollmentRequest true "Student/course pair"
// @Success 201 {object} model.Enrollment
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /enrollments [post]
func (h *EnrollmentHandler) Enroll(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermEnrollmentAdmin); err != nil {
		return respondError(c, err)
	}
	var req EnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	enrollment, err := h.svc.Enroll(c.Request().Context(), req.StudentID, req.CourseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, enrollment)
}

// Unenroll godoc
// @Summary Remove a student's enrollment
// @Tags enrollments
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body EnrollmentRequest true "Student/course pair"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /enrollments [delete]
func (h *EnrollmentHandler) Unenroll(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermEnrollmentAdmin); err != nil {
		return respondError(c, err)
	}
	var req EnrollmentRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	removed, err := h.svc.Unenroll(c.Request().Context(), req.StudentID, req.CourseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]interface{}{"removed": removed})
}

// StudentsByCourse godoc
// @Summary List students enrolled in a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {array} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/students [get]
func (h *EnrollmentHandler) StudentsByCourse(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermEnrollmentAdmin); err != nil {
		return respondError(c, err)
	}
	courseID, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	students, err := h.svc.StudentsByCourse(c.Request().Context(), courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, students)
}

// Stats godoc
// @Summary Enrollment statistics for a course
// @Tags enrollments
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} service.EnrollmentStats
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/enrollment-stats [get]
func (h *EnrollmentHandler) Stats(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermEnrollmentAdmin); err != nil {
		return respondError(c, err)
	}
	courseID, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	stats, err := h.svc.Stats(c.Request().Context(), courseID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, stats)
}
