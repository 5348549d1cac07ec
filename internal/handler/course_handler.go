package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus/internal/auth"
	"campus/internal/errors"
	"campus/internal/model"
	"campus/internal/service"
)

// CourseHandler handles course catalog endpoints.
type CourseHandler struct {
	svc service.CourseService
}

// NewCourseHandler creates a new course handler.
func NewCourseHandler(svc service.CourseService) *CourseHandler {
	return &CourseHandler{svc: svc}
}

// CourseRequest is the admin create/update payload.
type CourseRequest struct {
	Code        string `json:"code" validate:"required,max=50"`
	Name        string `json:"name" validate:"required,max=255"`
	Duration    int    `json:"duration" validate:"required,gt=0"`
	Description string `json:"description"`
}

// ListCourses godoc
// @Summary List all courses
// @Tags courses
// @Produce json
// @Success 200 {array} model.Course
// @Router /courses [get]
func (h *CourseHandler) ListCourses(c echo.Context) error {
	courses, err := h.svc.ListCourses(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

// SearchCourses godoc
// @Summary Search courses by keyword
// @Tags courses
// @Produce json
// @Param keyword query string true "Search keyword"
// @Success 200 {array} model.Course
// @Router /courses/search [get]
func (h *CourseHandler) SearchCourses(c echo.Context) error {
	courses, err := h.svc.SearchCourses(c.Request().Context(), c.QueryParam("keyword"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

// ListActiveCourses godoc
// @Summary List active courses
// @Tags courses
// @Produce json
// @Success 200 {array} model.Course
// @Router /courses/filter/active [get]
func (h *CourseHandler) ListActiveCourses(c echo.Context) error {
	courses, err := h.svc.ListByActive(c.Request().Context(), true)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

// ListInactiveCourses godoc
// @Summary List inactive courses
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.Course
// @Failure 403 {object} errors.ErrorResponse
// @Router /courses/filter/inactive [get]
func (h *CourseHandler) ListInactiveCourses(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermCourseAdmin); err != nil {
		return respondError(c, err)
	}
	courses, err := h.svc.ListByActive(c.Request().Context(), false)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, courses)
}

// GetCourse godoc
// @Summary Get course by id
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} model.Course
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [get]
func (h *CourseHandler) GetCourse(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermCourseRead); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	course, err := h.svc.GetCourse(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

// CreateCourse godoc
// @Summary Create a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CourseRequest true "Course payload"
// @Success 201 {object} model.Course
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /courses [post]
func (h *CourseHandler) CreateCourse(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermCourseAdmin); err != nil {
		return respondError(c, err)
	}
	var req CourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	course := &model.Course{
		Code:        req.Code,
		Name:        req.Name,
		Duration:    req.Duration,
		Description: req.Description,
		Active:      true,
	}
	created, err := h.svc.CreateCourse(c.Request().Context(), course)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusCreated, created)
}

// UpdateCourse godoc
// @Summary Update a course
// @Tags courses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Param request body CourseRequest true "Course payload"
// @Success 200 {object} model.Course
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /courses/{id} [put]
func (h *CourseHandler) UpdateCourse(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermCourseAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	var req CourseRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	course, err := h.svc.UpdateCourse(c.Request().Context(), id, req.Name, req.Code, req.Duration, req.Description)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

// DeleteCourse godoc
// @Summary Delete a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id} [delete]
func (h *CourseHandler) DeleteCourse(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermCourseAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	if err := h.svc.DeleteCourse(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "course deleted successfully"})
}

// ActivateCourse godoc
// @Summary Activate a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} model.Course
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/course-status/activate [put]
func (h *CourseHandler) ActivateCourse(c echo.Context) error {
	return h.setActive(c, true)
}

// DeactivateCourse godoc
// @Summary Deactivate a course
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} model.Course
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/course-status/deactivate [put]
func (h *CourseHandler) DeactivateCourse(c echo.Context) error {
	return h.setActive(c, false)
}

// ToggleCourseStatus godoc
// @Summary Toggle a course's active flag
// @Tags courses
// @Produce json
// @Security BearerAuth
// @Param id path int true "Course ID"
// @Success 200 {object} model.Course
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /courses/{id}/course-status/toggle [put]
func (h *CourseHandler) ToggleCourseStatus(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermCourseAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	course, err := h.svc.ToggleCourseActive(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}

func (h *CourseHandler) setActive(c echo.Context, active bool) error {
	if err := auth.Require(identityFrom(c), auth.PermCourseAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	course, err := h.svc.SetCourseActive(c.Request().Context(), id, active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, course)
}
