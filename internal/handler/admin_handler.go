package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"campus/internal/auth"
	"campus/internal/service"
)

// AdminHandler handles the admin dashboard endpoints.
type AdminHandler struct {
	userService   service.UserService
	courseService service.CourseService
}

// NewAdminHandler creates a new admin handler.
func NewAdminHandler(userService service.UserService, courseService service.CourseService) *AdminHandler {
	return &AdminHandler{userService: userService, courseService: courseService}
}

// Stats godoc
// @Summary Dashboard statistics
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]int64
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /admin/stats [get]
func (h *AdminHandler) Stats(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermUserAdmin); err != nil {
		return respondError(c, err)
	}
	ctx := c.Request().Context()

	userCounts, err := h.userService.Counts(ctx)
	if err != nil {
		return respondError(c, err)
	}
	courseCounts, err := h.courseService.Counts(ctx)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(http.StatusOK, map[string]int64{
		"total_users":    userCounts.Total,
		"total_students": userCounts.Students,
		"total_courses":  courseCounts.Total,
		"active_courses": courseCounts.Active,
	})
}
