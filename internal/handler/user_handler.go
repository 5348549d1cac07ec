package handler

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"

	"campus/internal/auth"
	"campus/internal/errors"
	"campus/internal/model"
	"campus/internal/service"
)

// UserHandler handles admin user-management endpoints.
type UserHandler struct {
	svc service.UserService
}

// NewUserHandler creates a handler layer.
func NewUserHandler(svc service.UserService) *UserHandler {
	return &UserHandler{svc: svc}
}

// CreateUserRequest is the admin user-creation payload.
type CreateUserRequest struct {
	Username             string `json:"username" validate:"required,min=3,max=100"`
	Email                string `json:"email" validate:"required,email"`
	Password             string `json:"password"`
	Role                 string `json:"role" validate:"required,oneof=ADMIN STUDENT"`
	FirstName            string `json:"first_name"`
	LastName             string `json:"last_name"`
	Phone                string `json:"phone"`
	GenerateTempPassword bool   `json:"generate_temp_password"`
}

// UpdateUserRequest is the admin user-update payload; only profile fields
// are editable, never username, email, or role.
type UpdateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Phone     string `json:"phone"`
}

// ListUsers godoc
// @Summary List all users
// @Tags users
// @Produce json
// @Security BearerAuth
// @Success 200 {array} model.User
// @Failure 401 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Router /users [get]
func (h *UserHandler) ListUsers(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermUserAdmin); err != nil {
		return respondError(c, err)
	}
	users, err := h.svc.ListUsers(c.Request().Context())
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, users)
}

// GetUser godoc
// @Summary Get user by id
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [get]
func (h *UserHandler) GetUser(c echo.Context) error {
	identity := identityFrom(c)
	if err := auth.Require(identity, auth.PermSelfProfile); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	// Students may only read their own record.
	if !auth.Can(identity.Role, auth.PermUserAdmin) && id != identity.UserID {
		return respondError(c, errors.ErrForbidden)
	}
	user, err := h.svc.GetUser(c.Request().Context(), id)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// CreateUser godoc
// @Summary Create a user with an admin-chosen role
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body CreateUserRequest true "User payload"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} errors.ErrorResponse
// @Failure 403 {object} errors.ErrorResponse
// @Failure 409 {object} errors.ErrorResponse
// @Router /users [post]
func (h *UserHandler) CreateUser(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermUserAdmin); err != nil {
		return respondError(c, err)
	}
	var req CreateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user := &model.User{
		Username:  req.Username,
		Email:     req.Email,
		Role:      model.Role(req.Role),
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Phone:     req.Phone,
	}
	created, tempPassword, err := h.svc.CreateUser(c.Request().Context(), user, req.Password, req.GenerateTempPassword)
	if err != nil {
		return respondError(c, err)
	}

	resp := map[string]interface{}{"user": created}
	if tempPassword != "" {
		resp["temp_password"] = tempPassword
	}
	return c.JSON(http.StatusCreated, resp)
}

// UpdateUser godoc
// @Summary Update a user's profile fields
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param request body UpdateUserRequest true "Profile fields"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [put]
func (h *UserHandler) UpdateUser(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermUserAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	var req UpdateUserRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	user, err := h.svc.UpdateProfile(c.Request().Context(), id, req.FirstName, req.LastName, req.Phone)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

// DeleteUser godoc
// @Summary Delete a user
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} map[string]string
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id} [delete]
func (h *UserHandler) DeleteUser(c echo.Context) error {
	if err := auth.Require(identityFrom(c), auth.PermUserAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	if err := h.svc.DeleteUser(c.Request().Context(), id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, map[string]string{"message": "user deleted successfully"})
}

// ActivateUser godoc
// @Summary Activate a user account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/activate [patch]
func (h *UserHandler) ActivateUser(c echo.Context) error {
	return h.setActive(c, true)
}

// DeactivateUser godoc
// @Summary Deactivate a user account
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 200 {object} model.User
// @Failure 403 {object} errors.ErrorResponse
// @Failure 404 {object} errors.ErrorResponse
// @Router /users/{id}/deactivate [patch]
func (h *UserHandler) DeactivateUser(c echo.Context) error {
	return h.setActive(c, false)
}

func (h *UserHandler) setActive(c echo.Context, active bool) error {
	if err := auth.Require(identityFrom(c), auth.PermUserAdmin); err != nil {
		return respondError(c, err)
	}
	id, err := parseID(c.Param("id"))
	if err != nil {
		return respondError(c, errors.ErrInvalidArgument)
	}
	user, err := h.svc.SetUserActive(c.Request().Context(), id, active)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, user)
}

func parseID(raw string) (uint, error) {
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, errors.ErrInvalidArgument
	}
	return uint(id), nil
}
