package handler

import (
	"github.com/golang-jwt/jwt/v4"
	"github.com/labstack/echo/v4"

	"campus/internal/auth"
	apperrors "campus/internal/errors"
)

// identityFrom extracts the authenticated identity from the verified JWT the
// middleware stored on the context. A missing or foreign token yields the
// zero identity, which the access gate rejects as unauthenticated.
func identityFrom(c echo.Context) auth.Identity {
	token, ok := c.Get("user").(*jwt.Token)
	if !ok {
		return auth.Identity{}
	}
	claims, ok := token.Claims.(*auth.Claims)
	if !ok {
		return auth.Identity{}
	}
	return auth.Identity{
		UserID:   claims.UserID,
		Username: claims.Username,
		Role:     claims.Role,
	}
}

// respondError translates a domain error into the standard error envelope.
func respondError(c echo.Context, err error) error {
	httpErr := apperrors.MapErrorToHTTP(err)
	return c.JSON(httpErr.StatusCode, httpErr.ToErrorResponse())
}
