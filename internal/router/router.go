package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/golang-jwt/jwt/v4"
	echojwt "github.com/labstack/echo-jwt/v4"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"campus/internal/auth"
	"campus/internal/config"
	"campus/internal/handler"
)

// Register wires routes and middleware.
func Register(
	e *echo.Echo,
	cfg *config.Config,
	authHandler *handler.AuthHandler,
	userHandler *handler.UserHandler,
	courseHandler *handler.CourseHandler,
	studentHandler *handler.StudentHandler,
	enrollmentHandler *handler.EnrollmentHandler,
	adminHandler *handler.AdminHandler,
) {
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())

	// Add validator
	e.Validator = &CustomValidator{validator: validator.New()}

	e.GET("/healthz", func(c echo.Context) error {
		return c.String(http.StatusOK, "ok")
	})

	e.GET("/swagger/*", echoSwagger.WrapHandler)

	api := e.Group("/api")

	// Public routes: registration, login, and course browsing only.
	api.POST("/auth/register", authHandler.Register)
	api.POST("/auth/login", authHandler.Login)
	api.POST("/auth/refresh", authHandler.Refresh)
	api.POST("/auth/logout", authHandler.Logout)
	api.GET("/courses", courseHandler.ListCourses)
	api.GET("/courses/search", courseHandler.SearchCourses)
	api.GET("/courses/filter/active", courseHandler.ListActiveCourses)

	// Secured routes (require JWT authentication). Claims are parsed into
	// auth.Claims so handlers receive a typed identity.
	secured := api.Group("", echojwt.WithConfig(echojwt.Config{
		SigningKey:  []byte(cfg.JWTSecret),
		TokenLookup: "header:" + echo.HeaderAuthorization,
		NewClaimsFunc: func(c echo.Context) jwt.Claims {
			return new(auth.Claims)
		},
	}))

	secured.GET("/me", authHandler.Me)

	// User administration
	secured.GET("/users", userHandler.ListUsers)
	secured.GET("/users/:id", userHandler.GetUser)
	secured.POST("/users", userHandler.CreateUser)
	secured.PUT("/users/:id", userHandler.UpdateUser)
	secured.DELETE("/users/:id", userHandler.DeleteUser)
	secured.PATCH("/users/:id/activate", userHandler.ActivateUser)
	secured.PATCH("/users/:id/deactivate", userHandler.DeactivateUser)

	// Course administration
	secured.GET("/courses/:id", courseHandler.GetCourse)
	secured.GET("/courses/filter/inactive", courseHandler.ListInactiveCourses)
	secured.POST("/courses", courseHandler.CreateCourse)
	secured.PUT("/courses/:id", courseHandler.UpdateCourse)
	secured.DELETE("/courses/:id", courseHandler.DeleteCourse)
	secured.PUT("/courses/:id/course-status/activate", courseHandler.ActivateCourse)
	secured.PUT("/courses/:id/course-status/deactivate", courseHandler.DeactivateCourse)
	secured.PUT("/courses/:id/course-status/toggle", courseHandler.ToggleCourseStatus)

	// Enrollment ledger (admin)
	secured.GET("/enrollments", enrollmentHandler.ListAll)
	secured.POST("/enrollments", enrollmentHandler.Enroll)
	secured.DELETE("/enrollments", enrollmentHandler.Unenroll)
	secured.GET("/courses/:id/students", enrollmentHandler.StudentsByCourse)
	secured.GET("/courses/:id/enrollment-stats", enrollmentHandler.Stats)

	// Self-scoped student routes
	secured.GET("/student/dashboard", studentHandler.Dashboard)
	secured.GET("/student/profile", studentHandler.Profile)
	secured.PUT("/student/profile", studentHandler.UpdateProfile)
	secured.PUT("/student/contact-info", studentHandler.UpdateContactInfo)
	secured.PUT("/student/change-password", studentHandler.ChangePassword)
	secured.GET("/student/account-status", studentHandler.AccountStatus)
	secured.GET("/student/enrollments", studentHandler.MyEnrollments)
	secured.GET("/student/course", studentHandler.CurrentCourse)
	secured.GET("/student/available-courses", studentHandler.AvailableCourses)
	secured.GET("/student/can-enroll/:courseId", studentHandler.CanEnroll)
	secured.POST("/student/enroll/:courseId", studentHandler.Enroll)
	secured.DELETE("/student/enrollments/:courseId", studentHandler.Unenroll)

	// Admin dashboard
	secured.GET("/admin/stats", adminHandler.Stats)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
