package router

import (
	"net/http"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	echoSwagger "github.com/swaggo/echo-swagger"

	"eventease/internal/auth"
	"eventease/internal/handler"
	"eventease/internal/repository"
)

// Register wires routes and middleware. Every /api route runs the identity
// resolver; routes that need a caller add RequireAuth on top. RSVP submission
// is deliberately public.
func Register(
	e *echo.Echo,
	jwtService *auth.JWTService,
	tokenStore auth.TokenStoreInterface,
	userRepo repository.UserRepository,
	authHandler *handler.AuthHandler,
	eventHandler *handler.EventHandler,
	rsvpHandler *handler.RSVPHandler,
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
	api.Use(auth.OptionalJWT(jwtService))
	api.Use(auth.ResolveIdentity(tokenStore, userRepo))

	// Auth routes
	api.POST("/auth/sign-up", authHandler.SignUp)
	api.POST("/auth/sign-in", authHandler.SignIn)
	api.GET("/auth/get-session", authHandler.GetSession)
	api.POST("/auth/sign-out", authHandler.SignOut)

	// Event routes
	events := api.Group("/events")
	events.POST("", eventHandler.CreateEvent, auth.RequireAuth())
	events.GET("", eventHandler.ListEvents, auth.RequireAuth())
	events.GET("/:id", eventHandler.GetEvent)
	events.PUT("/:id", eventHandler.UpdateEvent, auth.RequireAuth())
	events.DELETE("/:id", eventHandler.DeleteEvent, auth.RequireAuth())
	events.GET("/:id/calendar", eventHandler.DownloadCalendar)

	// RSVP submission (no account required)
	events.POST("/:id/rsvp", rsvpHandler.SubmitRSVP)
}

// CustomValidator wraps validator for Echo.
type CustomValidator struct {
	validator *validator.Validate
}

// Validate implements echo.Validator interface.
func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}
