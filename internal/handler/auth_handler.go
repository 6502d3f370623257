package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"eventease/internal/auth"
	"eventease/internal/errors"
	"eventease/internal/service"
)

// AuthHandler handles authentication endpoints.
type AuthHandler struct {
	authService service.AuthService
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(authService service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// SignUpRequest represents a sign-up request. Name is optional.
type SignUpRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
}

// SignInRequest represents a sign-in request.
type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// AuthResponse represents an authentication response.
type AuthResponse struct {
	Message string      `json:"message"`
	Token   string      `json:"token"`
	User    interface{} `json:"user"`
}

// SignUp godoc
// @Summary Register a new organizer account
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignUpRequest true "Registration data"
// @Success 201 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/sign-up [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	var req SignUpRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.SignUp(c.Request().Context(), req.Name, req.Email, req.Password)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusCreated, AuthResponse{
		Message: "User created successfully",
		Token:   token,
		User:    user,
	})
}

// SignIn godoc
// @Summary Sign in with email and password
// @Tags auth
// @Accept json
// @Produce json
// @Param request body SignInRequest true "Credentials"
// @Success 200 {object} AuthResponse
// @Failure 400 {object} errors.ErrorResponse
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/sign-in [post]
func (h *AuthHandler) SignIn(c echo.Context) error {
	var req SignInRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}

	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	token, user, err := h.authService.SignIn(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, AuthResponse{
		Message: "Login successful",
		Token:   token,
		User:    user,
	})
}

// GetSession godoc
// @Summary Return the authenticated user for the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]interface{}
// @Failure 401 {object} errors.ErrorResponse
// @Router /auth/get-session [get]
func (h *AuthHandler) GetSession(c echo.Context) error {
	identity := auth.IdentityFrom(c)
	if identity == nil {
		return echo.NewHTTPError(http.StatusUnauthorized, errors.ErrorResponse{
			Error: "unauthorized",
			Code:  "UNAUTHORIZED",
		})
	}

	user, err := h.authService.Session(c.Request().Context(), identity.UserID)
	if err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]interface{}{
		"user": user,
	})
}

// SignOut godoc
// @Summary Revoke the presented token
// @Tags auth
// @Produce json
// @Security BearerAuth
// @Success 200 {object} map[string]string
// @Failure 500 {object} errors.ErrorResponse
// @Router /auth/sign-out [post]
func (h *AuthHandler) SignOut(c echo.Context) error {
	// Sign-out is idempotent: requests without a usable token still succeed,
	// there is simply nothing to revoke.
	if err := h.authService.SignOut(c.Request().Context(), auth.ClaimsFrom(c)); err != nil {
		httpErr := errors.MapErrorToHTTP(err)
		return echo.NewHTTPError(httpErr.StatusCode, httpErr.ToErrorResponse())
	}

	return c.JSON(http.StatusOK, map[string]string{
		"message": "Signed out successfully",
	})
}
