package handler

import (
	"errors"
	"net/http"

	"tgbridge/api/middleware"
	"tgbridge/internal/dto"
	"tgbridge/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
)

type AuthHandler struct {
	Service  *service.AuthService
	Validate *validator.Validate
}

func NewAuthHandler(svc *service.AuthService, validate *validator.Validate) *AuthHandler {
	return &AuthHandler{Service: svc, Validate: validate}
}

// Start begins the login flow: Telegram sends a verification code to the
// supplied phone number and a pending session is recorded.
func (h *AuthHandler) Start(c echo.Context) error {
	var req dto.StartAuthRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "phone number is required")
	}
	result, err := h.Service.Start(c.Request().Context(), req.PhoneNumber)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.StartAuthResponse{
		SessionID: result.SessionID,
		Message:   result.Message,
		NextStep:  result.NextStep,
	})
}

// Verify completes the login flow with the received code and optional
// two-factor password, returning the bearer token on success. A sign-in
// rejection comes back 200 with the error described, leaving the session
// pending for another attempt.
func (h *AuthHandler) Verify(c echo.Context) error {
	var req dto.VerifyCodeRequest
	if err := decodeJSON(c, &req); err != nil {
		return writeError(c, http.StatusBadRequest, "invalid request body")
	}
	if err := h.validate(req); err != nil {
		return writeError(c, http.StatusBadRequest, "session id and code are required")
	}
	result, err := h.Service.Verify(c.Request().Context(), req.SessionID, req.Code, req.Password)
	if err != nil {
		return writeServiceError(c, err)
	}
	if result.SignInError != "" {
		return c.JSON(http.StatusOK, dto.VerifyCodeResponse{
			SessionID: result.SessionID,
			Message:   result.SignInError,
			User:      dto.UserResponseFromSummary(result.User),
		})
	}
	return c.JSON(http.StatusOK, dto.VerifyCodeResponse{
		Token:     result.Token,
		ExpiresIn: result.ExpiresIn,
		SessionID: result.SessionID,
		Message:   "authentication successful",
		User:      dto.UserResponseFromSummary(result.User),
	})
}

func (h *AuthHandler) Me(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	conn, ok := middleware.ConnFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	user, err := h.Service.CurrentUser(c.Request().Context(), conn, claims.PhoneNumber)
	if err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MeResponse{User: *dto.UserResponseFromSummary(user)})
}

func (h *AuthHandler) Logout(c echo.Context) error {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		return writeError(c, http.StatusUnauthorized, "unauthorized")
	}
	if err := h.Service.Logout(c.Request().Context(), claims.SessionID, claims.PhoneNumber); err != nil {
		return writeServiceError(c, err)
	}
	return c.JSON(http.StatusOK, dto.MessageResponse{Message: "logged out successfully"})
}

func (h *AuthHandler) validate(payload any) error {
	if h.Validate == nil {
		return errors.New("validator not configured")
	}
	return h.Validate.Struct(payload)
}
