package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"tgbridge/internal/service"

	"github.com/labstack/echo/v4"
)

// decodeJSON tolerates unknown body fields; validation of the known ones
// happens separately.
func decodeJSON(c echo.Context, target any) error {
	return json.NewDecoder(c.Request().Body).Decode(target)
}

func writeError(c echo.Context, status int, message string) error {
	return c.JSON(status, map[string]string{"error": message})
}

// writeServiceError maps known service errors to statuses; anything else is a
// 500 with no internal detail.
func writeServiceError(c echo.Context, err error) error {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		return writeError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrSessionNotFound):
		return writeError(c, http.StatusNotFound, service.ErrSessionNotFound.Error())
	case errors.Is(err, service.ErrMessageNotFound):
		return writeError(c, http.StatusNotFound, service.ErrMessageNotFound.Error())
	case errors.Is(err, service.ErrFileNotFound):
		return writeError(c, http.StatusNotFound, service.ErrFileNotFound.Error())
	case errors.Is(err, service.ErrForbiddenPath):
		return writeError(c, http.StatusForbidden, service.ErrForbiddenPath.Error())
	case errors.Is(err, service.ErrUpstream):
		return writeError(c, http.StatusBadGateway, service.ErrUpstream.Error())
	default:
		return writeError(c, http.StatusInternalServerError, "internal server error")
	}
}

func intQueryParam(c echo.Context, name string, fallback int) int {
	value, err := strconv.Atoi(c.QueryParam(name))
	if err != nil {
		return fallback
	}
	return value
}
