package handler

import (
	"fmt"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"
)

// kinds are machine-distinguishable; the message is for humans.
func kindOf(code int) string {
	switch code {
	case http.StatusBadRequest:
		return "validation"
	case http.StatusUnauthorized:
		return "unauthorized"
	case http.StatusForbidden:
		return "forbidden"
	case http.StatusNotFound:
		return "not_found"
	case http.StatusConflict:
		return "conflict"
	case http.StatusTooManyRequests:
		return "rate_limited"
	default:
		return "internal"
	}
}

// ErrorHandler renders every error as {"error": kind, "message": text}.
func ErrorHandler(log zerolog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		code := http.StatusInternalServerError
		msg := "internal error"
		if he, ok := err.(*echo.HTTPError); ok {
			code = he.Code
			msg = fmt.Sprint(he.Message)
		}
		if code >= http.StatusInternalServerError {
			log.Error().Err(err).Str("path", c.Request().URL.Path).Msg("request failed")
		}
		if c.Response().Committed {
			return
		}
		_ = c.JSON(code, map[string]string{"error": kindOf(code), "message": msg})
	}
}
