package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/epictutors/epic-tutors-server/internal/apperr"
	"github.com/epictutors/epic-tutors-server/internal/middleware"
)

// errorBody is the JSON shape of every error response.
type errorBody struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

// ErrorHandler is installed as Echo's HTTPErrorHandler. It is the only place
// application errors become HTTP responses: the kind picks the status and
// the client sees a fixed message, while the cause is logged.
func ErrorHandler(logger *zap.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}
		status, msg := classify(err)
		if status >= http.StatusInternalServerError {
			logger.Error("request failed",
				zap.String("request_id", middleware.RequestID(c)),
				zap.String("path", c.Path()),
				zap.Error(err))
		}

		if c.Request().Method == http.MethodHead {
			err = c.NoContent(status)
		} else {
			err = c.JSON(status, errorBody{Error: true, Message: msg})
		}
		if err != nil {
			logger.Error("write error response", zap.Error(err))
		}
	}
}

func classify(err error) (int, string) {
	var ae *apperr.Error
	if errors.As(err, &ae) {
		switch ae.Kind {
		case apperr.KindUnauthorized:
			return http.StatusUnauthorized, apperr.MsgUnauthorized
		case apperr.KindForbidden:
			return http.StatusForbidden, apperr.MsgForbidden
		case apperr.KindInvalid:
			return http.StatusBadRequest, ae.Message
		case apperr.KindNotFound:
			return http.StatusNotFound, apperr.MsgNotFound
		default:
			return http.StatusInternalServerError, apperr.MsgInternal
		}
	}
	var he *echo.HTTPError
	if errors.As(err, &he) {
		msg := http.StatusText(he.Code)
		if s, ok := he.Message.(string); ok && s != "" {
			msg = s
		}
		return he.Code, msg
	}
	return http.StatusInternalServerError, apperr.MsgInternal
}
