package v1

import (
	"errors"
	"log/slog"

	"github.com/labstack/echo/v4"

	aierrors "github.com/hrygo/northstar/server/internal/errors"
)

type errorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Detail  string `json:"detail,omitempty"`
}

type errorResponse struct {
	Error errorBody `json:"error"`
}

// writeError renders err as {"error": {code, message, detail}} with the status of its code.
// Errors without a code are reported as agent execution failures.
func writeError(c echo.Context, err error) error {
	var aiErr *aierrors.AIError
	if !errors.As(err, &aiErr) {
		aiErr = aierrors.AgentExecutionFailed("request failed", err)
	}
	status := aierrors.HTTPStatus(aiErr.Code)
	if status >= 500 {
		slog.Error("request failed",
			slog.String("path", c.Path()),
			slog.String("error_code", string(aiErr.Code)),
			slog.String("error", aiErr.Error()),
		)
	}
	return c.JSON(status, errorResponse{Error: errorBody{
		Code:    string(aiErr.Code),
		Message: aiErr.Message,
		Detail:  aiErr.Detail(),
	}})
}
