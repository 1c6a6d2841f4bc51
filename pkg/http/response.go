package http

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
)

// JSONResponse writes data as-is with the given status. The pre-approval
// document has a fixed contract shape, so no envelope is added.
func JSONResponse(c echo.Context, statusCode int, data interface{}) error {
	return c.JSON(statusCode, data)
}

// ErrorBody is the wire shape of error responses.
type ErrorBody struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// AppErrorResponse writes an application error response.
func AppErrorResponse(c echo.Context, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return c.JSON(appErr.Status, ErrorBody{Code: appErr.Code, Message: appErr.Message})
	}
	return c.JSON(http.StatusInternalServerError, ErrorBody{
		Code:    "ERR_INTERNAL",
		Message: "Something went wrong",
	})
}

// BadRequestResponse writes validation errors with a 400 status.
func BadRequestResponse(c echo.Context, details interface{}) error {
	return c.JSON(http.StatusBadRequest, map[string]interface{}{
		"code":    "ERR_BAD_REQUEST",
		"message": http.StatusText(http.StatusBadRequest),
		"details": details,
	})
}
