package httputil

import (
	stderrors "errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/jwalitptl/booking-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    errors.ErrorCode `json:"code"`
	Message string           `json:"message"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithError sends an error response with the HTTP status mapped from
// the application error code.
func RespondWithError(c *gin.Context, err error) {
	code := errors.ErrInternal
	message := "internal server error"

	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		code = appErr.Code
		message = appErr.Message
	}

	c.JSON(httpStatus(code), Response{
		Success: false,
		Error: &Error{
			Code:    code,
			Message: message,
		},
	})
}

func httpStatus(code errors.ErrorCode) int {
	switch code {
	case errors.ErrInvalidRequest, errors.ErrInvalidScheduleWindow, errors.ErrHierarchyMismatch:
		return http.StatusBadRequest
	case errors.ErrDoctorNotFound, errors.ErrAppointmentNotFound, errors.ErrNotFound:
		return http.StatusNotFound
	case errors.ErrSlotTaken:
		return http.StatusConflict
	case errors.ErrUnauthorized:
		return http.StatusForbidden
	default:
		return http.StatusInternalServerError
	}
}
