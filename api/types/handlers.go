package types

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	apperrors "github.com/wasper/research-api/pkg/errors"
)

// SendError writes err as a JSON error body and aborts the chain.
// Errors outside the AppError taxonomy are reported as INTERNAL without their text.
func SendError(c *gin.Context, err error) {
	log := zerolog.Ctx(c.Request.Context())

	appErr, ok := apperrors.As(err)
	if !ok {
		log.Error().Err(err).Str("path", c.Request.URL.Path).Msg("Unhandled error")
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{
			Error: "internal server error",
			Code:  string(apperrors.ErrCodeInternal),
		})
		return
	}

	status := appErr.GetHTTPCode()
	event := log.Warn()
	if status >= http.StatusInternalServerError {
		event = log.Error()
	}
	event.Err(err).
		Str("code", string(appErr.Code)).
		Int("status", status).
		Str("path", c.Request.URL.Path).
		Msg("Request failed")

	resp := ErrorResponse{
		Error:   appErr.Message,
		Code:    string(appErr.Code),
		Details: appErr.Details,
	}
	if appErr.Cause != nil && appErr.Code != apperrors.ErrCodeInternal {
		details := make(map[string]interface{}, len(appErr.Details)+1)
		for k, v := range appErr.Details {
			details[k] = v
		}
		details["cause"] = appErr.Cause.Error()
		resp.Details = details
	}

	c.AbortWithStatusJSON(status, resp)
}

// BindJSONOrError attempts to bind JSON request body to target struct
// Returns false and sends error response if binding fails
func BindJSONOrError(c *gin.Context, target interface{}) bool {
	if err := c.ShouldBindJSON(target); err != nil {
		SendError(c, apperrors.InvalidRequest("body", err.Error()))
		return false
	}
	return true
}

// SendBadRequest sends a standardized bad request response
func SendBadRequest(c *gin.Context, field, reason string) {
	SendError(c, apperrors.InvalidRequest(field, reason))
}

// SendNotFound sends a standardized not found response
func SendNotFound(c *gin.Context, message string) {
	SendError(c, apperrors.New(apperrors.ErrCodeNotFound, message))
}
