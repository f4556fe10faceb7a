package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
)

type APIError struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

type ErrorEnvelope struct {
	Error APIError `json:"error"`
}

// RespondError translates any error through the apierr taxonomy. Internal
// failures get a generic message; the real cause stays in the logs.
func RespondError(c *gin.Context, err error) {
	apiErr := apierr.From(err)
	msg := apiErr.Error()
	if apiErr.Status >= http.StatusInternalServerError {
		msg = "Internal server error"
	}
	c.JSON(apiErr.Status, ErrorEnvelope{
		Error: APIError{
			Message: msg,
			Code:    apiErr.Code,
		},
	})
}

func RespondOK(c *gin.Context, payload any) {
	c.JSON(http.StatusOK, payload)
}

func RespondCreated(c *gin.Context, payload any) {
	c.JSON(http.StatusCreated, payload)
}
