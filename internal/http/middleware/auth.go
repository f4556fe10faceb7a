package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yungbote/material-inventory-backend/internal/http/handlers"
	"github.com/yungbote/material-inventory-backend/internal/pkg/logger"
	"github.com/yungbote/material-inventory-backend/internal/platform/apierr"
	"github.com/yungbote/material-inventory-backend/internal/requestdata"
	"github.com/yungbote/material-inventory-backend/internal/services"
)

type AuthMiddleware struct {
	log            *logger.Logger
	sessionService services.SessionService
}

func NewAuthMiddleware(baseLog *logger.Logger, sessionService services.SessionService) *AuthMiddleware {
	return &AuthMiddleware{
		log:            baseLog.With("middleware", "AuthMiddleware"),
		sessionService: sessionService,
	}
}

// RequireAuth rejects the request unless the session cookie resolves to a
// live server-side session, and stashes the caller's identity on the request
// context for the layers below.
func (am *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := c.Cookie(services.SessionCookieName)
		if err != nil || token == "" {
			am.abortUnauthorized(c)
			return
		}

		session, err := am.sessionService.Validate(c.Request.Context(), token)
		if err != nil {
			if apierr.From(err).Status >= http.StatusInternalServerError {
				am.log.Error("Session validation failed", "error", err)
			}
			am.abortUnauthorized(c)
			return
		}

		ctx := requestdata.WithRequestData(c.Request.Context(), &requestdata.RequestData{
			UserID:       session.UserID,
			SessionToken: token,
		})
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func (am *AuthMiddleware) abortUnauthorized(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, handlers.ErrorEnvelope{
		Error: handlers.APIError{
			Message: "Please login first",
			Code:    "unauthorized",
		},
	})
}
