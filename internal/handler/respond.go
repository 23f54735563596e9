package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"parley/internal/middleware"
	"parley/internal/model"
	"parley/internal/service"
	"parley/pkg/apperr"
	"parley/pkg/logger"
)

// respondError translates typed domain errors to status codes 1:1. Anything
// untyped or internal becomes a 500 with a generic body; the cause goes to
// the log, never to the client.
func respondError(c *gin.Context, log *logger.Logger, err error) {
	if e := apperr.From(err); e != nil && e.Kind != apperr.KindInternal {
		c.JSON(e.HTTPStatus(), model.ErrorResponse{Message: e.Message, Code: string(e.Kind)})
		return
	}
	log.Errorf("%s %s failed: %v", c.Request.Method, c.FullPath(), err)
	c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: "internal server error"})
}

// chatUserID resolves the session's auth principal to its chat-user id. A
// missing link means the account was never provisioned for chat, which the
// boundary treats as an authentication failure.
func chatUserID(c *gin.Context, users *service.UserService) (uuid.UUID, bool) {
	authUserID := c.MustGet(middleware.CtxAuthUserID).(uuid.UUID)
	userID, err := users.ResolveChatUserID(authUserID)
	if err != nil {
		if apperr.IsKind(err, apperr.KindNotFound) {
			c.JSON(http.StatusUnauthorized, model.ErrorResponse{Message: "No chat user linked to this account"})
			return uuid.Nil, false
		}
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Message: "internal server error"})
		return uuid.Nil, false
	}
	return userID, true
}
