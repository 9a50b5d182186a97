// Package handler wires the HTTP surface: request binding, actor extraction
// and the uniform response envelope.
package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plantaohub/oncall-api/internal/model"
	apperrors "github.com/plantaohub/oncall-api/pkg/errors"
)

// ActorKey is the gin context key under which the auth middleware stores the
// authenticated actor.
const ActorKey = "actor"

// TokenKey is the gin context key holding the raw bearer token.
const TokenKey = "token"

func respondSuccess(c *gin.Context, status int, data interface{}) {
	c.JSON(status, gin.H{
		"status": "success",
		"data":   data,
	})
}

func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch apperrors.CodeOf(err) {
	case apperrors.ErrNotFound:
		status = http.StatusNotFound
	case apperrors.ErrValidation:
		status = http.StatusBadRequest
	case apperrors.ErrUnauthorized:
		status = http.StatusUnauthorized
	case apperrors.ErrForbidden:
		status = http.StatusForbidden
	case apperrors.ErrConflict:
		status = http.StatusConflict
	}

	message := "internal server error"
	if appErr, ok := err.(*apperrors.AppError); ok && status != http.StatusInternalServerError {
		message = appErr.Message
	}
	c.JSON(status, gin.H{
		"status": "error",
		"error":  message,
	})
}

func respondBindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"status": "error",
		"error":  "invalid request: " + err.Error(),
	})
}

// actorFrom returns the authenticated actor stored by the auth middleware.
func actorFrom(c *gin.Context) *model.Actor {
	v, ok := c.Get(ActorKey)
	if !ok {
		return nil
	}
	actor, _ := v.(*model.Actor)
	return actor
}

func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{
			"status": "error",
			"error":  "invalid " + name,
		})
		return 0, false
	}
	return id, true
}
