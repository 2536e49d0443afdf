package http

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"keyed-api/internal/backup"
	"keyed-api/internal/service"
)

const (
	msgNoToken        = "No api token"
	msgInvalidToken   = "Invalid api token or not active"
	msgNotAllowed     = "Not allowed"
	msgNotFound       = "Not found"
	msgBadRequest     = "Bad request"
	msgInternalServer = "Internal server error"
)

// envelope is the body of every response.
type envelope struct {
	Code  int  `json:"code"`
	Valid bool `json:"valid"`
	Data  any  `json:"data"`
}

func respond(c *gin.Context, status int, data any) {
	c.JSON(status, envelope{Code: status, Valid: status < http.StatusBadRequest, Data: data})
}

func abort(c *gin.Context, status int, data any) {
	c.AbortWithStatusJSON(status, envelope{Code: status, Valid: false, Data: data})
}

// respondError maps the service error taxonomy onto a status and message and
// stops the handler chain.
func (h *Handler) respondError(c *gin.Context, err error) {
	status, msg := statusFor(err)
	if status >= http.StatusInternalServerError {
		h.logger.WithError(err).WithField("path", c.FullPath()).Error("request failed")
	}
	_ = c.Error(err)
	abort(c, status, msg)
}

func statusFor(err error) (int, string) {
	reason := service.Reason(err)
	orDefault := func(def string) string {
		if reason == "" {
			return def
		}
		return reason
	}

	switch {
	case errors.Is(err, service.ErrUnauthenticated):
		return http.StatusForbidden, msgNoToken
	case errors.Is(err, service.ErrInvalidCredential):
		return http.StatusForbidden, msgInvalidToken
	case errors.Is(err, service.ErrForbidden):
		return http.StatusForbidden, orDefault(msgNotAllowed)
	case errors.Is(err, service.ErrNotFound):
		return http.StatusNotFound, orDefault(msgNotFound)
	case errors.Is(err, service.ErrInvalidInput):
		return http.StatusBadRequest, orDefault(msgBadRequest)
	case errors.Is(err, backup.ErrNotConfigured):
		return http.StatusInternalServerError, backup.ErrNotConfigured.Error()
	default:
		// constraint violations surface as 500 as well
		return http.StatusInternalServerError, msgInternalServer
	}
}

func pathID(c *gin.Context, name string) (int64, error) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		return 0, service.InvalidInput("invalid " + name)
	}
	return id, nil
}
