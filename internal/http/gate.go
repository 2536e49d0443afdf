package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"keyed-api/internal/domain"
	"keyed-api/internal/service"
)

type identityKey struct{}

const ginIdentityKey = "identity"

// IdentityFromContext returns the caller attached by the gate, if any.
func IdentityFromContext(ctx context.Context) (*domain.Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(*domain.Identity)
	return id, ok && id != nil
}

func (h *Handler) apiKey(c *gin.Context) string {
	return strings.TrimSpace(c.GetHeader(h.keyHeader))
}

// requireKey rejects requests that carry no key at all.
func (h *Handler) requireKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		if h.apiKey(c) == "" {
			h.metrics.rejected("missing")
			abort(c, http.StatusForbidden, msgNoToken)
			return
		}
		c.Next()
	}
}

// validateKey only answers pass/fail: the key must belong to an active user.
func (h *Handler) validateKey() gin.HandlerFunc {
	return func(c *gin.Context) {
		err := h.identities.Validate(c.Request.Context(), h.apiKey(c))
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredential) {
				h.metrics.rejected("invalid")
			}
			h.respondError(c, err)
			return
		}
		c.Next()
	}
}

// attachIdentity loads the caller projection and threads it through both the
// gin context and the request context.
func (h *Handler) attachIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := h.identities.Resolve(c.Request.Context(), h.apiKey(c))
		if err != nil {
			if errors.Is(err, service.ErrInvalidCredential) {
				h.metrics.rejected("invalid")
			}
			h.respondError(c, err)
			return
		}
		c.Set(ginIdentityKey, identity)
		c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), identityKey{}, identity))
		c.Next()
	}
}

func currentIdentity(c *gin.Context) *domain.Identity {
	if v, ok := c.Get(ginIdentityKey); ok {
		if identity, ok := v.(*domain.Identity); ok {
			return identity
		}
	}
	identity, _ := IdentityFromContext(c.Request.Context())
	return identity
}
