package http

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"keyed-api/internal/domain"
	"keyed-api/internal/service"
)

// registerRequest accepts either "username" or "name" for the display name.
type registerRequest struct {
	Username string  `json:"username" form:"username"`
	Name     string  `json:"name" form:"name"`
	Email    *string `json:"email" form:"email"`
}

type UserResponse struct {
	ID        int64   `json:"id"`
	Username  string  `json:"username"`
	Email     *string `json:"email"`
	APIKey    string  `json:"api_key"`
	Active    bool    `json:"active"`
	CreatedAt string  `json:"created_at"`
	UpdatedAt string  `json:"updated_at"`
}

// UserProjection is what lookups expose about other users.
type UserProjection struct {
	Username string  `json:"username"`
	Email    *string `json:"email"`
}

func (h *Handler) register(c *gin.Context) {
	var req registerRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, service.InvalidInput(err.Error()))
		return
	}
	username := req.Username
	if username == "" {
		username = req.Name
	}

	user, err := h.users.Register(c.Request.Context(), username, req.Email)
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.logger.WithField("user_id", user.ID).Info("user registered")
	respond(c, http.StatusOK, UserResponse{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		APIKey:    user.APIKey,
		Active:    user.Active,
		CreatedAt: user.CreatedAt.Format(time.RFC3339),
		UpdatedAt: user.UpdatedAt.Format(time.RFC3339),
	})
}

func (h *Handler) listUsers(c *gin.Context) {
	h.respondUsers(c)(h.users.List(c.Request.Context()))
}

func (h *Handler) getUserByID(c *gin.Context) {
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}
	h.respondUsers(c)(h.users.GetByID(c.Request.Context(), id))
}

func (h *Handler) getUserByUsername(c *gin.Context) {
	h.respondUsers(c)(h.users.FindByUsername(c.Request.Context(), c.Param("username")))
}

func (h *Handler) getUserByEmail(c *gin.Context) {
	h.respondUsers(c)(h.users.FindByEmail(c.Request.Context(), c.Param("email")))
}

func (h *Handler) respondUsers(c *gin.Context) func([]domain.User, error) {
	return func(users []domain.User, err error) {
		if err != nil {
			h.respondError(c, err)
			return
		}
		resp := make([]UserProjection, len(users))
		for i := range users {
			resp[i] = UserProjection{Username: users[i].Username, Email: users[i].Email}
		}
		respond(c, http.StatusOK, resp)
	}
}

func (h *Handler) blacklist(c *gin.Context) {
	h.setActive(c, false)
}

func (h *Handler) whitelist(c *gin.Context) {
	h.setActive(c, true)
}

func (h *Handler) setActive(c *gin.Context, active bool) {
	caller := currentIdentity(c)
	// non-admins are refused before the id is parsed
	if caller == nil || !caller.Admin {
		h.respondError(c, service.ErrForbidden)
		return
	}
	id, err := pathID(c, "id")
	if err != nil {
		h.respondError(c, err)
		return
	}

	var (
		verb = "blacklisted"
		msg  = "id " + strconv.FormatInt(id, 10) + " has been blacklisted"
	)
	if active {
		err = h.users.Whitelist(c.Request.Context(), caller, id)
		verb = "whitelisted"
		msg = "id " + strconv.FormatInt(id, 10) + " is valid"
	} else {
		err = h.users.Blacklist(c.Request.Context(), caller, id)
	}
	if err != nil {
		h.respondError(c, err)
		return
	}

	h.logger.WithFields(logrus.Fields{"admin_id": caller.ID, "user_id": id}).Infof("user %s", verb)
	respond(c, http.StatusOK, msg)
}
