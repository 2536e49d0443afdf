package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"keyed-api/internal/domain"
	"keyed-api/internal/service"
)

type sendRequest struct {
	Dst     int64  `json:"dst" form:"dst"`
	Content string `json:"content" form:"content"`
}

type MessageResponse struct {
	ID        int64  `json:"id"`
	Src       int64  `json:"src"`
	Dst       int64  `json:"dst"`
	Content   string `json:"content"`
	CreatedAt string `json:"created_at"`
}

func (h *Handler) sendMessage(c *gin.Context) {
	var req sendRequest
	if err := c.ShouldBind(&req); err != nil {
		h.respondError(c, service.InvalidInput(err.Error()))
		return
	}
	if req.Dst <= 0 {
		h.respondError(c, service.InvalidInput("dst is required"))
		return
	}

	msg, err := h.messages.Send(c.Request.Context(), currentIdentity(c), req.Dst, req.Content)
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, messageToResponse(*msg))
}

func (h *Handler) readMessages(c *gin.Context) {
	messages, err := h.messages.Read(c.Request.Context(), currentIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	resp := make([]MessageResponse, len(messages))
	for i := range messages {
		resp[i] = messageToResponse(messages[i])
	}
	respond(c, http.StatusOK, resp)
}

func messageToResponse(msg domain.Message) MessageResponse {
	return MessageResponse{
		ID:        msg.ID,
		Src:       msg.SenderID,
		Dst:       msg.ReceiverID,
		Content:   msg.Content,
		CreatedAt: msg.CreatedAt.Format(time.RFC3339),
	}
}
