package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"keyed-api/internal/backup"
	"keyed-api/internal/service"
)

type BackupObjectResponse struct {
	Key          string  `json:"key"`
	Size         int64   `json:"size"`
	LastModified *string `json:"last_modified,omitempty"`
}

// backupsFor refuses non-admins before checking that backups are configured.
func (h *Handler) backupsFor(c *gin.Context) (backup.Service, bool) {
	if caller := currentIdentity(c); caller == nil || !caller.Admin {
		h.respondError(c, service.ErrForbidden)
		return nil, false
	}
	if h.backups == nil {
		h.respondError(c, backup.ErrNotConfigured)
		return nil, false
	}
	return h.backups, true
}

func (h *Handler) runBackup(c *gin.Context) {
	backups, ok := h.backupsFor(c)
	if !ok {
		return
	}
	result, err := backups.Run(c.Request.Context(), currentIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}
	respond(c, http.StatusOK, result)
}

func (h *Handler) listBackups(c *gin.Context) {
	backups, ok := h.backupsFor(c)
	if !ok {
		return
	}
	objects, err := backups.List(c.Request.Context(), currentIdentity(c))
	if err != nil {
		h.respondError(c, err)
		return
	}

	resp := make([]BackupObjectResponse, len(objects))
	for i := range objects {
		resp[i] = BackupObjectResponse{Key: objects[i].Key, Size: objects[i].Size}
		if objects[i].LastModified != nil && !objects[i].LastModified.IsZero() {
			v := objects[i].LastModified.Format(time.RFC3339)
			resp[i].LastModified = &v
		}
	}
	respond(c, http.StatusOK, resp)
}
