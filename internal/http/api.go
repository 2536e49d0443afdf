package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"keyed-api/internal/backup"
	"keyed-api/internal/service"
)

// Options carries the collaborators of Handler. Backups and Metrics are optional.
type Options struct {
	Identities service.IdentityResolver
	Users      service.UserService
	Messages   service.MessageService
	Todos      service.TodoService
	Backups    backup.Service
	Metrics    *Metrics
	KeyHeader  string
	Logger     *logrus.Logger
}

// Handler wires HTTP routes to domain services.
type Handler struct {
	identities service.IdentityResolver
	users      service.UserService
	messages   service.MessageService
	todos      service.TodoService
	backups    backup.Service
	metrics    *Metrics
	keyHeader  string
	logger     *logrus.Logger
}

func NewHandler(opts Options) *Handler {
	if opts.KeyHeader == "" {
		opts.KeyHeader = "Authorization"
	}
	if opts.Logger == nil {
		opts.Logger = logrus.New()
	}
	return &Handler{
		identities: opts.Identities,
		users:      opts.Users,
		messages:   opts.Messages,
		todos:      opts.Todos,
		backups:    opts.Backups,
		metrics:    opts.Metrics,
		keyHeader:  opts.KeyHeader,
		logger:     opts.Logger,
	}
}

// RegisterRoutes installs the open routes first and every other route behind
// the key gate.
func (h *Handler) RegisterRoutes(router *gin.Engine) {
	router.Use(corsMiddleware(h.keyHeader))
	router.Use(requestLogger(h.logger))
	if h.metrics != nil {
		router.Use(h.metrics.middleware())
		router.GET("/metrics", gin.WrapH(h.metrics.Handler()))
	}

	router.GET("/health", func(c *gin.Context) {
		respond(c, http.StatusOK, "ok")
	})
	router.POST("/register", h.register)

	gate := []gin.HandlerFunc{h.requireKey(), h.validateKey(), h.attachIdentity()}
	api := router.Group("/", gate...)
	{
		api.GET("/users", h.listUsers)
		api.GET("/id/:id", h.getUserByID)
		api.GET("/username/:username", h.getUserByUsername)
		api.GET("/email/:email", h.getUserByEmail)
		api.GET("/blacklist/id/:id", h.blacklist)
		api.GET("/whitelist/id/:id", h.whitelist)

		api.GET("/send", h.sendMessage)
		api.POST("/send", h.sendMessage)
		api.GET("/read", h.readMessages)

		api.POST("/create", h.createTodo)
		api.POST("/delete/:id", h.deleteTodo)
		api.POST("/done/:id", h.markTodo(true))
		api.POST("/undone/:id", h.markTodo(false))
		api.GET("/list", h.listTodos)
		api.GET("/list/:filter", h.listTodos)

		api.POST("/admin/backup", h.runBackup)
		api.GET("/admin/backups", h.listBackups)
	}

	// unknown paths still go through the gate before answering 404
	router.NoRoute(append(gate, func(c *gin.Context) {
		respond(c, http.StatusNotFound, "route not found")
	})...)
}

func corsMiddleware(keyHeader string) gin.HandlerFunc {
	allowHeaders := "Origin, Content-Type, Accept, Authorization"
	if keyHeader != "Authorization" {
		allowHeaders += ", " + keyHeader
	}
	return func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}
