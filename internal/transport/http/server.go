package http

import (
	stdhttp "net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"github.com/roomcast/roomcast-server/internal/config"
	"github.com/roomcast/roomcast-server/internal/core"
	"github.com/roomcast/roomcast-server/internal/upload"
)

// NewServer builds the HTTP server carrying both entry surfaces: the
// REST message API and the WebSocket push endpoint.
func NewServer(hub *core.Hub, uploads *upload.Store, cfg config.Config, logger *zerolog.Logger) *stdhttp.Server {
	gin.SetMode(gin.ReleaseMode)

	engine := gin.New()
	engine.Use(gin.Recovery(), LoggerMiddleware(logger))

	engine.GET("/health", healthHandler)
	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	messages := NewMessageHandlers(hub, logger)
	engine.GET("/messages/:room", messages.FetchHistory)
	engine.POST("/messages", messages.CreateMessage)
	engine.PUT("/messages/:id", messages.EditMessage)
	engine.DELETE("/messages/:id", messages.DeleteMessage)

	files := NewUploadHandlers(uploads, logger)
	engine.POST("/upload", files.Upload)
	engine.Static("/uploads", uploads.Dir())

	engine.GET("/ws", gin.WrapH(NewWSHandler(hub, cfg.WSMessageRateLimit, logger)))

	return &stdhttp.Server{
		Addr:              cfg.Addr,
		Handler:           engine,
		ReadHeaderTimeout: cfg.ReadHeaderTimeout,
	}
}

func healthHandler(c *gin.Context) {
	c.String(stdhttp.StatusOK, "ok")
}
