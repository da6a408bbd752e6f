// Package http exposes the module as an out-of-process policy server.
// The host posts an event plus its view of the room state and gets the
// decision back; nothing is cached or persisted here.
package http

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/matrix-org/synapse-freeze-room/internal/app"
	"github.com/matrix-org/synapse-freeze-room/internal/config"
)

// RequestIDMiddleware tags every request so decisions can be correlated
// with host-side logs.
func RequestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set("request_id", id)
		c.Header("X-Request-ID", id)
		c.Next()
	}
}

func SetupRouter(cfg *config.Config, module *app.Module) *gin.Engine {
	if cfg.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	if cfg.Mode == "debug" {
		r.Use(gin.Logger())
	}
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())

	h := &handlers{module: module}

	r.GET("/healthz", h.health)

	api := r.Group("/api/v1")
	api.POST("/rooms/:room_id/events/check", h.checkEvent)
	api.POST("/rooms/:room_id/members/departed", h.memberDeparted)
	api.POST("/rooms/:room_id/frozen", h.frozen)

	log.Info().Str("module", "adapters.http").Msg("router setup")
	return r
}
