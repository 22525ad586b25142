package gateway

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"shareit/internal/api"
	"shareit/internal/config"
)

// NewRouter builds the public edge of the system. Every route is rate
// limited; routes with extra validation get their own handler, the rest
// forward as-is.
func NewRouter(cfg config.GatewayConfig, logger *zerolog.Logger) *gin.Engine {
	g := New(cfg, logger)
	rl := newRateLimiter(cfg.RateLimit)

	r := gin.New()
	r.Use(gin.Recovery(), api.RequestID(), api.AccessLog(logger), rl.Middleware())

	r.POST("/users", g.createUser)
	r.GET("/users", g.forward)
	r.GET("/users/:id", g.forward)
	r.PATCH("/users/:id", g.updateUser)
	r.DELETE("/users/:id", g.forward)

	r.POST("/items", g.forwardWithUser)
	r.GET("/items", g.listWithUser)
	r.GET("/items/search", g.searchItems)
	r.GET("/items/:id", g.forwardWithUser)
	r.PATCH("/items/:id", g.forwardWithUser)
	r.DELETE("/items/:id", g.forwardWithUser)
	r.POST("/items/:id/comment", g.createComment)

	r.POST("/bookings", g.createBooking)
	r.GET("/bookings", g.listBookings)
	r.GET("/bookings/owner", g.listBookings)
	r.GET("/bookings/:id", g.forwardWithUser)
	r.PATCH("/bookings/:id", g.forwardWithUser)

	r.POST("/requests", g.forwardWithUser)
	r.GET("/requests", g.forwardWithUser)
	r.GET("/requests/all", g.listWithUser)
	r.GET("/requests/:id", g.forwardWithUser)

	r.GET("/manage/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "UP"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}
