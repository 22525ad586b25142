package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/internal/metrics"
	"shareit/internal/service"
)

type Handler struct {
	users    *service.UserService
	items    *service.ItemService
	bookings *service.BookingService
	requests *service.RequestService
	db       *gorm.DB
	logger   *zerolog.Logger
}

func NewHandler(
	users *service.UserService,
	items *service.ItemService,
	bookings *service.BookingService,
	requests *service.RequestService,
	db *gorm.DB,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		users:    users,
		items:    items,
		bookings: bookings,
		requests: requests,
		db:       db,
		logger:   logger,
	}
}

// NewRouter wires the backend route surface.
func NewRouter(h *Handler, logger *zerolog.Logger) *gin.Engine {
	metrics.Register()

	r := gin.New()
	r.Use(gin.Recovery(), RequestID(), AccessLog(logger))

	r.POST("/users", h.createUser)
	r.GET("/users", h.listUsers)
	r.GET("/users/:id", h.getUser)
	r.PATCH("/users/:id", h.updateUser)
	r.DELETE("/users/:id", h.deleteUser)

	r.POST("/items", h.createItem)
	r.GET("/items", h.listItems)
	r.GET("/items/search", h.searchItems)
	r.GET("/items/:id", h.getItem)
	r.PATCH("/items/:id", h.updateItem)
	r.DELETE("/items/:id", h.deleteItem)
	r.POST("/items/:id/comment", h.saveComment)

	r.POST("/bookings", h.createBooking)
	r.GET("/bookings", h.listUserBookings)
	r.GET("/bookings/owner", h.listOwnerBookings)
	r.GET("/bookings/:id", h.getBooking)
	r.PATCH("/bookings/:id", h.approveBooking)

	r.POST("/requests", h.createRequest)
	r.GET("/requests", h.listOwnRequests)
	r.GET("/requests/all", h.listOtherRequests)
	r.GET("/requests/:id", h.getRequest)

	r.GET("/manage/health", h.healthCheck)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func (h *Handler) healthCheck(c *gin.Context) {
	sqlDB, err := h.db.DB()
	if err == nil {
		err = sqlDB.Ping()
	}
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":  "DOWN",
			"details": "database ping failed",
			"error":   err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "UP"})
}
