package api

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"shareit/internal/models"
)

type bookingListFn func(ctx context.Context, userID uint, state models.BookingState, offset, limit int) ([]models.Booking, error)

func (h *Handler) createBooking(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var in bookingIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	booking, err := h.bookings.Create(c.Request.Context(), uid, in.ItemID, in.Start, in.End)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDto(booking))
}

func (h *Handler) approveBooking(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}
	approved, err := strconv.ParseBool(c.Query("approved"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "approved must be true or false"})
		return
	}

	booking, err := h.bookings.Approve(c.Request.Context(), uid, bookingID, approved)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDto(booking))
}

func (h *Handler) getBooking(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	bookingID, ok := pathID(c, "id")
	if !ok {
		return
	}

	booking, err := h.bookings.GetByID(c.Request.Context(), uid, bookingID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingDto(booking))
}

func (h *Handler) listUserBookings(c *gin.Context) {
	h.listBookings(c, h.bookings.ListForUser)
}

func (h *Handler) listOwnerBookings(c *gin.Context) {
	h.listBookings(c, h.bookings.ListForOwner)
}

func (h *Handler) listBookings(c *gin.Context, list bookingListFn) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	from, size, ok := pagination(c, 20)
	if !ok {
		return
	}
	raw := c.DefaultQuery("state", "all")
	state, ok := models.ParseBookingState(raw)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Unknown state: " + raw})
		return
	}

	bookings, err := list(c.Request.Context(), uid, state, from, size)
	if err != nil {
		writeError(c, err)
		return
	}
	dtos := make([]bookingDto, len(bookings))
	for i := range bookings {
		dtos[i] = toBookingDto(&bookings[i])
	}
	c.JSON(http.StatusOK, dtos)
}
