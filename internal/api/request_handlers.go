package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/internal/service"
)

func (h *Handler) createRequest(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var in requestIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	req, err := h.requests.Create(c.Request.Context(), uid, in.Description)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestDto(&service.RequestDetail{Request: *req}))
}

func (h *Handler) listOwnRequests(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	details, err := h.requests.ListOwn(c.Request.Context(), uid)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestDtos(details))
}

func (h *Handler) listOtherRequests(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	from, size, ok := pagination(c, 10)
	if !ok {
		return
	}

	details, err := h.requests.ListOthers(c.Request.Context(), uid, from, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestDtos(details))
}

func (h *Handler) getRequest(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	requestID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.requests.GetOne(c.Request.Context(), uid, requestID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toRequestDto(detail))
}

func toRequestDtos(details []service.RequestDetail) []requestDto {
	dtos := make([]requestDto, len(details))
	for i := range details {
		dtos[i] = toRequestDto(&details[i])
	}
	return dtos
}
