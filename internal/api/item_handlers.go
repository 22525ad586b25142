package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"shareit/internal/service"
)

func (h *Handler) createItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	var in itemIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.items.Create(c.Request.Context(), uid, service.ItemInput{
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
		RequestID:   in.RequestID,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDto(item))
}

func (h *Handler) listItems(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	from, size, ok := pagination(c, 20)
	if !ok {
		return
	}

	details, err := h.items.ListForOwner(c.Request.Context(), uid, from, size)
	if err != nil {
		writeError(c, err)
		return
	}
	dtos := make([]datedItemDto, len(details))
	for i := range details {
		dtos[i] = toDatedItemDto(&details[i])
	}
	c.JSON(http.StatusOK, dtos)
}

func (h *Handler) getItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}

	detail, err := h.items.GetByID(c.Request.Context(), uid, itemID)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toDatedItemDto(detail))
}

func (h *Handler) searchItems(c *gin.Context) {
	from, size, ok := pagination(c, 20)
	if !ok {
		return
	}

	items, err := h.items.Search(c.Request.Context(), c.Query("text"), from, size)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDtos(items))
}

func (h *Handler) updateItem(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in itemIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	item, err := h.items.Update(c.Request.Context(), uid, itemID, service.ItemInput{
		Name:        in.Name,
		Description: in.Description,
		Available:   in.Available,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, toItemDto(item))
}

func (h *Handler) deleteItem(c *gin.Context) {
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	if err := h.items.Delete(c.Request.Context(), itemID); err != nil {
		writeError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

func (h *Handler) saveComment(c *gin.Context) {
	uid, ok := userID(c)
	if !ok {
		return
	}
	itemID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var in commentIn
	if err := c.ShouldBindJSON(&in); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	comment, err := h.items.SaveComment(c.Request.Context(), uid, itemID, in.Text)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, commentDto{
		ID:         comment.ID,
		Text:       comment.Text,
		AuthorName: comment.Author.Name,
		Created:    comment.Created,
	})
}
