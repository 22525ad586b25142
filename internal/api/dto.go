package api

import (
	"time"

	"shareit/internal/models"
	"shareit/internal/service"
)

// Outbound payloads. Field names match the public wire format.

type userDto struct {
	ID    uint   `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type itemDto struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
	RequestID   *uint  `json:"requestId,omitempty"`
}

// shortBookingDto is the booking view embedded in item payloads.
type shortBookingDto struct {
	ID       uint                 `json:"id"`
	Start    time.Time            `json:"start"`
	End      time.Time            `json:"end"`
	BookerID uint                 `json:"bookerId"`
	Status   models.BookingStatus `json:"status"`
}

type bookingDto struct {
	ID     uint                 `json:"id"`
	Start  time.Time            `json:"start"`
	End    time.Time            `json:"end"`
	Item   itemDto              `json:"item"`
	Booker userDto              `json:"booker"`
	Status models.BookingStatus `json:"status"`
}

type commentDto struct {
	ID         uint      `json:"id"`
	Text       string    `json:"text"`
	AuthorName string    `json:"authorName"`
	Created    time.Time `json:"created"`
}

type datedItemDto struct {
	ID          uint             `json:"id"`
	Name        string           `json:"name"`
	Description string           `json:"description"`
	Available   bool             `json:"available"`
	LastBooking *shortBookingDto `json:"lastBooking"`
	NextBooking *shortBookingDto `json:"nextBooking"`
	Comments    []commentDto     `json:"comments"`
}

type requestDto struct {
	ID          uint      `json:"id"`
	Description string    `json:"description"`
	Created     time.Time `json:"created"`
	Items       []itemDto `json:"items"`
}

// Inbound payloads.

type userIn struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

type itemIn struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   *bool  `json:"available"`
	RequestID   *uint  `json:"requestId"`
}

type bookingIn struct {
	ItemID uint      `json:"itemId"`
	Start  time.Time `json:"start"`
	End    time.Time `json:"end"`
}

type commentIn struct {
	Text string `json:"text"`
}

type requestIn struct {
	Description string `json:"description"`
}

func toUserDto(u *models.User) userDto {
	return userDto{ID: u.ID, Name: u.Name, Email: u.Email}
}

func toItemDto(item *models.Item) itemDto {
	return itemDto{
		ID:          item.ID,
		Name:        item.Name,
		Description: item.Description,
		Available:   item.Available,
		RequestID:   item.RequestID,
	}
}

func toItemDtos(items []models.Item) []itemDto {
	dtos := make([]itemDto, len(items))
	for i := range items {
		dtos[i] = toItemDto(&items[i])
	}
	return dtos
}

func toShortBookingDto(b *models.Booking) *shortBookingDto {
	if b == nil {
		return nil
	}
	return &shortBookingDto{
		ID:       b.ID,
		Start:    b.Start,
		End:      b.End,
		BookerID: b.BookerID,
		Status:   b.Status,
	}
}

func toBookingDto(b *models.Booking) bookingDto {
	return bookingDto{
		ID:     b.ID,
		Start:  b.Start,
		End:    b.End,
		Item:   toItemDto(&b.Item),
		Booker: toUserDto(&b.Booker),
		Status: b.Status,
	}
}

func toCommentDtos(comments []models.Comment) []commentDto {
	dtos := make([]commentDto, len(comments))
	for i, c := range comments {
		dtos[i] = commentDto{
			ID:         c.ID,
			Text:       c.Text,
			AuthorName: c.Author.Name,
			Created:    c.Created,
		}
	}
	return dtos
}

func toDatedItemDto(d *service.ItemDetail) datedItemDto {
	return datedItemDto{
		ID:          d.Item.ID,
		Name:        d.Item.Name,
		Description: d.Item.Description,
		Available:   d.Item.Available,
		LastBooking: toShortBookingDto(d.LastBooking),
		NextBooking: toShortBookingDto(d.NextBooking),
		Comments:    toCommentDtos(d.Comments),
	}
}

func toRequestDto(d *service.RequestDetail) requestDto {
	return requestDto{
		ID:          d.Request.ID,
		Description: d.Request.Description,
		Created:     d.Request.Created,
		Items:       toItemDtos(d.Items),
	}
}
