package models

import (
	"strings"
	"time"
)

type BookingStatus string

const (
	StatusWaiting  BookingStatus = "WAITING"
	StatusApproved BookingStatus = "APPROVED"
	StatusRejected BookingStatus = "REJECTED"
	// StatusCanceled is part of the schema but no API operation produces it.
	// It can only appear if set directly in storage.
	StatusCanceled BookingStatus = "CANCELED"
)

// BookingState is the filter used by booking list queries. ALL, CURRENT,
// PAST and FUTURE partition bookings relative to the current time; WAITING
// and REJECTED filter by status only.
type BookingState string

const (
	StateAll      BookingState = "ALL"
	StateCurrent  BookingState = "CURRENT"
	StatePast     BookingState = "PAST"
	StateFuture   BookingState = "FUTURE"
	StateWaiting  BookingState = "WAITING"
	StateRejected BookingState = "REJECTED"
)

// ParseBookingState matches case-insensitively. The second return value
// reports whether the input named a known state.
func ParseBookingState(s string) (BookingState, bool) {
	switch BookingState(strings.ToUpper(s)) {
	case StateAll, StateCurrent, StatePast, StateFuture, StateWaiting, StateRejected:
		return BookingState(strings.ToUpper(s)), true
	}
	return "", false
}

type User struct {
	ID    uint   `gorm:"primaryKey"`
	Name  string `gorm:"size:255;not null"`
	Email string `gorm:"size:512;not null;uniqueIndex"`
}

type Item struct {
	ID          uint   `gorm:"primaryKey"`
	Name        string `gorm:"size:255;not null"`
	Description string `gorm:"size:1000"`
	Available   bool   `gorm:"not null"`
	OwnerID     uint   `gorm:"not null;index"`
	RequestID   *uint  `gorm:"index"`

	Owner User `gorm:"foreignKey:OwnerID"`
}

type Request struct {
	ID          uint   `gorm:"primaryKey"`
	Description string `gorm:"size:500;not null"`
	UserID      uint   `gorm:"not null;index"`
	Created     time.Time

	User User `gorm:"foreignKey:UserID"`
}

type Booking struct {
	ID       uint          `gorm:"primaryKey"`
	Start    time.Time     `gorm:"column:start_date"`
	End      time.Time     `gorm:"column:end_date"`
	ItemID   uint          `gorm:"not null;index"`
	BookerID uint          `gorm:"not null;index"`
	Status   BookingStatus `gorm:"size:20;not null"`

	Item   Item `gorm:"foreignKey:ItemID"`
	Booker User `gorm:"foreignKey:BookerID"`
}

type Comment struct {
	ID       uint   `gorm:"primaryKey"`
	Text     string `gorm:"size:1000;not null"`
	ItemID   uint   `gorm:"not null;index"`
	AuthorID uint   `gorm:"not null"`
	Created  time.Time

	Item   Item `gorm:"foreignKey:ItemID"`
	Author User `gorm:"foreignKey:AuthorID"`
}
