package service

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"shareit/internal/models"
	"shareit/internal/repository"
)

type testEnv struct {
	db       *gorm.DB
	users    *UserService
	items    *ItemService
	bookings *BookingService
	requests *RequestService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Request{}, &models.Item{},
		&models.Booking{}, &models.Comment{},
	); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}

	logger := zerolog.Nop()
	users := repository.NewUserRepository(db)
	items := repository.NewItemRepository(db)
	bookings := repository.NewBookingRepository(db)
	comments := repository.NewCommentRepository(db)
	requests := repository.NewRequestRepository(db)

	return &testEnv{
		db:       db,
		users:    NewUserService(users, &logger),
		items:    NewItemService(items, users, bookings, comments, requests, nil, &logger),
		bookings: NewBookingService(bookings, items, users, &logger),
		requests: NewRequestService(requests, items, users, &logger),
	}
}

func (e *testEnv) createUser(t *testing.T, name, email string) *models.User {
	t.Helper()
	user, err := e.users.Create(context.Background(), name, email)
	if err != nil {
		t.Fatalf("failed to create user %s: %v", email, err)
	}
	return user
}

func (e *testEnv) createItem(t *testing.T, ownerID uint, name string, available bool) *models.Item {
	t.Helper()
	item, err := e.items.Create(context.Background(), ownerID, ItemInput{
		Name:        name,
		Description: name + " description",
		Available:   &available,
	})
	if err != nil {
		t.Fatalf("failed to create item %s: %v", name, err)
	}
	return item
}

func (e *testEnv) createBooking(t *testing.T, bookerID, itemID uint, start, end time.Time) *models.Booking {
	t.Helper()
	booking, err := e.bookings.Create(context.Background(), bookerID, itemID, start, end)
	if err != nil {
		t.Fatalf("failed to create booking: %v", err)
	}
	return booking
}
