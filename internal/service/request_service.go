package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"shareit/internal/models"
	"shareit/internal/repository"
)

// RequestDetail is a request with the items that were created against it.
type RequestDetail struct {
	Request models.Request
	Items   []models.Item
}

type RequestService struct {
	requests *repository.RequestRepository
	items    *repository.ItemRepository
	users    *repository.UserRepository
	logger   *zerolog.Logger
}

func NewRequestService(
	requests *repository.RequestRepository,
	items *repository.ItemRepository,
	users *repository.UserRepository,
	logger *zerolog.Logger,
) *RequestService {
	return &RequestService{requests: requests, items: items, users: users, logger: logger}
}

func (s *RequestService) Create(ctx context.Context, userID uint, description string) (*models.Request, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(description) == "" {
		v := NewValidationError()
		v.Add("description", "must not be blank")
		return nil, v
	}

	req := &models.Request{
		Description: description,
		UserID:      userID,
		Created:     time.Now(),
	}
	if err := s.requests.Save(ctx, req); err != nil {
		return nil, err
	}
	s.logger.Info().Uint("request_id", req.ID).Uint("user_id", userID).Msg("item request created")
	return req, nil
}

// ListOwn returns the caller's requests, newest first, with responding
// items attached.
func (s *RequestService) ListOwn(ctx context.Context, userID uint) ([]RequestDetail, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

// ListOthers returns everyone else's requests, paginated.
func (s *RequestService) ListOthers(ctx context.Context, userID uint, offset, limit int) ([]RequestDetail, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	requests, err := s.requests.ListOthers(ctx, userID, offset, limit)
	if err != nil {
		return nil, err
	}
	return s.attachItems(ctx, requests)
}

func (s *RequestService) GetOne(ctx context.Context, userID, requestID uint) (*RequestDetail, error) {
	if _, err := s.checkUser(ctx, userID); err != nil {
		return nil, err
	}
	req, err := s.requests.Get(ctx, requestID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("request %d: %w", requestID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}

	details, err := s.attachItems(ctx, []models.Request{*req})
	if err != nil {
		return nil, err
	}
	return &details[0], nil
}

func (s *RequestService) attachItems(ctx context.Context, requests []models.Request) ([]RequestDetail, error) {
	if len(requests) == 0 {
		return []RequestDetail{}, nil
	}

	ids := make([]uint, len(requests))
	for i, req := range requests {
		ids[i] = req.ID
	}
	items, err := s.items.ListByRequestIDs(ctx, ids)
	if err != nil {
		return nil, err
	}

	itemsByRequest := make(map[uint][]models.Item)
	for _, item := range items {
		if item.RequestID != nil {
			itemsByRequest[*item.RequestID] = append(itemsByRequest[*item.RequestID], item)
		}
	}

	details := make([]RequestDetail, len(requests))
	for i, req := range requests {
		details[i] = RequestDetail{Request: req, Items: itemsByRequest[req.ID]}
	}
	return details, nil
}

func (s *RequestService) checkUser(ctx context.Context, userID uint) (*models.User, error) {
	user, err := s.users.Get(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("user %d: %w", userID, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return user, nil
}
