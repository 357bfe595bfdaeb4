package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventrsvp/internal/domain"
)

type guestService struct {
	guestRepo      domain.GuestRepository
	eventRepo      domain.EventRepository
	contextTimeout time.Duration
}

func NewGuestService(guestRepo domain.GuestRepository, eventRepo domain.EventRepository, timeout time.Duration) domain.GuestService {
	return &guestService{
		guestRepo:      guestRepo,
		eventRepo:      eventRepo,
		contextTimeout: timeout,
	}
}

func normalizeGuest(g *domain.Guest) error {
	g.Name = strings.TrimSpace(g.Name)
	g.Email = strings.ToLower(strings.TrimSpace(g.Email))
	if g.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrInvalidInput)
	}
	return validateEmail(g.Email)
}

// CreateGuest attaches a guest to an event owned by guest.OwnerID.
func (s *guestService) CreateGuest(ctx context.Context, guest *domain.Guest) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if err := normalizeGuest(guest); err != nil {
		return err
	}
	if _, err := ownedEvent(ctx, s.eventRepo, guest.EventID, guest.OwnerID); err != nil {
		return err
	}
	now := time.Now()
	guest.CreatedAt = now
	guest.UpdatedAt = now
	if err := s.guestRepo.Create(ctx, guest); err != nil {
		return fmt.Errorf("create guest: %w", err)
	}
	return nil
}

func (s *guestService) ownedGuest(ctx context.Context, guestID, callerID string) (*domain.Guest, error) {
	guest, err := s.guestRepo.GetByID(ctx, guestID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get guest: %w", err)
	}
	if guest.OwnerID != callerID {
		return nil, domain.ErrForbidden
	}
	return guest, nil
}

func (s *guestService) GetGuest(ctx context.Context, guestID, callerID string) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()
	return s.ownedGuest(ctx, guestID, callerID)
}

func (s *guestService) ListGuests(ctx context.Context, callerID string, params domain.PaginationParams) ([]*domain.Guest, int, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guests, total, err := s.guestRepo.ListByOwnerID(ctx, callerID, params)
	if err != nil {
		return nil, 0, fmt.Errorf("list guests: %w", err)
	}
	return guests, total, nil
}

func (s *guestService) ListEventGuests(ctx context.Context, eventID, callerID string) ([]*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := ownedEvent(ctx, s.eventRepo, eventID, callerID); err != nil {
		return nil, err
	}
	guests, err := s.guestRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list event guests: %w", err)
	}
	return guests, nil
}

func (s *guestService) UpdateGuest(ctx context.Context, guestID, callerID string, update domain.GuestUpdate) (*domain.Guest, error) {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	guest, err := s.ownedGuest(ctx, guestID, callerID)
	if err != nil {
		return nil, err
	}
	update.Apply(guest)
	if err := normalizeGuest(guest); err != nil {
		return nil, err
	}
	guest.UpdatedAt = time.Now()
	if err := s.guestRepo.Update(ctx, guest); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update guest: %w", err)
	}
	return guest, nil
}

func (s *guestService) DeleteGuest(ctx context.Context, guestID, callerID string) error {
	ctx, cancel := context.WithTimeout(ctx, s.contextTimeout)
	defer cancel()

	if _, err := s.ownedGuest(ctx, guestID, callerID); err != nil {
		return err
	}
	if err := s.guestRepo.Delete(ctx, guestID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete guest: %w", err)
	}
	return nil
}
