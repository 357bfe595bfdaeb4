package domain

import (
	"context"
	"time"
)

// Guest is a person attached to an event.
// swagger:model Guest
type Guest struct {
	ID             string    `json:"id"`
	EventID        string    `json:"event_id"`
	Name           string    `json:"name"`
	Email          string    `json:"email"`
	WhatsappNumber string    `json:"whatsapp_number"`
	Description    string    `json:"description"`
	ImageURL       string    `json:"image_url"`
	OwnerID        string    `json:"owner_id"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GuestUpdate carries the fields of a partial guest update. Nil fields are unchanged.
type GuestUpdate struct {
	Name           *string
	Email          *string
	WhatsappNumber *string
	Description    *string
	ImageURL       *string
}

// Apply copies the non-nil fields of u onto g.
func (u GuestUpdate) Apply(g *Guest) {
	if u.Name != nil {
		g.Name = *u.Name
	}
	if u.Email != nil {
		g.Email = *u.Email
	}
	if u.WhatsappNumber != nil {
		g.WhatsappNumber = *u.WhatsappNumber
	}
	if u.Description != nil {
		g.Description = *u.Description
	}
	if u.ImageURL != nil {
		g.ImageURL = *u.ImageURL
	}
}

// GuestRepository defines storage operations for guests.
type GuestRepository interface {
	Create(ctx context.Context, guest *Guest) error
	GetByID(ctx context.Context, id string) (*Guest, error)
	ListByEventID(ctx context.Context, eventID string) ([]*Guest, error)
	ListByOwnerID(ctx context.Context, ownerID string, params PaginationParams) ([]*Guest, int, error)
	Update(ctx context.Context, guest *Guest) error
	Delete(ctx context.Context, id string) error
}

// GuestService defines owner-scoped guest management.
type GuestService interface {
	CreateGuest(ctx context.Context, guest *Guest) error
	GetGuest(ctx context.Context, guestID, callerID string) (*Guest, error)
	ListGuests(ctx context.Context, callerID string, params PaginationParams) ([]*Guest, int, error)
	ListEventGuests(ctx context.Context, eventID, callerID string) ([]*Guest, error)
	UpdateGuest(ctx context.Context, guestID, callerID string, update GuestUpdate) (*Guest, error)
	DeleteGuest(ctx context.Context, guestID, callerID string) error
}
