package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"eventrsvp/internal/domain"
)

type fakeEventRepo struct {
	events map[string]*domain.Event
	getErr error
}

func newFakeEventRepo(events ...*domain.Event) *fakeEventRepo {
	f := &fakeEventRepo{events: map[string]*domain.Event{}}
	for _, e := range events {
		f.events[e.ID] = e
	}
	return f
}

func (f *fakeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = fmt.Sprintf("ev-%d", len(f.events)+1)
	}
	f.events[e.ID] = e
	return nil
}

func (f *fakeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	if f.getErr != nil {
		return nil, f.getErr
	}
	e, ok := f.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *e
	return &cp, nil
}

func (f *fakeEventRepo) ListByOwnerID(ctx context.Context, ownerID string, params domain.PaginationParams) ([]*domain.Event, int, error) {
	out := []*domain.Event{}
	for _, e := range f.events {
		if e.OwnerID == ownerID {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (f *fakeEventRepo) Update(ctx context.Context, e *domain.Event) error {
	if _, ok := f.events[e.ID]; !ok {
		return domain.ErrNotFound
	}
	f.events[e.ID] = e
	return nil
}

func (f *fakeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.events[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.events, id)
	return nil
}

// fakeInvitationRepo keeps one record per key, mirroring the unique constraint.
type fakeInvitationRepo struct {
	mu        sync.Mutex
	records   map[domain.InvitationKey]*domain.Invitation
	order     []domain.InvitationKey
	createErr map[string]error // by email
	upsertErr error
	writes    int
}

func newFakeInvitationRepo() *fakeInvitationRepo {
	return &fakeInvitationRepo{records: map[domain.InvitationKey]*domain.Invitation{}, createErr: map[string]error{}}
}

func (f *fakeInvitationRepo) Create(ctx context.Context, inv *domain.Invitation) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.createErr[inv.RecipientEmail]; err != nil {
		return err
	}
	f.writes++
	key := inv.Key()
	if existing, ok := f.records[key]; ok {
		existing.SentAt = inv.SentAt
		existing.UpdatedAt = inv.UpdatedAt
		*inv = *existing
		return nil
	}
	inv.ID = fmt.Sprintf("inv-%d", len(f.order)+1)
	cp := *inv
	f.records[key] = &cp
	f.order = append(f.order, key)
	return nil
}

func (f *fakeInvitationRepo) FindOne(ctx context.Context, key domain.InvitationKey) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	inv, ok := f.records[key]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *inv
	return &cp, nil
}

func (f *fakeInvitationRepo) Upsert(ctx context.Context, key domain.InvitationKey, response domain.RSVPResponse, at time.Time) (*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return nil, f.upsertErr
	}
	f.writes++
	inv, ok := f.records[key]
	if !ok {
		inv = &domain.Invitation{
			ID:             fmt.Sprintf("inv-%d", len(f.order)+1),
			EventID:        key.EventID,
			RecipientEmail: key.Email,
			InvitedGuest:   key.GuestID,
			CreatedAt:      at,
		}
		f.records[key] = inv
		f.order = append(f.order, key)
	}
	inv.RSVPResponse = response
	inv.RespondedAt = &at
	inv.UpdatedAt = at
	cp := *inv
	return &cp, nil
}

func (f *fakeInvitationRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Invitation, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := []*domain.Invitation{}
	for _, key := range f.order {
		if key.EventID == eventID {
			cp := *f.records[key]
			out = append(out, &cp)
		}
	}
	return out, nil
}

type fakeEmailService struct {
	mu           sync.Mutex
	failFor      map[string]error
	sent         []*domain.InvitationEmailData
	verification []*domain.VerificationEmailData
}

func newFakeEmailService() *fakeEmailService {
	return &fakeEmailService{failFor: map[string]error{}}
}

func (f *fakeEmailService) SendInvitation(ctx context.Context, data *domain.InvitationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[data.Email]; err != nil {
		return err
	}
	f.sent = append(f.sent, data)
	return nil
}

func (f *fakeEmailService) SendVerification(ctx context.Context, data *domain.VerificationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err := f.failFor[data.Email]; err != nil {
		return err
	}
	f.verification = append(f.verification, data)
	return nil
}

func (f *fakeEmailService) sentTo() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, len(f.sent))
	for i, d := range f.sent {
		out[i] = d.Email
	}
	return out
}

// fakeSigner produces predictable tokens bound to the key.
type fakeSigner struct{}

func (fakeSigner) Sign(key domain.InvitationKey) (string, error) {
	return "tok|" + key.EventID + "|" + key.Email + "|" + key.GuestID, nil
}

func (s fakeSigner) Verify(token string, key domain.InvitationKey) error {
	want, _ := s.Sign(key)
	if token != want {
		return fmt.Errorf("%w: mismatch", domain.ErrInvalidLink)
	}
	return nil
}

type fakeUserRepo struct {
	users     map[string]*domain.User
	createErr error
	marked    int
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[string]*domain.User{}}
}

func (f *fakeUserRepo) Create(ctx context.Context, u *domain.User) error {
	if f.createErr != nil {
		return f.createErr
	}
	if _, ok := f.users[u.Email]; ok {
		return domain.ErrDuplicateEmail
	}
	u.ID = fmt.Sprintf("user-%d", len(f.users)+1)
	f.users[u.Email] = u
	return nil
}

func (f *fakeUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	u, ok := f.users[email]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	for _, u := range f.users {
		if u.ID == id {
			return u, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (f *fakeUserRepo) MarkVerified(ctx context.Context, id string, at time.Time) error {
	u, err := f.GetByID(ctx, id)
	if err != nil {
		return err
	}
	f.marked++
	u.Verified = true
	u.VerifiedAt = &at
	return nil
}

// fakeVerificationSigner encodes the user id and email in the token itself.
type fakeVerificationSigner struct{}

func (fakeVerificationSigner) Sign(userID, email string) (string, error) {
	return "verify|" + userID + "|" + email, nil
}

func (fakeVerificationSigner) Verify(token string) (string, string, error) {
	parts := strings.Split(token, "|")
	if len(parts) != 3 || parts[0] != "verify" {
		return "", "", fmt.Errorf("%w: bad token", domain.ErrInvalidLink)
	}
	return parts[1], parts[2], nil
}

type fakeHasher struct{}

func (fakeHasher) GenerateSalt() (string, error) { return "salt", nil }

func (fakeHasher) Hash(salt, password string) (string, error) { return "h:" + salt + password, nil }

func (fakeHasher) Compare(hash, salt, password string) error {
	if hash != "h:"+salt+password {
		return errors.New("mismatch")
	}
	return nil
}

type fakeIssuer struct{}

func (fakeIssuer) Issue(userID, email string, expiry time.Duration) (string, error) {
	return "jwt-" + userID, nil
}

type fakeGuestRepo struct {
	guests     map[string]*domain.Guest
	lastParams domain.PaginationParams
}

func newFakeGuestRepo() *fakeGuestRepo {
	return &fakeGuestRepo{guests: map[string]*domain.Guest{}}
}

func (f *fakeGuestRepo) Create(ctx context.Context, g *domain.Guest) error {
	g.ID = fmt.Sprintf("g-%d", len(f.guests)+1)
	f.guests[g.ID] = g
	return nil
}

func (f *fakeGuestRepo) GetByID(ctx context.Context, id string) (*domain.Guest, error) {
	g, ok := f.guests[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *g
	return &cp, nil
}

func (f *fakeGuestRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Guest, error) {
	out := []*domain.Guest{}
	for _, g := range f.guests {
		if g.EventID == eventID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeGuestRepo) ListByOwnerID(ctx context.Context, ownerID string, params domain.PaginationParams) ([]*domain.Guest, int, error) {
	f.lastParams = params
	out := []*domain.Guest{}
	for _, g := range f.guests {
		if g.OwnerID == ownerID {
			out = append(out, g)
		}
	}
	return out, len(out), nil
}

func (f *fakeGuestRepo) Update(ctx context.Context, g *domain.Guest) error {
	if _, ok := f.guests[g.ID]; !ok {
		return domain.ErrNotFound
	}
	f.guests[g.ID] = g
	return nil
}

func (f *fakeGuestRepo) Delete(ctx context.Context, id string) error {
	if _, ok := f.guests[id]; !ok {
		return domain.ErrNotFound
	}
	delete(f.guests, id)
	return nil
}
