package controllers

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGuestController_CreateGuest(t *testing.T) {
	tests := []struct {
		name           string
		body           string
		fakeErr        error
		wantStatus     int
		wantBodySubstr string
	}{
		{
			name:       "success",
			body:       `{"event_id":"ev-1","name":"Ana","email":"ana@x.com","whatsapp_number":"+100"}`,
			wantStatus: http.StatusCreated,
		},
		{
			name:           "missing fields",
			body:           `{}`,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "event_id is required; name is required; email is required",
		},
		{
			name:           "invalid email from service",
			body:           `{"event_id":"ev-1","name":"Ana","email":"nope"}`,
			fakeErr:        domain.ErrInvalidInput,
			wantStatus:     http.StatusBadRequest,
			wantBodySubstr: "invalid input",
		},
		{
			name:           "event owned by someone else",
			body:           `{"event_id":"ev-1","name":"Ana","email":"ana@x.com"}`,
			fakeErr:        domain.ErrForbidden,
			wantStatus:     http.StatusForbidden,
			wantBodySubstr: "forbidden",
		},
		{
			name:           "event not found",
			body:           `{"event_id":"ev-9","name":"Ana","email":"ana@x.com"}`,
			fakeErr:        domain.ErrNotFound,
			wantStatus:     http.StatusNotFound,
			wantBodySubstr: "event not found",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGuestService{err: tt.fakeErr}
			ctrl := NewGuestController(testLogger, fake)
			req := httptest.NewRequest(http.MethodPost, "/guests", bytes.NewBufferString(tt.body))
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.CreateGuest(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusCreated {
				var guest domain.Guest
				decodeEnvelope(t, rr, &guest)
				assert.Equal(t, "g-created", guest.ID)
				assert.Equal(t, "ev-1", guest.EventID)
				assert.Equal(t, "+100", guest.WhatsappNumber)
				require.NotNil(t, fake.lastCreate)
				assert.Equal(t, "user-123", fake.lastCreate.OwnerID)
				return
			}
			envelope := decodeEnvelope(t, rr, nil)
			require.NotNil(t, envelope.Error)
			assert.Contains(t, envelope.Error.Message, tt.wantBodySubstr)
		})
	}
}

func TestGuestController_ListGuests(t *testing.T) {
	tests := []struct {
		name       string
		query      string
		fake       *fakeGuestService
		wantStatus int
		wantParams domain.PaginationParams
		wantMeta   helpers.PaginationMeta
		wantItems  int
		wantBody   string
	}{
		{
			name:       "first page with defaults",
			fake:       &fakeGuestService{guests: []*domain.Guest{{ID: "g-1", Name: "Ana"}, {ID: "g-2", Name: "Bo"}}, total: 2},
			wantStatus: http.StatusOK,
			wantParams: domain.PaginationParams{Page: 1, PageSize: 20},
			wantMeta:   helpers.PaginationMeta{Page: 1, PageSize: 20, Total: 2, TotalPages: 1},
			wantItems:  2,
		},
		{
			name:       "later page",
			query:      "?page=2&page_size=1",
			fake:       &fakeGuestService{guests: []*domain.Guest{{ID: "g-2", Name: "Bo"}}, total: 3},
			wantStatus: http.StatusOK,
			wantParams: domain.PaginationParams{Page: 2, PageSize: 1},
			wantMeta:   helpers.PaginationMeta{Page: 2, PageSize: 1, Total: 3, TotalPages: 3, HasMore: true},
			wantItems:  1,
		},
		{
			name:       "empty list is array",
			fake:       &fakeGuestService{},
			wantStatus: http.StatusOK,
			wantParams: domain.PaginationParams{Page: 1, PageSize: 20},
			wantMeta:   helpers.PaginationMeta{Page: 1, PageSize: 20},
			wantBody:   `"items":[]`,
		},
		{
			name:       "malformed page size",
			query:      "?page_size=0",
			fake:       &fakeGuestService{},
			wantStatus: http.StatusBadRequest,
			wantBody:   "page_size must be a positive integer",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := NewGuestController(testLogger, tt.fake)
			req := httptest.NewRequest(http.MethodGet, "/guests"+tt.query, nil)
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.ListGuests(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantBody != "" {
				assert.Contains(t, rr.Body.String(), tt.wantBody)
			}
			if tt.wantStatus != http.StatusOK {
				assert.Empty(t, tt.fake.lastCallerID, "service must not be called")
				return
			}
			var data ListGuestsResponse
			decodeEnvelope(t, rr, &data)
			assert.Len(t, data.Items, tt.wantItems)
			assert.Equal(t, tt.wantMeta, data.Pagination)
			assert.Equal(t, "user-123", tt.fake.lastCallerID)
			assert.Equal(t, tt.wantParams, tt.fake.lastParams)
		})
	}
}

func TestGuestController_ListEventGuests(t *testing.T) {
	tests := []struct {
		name       string
		fakeErr    error
		wantStatus int
		wantBody   string
	}{
		{name: "empty list is array", wantStatus: http.StatusOK, wantBody: `"data":[]`},
		{name: "forbidden", fakeErr: domain.ErrForbidden, wantStatus: http.StatusForbidden, wantBody: "forbidden"},
		{name: "not found", fakeErr: domain.ErrNotFound, wantStatus: http.StatusNotFound, wantBody: "event not found"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fake := &fakeGuestService{err: tt.fakeErr}
			ctrl := NewGuestController(testLogger, fake)
			req := httptest.NewRequest(http.MethodGet, "/events/ev-1/guests", nil)
			req.SetPathValue("eventID", "ev-1")
			req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
			rr := httptest.NewRecorder()

			ctrl.ListEventGuests(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.wantBody)
			assert.Equal(t, "ev-1", fake.lastID)
		})
	}
}

func TestGuestController_GetUpdateDelete(t *testing.T) {
	t.Run("get", func(t *testing.T) {
		fake := &fakeGuestService{guest: &domain.Guest{ID: "g-1", Name: "Ana"}}
		ctrl := NewGuestController(testLogger, fake)
		req := httptest.NewRequest(http.MethodGet, "/guests/g-1", nil)
		req.SetPathValue("guestID", "g-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.GetGuest(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var guest domain.Guest
		decodeEnvelope(t, rr, &guest)
		assert.Equal(t, "Ana", guest.Name)
	})

	t.Run("get missing guestID", func(t *testing.T) {
		ctrl := NewGuestController(testLogger, &fakeGuestService{})
		req := httptest.NewRequest(http.MethodGet, "/guests/", nil)
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.GetGuest(rr, req)

		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("update", func(t *testing.T) {
		fake := &fakeGuestService{}
		ctrl := NewGuestController(testLogger, fake)
		req := httptest.NewRequest(http.MethodPut, "/guests/g-1", bytes.NewBufferString(`{"name":"Ana Maria"}`))
		req.SetPathValue("guestID", "g-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.UpdateGuest(rr, req)

		require.Equal(t, http.StatusOK, rr.Code)
		var guest domain.Guest
		decodeEnvelope(t, rr, &guest)
		assert.Equal(t, "Ana Maria", guest.Name)
		assert.Nil(t, fake.lastUpdate.Email)
	})

	t.Run("delete forbidden", func(t *testing.T) {
		fake := &fakeGuestService{err: domain.ErrForbidden}
		ctrl := NewGuestController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "/guests/g-1", nil)
		req.SetPathValue("guestID", "g-1")
		req = req.WithContext(middleware.SetUserID(req.Context(), "user-123"))
		rr := httptest.NewRecorder()

		ctrl.DeleteGuest(rr, req)

		assert.Equal(t, http.StatusForbidden, rr.Code)
		assert.Equal(t, "g-1", fake.lastID)
	})

	t.Run("delete unauthenticated", func(t *testing.T) {
		fake := &fakeGuestService{}
		ctrl := NewGuestController(testLogger, fake)
		req := httptest.NewRequest(http.MethodDelete, "/guests/g-1", nil)
		req.SetPathValue("guestID", "g-1")
		rr := httptest.NewRecorder()

		ctrl.DeleteGuest(rr, req)

		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Empty(t, fake.lastID)
	})
}
