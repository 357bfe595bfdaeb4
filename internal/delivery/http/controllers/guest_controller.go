package controllers

import (
	"log/slog"
	"net/http"
	"strings"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

// CreateGuestRequest is the request body for POST /guests.
type CreateGuestRequest struct {
	EventID        string `json:"event_id"`
	Name           string `json:"name"`
	Email          string `json:"email"`
	WhatsappNumber string `json:"whatsapp_number"`
	Description    string `json:"description"`
	ImageURL       string `json:"image_url"`
}

// Validate implements Validator.
func (c CreateGuestRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(c.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(c.Email) == "" {
		errs = append(errs, "email is required")
	}
	return errs
}

// UpdateGuestRequest is the request body for PUT /guests/{guestID}. Omitted fields are unchanged.
type UpdateGuestRequest struct {
	Name           *string `json:"name"`
	Email          *string `json:"email"`
	WhatsappNumber *string `json:"whatsapp_number"`
	Description    *string `json:"description"`
	ImageURL       *string `json:"image_url"`
}

// GuestSuccessResponse is the success response envelope for endpoints returning one guest.
type GuestSuccessResponse struct {
	Data  *domain.Guest     `json:"data"`
	Error *helpers.APIError `json:"error"`
}

// ListGuestsResponse is one page of the caller's guests.
type ListGuestsResponse struct {
	Items      []*domain.Guest        `json:"items"`
	Pagination helpers.PaginationMeta `json:"pagination"`
}

// ListGuestsSuccessResponse is the success response envelope for GET /guests.
type ListGuestsSuccessResponse struct {
	Data  *ListGuestsResponse `json:"data"`
	Error *helpers.APIError   `json:"error"`
}

// GuestListSuccessResponse is the success response envelope for an event's guest list.
type GuestListSuccessResponse struct {
	Data  []*domain.Guest   `json:"data"`
	Error *helpers.APIError `json:"error"`
}

type GuestController struct {
	Logger  *slog.Logger
	Service domain.GuestService
}

func NewGuestController(logger *slog.Logger, svc domain.GuestService) *GuestController {
	return &GuestController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateGuest godoc
// @Summary Add a guest to an event
// @Description The event must be owned by the caller.
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param guest body CreateGuestRequest true "Guest data"
// @Success 201 {object} controllers.GuestSuccessResponse "data contains the created guest"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /guests [post]
func (c *GuestController) CreateGuest(w http.ResponseWriter, r *http.Request) {
	var req CreateGuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	guest := &domain.Guest{
		EventID:        strings.TrimSpace(req.EventID),
		Name:           req.Name,
		Email:          req.Email,
		WhatsappNumber: req.WhatsappNumber,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
		OwnerID:        userID,
	}
	if err := c.Service.CreateGuest(r.Context(), guest); err != nil {
		writeServiceError(c.Logger, w, r, err, "event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusCreated, guest)
}

// ListGuests godoc
// @Summary List all guests of the current user
// @Description Returns a paginated list of the caller's guests across all events, most recently created first.
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} controllers.ListGuestsSuccessResponse "data contains items and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request (malformed page or page_size)"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /guests [get]
func (c *GuestController) ListGuests(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	params, err := helpers.ParsePagination(r)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	guests, total, err := c.Service.ListGuests(r.Context(), userID, params)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "guest")
		return
	}
	if guests == nil {
		guests = []*domain.Guest{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, ListGuestsResponse{Items: guests, Pagination: helpers.NewPaginationMeta(params, total)})
}

// ListEventGuests godoc
// @Summary List the guests of an event
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} controllers.GuestListSuccessResponse "data is an array of guests"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guests [get]
func (c *GuestController) ListEventGuests(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	guests, err := c.Service.ListEventGuests(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event")
		return
	}
	if guests == nil {
		guests = []*domain.Guest{}
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guests)
}

// GetGuest godoc
// @Summary Get a guest by ID
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param guestID path string true "Guest ID (UUID)"
// @Success 200 {object} controllers.GuestSuccessResponse "data contains the guest"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /guests/{guestID} [get]
func (c *GuestController) GetGuest(w http.ResponseWriter, r *http.Request) {
	guestID := r.PathValue("guestID")
	if guestID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing guestID")
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	guest, err := c.Service.GetGuest(r.Context(), guestID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "guest")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// UpdateGuest godoc
// @Summary Update a guest
// @Tags guests
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param guestID path string true "Guest ID (UUID)"
// @Param body body UpdateGuestRequest true "Fields to update (all optional)"
// @Success 200 {object} controllers.GuestSuccessResponse "data contains the updated guest"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /guests/{guestID} [put]
func (c *GuestController) UpdateGuest(w http.ResponseWriter, r *http.Request) {
	guestID := r.PathValue("guestID")
	if guestID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing guestID")
		return
	}
	var req UpdateGuestRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	update := domain.GuestUpdate{
		Name:           req.Name,
		Email:          req.Email,
		WhatsappNumber: req.WhatsappNumber,
		Description:    req.Description,
		ImageURL:       req.ImageURL,
	}
	guest, err := c.Service.UpdateGuest(r.Context(), guestID, userID, update)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "guest")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, guest)
}

// DeleteGuest godoc
// @Summary Delete a guest
// @Tags guests
// @Produce json
// @Security BearerAuth
// @Param guestID path string true "Guest ID (UUID)"
// @Success 200 {object} controllers.DeleteSuccessResponse "data contains status"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /guests/{guestID} [delete]
func (c *GuestController) DeleteGuest(w http.ResponseWriter, r *http.Request) {
	guestID := r.PathValue("guestID")
	if guestID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing guestID")
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	if err := c.Service.DeleteGuest(r.Context(), guestID, userID); err != nil {
		writeServiceError(c.Logger, w, r, err, "guest")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, DeleteResponse{Status: "deleted"})
}
