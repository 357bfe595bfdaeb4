package controllers

import (
	"embed"
	"errors"
	"html/template"
	"log/slog"
	"net/http"
	"strings"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

//go:embed pages/*.html
var pageFS embed.FS

var responsePage = template.Must(template.ParseFS(pageFS, "pages/response.html"))

type responsePageData struct {
	OK      bool
	Title   string
	Message string
}

// SubmitRSVPRequest is the request body for POST /rsvp/{eventID}.
type SubmitRSVPRequest struct {
	Email    string `json:"email"`
	GuestID  string `json:"guest_id"`
	Response string `json:"response"`
}

// Validate implements Validator.
func (s SubmitRSVPRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.Email) == "" {
		errs = append(errs, "email is required")
	}
	if strings.TrimSpace(s.Response) == "" {
		errs = append(errs, "response is required")
	} else if _, err := domain.ParseRSVPResponse(s.Response); err != nil {
		errs = append(errs, `response must be "attending", "not attending" or "pending"`)
	}
	return errs
}

// InvitationSuccessResponse is the success response envelope for POST /rsvp/{eventID} (200).
type InvitationSuccessResponse struct {
	Data  *domain.Invitation `json:"data"`
	Error *helpers.APIError  `json:"error"`
}

// GuestResponsesSuccessResponse is the success response envelope for GET /events/{eventID}/guest-responses (200).
type GuestResponsesSuccessResponse struct {
	Data  *domain.GuestResponses `json:"data"`
	Error *helpers.APIError      `json:"error"`
}

type RSVPController struct {
	Logger  *slog.Logger
	Service domain.RSVPService
}

func NewRSVPController(logger *slog.Logger, svc domain.RSVPService) *RSVPController {
	return &RSVPController{
		Logger:  logger,
		Service: svc,
	}
}

// RespondYes godoc
// @Summary Accept an invitation
// @Description Target of the "attending" link in invitation emails. Verifies the signed token and records the response. Renders an HTML page.
// @Tags responses
// @Produce html
// @Param eventId query string true "Event ID"
// @Param email query string true "Recipient email"
// @Param guestId query string false "Invited guest ID"
// @Param token query string true "Signed link token"
// @Success 200 {string} string "confirmation page"
// @Failure 400 {string} string "invalid or expired link page"
// @Failure 500 {string} string "error page"
// @Router /response/yes [get]
func (c *RSVPController) RespondYes(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, domain.RSVPAttending)
}

// RespondNo godoc
// @Summary Decline an invitation
// @Description Target of the "not attending" link in invitation emails. Verifies the signed token and records the response. Renders an HTML page.
// @Tags responses
// @Produce html
// @Param eventId query string true "Event ID"
// @Param email query string true "Recipient email"
// @Param guestId query string false "Invited guest ID"
// @Param token query string true "Signed link token"
// @Success 200 {string} string "confirmation page"
// @Failure 400 {string} string "invalid or expired link page"
// @Failure 500 {string} string "error page"
// @Router /response/no [get]
func (c *RSVPController) RespondNo(w http.ResponseWriter, r *http.Request) {
	c.respond(w, r, domain.RSVPNotAttending)
}

func (c *RSVPController) respond(w http.ResponseWriter, r *http.Request, response domain.RSVPResponse) {
	q := r.URL.Query()
	params := domain.ResponseLinkParams{
		EventID: q.Get("eventId"),
		Email:   q.Get("email"),
		GuestID: q.Get("guestId"),
		Token:   q.Get("token"),
	}
	_, err := c.Service.RecordLinkResponse(r.Context(), params, response)
	switch {
	case err == nil:
		msg := "We've let the host know you'll be there. See you soon!"
		if response == domain.RSVPNotAttending {
			msg = "We've let the host know you can't make it. Thanks for replying."
		}
		writePage(c.Logger, w, r, http.StatusOK, responsePageData{OK: true, Title: "Thank you for your response", Message: msg})
	case errors.Is(err, domain.ErrInvalidLink), errors.Is(err, domain.ErrInvalidInput):
		writePage(c.Logger, w, r, http.StatusBadRequest, responsePageData{
			Title:   "This link is not valid",
			Message: "The response link is invalid or has expired. Please ask the host for a new invitation.",
		})
	default:
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		writePage(c.Logger, w, r, http.StatusInternalServerError, responsePageData{
			Title:   "Something went wrong",
			Message: "We could not record your response. Please try the link again later.",
		})
	}
}

// writePage renders the confirmation page shown to people following an emailed link.
func writePage(logger *slog.Logger, w http.ResponseWriter, r *http.Request, status int, data responsePageData) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := responsePage.Execute(w, data); err != nil {
		logger.ErrorContext(r.Context(), "render response page", "err", err)
	}
}

// SubmitRSVP godoc
// @Summary Record an RSVP explicitly
// @Description Sets the response of one recipient for an event owned by the caller, creating the invitation record if needed. "not_attending" is accepted as an alias.
// @Tags responses
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Param body body SubmitRSVPRequest true "Recipient and response"
// @Success 200 {object} controllers.InvitationSuccessResponse "data contains the stored invitation"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /rsvp/{eventID} [post]
func (c *RSVPController) SubmitRSVP(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	var req SubmitRSVPRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	response, err := domain.ParseRSVPResponse(req.Response)
	if err != nil {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, err.Error())
		return
	}
	inv, err := c.Service.SubmitRSVP(r.Context(), eventID, userID, req.Email, req.GuestID, response)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, inv)
}

// ListGuestResponses godoc
// @Summary List guest responses for an event
// @Description Returns every invitation record of the event with its RSVP state, plus counts per response.
// @Tags responses
// @Produce json
// @Security BearerAuth
// @Param eventID path string true "Event ID"
// @Success 200 {object} controllers.GuestResponsesSuccessResponse "data contains summary and invitations"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/guest-responses [get]
func (c *RSVPController) ListGuestResponses(w http.ResponseWriter, r *http.Request) {
	eventID := r.PathValue("eventID")
	if eventID == "" {
		helpers.WriteJSONError(w, http.StatusBadRequest, helpers.ErrCodeBadRequest, "missing eventID")
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	responses, err := c.Service.ListGuestResponses(r.Context(), eventID, userID)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event")
		return
	}
	helpers.WriteJSONSuccess(w, http.StatusOK, responses)
}
