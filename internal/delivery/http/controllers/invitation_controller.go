package controllers

import (
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"eventrsvp/internal/delivery/http/helpers"
	"eventrsvp/internal/domain"
)

// RecipientRequest is one addressee in SendInvitationsRequest.
type RecipientRequest struct {
	Email   string `json:"email"`
	GuestID string `json:"guest_id"`
}

// SendInvitationsRequest is the request body for POST /emails.
type SendInvitationsRequest struct {
	EventID    string             `json:"event_id"`
	Subject    string             `json:"subject"`
	Message    string             `json:"message"`
	Recipients []RecipientRequest `json:"recipients"`
}

// Validate implements Validator.
func (s SendInvitationsRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(s.EventID) == "" {
		errs = append(errs, "event_id is required")
	}
	if strings.TrimSpace(s.Subject) == "" {
		errs = append(errs, "subject is required")
	}
	if strings.TrimSpace(s.Message) == "" {
		errs = append(errs, "message is required")
	}
	if len(s.Recipients) == 0 {
		errs = append(errs, "recipients must not be empty")
	}
	for i, rcpt := range s.Recipients {
		if strings.TrimSpace(rcpt.Email) == "" {
			errs = append(errs, fmt.Sprintf("recipients[%d].email is required", i))
		}
	}
	return errs
}

// SendInvitationsSuccessResponse is the response envelope for POST /emails. On 207 and 502
// error is set as well (code delivery_failed) and data still lists every recipient.
type SendInvitationsSuccessResponse struct {
	Data  *domain.SendInvitationsResult `json:"data"`
	Error *helpers.APIError             `json:"error"`
}

type InvitationController struct {
	Logger  *slog.Logger
	Service domain.InvitationService
}

func NewInvitationController(logger *slog.Logger, svc domain.InvitationService) *InvitationController {
	return &InvitationController{
		Logger:  logger,
		Service: svc,
	}
}

// SendInvitations godoc
// @Summary Send RSVP invitations
// @Description Emails every recipient an invitation with signed accept and decline links. The whole request is rejected when any field is invalid. Delivery is reported per recipient; a recipient whose email failed gets no invitation record. The status is 200 when every email went out, 207 when some failed and 502 when none was sent.
// @Tags invitations
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body SendInvitationsRequest true "Event, subject, HTML message and recipients"
// @Success 200 {object} controllers.SendInvitationsSuccessResponse "data contains sent/failed counts and per-recipient results"
// @Success 207 {object} controllers.SendInvitationsSuccessResponse "some emails failed; error.code: delivery_failed"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthorized"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (not owner)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Failure 502 {object} controllers.SendInvitationsSuccessResponse "no email was sent; error.code: delivery_failed"
// @Router /emails [post]
func (c *InvitationController) SendInvitations(w http.ResponseWriter, r *http.Request) {
	var req SendInvitationsRequest
	if !helpers.DecodeAndValidate(w, r, &req) {
		return
	}
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	in := domain.SendInvitationsInput{
		EventID:    req.EventID,
		Subject:    req.Subject,
		Message:    req.Message,
		Recipients: make([]domain.Recipient, len(req.Recipients)),
	}
	for i, rcpt := range req.Recipients {
		in.Recipients[i] = domain.Recipient{Email: rcpt.Email, GuestID: rcpt.GuestID}
	}
	result, err := c.Service.SendInvitations(r.Context(), userID, in)
	if err != nil {
		writeServiceError(c.Logger, w, r, err, "event")
		return
	}
	writeBatchResult(w, result)
}

// writeBatchResult picks the status from the delivery counts. Any failed send makes the
// batch fail overall, while data still reports which recipients were mailed.
func writeBatchResult(w http.ResponseWriter, result *domain.SendInvitationsResult) {
	switch {
	case result.Failed == 0:
		helpers.WriteJSONSuccess(w, http.StatusOK, result)
	case result.Sent == 0:
		helpers.WriteJSONResult(w, http.StatusBadGateway, result, helpers.ErrCodeDeliveryFailed,
			fmt.Sprintf("none of %d invitations could be sent", result.Failed))
	default:
		helpers.WriteJSONResult(w, http.StatusMultiStatus, result, helpers.ErrCodeDeliveryFailed,
			fmt.Sprintf("%d of %d invitations could not be sent", result.Failed, result.Sent+result.Failed))
	}
}
