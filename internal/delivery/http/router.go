package http

import (
	"log/slog"
	"net/http"

	"eventrsvp/internal/delivery/http/controllers"
	"eventrsvp/internal/delivery/http/middleware"
	"eventrsvp/internal/domain"

	httpSwagger "github.com/swaggo/http-swagger"
)

// Controllers groups the handlers mounted by NewRouter.
type Controllers struct {
	Auth       *controllers.AuthController
	Event      *controllers.EventController
	Guest      *controllers.GuestController
	Invitation *controllers.InvitationController
	RSVP       *controllers.RSVPController
	Health     *controllers.HealthController
}

// NewRouter initializes the HTTP router with all application routes.
// Organizer endpoints require a Bearer token; response links carry their own signed token.
func NewRouter(c Controllers, verifier domain.TokenVerifier, logger *slog.Logger) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Invitations and responses
	mux.HandleFunc("POST /emails", auth(c.Invitation.SendInvitations))
	mux.HandleFunc("POST /rsvp/{eventID}", auth(c.RSVP.SubmitRSVP))
	mux.HandleFunc("GET /response/yes", c.RSVP.RespondYes)
	mux.HandleFunc("GET /response/no", c.RSVP.RespondNo)
	mux.HandleFunc("GET /events/{eventID}/guest-responses", auth(c.RSVP.ListGuestResponses))

	// Events
	mux.HandleFunc("POST /events", auth(c.Event.CreateEvent))
	mux.HandleFunc("GET /events", auth(c.Event.ListEvents))
	mux.HandleFunc("GET /events/{eventID}", auth(c.Event.GetEvent))
	mux.HandleFunc("PUT /events/{eventID}", auth(c.Event.UpdateEvent))
	mux.HandleFunc("DELETE /events/{eventID}", auth(c.Event.DeleteEvent))

	// Guests
	mux.HandleFunc("POST /guests", auth(c.Guest.CreateGuest))
	mux.HandleFunc("GET /guests", auth(c.Guest.ListGuests))
	mux.HandleFunc("GET /guests/{guestID}", auth(c.Guest.GetGuest))
	mux.HandleFunc("PUT /guests/{guestID}", auth(c.Guest.UpdateGuest))
	mux.HandleFunc("DELETE /guests/{guestID}", auth(c.Guest.DeleteGuest))
	mux.HandleFunc("GET /events/{eventID}/guests", auth(c.Guest.ListEventGuests))

	// Auth
	mux.HandleFunc("POST /auth/signup", c.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", c.Auth.Login)
	mux.HandleFunc("POST /auth/send-verification-email", c.Auth.SendVerificationEmail)
	mux.HandleFunc("GET /auth/verify-email", c.Auth.VerifyEmail)
	mux.HandleFunc("GET /auth/verify", auth(c.Auth.Session))

	mux.HandleFunc("GET /healthz", c.Health.Health)

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
