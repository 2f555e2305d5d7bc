package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhub/internal/delivery/http/controllers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"
)

// NewRouter initializes the HTTP router with all application routes.
// uploadDir is served under /uploads/ for event images.
func NewRouter(
	logger *slog.Logger,
	verifier domain.TokenVerifier,
	authController *controllers.AuthController,
	eventController *controllers.EventController,
	rsvpController *controllers.RSVPController,
	commentController *controllers.CommentController,
	userController *controllers.UserController,
	uploadDir string,
) *http.ServeMux {
	mux := http.NewServeMux()
	auth := middleware.RequireAuth(verifier, logger)

	// Auth
	mux.HandleFunc("POST /auth/register", authController.Register)
	mux.HandleFunc("POST /auth/login", authController.Login)
	mux.HandleFunc("POST /auth/forgot-password", authController.ForgotPassword)
	mux.HandleFunc("POST /auth/reset-password/{token}", authController.ResetPassword)

	// Events
	mux.HandleFunc("POST /events", auth(eventController.Create))
	mux.HandleFunc("GET /events", auth(eventController.List))
	mux.HandleFunc("GET /events/{eventID}", auth(eventController.Get))
	mux.HandleFunc("PATCH /events/{eventID}", auth(eventController.Update))
	mux.HandleFunc("DELETE /events/{eventID}", auth(eventController.Delete))
	mux.HandleFunc("POST /events/{eventID}/like", auth(eventController.Like))
	mux.HandleFunc("DELETE /events/{eventID}/like", auth(eventController.Unlike))

	// RSVPs
	mux.HandleFunc("POST /events/{eventID}/rsvps", auth(rsvpController.RequestToJoin))
	mux.HandleFunc("GET /events/{eventID}/rsvps", auth(rsvpController.ListByEvent))
	mux.HandleFunc("POST /events/{eventID}/invite", auth(rsvpController.Invite))
	mux.HandleFunc("GET /rsvps", auth(rsvpController.List))
	mux.HandleFunc("GET /rsvps/me", auth(rsvpController.ListMine))
	mux.HandleFunc("PATCH /rsvps/{rsvpID}", auth(rsvpController.Decide))
	// The invitation email links here; the RSVP id is the capability.
	mux.HandleFunc("GET /rsvps/accept/{rsvpID}", rsvpController.AcceptInvite)

	// Comments
	mux.HandleFunc("POST /events/{eventID}/comments", auth(commentController.Add))
	mux.HandleFunc("GET /events/{eventID}/comments", auth(commentController.ListThread))
	mux.HandleFunc("DELETE /comments/{commentID}", auth(commentController.Delete))

	// Users
	mux.HandleFunc("GET /users", auth(userController.List))
	mux.HandleFunc("GET /users/me", auth(userController.Me))
	mux.HandleFunc("GET /users/email/{email}", auth(userController.GetByEmail))
	mux.HandleFunc("GET /users/{userID}", auth(userController.Get))

	// Uploaded event images
	mux.Handle("GET /uploads/events/", http.StripPrefix("/uploads/events/", http.FileServer(http.Dir(uploadDir))))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
