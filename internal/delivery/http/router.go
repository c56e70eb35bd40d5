package http

import (
	"log/slog"
	"net/http"

	httpSwagger "github.com/swaggo/http-swagger"

	"eventhubconnect/internal/delivery/http/controllers"
	"eventhubconnect/internal/delivery/http/middleware"
	"eventhubconnect/internal/domain"
)

// RouterDeps bundles everything the router needs to wire routes and middleware.
type RouterDeps struct {
	Logger   *slog.Logger
	Verifier domain.TokenVerifier
	Sessions domain.SessionRepository
	Users    domain.UserRepository

	Auth         *controllers.AuthController
	User         *controllers.UserController
	Event        *controllers.EventController
	Registration *controllers.RegistrationController
	Dashboard    *controllers.DashboardController
}

// NewRouter initializes the HTTP router with all application routes.
func NewRouter(d RouterDeps) *http.ServeMux {
	mux := http.NewServeMux()

	authed := middleware.RequireAuth(d.Verifier, d.Sessions, d.Users, d.Logger)
	maybeAuthed := middleware.OptionalAuth(d.Verifier, d.Sessions, d.Users)
	adminOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireRole(domain.RoleAdmin)(next))
	}
	staffOnly := func(next http.HandlerFunc) http.HandlerFunc {
		return authed(middleware.RequireRole(domain.RoleAdmin, domain.RoleSpeaker)(next))
	}

	// Auth
	mux.HandleFunc("POST /auth/signup", d.Auth.SignUp)
	mux.HandleFunc("POST /auth/login", d.Auth.Login)
	mux.HandleFunc("POST /auth/logout", authed(d.Auth.Logout))
	mux.HandleFunc("POST /auth/password-reset/request", d.Auth.RequestPasswordReset)
	mux.HandleFunc("POST /auth/password-reset/confirm", d.Auth.ResetPassword)

	// Users
	mux.HandleFunc("GET /users/me", authed(d.User.Me))
	mux.HandleFunc("PATCH /users/me", authed(d.User.UpdateMe))
	mux.HandleFunc("PATCH /users/{userID}/role", adminOnly(d.User.ChangeRole))

	// Events
	mux.HandleFunc("GET /events", maybeAuthed(d.Event.List))
	mux.HandleFunc("GET /events/{eventID}", d.Event.Get)
	mux.HandleFunc("POST /events", adminOnly(d.Event.Create))
	mux.HandleFunc("PATCH /events/{eventID}", adminOnly(d.Event.Update))
	mux.HandleFunc("PATCH /events/{eventID}/status", adminOnly(d.Event.UpdateStatus))
	mux.HandleFunc("DELETE /events/{eventID}", adminOnly(d.Event.Delete))

	// Topics and speakers
	mux.HandleFunc("GET /events/{eventID}/topics", d.Event.ListTopics)
	mux.HandleFunc("POST /events/{eventID}/topics", adminOnly(d.Event.AddTopic))
	mux.HandleFunc("PATCH /topics/{topicID}", adminOnly(d.Event.UpdateTopic))
	mux.HandleFunc("DELETE /topics/{topicID}", adminOnly(d.Event.DeleteTopic))
	mux.HandleFunc("POST /topics/{topicID}/speakers", adminOnly(d.Event.AssignSpeaker))
	mux.HandleFunc("DELETE /topics/{topicID}/speakers/{speakerID}", adminOnly(d.Event.UnassignSpeaker))

	// Registrations
	mux.HandleFunc("POST /events/{eventID}/register", authed(d.Registration.Register))
	mux.HandleFunc("DELETE /events/{eventID}/register", authed(d.Registration.Cancel))
	mux.HandleFunc("GET /registrations/me", authed(d.Registration.ListMine))
	mux.HandleFunc("GET /events/{eventID}/registrations", staffOnly(d.Registration.ListForEvent))
	mux.HandleFunc("POST /registrations/{registrationID}/attendance", staffOnly(d.Registration.MarkAttendance))

	// Certificates
	mux.HandleFunc("POST /registrations/{registrationID}/certificate", staffOnly(d.Registration.GenerateCertificate))
	mux.HandleFunc("GET /registrations/{registrationID}/certificate", authed(d.Registration.GetCertificate))
	mux.HandleFunc("GET /certificates/{certificateID}/download", authed(d.Registration.DownloadCertificate))

	// Dashboard
	mux.HandleFunc("GET /dashboard/stats", adminOnly(d.Dashboard.Stats))
	mux.HandleFunc("GET /dashboard/activity", adminOnly(d.Dashboard.RecentActivity))

	// Swagger
	mux.Handle("/swagger/", httpSwagger.WrapHandler)

	return mux
}
