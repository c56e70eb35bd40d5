package domain

import "errors"

// Sentinel errors shared across services and repositories. Controllers map
// these to HTTP status codes at the delivery boundary.
var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrInvalidInput = errors.New("invalid input")

	ErrUserNotFound      = errors.New("user not found")
	ErrDuplicateEmail    = errors.New("email already in use")
	ErrDuplicateUsername = errors.New("username already in use")
	ErrInvalidResetToken = errors.New("invalid or expired reset token")

	ErrEventNotFound = errors.New("event not found")
	ErrEventNotOpen  = errors.New("event is not open for registration")
	ErrNotASpeaker   = errors.New("user does not have the speaker role")

	ErrDuplicateRegistration    = errors.New("already registered for this event")
	ErrCapacityExceeded         = errors.New("event capacity exceeded")
	ErrRegistrationNotFound     = errors.New("registration not found")
	ErrAlreadyAttended          = errors.New("registration already marked attended")
	ErrAttendanceRequired       = errors.New("attendance must be marked before issuing a certificate")
	ErrCertificateAlreadyIssued = errors.New("certificate already issued for this registration")
	ErrCertificateNotFound      = errors.New("certificate not found")
)
