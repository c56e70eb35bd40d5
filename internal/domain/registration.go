package domain

import (
	"context"
	"time"
)

// Registration links a user to an event they intend to or did attend.
// Per (event, user) pair the record moves monotonically through
// registered -> attended -> certificate issued; cancellation is only
// possible before attendance is marked.
// swagger:model Registration
type Registration struct {
	ID                   string     `json:"id"`
	EventID              string     `json:"event_id"`
	UserID               string     `json:"user_id"`
	Attended             bool       `json:"attended"`
	AttendedAt           *time.Time `json:"attended_at,omitempty"`
	CertificateGenerated bool       `json:"certificate_generated"`
	CertificateURL       string     `json:"certificate_url,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// NewRegistration returns a new Registration. ID is typically set by the repository on create.
func NewRegistration(eventID, userID string, createdAt, updatedAt time.Time) *Registration {
	return &Registration{
		EventID:   eventID,
		UserID:    userID,
		CreatedAt: createdAt,
		UpdatedAt: updatedAt,
	}
}

// RegistrationWithEvent bundles a registration with its related event.
type RegistrationWithEvent struct {
	Registration *Registration `json:"registration"`
	Event        *Event        `json:"event"`
}

// RegistrationWithUser bundles a registration with attendee display fields.
type RegistrationWithUser struct {
	Registration *Registration `json:"registration"`
	Username     string        `json:"username"`
	Name         string        `json:"name"`
	Email        string        `json:"email"`
}

// RegistrationRepository defines storage operations for event registrations.
type RegistrationRepository interface {
	Create(ctx context.Context, reg *Registration) error
	GetByID(ctx context.Context, id string) (*Registration, error)
	GetByEventAndUser(ctx context.Context, eventID, userID string) (*Registration, error)
	CountByEventID(ctx context.Context, eventID string) (int, error)
	ListByUserID(ctx context.Context, userID string) ([]*Registration, error)
	ListByEventID(ctx context.Context, eventID string) ([]*RegistrationWithUser, error)
	Delete(ctx context.Context, id string) error
	MarkAttended(ctx context.Context, id string, attendedAt time.Time) error
	SetCertificate(ctx context.Context, id, certificateURL string) error
}

// RegistrationService drives the register -> attend -> certificate flow.
type RegistrationService interface {
	// Register registers the user for a published event. The capacity check
	// and the insert are two separate statements, so concurrent calls near
	// capacity can oversubscribe the event.
	Register(ctx context.Context, eventID, userID string) (*Registration, error)
	// CancelRegistration removes the registration if it exists and attendance
	// has not been marked yet.
	CancelRegistration(ctx context.Context, eventID, userID string) error
	// MarkAttendance records attendance on the registration. It returns
	// (false, nil) when the registration does not exist. Re-marking overwrites
	// the previous attendance timestamp.
	MarkAttendance(ctx context.Context, registrationID string) (bool, error)
	// GenerateCertificate issues the proof-of-attendance certificate for an
	// attended registration. speakerSignatureURL may be empty.
	GenerateCertificate(ctx context.Context, registrationID, speakerSignatureURL string) (*Certificate, error)
	GetRegistration(ctx context.Context, registrationID string) (*Registration, error)
	// GetCertificateByRegistration looks the certificate up by the
	// registration's primary key directly.
	GetCertificateByRegistration(ctx context.Context, registrationID string) (*Certificate, error)
	// DownloadCertificate returns the certificate record and the stored PDF bytes.
	DownloadCertificate(ctx context.Context, certificateID string) (*Certificate, []byte, error)
	ListMyRegistrations(ctx context.Context, userID string) ([]*RegistrationWithEvent, error)
	ListEventRegistrations(ctx context.Context, eventID string) ([]*RegistrationWithUser, error)
}
