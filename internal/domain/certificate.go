package domain

import (
	"context"
	"time"
)

// Certificate is an issued proof-of-attendance artifact, one per registration.
// swagger:model Certificate
type Certificate struct {
	ID                  string    `json:"id"`
	RegistrationID      string    `json:"registration_id"`
	SerialNumber        string    `json:"serial_number"`
	CertificateURL      string    `json:"certificate_url"`
	SpeakerSignatureURL string    `json:"speaker_signature_url,omitempty"`
	IssuedAt            time.Time `json:"issued_at"`
}

// CertificateData is everything the renderer needs to produce the artifact.
type CertificateData struct {
	SerialNumber        string
	AttendeeName        string
	EventTitle          string
	EventDate           time.Time
	SpeakerSignatureURL string
	IssuedAt            time.Time
}

// CertificateRenderer renders a certificate artifact and returns the PDF bytes.
type CertificateRenderer interface {
	Render(data *CertificateData) ([]byte, error)
}

// CertificateStore persists rendered artifacts and returns a stable URL/path.
type CertificateStore interface {
	Save(ctx context.Context, fileName string, pdf []byte) (url string, err error)
	Open(ctx context.Context, url string) ([]byte, error)
}

// CertificateRepository defines storage operations for certificate records.
type CertificateRepository interface {
	Create(ctx context.Context, cert *Certificate) error
	GetByID(ctx context.Context, id string) (*Certificate, error)
	GetByRegistrationID(ctx context.Context, registrationID string) (*Certificate, error)
}
