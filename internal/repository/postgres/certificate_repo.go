package postgres

import (
	"context"
	"database/sql"
	"errors"

	"github.com/lib/pq"

	"eventhubconnect/internal/domain"
)

type certificateRepository struct {
	DB *sql.DB
}

func NewCertificateRepository(db *sql.DB) domain.CertificateRepository {
	return &certificateRepository{DB: db}
}

const certificateColumns = `id, registration_id, serial_number, certificate_url, speaker_signature_url, issued_at`

func scanCertificate(row *sql.Row) (*domain.Certificate, error) {
	c := &domain.Certificate{}
	var signature sql.NullString
	err := row.Scan(&c.ID, &c.RegistrationID, &c.SerialNumber, &c.CertificateURL, &signature, &c.IssuedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrCertificateNotFound
		}
		return nil, err
	}
	c.SpeakerSignatureURL = signature.String
	return c, nil
}

func (r *certificateRepository) Create(ctx context.Context, c *domain.Certificate) error {
	query := `
		INSERT INTO certificates (registration_id, serial_number, certificate_url, speaker_signature_url, issued_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, c.RegistrationID, c.SerialNumber, c.CertificateURL, c.SpeakerSignatureURL, c.IssuedAt).Scan(&c.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrCertificateAlreadyIssued
		}
		return err
	}
	return nil
}

func (r *certificateRepository) GetByID(ctx context.Context, id string) (*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE id = $1`
	return scanCertificate(r.DB.QueryRowContext(ctx, query, id))
}

func (r *certificateRepository) GetByRegistrationID(ctx context.Context, registrationID string) (*domain.Certificate, error) {
	query := `SELECT ` + certificateColumns + ` FROM certificates WHERE registration_id = $1`
	return scanCertificate(r.DB.QueryRowContext(ctx, query, registrationID))
}
