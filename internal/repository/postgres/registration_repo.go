package postgres

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/lib/pq"

	"eventhubconnect/internal/domain"
)

type registrationRepository struct {
	DB *sql.DB
}

func NewRegistrationRepository(db *sql.DB) domain.RegistrationRepository {
	return &registrationRepository{
		DB: db,
	}
}

const registrationColumns = `id, event_id, user_id, attended, attended_at, certificate_generated, certificate_url, created_at, updated_at`

func scanRegistration(row *sql.Row) (*domain.Registration, error) {
	reg := &domain.Registration{}
	var attendedAt sql.NullTime
	var certURL sql.NullString
	err := row.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Attended, &attendedAt,
		&reg.CertificateGenerated, &certURL, &reg.CreatedAt, &reg.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrRegistrationNotFound
		}
		return nil, err
	}
	if attendedAt.Valid {
		reg.AttendedAt = &attendedAt.Time
	}
	reg.CertificateURL = certURL.String
	return reg, nil
}

func (r *registrationRepository) Create(ctx context.Context, reg *domain.Registration) error {
	query := `
		INSERT INTO registrations (event_id, user_id, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	err := r.DB.QueryRowContext(ctx, query, reg.EventID, reg.UserID, reg.CreatedAt, reg.UpdatedAt).Scan(&reg.ID)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return domain.ErrDuplicateRegistration
		}
		return err
	}
	return nil
}

func (r *registrationRepository) GetByID(ctx context.Context, id string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE id = $1`
	return scanRegistration(r.DB.QueryRowContext(ctx, query, id))
}

func (r *registrationRepository) GetByEventAndUser(ctx context.Context, eventID, userID string) (*domain.Registration, error) {
	query := `SELECT ` + registrationColumns + ` FROM registrations WHERE event_id = $1 AND user_id = $2`
	return scanRegistration(r.DB.QueryRowContext(ctx, query, eventID, userID))
}

func (r *registrationRepository) CountByEventID(ctx context.Context, eventID string) (int, error) {
	var count int
	query := `SELECT COUNT(*) FROM registrations WHERE event_id = $1`
	if err := r.DB.QueryRowContext(ctx, query, eventID).Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

func (r *registrationRepository) ListByUserID(ctx context.Context, userID string) ([]*domain.Registration, error) {
	query := `
		SELECT ` + registrationColumns + `
		FROM registrations
		WHERE user_id = $1
		ORDER BY created_at DESC
	`
	rows, err := r.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	regs := make([]*domain.Registration, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		var attendedAt sql.NullTime
		var certURL sql.NullString
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Attended, &attendedAt,
			&reg.CertificateGenerated, &certURL, &reg.CreatedAt, &reg.UpdatedAt); err != nil {
			return nil, err
		}
		if attendedAt.Valid {
			reg.AttendedAt = &attendedAt.Time
		}
		reg.CertificateURL = certURL.String
		regs = append(regs, reg)
	}
	return regs, rows.Err()
}

func (r *registrationRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.RegistrationWithUser, error) {
	query := `
		SELECT r.id, r.event_id, r.user_id, r.attended, r.attended_at, r.certificate_generated, r.certificate_url, r.created_at, r.updated_at,
		       u.username, u.name, u.email
		FROM registrations r
		INNER JOIN users u ON u.id = r.user_id
		WHERE r.event_id = $1
		ORDER BY r.created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	items := make([]*domain.RegistrationWithUser, 0)
	for rows.Next() {
		reg := &domain.Registration{}
		item := &domain.RegistrationWithUser{Registration: reg}
		var attendedAt sql.NullTime
		var certURL sql.NullString
		if err := rows.Scan(&reg.ID, &reg.EventID, &reg.UserID, &reg.Attended, &attendedAt,
			&reg.CertificateGenerated, &certURL, &reg.CreatedAt, &reg.UpdatedAt,
			&item.Username, &item.Name, &item.Email); err != nil {
			return nil, err
		}
		if attendedAt.Valid {
			reg.AttendedAt = &attendedAt.Time
		}
		reg.CertificateURL = certURL.String
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *registrationRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM registrations WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func (r *registrationRepository) MarkAttended(ctx context.Context, id string, attendedAt time.Time) error {
	// Re-marking overwrites the previous timestamp on purpose.
	query := `
		UPDATE registrations
		SET attended = TRUE, attended_at = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, id, attendedAt)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}

func (r *registrationRepository) SetCertificate(ctx context.Context, id, certificateURL string) error {
	query := `
		UPDATE registrations
		SET certificate_generated = TRUE, certificate_url = $2, updated_at = NOW()
		WHERE id = $1
	`
	result, err := r.DB.ExecContext(ctx, query, id, certificateURL)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrRegistrationNotFound
	}
	return nil
}
