package postgres

import (
	"context"
	"database/sql"

	"eventhubconnect/internal/domain"
)

type dashboardRepository struct {
	DB *sql.DB
}

func NewDashboardRepository(db *sql.DB) domain.DashboardRepository {
	return &dashboardRepository{DB: db}
}

func (r *dashboardRepository) GetStats(ctx context.Context) (*domain.DashboardStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM events),
			(SELECT COUNT(*) FROM users),
			(SELECT COUNT(*) FROM registrations),
			(SELECT COUNT(*) FROM certificates),
			(SELECT COUNT(*) FROM registrations WHERE attended = TRUE)
	`
	stats := &domain.DashboardStats{}
	err := r.DB.QueryRowContext(ctx, query).Scan(
		&stats.TotalEvents,
		&stats.TotalUsers,
		&stats.TotalRegistrations,
		&stats.TotalCertificates,
		&stats.TotalAttended,
	)
	if err != nil {
		return nil, err
	}
	return stats, nil
}
