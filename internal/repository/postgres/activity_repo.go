package postgres

import (
	"context"
	"database/sql"

	"eventhubconnect/internal/domain"
)

type activityRepository struct {
	DB *sql.DB
}

func NewActivityRepository(db *sql.DB) domain.ActivityRepository {
	return &activityRepository{DB: db}
}

func (r *activityRepository) Insert(ctx context.Context, userID, action, description string) error {
	query := `
		INSERT INTO activity_log (user_id, action, description)
		VALUES ($1, $2, $3)
	`
	_, err := r.DB.ExecContext(ctx, query, userID, action, description)
	return err
}

func (r *activityRepository) ListRecent(ctx context.Context, limit int) ([]*domain.ActivityEntry, error) {
	query := `
		SELECT a.id, a.user_id, a.action, a.description, a.created_at, u.username, u.name
		FROM activity_log a
		INNER JOIN users u ON u.id = a.user_id
		ORDER BY a.created_at DESC, a.id DESC
		LIMIT $1
	`
	rows, err := r.DB.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]*domain.ActivityEntry, 0)
	for rows.Next() {
		e := &domain.ActivityEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.Action, &e.Description, &e.CreatedAt, &e.Username, &e.Name); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}
