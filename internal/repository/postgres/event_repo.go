package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"eventhubconnect/internal/domain"
)

type eventRepository struct {
	DB *sql.DB
}

func NewEventRepository(db *sql.DB) domain.EventRepository {
	return &eventRepository{
		DB: db,
	}
}

const eventColumns = `id, title, description, event_date, start_time, end_time, venue, location_type, capacity, status, created_by, created_at, updated_at`

func scanEvent(row *sql.Row) (*domain.Event, error) {
	e := &domain.Event{}
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime,
		&e.Venue, &e.LocationType, &e.Capacity, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrEventNotFound
		}
		return nil, err
	}
	return e, nil
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	query := `
		INSERT INTO events (title, description, event_date, start_time, end_time, venue, location_type, capacity, status, created_by, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query,
		e.Title, e.Description, e.EventDate, e.StartTime, e.EndTime, e.Venue,
		e.LocationType, e.Capacity, e.Status, e.CreatedBy, e.CreatedAt, e.UpdatedAt,
	).Scan(&e.ID)
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	query := `SELECT ` + eventColumns + ` FROM events WHERE id = $1`
	return scanEvent(r.DB.QueryRowContext(ctx, query, id))
}

func (r *eventRepository) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	where := ""
	args := []interface{}{}
	if filter.Status != "" {
		where = "WHERE status = $1"
		args = append(args, filter.Status)
	}

	var total int
	countQuery := `SELECT COUNT(*) FROM events ` + where
	if err := r.DB.QueryRowContext(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`
		SELECT %s FROM events %s
		ORDER BY event_date DESC, created_at DESC
		LIMIT $%d OFFSET $%d
	`, eventColumns, where, len(args)+1, len(args)+2)
	args = append(args, p.Limit(), p.Offset())

	rows, err := r.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	events := make([]*domain.Event, 0)
	for rows.Next() {
		e := &domain.Event{}
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.EventDate, &e.StartTime, &e.EndTime,
			&e.Venue, &e.LocationType, &e.Capacity, &e.Status, &e.CreatedBy, &e.CreatedAt, &e.UpdatedAt); err != nil {
			return nil, 0, err
		}
		events = append(events, e)
	}
	return events, total, rows.Err()
}

func (r *eventRepository) Update(ctx context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	add := func(column string, value interface{}) {
		setClauses = append(setClauses, fmt.Sprintf("%s = $%d", column, n))
		args = append(args, value)
		n++
	}
	if update.Title != nil {
		add("title", *update.Title)
	}
	if update.Description != nil {
		add("description", *update.Description)
	}
	if update.EventDate != nil {
		add("event_date", *update.EventDate)
	}
	if update.StartTime != nil {
		add("start_time", *update.StartTime)
	}
	if update.EndTime != nil {
		add("end_time", *update.EndTime)
	}
	if update.Venue != nil {
		add("venue", *update.Venue)
	}
	if update.LocationType != nil {
		add("location_type", *update.LocationType)
	}
	if update.Capacity != nil {
		add("capacity", *update.Capacity)
	}
	if n == 1 {
		// No fields to update; just fetch the current row.
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE events SET %s WHERE id = $%d RETURNING `+eventColumns,
		strings.Join(setClauses, ", "), n)
	return scanEvent(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *eventRepository) UpdateStatus(ctx context.Context, id, status string) (*domain.Event, error) {
	query := `
		UPDATE events SET status = $1, updated_at = NOW()
		WHERE id = $2
		RETURNING ` + eventColumns
	return scanEvent(r.DB.QueryRowContext(ctx, query, status, id))
}

func (r *eventRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM events WHERE id = $1`
	result, err := r.DB.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrEventNotFound
	}
	return nil
}
