package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/lib/pq"

	"eventhubconnect/internal/domain"
)

type topicRepository struct {
	DB *sql.DB
}

func NewTopicRepository(db *sql.DB) domain.TopicRepository {
	return &topicRepository{DB: db}
}

const topicColumns = `id, event_id, title, description, created_at, updated_at`

func scanTopic(row *sql.Row) (*domain.Topic, error) {
	t := &domain.Topic{}
	var desc sql.NullString
	err := row.Scan(&t.ID, &t.EventID, &t.Title, &desc, &t.CreatedAt, &t.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	t.Description = desc.String
	return t, nil
}

func (r *topicRepository) Create(ctx context.Context, t *domain.Topic) error {
	query := `
		INSERT INTO topics (event_id, title, description, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`
	return r.DB.QueryRowContext(ctx, query, t.EventID, t.Title, t.Description, t.CreatedAt, t.UpdatedAt).Scan(&t.ID)
}

func (r *topicRepository) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	query := `SELECT ` + topicColumns + ` FROM topics WHERE id = $1`
	return scanTopic(r.DB.QueryRowContext(ctx, query, id))
}

func (r *topicRepository) Update(ctx context.Context, id string, title, description *string) (*domain.Topic, error) {
	setClauses := []string{"updated_at = NOW()"}
	args := []interface{}{}
	n := 1
	if title != nil {
		setClauses = append(setClauses, fmt.Sprintf("title = $%d", n))
		args = append(args, *title)
		n++
	}
	if description != nil {
		setClauses = append(setClauses, fmt.Sprintf("description = $%d", n))
		args = append(args, *description)
		n++
	}
	if n == 1 {
		return r.GetByID(ctx, id)
	}
	args = append(args, id)
	query := fmt.Sprintf(`UPDATE topics SET %s WHERE id = $%d RETURNING `+topicColumns,
		strings.Join(setClauses, ", "), n)
	return scanTopic(r.DB.QueryRowContext(ctx, query, args...))
}

func (r *topicRepository) Delete(ctx context.Context, id string) error {
	result, err := r.DB.ExecContext(ctx, `DELETE FROM topics WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *topicRepository) ListByEventID(ctx context.Context, eventID string) ([]*domain.Topic, error) {
	query := `
		SELECT ` + topicColumns + `
		FROM topics
		WHERE event_id = $1
		ORDER BY created_at
	`
	rows, err := r.DB.QueryContext(ctx, query, eventID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	topics := make([]*domain.Topic, 0)
	for rows.Next() {
		t := &domain.Topic{}
		var desc sql.NullString
		if err := rows.Scan(&t.ID, &t.EventID, &t.Title, &desc, &t.CreatedAt, &t.UpdatedAt); err != nil {
			return nil, err
		}
		t.Description = desc.String
		topics = append(topics, t)
	}
	return topics, rows.Err()
}

func (r *topicRepository) AssignSpeaker(ctx context.Context, topicID, speakerID string) error {
	query := `
		INSERT INTO topic_speakers (topic_id, speaker_id)
		VALUES ($1, $2)
		ON CONFLICT (topic_id, speaker_id) DO NOTHING
	`
	_, err := r.DB.ExecContext(ctx, query, topicID, speakerID)
	return err
}

func (r *topicRepository) UnassignSpeaker(ctx context.Context, topicID, speakerID string) error {
	result, err := r.DB.ExecContext(ctx,
		`DELETE FROM topic_speakers WHERE topic_id = $1 AND speaker_id = $2`, topicID, speakerID)
	if err != nil {
		return err
	}
	rows, _ := result.RowsAffected()
	if rows == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func (r *topicRepository) ListSpeakersByTopicIDs(ctx context.Context, topicIDs []string) (map[string][]*domain.TopicSpeaker, error) {
	speakersByTopic := make(map[string][]*domain.TopicSpeaker)
	if len(topicIDs) == 0 {
		return speakersByTopic, nil
	}
	query := `
		SELECT ts.topic_id, u.id, u.username, u.name, COALESCE(u.signature_image_url, '')
		FROM topic_speakers ts
		INNER JOIN users u ON u.id = ts.speaker_id
		WHERE ts.topic_id = ANY($1)
		ORDER BY u.name
	`
	rows, err := r.DB.QueryContext(ctx, query, pq.Array(topicIDs))
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var topicID string
		sp := &domain.TopicSpeaker{}
		if err := rows.Scan(&topicID, &sp.UserID, &sp.Username, &sp.Name, &sp.SignatureImageURL); err != nil {
			return nil, err
		}
		speakersByTopic[topicID] = append(speakersByTopic[topicID], sp)
	}
	return speakersByTopic, rows.Err()
}
