package domain

import (
	"context"
	"time"
)

// Topic represents an agenda item owned by exactly one event.
// Topics are deleted when their event is deleted.
// swagger:model Topic
type Topic struct {
	ID          string    `json:"id"`
	EventID     string    `json:"event_id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// TopicSpeaker is a speaker assigned to a topic, with display fields joined in.
// swagger:model TopicSpeaker
type TopicSpeaker struct {
	UserID            string `json:"user_id"`
	Username          string `json:"username"`
	Name              string `json:"name"`
	SignatureImageURL string `json:"signature_image_url,omitempty"`
}

// TopicWithSpeakers bundles a topic with its assigned speakers.
type TopicWithSpeakers struct {
	Topic    *Topic          `json:"topic"`
	Speakers []*TopicSpeaker `json:"speakers"`
}

// TopicRepository defines the interface for topic and speaker-assignment storage.
type TopicRepository interface {
	Create(ctx context.Context, topic *Topic) error
	GetByID(ctx context.Context, id string) (*Topic, error)
	Update(ctx context.Context, id string, title, description *string) (*Topic, error)
	Delete(ctx context.Context, id string) error
	ListByEventID(ctx context.Context, eventID string) ([]*Topic, error)
	// AssignSpeaker is idempotent: assigning an already-assigned speaker is a no-op.
	AssignSpeaker(ctx context.Context, topicID, speakerID string) error
	UnassignSpeaker(ctx context.Context, topicID, speakerID string) error
	ListSpeakersByTopicIDs(ctx context.Context, topicIDs []string) (map[string][]*TopicSpeaker, error)
}
