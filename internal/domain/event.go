package domain

import (
	"context"
	"time"
)

// Event location types.
const (
	LocationVirtual  = "virtual"
	LocationInPerson = "in_person"
	LocationHybrid   = "hybrid"
)

// Event lifecycle statuses.
const (
	EventDraft     = "draft"
	EventPublished = "published"
	EventCancelled = "cancelled"
	EventCompleted = "completed"
)

// Event represents a managed event with a registration capacity.
// swagger:model Event
type Event struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Description  string    `json:"description"`
	EventDate    time.Time `json:"event_date"`
	StartTime    string    `json:"start_time"`
	EndTime      string    `json:"end_time"`
	Venue        string    `json:"venue"`
	LocationType string    `json:"location_type"`
	Capacity     int       `json:"capacity"`
	Status       string    `json:"status"`
	CreatedBy    string    `json:"created_by"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ValidLocationType reports whether s is a known location type.
func ValidLocationType(s string) bool {
	return s == LocationVirtual || s == LocationInPerson || s == LocationHybrid
}

// ValidEventStatus reports whether s is a known event status.
func ValidEventStatus(s string) bool {
	return s == EventDraft || s == EventPublished || s == EventCancelled || s == EventCompleted
}

// EventUpdate carries mutable event fields. Nil pointers mean "leave unchanged".
type EventUpdate struct {
	Title        *string
	Description  *string
	EventDate    *time.Time
	StartTime    *string
	EndTime      *string
	Venue        *string
	LocationType *string
	Capacity     *int
}

// EventFilter narrows event list queries.
type EventFilter struct {
	Status string // empty means all statuses
}

// EventRepository defines the interface for event storage.
type EventRepository interface {
	Create(ctx context.Context, event *Event) error
	GetByID(ctx context.Context, id string) (*Event, error)
	List(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	Update(ctx context.Context, id string, update EventUpdate) (*Event, error)
	UpdateStatus(ctx context.Context, id, status string) (*Event, error)
	Delete(ctx context.Context, id string) error
}

// EventService defines the business logic for event management.
type EventService interface {
	CreateEvent(ctx context.Context, actorID string, event *Event) (*Event, error)
	GetEvent(ctx context.Context, id string) (*Event, error)
	ListEvents(ctx context.Context, filter EventFilter, p PaginationParams) ([]*Event, int, error)
	UpdateEvent(ctx context.Context, actorID, id string, update EventUpdate) (*Event, error)
	UpdateStatus(ctx context.Context, actorID, id, status string) (*Event, error)
	DeleteEvent(ctx context.Context, actorID, id string) error

	AddTopic(ctx context.Context, actorID string, topic *Topic) (*Topic, error)
	UpdateTopic(ctx context.Context, actorID, topicID string, title, description *string) (*Topic, error)
	DeleteTopic(ctx context.Context, actorID, topicID string) error
	ListTopicsByEvent(ctx context.Context, eventID string) ([]*TopicWithSpeakers, error)
	AssignSpeaker(ctx context.Context, actorID, topicID, speakerID string) error
	UnassignSpeaker(ctx context.Context, actorID, topicID, speakerID string) error
}
