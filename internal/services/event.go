package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"eventhubconnect/internal/domain"
)

type eventService struct {
	eventRepo domain.EventRepository
	topicRepo domain.TopicRepository
	userRepo  domain.UserRepository
	activity  domain.ActivityLogger
}

// NewEventService creates an EventService with the given repositories.
func NewEventService(
	eventRepo domain.EventRepository,
	topicRepo domain.TopicRepository,
	userRepo domain.UserRepository,
	activity domain.ActivityLogger,
) domain.EventService {
	return &eventService{
		eventRepo: eventRepo,
		topicRepo: topicRepo,
		userRepo:  userRepo,
		activity:  activity,
	}
}

func validateEventFields(title string, locationType string, capacity int) error {
	if strings.TrimSpace(title) == "" {
		return fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if !domain.ValidLocationType(locationType) {
		return fmt.Errorf("%w: unknown location type %q", domain.ErrInvalidInput, locationType)
	}
	if capacity <= 0 {
		return fmt.Errorf("%w: capacity must be a positive integer", domain.ErrInvalidInput)
	}
	return nil
}

func (s *eventService) CreateEvent(ctx context.Context, actorID string, event *domain.Event) (*domain.Event, error) {
	if err := validateEventFields(event.Title, event.LocationType, event.Capacity); err != nil {
		return nil, err
	}
	now := time.Now()
	event.Title = strings.TrimSpace(event.Title)
	event.Status = domain.EventDraft
	event.CreatedBy = actorID
	event.CreatedAt = now
	event.UpdatedAt = now
	if err := s.eventRepo.Create(ctx, event); err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	s.activity.LogActivity(ctx, actorID, domain.ActionEventCreate,
		fmt.Sprintf("created event %q", event.Title))
	return event, nil
}

func (s *eventService) GetEvent(ctx context.Context, id string) (*domain.Event, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	return event, nil
}

func (s *eventService) ListEvents(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	if filter.Status != "" && !domain.ValidEventStatus(filter.Status) {
		return nil, 0, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, filter.Status)
	}
	events, total, err := s.eventRepo.List(ctx, filter, p)
	if err != nil {
		return nil, 0, fmt.Errorf("list events: %w", err)
	}
	return events, total, nil
}

func (s *eventService) UpdateEvent(ctx context.Context, actorID, id string, update domain.EventUpdate) (*domain.Event, error) {
	if update.Title != nil && strings.TrimSpace(*update.Title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}
	if update.LocationType != nil && !domain.ValidLocationType(*update.LocationType) {
		return nil, fmt.Errorf("%w: unknown location type %q", domain.ErrInvalidInput, *update.LocationType)
	}
	if update.Capacity != nil && *update.Capacity <= 0 {
		return nil, fmt.Errorf("%w: capacity must be a positive integer", domain.ErrInvalidInput)
	}
	event, err := s.eventRepo.Update(ctx, id, update)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event: %w", err)
	}
	s.activity.LogActivity(ctx, actorID, domain.ActionEventUpdate,
		fmt.Sprintf("updated event %q", event.Title))
	return event, nil
}

func (s *eventService) UpdateStatus(ctx context.Context, actorID, id, status string) (*domain.Event, error) {
	if !domain.ValidEventStatus(status) {
		return nil, fmt.Errorf("%w: unknown status %q", domain.ErrInvalidInput, status)
	}
	event, err := s.eventRepo.UpdateStatus(ctx, id, status)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("update event status: %w", err)
	}
	s.activity.LogActivity(ctx, actorID, domain.ActionEventStatus,
		fmt.Sprintf("event %q moved to %s", event.Title, status))
	return event, nil
}

func (s *eventService) DeleteEvent(ctx context.Context, actorID, id string) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("get event: %w", err)
	}
	// Topics go with the event via ON DELETE CASCADE.
	if err := s.eventRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return domain.ErrEventNotFound
		}
		return fmt.Errorf("delete event: %w", err)
	}
	s.activity.LogActivity(ctx, actorID, domain.ActionEventDelete,
		fmt.Sprintf("deleted event %q", event.Title))
	return nil
}

func (s *eventService) AddTopic(ctx context.Context, actorID string, topic *domain.Topic) (*domain.Topic, error) {
	if strings.TrimSpace(topic.Title) == "" {
		return nil, fmt.Errorf("%w: title is required", domain.ErrInvalidInput)
	}
	if _, err := s.eventRepo.GetByID(ctx, topic.EventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	now := time.Now()
	topic.Title = strings.TrimSpace(topic.Title)
	topic.CreatedAt = now
	topic.UpdatedAt = now
	if err := s.topicRepo.Create(ctx, topic); err != nil {
		return nil, fmt.Errorf("create topic: %w", err)
	}
	return topic, nil
}

func (s *eventService) UpdateTopic(ctx context.Context, actorID, topicID string, title, description *string) (*domain.Topic, error) {
	if title != nil && strings.TrimSpace(*title) == "" {
		return nil, fmt.Errorf("%w: title cannot be empty", domain.ErrInvalidInput)
	}
	topic, err := s.topicRepo.Update(ctx, topicID, title, description)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("update topic: %w", err)
	}
	return topic, nil
}

func (s *eventService) DeleteTopic(ctx context.Context, actorID, topicID string) error {
	if err := s.topicRepo.Delete(ctx, topicID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("delete topic: %w", err)
	}
	return nil
}

func (s *eventService) ListTopicsByEvent(ctx context.Context, eventID string) ([]*domain.TopicWithSpeakers, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		if errors.Is(err, domain.ErrEventNotFound) {
			return nil, domain.ErrEventNotFound
		}
		return nil, fmt.Errorf("get event: %w", err)
	}
	topics, err := s.topicRepo.ListByEventID(ctx, eventID)
	if err != nil {
		return nil, fmt.Errorf("list topics: %w", err)
	}
	topicIDs := make([]string, len(topics))
	for i, t := range topics {
		topicIDs[i] = t.ID
	}
	speakersByTopic, err := s.topicRepo.ListSpeakersByTopicIDs(ctx, topicIDs)
	if err != nil {
		return nil, fmt.Errorf("list topic speakers: %w", err)
	}

	result := make([]*domain.TopicWithSpeakers, 0, len(topics))
	for _, t := range topics {
		speakers := speakersByTopic[t.ID]
		if speakers == nil {
			speakers = []*domain.TopicSpeaker{}
		}
		result = append(result, &domain.TopicWithSpeakers{Topic: t, Speakers: speakers})
	}
	return result, nil
}

func (s *eventService) AssignSpeaker(ctx context.Context, actorID, topicID, speakerID string) error {
	if _, err := s.topicRepo.GetByID(ctx, topicID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("get topic: %w", err)
	}
	speaker, err := s.userRepo.GetByID(ctx, speakerID)
	if err != nil {
		if errors.Is(err, domain.ErrUserNotFound) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("get speaker: %w", err)
	}
	if speaker.Role != domain.RoleSpeaker && speaker.Role != domain.RoleAdmin {
		return domain.ErrNotASpeaker
	}
	if err := s.topicRepo.AssignSpeaker(ctx, topicID, speakerID); err != nil {
		return fmt.Errorf("assign speaker: %w", err)
	}
	return nil
}

func (s *eventService) UnassignSpeaker(ctx context.Context, actorID, topicID, speakerID string) error {
	if err := s.topicRepo.UnassignSpeaker(ctx, topicID, speakerID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.ErrNotFound
		}
		return fmt.Errorf("unassign speaker: %w", err)
	}
	return nil
}
