package services

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"eventhubconnect/internal/domain"
)

// storeEventRepo is a stateful in-memory event repository.
type storeEventRepo struct {
	nextID int
	events map[string]*domain.Event
}

func newStoreEventRepo() *storeEventRepo {
	return &storeEventRepo{events: make(map[string]*domain.Event)}
}

func (m *storeEventRepo) Create(ctx context.Context, e *domain.Event) error {
	m.nextID++
	e.ID = fmt.Sprintf("event-%d", m.nextID)
	m.events[e.ID] = e
	return nil
}

func (m *storeEventRepo) GetByID(ctx context.Context, id string) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	return e, nil
}

func (m *storeEventRepo) List(ctx context.Context, filter domain.EventFilter, p domain.PaginationParams) ([]*domain.Event, int, error) {
	out := make([]*domain.Event, 0)
	for _, e := range m.events {
		if filter.Status == "" || e.Status == filter.Status {
			out = append(out, e)
		}
	}
	return out, len(out), nil
}

func (m *storeEventRepo) Update(ctx context.Context, id string, update domain.EventUpdate) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	if update.Title != nil {
		e.Title = *update.Title
	}
	if update.Capacity != nil {
		e.Capacity = *update.Capacity
	}
	return e, nil
}

func (m *storeEventRepo) UpdateStatus(ctx context.Context, id, status string) (*domain.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, domain.ErrEventNotFound
	}
	e.Status = status
	return e, nil
}

func (m *storeEventRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.events[id]; !ok {
		return domain.ErrEventNotFound
	}
	delete(m.events, id)
	return nil
}

type fakeTopicRepo struct {
	nextID   int
	topics   map[string]*domain.Topic
	speakers map[string][]string // topicID -> speakerIDs
}

func newFakeTopicRepo() *fakeTopicRepo {
	return &fakeTopicRepo{
		topics:   make(map[string]*domain.Topic),
		speakers: make(map[string][]string),
	}
}

func (m *fakeTopicRepo) Create(ctx context.Context, topic *domain.Topic) error {
	m.nextID++
	topic.ID = fmt.Sprintf("topic-%d", m.nextID)
	m.topics[topic.ID] = topic
	return nil
}

func (m *fakeTopicRepo) GetByID(ctx context.Context, id string) (*domain.Topic, error) {
	t, ok := m.topics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return t, nil
}

func (m *fakeTopicRepo) Update(ctx context.Context, id string, title, description *string) (*domain.Topic, error) {
	t, ok := m.topics[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if title != nil {
		t.Title = *title
	}
	if description != nil {
		t.Description = *description
	}
	return t, nil
}

func (m *fakeTopicRepo) Delete(ctx context.Context, id string) error {
	if _, ok := m.topics[id]; !ok {
		return domain.ErrNotFound
	}
	delete(m.topics, id)
	return nil
}

func (m *fakeTopicRepo) ListByEventID(ctx context.Context, eventID string) ([]*domain.Topic, error) {
	out := make([]*domain.Topic, 0)
	for _, t := range m.topics {
		if t.EventID == eventID {
			out = append(out, t)
		}
	}
	return out, nil
}

func (m *fakeTopicRepo) AssignSpeaker(ctx context.Context, topicID, speakerID string) error {
	for _, id := range m.speakers[topicID] {
		if id == speakerID {
			return nil // idempotent
		}
	}
	m.speakers[topicID] = append(m.speakers[topicID], speakerID)
	return nil
}

func (m *fakeTopicRepo) UnassignSpeaker(ctx context.Context, topicID, speakerID string) error {
	ids := m.speakers[topicID]
	for i, id := range ids {
		if id == speakerID {
			m.speakers[topicID] = append(ids[:i], ids[i+1:]...)
			return nil
		}
	}
	return domain.ErrNotFound
}

func (m *fakeTopicRepo) ListSpeakersByTopicIDs(ctx context.Context, topicIDs []string) (map[string][]*domain.TopicSpeaker, error) {
	out := make(map[string][]*domain.TopicSpeaker)
	for _, topicID := range topicIDs {
		for _, speakerID := range m.speakers[topicID] {
			out[topicID] = append(out[topicID], &domain.TopicSpeaker{UserID: speakerID})
		}
	}
	return out, nil
}

func newTestEventService(events *storeEventRepo, topics *fakeTopicRepo, users *memUserRepo, activity *recordingActivity) domain.EventService {
	return NewEventService(events, topics, users, activity)
}

func TestEventService_CreateEvent(t *testing.T) {
	ctx := context.Background()

	t.Run("forces draft status", func(t *testing.T) {
		events := newStoreEventRepo()
		activity := &recordingActivity{}
		svc := newTestEventService(events, newFakeTopicRepo(), &memUserRepo{}, activity)

		created, err := svc.CreateEvent(ctx, "admin-1", &domain.Event{
			Title:        "Go Conf",
			LocationType: domain.LocationHybrid,
			Capacity:     50,
			Status:       domain.EventPublished, // must be ignored
		})
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if created.Status != domain.EventDraft {
			t.Fatalf("new events must start as draft, got %q", created.Status)
		}
		if created.CreatedBy != "admin-1" {
			t.Fatalf("created_by = %q, want admin-1", created.CreatedBy)
		}
		if !activity.has(domain.ActionEventCreate) {
			t.Fatal("expected creation to be audited")
		}
	})

	tests := []struct {
		name  string
		event *domain.Event
	}{
		{name: "empty title", event: &domain.Event{Title: "  ", LocationType: domain.LocationVirtual, Capacity: 10}},
		{name: "bad location type", event: &domain.Event{Title: "Conf", LocationType: "moon", Capacity: 10}},
		{name: "zero capacity", event: &domain.Event{Title: "Conf", LocationType: domain.LocationVirtual, Capacity: 0}},
		{name: "negative capacity", event: &domain.Event{Title: "Conf", LocationType: domain.LocationVirtual, Capacity: -5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := newTestEventService(newStoreEventRepo(), newFakeTopicRepo(), &memUserRepo{}, &recordingActivity{})
			_, err := svc.CreateEvent(ctx, "admin-1", tt.event)
			if !errors.Is(err, domain.ErrInvalidInput) {
				t.Fatalf("expected ErrInvalidInput, got %v", err)
			}
		})
	}
}

func TestEventService_ListEvents(t *testing.T) {
	ctx := context.Background()
	svc := newTestEventService(newStoreEventRepo(), newFakeTopicRepo(), &memUserRepo{}, &recordingActivity{})

	_, _, err := svc.ListEvents(ctx, domain.EventFilter{Status: "bogus"}, domain.PaginationParams{Page: 1, PageSize: 20})
	if !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestEventService_UpdateStatus(t *testing.T) {
	ctx := context.Background()
	events := newStoreEventRepo()
	activity := &recordingActivity{}
	svc := newTestEventService(events, newFakeTopicRepo(), &memUserRepo{}, activity)

	created, err := svc.CreateEvent(ctx, "admin-1", &domain.Event{
		Title: "Go Conf", LocationType: domain.LocationVirtual, Capacity: 10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	updated, err := svc.UpdateStatus(ctx, "admin-1", created.ID, domain.EventPublished)
	if err != nil {
		t.Fatalf("update status: %v", err)
	}
	if updated.Status != domain.EventPublished {
		t.Fatalf("status = %q, want published", updated.Status)
	}
	if !activity.has(domain.ActionEventStatus) {
		t.Fatal("expected status change to be audited")
	}

	if _, err := svc.UpdateStatus(ctx, "admin-1", created.ID, "archived"); !errors.Is(err, domain.ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput for unknown status, got %v", err)
	}
}

func TestEventService_DeleteEvent(t *testing.T) {
	ctx := context.Background()
	events := newStoreEventRepo()
	activity := &recordingActivity{}
	svc := newTestEventService(events, newFakeTopicRepo(), &memUserRepo{}, activity)

	created, err := svc.CreateEvent(ctx, "admin-1", &domain.Event{
		Title: "Go Conf", LocationType: domain.LocationVirtual, Capacity: 10,
	})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.DeleteEvent(ctx, "admin-1", created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if _, err := svc.GetEvent(ctx, created.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound after delete, got %v", err)
	}
	if err := svc.DeleteEvent(ctx, "admin-1", created.ID); !errors.Is(err, domain.ErrEventNotFound) {
		t.Fatalf("expected ErrEventNotFound for second delete, got %v", err)
	}
	if !activity.has(domain.ActionEventDelete) {
		t.Fatal("expected deletion to be audited")
	}
}

func TestEventService_Speakers(t *testing.T) {
	ctx := context.Background()

	setup := func(role string) (domain.EventService, *storeEventRepo, *fakeTopicRepo, string) {
		events := newStoreEventRepo()
		topics := newFakeTopicRepo()
		users := &memUserRepo{users: map[string]*domain.User{
			"sp1": {ID: "sp1", Name: "Sam", Role: role},
		}}
		svc := newTestEventService(events, topics, users, &recordingActivity{})

		created, err := svc.CreateEvent(ctx, "admin-1", &domain.Event{
			Title: "Go Conf", LocationType: domain.LocationVirtual, Capacity: 10,
		})
		if err != nil {
			t.Fatalf("create event: %v", err)
		}
		topic, err := svc.AddTopic(ctx, "admin-1", &domain.Topic{EventID: created.ID, Title: "Generics"})
		if err != nil {
			t.Fatalf("add topic: %v", err)
		}
		return svc, events, topics, topic.ID
	}

	t.Run("assign requires the speaker role", func(t *testing.T) {
		svc, _, _, topicID := setup(domain.RoleUser)
		err := svc.AssignSpeaker(ctx, "admin-1", topicID, "sp1")
		if !errors.Is(err, domain.ErrNotASpeaker) {
			t.Fatalf("expected ErrNotASpeaker, got %v", err)
		}
	})

	t.Run("assign is idempotent", func(t *testing.T) {
		svc, _, topics, topicID := setup(domain.RoleSpeaker)
		if err := svc.AssignSpeaker(ctx, "admin-1", topicID, "sp1"); err != nil {
			t.Fatalf("first assign: %v", err)
		}
		if err := svc.AssignSpeaker(ctx, "admin-1", topicID, "sp1"); err != nil {
			t.Fatalf("second assign: %v", err)
		}
		if got := len(topics.speakers[topicID]); got != 1 {
			t.Fatalf("expected a single assignment, got %d", got)
		}
	})

	t.Run("unknown speaker", func(t *testing.T) {
		svc, _, _, topicID := setup(domain.RoleSpeaker)
		err := svc.AssignSpeaker(ctx, "admin-1", topicID, "nobody")
		if !errors.Is(err, domain.ErrUserNotFound) {
			t.Fatalf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("topics list includes assigned speakers", func(t *testing.T) {
		svc, events, _, topicID := setup(domain.RoleSpeaker)
		if err := svc.AssignSpeaker(ctx, "admin-1", topicID, "sp1"); err != nil {
			t.Fatalf("assign: %v", err)
		}
		var eventID string
		for id := range events.events {
			eventID = id
		}
		got, err := svc.ListTopicsByEvent(ctx, eventID)
		if err != nil {
			t.Fatalf("list topics: %v", err)
		}
		if len(got) != 1 || len(got[0].Speakers) != 1 || got[0].Speakers[0].UserID != "sp1" {
			t.Fatalf("unexpected topics payload: %+v", got)
		}
	})
}
