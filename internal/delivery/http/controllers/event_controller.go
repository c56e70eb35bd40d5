package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "eventhubconnect/internal/delivery/http/helpers"
	"eventhubconnect/internal/delivery/http/middleware"
	"eventhubconnect/internal/domain"
)

const eventDateLayout = "2006-01-02"

var timeOfDayRegexps = []string{"15:04", "15:04:05"}

func validTimeOfDay(s string) bool {
	for _, layout := range timeOfDayRegexps {
		if _, err := time.Parse(layout, s); err == nil {
			return true
		}
	}
	return false
}

// CreateEventRequest is the request body for POST /events.
type CreateEventRequest struct {
	Title        string `json:"title"`
	Description  string `json:"description"`
	EventDate    string `json:"event_date"`
	StartTime    string `json:"start_time"`
	EndTime      string `json:"end_time"`
	Venue        string `json:"venue"`
	LocationType string `json:"location_type"`
	Capacity     int    `json:"capacity"`
}

// Validate implements helpers.Validator.
func (c CreateEventRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(c.Title) == "" {
		errs = append(errs, "title is required")
	}
	if _, err := time.Parse(eventDateLayout, c.EventDate); err != nil {
		errs = append(errs, "event_date must be YYYY-MM-DD")
	}
	if c.StartTime != "" && !validTimeOfDay(c.StartTime) {
		errs = append(errs, "start_time must be HH:MM")
	}
	if c.EndTime != "" && !validTimeOfDay(c.EndTime) {
		errs = append(errs, "end_time must be HH:MM")
	}
	if !domain.ValidLocationType(c.LocationType) {
		errs = append(errs, "location_type must be one of: virtual, in_person, hybrid")
	}
	if c.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	return errs
}

// UpdateEventRequest is the request body for PATCH /events/{eventID}.
// Omitted fields are left unchanged.
type UpdateEventRequest struct {
	Title        *string `json:"title"`
	Description  *string `json:"description"`
	EventDate    *string `json:"event_date"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Venue        *string `json:"venue"`
	LocationType *string `json:"location_type"`
	Capacity     *int    `json:"capacity"`
}

// Validate implements helpers.Validator.
func (u UpdateEventRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.EventDate != nil {
		if _, err := time.Parse(eventDateLayout, *u.EventDate); err != nil {
			errs = append(errs, "event_date must be YYYY-MM-DD")
		}
	}
	if u.StartTime != nil && *u.StartTime != "" && !validTimeOfDay(*u.StartTime) {
		errs = append(errs, "start_time must be HH:MM")
	}
	if u.EndTime != nil && *u.EndTime != "" && !validTimeOfDay(*u.EndTime) {
		errs = append(errs, "end_time must be HH:MM")
	}
	if u.LocationType != nil && !domain.ValidLocationType(*u.LocationType) {
		errs = append(errs, "location_type must be one of: virtual, in_person, hybrid")
	}
	if u.Capacity != nil && *u.Capacity <= 0 {
		errs = append(errs, "capacity must be positive")
	}
	return errs
}

// UpdateEventStatusRequest is the request body for PATCH /events/{eventID}/status.
type UpdateEventStatusRequest struct {
	Status string `json:"status"`
}

// Validate implements helpers.Validator.
func (u UpdateEventStatusRequest) Validate() []string {
	if !domain.ValidEventStatus(u.Status) {
		return []string{"status must be one of: draft, published, cancelled, completed"}
	}
	return nil
}

// TopicRequest is the request body for creating and updating topics.
type TopicRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Validate implements helpers.Validator.
func (t TopicRequest) Validate() []string {
	if strings.TrimSpace(t.Title) == "" {
		return []string{"title is required"}
	}
	return nil
}

// UpdateTopicRequest is the request body for PATCH /topics/{topicID}.
type UpdateTopicRequest struct {
	Title       *string `json:"title"`
	Description *string `json:"description"`
}

// Validate implements helpers.Validator.
func (u UpdateTopicRequest) Validate() []string {
	var errs []string
	if u.Title != nil && strings.TrimSpace(*u.Title) == "" {
		errs = append(errs, "title cannot be empty")
	}
	if u.Title == nil && u.Description == nil {
		errs = append(errs, "at least one field is required")
	}
	return errs
}

// AssignSpeakerRequest is the request body for POST /topics/{topicID}/speakers.
type AssignSpeakerRequest struct {
	SpeakerID string `json:"speaker_id"`
}

// Validate implements helpers.Validator.
func (a AssignSpeakerRequest) Validate() []string {
	if !uuidRegexp.MatchString(a.SpeakerID) {
		return []string{"speaker_id must be a UUID"}
	}
	return nil
}

type EventController struct {
	Logger  *slog.Logger
	Service domain.EventService
}

func NewEventController(logger *slog.Logger, svc domain.EventService) *EventController {
	return &EventController{Logger: logger, Service: svc}
}

func (c *EventController) internalError(w http.ResponseWriter, r *http.Request, err error) {
	c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
	h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "internal error")
}

func (c *EventController) writeEventErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, domain.ErrEventNotFound), errors.Is(err, domain.ErrNotFound):
		h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "event not found")
	case errors.Is(err, domain.ErrInvalidInput):
		h.WriteJSONError(w, http.StatusBadRequest, h.ErrCodeBadRequest, err.Error())
	case errors.Is(err, domain.ErrForbidden):
		h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "forbidden")
	default:
		c.internalError(w, r, err)
	}
}

// Create godoc
// @Summary Create an event
// @Description Admin only. New events start in draft status regardless of the request.
// @Tags events
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param body body CreateEventRequest true "Event data"
// @Success 201 {object} helpers.APIResponse "data contains the created event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [post]
func (c *EventController) Create(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	var req CreateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	eventDate, _ := time.Parse(eventDateLayout, req.EventDate)
	event, err := c.Service.CreateEvent(r.Context(), actorID, &domain.Event{
		Title:        req.Title,
		Description:  req.Description,
		EventDate:    eventDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Venue:        req.Venue,
		LocationType: req.LocationType,
		Capacity:     req.Capacity,
		CreatedBy:    actorID,
	})
	if err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, event)
}

// Get godoc
// @Summary Get an event by ID
// @Tags events
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains the event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [get]
func (c *EventController) Get(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	event, err := c.Service.GetEvent(r.Context(), eventID)
	if err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// List godoc
// @Summary List events
// @Description Paginated. Admins may filter with ?status= (draft, published, cancelled, completed); everyone else only ever sees published events.
// @Tags events
// @Produce json
// @Param status query string false "Filter by status (admin only)"
// @Param page query int false "Page number (default 1)"
// @Param page_size query int false "Page size (default 20, max 100)"
// @Success 200 {object} helpers.APIResponse "data contains events and pagination"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events [get]
func (c *EventController) List(w http.ResponseWriter, r *http.Request) {
	p := h.ParsePagination(r)
	filter := domain.EventFilter{Status: r.URL.Query().Get("status")}
	if role, ok := middleware.RoleFromContext(r.Context()); !ok || role != domain.RoleAdmin {
		// Drafts and cancelled events are admin-only; everyone else gets
		// the published list no matter what the query string says.
		filter.Status = domain.EventPublished
	}
	events, total, err := c.Service.ListEvents(r.Context(), filter, p)
	if err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, map[string]any{
		"events":     events,
		"pagination": h.NewPaginationMeta(p.Page, p.PageSize, total),
	})
}

// Update godoc
// @Summary Update an event
// @Description Admin only. Partial update; only the provided fields change.
// @Tags events
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [patch]
func (c *EventController) Update(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	update := domain.EventUpdate{
		Title:        req.Title,
		Description:  req.Description,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		Venue:        req.Venue,
		LocationType: req.LocationType,
		Capacity:     req.Capacity,
	}
	if req.EventDate != nil {
		d, _ := time.Parse(eventDateLayout, *req.EventDate)
		update.EventDate = &d
	}
	event, err := c.Service.UpdateEvent(r.Context(), actorID, eventID, update)
	if err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// UpdateStatus godoc
// @Summary Change an event's status
// @Description Admin only. Moves the event between draft, published, cancelled, and completed.
// @Tags events
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param eventID path string true "Event ID (UUID)"
// @Param body body UpdateEventStatusRequest true "New status"
// @Success 200 {object} helpers.APIResponse "data contains the updated event"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/status [patch]
func (c *EventController) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req UpdateEventStatusRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	event, err := c.Service.UpdateStatus(r.Context(), actorID, eventID, req.Status)
	if err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, event)
}

// Delete godoc
// @Summary Delete an event
// @Description Admin only. Deletes the event, its topics, and its registrations.
// @Tags events
// @Produce json
// @Security SessionCookie
// @Param eventID path string true "Event ID (UUID)"
// @Success 204 "event deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID} [delete]
func (c *EventController) Delete(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	if err := c.Service.DeleteEvent(r.Context(), actorID, eventID); err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddTopic godoc
// @Summary Add a topic to an event
// @Description Admin only.
// @Tags topics
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param eventID path string true "Event ID (UUID)"
// @Param body body TopicRequest true "Topic data"
// @Success 201 {object} helpers.APIResponse "data contains the created topic"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/topics [post]
func (c *EventController) AddTopic(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	var req TopicRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	topic, err := c.Service.AddTopic(r.Context(), actorID, &domain.Topic{
		EventID:     eventID,
		Title:       req.Title,
		Description: req.Description,
	})
	if err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusCreated, topic)
}

// ListTopics godoc
// @Summary List an event's topics with assigned speakers
// @Tags topics
// @Produce json
// @Param eventID path string true "Event ID (UUID)"
// @Success 200 {object} helpers.APIResponse "data contains topics with speakers"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /events/{eventID}/topics [get]
func (c *EventController) ListTopics(w http.ResponseWriter, r *http.Request) {
	eventID, ok := pathUUID(w, r, "eventID")
	if !ok {
		return
	}
	topics, err := c.Service.ListTopicsByEvent(r.Context(), eventID)
	if err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, topics)
}

// UpdateTopic godoc
// @Summary Update a topic
// @Description Admin only. Partial update.
// @Tags topics
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param topicID path string true "Topic ID (UUID)"
// @Param body body UpdateTopicRequest true "Fields to update"
// @Success 200 {object} helpers.APIResponse "data contains the updated topic"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /topics/{topicID} [patch]
func (c *EventController) UpdateTopic(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}
	var req UpdateTopicRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	topic, err := c.Service.UpdateTopic(r.Context(), actorID, topicID, req.Title, req.Description)
	if err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, topic)
}

// DeleteTopic godoc
// @Summary Delete a topic
// @Description Admin only. Speaker assignments go with it.
// @Tags topics
// @Produce json
// @Security SessionCookie
// @Param topicID path string true "Topic ID (UUID)"
// @Success 204 "topic deleted"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /topics/{topicID} [delete]
func (c *EventController) DeleteTopic(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}
	if err := c.Service.DeleteTopic(r.Context(), actorID, topicID); err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AssignSpeaker godoc
// @Summary Assign a speaker to a topic
// @Description Admin only. The target user must hold the speaker or admin role. Idempotent.
// @Tags topics
// @Accept json
// @Produce json
// @Security SessionCookie
// @Param topicID path string true "Topic ID (UUID)"
// @Param body body AssignSpeakerRequest true "Speaker user ID"
// @Success 204 "speaker assigned"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden (user is not a speaker)"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /topics/{topicID}/speakers [post]
func (c *EventController) AssignSpeaker(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}
	var req AssignSpeakerRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	if err := c.Service.AssignSpeaker(r.Context(), actorID, topicID, req.SpeakerID); err != nil {
		switch {
		case errors.Is(err, domain.ErrNotASpeaker):
			h.WriteJSONError(w, http.StatusForbidden, h.ErrCodeForbidden, "user does not hold the speaker role")
		case errors.Is(err, domain.ErrUserNotFound):
			h.WriteJSONError(w, http.StatusNotFound, h.ErrCodeNotFound, "user not found")
		default:
			c.writeEventErr(w, r, err)
		}
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// UnassignSpeaker godoc
// @Summary Remove a speaker from a topic
// @Description Admin only.
// @Tags topics
// @Produce json
// @Security SessionCookie
// @Param topicID path string true "Topic ID (UUID)"
// @Param speakerID path string true "Speaker user ID (UUID)"
// @Success 204 "speaker unassigned"
// @Failure 400 {object} helpers.APIResponse "error.code: bad_request"
// @Failure 403 {object} helpers.APIResponse "error.code: forbidden"
// @Failure 404 {object} helpers.APIResponse "error.code: not_found"
// @Failure 500 {object} helpers.APIResponse "error.code: internal_error"
// @Router /topics/{topicID}/speakers/{speakerID} [delete]
func (c *EventController) UnassignSpeaker(w http.ResponseWriter, r *http.Request) {
	actorID, ok := middleware.UserIDFromContext(r.Context())
	if !ok {
		h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "unauthorized")
		return
	}
	topicID, ok := pathUUID(w, r, "topicID")
	if !ok {
		return
	}
	speakerID, ok := pathUUID(w, r, "speakerID")
	if !ok {
		return
	}
	if err := c.Service.UnassignSpeaker(r.Context(), actorID, topicID, speakerID); err != nil {
		c.writeEventErr(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
