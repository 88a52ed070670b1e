package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaan/attendly/internal/app/models"
	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/app/workflow"
	"github.com/kaan/attendly/internal/pkg/apperrors"
	"github.com/kaan/attendly/internal/pkg/helpers"
)

const eventDateLayout = "2006-01-02"

// EventService defines the interface for event operations
type EventService interface {
	GetAllEvents(ctx context.Context, filter *dto.EventFilterRequest) (*dto.EventListResponse, error)
	GetEventByID(ctx context.Context, id int64) (*dto.EventDetailResponse, error)
	CreateEvent(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*dto.EventResponse, error)
	UpdateEvent(ctx context.Context, id, actorID int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error)
	DeleteEvent(ctx context.Context, id, actorID int64) error
}

// eventServiceImpl implements EventService
type eventServiceImpl struct {
	eventRepo         EventRepo
	participationRepo ParticipationRepo
	userRepo          UserRepo
	location          *time.Location
	logger            zerolog.Logger
}

// NewEventService creates a new EventService
func NewEventService(
	eventRepo EventRepo,
	participationRepo ParticipationRepo,
	userRepo UserRepo,
	location *time.Location,
	logger zerolog.Logger,
) EventService {
	return &eventServiceImpl{
		eventRepo:         eventRepo,
		participationRepo: participationRepo,
		userRepo:          userRepo,
		location:          location,
		logger:            logger,
	}
}

// validateWindow checks time-of-day formats and ordering. Both times are
// optional; ordering is only enforced when both are present.
func validateWindow(startTime, endTime *string) error {
	if startTime != nil {
		if _, err := helpers.ParseClock(*startTime); err != nil {
			return apperrors.NewValidationError("startTime must use the HH:MM format")
		}
	}
	if endTime != nil {
		if _, err := helpers.ParseClock(*endTime); err != nil {
			return apperrors.NewValidationError("endTime must use the HH:MM format")
		}
	}
	if startTime != nil && endTime != nil && !helpers.ClockBefore(*startTime, *endTime) {
		return apperrors.ErrInvalidTimeSpan
	}
	return nil
}

// GetAllEvents retrieves events with filtering and pagination
func (s *eventServiceImpl) GetAllEvents(ctx context.Context, filter *dto.EventFilterRequest) (*dto.EventListResponse, error) {
	offset, limit := helpers.CalculateOffsetLimit(filter.Page, filter.PageSize)

	var from, to *string
	if filter.From != nil {
		v := filter.From.Format(eventDateLayout)
		from = &v
	}
	if filter.To != nil {
		v := filter.To.Format(eventDateLayout)
		to = &v
	}

	events, total, err := s.eventRepo.GetAll(ctx, filter.EventType, from, to, offset, limit)
	if err != nil {
		s.logger.Error().Err(err).Msg("Failed to get events")
		return nil, err
	}

	responses := make([]dto.EventResponse, 0, len(events))
	for _, event := range events {
		responses = append(responses, mapEventToResponse(event))
	}

	return &dto.EventListResponse{
		Events:         responses,
		PaginationInfo: helpers.NewPaginationInfo(total, filter.Page, filter.PageSize),
	}, nil
}

// GetEventByID retrieves an event with its participation set
func (s *eventServiceImpl) GetEventByID(ctx context.Context, id int64) (*dto.EventDetailResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	participations, err := s.participationRepo.ListByEvent(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Int64("eventId", id).Msg("Failed to list participations")
		return nil, err
	}

	resp := &dto.EventDetailResponse{
		EventResponse:  mapEventToResponse(event),
		Participations: make([]dto.ParticipationResponse, 0, len(participations)),
	}
	resp.ParticipantCount = len(participations)
	for _, p := range participations {
		resp.Participations = append(resp.Participations, mapParticipationToResponse(p))
	}

	return resp, nil
}

// CreateEvent creates an event, pre-approves the creator's own participation
// and invites the initial invitee set as PENDING. The creator's schedule
// entry is derived immediately; the event, the creator participation and the
// entry land in one transaction.
func (s *eventServiceImpl) CreateEvent(ctx context.Context, creatorID int64, req *dto.CreateEventRequest) (*dto.EventResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return nil, apperrors.NewValidationError("event name is required")
	}

	eventType := models.EventType(req.EventType)
	if !eventType.Valid() {
		return nil, apperrors.NewValidationError("unknown event type")
	}

	eventDate, err := time.ParseInLocation(eventDateLayout, req.EventDate, s.location)
	if err != nil {
		return nil, apperrors.NewValidationError("eventDate must use the YYYY-MM-DD format")
	}

	if err := validateWindow(req.StartTime, req.EndTime); err != nil {
		return nil, err
	}

	event := &models.Event{
		Name:         req.Name,
		EventType:    eventType,
		EventDate:    eventDate,
		StartTime:    req.StartTime,
		EndTime:      req.EndTime,
		LocationID:   req.LocationID,
		LocationText: req.LocationText,
		Description:  req.Description,
		Capacity:     req.Capacity,
		ProjectID:    req.ProjectID,
		CreatedBy:    creatorID,
		UpdatedBy:    creatorID,
	}

	// Creator attends their own event without going through an approval round.
	creatorPart := &models.Participation{
		UserID:    creatorID,
		Kind:      models.KindParticipation,
		Status:    workflow.StatusApproved,
		InvitedBy: creatorID,
	}
	id, err := s.eventRepo.CreateWithCreatorParticipation(ctx, event, creatorPart, scheduleEntryFor(event, creatorID))
	if err != nil {
		s.logger.Error().Err(err).Str("name", req.Name).Msg("Failed to create event")
		return nil, fmt.Errorf("error creating event: %w", err)
	}
	event.ID = id

	invites := s.inviteInitialSet(ctx, event, creatorID, req.InviteeIDs)

	s.logger.Info().Int64("eventId", id).Int64("creatorId", creatorID).Msg("Event created")

	resp := mapEventToResponse(event)
	resp.InitialInvites = invites
	return &resp, nil
}

// inviteInitialSet creates PENDING participations for the creation-time
// invitees. Per-user outcomes and the failed subset come back the same way
// the standalone invite fan-out reports them; one invitee failing never
// aborts the rest. The creator is skipped, they are already approved.
func (s *eventServiceImpl) inviteInitialSet(ctx context.Context, event *models.Event, creatorID int64, inviteeIDs []int64) *dto.InviteResponse {
	if len(inviteeIDs) == 0 {
		return nil
	}

	invites := &dto.InviteResponse{}
	existing, err := s.userRepo.FindExistingIDs(ctx, inviteeIDs)
	if err != nil {
		s.logger.Error().Err(err).Int64("eventId", event.ID).Msg("Failed to look up invitees at event creation")
		existing = map[int64]bool{}
	}

	for _, userID := range inviteeIDs {
		if userID == creatorID {
			continue
		}
		outcome := dto.InviteOutcome{UserID: userID, Action: dto.InviteActionInvited}
		if !existing[userID] {
			outcome = dto.InviteOutcome{UserID: userID, Action: dto.InviteActionFailed, Error: "user not found"}
		} else {
			p := &models.Participation{
				EventID:   event.ID,
				UserID:    userID,
				Kind:      models.KindParticipation,
				Status:    workflow.StatusPending,
				InvitedBy: creatorID,
			}
			if _, err := s.participationRepo.Create(ctx, p); err != nil && !errors.Is(err, apperrors.ErrResourceAlreadyExists) {
				s.logger.Warn().Err(err).Int64("eventId", event.ID).Int64("userId", userID).
					Msg("Failed to invite user at event creation")
				outcome = dto.InviteOutcome{UserID: userID, Action: dto.InviteActionFailed, Error: "create failed"}
			}
		}
		if outcome.Action == dto.InviteActionFailed {
			invites.FailedUserIDs = append(invites.FailedUserIDs, userID)
		}
		invites.Outcomes = append(invites.Outcomes, outcome)
	}

	return invites
}

// UpdateEvent applies partial changes. Only the creator may update. When the
// date or time window changed, every derived schedule entry is re-synced.
func (s *eventServiceImpl) UpdateEvent(ctx context.Context, id, actorID int64, req *dto.UpdateEventRequest) (*dto.EventResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !workflow.Allows(actorID, workflow.Resource{OwnerID: event.CreatedBy}, workflow.ActionManage) {
		return nil, apperrors.NewForbiddenError("only the event creator can update the event")
	}

	before := *event

	if req.Name != nil {
		if strings.TrimSpace(*req.Name) == "" {
			return nil, apperrors.NewValidationError("event name is required")
		}
		event.Name = *req.Name
	}
	if req.EventType != nil {
		eventType := models.EventType(*req.EventType)
		if !eventType.Valid() {
			return nil, apperrors.NewValidationError("unknown event type")
		}
		event.EventType = eventType
	}
	if req.EventDate != nil {
		eventDate, err := time.ParseInLocation(eventDateLayout, *req.EventDate, s.location)
		if err != nil {
			return nil, apperrors.NewValidationError("eventDate must use the YYYY-MM-DD format")
		}
		event.EventDate = eventDate
	}
	if req.StartTime != nil {
		event.StartTime = req.StartTime
	}
	if req.EndTime != nil {
		event.EndTime = req.EndTime
	}
	if req.LocationID != nil {
		event.LocationID = req.LocationID
	}
	if req.LocationText != nil {
		event.LocationText = req.LocationText
	}
	if req.Description != nil {
		event.Description = req.Description
	}
	if req.Capacity != nil {
		event.Capacity = req.Capacity
	}
	if req.ProjectID != nil {
		event.ProjectID = req.ProjectID
	}

	if err := validateWindow(event.StartTime, event.EndTime); err != nil {
		return nil, err
	}

	event.UpdatedBy = actorID
	event.UpdatedAt = time.Now()

	// A window move re-points the derived entries in the same transaction as
	// the event row; an unchanged window skips the sync.
	update := s.eventRepo.Update
	if !event.SameWindow(&before) {
		update = s.eventRepo.UpdateWithScheduleSync
	}
	if err := update(ctx, event); err != nil {
		s.logger.Error().Err(err).Int64("eventId", id).Msg("Failed to update event")
		return nil, err
	}

	s.logger.Info().Int64("eventId", id).Int64("actorId", actorID).Msg("Event updated")

	resp := mapEventToResponse(event)
	return &resp, nil
}

// DeleteEvent removes an event together with its participations and derived
// schedule entries. Only the creator may delete.
func (s *eventServiceImpl) DeleteEvent(ctx context.Context, id, actorID int64) error {
	event, err := s.eventRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if !workflow.Allows(actorID, workflow.Resource{OwnerID: event.CreatedBy}, workflow.ActionManage) {
		return apperrors.NewForbiddenError("only the event creator can delete the event")
	}

	if err := s.eventRepo.DeleteCascade(ctx, id); err != nil {
		s.logger.Error().Err(err).Int64("eventId", id).Msg("Failed to delete event")
		return err
	}

	s.logger.Info().Int64("eventId", id).Int64("actorId", actorID).Msg("Event deleted")
	return nil
}

// scheduleEntryFor builds the derived entry mirroring an event's window.
func scheduleEntryFor(event *models.Event, userID int64) *models.ScheduleEntry {
	return &models.ScheduleEntry{
		UserID:    userID,
		EventID:   event.ID,
		EntryDate: event.EventDate,
		StartTime: event.StartTime,
		EndTime:   event.EndTime,
	}
}

func mapEventToResponse(event *models.Event) dto.EventResponse {
	return dto.EventResponse{
		ID:               event.ID,
		Name:             event.Name,
		EventType:        string(event.EventType),
		EventDate:        event.EventDate.Format(eventDateLayout),
		StartTime:        event.StartTime,
		EndTime:          event.EndTime,
		LocationID:       event.LocationID,
		LocationText:     event.LocationText,
		Description:      event.Description,
		Capacity:         event.Capacity,
		ProjectID:        event.ProjectID,
		CreatedBy:        event.CreatedBy,
		UpdatedBy:        event.UpdatedBy,
		ParticipantCount: len(event.Participations),
		CreatedAt:        event.CreatedAt,
		UpdatedAt:        event.UpdatedAt,
	}
}
