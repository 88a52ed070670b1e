package services

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaan/attendly/internal/app/models"
	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/app/workflow"
	"github.com/kaan/attendly/internal/pkg/apperrors"
)

// ParticipationService defines the interface for participation operations
type ParticipationService interface {
	ListParticipants(ctx context.Context, eventID int64) ([]dto.ParticipationResponse, error)
	Invite(ctx context.Context, eventID, actorID int64, req *dto.InviteRequest) (*dto.InviteResponse, error)
	Remove(ctx context.Context, eventID, userID, actorID int64) error
	Respond(ctx context.Context, participationID, actorID int64, req *dto.RespondRequest) (*dto.ParticipationResponse, error)
}

// participationServiceImpl implements ParticipationService
type participationServiceImpl struct {
	participationRepo ParticipationRepo
	eventRepo         EventRepo
	userRepo          UserRepo
	logger            zerolog.Logger
}

// NewParticipationService creates a new ParticipationService
func NewParticipationService(
	participationRepo ParticipationRepo,
	eventRepo EventRepo,
	userRepo UserRepo,
	logger zerolog.Logger,
) ParticipationService {
	return &participationServiceImpl{
		participationRepo: participationRepo,
		eventRepo:         eventRepo,
		userRepo:          userRepo,
		logger:            logger,
	}
}

// ListParticipants retrieves the participation set of an event
func (s *participationServiceImpl) ListParticipants(ctx context.Context, eventID int64) ([]dto.ParticipationResponse, error) {
	if _, err := s.eventRepo.GetByID(ctx, eventID); err != nil {
		return nil, err
	}

	participations, err := s.participationRepo.ListByEvent(ctx, eventID)
	if err != nil {
		s.logger.Error().Err(err).Int64("eventId", eventID).Msg("Failed to list participants")
		return nil, err
	}

	responses := make([]dto.ParticipationResponse, 0, len(participations))
	for _, p := range participations {
		responses = append(responses, mapParticipationToResponse(p))
	}
	return responses, nil
}

// Invite fans an invitation out over a set of users. Per user the call is
// idempotent: no row creates a PENDING one, a row of the same kind is toggled
// off together with its schedule entry, a row of a different kind has its
// kind updated in place. One user failing never aborts the rest; failed ids
// come back so the caller can retry just that subset.
func (s *participationServiceImpl) Invite(ctx context.Context, eventID, actorID int64, req *dto.InviteRequest) (*dto.InviteResponse, error) {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return nil, err
	}

	if !workflow.Allows(actorID, workflow.Resource{OwnerID: event.CreatedBy}, workflow.ActionManage) {
		return nil, apperrors.NewForbiddenError("only the event creator can manage invitations")
	}

	kind := models.ParticipationKind(req.Kind)
	if !kind.Valid() {
		return nil, apperrors.NewValidationError("unknown participation kind")
	}

	known, err := s.userRepo.FindExistingIDs(ctx, req.UserIDs)
	if err != nil {
		s.logger.Error().Err(err).Int64("eventId", eventID).Msg("Failed to resolve invitee ids")
		return nil, err
	}

	resp := &dto.InviteResponse{}
	for _, userID := range req.UserIDs {
		outcome := s.inviteOne(ctx, event, userID, actorID, kind, known[userID])
		if outcome.Action == dto.InviteActionFailed {
			resp.FailedUserIDs = append(resp.FailedUserIDs, userID)
		}
		resp.Outcomes = append(resp.Outcomes, outcome)
	}

	if len(resp.FailedUserIDs) == len(req.UserIDs) {
		return nil, &apperrors.PartialFailureError{FailedUserIDs: resp.FailedUserIDs}
	}

	s.logger.Info().
		Int64("eventId", eventID).
		Int("invitees", len(req.UserIDs)).
		Int("failed", len(resp.FailedUserIDs)).
		Msg("Invite fan-out finished")

	return resp, nil
}

func (s *participationServiceImpl) inviteOne(ctx context.Context, event *models.Event, userID, actorID int64, kind models.ParticipationKind, userExists bool) dto.InviteOutcome {
	if !userExists {
		return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionFailed, Error: "user not found"}
	}

	existing, err := s.participationRepo.GetByEventAndUser(ctx, event.ID, userID)
	if err != nil {
		s.logger.Error().Err(err).Int64("eventId", event.ID).Int64("userId", userID).
			Msg("Failed to look up participation")
		return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionFailed, Error: "lookup failed"}
	}

	switch {
	case existing == nil:
		p := &models.Participation{
			EventID:   event.ID,
			UserID:    userID,
			Kind:      kind,
			Status:    workflow.StatusPending,
			InvitedBy: actorID,
		}
		id, err := s.participationRepo.Create(ctx, p)
		if err != nil {
			// A concurrent invite landed first; the row now exists, which is
			// the state this invite wanted.
			if errors.Is(err, apperrors.ErrResourceAlreadyExists) {
				return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionInvited}
			}
			s.logger.Error().Err(err).Int64("eventId", event.ID).Int64("userId", userID).
				Msg("Failed to create participation")
			return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionFailed, Error: "create failed"}
		}
		p.ID = id
		pr := mapParticipationToResponse(p)
		return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionInvited, Participation: &pr}

	case existing.Kind == kind:
		if err := s.participationRepo.DeleteWithScheduleEntry(ctx, event.ID, userID); err != nil {
			s.logger.Error().Err(err).Int64("eventId", event.ID).Int64("userId", userID).
				Msg("Failed to toggle participation off")
			return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionFailed, Error: "remove failed"}
		}
		return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionRemoved}

	default:
		if err := s.participationRepo.UpdateKind(ctx, existing.ID, kind); err != nil {
			s.logger.Error().Err(err).Int64("participationId", existing.ID).
				Msg("Failed to update participation kind")
			return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionFailed, Error: "kind update failed"}
		}
		existing.Kind = kind
		pr := mapParticipationToResponse(existing)
		return dto.InviteOutcome{UserID: userID, Action: dto.InviteActionKindUpdated, Participation: &pr}
	}
}

// Remove withdraws a user's participation in any status together with the
// derived schedule entry. The creator may remove anyone; a user may remove
// themselves.
func (s *participationServiceImpl) Remove(ctx context.Context, eventID, userID, actorID int64) error {
	event, err := s.eventRepo.GetByID(ctx, eventID)
	if err != nil {
		return err
	}

	if actorID != userID &&
		!workflow.Allows(actorID, workflow.Resource{OwnerID: event.CreatedBy}, workflow.ActionManage) {
		return apperrors.NewForbiddenError("only the event creator or the participant can remove a participation")
	}

	existing, err := s.participationRepo.GetByEventAndUser(ctx, eventID, userID)
	if err != nil {
		return err
	}
	if existing == nil {
		return apperrors.ErrParticipationNotFound
	}

	if err := s.participationRepo.DeleteWithScheduleEntry(ctx, eventID, userID); err != nil {
		s.logger.Error().Err(err).Int64("eventId", eventID).Int64("userId", userID).
			Msg("Failed to remove participation")
		return err
	}

	s.logger.Info().Int64("eventId", eventID).Int64("userId", userID).Int64("actorId", actorID).
		Msg("Participation removed")
	return nil
}

// Respond answers a pending participation. Only the invited user may respond,
// and the capability check runs before any state inspection so outsiders
// cannot probe resolution status. APPROVED derives the schedule entry;
// REJECTED guarantees none exists.
func (s *participationServiceImpl) Respond(ctx context.Context, participationID, actorID int64, req *dto.RespondRequest) (*dto.ParticipationResponse, error) {
	p, err := s.participationRepo.GetByID(ctx, participationID)
	if err != nil {
		return nil, err
	}

	event, err := s.eventRepo.GetByID(ctx, p.EventID)
	if err != nil {
		return nil, err
	}

	decision := workflow.Decision(req.Decision)
	authorized := workflow.Allows(actorID, workflow.Resource{
		OwnerID:     event.CreatedBy,
		ResponderID: p.UserID,
	}, workflow.ActionRespond)

	next, err := workflow.Transition(p.Status, decision, authorized)
	if err != nil {
		switch {
		case errors.Is(err, workflow.ErrNotAuthorized):
			return nil, apperrors.NewForbiddenError("only the invited user can respond")
		case errors.Is(err, workflow.ErrAlreadyResolved):
			return nil, apperrors.ErrAlreadyResolved
		default:
			return nil, apperrors.NewValidationError("unknown decision")
		}
	}
	if err := workflow.ValidateNote(next, req.Note); err != nil {
		return nil, apperrors.NewValidationError(err.Error())
	}

	// The resolve and the schedule mutation commit or fail as one unit, so a
	// transient failure leaves the row PENDING and the answer retryable.
	now := time.Now()
	if err := s.participationRepo.ResolveWithScheduleEntry(ctx, participationID, next, req.Note, now, scheduleEntryFor(event, p.UserID)); err != nil {
		if !errors.Is(err, apperrors.ErrAlreadyResolved) {
			s.logger.Error().Err(err).Int64("participationId", participationID).
				Msg("Failed to resolve participation")
		}
		return nil, err
	}
	p.Status = next
	p.Note = req.Note
	p.RespondedAt = &now

	s.logger.Info().
		Int64("participationId", participationID).
		Str("status", string(next)).
		Msg("Participation resolved")

	resp := mapParticipationToResponse(p)
	return &resp, nil
}

func mapParticipationToResponse(p *models.Participation) dto.ParticipationResponse {
	resp := dto.ParticipationResponse{
		ID:          p.ID,
		EventID:     p.EventID,
		UserID:      p.UserID,
		Kind:        string(p.Kind),
		Status:      string(p.Status),
		Note:        p.Note,
		InvitedBy:   p.InvitedBy,
		RespondedAt: p.RespondedAt,
	}
	if p.User != nil {
		resp.User = &dto.UserBasicResponse{
			ID:        p.User.ID,
			Email:     p.User.Email,
			FirstName: p.User.FirstName,
			LastName:  p.User.LastName,
		}
	}
	return resp
}
