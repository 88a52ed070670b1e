package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaan/attendly/internal/app/models/dto"
)

// ScheduleService defines the interface for reading derived schedules
type ScheduleService interface {
	GetUserSchedule(ctx context.Context, userID int64, from, to *time.Time) (*dto.ScheduleResponse, error)
}

// scheduleServiceImpl implements ScheduleService
type scheduleServiceImpl struct {
	scheduleRepo ScheduleEntryRepo
	logger       zerolog.Logger
}

// NewScheduleService creates a new ScheduleService
func NewScheduleService(scheduleRepo ScheduleEntryRepo, logger zerolog.Logger) ScheduleService {
	return &scheduleServiceImpl{scheduleRepo: scheduleRepo, logger: logger}
}

// GetUserSchedule retrieves a user's derived schedule entries, optionally
// restricted to a date range.
func (s *scheduleServiceImpl) GetUserSchedule(ctx context.Context, userID int64, from, to *time.Time) (*dto.ScheduleResponse, error) {
	entries, err := s.scheduleRepo.ListForUser(ctx, userID, from, to)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to list schedule entries")
		return nil, err
	}

	resp := &dto.ScheduleResponse{Entries: make([]dto.ScheduleEntryResponse, 0, len(entries))}
	for _, entry := range entries {
		item := dto.ScheduleEntryResponse{
			ID:        entry.ID,
			EventID:   entry.EventID,
			EntryDate: entry.EntryDate.Format(eventDateLayout),
			StartTime: entry.StartTime,
			EndTime:   entry.EndTime,
		}
		if entry.Event != nil {
			item.EventName = entry.Event.Name
		}
		resp.Entries = append(resp.Entries, item)
	}
	return resp, nil
}
