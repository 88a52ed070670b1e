package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaan/attendly/internal/app/models"
	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/pkg/timewindow"
)

// SummaryService defines the interface for participation summaries
type SummaryService interface {
	GetSummary(ctx context.Context, userID int64, from, to *time.Time) (*dto.SummaryResponse, error)
	GetCompliance(ctx context.Context, userID int64) (*dto.ComplianceResponse, error)
}

// summaryServiceImpl implements SummaryService
type summaryServiceImpl struct {
	participationRepo ParticipationRepo
	cycleWeekday      time.Weekday
	cycleHour         int
	cycleMinute       int
	location          *time.Location
	now               func() time.Time
	logger            zerolog.Logger
}

// NewSummaryService creates a new SummaryService. The now func is injected so
// cycle arithmetic is testable against a fixed clock.
func NewSummaryService(
	participationRepo ParticipationRepo,
	cycleWeekday time.Weekday,
	cycleHour, cycleMinute int,
	location *time.Location,
	now func() time.Time,
	logger zerolog.Logger,
) SummaryService {
	return &summaryServiceImpl{
		participationRepo: participationRepo,
		cycleWeekday:      cycleWeekday,
		cycleHour:         cycleHour,
		cycleMinute:       cycleMinute,
		location:          location,
		now:               now,
		logger:            logger,
	}
}

func points(counts map[models.ParticipationKind]int) float64 {
	total := 0.0
	for kind, n := range counts {
		total += kind.Points() * float64(n)
	}
	return total
}

func count(counts map[models.ParticipationKind]int) int {
	total := 0
	for _, n := range counts {
		total += n
	}
	return total
}

// GetSummary aggregates a user's approved participations: the count inside
// the current cycle, the all-time (or from/to-restricted) count and points,
// and the points earned this calendar month.
func (s *summaryServiceImpl) GetSummary(ctx context.Context, userID int64, from, to *time.Time) (*dto.SummaryResponse, error) {
	now := s.now()
	cycle := timewindow.CycleAt(now, s.cycleWeekday, s.cycleHour, s.cycleMinute, s.location)
	monthStart := timewindow.MonthStart(now, s.location)

	cycleCounts, err := s.participationRepo.CountApprovedByKind(ctx, userID, &cycle.Start, &cycle.End)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to count cycle participations")
		return nil, err
	}

	totalCounts, err := s.participationRepo.CountApprovedByKind(ctx, userID, from, to)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to count total participations")
		return nil, err
	}

	monthCounts, err := s.participationRepo.CountApprovedByKind(ctx, userID, &monthStart, nil)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to count month participations")
		return nil, err
	}

	return &dto.SummaryResponse{
		ThisCycleCount: count(cycleCounts),
		TotalCount:     count(totalCounts),
		TotalPoints:    points(totalCounts),
		MonthPoints:    points(monthCounts),
	}, nil
}

// GetCompliance reports whether the user has an approved participation of
// each kind inside the current cycle.
func (s *summaryServiceImpl) GetCompliance(ctx context.Context, userID int64) (*dto.ComplianceResponse, error) {
	cycle := timewindow.CycleAt(s.now(), s.cycleWeekday, s.cycleHour, s.cycleMinute, s.location)

	counts, err := s.participationRepo.CountApprovedByKind(ctx, userID, &cycle.Start, &cycle.End)
	if err != nil {
		s.logger.Error().Err(err).Int64("userId", userID).Msg("Failed to count cycle participations")
		return nil, err
	}

	return &dto.ComplianceResponse{
		CycleStart:       cycle.Start,
		CycleEnd:         cycle.End,
		HasParticipation: counts[models.KindParticipation] > 0,
		HasPreparation:   counts[models.KindPreparation] > 0,
	}, nil
}
