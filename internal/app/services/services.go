package services

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaan/attendly/internal/app/models"
	"github.com/kaan/attendly/internal/app/repositories"
	"github.com/kaan/attendly/internal/app/workflow"
	"github.com/kaan/attendly/internal/config"
	"github.com/kaan/attendly/internal/pkg/auth"
	"github.com/kaan/attendly/internal/pkg/timewindow"
)

// Repository interfaces consumed by the services. The concrete pgx-backed
// repositories satisfy them; tests substitute in-memory fakes.

// UserRepo provides user lookups
type UserRepo interface {
	FindByID(ctx context.Context, id int64) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindExistingIDs(ctx context.Context, ids []int64) (map[int64]bool, error)
}

// EventRepo provides event persistence
type EventRepo interface {
	CreateWithCreatorParticipation(ctx context.Context, event *models.Event, participation *models.Participation, entry *models.ScheduleEntry) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.Event, error)
	GetAll(ctx context.Context, eventType *string, from, to *string, offset uint64, limit int) ([]*models.Event, int64, error)
	Update(ctx context.Context, event *models.Event) error
	UpdateWithScheduleSync(ctx context.Context, event *models.Event) error
	DeleteCascade(ctx context.Context, id int64) error
}

// ParticipationRepo provides participation persistence
type ParticipationRepo interface {
	GetByID(ctx context.Context, id int64) (*models.Participation, error)
	GetByEventAndUser(ctx context.Context, eventID, userID int64) (*models.Participation, error)
	ListByEvent(ctx context.Context, eventID int64) ([]*models.Participation, error)
	Create(ctx context.Context, p *models.Participation) (int64, error)
	UpdateKind(ctx context.Context, id int64, kind models.ParticipationKind) error
	ResolveWithScheduleEntry(ctx context.Context, id int64, status workflow.Status, note *string, respondedAt time.Time, entry *models.ScheduleEntry) error
	DeleteWithScheduleEntry(ctx context.Context, eventID, userID int64) error
	CountApprovedByKind(ctx context.Context, userID int64, from, to *time.Time) (map[models.ParticipationKind]int, error)
}

// ScheduleEntryRepo provides reads over the derived schedule. All writes are
// transactional side effects of participation and event mutations and live on
// those repositories.
type ScheduleEntryRepo interface {
	ListForUser(ctx context.Context, userID int64, from, to *time.Time) ([]*models.ScheduleEntry, error)
}

// TaskRequestRepo provides task request persistence
type TaskRequestRepo interface {
	Create(ctx context.Context, t *models.TaskRequest) (int64, error)
	GetByID(ctx context.Context, id int64) (*models.TaskRequest, error)
	ListForUser(ctx context.Context, userID int64, offset uint64, limit int) ([]*models.TaskRequest, int64, error)
	Resolve(ctx context.Context, id int64, status workflow.Status, note *string, respondedAt time.Time) error
}

// Services holds all service instances
type Services struct {
	AuthService          AuthService
	EventService         EventService
	ParticipationService ParticipationService
	ScheduleService      ScheduleService
	SummaryService       SummaryService
	TaskRequestService   TaskRequestService
}

// NewServices creates all services from the repository container
func NewServices(
	repos *repositories.Repositories,
	jwtService *auth.JWTService,
	cfg *config.Config,
	logger zerolog.Logger,
) *Services {
	loc := cfg.Location()
	weekday, err := timewindow.ParseWeekday(cfg.Compliance.CycleWeekday)
	if err != nil {
		logger.Warn().Err(err).Str("cycleWeekday", cfg.Compliance.CycleWeekday).Msg("Invalid cycle weekday, falling back to Monday")
		weekday = time.Monday
	}
	hour, minute, err := timewindow.ParseBoundary(cfg.Compliance.CycleBoundary)
	if err != nil {
		logger.Warn().Err(err).Str("cycleBoundary", cfg.Compliance.CycleBoundary).Msg("Invalid cycle boundary, falling back to 09:00")
		hour, minute = 9, 0
	}

	participationService := NewParticipationService(
		repos.ParticipationRepository,
		repos.EventRepository,
		repos.UserRepository,
		logger.With().Str("service", "participation").Logger(),
	)

	return &Services{
		AuthService: NewAuthService(repos.UserRepository, jwtService,
			logger.With().Str("service", "auth").Logger()),
		EventService: NewEventService(repos.EventRepository, repos.ParticipationRepository,
			repos.UserRepository, loc,
			logger.With().Str("service", "event").Logger()),
		ParticipationService: participationService,
		ScheduleService: NewScheduleService(repos.ScheduleEntryRepository,
			logger.With().Str("service", "schedule").Logger()),
		SummaryService: NewSummaryService(repos.ParticipationRepository,
			weekday, hour, minute, loc, time.Now,
			logger.With().Str("service", "summary").Logger()),
		TaskRequestService: NewTaskRequestService(repos.TaskRequestRepository, repos.UserRepository,
			logger.With().Str("service", "taskrequest").Logger()),
	}
}
