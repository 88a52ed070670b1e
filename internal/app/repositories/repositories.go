package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories holds all repository instances
type Repositories struct {
	UserRepository          *UserRepository
	EventRepository         *EventRepository
	ParticipationRepository *ParticipationRepository
	ScheduleEntryRepository *ScheduleEntryRepository
	TaskRequestRepository   *TaskRequestRepository
}

// NewRepositories creates all repositories with the shared connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		UserRepository:          NewUserRepository(db),
		EventRepository:         NewEventRepository(db),
		ParticipationRepository: NewParticipationRepository(db),
		ScheduleEntryRepository: NewScheduleEntryRepository(db),
		TaskRequestRepository:   NewTaskRequestRepository(db),
	}
}
