package services

import (
	"context"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/kaan/attendly/internal/app/models"
	"github.com/kaan/attendly/internal/app/workflow"
	"github.com/kaan/attendly/internal/pkg/apperrors"
	"github.com/kaan/attendly/internal/pkg/helpers"
)

// In-memory repository fakes. They mirror the SQL semantics closely enough
// for service behavior: unique (event,user) pairs, idempotent deletes, the
// PENDING re-check on resolve.

type fakeUserRepo struct {
	users map[int64]*models.User
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: make(map[int64]*models.User)}
}

func (f *fakeUserRepo) add(id int64, email string) *models.User {
	u := &models.User{ID: id, Email: email, FirstName: "User", LastName: email}
	f.users[id] = u
	return u
}

func (f *fakeUserRepo) FindByID(_ context.Context, id int64) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserRepo) FindExistingIDs(_ context.Context, ids []int64) (map[int64]bool, error) {
	found := make(map[int64]bool)
	for _, id := range ids {
		if _, ok := f.users[id]; ok {
			found[id] = true
		}
	}
	return found, nil
}

type fakeScheduleRepo struct {
	entries map[[2]int64]*models.ScheduleEntry // keyed by (userID, eventID)
	events  *fakeEventRepo
	nextID  int64

	// upsertErr makes the next entry write fail, standing in for a database
	// error inside the surrounding transaction.
	upsertErr error
}

func newFakeScheduleRepo() *fakeScheduleRepo {
	return &fakeScheduleRepo{entries: make(map[[2]int64]*models.ScheduleEntry)}
}

func (f *fakeScheduleRepo) upsert(entry *models.ScheduleEntry) error {
	if f.upsertErr != nil {
		return f.upsertErr
	}
	key := [2]int64{entry.UserID, entry.EventID}
	if existing, ok := f.entries[key]; ok {
		existing.EntryDate = entry.EntryDate
		existing.StartTime = entry.StartTime
		existing.EndTime = entry.EndTime
		return nil
	}
	f.nextID++
	stored := *entry
	stored.ID = f.nextID
	f.entries[key] = &stored
	return nil
}

func (f *fakeScheduleRepo) syncEventWindow(event *models.Event) {
	for _, entry := range f.entries {
		if entry.EventID == event.ID {
			entry.EntryDate = event.EventDate
			entry.StartTime = event.StartTime
			entry.EndTime = event.EndTime
		}
	}
}

func (f *fakeScheduleRepo) ExistsForEventAndUser(_ context.Context, eventID, userID int64) (bool, error) {
	_, ok := f.entries[[2]int64{userID, eventID}]
	return ok, nil
}

func (f *fakeScheduleRepo) ListForUser(_ context.Context, userID int64, from, to *time.Time) ([]*models.ScheduleEntry, error) {
	var out []*models.ScheduleEntry
	for _, entry := range f.entries {
		if entry.UserID != userID {
			continue
		}
		if from != nil && entry.EntryDate.Before(*from) {
			continue
		}
		if to != nil && entry.EntryDate.After(*to) {
			continue
		}
		copied := *entry
		if f.events != nil {
			if ev, ok := f.events.events[entry.EventID]; ok {
				copied.Event = &models.Event{Name: ev.Name}
			}
		}
		out = append(out, &copied)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].EntryDate.Before(out[j].EntryDate) })
	return out, nil
}

type fakeParticipationRepo struct {
	rows     map[int64]*models.Participation
	nextID   int64
	schedule *fakeScheduleRepo
	events   *fakeEventRepo
}

func newFakeParticipationRepo(schedule *fakeScheduleRepo) *fakeParticipationRepo {
	return &fakeParticipationRepo{rows: make(map[int64]*models.Participation), schedule: schedule}
}

func (f *fakeParticipationRepo) GetByID(_ context.Context, id int64) (*models.Participation, error) {
	p, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrParticipationNotFound
	}
	copied := *p
	return &copied, nil
}

func (f *fakeParticipationRepo) GetByEventAndUser(_ context.Context, eventID, userID int64) (*models.Participation, error) {
	for _, p := range f.rows {
		if p.EventID == eventID && p.UserID == userID {
			copied := *p
			return &copied, nil
		}
	}
	return nil, nil
}

func (f *fakeParticipationRepo) ListByEvent(_ context.Context, eventID int64) ([]*models.Participation, error) {
	var out []*models.Participation
	for _, p := range f.rows {
		if p.EventID == eventID {
			copied := *p
			out = append(out, &copied)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeParticipationRepo) Create(_ context.Context, p *models.Participation) (int64, error) {
	for _, existing := range f.rows {
		if existing.EventID == p.EventID && existing.UserID == p.UserID {
			return 0, apperrors.ErrResourceAlreadyExists
		}
	}
	f.nextID++
	stored := *p
	stored.ID = f.nextID
	f.rows[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeParticipationRepo) UpdateKind(_ context.Context, id int64, kind models.ParticipationKind) error {
	p, ok := f.rows[id]
	if !ok {
		return apperrors.ErrParticipationNotFound
	}
	p.Kind = kind
	return nil
}

func (f *fakeParticipationRepo) ResolveWithScheduleEntry(_ context.Context, id int64, status workflow.Status, note *string, respondedAt time.Time, entry *models.ScheduleEntry) error {
	p, ok := f.rows[id]
	if !ok || p.Status != workflow.StatusPending {
		return apperrors.ErrAlreadyResolved
	}
	// The schedule write lands first so a failure rolls the whole call back,
	// mirroring the single transaction.
	switch status {
	case workflow.StatusApproved:
		if err := f.schedule.upsert(entry); err != nil {
			return err
		}
	case workflow.StatusRejected:
		delete(f.schedule.entries, [2]int64{entry.UserID, entry.EventID})
	}
	p.Status = status
	p.Note = note
	p.RespondedAt = &respondedAt
	return nil
}

func (f *fakeParticipationRepo) DeleteWithScheduleEntry(_ context.Context, eventID, userID int64) error {
	for id, p := range f.rows {
		if p.EventID == eventID && p.UserID == userID {
			delete(f.rows, id)
		}
	}
	delete(f.schedule.entries, [2]int64{userID, eventID})
	return nil
}

func (f *fakeParticipationRepo) CountApprovedByKind(_ context.Context, userID int64, from, to *time.Time) (map[models.ParticipationKind]int, error) {
	counts := make(map[models.ParticipationKind]int)
	for _, p := range f.rows {
		if p.UserID != userID || p.Status != workflow.StatusApproved {
			continue
		}
		event, ok := f.events.events[p.EventID]
		if !ok {
			continue
		}
		instant := eventInstant(event)
		if from != nil && instant.Before(*from) {
			continue
		}
		if to != nil && !instant.Before(*to) {
			continue
		}
		counts[p.Kind]++
	}
	return counts, nil
}

// eventInstant mirrors the SQL expression event_date + COALESCE(start_time, '00:00').
func eventInstant(event *models.Event) time.Time {
	instant := event.EventDate
	if event.StartTime != nil {
		if clock, err := helpers.ParseClock(*event.StartTime); err == nil {
			instant = instant.Add(time.Duration(clock.Hour())*time.Hour + time.Duration(clock.Minute())*time.Minute)
		}
	}
	return instant
}

type fakeEventRepo struct {
	events        map[int64]*models.Event
	nextID        int64
	participation *fakeParticipationRepo
	schedule      *fakeScheduleRepo
}

func newFakeEventRepo(participation *fakeParticipationRepo, schedule *fakeScheduleRepo) *fakeEventRepo {
	return &fakeEventRepo{
		events:        make(map[int64]*models.Event),
		participation: participation,
		schedule:      schedule,
	}
}

func (f *fakeEventRepo) CreateWithCreatorParticipation(_ context.Context, event *models.Event, participation *models.Participation, entry *models.ScheduleEntry) (int64, error) {
	// Atomicity stand-in: no state changes when the entry write would fail.
	if f.schedule.upsertErr != nil {
		return 0, f.schedule.upsertErr
	}
	f.nextID++
	stored := *event
	stored.ID = f.nextID
	f.events[stored.ID] = &stored

	participation.EventID = stored.ID
	entry.EventID = stored.ID
	f.participation.nextID++
	p := *participation
	p.ID = f.participation.nextID
	f.participation.rows[p.ID] = &p
	if err := f.schedule.upsert(entry); err != nil {
		return 0, err
	}
	return stored.ID, nil
}

func (f *fakeEventRepo) GetByID(_ context.Context, id int64) (*models.Event, error) {
	event, ok := f.events[id]
	if !ok {
		return nil, apperrors.ErrEventNotFound
	}
	copied := *event
	return &copied, nil
}

func (f *fakeEventRepo) GetAll(_ context.Context, eventType *string, from, to *string, offset uint64, limit int) ([]*models.Event, int64, error) {
	var matched []*models.Event
	for _, event := range f.events {
		if eventType != nil && string(event.EventType) != *eventType {
			continue
		}
		date := event.EventDate.Format("2006-01-02")
		if from != nil && date < *from {
			continue
		}
		if to != nil && date > *to {
			continue
		}
		copied := *event
		matched = append(matched, &copied)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].EventDate.After(matched[j].EventDate) })
	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakeEventRepo) Update(_ context.Context, event *models.Event) error {
	if _, ok := f.events[event.ID]; !ok {
		return apperrors.ErrEventNotFound
	}
	copied := *event
	f.events[event.ID] = &copied
	return nil
}

func (f *fakeEventRepo) UpdateWithScheduleSync(ctx context.Context, event *models.Event) error {
	if err := f.Update(ctx, event); err != nil {
		return err
	}
	f.schedule.syncEventWindow(event)
	return nil
}

func (f *fakeEventRepo) DeleteCascade(_ context.Context, id int64) error {
	if _, ok := f.events[id]; !ok {
		return apperrors.ErrEventNotFound
	}
	for pid, p := range f.participation.rows {
		if p.EventID == id {
			delete(f.participation.rows, pid)
		}
	}
	for key, entry := range f.schedule.entries {
		if entry.EventID == id {
			delete(f.schedule.entries, key)
		}
	}
	delete(f.events, id)
	return nil
}

type fakeTaskRequestRepo struct {
	rows   map[int64]*models.TaskRequest
	nextID int64
}

func newFakeTaskRequestRepo() *fakeTaskRequestRepo {
	return &fakeTaskRequestRepo{rows: make(map[int64]*models.TaskRequest)}
}

func (f *fakeTaskRequestRepo) Create(_ context.Context, t *models.TaskRequest) (int64, error) {
	f.nextID++
	stored := *t
	stored.ID = f.nextID
	f.rows[stored.ID] = &stored
	return stored.ID, nil
}

func (f *fakeTaskRequestRepo) GetByID(_ context.Context, id int64) (*models.TaskRequest, error) {
	t, ok := f.rows[id]
	if !ok {
		return nil, apperrors.ErrTaskRequestNotFound
	}
	copied := *t
	return &copied, nil
}

func (f *fakeTaskRequestRepo) ListForUser(_ context.Context, userID int64, offset uint64, limit int) ([]*models.TaskRequest, int64, error) {
	var matched []*models.TaskRequest
	for _, t := range f.rows {
		if t.RequesterID == userID || t.AssigneeID == userID {
			copied := *t
			matched = append(matched, &copied)
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })
	total := int64(len(matched))
	if offset >= uint64(len(matched)) {
		return nil, total, nil
	}
	matched = matched[offset:]
	if limit < len(matched) {
		matched = matched[:limit]
	}
	return matched, total, nil
}

func (f *fakeTaskRequestRepo) Resolve(_ context.Context, id int64, status workflow.Status, note *string, respondedAt time.Time) error {
	t, ok := f.rows[id]
	if !ok || t.Status != workflow.StatusPending {
		return apperrors.ErrAlreadyResolved
	}
	t.Status = status
	t.Note = note
	t.RespondedAt = &respondedAt
	return nil
}

// fixture wires the fakes and services together for a test.
type fixture struct {
	users         *fakeUserRepo
	events        *fakeEventRepo
	participation *fakeParticipationRepo
	schedule      *fakeScheduleRepo
	tasks         *fakeTaskRequestRepo

	eventService         EventService
	participationService ParticipationService
	scheduleService      ScheduleService
	taskRequestService   TaskRequestService
}

func newFixture() *fixture {
	schedule := newFakeScheduleRepo()
	participation := newFakeParticipationRepo(schedule)
	events := newFakeEventRepo(participation, schedule)
	participation.events = events
	schedule.events = events
	users := newFakeUserRepo()
	tasks := newFakeTaskRequestRepo()

	logger := zerolog.Nop()
	return &fixture{
		users:         users,
		events:        events,
		participation: participation,
		schedule:      schedule,
		tasks:         tasks,

		eventService:         NewEventService(events, participation, users, time.UTC, logger),
		participationService: NewParticipationService(participation, events, users, logger),
		scheduleService:      NewScheduleService(schedule, logger),
		taskRequestService:   NewTaskRequestService(tasks, users, logger),
	}
}

func (f *fixture) summaryService(now time.Time) SummaryService {
	return NewSummaryService(f.participation, time.Monday, 9, 0, time.UTC,
		func() time.Time { return now }, zerolog.Nop())
}
