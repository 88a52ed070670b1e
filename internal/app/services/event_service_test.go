package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/app/workflow"
	"github.com/kaan/attendly/internal/pkg/apperrors"
)

func strptr(s string) *string { return &s }

func (f *fixture) createEvent(t *testing.T, creatorID int64, req *dto.CreateEventRequest) *dto.EventResponse {
	t.Helper()
	resp, err := f.eventService.CreateEvent(context.Background(), creatorID, req)
	if err != nil {
		t.Fatalf("CreateEvent: %v", err)
	}
	return resp
}

func TestCreateEventPreApprovesCreator(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.users.add(2, "invitee@example.org")

	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name:       "Town Meeting",
		EventType:  "OFFICIAL",
		EventDate:  "2024-06-10",
		StartTime:  strptr("19:00"),
		EndTime:    strptr("21:00"),
		InviteeIDs: []int64{2},
	})

	creator, err := f.participation.GetByEventAndUser(context.Background(), event.ID, 1)
	if err != nil || creator == nil {
		t.Fatalf("creator participation missing: %v", err)
	}
	if creator.Status != workflow.StatusApproved {
		t.Errorf("creator status = %s, want APPROVED", creator.Status)
	}
	if exists, _ := f.schedule.ExistsForEventAndUser(context.Background(), event.ID, 1); !exists {
		t.Error("creator schedule entry not derived")
	}

	invitee, err := f.participation.GetByEventAndUser(context.Background(), event.ID, 2)
	if err != nil || invitee == nil {
		t.Fatalf("invitee participation missing: %v", err)
	}
	if invitee.Status != workflow.StatusPending {
		t.Errorf("invitee status = %s, want PENDING", invitee.Status)
	}
	if exists, _ := f.schedule.ExistsForEventAndUser(context.Background(), event.ID, 2); exists {
		t.Error("pending invitee must not have a schedule entry")
	}
}

func TestCreateEventRejectsInvertedWindow(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")

	_, err := f.eventService.CreateEvent(context.Background(), 1, &dto.CreateEventRequest{
		Name:      "Backwards",
		EventType: "TEAM",
		EventDate: "2024-06-10",
		StartTime: strptr("21:00"),
		EndTime:   strptr("19:00"),
	})
	if err == nil {
		t.Fatal("expected error for end before start")
	}
}

func TestUpdateEventForbiddenForNonCreator(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Town Meeting", EventType: "OFFICIAL", EventDate: "2024-06-10",
	})

	_, err := f.eventService.UpdateEvent(context.Background(), event.ID, 2, &dto.UpdateEventRequest{
		Name: strptr("Hijacked"),
	})
	if err == nil {
		t.Fatal("expected forbidden error")
	}
}

func TestUpdateEventDateMoveResyncsSchedule(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Town Meeting", EventType: "OFFICIAL", EventDate: "2024-06-10",
		StartTime: strptr("19:00"), EndTime: strptr("21:00"),
	})

	if _, err := f.eventService.UpdateEvent(context.Background(), event.ID, 1, &dto.UpdateEventRequest{
		EventDate: strptr("2024-06-17"),
	}); err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}

	entry := f.schedule.entries[[2]int64{1, event.ID}]
	if entry == nil {
		t.Fatal("creator schedule entry missing after update")
	}
	if got := entry.EntryDate.Format("2006-01-02"); got != "2024-06-17" {
		t.Errorf("entry date = %s, want 2024-06-17", got)
	}
}

func TestUpdateEventCreatorPreserved(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Town Meeting", EventType: "OFFICIAL", EventDate: "2024-06-10",
	})

	// Creator hands nothing over: an update bumps the updater only.
	stored := f.events.events[event.ID]
	stored.UpdatedBy = 0
	resp, err := f.eventService.UpdateEvent(context.Background(), event.ID, 1, &dto.UpdateEventRequest{
		Name: strptr("Town Meeting v2"),
	})
	if err != nil {
		t.Fatalf("UpdateEvent: %v", err)
	}
	if resp.CreatedBy != 1 {
		t.Errorf("createdBy = %d, want 1", resp.CreatedBy)
	}
	if resp.UpdatedBy != 1 {
		t.Errorf("updatedBy = %d, want 1", resp.UpdatedBy)
	}
}

func TestDeleteEventCascades(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.users.add(2, "member@example.org")
	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Town Meeting", EventType: "OFFICIAL", EventDate: "2024-06-10",
		InviteeIDs: []int64{2},
	})

	if err := f.eventService.DeleteEvent(context.Background(), event.ID, 1); err != nil {
		t.Fatalf("DeleteEvent: %v", err)
	}

	if len(f.participation.rows) != 0 {
		t.Errorf("participations left after cascade: %d", len(f.participation.rows))
	}
	if len(f.schedule.entries) != 0 {
		t.Errorf("schedule entries left after cascade: %d", len(f.schedule.entries))
	}
	if err := f.eventService.DeleteEvent(context.Background(), event.ID, 1); err != apperrors.ErrEventNotFound {
		t.Errorf("second delete error = %v, want ErrEventNotFound", err)
	}
}

func TestGetAllEventsFiltersByTypeAndRange(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.createEvent(t, 1, &dto.CreateEventRequest{Name: "Early", EventType: "OFFICIAL", EventDate: "2024-06-03"})
	f.createEvent(t, 1, &dto.CreateEventRequest{Name: "Mid", EventType: "TEAM", EventDate: "2024-06-10"})
	f.createEvent(t, 1, &dto.CreateEventRequest{Name: "Late", EventType: "OFFICIAL", EventDate: "2024-06-17"})

	official := "OFFICIAL"
	from := time.Date(2024, 6, 5, 0, 0, 0, 0, time.UTC)
	list, err := f.eventService.GetAllEvents(context.Background(), &dto.EventFilterRequest{
		EventType: &official,
		From:      &from,
		Page:      1,
		PageSize:  10,
	})
	if err != nil {
		t.Fatalf("GetAllEvents: %v", err)
	}
	if len(list.Events) != 1 || list.Events[0].Name != "Late" {
		t.Fatalf("events = %+v, want only Late", list.Events)
	}
}

func TestGetEventByIDIncludesParticipations(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.users.add(2, "member@example.org")
	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Town Meeting", EventType: "OFFICIAL", EventDate: "2024-06-10",
		InviteeIDs: []int64{2},
	})

	detail, err := f.eventService.GetEventByID(context.Background(), event.ID)
	if err != nil {
		t.Fatalf("GetEventByID: %v", err)
	}
	if len(detail.Participations) != 2 {
		t.Fatalf("participations = %d, want 2", len(detail.Participations))
	}
	if detail.ParticipantCount != 2 {
		t.Errorf("participantCount = %d, want 2", detail.ParticipantCount)
	}
}

func TestCreateEventReportsFailedInvitees(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.users.add(2, "member@example.org")

	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Town Meeting", EventType: "OFFICIAL", EventDate: "2024-06-10",
		InviteeIDs: []int64{2, 99},
	})

	invites := event.InitialInvites
	if invites == nil {
		t.Fatal("expected invite outcomes on the create response")
	}
	if len(invites.Outcomes) != 2 {
		t.Fatalf("outcomes = %d, want 2", len(invites.Outcomes))
	}
	if invites.Outcomes[0].UserID != 2 || invites.Outcomes[0].Action != dto.InviteActionInvited {
		t.Errorf("outcome for user 2 = %+v, want INVITED", invites.Outcomes[0])
	}
	if invites.Outcomes[1].UserID != 99 || invites.Outcomes[1].Action != dto.InviteActionFailed {
		t.Errorf("outcome for user 99 = %+v, want FAILED", invites.Outcomes[1])
	}
	if len(invites.FailedUserIDs) != 1 || invites.FailedUserIDs[0] != 99 {
		t.Errorf("failedUserIds = %v, want [99]", invites.FailedUserIDs)
	}
	if f.mustParticipation(t, event.ID, 2).Status != workflow.StatusPending {
		t.Error("known invitee must land with a PENDING participation")
	}
}

func TestCreateEventRequiresName(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")

	_, err := f.eventService.CreateEvent(context.Background(), 1, &dto.CreateEventRequest{
		Name: "   ", EventType: "TEAM", EventDate: "2024-06-10",
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want validation failure for blank name", err)
	}
}

func TestUpdateEventRejectsBlankName(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Town Meeting", EventType: "OFFICIAL", EventDate: "2024-06-10",
	})

	_, err := f.eventService.UpdateEvent(context.Background(), event.ID, 1, &dto.UpdateEventRequest{
		Name: strptr("  "),
	})
	if !errors.Is(err, apperrors.ErrValidationFailed) {
		t.Fatalf("err = %v, want validation failure for blank name", err)
	}
}
