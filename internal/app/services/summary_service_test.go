package services

import (
	"context"
	"testing"
	"time"

	"github.com/kaan/attendly/internal/app/models/dto"
)

// approveAs invites userID with kind and answers APPROVE as that user.
func (f *fixture) approveAs(t *testing.T, eventID, userID int64, kind string) {
	t.Helper()
	creator := f.events.events[eventID].CreatedBy
	if _, err := f.participationService.Invite(context.Background(), eventID, creator, &dto.InviteRequest{
		UserIDs: []int64{userID}, Kind: kind,
	}); err != nil {
		t.Fatalf("Invite: %v", err)
	}
	p := f.mustParticipation(t, eventID, userID)
	if _, err := f.participationService.Respond(context.Background(), p.ID, userID, &dto.RespondRequest{
		Decision: "APPROVE",
	}); err != nil {
		t.Fatalf("Respond: %v", err)
	}
}

func TestSummaryPointsWeighKinds(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.users.add(2, "member@example.org")

	e1 := f.createEvent(t, 1, &dto.CreateEventRequest{Name: "A", EventType: "TEAM", EventDate: "2024-06-03"})
	e2 := f.createEvent(t, 1, &dto.CreateEventRequest{Name: "B", EventType: "TEAM", EventDate: "2024-06-04"})
	e3 := f.createEvent(t, 1, &dto.CreateEventRequest{Name: "C", EventType: "TEAM", EventDate: "2024-06-05"})
	f.approveAs(t, e1.ID, 2, "PARTICIPATION")
	f.approveAs(t, e2.ID, 2, "PARTICIPATION")
	f.approveAs(t, e3.ID, 2, "PREPARATION")

	now := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)
	summary, err := f.summaryService(now).GetSummary(context.Background(), 2, nil, nil)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.TotalCount != 3 {
		t.Errorf("totalCount = %d, want 3", summary.TotalCount)
	}
	if summary.TotalPoints != 2.5 {
		t.Errorf("totalPoints = %v, want 2.5", summary.TotalPoints)
	}
	if summary.MonthPoints != 2.5 {
		t.Errorf("monthPoints = %v, want 2.5", summary.MonthPoints)
	}
}

func TestSummaryPendingAndRejectedCountNothing(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.users.add(2, "member@example.org")

	pending := f.createEvent(t, 1, &dto.CreateEventRequest{Name: "P", EventType: "TEAM", EventDate: "2024-06-03", InviteeIDs: []int64{2}})
	rejected := f.createEvent(t, 1, &dto.CreateEventRequest{Name: "R", EventType: "TEAM", EventDate: "2024-06-04", InviteeIDs: []int64{2}})
	_ = pending
	p := f.mustParticipation(t, rejected.ID, 2)
	if _, err := f.participationService.Respond(context.Background(), p.ID, 2, &dto.RespondRequest{Decision: "REJECT"}); err != nil {
		t.Fatalf("Respond: %v", err)
	}

	now := time.Date(2024, 6, 5, 12, 0, 0, 0, time.UTC)
	summary, err := f.summaryService(now).GetSummary(context.Background(), 2, nil, nil)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.TotalCount != 0 || summary.TotalPoints != 0 {
		t.Errorf("summary = %+v, want zeroes", summary)
	}
}

// The weekly cycle runs Monday 09:00 to Monday 09:00. An event on the
// boundary instant belongs to the cycle that starts there.
func TestSummaryCycleBoundaryOwnership(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.users.add(2, "member@example.org")

	// 2024-06-10 is a Monday. 08:59 falls in the old cycle, 09:00 in the new.
	before := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Old cycle", EventType: "TEAM", EventDate: "2024-06-10", StartTime: strptr("08:59"), EndTime: strptr("09:30"),
	})
	boundary := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "New cycle", EventType: "TEAM", EventDate: "2024-06-10", StartTime: strptr("09:00"), EndTime: strptr("10:00"),
	})
	f.approveAs(t, before.ID, 2, "PARTICIPATION")
	f.approveAs(t, boundary.ID, 2, "PARTICIPATION")

	now := time.Date(2024, 6, 12, 12, 0, 0, 0, time.UTC)
	summary, err := f.summaryService(now).GetSummary(context.Background(), 2, nil, nil)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.ThisCycleCount != 1 {
		t.Errorf("thisCycleCount = %d, want 1 (boundary event only)", summary.ThisCycleCount)
	}
	if summary.TotalCount != 2 {
		t.Errorf("totalCount = %d, want 2", summary.TotalCount)
	}
}

func TestComplianceTracksBothKinds(t *testing.T) {
	f := newFixture()
	f.users.add(1, "creator@example.org")
	f.users.add(2, "member@example.org")

	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Setup", EventType: "TEAM", EventDate: "2024-06-12",
	})
	f.approveAs(t, event.ID, 2, "PREPARATION")

	now := time.Date(2024, 6, 13, 12, 0, 0, 0, time.UTC)
	compliance, err := f.summaryService(now).GetCompliance(context.Background(), 2)
	if err != nil {
		t.Fatalf("GetCompliance: %v", err)
	}
	if compliance.HasParticipation {
		t.Error("hasParticipation = true, want false")
	}
	if !compliance.HasPreparation {
		t.Error("hasPreparation = false, want true")
	}
	if got := compliance.CycleStart.Format("2006-01-02 15:04"); got != "2024-06-10 09:00" {
		t.Errorf("cycleStart = %s, want 2024-06-10 09:00", got)
	}
	if !compliance.CycleEnd.Equal(compliance.CycleStart.AddDate(0, 0, 7)) {
		t.Errorf("cycleEnd = %v, want one week after start", compliance.CycleEnd)
	}
}

// Walks the whole flow: an official event is created with two invitees, one
// approves, one rejects, and the derived schedule and summaries line up.
func TestTownMeetingFlow(t *testing.T) {
	f := newFixture()
	f.users.add(1, "chair@example.org")
	f.users.add(2, "yes@example.org")
	f.users.add(3, "no@example.org")

	event := f.createEvent(t, 1, &dto.CreateEventRequest{
		Name: "Town Meeting", EventType: "OFFICIAL", EventDate: "2024-06-10",
		StartTime: strptr("19:00"), EndTime: strptr("21:00"),
		InviteeIDs: []int64{2, 3},
	})

	yes := f.mustParticipation(t, event.ID, 2)
	if _, err := f.participationService.Respond(context.Background(), yes.ID, 2, &dto.RespondRequest{
		Decision: "APPROVE",
	}); err != nil {
		t.Fatalf("approve: %v", err)
	}
	no := f.mustParticipation(t, event.ID, 3)
	reason := "traveling"
	if _, err := f.participationService.Respond(context.Background(), no.ID, 3, &dto.RespondRequest{
		Decision: "REJECT", Note: &reason,
	}); err != nil {
		t.Fatalf("reject: %v", err)
	}

	schedule, err := f.scheduleService.GetUserSchedule(context.Background(), 2, nil, nil)
	if err != nil {
		t.Fatalf("GetUserSchedule: %v", err)
	}
	if len(schedule.Entries) != 1 || schedule.Entries[0].EventName != "Town Meeting" {
		t.Fatalf("approver schedule = %+v, want one Town Meeting entry", schedule.Entries)
	}

	empty, err := f.scheduleService.GetUserSchedule(context.Background(), 3, nil, nil)
	if err != nil {
		t.Fatalf("GetUserSchedule: %v", err)
	}
	if len(empty.Entries) != 0 {
		t.Fatalf("rejecter schedule = %+v, want empty", empty.Entries)
	}

	now := time.Date(2024, 6, 11, 12, 0, 0, 0, time.UTC)
	summary, err := f.summaryService(now).GetSummary(context.Background(), 2, nil, nil)
	if err != nil {
		t.Fatalf("GetSummary: %v", err)
	}
	if summary.TotalCount != 1 || summary.TotalPoints != 1.0 {
		t.Errorf("approver summary = %+v, want one participation worth 1.0", summary)
	}
	if summary.ThisCycleCount != 1 {
		t.Errorf("thisCycleCount = %d, want 1", summary.ThisCycleCount)
	}
}
