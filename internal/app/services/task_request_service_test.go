package services

import (
	"context"
	"errors"
	"testing"

	"github.com/kaan/attendly/internal/app/models/dto"
	"github.com/kaan/attendly/internal/pkg/apperrors"
)

func TestCreateTaskRequestRejectsSelfAssignment(t *testing.T) {
	f := newFixture()
	f.users.add(1, "requester@example.org")

	_, err := f.taskRequestService.CreateTaskRequest(context.Background(), 1, &dto.CreateTaskRequestRequest{
		Title: "Prepare agenda", AssigneeID: 1,
	})
	if err == nil {
		t.Fatal("expected validation error for self-assignment")
	}
}

func TestCreateTaskRequestUnknownAssignee(t *testing.T) {
	f := newFixture()
	f.users.add(1, "requester@example.org")

	_, err := f.taskRequestService.CreateTaskRequest(context.Background(), 1, &dto.CreateTaskRequestRequest{
		Title: "Prepare agenda", AssigneeID: 42,
	})
	if err == nil {
		t.Fatal("expected not found error for unknown assignee")
	}
}

func TestTaskRequestRespondAssigneeOnly(t *testing.T) {
	f := newFixture()
	f.users.add(1, "requester@example.org")
	f.users.add(2, "assignee@example.org")
	f.users.add(3, "other@example.org")

	created, err := f.taskRequestService.CreateTaskRequest(context.Background(), 1, &dto.CreateTaskRequestRequest{
		Title: "Prepare agenda", AssigneeID: 2,
	})
	if err != nil {
		t.Fatalf("CreateTaskRequest: %v", err)
	}
	if created.Status != "PENDING" {
		t.Fatalf("status = %s, want PENDING", created.Status)
	}

	// The requester cannot resolve their own request; neither can a bystander.
	for _, actorID := range []int64{1, 3} {
		if _, err := f.taskRequestService.Respond(context.Background(), created.ID, actorID, &dto.RespondRequest{
			Decision: "APPROVE",
		}); err == nil {
			t.Errorf("actor %d: expected forbidden error", actorID)
		}
	}

	note := "done by friday"
	resp, err := f.taskRequestService.Respond(context.Background(), created.ID, 2, &dto.RespondRequest{
		Decision: "APPROVE", Note: &note,
	})
	if err != nil {
		t.Fatalf("Respond: %v", err)
	}
	if resp.Status != "APPROVED" {
		t.Errorf("status = %s, want APPROVED", resp.Status)
	}
	if resp.Note == nil || *resp.Note != note {
		t.Errorf("note = %v, want %q", resp.Note, note)
	}
	if resp.RespondedAt == nil {
		t.Error("respondedAt not set")
	}
}

func TestTaskRequestRespondTwiceFails(t *testing.T) {
	f := newFixture()
	f.users.add(1, "requester@example.org")
	f.users.add(2, "assignee@example.org")

	created, err := f.taskRequestService.CreateTaskRequest(context.Background(), 1, &dto.CreateTaskRequestRequest{
		Title: "Prepare agenda", AssigneeID: 2,
	})
	if err != nil {
		t.Fatalf("CreateTaskRequest: %v", err)
	}

	if _, err := f.taskRequestService.Respond(context.Background(), created.ID, 2, &dto.RespondRequest{
		Decision: "REJECT",
	}); err != nil {
		t.Fatalf("first Respond: %v", err)
	}
	_, err = f.taskRequestService.Respond(context.Background(), created.ID, 2, &dto.RespondRequest{
		Decision: "APPROVE",
	})
	if !errors.Is(err, apperrors.ErrAlreadyResolved) {
		t.Fatalf("second Respond error = %v, want ErrAlreadyResolved", err)
	}
}

func TestTaskRequestVisibilityAndListing(t *testing.T) {
	f := newFixture()
	f.users.add(1, "requester@example.org")
	f.users.add(2, "assignee@example.org")
	f.users.add(3, "other@example.org")

	created, err := f.taskRequestService.CreateTaskRequest(context.Background(), 1, &dto.CreateTaskRequestRequest{
		Title: "Prepare agenda", AssigneeID: 2,
	})
	if err != nil {
		t.Fatalf("CreateTaskRequest: %v", err)
	}

	if _, err := f.taskRequestService.GetTaskRequestByID(context.Background(), created.ID, 3); err == nil {
		t.Error("bystander read: expected forbidden error")
	}
	for _, actorID := range []int64{1, 2} {
		if _, err := f.taskRequestService.GetTaskRequestByID(context.Background(), created.ID, actorID); err != nil {
			t.Errorf("party %d read: %v", actorID, err)
		}
	}

	list, err := f.taskRequestService.ListTaskRequests(context.Background(), 2, 1, 10)
	if err != nil {
		t.Fatalf("ListTaskRequests: %v", err)
	}
	if len(list.TaskRequests) != 1 {
		t.Fatalf("assignee list = %d entries, want 1", len(list.TaskRequests))
	}

	none, err := f.taskRequestService.ListTaskRequests(context.Background(), 3, 1, 10)
	if err != nil {
		t.Fatalf("ListTaskRequests: %v", err)
	}
	if len(none.TaskRequests) != 0 {
		t.Fatalf("bystander list = %d entries, want 0", len(none.TaskRequests))
	}
}
