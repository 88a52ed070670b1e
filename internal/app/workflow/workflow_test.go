package workflow

import (
	"errors"
	"testing"
)

func TestTransitionApprove(t *testing.T) {
	next, err := Transition(StatusPending, DecisionApprove, true)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if next != StatusApproved {
		t.Fatalf("next = %v, want APPROVED", next)
	}
}

func TestTransitionReject(t *testing.T) {
	next, err := Transition(StatusPending, DecisionReject, true)
	if err != nil {
		t.Fatalf("transition: %v", err)
	}
	if next != StatusRejected {
		t.Fatalf("next = %v, want REJECTED", next)
	}
}

func TestTerminalStatesHaveNoOutgoingTransitions(t *testing.T) {
	for _, current := range []Status{StatusApproved, StatusRejected} {
		for _, decision := range []Decision{DecisionApprove, DecisionReject} {
			next, err := Transition(current, decision, true)
			if !errors.Is(err, ErrAlreadyResolved) {
				t.Fatalf("Transition(%v, %v) error = %v, want ErrAlreadyResolved", current, decision, err)
			}
			if next != current {
				t.Fatalf("Transition(%v, %v) moved state to %v", current, decision, next)
			}
		}
	}
}

func TestTransitionUnauthorizedActor(t *testing.T) {
	_, err := Transition(StatusPending, DecisionApprove, false)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("error = %v, want ErrNotAuthorized", err)
	}

	// Unauthorized probing must not reveal whether the row was resolved.
	_, err = Transition(StatusApproved, DecisionApprove, false)
	if !errors.Is(err, ErrNotAuthorized) {
		t.Fatalf("error = %v, want ErrNotAuthorized before state inspection", err)
	}
}

func TestTransitionUnknownDecision(t *testing.T) {
	_, err := Transition(StatusPending, Decision("SHRUG"), true)
	if !errors.Is(err, ErrUnknownDecision) {
		t.Fatalf("error = %v, want ErrUnknownDecision", err)
	}
}

func TestValidateNote(t *testing.T) {
	note := "see you there"
	if err := ValidateNote(StatusApproved, &note); err != nil {
		t.Fatalf("note on approval: %v", err)
	}
	if err := ValidateNote(StatusRejected, &note); err != nil {
		t.Fatalf("note on rejection: %v", err)
	}
	if err := ValidateNote(StatusPending, &note); !errors.Is(err, ErrNoteOnPending) {
		t.Fatalf("error = %v, want ErrNoteOnPending", err)
	}
	if err := ValidateNote(StatusPending, nil); err != nil {
		t.Fatalf("nil note should always pass: %v", err)
	}
}

func TestAllows(t *testing.T) {
	res := Resource{OwnerID: 1, ResponderID: 2}

	tests := []struct {
		name   string
		actor  int64
		action Action
		want   bool
	}{
		{"responder can respond", 2, ActionRespond, true},
		{"owner cannot respond for invitee", 1, ActionRespond, false},
		{"owner can manage", 1, ActionManage, true},
		{"responder cannot manage", 2, ActionManage, false},
		{"stranger can do nothing", 3, ActionRespond, false},
		{"unknown action denied", 1, Action("X"), false},
	}
	for _, tt := range tests {
		if got := Allows(tt.actor, res, tt.action); got != tt.want {
			t.Errorf("%s: Allows = %v, want %v", tt.name, got, tt.want)
		}
	}

	// Self-issued approvals: owner and responder coincide.
	self := Resource{OwnerID: 5, ResponderID: 5}
	if !Allows(5, self, ActionRespond) || !Allows(5, self, ActionManage) {
		t.Fatal("owner-responder should hold both capabilities")
	}
}
