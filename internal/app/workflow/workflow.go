// Package workflow implements the shared approval state machine used by both
// event participations and task requests. The machine has three states;
// APPROVED and REJECTED are terminal.
package workflow

import "errors"

// Status is the state of an approval.
type Status string

const (
	StatusPending  Status = "PENDING"
	StatusApproved Status = "APPROVED"
	StatusRejected Status = "REJECTED"
)

// Decision is a responder's answer to a pending approval.
type Decision string

const (
	DecisionApprove Decision = "APPROVE"
	DecisionReject  Decision = "REJECT"
)

// Workflow errors
var (
	ErrNotAuthorized   = errors.New("actor is not authorized to respond")
	ErrAlreadyResolved = errors.New("approval has already been resolved")
	ErrUnknownDecision = errors.New("unknown decision")
	ErrNoteOnPending   = errors.New("a note may only accompany a resolving decision")
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	return s == StatusPending || s == StatusApproved || s == StatusRejected
}

// Terminal reports whether no transition leaves s.
func (s Status) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// Valid reports whether d is a known decision.
func (d Decision) Valid() bool {
	return d == DecisionApprove || d == DecisionReject
}

// transitions maps a decision to the state it resolves into. PENDING rows are
// the only rows with outgoing edges.
var transitions = map[Decision]Status{
	DecisionApprove: StatusApproved,
	DecisionReject:  StatusRejected,
}

// Transition returns the state that applying decision to current yields.
// The caller supplies the result of its capability check as authorized. The
// machine refuses unauthorized actors before inspecting state so that probing
// never leaks resolution status.
func Transition(current Status, decision Decision, authorized bool) (Status, error) {
	if !authorized {
		return current, ErrNotAuthorized
	}
	if current.Terminal() {
		return current, ErrAlreadyResolved
	}
	next, ok := transitions[decision]
	if !ok {
		return current, ErrUnknownDecision
	}
	return next, nil
}

// ValidateNote enforces the note attachment rule: a note may be recorded only
// on the transition into APPROVED or REJECTED, never while PENDING.
func ValidateNote(next Status, note *string) error {
	if note == nil || *note == "" {
		return nil
	}
	if !next.Terminal() {
		return ErrNoteOnPending
	}
	return nil
}

// Action identifies an operation subject to the capability predicate.
type Action string

const (
	// ActionRespond answers a pending approval.
	ActionRespond Action = "RESPOND"
	// ActionManage creates, re-kinds or withdraws an approval.
	ActionManage Action = "MANAGE"
)

// Resource describes who owns and who answers an approval. OwnerID is the
// party that issued it (event creator, task requester); ResponderID is the
// single party allowed to answer it.
type Resource struct {
	OwnerID     int64
	ResponderID int64
}

// Allows is the single capability predicate evaluated at the workflow
// boundary. Responding is reserved to the invited responder; managing is
// reserved to the owner. An owner who is also the responder may do both.
func Allows(actorID int64, res Resource, action Action) bool {
	switch action {
	case ActionRespond:
		return actorID == res.ResponderID
	case ActionManage:
		return actorID == res.OwnerID
	}
	return false
}
