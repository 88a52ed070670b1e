package models

// EventType classifies an event within the organization.
type EventType string

const (
	EventTypeOfficial EventType = "OFFICIAL"
	EventTypeTeam     EventType = "TEAM"
	EventTypeOther    EventType = "OTHER"
)

// Valid reports whether t is a known event type.
func (t EventType) Valid() bool {
	return t == EventTypeOfficial || t == EventTypeTeam || t == EventTypeOther
}

// ParticipationKind is the role a participant plays in an event.
type ParticipationKind string

const (
	// KindParticipation is plain attendance, worth 1.0 points when approved.
	KindParticipation ParticipationKind = "PARTICIPATION"
	// KindPreparation is helping prepare the event, worth 0.5 points when approved.
	KindPreparation ParticipationKind = "PREPARATION"
)

// Valid reports whether k is a known participation kind.
func (k ParticipationKind) Valid() bool {
	return k == KindParticipation || k == KindPreparation
}

// Points returns the summary weight of an approved participation of this kind.
func (k ParticipationKind) Points() float64 {
	if k == KindPreparation {
		return 0.5
	}
	return 1.0
}
