package dto

// ScheduleEntryResponse is the API shape of a derived schedule entry.
type ScheduleEntryResponse struct {
	ID        int64   `json:"id" example:"77"`
	EventID   int64   `json:"eventId" example:"12"`
	EventName string  `json:"eventName,omitempty" example:"Town Meeting"`
	EntryDate string  `json:"entryDate" example:"2024-06-10"`
	StartTime *string `json:"startTime,omitempty" example:"19:00"`
	EndTime   *string `json:"endTime,omitempty" example:"21:00"`
}

// ScheduleResponse is a user's derived schedule for a date range.
type ScheduleResponse struct {
	Entries []ScheduleEntryResponse `json:"entries"`
}
