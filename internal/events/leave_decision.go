package events

import "time"

const LeaveDecisionTopic = "mohr.leave.decision.v1"

// LeaveDecisionEvent is emitted whenever an admin moves a leave
// request out of (or back into) pending. Consumers use it to fan out
// notifications without coupling to the leave module.
type LeaveDecisionEvent struct {
	EventType      string    `json:"event_type"`
	LeaveRequestID string    `json:"leave_request_id"`
	EmployeeID     string    `json:"employee_id"`
	LeaveType      string    `json:"leave_type"`
	StartDate      string    `json:"start_date"`
	EndDate        string    `json:"end_date"`
	DaysRequested  int       `json:"days_requested"`
	Status         string    `json:"status"`
	DecidedBy      string    `json:"decided_by"`
	OccurredAt     time.Time `json:"occurred_at"`
}
