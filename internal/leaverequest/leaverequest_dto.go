package leaverequest

import "time"

// DateLayout is the wire format for leave dates. Time of day never
// enters the day arithmetic.
const DateLayout = "2006-01-02"

type CreateLeaveRequestRequest struct {
	EmployeeID string `json:"employee_id"`
	LeaveType  string `json:"leave_type"`
	StartDate  string `json:"start_date"`
	EndDate    string `json:"end_date"`
	Reason     string `json:"reason"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// ListFilter carries the optional query filters for listing and
// exporting. An empty field means "no constraint on this column".
type ListFilter struct {
	Status     string
	LeaveType  string
	EmployeeID string
}

type LeaveRequestResponse struct {
	ID            string     `json:"id"`
	EmployeeID    string     `json:"employee_id"`
	FirstName     string     `json:"first_name,omitempty"`
	LastName      string     `json:"last_name,omitempty"`
	Email         string     `json:"email,omitempty"`
	LeaveType     string     `json:"leave_type"`
	StartDate     string     `json:"start_date"`
	EndDate       string     `json:"end_date"`
	DaysRequested int        `json:"days_requested"`
	Reason        string     `json:"reason,omitempty"`
	Status        string     `json:"status"`
	ApprovedBy    *string    `json:"approved_by,omitempty"`
	ApprovedAt    *time.Time `json:"approved_at,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

type LeaveTypeStat struct {
	LeaveType string  `json:"leave_type"`
	Count     int64   `json:"count"`
	AvgDays   float64 `json:"avg_days"`
}

type StatsResponse struct {
	TotalRequests      int64           `json:"totalRequests"`
	PendingRequests    int64           `json:"pendingRequests"`
	ApprovedRequests   int64           `json:"approvedRequests"`
	RejectedRequests   int64           `json:"rejectedRequests"`
	LeaveTypeBreakdown []LeaveTypeStat `json:"leaveTypeBreakdown"`
	RecentRequests     int64           `json:"recentRequests"`
}

func mapToResponse(l *LeaveRequest) LeaveRequestResponse {
	resp := LeaveRequestResponse{
		ID:            l.ID.String(),
		EmployeeID:    l.EmployeeID.String(),
		LeaveType:     l.LeaveType,
		StartDate:     l.StartDate.Format(DateLayout),
		EndDate:       l.EndDate.Format(DateLayout),
		DaysRequested: l.DaysRequested,
		Reason:        l.Reason,
		Status:        l.Status,
		ApprovedAt:    l.ApprovedAt,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
	if l.ApprovedBy != nil {
		v := l.ApprovedBy.String()
		resp.ApprovedBy = &v
	}
	if l.Employee != nil {
		resp.FirstName = l.Employee.FirstName
		resp.LastName = l.Employee.LastName
		resp.Email = l.Employee.Email
	}
	return resp
}

func mapToResponses(list []LeaveRequest) []LeaveRequestResponse {
	responses := make([]LeaveRequestResponse, 0, len(list))
	for i := range list {
		responses = append(responses, mapToResponse(&list[i]))
	}
	return responses
}
