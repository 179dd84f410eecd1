package leaverequest

import "mohr/internal/domain"

// CanAccess is the single visibility rule for leave requests: admins
// see every record, employees only their own. Every read and delete
// path goes through this check.
func CanAccess(caller domain.Identity, l *LeaveRequest) bool {
	if caller.IsAdmin() {
		return true
	}
	return caller.EmployeeID != "" && l.EmployeeID.String() == caller.EmployeeID
}
