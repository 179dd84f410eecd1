package domain

const (
	RoleAdmin    = "admin"
	RoleEmployee = "employee"
)

// Identity is the decoded caller handed to services by the auth
// middleware. Services never see raw credentials.
type Identity struct {
	UserID     string `json:"user_id"`
	EmployeeID string `json:"employee_id"`
	Role       string `json:"role"`
}

func (i Identity) IsAdmin() bool {
	return i.Role == RoleAdmin
}
