package employee

type CreateEmployeeRequest struct {
	FirstName      string   `json:"first_name" binding:"required"`
	LastName       string   `json:"last_name" binding:"required"`
	EmployeeNumber string   `json:"employee_number" binding:"required"`
	Email          string   `json:"email" binding:"required,email"`
	Department     string   `json:"department"`
	Position       string   `json:"position"`
	HireDate       string   `json:"hire_date"`
	Salary         *float64 `json:"salary"`
	ManagerID      *string  `json:"manager_id"`
	UserID         *string  `json:"user_id"`
}

type UpdateEmployeeRequest struct {
	FirstName  string   `json:"first_name" binding:"required"`
	LastName   string   `json:"last_name" binding:"required"`
	Email      string   `json:"email" binding:"required,email"`
	Department string   `json:"department"`
	Position   string   `json:"position"`
	HireDate   string   `json:"hire_date"`
	Salary     *float64 `json:"salary"`
	ManagerID  *string  `json:"manager_id"`
	IsActive   *bool    `json:"is_active"`
}

type EmployeeResponse struct {
	ID             string   `json:"id"`
	UserID         *string  `json:"user_id,omitempty"`
	FirstName      string   `json:"first_name"`
	LastName       string   `json:"last_name"`
	EmployeeNumber string   `json:"employee_number"`
	Email          string   `json:"email"`
	Department     string   `json:"department,omitempty"`
	Position       string   `json:"position,omitempty"`
	HireDate       string   `json:"hire_date,omitempty"`
	Salary         *float64 `json:"salary,omitempty"`
	ManagerID      *string  `json:"manager_id,omitempty"`
	IsActive       bool     `json:"is_active"`
}

// EmployeeOption is the slim shape used by frontend pickers.
type EmployeeOption struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}
