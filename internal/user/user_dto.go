package user

type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     string `json:"role" binding:"omitempty,oneof=admin employee"`
}

type UpdateUserRequest struct {
	Email    string  `json:"email" binding:"required,email"`
	Password *string `json:"password" binding:"omitempty,min=8"`
	Role     string  `json:"role" binding:"omitempty,oneof=admin employee"`
	IsActive *bool   `json:"is_active"`
}

type UserResponse struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
	IsActive bool   `json:"is_active"`
}
