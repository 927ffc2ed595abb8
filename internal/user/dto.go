package user

// CreateUserRequest payload of creation.
// swagger:model CreateUserRequest
type CreateUserRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255" example:"cashier@kasir.test"`
	Name     string `json:"name"     validate:"required,max=100"       example:"Siti"`
	Password string `json:"password" validate:"required,min=8,max=16"  example:"secret123"`
	Role     string `json:"role"     validate:"required,max=50"        example:"staff"`
}

// UpdateUserRequest replaces every mutable field; the password is untouched.
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Email string `json:"email" validate:"required,email,max=255"`
	Name  string `json:"name"  validate:"required,max=100"`
	Role  string `json:"role"  validate:"required,max=50"`
}

// LoginRequest credentials for POST /login.
// swagger:model LoginRequest
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email" example:"admin@kasir.test"`
	Password string `json:"password" validate:"required"       example:"secret123"`
}
