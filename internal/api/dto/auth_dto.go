package dto

// LoginRequest payload.
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// MessageResponse is returned by the cookie-setting auth endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}

// MeResponse describes the authenticated administrator.
type MeResponse struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name"`
}
