package dto

import "invoicedesk/internal/domain/auth"

// LoginRequest for admin login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// ToCredentials converts to domain credentials.
func (r *LoginRequest) ToCredentials() auth.Credentials {
	return auth.Credentials{
		Username: r.Username,
		Password: r.Password,
	}
}

// AuthStatusResponse reports the flag.
type AuthStatusResponse struct {
	Authenticated bool `json:"authenticated"`
}
