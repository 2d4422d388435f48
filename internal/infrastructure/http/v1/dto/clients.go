package dto

// CreateClientRequest is stored as received; empty fields are accepted.
type CreateClientRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}
