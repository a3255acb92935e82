package dto

// ContactRequest payload for a storefront inquiry.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Message string `json:"message"`
}
