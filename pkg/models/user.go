package models

// Identity is the profile returned by an authentication provider.
type Identity struct {
	ID      string `json:"id,omitempty"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture,omitempty"`
	// Token is the signed session token issued after login.
	Token string `json:"token,omitempty"`
}
