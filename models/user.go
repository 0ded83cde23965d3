package models

// UserProfile is the authenticated caller as carried by the bearer token.
type UserProfile struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar,omitempty"`
}
