package models

// UserFromAuth only use in middleware
type UserFromAuth struct {
	ID       string `json:"id"`
	Username string `json:"username"`
}
