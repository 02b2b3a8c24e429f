package users

import "time"

// User represents a user account for administration screens.
type User struct {
	ID        string
	Email     string
	Name      string
	Roles     []string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
