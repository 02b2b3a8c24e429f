package cases

import "time"

// Case represents a tracked legal case.
type Case struct {
	ID        string
	Slug      string
	Title     string
	Summary   string
	Status    string
	FiledAt   time.Time
	CreatedBy string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Case statuses.
const (
	StatusFiled    = "filed"
	StatusHearing  = "hearing"
	StatusVerdict  = "verdict"
	StatusArchived = "archived"
)
