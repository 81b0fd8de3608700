package entities

import "time"

type Position struct {
	PositionID   string
	ElectionID   string
	Title        string
	DisplayOrder int
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// GeneralBucketTitle and GeneralBucketOrder describe the synthetic results
// bucket that collects candidates without an assigned position.
const (
	GeneralBucketTitle = "General"
	GeneralBucketOrder = 999
)
