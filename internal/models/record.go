package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TrackerRecord marks a tracker as completed on one calendar day. Date
// is stored normalized to midnight UTC so same-day comparison is plain
// equality; at most one record exists per (tracker, day).
type TrackerRecord struct {
	ID        uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	TrackerID uuid.UUID `json:"trackerId" gorm:"type:uuid;index;not null"`
	Date      time.Time `json:"date" gorm:"index;not null"`
	CreatedAt time.Time `json:"createdAt"`
}

func (r *TrackerRecord) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// DayOf truncates a timestamp to its calendar day at midnight UTC.
func DayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

type ToggleCompletionRequest struct {
	Date string `json:"date"` // YYYY-MM-DD
}
