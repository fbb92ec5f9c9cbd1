package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Tracker struct {
	ID         uuid.UUID `json:"id" gorm:"type:uuid;primaryKey"`
	Name       string    `json:"name" gorm:"not null"`
	Emoji      string    `json:"emoji" gorm:"not null"`
	Color      string    `json:"color" gorm:"not null"` // "#RRGGBB", uppercase
	Schedule   Schedule  `json:"schedule" gorm:"type:text;not null"`
	IsPinned   bool      `json:"isPinned" gorm:"default:false"`
	CategoryID uuid.UUID `json:"categoryId" gorm:"type:uuid;index;not null"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
	Category   *Category `json:"-" gorm:"foreignKey:CategoryID"`
}

func (t *Tracker) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// TrackerSection is one section of the grouped tracker list: the
// synthetic pinned group first when non-empty, then one section per
// category that still has unpinned trackers.
type TrackerSection struct {
	Title    string    `json:"title"`
	Pinned   bool      `json:"pinned"`
	Trackers []Tracker `json:"trackers"`
}

// Tracker DTOs
type CreateTrackerRequest struct {
	Name          string   `json:"name"`
	Emoji         string   `json:"emoji"`
	Color         string   `json:"color"`
	Schedule      Schedule `json:"schedule"`
	CategoryTitle string   `json:"categoryTitle"`
}

type UpdateTrackerRequest struct {
	Name          *string   `json:"name"`
	Emoji         *string   `json:"emoji"`
	Color         *string   `json:"color"`
	Schedule      *Schedule `json:"schedule"`
	IsPinned      *bool     `json:"isPinned"`
	CategoryTitle *string   `json:"categoryTitle"`
}

type SetPinnedRequest struct {
	IsPinned bool `json:"isPinned"`
}
