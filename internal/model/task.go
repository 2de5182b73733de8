package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// TaskStatus is the closed set of task states. Any state may move to any other.
type TaskStatus string

const (
	StatusPending    TaskStatus = "Pending"
	StatusInProgress TaskStatus = "InProgress"
	StatusDone       TaskStatus = "Done"
)

func (s TaskStatus) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusDone:
		return true
	}
	return false
}

const (
	MaxTitleLength       = 100
	MaxDescriptionLength = 500
)

type Task struct {
	ID              uuid.UUID  `gorm:"size:36;primaryKey"`
	Title           string     `gorm:"size:100;not null"`
	Description     string     `gorm:"size:500"`
	Status          TaskStatus `gorm:"size:20;not null;index"`
	CreatedAt       time.Time  `gorm:"not null;index"`
	CreatedByUserID uuid.UUID  `gorm:"size:36;not null;index"`

	// Owner is immutable; deleting a user who still owns tasks is refused.
	CreatedBy *User `gorm:"foreignKey:CreatedByUserID;constraint:OnUpdate:CASCADE,OnDelete:RESTRICT"`
}

func (t *Task) BeforeCreate(tx *gorm.DB) error {
	if t.ID == uuid.Nil {
		t.ID = uuid.New()
	}
	return nil
}

// OwnedBy reports whether userID created the task.
func (t *Task) OwnedBy(userID uuid.UUID) bool {
	return t.CreatedByUserID == userID
}
