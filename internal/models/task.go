package models

import (
	"encoding/json"
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `json:"description"`
	Status      string         `gorm:"default:'pending'" json:"status"`  // pending, in_progress, completed
	Priority    string         `gorm:"default:'medium'" json:"priority"` // low, medium, high
	ProjectID   *uint          `gorm:"index" json:"project_id"`
	Project     *Project       `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	AssigneeID  *uint          `gorm:"index" json:"assignee_id"`
	Assignee    *User          `gorm:"constraint:OnDelete:SET NULL;" json:"-"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`
}

type TaskPatch struct {
	Title       *string    `json:"title"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"`
	Priority    *string    `json:"priority"`
	ProjectID   OptionalID `json:"project_id"`
	AssigneeID  OptionalID `json:"assignee_id"`
}

// OptionalID is a reference in a partial update. Set is false when the field
// was absent; Set with a nil Value means an explicit null.
type OptionalID struct {
	Set   bool
	Value *uint
}

func (o *OptionalID) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	var id uint
	if err := json.Unmarshal(b, &id); err != nil {
		return err
	}
	o.Value = &id
	return nil
}
