package models

type Category struct {
	ID   uint   `gorm:"primaryKey" json:"id"`
	Name string `gorm:"uniqueIndex;size:100;not null" json:"name"`
}

// PomodoroTask is a to-do item that accumulates focused time, in seconds.
type PomodoroTask struct {
	ID                uint      `gorm:"primaryKey" json:"id"`
	Title             string    `gorm:"size:200;not null" json:"title"`
	Completed         bool      `gorm:"default:false" json:"completed"`
	PomodoroTimeSpent int       `gorm:"default:0" json:"pomodoro_time_spent"`
	CategoryID        uint      `gorm:"not null;index" json:"category_id"`
	Category          *Category `gorm:"constraint:OnDelete:CASCADE;" json:"-"`
	CategoryName      string    `gorm:"-" json:"category_name"`
}

type PomodoroTaskPatch struct {
	Completed         *bool `json:"completed"`
	PomodoroTimeSpent *int  `json:"pomodoro_time_spent"`
}
