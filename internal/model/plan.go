package model

import "time"

// Plan is one day's schedule for a user. Tasks keep insertion order
// (primary key order); consumers sort by time themselves.
type Plan struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	UserID    uint      `gorm:"index" json:"userId"`
	Title     string    `json:"title"`
	Date      time.Time `gorm:"index" json:"date"`
	AISummary string    `gorm:"column:ai_summary" json:"aiGeneratedSummary"`
	CreatedAt time.Time `json:"-"`
	UpdatedAt time.Time `json:"-"`
	Tasks     []Task    `gorm:"foreignKey:PlanID;constraint:OnDelete:CASCADE" json:"tasks"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
}

// Task is a single timed item inside a plan. Time is the canonical
// zero-padded 24-hour "HH:mm" string, or the raw input when it could
// not be normalized. UserID and Date are denormalized copies of the
// owning plan's fields so the unique index can reject a second task at
// the same time for the same user and day at the storage layer.
type Task struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	PlanID      uint   `gorm:"index" json:"-"`
	UserID      uint   `gorm:"index:idx_user_day_time,unique" json:"-"`
	Date        string `gorm:"index:idx_user_day_time,unique" json:"-"`
	Time        string `gorm:"index:idx_user_day_time,unique" json:"time"`
	Description string `json:"description"`
	IsCompleted bool   `gorm:"default:false" json:"isCompleted"`
}
