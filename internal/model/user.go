package model

import "time"

// User is an account that owns daily plans. PushToken holds the Expo
// push endpoint the mobile client registered, empty until it does.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `json:"name"`
	Email     string    `gorm:"uniqueIndex" json:"email"`
	Password  string    `json:"-"` // bcrypt hash
	PushToken string    `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"-"`
	Plans     []Plan    `gorm:"foreignKey:UserID" json:"-"`
}
