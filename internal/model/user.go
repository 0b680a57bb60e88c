package model

import "time"

// User is an account of the planner. TelegramID is set once the account is
// linked to a Telegram chat.
type User struct {
	ID             uint       `gorm:"primaryKey" json:"id"`
	Email          string     `gorm:"uniqueIndex;not null" json:"email"`
	PasswordDigest string     `gorm:"not null" json:"-"`
	TelegramID     *int64     `gorm:"uniqueIndex" json:"-"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	Categories     []Category `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
	Tasks          []Task     `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
