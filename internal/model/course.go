package model

import "time"

// Course represents a course offering students can enroll in.
type Course struct {
	ID          uint      `json:"id" gorm:"primaryKey"`
	Code        string    `json:"code" gorm:"uniqueIndex;size:50;not null"`
	Name        string    `json:"name" gorm:"size:255;not null;index"`
	Duration    int       `json:"duration" gorm:"not null"` // weeks
	Description string    `json:"description" gorm:"type:text"`
	Active      bool      `json:"active" gorm:"default:true;index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}
