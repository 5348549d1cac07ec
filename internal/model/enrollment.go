package model

import "time"

// Enrollment links a student to a course. The composite unique index on
// (student_id, course_id) is the ledger's central invariant: at most one
// row per pair, enforced by the database at insert time.
type Enrollment struct {
	ID         uint      `json:"id" gorm:"primaryKey"`
	StudentID  uint      `json:"student_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	CourseID   uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_pair"`
	EnrolledAt time.Time `json:"enrolled_at" gorm:"autoCreateTime"`

	// Relations
	Student *User   `json:"student,omitempty" gorm:"foreignKey:StudentID"`
	Course  *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
}
