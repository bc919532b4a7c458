package model

import (
	"time"
)

// Course is the course record created together with its Student in one
// transaction. The schema allows many per student but the workflow only ever
// creates one.
type Course struct {
	ID        uint `gorm:"primaryKey" json:"id"`
	StudentID uint `gorm:"not null;index" json:"studentId"`

	CourseName string  `gorm:"size:255;not null" json:"courseName"`
	Subjects   string  `gorm:"size:255;not null" json:"subjects"`
	Grade      *string `gorm:"size:5" json:"grade"`
	Percentage *string `gorm:"size:5" json:"percentage"`

	// CourseDuration holds the formatted session range label, e.g.
	// "Jan 2024 - Jun 2024".
	CourseDuration string `gorm:"size:255;not null" json:"courseDuration"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (Course) TableName() string {
	return "courses"
}
