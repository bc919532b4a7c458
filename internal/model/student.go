package model

import (
	"time"
)

const StudentStatusActive = "active"

type Student struct {
	ID          uint   `gorm:"primaryKey" json:"id"`
	StudentName string `gorm:"size:100;not null" json:"studentName"`

	GuardianType string `gorm:"size:50" json:"guardianType"`
	Gender       string `gorm:"size:20" json:"gender"`
	FatherName   string `gorm:"size:100" json:"fatherName"`
	DOB          string `gorm:"size:10" json:"dob"`

	PinCode  string `gorm:"size:20" json:"pinCode"`
	Town     string `gorm:"size:100" json:"town"`
	District string `gorm:"size:100" json:"district"`
	State    string `gorm:"size:100" json:"state"`

	IDProof  string `gorm:"size:50" json:"idProof"`
	IDNumber string `gorm:"size:50" json:"idNumber"`

	ImageUpload *string `gorm:"type:text" json:"imageUpload,omitempty"`

	Phone    string `gorm:"size:20" json:"phone"`
	Email    string `gorm:"size:100" json:"email"`
	Password string `gorm:"size:255" json:"-"`

	Status string `gorm:"size:20;default:active" json:"status"`

	// EnrollNumber and RollNumber are assigned from the generated ID right
	// after insert, inside the same transaction, and never change.
	EnrollNumber *string `gorm:"size:20;uniqueIndex" json:"enrollNumber"`
	RollNumber   *string `gorm:"size:20;uniqueIndex" json:"rollNumber"`

	FranchiseID *uint      `json:"franchise_id"`
	Franchise   *Franchise `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"franchise,omitempty"`

	Course *Course `gorm:"foreignKey:StudentID" json:"course,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
