package model

import (
	"time"
)

// Franchise status values. Transitions: pending → approved (approve),
// approved ↔ rejected (suspend toggle).
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

type Franchise struct {
	ID            uint   `gorm:"primaryKey" json:"id"`
	Name          string `gorm:"size:100;not null" json:"name"`
	Email         string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	InstituteName string `gorm:"size:100;not null" json:"instituteName"`
	Address       string `gorm:"type:text" json:"address"`
	Pincode       string `gorm:"size:20" json:"pincode"`
	Town          string `gorm:"size:100" json:"town"`
	City          string `gorm:"size:100" json:"city"`
	State         string `gorm:"size:100" json:"state"`
	Country       string `gorm:"size:100" json:"country"`
	Phone         string `gorm:"size:20" json:"phone"`

	TotalCoverArea string `gorm:"size:50" json:"totalCoverArea"`
	TotalComputer  string `gorm:"size:50" json:"totalComputer"`
	TotalStaff     string `gorm:"size:50" json:"totalStaff"`

	Password string `gorm:"size:255" json:"-"`
	Status   string `gorm:"size:20;default:pending" json:"status"`

	// Code is assigned from the generated ID right after insert and never
	// changes afterwards.
	Code *string `gorm:"size:20;uniqueIndex" json:"code"`

	SecretarySign   *string `gorm:"type:text" json:"secretarySign,omitempty"`
	InvigilatorSign *string `gorm:"type:text" json:"invigilatorSign,omitempty"`
	ExaminerSign    *string `gorm:"type:text" json:"examinerSign,omitempty"`

	Students []Student `gorm:"foreignKey:FranchiseID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"students,omitempty"`
	User     *User     `gorm:"foreignKey:FranchiseID;constraint:OnDelete:SET NULL" json:"user,omitempty"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
