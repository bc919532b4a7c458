package model

import (
	"time"
)

const (
	RoleAdmin     = "admin"
	RoleFranchise = "franchise"
)

// User is the authentication record. It is kept separate from Franchise so
// the same table serves admin and franchise logins; a franchise user is
// created exactly once, when the franchise is approved.
type User struct {
	ID       uint   `gorm:"primaryKey" json:"id"`
	Email    string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	Password string `gorm:"size:255;not null" json:"-"`
	Role     string `gorm:"size:20;default:franchise" json:"role"`

	FranchiseID *uint      `json:"franchise_id"`
	Franchise   *Franchise `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"franchise,omitempty"`

	MustChangePassword bool `gorm:"default:false" json:"must_change_password"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
