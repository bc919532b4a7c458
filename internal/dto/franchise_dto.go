package dto

import "eonestep.com/institutebackend/internal/model"

// ApplyFranchiseInput is bound from the public multipart application form.
// The three signature images travel as separate file fields.
type ApplyFranchiseInput struct {
	Name          string `form:"name" json:"name" binding:"required"`
	Email         string `form:"email" json:"email" binding:"required,email"`
	InstituteName string `form:"instituteName" json:"instituteName" binding:"required"`

	Address string `form:"address" json:"address"`
	Pincode string `form:"pincode" json:"pincode"`
	Town    string `form:"town" json:"town"`
	City    string `form:"city" json:"city"`
	State   string `form:"state" json:"state"`
	Country string `form:"country" json:"country"`
	Phone   string `form:"phone" json:"phone"`

	TotalCoverArea string `form:"totalCoverArea" json:"totalCoverArea"`
	TotalComputer  string `form:"totalComputer" json:"totalComputer"`
	TotalStaff     string `form:"totalStaff" json:"totalStaff"`
}

// UpdateFranchiseInput carries the coalesce-on-blank partial update: blank
// fields keep the stored value.
type UpdateFranchiseInput struct {
	Name          string `form:"name" json:"name"`
	InstituteName string `form:"instituteName" json:"instituteName"`
	Address       string `form:"address" json:"address"`
	Pincode       string `form:"pincode" json:"pincode"`
	Town          string `form:"town" json:"town"`
	City          string `form:"city" json:"city"`
	State         string `form:"state" json:"state"`
	Country       string `form:"country" json:"country"`
	Phone         string `form:"phone" json:"phone"`

	TotalCoverArea string `form:"totalCoverArea" json:"totalCoverArea"`
	TotalComputer  string `form:"totalComputer" json:"totalComputer"`
	TotalStaff     string `form:"totalStaff" json:"totalStaff"`
}

type HardPasswordResetInput struct {
	NewPassword string `json:"newPassword" binding:"required,min=8"`
}

// FranchiseListData is the admin dashboard payload: all franchises plus the
// headline counters.
type FranchiseListData struct {
	Franchises         []model.Franchise `json:"Franchises"`
	ApprovedFranchises int64             `json:"approvedFranchises"`
	PendingFranchises  int64             `json:"pendingFranchises"`
	TotalFranchises    int64             `json:"totalFranchises"`
	TotalStudents      int64             `json:"totalStudents"`
}
