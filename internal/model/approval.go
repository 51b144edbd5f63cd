package model

import "time"

type ApprovalStatus string

const (
	ApprovalPending  ApprovalStatus = "pending"
	ApprovalApproved ApprovalStatus = "approved"
	ApprovalRejected ApprovalStatus = "rejected"
)

func (s ApprovalStatus) Valid() bool {
	switch s {
	case ApprovalPending, ApprovalApproved, ApprovalRejected:
		return true
	}
	return false
}

// Decided 审批一旦批准或驳回即为终态
func (s ApprovalStatus) Decided() bool {
	return s == ApprovalApproved || s == ApprovalRejected
}

// swagger:model GradeOverwriteApproval
type GradeOverwriteApproval struct {
	UUIDBase
	GradeID     string         `gorm:"type:varchar(36);not null;index" json:"gradeId"`
	RequestedBy string         `gorm:"type:varchar(36);not null" json:"requestedBy"`
	OldValue    *float64       `json:"oldValue"`
	NewValue    *float64       `json:"newValue"`
	Reason      string         `gorm:"type:text;not null" json:"reason"`
	Status      ApprovalStatus `gorm:"size:20;not null;default:'pending';index" json:"status"`
	ApprovedBy  string         `gorm:"type:varchar(36)" json:"approvedBy,omitempty"`
	ApprovedAt  *time.Time     `json:"approvedAt,omitempty"`
}

func (GradeOverwriteApproval) TableName() string {
	return "grade_overwrite_approvals"
}
