package model

import "time"

type PeriodStatus string

const (
	PeriodOpen     PeriodStatus = "open"
	PeriodClosed   PeriodStatus = "closed"
	PeriodReopened PeriodStatus = "reopened"
)

func (s PeriodStatus) Valid() bool {
	switch s {
	case PeriodOpen, PeriodClosed, PeriodReopened:
		return true
	}
	return false
}

// Editable 返回该状态下教师是否可以直接写成绩
func (s PeriodStatus) Editable() bool {
	return s == PeriodOpen || s == PeriodReopened
}

type PeriodType string

const (
	PeriodTypeMidterm  PeriodType = "midterm"
	PeriodTypeSemester PeriodType = "semester"
	PeriodTypeYearly   PeriodType = "yearly"
)

func (t PeriodType) Valid() bool {
	switch t {
	case PeriodTypeMidterm, PeriodTypeSemester, PeriodTypeYearly:
		return true
	}
	return false
}

// swagger:model GradeReportingPeriod
type GradeReportingPeriod struct {
	UUIDBase
	Name            string       `gorm:"size:255;not null" json:"name"`
	PeriodType      PeriodType   `gorm:"size:20;not null" json:"periodType"`
	AcademicYearID  string       `gorm:"index;type:varchar(36)" json:"academicYearId"`
	SemesterID      string       `gorm:"index;type:varchar(36)" json:"semesterId"`
	StartDate       time.Time    `json:"startDate"`
	EndDate         time.Time    `json:"endDate"`
	ImportDeadline  time.Time    `json:"importDeadline"`
	Status          PeriodStatus `gorm:"size:20;not null;default:'open'" json:"status"`
	StatusReason    *string      `gorm:"type:text" json:"statusReason,omitempty"`
	StatusChangedBy string       `gorm:"type:varchar(36)" json:"statusChangedBy,omitempty"`
	StatusChangedAt *time.Time   `json:"statusChangedAt,omitempty"`
}

func (GradeReportingPeriod) TableName() string {
	return "grade_reporting_periods"
}
