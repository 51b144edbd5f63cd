package model

import "time"

type SubmissionStatus string

const (
	SubmissionDraft         SubmissionStatus = "draft"
	SubmissionSubmitted     SubmissionStatus = "submitted"
	SubmissionSentToTeacher SubmissionStatus = "sent_to_teacher"
	SubmissionSentToParent  SubmissionStatus = "sent_to_parent"
)

func (s SubmissionStatus) Valid() bool {
	switch s {
	case SubmissionDraft, SubmissionSubmitted, SubmissionSentToTeacher, SubmissionSentToParent:
		return true
	}
	return false
}

// Rank 用于前进式状态推进的比较；draft 最低，sent_to_parent 终态
func (s SubmissionStatus) Rank() int {
	switch s {
	case SubmissionDraft:
		return 0
	case SubmissionSubmitted:
		return 1
	case SubmissionSentToTeacher:
		return 2
	case SubmissionSentToParent:
		return 3
	}
	return -1
}

// swagger:model GradePeriodSubmission
type GradePeriodSubmission struct {
	UUIDBase
	PeriodID        string           `gorm:"type:varchar(36);not null;uniqueIndex:uidx_submission_scope,priority:1" json:"periodId"`
	ClassID         string           `gorm:"type:varchar(36);not null;uniqueIndex:uidx_submission_scope,priority:2" json:"classId"`
	SubjectID       string           `gorm:"type:varchar(36);not null;uniqueIndex:uidx_submission_scope,priority:3" json:"subjectId"`
	TeacherID       string           `gorm:"type:varchar(36);not null;uniqueIndex:uidx_submission_scope,priority:4" json:"teacherId"`
	Status          SubmissionStatus `gorm:"size:20;not null;default:'draft'" json:"status"`
	SubmissionCount int              `gorm:"not null;default:0" json:"submissionCount"`
	LastReason      string           `gorm:"type:text" json:"lastReason,omitempty"`
	SubmittedAt     *time.Time       `json:"submittedAt,omitempty"`
}

func (GradePeriodSubmission) TableName() string {
	return "grade_period_submissions"
}
