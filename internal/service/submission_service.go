package service

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/util"
	"gradebook_backend/pkg/database"

	"gorm.io/gorm"
)

type SubmissionService struct {
	SubmissionRepo *repository.SubmissionRepository
	AuditRepo      *repository.AuditRepository
	DB             *gorm.DB
}

func NewSubmissionService(submissionRepo *repository.SubmissionRepository, auditRepo *repository.AuditRepository, db *gorm.DB) *SubmissionService {
	return &SubmissionService{SubmissionRepo: submissionRepo, AuditRepo: auditRepo, DB: db}
}

type SubmitReq struct {
	PeriodID  string `json:"period_id" binding:"required"`
	ClassID   string `json:"class_id" binding:"required"`
	SubjectID string `json:"subject_id" binding:"required"`
	TeacherID string `json:"teacher_id" binding:"required"`
	Reason    string `json:"reason"`
}

// Submit 首次提交创建记录（count=1），重复提交要求非空原因并原子自增计数。
// 计数自增在行锁下完成，快速连续的重提交不会互相覆盖
func (s *SubmissionService) Submit(req SubmitReq, actorID string) (*model.GradePeriodSubmission, error) {
	var out *model.GradePeriodSubmission
	err := database.WithRetry(s.DB, func(tx *gorm.DB) error {
		existing, err := s.SubmissionRepo.FindScopeForUpdate(tx, req.PeriodID, req.ClassID, req.SubjectID, req.TeacherID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			now := time.Now()
			sub := &model.GradePeriodSubmission{
				PeriodID:        req.PeriodID,
				ClassID:         req.ClassID,
				SubjectID:       req.SubjectID,
				TeacherID:       req.TeacherID,
				Status:          model.SubmissionSubmitted,
				SubmissionCount: 1,
				SubmittedAt:     &now,
			}
			if err := s.SubmissionRepo.Create(tx, sub); err != nil {
				return err
			}

			entry := &model.AuditLogEntry{
				RecordID:       sub.ID,
				RecordTable:    sub.TableName(),
				Action:         model.AuditInsert,
				UserID:         actorID,
				NewValues:      jsonValues(map[string]interface{}{"status": sub.Status, "submission_count": sub.SubmissionCount}),
				ChangesSummary: "grades submitted",
			}
			if err := s.AuditRepo.Record(tx, entry); err != nil {
				return err
			}
			out = sub
			return nil
		}
		if err != nil {
			return err
		}

		if existing.Status == model.SubmissionSentToParent {
			return util.ErrSubmissionFinalized
		}
		if strings.TrimSpace(req.Reason) == "" {
			return util.ErrReasonRequired
		}

		oldStatus := existing.Status
		oldCount := existing.SubmissionCount
		now := time.Now()
		existing.SubmissionCount++
		existing.Status = model.SubmissionSubmitted
		existing.LastReason = req.Reason
		existing.SubmittedAt = &now
		if err := s.SubmissionRepo.Save(tx, existing); err != nil {
			return err
		}

		entry := &model.AuditLogEntry{
			RecordID:    existing.ID,
			RecordTable: existing.TableName(),
			Action:      model.AuditUpdate,
			UserID:      actorID,
			OldValues:   jsonValues(map[string]interface{}{"status": oldStatus, "submission_count": oldCount}),
			NewValues: jsonValues(map[string]interface{}{
				"status":           existing.Status,
				"submission_count": existing.SubmissionCount,
				"last_reason":      existing.LastReason,
			}),
			ChangesSummary: fmt.Sprintf("resubmitted (count %d -> %d)", oldCount, existing.SubmissionCount),
		}
		if err := s.AuditRepo.Record(tx, entry); err != nil {
			return err
		}
		out = existing
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Advance 管理端推进：submitted → sent_to_teacher → sent_to_parent，只许前进一步
func (s *SubmissionService) Advance(submissionID, targetStatus, actorID string) (*model.GradePeriodSubmission, error) {
	target := model.SubmissionStatus(targetStatus)
	if !target.Valid() {
		return nil, util.ErrInvalidTransition
	}

	var out *model.GradePeriodSubmission
	err := database.WithRetry(s.DB, func(tx *gorm.DB) error {
		sub, err := s.SubmissionRepo.FindForUpdate(tx, submissionID)
		if err != nil {
			return err
		}

		if target.Rank() != sub.Status.Rank()+1 || target.Rank() < model.SubmissionSentToTeacher.Rank() {
			return util.ErrInvalidTransition
		}

		oldStatus := sub.Status
		sub.Status = target
		if err := s.SubmissionRepo.Save(tx, sub); err != nil {
			return err
		}

		entry := &model.AuditLogEntry{
			RecordID:       sub.ID,
			RecordTable:    sub.TableName(),
			Action:         model.AuditUpdate,
			UserID:         actorID,
			OldValues:      jsonValues(map[string]interface{}{"status": oldStatus}),
			NewValues:      jsonValues(map[string]interface{}{"status": target}),
			ChangesSummary: fmt.Sprintf("submission status: %s -> %s", oldStatus, target),
		}
		if err := s.AuditRepo.Record(tx, entry); err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ResetToDraft 管理员专用的后退操作，作为独立事件记入审计
func (s *SubmissionService) ResetToDraft(submissionID, actorID, reason string) (*model.GradePeriodSubmission, error) {
	var out *model.GradePeriodSubmission
	err := database.WithRetry(s.DB, func(tx *gorm.DB) error {
		sub, err := s.SubmissionRepo.FindForUpdate(tx, submissionID)
		if err != nil {
			return err
		}

		if sub.Status == model.SubmissionDraft {
			out = sub
			return nil
		}

		oldStatus := sub.Status
		sub.Status = model.SubmissionDraft
		if err := s.SubmissionRepo.Save(tx, sub); err != nil {
			return err
		}

		summary := "submission reset to draft"
		if strings.TrimSpace(reason) != "" {
			summary = fmt.Sprintf("submission reset to draft: %s", reason)
		}
		entry := &model.AuditLogEntry{
			RecordID:       sub.ID,
			RecordTable:    sub.TableName(),
			Action:         model.AuditUpdate,
			UserID:         actorID,
			OldValues:      jsonValues(map[string]interface{}{"status": oldStatus}),
			NewValues:      jsonValues(map[string]interface{}{"status": model.SubmissionDraft}),
			ChangesSummary: summary,
		}
		if err := s.AuditRepo.Record(tx, entry); err != nil {
			return err
		}
		out = sub
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *SubmissionService) GetSubmission(id string) (*model.GradePeriodSubmission, error) {
	return s.SubmissionRepo.FindByID(id)
}

func (s *SubmissionService) GetByScope(periodID, classID, subjectID, teacherID string) (*model.GradePeriodSubmission, error) {
	return s.SubmissionRepo.FindByScope(periodID, classID, subjectID, teacherID)
}
