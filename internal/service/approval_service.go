package service

import (
	"fmt"
	"strings"
	"time"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/util"
	"gradebook_backend/pkg/database"

	"gorm.io/gorm"
)

type ApprovalService struct {
	ApprovalRepo *repository.ApprovalRepository
	GradeRepo    *repository.GradeRepository
	PeriodRepo   *repository.PeriodRepository
	AuditRepo    *repository.AuditRepository
	Grades       *GradeService
	DB           *gorm.DB
}

func NewApprovalService(approvalRepo *repository.ApprovalRepository, gradeRepo *repository.GradeRepository, periodRepo *repository.PeriodRepository, auditRepo *repository.AuditRepository, grades *GradeService, db *gorm.DB) *ApprovalService {
	return &ApprovalService{
		ApprovalRepo: approvalRepo,
		GradeRepo:    gradeRepo,
		PeriodRepo:   periodRepo,
		AuditRepo:    auditRepo,
		Grades:       grades,
		DB:           db,
	}
}

type RequestOverwriteReq struct {
	GradeID  string   `json:"grade_id" binding:"required"`
	NewValue *float64 `json:"new_value"`
	Reason   string   `json:"reason" binding:"required"`
}

// Request 只有所属周期处于 closed 时才允许申请覆盖；
// 周期可编辑时应直接走成绩写入
func (s *ApprovalService) Request(req RequestOverwriteReq, actorID string) (*model.GradeOverwriteApproval, error) {
	if !model.ValidGradeValue(req.NewValue) {
		return nil, util.ErrOutOfRange
	}
	if strings.TrimSpace(req.Reason) == "" {
		return nil, util.ErrReasonRequired
	}

	var out *model.GradeOverwriteApproval
	err := database.WithRetry(s.DB, func(tx *gorm.DB) error {
		grade, err := s.GradeRepo.FindForUpdate(tx, req.GradeID)
		if err != nil {
			return err
		}
		period, err := s.PeriodRepo.FindTx(tx, grade.PeriodID)
		if err != nil {
			return err
		}
		if period.Status != model.PeriodClosed {
			return util.ErrApprovalNotRequired
		}

		// old_value 是申请时刻的快照，审批时用它检测并发写入
		a := &model.GradeOverwriteApproval{
			GradeID:     grade.ID,
			RequestedBy: actorID,
			OldValue:    grade.GradeValue,
			NewValue:    req.NewValue,
			Reason:      req.Reason,
			Status:      model.ApprovalPending,
		}
		if err := s.ApprovalRepo.Create(tx, a); err != nil {
			return err
		}

		entry := &model.AuditLogEntry{
			RecordID:    a.ID,
			RecordTable: a.TableName(),
			Action:      model.AuditInsert,
			UserID:      actorID,
			NewValues: jsonValues(map[string]interface{}{
				"grade_id":  a.GradeID,
				"old_value": a.OldValue,
				"new_value": a.NewValue,
				"status":    a.Status,
				"reason":    a.Reason,
			}),
			ChangesSummary: fmt.Sprintf("overwrite requested: %s -> %s", fmtGradeValue(a.OldValue), fmtGradeValue(a.NewValue)),
		}
		if err := s.AuditRepo.Record(tx, entry); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// Decide 批准或驳回一个待处理的覆盖申请。批准时先用快照校验成绩没有被
// 并发改写（StaleApproval），再走成绩写入的旁路路径，全部在一个事务里
func (s *ApprovalService) Decide(approvalID, decision, approverID string) (*model.GradeOverwriteApproval, error) {
	target := model.ApprovalStatus(decision)
	if target != model.ApprovalApproved && target != model.ApprovalRejected {
		return nil, util.ErrInvalidDecision
	}

	var out *model.GradeOverwriteApproval
	err := database.WithRetry(s.DB, func(tx *gorm.DB) error {
		a, err := s.ApprovalRepo.FindForUpdate(tx, approvalID)
		if err != nil {
			return err
		}
		if a.Status.Decided() {
			return util.ErrAlreadyDecided
		}

		if target == model.ApprovalApproved {
			grade, err := s.GradeRepo.FindForUpdate(tx, a.GradeID)
			if err != nil {
				return err
			}
			if !sameGradeValue(grade.GradeValue, a.OldValue) {
				return util.ErrStaleApproval
			}

			setReq := SetGradeReq{
				PeriodID:      grade.PeriodID,
				StudentID:     grade.StudentID,
				SubjectID:     grade.SubjectID,
				ClassID:       grade.ClassID,
				ComponentType: string(grade.ComponentType),
				GradeValue:    a.NewValue,
			}
			if _, err := s.Grades.setGradeTx(tx, setReq, approverID, true); err != nil {
				return err
			}
		}

		now := time.Now()
		a.Status = target
		a.ApprovedBy = approverID
		a.ApprovedAt = &now
		if err := s.ApprovalRepo.Save(tx, a); err != nil {
			return err
		}

		entry := &model.AuditLogEntry{
			RecordID:    a.ID,
			RecordTable: a.TableName(),
			Action:      model.AuditUpdate,
			UserID:      approverID,
			OldValues:   jsonValues(map[string]interface{}{"status": model.ApprovalPending}),
			NewValues: jsonValues(map[string]interface{}{
				"status":      target,
				"approved_by": approverID,
			}),
			ChangesSummary: fmt.Sprintf("overwrite request %s", target),
		}
		if err := s.AuditRepo.Record(tx, entry); err != nil {
			return err
		}
		out = a
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (s *ApprovalService) GetApproval(id string) (*model.GradeOverwriteApproval, error) {
	return s.ApprovalRepo.FindByID(id)
}

func (s *ApprovalService) ListApprovals(status string, page, limit int) ([]model.GradeOverwriteApproval, int64, error) {
	st := model.ApprovalStatus(status)
	if status != "" && !st.Valid() {
		return nil, 0, util.ErrInvalidDecision
	}
	return s.ApprovalRepo.ListByStatus(st, page, limit)
}

func (s *ApprovalService) ListForGrade(gradeID string) ([]model.GradeOverwriteApproval, error) {
	return s.ApprovalRepo.ListByGrade(gradeID)
}
