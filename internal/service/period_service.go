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

type PeriodService struct {
	PeriodRepo *repository.PeriodRepository
	AuditRepo  *repository.AuditRepository
	DB         *gorm.DB
}

func NewPeriodService(periodRepo *repository.PeriodRepository, auditRepo *repository.AuditRepository, db *gorm.DB) *PeriodService {
	return &PeriodService{PeriodRepo: periodRepo, AuditRepo: auditRepo, DB: db}
}

type CreatePeriodReq struct {
	Name           string    `json:"name" binding:"required"`
	PeriodType     string    `json:"period_type" binding:"required"`
	AcademicYearID string    `json:"academic_year_id"`
	SemesterID     string    `json:"semester_id"`
	StartDate      time.Time `json:"start_date"`
	EndDate        time.Time `json:"end_date"`
	ImportDeadline time.Time `json:"import_deadline"`
}

// 日期先后关系由上游校验，这里只负责生命周期字段
func (s *PeriodService) CreatePeriod(req CreatePeriodReq) (*model.GradeReportingPeriod, error) {
	pt := model.PeriodType(req.PeriodType)
	if !pt.Valid() {
		return nil, util.ErrUnknownPeriodType
	}

	p := &model.GradeReportingPeriod{
		Name:           req.Name,
		PeriodType:     pt,
		AcademicYearID: req.AcademicYearID,
		SemesterID:     req.SemesterID,
		StartDate:      req.StartDate,
		EndDate:        req.EndDate,
		ImportDeadline: req.ImportDeadline,
		Status:         model.PeriodOpen,
	}
	if err := s.PeriodRepo.Create(p); err != nil {
		return nil, err
	}
	return p, nil
}

// Transition 执行周期状态迁移：open→closed→reopened→closed 循环。
// 迁移到当前状态是幂等的成功；reopened 必须带非空原因。
func (s *PeriodService) Transition(periodID, targetStatus, actorID, reason string) (*model.GradeReportingPeriod, error) {
	target := model.PeriodStatus(targetStatus)
	if !target.Valid() {
		return nil, util.ErrInvalidTransition
	}

	var out *model.GradeReportingPeriod
	err := database.WithRetry(s.DB, func(tx *gorm.DB) error {
		p, err := s.PeriodRepo.FindForUpdate(tx, periodID)
		if err != nil {
			return err
		}

		// 幂等：目标即当前状态，不写任何字段
		if p.Status == target {
			out = p
			return nil
		}

		if !transitionAllowed(p.Status, target) {
			return util.ErrInvalidTransition
		}
		if target == model.PeriodReopened && strings.TrimSpace(reason) == "" {
			return util.ErrReasonRequired
		}

		oldStatus := p.Status
		now := time.Now()
		p.Status = target
		p.StatusChangedBy = actorID
		p.StatusChangedAt = &now
		if strings.TrimSpace(reason) != "" {
			r := reason
			p.StatusReason = &r
		} else {
			p.StatusReason = nil
		}

		if err := s.PeriodRepo.Save(tx, p); err != nil {
			return err
		}

		entry := &model.AuditLogEntry{
			RecordID:       p.ID,
			RecordTable:    p.TableName(),
			Action:         model.AuditUpdate,
			UserID:         actorID,
			OldValues:      jsonValues(map[string]interface{}{"status": oldStatus}),
			NewValues:      jsonValues(map[string]interface{}{"status": target, "status_reason": p.StatusReason}),
			ChangesSummary: fmt.Sprintf("period status: %s -> %s", oldStatus, target),
		}
		if err := s.AuditRepo.Record(tx, entry); err != nil {
			return err
		}

		out = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

func transitionAllowed(current, target model.PeriodStatus) bool {
	switch current {
	case model.PeriodOpen:
		return target == model.PeriodClosed
	case model.PeriodClosed:
		return target == model.PeriodReopened
	case model.PeriodReopened:
		return target == model.PeriodClosed
	}
	return false
}

func (s *PeriodService) GetPeriod(id string) (*model.GradeReportingPeriod, error) {
	return s.PeriodRepo.FindByID(id)
}

func (s *PeriodService) ListPeriods(page, limit int) ([]model.GradeReportingPeriod, int64, error) {
	return s.PeriodRepo.List(page, limit)
}
