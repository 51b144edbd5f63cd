package service

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/repository"
	"gradebook_backend/internal/util"
	"gradebook_backend/pkg/database"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type GradeService struct {
	GradeRepo  *repository.GradeRepository
	PeriodRepo *repository.PeriodRepository
	AuditRepo  *repository.AuditRepository
	DB         *gorm.DB
}

func NewGradeService(gradeRepo *repository.GradeRepository, periodRepo *repository.PeriodRepository, auditRepo *repository.AuditRepository, db *gorm.DB) *GradeService {
	return &GradeService{GradeRepo: gradeRepo, PeriodRepo: periodRepo, AuditRepo: auditRepo, DB: db}
}

type SetGradeReq struct {
	PeriodID      string   `json:"period_id" binding:"required"`
	StudentID     string   `json:"student_id" binding:"required"`
	SubjectID     string   `json:"subject_id" binding:"required"`
	ClassID       string   `json:"class_id" binding:"required"`
	ComponentType string   `json:"component_type" binding:"required"`
	GradeValue    *float64 `json:"grade_value"`
}

// SetGrade 写入或覆盖一个成绩分量。成绩行从不物理删除，清除即写入 null。
func (s *GradeService) SetGrade(req SetGradeReq, actorID string) (*model.DetailedGrade, error) {
	var out *model.DetailedGrade
	err := database.WithRetry(s.DB, func(tx *gorm.DB) error {
		g, err := s.setGradeTx(tx, req, actorID, false)
		if err != nil {
			return err
		}
		out = g
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// setGradeTx 在调用方事务里执行单个成绩写入。bypassPeriodGate 仅供
// 审批通过后的覆盖路径使用，审批流程已经完成了自己的门禁
func (s *GradeService) setGradeTx(tx *gorm.DB, req SetGradeReq, actorID string, bypassPeriodGate bool) (*model.DetailedGrade, error) {
	ct := model.GradeComponentType(req.ComponentType)
	if !ct.Valid() {
		return nil, util.ErrUnknownComponentType
	}
	if !model.ValidGradeValue(req.GradeValue) {
		return nil, util.ErrOutOfRange
	}

	period, err := s.PeriodRepo.FindTx(tx, req.PeriodID)
	if err != nil {
		return nil, err
	}
	if !bypassPeriodGate && !period.Status.Editable() {
		return nil, util.ErrPeriodLocked
	}

	existing, err := s.GradeRepo.FindTupleForUpdate(tx, req.PeriodID, req.StudentID, req.SubjectID, ct)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		g := &model.DetailedGrade{
			PeriodID:      req.PeriodID,
			StudentID:     req.StudentID,
			SubjectID:     req.SubjectID,
			ClassID:       req.ClassID,
			ComponentType: ct,
			GradeValue:    req.GradeValue,
		}
		if err := s.GradeRepo.Create(tx, g); err != nil {
			return nil, err
		}

		entry := &model.AuditLogEntry{
			RecordID:       g.ID,
			RecordTable:    g.TableName(),
			Action:         model.AuditInsert,
			UserID:         actorID,
			NewValues:      jsonValues(map[string]interface{}{"grade_value": req.GradeValue}),
			ChangesSummary: fmt.Sprintf("grade_value set to %s", fmtGradeValue(req.GradeValue)),
		}
		if err := s.AuditRepo.Record(tx, entry); err != nil {
			return nil, err
		}
		return g, nil
	}
	if err != nil {
		return nil, err
	}

	oldValue := existing.GradeValue
	existing.GradeValue = req.GradeValue
	if err := s.GradeRepo.Save(tx, existing); err != nil {
		return nil, err
	}

	entry := &model.AuditLogEntry{
		RecordID:       existing.ID,
		RecordTable:    existing.TableName(),
		Action:         model.AuditUpdate,
		UserID:         actorID,
		OldValues:      jsonValues(map[string]interface{}{"grade_value": oldValue}),
		NewValues:      jsonValues(map[string]interface{}{"grade_value": req.GradeValue}),
		ChangesSummary: fmt.Sprintf("grade_value: %s -> %s", fmtGradeValue(oldValue), fmtGradeValue(req.GradeValue)),
	}
	if err := s.AuditRepo.Record(tx, entry); err != nil {
		return nil, err
	}
	return existing, nil
}

// BulkGradeStudent 对应批量导入的一行：一个学生在该科目下的全部分量
type BulkGradeStudent struct {
	StudentID      string     `json:"student_id" binding:"required"`
	RegularGrades  []*float64 `json:"regular_grades"`
	MidtermGrade   *float64   `json:"midterm_grade"`
	FinalGrade     *float64   `json:"final_grade"`
	Semester1Grade *float64   `json:"semester_1_grade"`
	Semester2Grade *float64   `json:"semester_2_grade"`
	YearlyGrade    *float64   `json:"yearly_grade"`
}

type BulkSetGradesReq struct {
	PeriodID  string             `json:"period_id" binding:"required"`
	ClassID   string             `json:"class_id" binding:"required"`
	SubjectID string             `json:"subject_id" binding:"required"`
	Grades    []BulkGradeStudent `json:"grades" binding:"required"`
}

type BulkRowOutcome struct {
	StudentID     string   `json:"studentId"`
	ComponentType string   `json:"componentType"`
	GradeValue    *float64 `json:"gradeValue"`
	GradeID       string   `json:"gradeId,omitempty"`
	Reason        string   `json:"reason,omitempty"`
}

type BulkResult struct {
	Accepted []BulkRowOutcome `json:"accepted"`
	Rejected []BulkRowOutcome `json:"rejected"`
}

var regularComponents = []model.GradeComponentType{
	model.ComponentRegular1,
	model.ComponentRegular2,
	model.ComponentRegular3,
	model.ComponentRegular4,
}

// BulkSetGrades 对一个 (period, class, subject) 范围批量写入。
// 单行校验失败不影响其他行，但所有通过校验的行在同一个事务里一起提交，
// 避免半个班级导入一半的状态
func (s *GradeService) BulkSetGrades(req BulkSetGradesReq, actorID string) (*BulkResult, error) {
	result := &BulkResult{
		Accepted: []BulkRowOutcome{},
		Rejected: []BulkRowOutcome{},
	}

	var valid []SetGradeReq
	for _, student := range req.Grades {
		rows, rejected := expandStudentRows(req, student)
		result.Rejected = append(result.Rejected, rejected...)
		for _, row := range rows {
			if !model.ValidGradeValue(row.GradeValue) {
				result.Rejected = append(result.Rejected, BulkRowOutcome{
					StudentID:     row.StudentID,
					ComponentType: row.ComponentType,
					GradeValue:    row.GradeValue,
					Reason:        util.ErrOutOfRange.Error(),
				})
				continue
			}
			valid = append(valid, row)
		}
	}

	err := database.WithRetry(s.DB, func(tx *gorm.DB) error {
		// 周期门禁属于整个范围，锁定时整批拒绝
		period, err := s.PeriodRepo.FindTx(tx, req.PeriodID)
		if err != nil {
			return err
		}
		if !period.Status.Editable() {
			return util.ErrPeriodLocked
		}

		accepted := make([]BulkRowOutcome, 0, len(valid))
		for _, row := range valid {
			g, err := s.setGradeTx(tx, row, actorID, false)
			if err != nil {
				return err
			}
			accepted = append(accepted, BulkRowOutcome{
				StudentID:     row.StudentID,
				ComponentType: row.ComponentType,
				GradeValue:    row.GradeValue,
				GradeID:       g.ID,
			})
		}
		result.Accepted = accepted
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// expandStudentRows 把批量导入的一行学生记录展开成成绩分量行；
// 超出 regular_1..regular_4 的平时成绩被拒绝
func expandStudentRows(req BulkSetGradesReq, student BulkGradeStudent) ([]SetGradeReq, []BulkRowOutcome) {
	var rows []SetGradeReq
	var rejected []BulkRowOutcome

	mkRow := func(ct model.GradeComponentType, v *float64) SetGradeReq {
		return SetGradeReq{
			PeriodID:      req.PeriodID,
			StudentID:     student.StudentID,
			SubjectID:     req.SubjectID,
			ClassID:       req.ClassID,
			ComponentType: string(ct),
			GradeValue:    v,
		}
	}

	for i, v := range student.RegularGrades {
		if i >= len(regularComponents) {
			rejected = append(rejected, BulkRowOutcome{
				StudentID:     student.StudentID,
				ComponentType: fmt.Sprintf("regular_%d", i+1),
				GradeValue:    v,
				Reason:        util.ErrUnknownComponentType.Error(),
			})
			continue
		}
		if v == nil {
			continue
		}
		rows = append(rows, mkRow(regularComponents[i], v))
	}

	named := []struct {
		ct model.GradeComponentType
		v  *float64
	}{
		{model.ComponentMidterm, student.MidtermGrade},
		{model.ComponentFinal, student.FinalGrade},
		{model.ComponentSemester1, student.Semester1Grade},
		{model.ComponentSemester2, student.Semester2Grade},
		{model.ComponentYearly, student.YearlyGrade},
	}
	for _, n := range named {
		if n.v == nil {
			continue
		}
		rows = append(rows, mkRow(n.ct, n.v))
	}

	return rows, rejected
}

func (s *GradeService) GetGrade(id string) (*model.DetailedGrade, error) {
	return s.GradeRepo.FindByID(id)
}

func (s *GradeService) ListScope(periodID, classID, subjectID string) ([]model.DetailedGrade, error) {
	return s.GradeRepo.ListScope(periodID, classID, subjectID)
}

func jsonValues(m map[string]interface{}) datatypes.JSON {
	b, _ := json.Marshal(m)
	return datatypes.JSON(b)
}

func fmtGradeValue(v *float64) string {
	if v == nil {
		return "null"
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

func sameGradeValue(a, b *float64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
