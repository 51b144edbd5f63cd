package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/repository"
	"gradebook_backend/pkg/database"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	glogger "gorm.io/gorm/logger"
)

// 每个测试一个独立的内存库，cache=shared 让连接池共享同一份数据
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: glogger.Default.LogMode(glogger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := database.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}

type testEngine struct {
	db          *gorm.DB
	periods     *PeriodService
	grades      *GradeService
	submissions *SubmissionService
	approvals   *ApprovalService
	audit       *AuditService
}

func newTestEngine(t *testing.T) *testEngine {
	t.Helper()

	db := newTestDB(t)
	periodRepo := repository.NewPeriodRepository(db)
	gradeRepo := repository.NewGradeRepository(db)
	submissionRepo := repository.NewSubmissionRepository(db)
	approvalRepo := repository.NewApprovalRepository(db)
	auditRepo := repository.NewAuditRepository(db)

	grades := NewGradeService(gradeRepo, periodRepo, auditRepo, db)
	return &testEngine{
		db:          db,
		periods:     NewPeriodService(periodRepo, auditRepo, db),
		grades:      grades,
		submissions: NewSubmissionService(submissionRepo, auditRepo, db),
		approvals:   NewApprovalService(approvalRepo, gradeRepo, periodRepo, auditRepo, grades, db),
		audit:       NewAuditService(auditRepo),
	}
}

func (e *testEngine) openPeriod(t *testing.T, name string) *model.GradeReportingPeriod {
	t.Helper()

	now := time.Now()
	p, err := e.periods.CreatePeriod(CreatePeriodReq{
		Name:           name,
		PeriodType:     string(model.PeriodTypeSemester),
		AcademicYearID: model.GenerateUUID(),
		SemesterID:     model.GenerateUUID(),
		StartDate:      now.AddDate(0, -3, 0),
		EndDate:        now.AddDate(0, 1, 0),
		ImportDeadline: now.AddDate(0, 1, 7),
	})
	if err != nil {
		t.Fatalf("failed to create period: %v", err)
	}
	return p
}

func f(v float64) *float64 {
	return &v
}
