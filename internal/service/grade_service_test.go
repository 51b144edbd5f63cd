package service

import (
	"encoding/json"
	"errors"
	"testing"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/util"
)

func setGradeReq(p *model.GradeReportingPeriod, v *float64) SetGradeReq {
	return SetGradeReq{
		PeriodID:      p.ID,
		StudentID:     "student-1",
		SubjectID:     "subject-math",
		ClassID:       "class-1",
		ComponentType: "midterm",
		GradeValue:    v,
	}
}

func decodeValues(t *testing.T, raw []byte) map[string]interface{} {
	t.Helper()
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		t.Fatalf("failed to decode audit values: %v", err)
	}
	return m
}

// 场景A：开放周期内首次写入，产生一行成绩和一条 INSERT 审计
func TestSetGradeInsertsWithAudit(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	g, err := e.grades.SetGrade(setGradeReq(p, f(8.5)), "teacher-1")
	if err != nil {
		t.Fatalf("SetGrade failed: %v", err)
	}
	if g.GradeValue == nil || *g.GradeValue != 8.5 {
		t.Fatalf("expected grade 8.5, got %v", g.GradeValue)
	}

	entries, err := e.audit.History(g.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("expected exactly one audit entry, got %d", len(entries))
	}
	entry := entries[0]
	if entry.Action != model.AuditInsert {
		t.Errorf("expected INSERT, got %s", entry.Action)
	}
	if entry.UserID != "teacher-1" {
		t.Errorf("expected actor teacher-1, got %s", entry.UserID)
	}
	if entry.OldValues != nil {
		t.Errorf("insert entry must have no old values, got %s", entry.OldValues)
	}
	newVals := decodeValues(t, entry.NewValues)
	if newVals["grade_value"] != 8.5 {
		t.Errorf("expected new_values.grade_value=8.5, got %v", newVals["grade_value"])
	}
}

func TestSetGradeUpdateAuditMatchesOldAndNew(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	first, err := e.grades.SetGrade(setGradeReq(p, f(6)), "teacher-1")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}
	second, err := e.grades.SetGrade(setGradeReq(p, f(7.5)), "teacher-1")
	if err != nil {
		t.Fatalf("update failed: %v", err)
	}
	if first.ID != second.ID {
		t.Fatalf("update must reuse the unique tuple row, got %s and %s", first.ID, second.ID)
	}

	entries, err := e.audit.History(first.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected two audit entries, got %d", len(entries))
	}
	update := entries[1]
	if update.Action != model.AuditUpdate {
		t.Errorf("expected UPDATE, got %s", update.Action)
	}
	oldVals := decodeValues(t, update.OldValues)
	newVals := decodeValues(t, update.NewValues)
	if oldVals["grade_value"] != 6.0 {
		t.Errorf("expected old_values.grade_value=6, got %v", oldVals["grade_value"])
	}
	if newVals["grade_value"] != 7.5 {
		t.Errorf("expected new_values.grade_value=7.5, got %v", newVals["grade_value"])
	}
}

func TestSetGradeValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*SetGradeReq)
		wantErr error
	}{
		{"above range", func(r *SetGradeReq) { r.GradeValue = f(10.5) }, util.ErrOutOfRange},
		{"below range", func(r *SetGradeReq) { r.GradeValue = f(-0.1) }, util.ErrOutOfRange},
		{"unknown component", func(r *SetGradeReq) { r.ComponentType = "bonus" }, util.ErrUnknownComponentType},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			p := e.openPeriod(t, "P1")

			req := setGradeReq(p, f(5))
			tt.mutate(&req)

			if _, err := e.grades.SetGrade(req, "teacher-1"); !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}

			// 被拒绝的写入不得留下任何行或审计
			var count int64
			e.db.Model(&model.DetailedGrade{}).Count(&count)
			if count != 0 {
				t.Fatalf("rejected write must not create rows, found %d", count)
			}
		})
	}
}

func TestRejectedUpdateLeavesRowUnchanged(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	g, err := e.grades.SetGrade(setGradeReq(p, f(8)), "teacher-1")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	if _, err := e.grades.SetGrade(setGradeReq(p, f(11)), "teacher-1"); !errors.Is(err, util.ErrOutOfRange) {
		t.Fatalf("expected ErrOutOfRange, got %v", err)
	}

	reloaded, err := e.grades.GetGrade(g.ID)
	if err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	if reloaded.GradeValue == nil || *reloaded.GradeValue != 8 {
		t.Fatalf("rejected update must not change the row, got %v", reloaded.GradeValue)
	}
}

// 场景B：关闭周期后直接写入被拒
func TestSetGradeOnClosedPeriodLocked(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	if _, err := e.grades.SetGrade(setGradeReq(p, f(8.5)), "teacher-1"); err != nil {
		t.Fatalf("initial write failed: %v", err)
	}
	if _, err := e.periods.Transition(p.ID, "closed", "admin-1", "End of term"); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	if _, err := e.grades.SetGrade(setGradeReq(p, f(9)), "teacher-1"); !errors.Is(err, util.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked, got %v", err)
	}
}

func TestSetGradeAfterReopen(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	if _, err := e.periods.Transition(p.ID, "closed", "admin-1", ""); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := e.periods.Transition(p.ID, "reopened", "admin-1", "corrections window"); err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	if _, err := e.grades.SetGrade(setGradeReq(p, f(7)), "teacher-1"); err != nil {
		t.Fatalf("write in reopened period must succeed: %v", err)
	}
}

// 清除成绩写 null，不删行，审计保持连续
func TestNullGradeSoftClear(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	g, err := e.grades.SetGrade(setGradeReq(p, f(4.25)), "teacher-1")
	if err != nil {
		t.Fatalf("insert failed: %v", err)
	}

	cleared, err := e.grades.SetGrade(setGradeReq(p, nil), "teacher-1")
	if err != nil {
		t.Fatalf("clearing failed: %v", err)
	}
	if cleared.ID != g.ID {
		t.Fatal("clearing must update the existing row")
	}
	if cleared.GradeValue != nil {
		t.Fatalf("expected null value, got %v", *cleared.GradeValue)
	}

	entries, err := e.audit.History(g.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("expected 2 entries, got %d", len(entries))
	}
	newVals := decodeValues(t, entries[1].NewValues)
	if newVals["grade_value"] != nil {
		t.Errorf("expected null new value, got %v", newVals["grade_value"])
	}
}

func TestBulkSetGradesMixedRows(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	result, err := e.grades.BulkSetGrades(BulkSetGradesReq{
		PeriodID:  p.ID,
		ClassID:   "class-1",
		SubjectID: "subject-math",
		Grades: []BulkGradeStudent{
			{
				StudentID:     "student-1",
				RegularGrades: []*float64{f(7), f(8)},
				MidtermGrade:  f(8.5),
				FinalGrade:    f(12), // 超界，应被单独拒绝
			},
			{
				StudentID:    "student-2",
				MidtermGrade: f(6),
			},
		},
	}, "teacher-1")
	if err != nil {
		t.Fatalf("bulk failed: %v", err)
	}

	if len(result.Accepted) != 4 {
		t.Errorf("expected 4 accepted rows, got %d", len(result.Accepted))
	}
	if len(result.Rejected) != 1 {
		t.Fatalf("expected 1 rejected row, got %d", len(result.Rejected))
	}
	if result.Rejected[0].StudentID != "student-1" || result.Rejected[0].ComponentType != "final" {
		t.Errorf("unexpected rejected row: %+v", result.Rejected[0])
	}

	// 被拒行不落库，其余行全部提交
	var count int64
	e.db.Model(&model.DetailedGrade{}).Count(&count)
	if count != 4 {
		t.Fatalf("expected 4 grade rows, got %d", count)
	}
}

func TestBulkSetGradesTooManyRegulars(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	result, err := e.grades.BulkSetGrades(BulkSetGradesReq{
		PeriodID:  p.ID,
		ClassID:   "class-1",
		SubjectID: "subject-math",
		Grades: []BulkGradeStudent{
			{
				StudentID:     "student-1",
				RegularGrades: []*float64{f(1), f(2), f(3), f(4), f(5)},
			},
		},
	}, "teacher-1")
	if err != nil {
		t.Fatalf("bulk failed: %v", err)
	}

	if len(result.Accepted) != 4 {
		t.Errorf("expected 4 accepted regular grades, got %d", len(result.Accepted))
	}
	if len(result.Rejected) != 1 || result.Rejected[0].ComponentType != "regular_5" {
		t.Fatalf("expected regular_5 to be rejected, got %+v", result.Rejected)
	}
}

func TestBulkSetGradesLockedPeriodRejectsWholeCall(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")
	if _, err := e.periods.Transition(p.ID, "closed", "admin-1", ""); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	_, err := e.grades.BulkSetGrades(BulkSetGradesReq{
		PeriodID:  p.ID,
		ClassID:   "class-1",
		SubjectID: "subject-math",
		Grades:    []BulkGradeStudent{{StudentID: "student-1", MidtermGrade: f(5)}},
	}, "teacher-1")
	if !errors.Is(err, util.ErrPeriodLocked) {
		t.Fatalf("expected ErrPeriodLocked, got %v", err)
	}
}
