package service

import (
	"testing"

	"gradebook_backend/internal/model"
)

// 审计历史必须按时间升序，且相邻条目的新旧值首尾相接，无缺口
func TestAuditHistoryIsGapFree(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	values := []*float64{f(5), f(6.5), nil, f(8)}
	var gradeID string
	for _, v := range values {
		g, err := e.grades.SetGrade(setGradeReq(p, v), "teacher-1")
		if err != nil {
			t.Fatalf("SetGrade failed: %v", err)
		}
		gradeID = g.ID
	}

	entries, err := e.audit.History(gradeID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != len(values) {
		t.Fatalf("expected %d entries, got %d", len(values), len(entries))
	}

	if entries[0].Action != model.AuditInsert {
		t.Fatalf("first entry must be INSERT, got %s", entries[0].Action)
	}
	for i := 1; i < len(entries); i++ {
		if entries[i].Action != model.AuditUpdate {
			t.Errorf("entry %d: expected UPDATE, got %s", i, entries[i].Action)
		}
		if entries[i].CreatedAt.Before(entries[i-1].CreatedAt) {
			t.Errorf("entry %d out of order", i)
		}

		prevNew := decodeValues(t, entries[i-1].NewValues)
		currOld := decodeValues(t, entries[i].OldValues)
		if prevNew["grade_value"] != currOld["grade_value"] {
			t.Errorf("entry %d: old value %v does not chain to previous new value %v",
				i, currOld["grade_value"], prevNew["grade_value"])
		}
	}

	last := decodeValues(t, entries[len(entries)-1].NewValues)
	if last["grade_value"] != 8.0 {
		t.Errorf("final entry must hold the final value, got %v", last["grade_value"])
	}
}

func TestAuditHistoryScopedToRecord(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	g1, err := e.grades.SetGrade(setGradeReq(p, f(5)), "teacher-1")
	if err != nil {
		t.Fatalf("SetGrade failed: %v", err)
	}

	other := setGradeReq(p, f(7))
	other.StudentID = "student-2"
	if _, err := e.grades.SetGrade(other, "teacher-1"); err != nil {
		t.Fatalf("SetGrade failed: %v", err)
	}

	entries, err := e.audit.History(g1.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("history must only contain the record's own entries, got %d", len(entries))
	}
	if entries[0].RecordID != g1.ID {
		t.Fatalf("unexpected record id %s", entries[0].RecordID)
	}
}

func TestAuditHistoryEmptyForUnknownRecord(t *testing.T) {
	e := newTestEngine(t)

	entries, err := e.audit.History(model.GenerateUUID())
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("expected empty history, got %d entries", len(entries))
	}
}
