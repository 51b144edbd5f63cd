package service

import (
	"errors"
	"testing"

	"gradebook_backend/internal/model"
	"gradebook_backend/internal/util"
)

func TestPeriodTransitions(t *testing.T) {
	tests := []struct {
		name    string
		steps   []string // 依次执行的目标状态
		reasons []string
		wantErr error
		want    model.PeriodStatus
	}{
		{
			name:    "open to closed",
			steps:   []string{"closed"},
			reasons: []string{"End of term"},
			want:    model.PeriodClosed,
		},
		{
			name:    "closed to reopened with reason",
			steps:   []string{"closed", "reopened"},
			reasons: []string{"", "late corrections"},
			want:    model.PeriodReopened,
		},
		{
			name:    "reopened back to closed",
			steps:   []string{"closed", "reopened", "closed"},
			reasons: []string{"", "late corrections", ""},
			want:    model.PeriodClosed,
		},
		{
			name:    "reopen without reason rejected",
			steps:   []string{"closed", "reopened"},
			reasons: []string{"", ""},
			wantErr: util.ErrReasonRequired,
		},
		{
			name:    "reopen with whitespace reason rejected",
			steps:   []string{"closed", "reopened"},
			reasons: []string{"", "   "},
			wantErr: util.ErrReasonRequired,
		},
		{
			name:    "open to reopened rejected",
			steps:   []string{"reopened"},
			reasons: []string{"why not"},
			wantErr: util.ErrInvalidTransition,
		},
		{
			name:    "unknown status rejected",
			steps:   []string{"archived"},
			reasons: []string{""},
			wantErr: util.ErrInvalidTransition,
		},
		{
			name:    "same status is a no-op success",
			steps:   []string{"open"},
			reasons: []string{""},
			want:    model.PeriodOpen,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEngine(t)
			p := e.openPeriod(t, "P-"+tt.name)

			var got *model.GradeReportingPeriod
			var err error
			for i, step := range tt.steps {
				got, err = e.periods.Transition(p.ID, step, "admin-1", tt.reasons[i])
				if err != nil {
					break
				}
			}

			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Status != tt.want {
				t.Fatalf("expected status %s, got %s", tt.want, got.Status)
			}
		})
	}
}

func TestPeriodTransitionRecordsActorAndReason(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	if _, err := e.periods.Transition(p.ID, "closed", "admin-7", "End of term"); err != nil {
		t.Fatalf("close failed: %v", err)
	}

	got, err := e.periods.Transition(p.ID, "reopened", "admin-7", "appeal accepted")
	if err != nil {
		t.Fatalf("reopen failed: %v", err)
	}

	if got.StatusChangedBy != "admin-7" {
		t.Errorf("expected actor admin-7, got %q", got.StatusChangedBy)
	}
	if got.StatusChangedAt == nil {
		t.Error("expected StatusChangedAt to be set")
	}
	if got.StatusReason == nil || *got.StatusReason != "appeal accepted" {
		t.Errorf("expected reason to be recorded, got %v", got.StatusReason)
	}
}

func TestPeriodNoOpTransitionWritesNothing(t *testing.T) {
	e := newTestEngine(t)
	p := e.openPeriod(t, "P1")

	got, err := e.periods.Transition(p.ID, "open", "admin-1", "")
	if err != nil {
		t.Fatalf("no-op transition failed: %v", err)
	}
	if got.StatusChangedAt != nil {
		t.Error("no-op transition must not touch status fields")
	}

	entries, err := e.audit.History(p.ID)
	if err != nil {
		t.Fatalf("history failed: %v", err)
	}
	if len(entries) != 0 {
		t.Fatalf("no-op transition must not produce audit entries, got %d", len(entries))
	}
}

func TestCreatePeriodRejectsUnknownType(t *testing.T) {
	e := newTestEngine(t)

	_, err := e.periods.CreatePeriod(CreatePeriodReq{Name: "bad", PeriodType: "quarterly"})
	if !errors.Is(err, util.ErrUnknownPeriodType) {
		t.Fatalf("expected ErrUnknownPeriodType, got %v", err)
	}
}
