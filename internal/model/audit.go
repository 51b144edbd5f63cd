package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type AuditAction string

const (
	AuditInsert AuditAction = "INSERT"
	AuditUpdate AuditAction = "UPDATE"
	AuditDelete AuditAction = "DELETE"
)

// AuditLogEntry 只追加，不嵌入 UUIDBase：审计记录没有更新时间也不允许软删除
// swagger:model AuditLogEntry
type AuditLogEntry struct {
	ID             string         `gorm:"primaryKey;type:varchar(36)" json:"id"`
	RecordID       string         `gorm:"type:varchar(36);not null;index" json:"recordId"`
	RecordTable    string         `gorm:"size:64;not null" json:"recordTable"`
	Action         AuditAction    `gorm:"size:10;not null" json:"action"`
	UserID         string         `gorm:"type:varchar(36);not null" json:"userId"`
	OldValues      datatypes.JSON `gorm:"type:json" json:"oldValues,omitempty"`
	NewValues      datatypes.JSON `gorm:"type:json" json:"newValues,omitempty"`
	ChangesSummary string         `gorm:"type:text" json:"changesSummary"`
	CreatedAt      time.Time      `json:"createdAt"`
}

func (e *AuditLogEntry) BeforeCreate(tx *gorm.DB) (err error) {
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	return
}

func (AuditLogEntry) TableName() string {
	return "audit_log_entries"
}
