package repository

import (
	"gradebook_backend/internal/model"
	"gradebook_backend/pkg/monitoring"

	"gorm.io/gorm"
)

// AuditRepository 只有 Record 和读取，审计表不存在更新或删除路径
type AuditRepository struct {
	DB *gorm.DB
}

func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{DB: db}
}

// Record 必须拿到调用方的事务句柄：审计写入失败时数据变更一并回滚
func (r *AuditRepository) Record(tx *gorm.DB, e *model.AuditLogEntry) error {
	if err := tx.Create(e).Error; err != nil {
		return err
	}
	monitoring.AuditEntryCounter.WithLabelValues(e.RecordTable, string(e.Action)).Inc()
	return nil
}

func (r *AuditRepository) History(recordID string) ([]model.AuditLogEntry, error) {
	var es []model.AuditLogEntry
	err := r.DB.
		Where("record_id = ?", recordID).
		Order("created_at asc, id asc").
		Find(&es).Error
	return es, err
}
