package service

import (
	"gradebook_backend/internal/model"
	"gradebook_backend/internal/repository"
)

type AuditService struct {
	Repo *repository.AuditRepository
}

func NewAuditService(repo *repository.AuditRepository) *AuditService {
	return &AuditService{Repo: repo}
}

// History 返回一条记录的完整变更历史，按发生时间升序
func (s *AuditService) History(recordID string) ([]model.AuditLogEntry, error) {
	return s.Repo.History(recordID)
}
