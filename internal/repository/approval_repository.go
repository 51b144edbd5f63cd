package repository

import (
	"gradebook_backend/internal/model"
	"gradebook_backend/pkg/database"

	"gorm.io/gorm"
)

type ApprovalRepository struct {
	DB *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) *ApprovalRepository {
	return &ApprovalRepository{DB: db}
}

func (r *ApprovalRepository) FindByID(id string) (*model.GradeOverwriteApproval, error) {
	var a model.GradeOverwriteApproval
	err := r.DB.Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *ApprovalRepository) FindForUpdate(tx *gorm.DB, id string) (*model.GradeOverwriteApproval, error) {
	var a model.GradeOverwriteApproval
	err := database.ForUpdate(tx).Where("id = ?", id).First(&a).Error
	return &a, err
}

func (r *ApprovalRepository) Create(tx *gorm.DB, a *model.GradeOverwriteApproval) error {
	return tx.Create(a).Error
}

func (r *ApprovalRepository) Save(tx *gorm.DB, a *model.GradeOverwriteApproval) error {
	return tx.Save(a).Error
}

func (r *ApprovalRepository) ListByStatus(status model.ApprovalStatus, page, limit int) ([]model.GradeOverwriteApproval, int64, error) {
	var as []model.GradeOverwriteApproval
	var total int64
	query := r.DB.Model(&model.GradeOverwriteApproval{})
	if status != "" {
		query = query.Where("status = ?", status)
	}
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("created_at desc").Offset(offset).Limit(limit).Find(&as).Error
	return as, total, err
}

func (r *ApprovalRepository) ListByGrade(gradeID string) ([]model.GradeOverwriteApproval, error) {
	var as []model.GradeOverwriteApproval
	err := r.DB.Where("grade_id = ?", gradeID).Order("created_at asc").Find(&as).Error
	return as, err
}
