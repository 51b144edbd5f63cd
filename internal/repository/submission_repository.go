package repository

import (
	"gradebook_backend/internal/model"
	"gradebook_backend/pkg/database"

	"gorm.io/gorm"
)

type SubmissionRepository struct {
	DB *gorm.DB
}

func NewSubmissionRepository(db *gorm.DB) *SubmissionRepository {
	return &SubmissionRepository{DB: db}
}

func (r *SubmissionRepository) FindByID(id string) (*model.GradePeriodSubmission, error) {
	var s model.GradePeriodSubmission
	err := r.DB.Where("id = ?", id).First(&s).Error
	return &s, err
}

func (r *SubmissionRepository) FindForUpdate(tx *gorm.DB, id string) (*model.GradePeriodSubmission, error) {
	var s model.GradePeriodSubmission
	err := database.ForUpdate(tx).Where("id = ?", id).First(&s).Error
	return &s, err
}

// FindScopeForUpdate 锁定 (period, class, subject, teacher) 的提交记录，
// 计数自增必须在这把锁下进行，否则快速重复提交会丢失更新
func (r *SubmissionRepository) FindScopeForUpdate(tx *gorm.DB, periodID, classID, subjectID, teacherID string) (*model.GradePeriodSubmission, error) {
	var s model.GradePeriodSubmission
	err := database.ForUpdate(tx).
		Where("period_id = ? AND class_id = ? AND subject_id = ? AND teacher_id = ?",
			periodID, classID, subjectID, teacherID).
		First(&s).Error
	return &s, err
}

func (r *SubmissionRepository) FindByScope(periodID, classID, subjectID, teacherID string) (*model.GradePeriodSubmission, error) {
	var s model.GradePeriodSubmission
	err := r.DB.
		Where("period_id = ? AND class_id = ? AND subject_id = ? AND teacher_id = ?",
			periodID, classID, subjectID, teacherID).
		First(&s).Error
	return &s, err
}

func (r *SubmissionRepository) Create(tx *gorm.DB, s *model.GradePeriodSubmission) error {
	return tx.Create(s).Error
}

func (r *SubmissionRepository) Save(tx *gorm.DB, s *model.GradePeriodSubmission) error {
	return tx.Save(s).Error
}
