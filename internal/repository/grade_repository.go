package repository

import (
	"gradebook_backend/internal/model"
	"gradebook_backend/pkg/database"

	"gorm.io/gorm"
)

type GradeRepository struct {
	DB *gorm.DB
}

func NewGradeRepository(db *gorm.DB) *GradeRepository {
	return &GradeRepository{DB: db}
}

func (r *GradeRepository) FindByID(id string) (*model.DetailedGrade, error) {
	var g model.DetailedGrade
	err := r.DB.Where("id = ?", id).First(&g).Error
	return &g, err
}

func (r *GradeRepository) FindForUpdate(tx *gorm.DB, id string) (*model.DetailedGrade, error) {
	var g model.DetailedGrade
	err := database.ForUpdate(tx).Where("id = ?", id).First(&g).Error
	return &g, err
}

// FindTupleForUpdate 按唯一元组取成绩行并加锁；不存在时返回 gorm.ErrRecordNotFound
func (r *GradeRepository) FindTupleForUpdate(tx *gorm.DB, periodID, studentID, subjectID string, componentType model.GradeComponentType) (*model.DetailedGrade, error) {
	var g model.DetailedGrade
	err := database.ForUpdate(tx).
		Where("period_id = ? AND student_id = ? AND subject_id = ? AND component_type = ?",
			periodID, studentID, subjectID, componentType).
		First(&g).Error
	return &g, err
}

func (r *GradeRepository) Create(tx *gorm.DB, g *model.DetailedGrade) error {
	return tx.Create(g).Error
}

func (r *GradeRepository) Save(tx *gorm.DB, g *model.DetailedGrade) error {
	return tx.Save(g).Error
}

// ListScope 一个 (period, class, subject) 范围内的全部成绩行
func (r *GradeRepository) ListScope(periodID, classID, subjectID string) ([]model.DetailedGrade, error) {
	var gs []model.DetailedGrade
	err := r.DB.
		Where("period_id = ? AND class_id = ? AND subject_id = ?", periodID, classID, subjectID).
		Order("student_id asc, component_type asc").
		Find(&gs).Error
	return gs, err
}
