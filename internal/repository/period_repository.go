package repository

import (
	"gradebook_backend/internal/model"
	"gradebook_backend/pkg/database"

	"gorm.io/gorm"
)

type PeriodRepository struct {
	DB *gorm.DB
}

func NewPeriodRepository(db *gorm.DB) *PeriodRepository {
	return &PeriodRepository{DB: db}
}

func (r *PeriodRepository) Create(p *model.GradeReportingPeriod) error {
	return r.DB.Create(p).Error
}

func (r *PeriodRepository) FindByID(id string) (*model.GradeReportingPeriod, error) {
	var p model.GradeReportingPeriod
	err := r.DB.Where("id = ?", id).First(&p).Error
	return &p, err
}

// FindTx 在调用方事务里读取周期，不加锁；成绩写入的状态门禁用它
func (r *PeriodRepository) FindTx(tx *gorm.DB, id string) (*model.GradeReportingPeriod, error) {
	var p model.GradeReportingPeriod
	err := tx.Where("id = ?", id).First(&p).Error
	return &p, err
}

// FindForUpdate 在调用方事务里锁定期间行，状态迁移期间阻塞并发迁移
func (r *PeriodRepository) FindForUpdate(tx *gorm.DB, id string) (*model.GradeReportingPeriod, error) {
	var p model.GradeReportingPeriod
	err := database.ForUpdate(tx).Where("id = ?", id).First(&p).Error
	return &p, err
}

func (r *PeriodRepository) Save(tx *gorm.DB, p *model.GradeReportingPeriod) error {
	return tx.Save(p).Error
}

func (r *PeriodRepository) List(page, limit int) ([]model.GradeReportingPeriod, int64, error) {
	var ps []model.GradeReportingPeriod
	var total int64
	query := r.DB.Model(&model.GradeReportingPeriod{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	offset := (page - 1) * limit
	err := query.Order("start_date desc, created_at desc").Offset(offset).Limit(limit).Find(&ps).Error
	return ps, total, err
}
