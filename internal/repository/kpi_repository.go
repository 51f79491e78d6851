package repository

import (
	"kpi_tracker_backend/internal/model"

	"gorm.io/gorm"
)

type KPIRepository struct {
	DB *gorm.DB
}

func NewKPIRepository(db *gorm.DB) *KPIRepository {
	return &KPIRepository{DB: db}
}

func (r *KPIRepository) Create(kpi *model.KPI) error {
	return r.DB.Create(kpi).Error
}

func (r *KPIRepository) Updates(id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.Model(&model.KPI{}).Where("id = ?", id).Updates(fields).Error
}

func (r *KPIRepository) FindByID(id string) (*model.KPI, error) {
	var kpi model.KPI
	err := r.DB.Where("id = ?", id).First(&kpi).Error
	return &kpi, err
}

// FindByGoalID status 为空时返回全部
func (r *KPIRepository) FindByGoalID(goalID string, status model.Status) ([]model.KPI, error) {
	var kpis []model.KPI
	q := r.DB.Where("goal_id = ?", goalID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at ASC").Find(&kpis).Error
	return kpis, err
}

// FindByTeamID 通过目标关联限定在团队范围内
func (r *KPIRepository) FindByTeamID(teamID string) ([]model.KPI, error) {
	var kpis []model.KPI
	err := r.DB.
		Joins("JOIN goals ON goals.id = kpis.goal_id AND goals.deleted_at IS NULL").
		Where("goals.team_id = ?", teamID).
		Order("kpis.created_at ASC").
		Find(&kpis).Error
	return kpis, err
}
