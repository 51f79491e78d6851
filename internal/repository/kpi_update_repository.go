package repository

import (
	"kpi_tracker_backend/internal/model"

	"gorm.io/gorm"
)

// latestFirst 记录时间相同时按写入顺序，列表与最新一条保持一致
const latestFirst = "recorded_at DESC, created_at DESC, id DESC"

type KPIUpdateRepository struct {
	DB *gorm.DB
}

func NewKPIUpdateRepository(db *gorm.DB) *KPIUpdateRepository {
	return &KPIUpdateRepository{DB: db}
}

func (r *KPIUpdateRepository) Create(update *model.KPIUpdate) error {
	return r.DB.Create(update).Error
}

func (r *KPIUpdateRepository) FindByID(id string) (*model.KPIUpdate, error) {
	var update model.KPIUpdate
	err := r.DB.Where("id = ?", id).First(&update).Error
	return &update, err
}

// FindByKPIID 按记录时间倒序
func (r *KPIUpdateRepository) FindByKPIID(kpiID string) ([]model.KPIUpdate, error) {
	var updates []model.KPIUpdate
	err := r.DB.Where("kpi_id = ?", kpiID).Order(latestFirst).Find(&updates).Error
	return updates, err
}

// FindLatestByKPIID 单条有序查询，值与时间取自同一行。无记录时返回 nil, nil
func (r *KPIUpdateRepository) FindLatestByKPIID(kpiID string) (*model.KPIUpdate, error) {
	var updates []model.KPIUpdate
	err := r.DB.Where("kpi_id = ?", kpiID).Order(latestFirst).Limit(1).Find(&updates).Error
	if err != nil {
		return nil, err
	}
	if len(updates) == 0 {
		return nil, nil
	}
	return &updates[0], nil
}

func (r *KPIUpdateRepository) Updates(id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.Model(&model.KPIUpdate{}).Where("id = ?", id).Updates(fields).Error
}

func (r *KPIUpdateRepository) Delete(id string) error {
	return r.DB.Where("id = ?", id).Delete(&model.KPIUpdate{}).Error
}
