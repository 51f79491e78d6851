package repository

import (
	"kpi_tracker_backend/internal/model"

	"gorm.io/gorm"
)

// GoalRepository 处理目标的数据访问
type GoalRepository struct {
	DB *gorm.DB
}

func NewGoalRepository(db *gorm.DB) *GoalRepository {
	return &GoalRepository{DB: db}
}

func (r *GoalRepository) Create(goal *model.Goal) error {
	return r.DB.Create(goal).Error
}

// Updates 部分更新，fields 的 key 为列名
func (r *GoalRepository) Updates(id string, fields map[string]interface{}) error {
	if len(fields) == 0 {
		return nil
	}
	return r.DB.Model(&model.Goal{}).Where("id = ?", id).Updates(fields).Error
}

func (r *GoalRepository) FindByID(id string) (*model.Goal, error) {
	var goal model.Goal
	err := r.DB.Where("id = ?", id).First(&goal).Error
	return &goal, err
}

// FindByTeamID 团队的目标，按创建时间倒序；status 为空时不过滤
func (r *GoalRepository) FindByTeamID(teamID string, status model.Status) ([]model.Goal, error) {
	var goals []model.Goal
	q := r.DB.Where("team_id = ?", teamID)
	if status != "" {
		q = q.Where("status = ?", status)
	}
	err := q.Order("created_at DESC").Find(&goals).Error
	return goals, err
}
