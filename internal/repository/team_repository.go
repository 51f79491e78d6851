package repository

import (
	"kpi_tracker_backend/internal/model"

	"gorm.io/gorm"
)

// TeamRepository 团队与成员关系的数据访问
type TeamRepository struct {
	DB *gorm.DB
}

func NewTeamRepository(db *gorm.DB) *TeamRepository {
	return &TeamRepository{DB: db}
}

// CreateWithOwner 在同一事务中创建团队并写入 owner 成员关系
func (r *TeamRepository) CreateWithOwner(team *model.Team, ownerID string) error {
	return r.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(team).Error; err != nil {
			return err
		}
		member := &model.Membership{
			TeamID: team.ID,
			UserID: ownerID,
			Role:   model.TeamOwner,
		}
		return tx.Create(member).Error
	})
}

func (r *TeamRepository) AddMember(member *model.Membership) error {
	return r.DB.Create(member).Error
}

func (r *TeamRepository) FindByID(id string) (*model.Team, error) {
	var team model.Team
	err := r.DB.Preload("Members", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at ASC")
	}).Preload("Members.User").Where("id = ?", id).First(&team).Error
	return &team, err
}

// FindMembershipByUserID 用户所属团队；无记录时返回 gorm.ErrRecordNotFound。
// 未加入团队是常态，用 Find 避免 gorm 把它记成错误日志
func (r *TeamRepository) FindMembershipByUserID(userID string) (*model.Membership, error) {
	var members []model.Membership
	err := r.DB.Where("user_id = ?", userID).Order("created_at ASC").Limit(1).Find(&members).Error
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return &members[0], nil
}
