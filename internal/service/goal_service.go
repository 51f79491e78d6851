package service

import (
	"context"
	"errors"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/repository"
	"kpi_tracker_backend/internal/util"

	"gorm.io/gorm"
)

// GoalService 处理目标的业务逻辑
type GoalService struct {
	GoalRepo    *repository.GoalRepository
	Teams       *TeamService
	Invalidator DashboardInvalidator
	loader      *progressLoader
}

func NewGoalService(
	goalRepo *repository.GoalRepository,
	kpiRepo *repository.KPIRepository,
	updateRepo *repository.KPIUpdateRepository,
	teams *TeamService,
	invalidator DashboardInvalidator,
) *GoalService {
	return &GoalService{
		GoalRepo:    goalRepo,
		Teams:       teams,
		Invalidator: invalidator,
		loader:      newProgressLoader(kpiRepo, updateRepo),
	}
}

// CreateGoalRequest 创建目标的请求结构
type CreateGoalRequest struct {
	Title       string  `json:"title" binding:"required,max=255"`
	Description *string `json:"description" binding:"omitempty,max=2000"`
	TargetValue float64 `json:"targetValue" binding:"required,gt=0"`
	Unit        string  `json:"unit" binding:"required,max=50"`
	DueDate     *int64  `json:"dueDate"`
	OwnerID     string  `json:"ownerId"`
}

// UpdateGoalRequest 部分更新，未出现的字段保持不变
type UpdateGoalRequest struct {
	Title       *string               `json:"title" binding:"omitempty,min=1,max=255"`
	Description util.Nullable[string] `json:"description"`
	TargetValue *float64              `json:"targetValue"`
	Unit        *string               `json:"unit" binding:"omitempty,min=1,max=50"`
	DueDate     util.Nullable[int64]  `json:"dueDate"`
	Status      *model.Status         `json:"status"`
	OwnerID     *string               `json:"ownerId"`
}

func (s *GoalService) CreateGoal(ctx context.Context, userID string, req CreateGoalRequest) (*model.Goal, error) {
	teamID, err := s.Teams.ResolveTeamID(userID)
	if err != nil {
		return nil, err
	}

	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = userID
	} else if err := s.Teams.AssertMember(teamID, ownerID); err != nil {
		return nil, err
	}
	dueDate := req.DueDate
	if dueDate != nil && *dueDate == 0 {
		dueDate = nil
	}

	goal := &model.Goal{
		TeamID:      teamID,
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		DueDate:     dueDate,
		Status:      model.StatusActive,
	}
	if err := s.GoalRepo.Create(goal); err != nil {
		return nil, err
	}

	s.Invalidator.Invalidate(ctx, teamID)
	return goal, nil
}

// ListGoals 团队目标，最新创建的在前
func (s *GoalService) ListGoals(userID string, status model.Status) ([]model.Goal, error) {
	if status != "" && !status.Valid() {
		return nil, util.ErrInvalidStatus
	}
	teamID, err := s.Teams.ResolveTeamID(userID)
	if err != nil {
		return nil, err
	}
	return s.GoalRepo.FindByTeamID(teamID, status)
}

// findGoalInTeam 目标不存在返回 ErrGoalNotFound，跨团队返回 ErrPermissionDenied
func (s *GoalService) findGoalInTeam(userID, goalID string) (*model.Goal, error) {
	goal, err := s.GoalRepo.FindByID(goalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrGoalNotFound
	}
	if err != nil {
		return nil, err
	}
	if err := s.Teams.AssertTeamScope(userID, goal.TeamID); err != nil {
		return nil, err
	}
	return goal, nil
}

// GetGoal 目标详情，包含全部 KPI 以及计算后的进度
func (s *GoalService) GetGoal(userID, goalID string) (*GoalProgress, error) {
	goal, err := s.findGoalInTeam(userID, goalID)
	if err != nil {
		return nil, err
	}
	return s.loader.loadGoal(*goal, "")
}

func (s *GoalService) UpdateGoal(ctx context.Context, userID, goalID string, req UpdateGoalRequest) (*model.Goal, error) {
	goal, err := s.findGoalInTeam(userID, goalID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description.Set {
		fields["description"] = req.Description.Value
	}
	if req.TargetValue != nil {
		if *req.TargetValue <= 0 {
			return nil, util.ErrInvalidTarget
		}
		fields["target_value"] = *req.TargetValue
	}
	if req.Unit != nil {
		fields["unit"] = *req.Unit
	}
	if req.DueDate.Set {
		// 0 与 null 一样表示清除截止日期
		if req.DueDate.Value == nil || *req.DueDate.Value == 0 {
			fields["due_date"] = nil
		} else {
			fields["due_date"] = *req.DueDate.Value
		}
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, util.ErrInvalidStatus
		}
		fields["status"] = *req.Status
	}
	if req.OwnerID != nil {
		if err := s.Teams.AssertMember(goal.TeamID, *req.OwnerID); err != nil {
			return nil, err
		}
		fields["owner_id"] = *req.OwnerID
	}

	if err := s.GoalRepo.Updates(goal.ID, fields); err != nil {
		return nil, err
	}

	s.Invalidator.Invalidate(ctx, goal.TeamID)
	return s.GoalRepo.FindByID(goal.ID)
}

// ArchiveGoal 逻辑删除：状态置为 archived，数据保留
func (s *GoalService) ArchiveGoal(ctx context.Context, userID, goalID string) error {
	goal, err := s.findGoalInTeam(userID, goalID)
	if err != nil {
		return err
	}
	if err := s.GoalRepo.Updates(goal.ID, map[string]interface{}{"status": model.StatusArchived}); err != nil {
		return err
	}
	s.Invalidator.Invalidate(ctx, goal.TeamID)
	return nil
}
