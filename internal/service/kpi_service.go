package service

import (
	"context"
	"errors"
	"fmt"
	"kpi_tracker_backend/internal/calc"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/repository"
	"kpi_tracker_backend/internal/util"

	"gorm.io/gorm"
)

type KPIService struct {
	KPIRepo     *repository.KPIRepository
	GoalRepo    *repository.GoalRepository
	UpdateRepo  *repository.KPIUpdateRepository
	Teams       *TeamService
	Invalidator DashboardInvalidator
	loader      *progressLoader
}

func NewKPIService(
	kpiRepo *repository.KPIRepository,
	goalRepo *repository.GoalRepository,
	updateRepo *repository.KPIUpdateRepository,
	teams *TeamService,
	invalidator DashboardInvalidator,
) *KPIService {
	return &KPIService{
		KPIRepo:     kpiRepo,
		GoalRepo:    goalRepo,
		UpdateRepo:  updateRepo,
		Teams:       teams,
		Invalidator: invalidator,
		loader:      newProgressLoader(kpiRepo, updateRepo),
	}
}

type CreateKPIRequest struct {
	GoalID      string         `json:"goalId" binding:"required"`
	Title       string         `json:"title" binding:"required,max=255"`
	Description *string        `json:"description" binding:"omitempty,max=2000"`
	TargetValue float64        `json:"targetValue" binding:"required"`
	Unit        string         `json:"unit" binding:"required,max=50"`
	Direction   calc.Direction `json:"direction" binding:"required"`
	Frequency   calc.Frequency `json:"frequency" binding:"required"`
	Weight      *float64       `json:"weight"`
	OwnerID     string         `json:"ownerId"`
}

type UpdateKPIRequest struct {
	Title       *string               `json:"title" binding:"omitempty,min=1,max=255"`
	Description util.Nullable[string] `json:"description"`
	TargetValue *float64              `json:"targetValue"`
	Unit        *string               `json:"unit" binding:"omitempty,min=1,max=50"`
	Direction   *calc.Direction       `json:"direction"`
	Frequency   *calc.Frequency       `json:"frequency"`
	Weight      *float64              `json:"weight"`
	Status      *model.Status         `json:"status"`
	OwnerID     *string               `json:"ownerId"`
}

// KPIDetail KPI 详情：计算结果加上全部打卡记录（最新在前）
type KPIDetail struct {
	KPIProgress
	Updates []model.KPIUpdate `json:"updates"`
}

func validateKPIFields(target *float64, dir *calc.Direction, freq *calc.Frequency, weight *float64) error {
	if dir != nil && !dir.Valid() {
		return util.ErrInvalidDirection
	}
	if freq != nil && !freq.Valid() {
		return util.ErrInvalidFrequency
	}
	if target != nil && *target <= 0 {
		return util.ErrInvalidTarget
	}
	if weight != nil && *weight < 0 {
		return util.ErrInvalidWeight
	}
	return nil
}

// CreateKPI 目标不存在或属于其他团队时统一返回 ErrPermissionDenied
func (s *KPIService) CreateKPI(ctx context.Context, userID string, req CreateKPIRequest) (*model.KPI, error) {
	if err := validateKPIFields(&req.TargetValue, &req.Direction, &req.Frequency, req.Weight); err != nil {
		return nil, err
	}

	teamID, err := s.Teams.ResolveTeamID(userID)
	if err != nil {
		return nil, err
	}

	goal, err := s.GoalRepo.FindByID(req.GoalID)
	if errors.Is(err, gorm.ErrRecordNotFound) || (err == nil && goal.TeamID != teamID) {
		return nil, fmt.Errorf("goal not found or forbidden: %w", util.ErrPermissionDenied)
	}
	if err != nil {
		return nil, err
	}
	if goal.Status == model.StatusArchived {
		return nil, util.ErrGoalArchived
	}

	weight := 1.0
	if req.Weight != nil {
		weight = *req.Weight
	}
	ownerID := req.OwnerID
	if ownerID == "" {
		ownerID = userID
	} else if err := s.Teams.AssertMember(teamID, ownerID); err != nil {
		return nil, err
	}

	kpi := &model.KPI{
		GoalID:      goal.ID,
		Title:       req.Title,
		Description: req.Description,
		OwnerID:     ownerID,
		TargetValue: req.TargetValue,
		Unit:        req.Unit,
		Direction:   req.Direction,
		Frequency:   req.Frequency,
		Weight:      &weight,
		Status:      model.StatusActive,
	}
	if err := s.KPIRepo.Create(kpi); err != nil {
		return nil, err
	}

	s.Invalidator.Invalidate(ctx, teamID)
	return kpi, nil
}

// ListKPIs goalID 为空时返回团队内全部 KPI
func (s *KPIService) ListKPIs(userID, goalID string) ([]model.KPI, error) {
	if goalID == "" {
		teamID, err := s.Teams.ResolveTeamID(userID)
		if err != nil {
			return nil, err
		}
		return s.KPIRepo.FindByTeamID(teamID)
	}

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
	return s.KPIRepo.FindByGoalID(goal.ID, "")
}

// findKPIInTeam 返回 KPI 及其所属团队
func (s *KPIService) findKPIInTeam(userID, kpiID string) (*model.KPI, string, error) {
	return findKPIInTeam(s.KPIRepo, s.GoalRepo, s.Teams, userID, kpiID)
}

func findKPIInTeam(
	kpiRepo *repository.KPIRepository,
	goalRepo *repository.GoalRepository,
	teams *TeamService,
	userID, kpiID string,
) (*model.KPI, string, error) {
	kpi, err := kpiRepo.FindByID(kpiID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", util.ErrKPINotFound
	}
	if err != nil {
		return nil, "", err
	}
	goal, err := goalRepo.FindByID(kpi.GoalID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", util.ErrGoalNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if err := teams.AssertTeamScope(userID, goal.TeamID); err != nil {
		return nil, "", err
	}
	return kpi, goal.TeamID, nil
}

func (s *KPIService) GetKPI(userID, kpiID string) (*KPIDetail, error) {
	kpi, _, err := s.findKPIInTeam(userID, kpiID)
	if err != nil {
		return nil, err
	}
	updates, err := s.UpdateRepo.FindByKPIID(kpi.ID)
	if err != nil {
		return nil, err
	}

	// updates 已按时间倒序，第一条即最新
	var latest *model.KPIUpdate
	if len(updates) > 0 {
		latest = &updates[0]
	}
	return &KPIDetail{
		KPIProgress: scoreKPI(*kpi, latest, s.loader.Now()),
		Updates:     updates,
	}, nil
}

func (s *KPIService) UpdateKPI(ctx context.Context, userID, kpiID string, req UpdateKPIRequest) (*model.KPI, error) {
	kpi, teamID, err := s.findKPIInTeam(userID, kpiID)
	if err != nil {
		return nil, err
	}
	if err := validateKPIFields(req.TargetValue, req.Direction, req.Frequency, req.Weight); err != nil {
		return nil, err
	}
	if req.Status != nil && !req.Status.Valid() {
		return nil, util.ErrInvalidStatus
	}

	fields := map[string]interface{}{}
	if req.Title != nil {
		fields["title"] = *req.Title
	}
	if req.Description.Set {
		fields["description"] = req.Description.Value
	}
	if req.TargetValue != nil {
		fields["target_value"] = *req.TargetValue
	}
	if req.Unit != nil {
		fields["unit"] = *req.Unit
	}
	if req.Direction != nil {
		fields["direction"] = *req.Direction
	}
	if req.Frequency != nil {
		fields["frequency"] = *req.Frequency
	}
	if req.Weight != nil {
		fields["weight"] = *req.Weight
	}
	if req.Status != nil {
		fields["status"] = *req.Status
	}
	if req.OwnerID != nil {
		if err := s.Teams.AssertMember(teamID, *req.OwnerID); err != nil {
			return nil, err
		}
		fields["owner_id"] = *req.OwnerID
	}

	if err := s.KPIRepo.Updates(kpi.ID, fields); err != nil {
		return nil, err
	}

	s.Invalidator.Invalidate(ctx, teamID)
	return s.KPIRepo.FindByID(kpi.ID)
}

// ArchiveKPI “删除” KPI 只做归档，打卡历史保留
func (s *KPIService) ArchiveKPI(ctx context.Context, userID, kpiID string) error {
	kpi, teamID, err := s.findKPIInTeam(userID, kpiID)
	if err != nil {
		return err
	}
	if err := s.KPIRepo.Updates(kpi.ID, map[string]interface{}{"status": model.StatusArchived}); err != nil {
		return err
	}
	s.Invalidator.Invalidate(ctx, teamID)
	return nil
}
