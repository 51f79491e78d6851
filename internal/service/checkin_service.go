package service

import (
	"context"
	"errors"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/repository"
	"kpi_tracker_backend/internal/util"
	"kpi_tracker_backend/pkg/monitoring"
	"time"

	"gorm.io/gorm"
)

// CheckinService KPI 打卡记录
type CheckinService struct {
	UpdateRepo  *repository.KPIUpdateRepository
	KPIRepo     *repository.KPIRepository
	GoalRepo    *repository.GoalRepository
	Teams       *TeamService
	Invalidator DashboardInvalidator
	Now         func() time.Time
}

func NewCheckinService(
	updateRepo *repository.KPIUpdateRepository,
	kpiRepo *repository.KPIRepository,
	goalRepo *repository.GoalRepository,
	teams *TeamService,
	invalidator DashboardInvalidator,
) *CheckinService {
	return &CheckinService{
		UpdateRepo:  updateRepo,
		KPIRepo:     kpiRepo,
		GoalRepo:    goalRepo,
		Teams:       teams,
		Invalidator: invalidator,
		Now:         time.Now,
	}
}

type CreateCheckinRequest struct {
	KPIID      string   `json:"kpiId" binding:"required"`
	Value      *float64 `json:"value" binding:"required"`
	Note       *string  `json:"note" binding:"omitempty,max=2000"`
	RecordedAt *int64   `json:"recordedAt"`
}

type EditCheckinRequest struct {
	Value      *float64              `json:"value"`
	Note       util.Nullable[string] `json:"note"`
	RecordedAt *int64                `json:"recordedAt"`
}

func (s *CheckinService) ListUpdates(userID, kpiID string) ([]model.KPIUpdate, error) {
	kpi, _, err := findKPIInTeam(s.KPIRepo, s.GoalRepo, s.Teams, userID, kpiID)
	if err != nil {
		return nil, err
	}
	return s.UpdateRepo.FindByKPIID(kpi.ID)
}

// CreateUpdate 只接受未归档目标下未归档的 KPI；value 不能为负，recordedAt 缺省为当前时间
func (s *CheckinService) CreateUpdate(ctx context.Context, userID string, req CreateCheckinRequest) (*model.KPIUpdate, error) {
	if req.Value == nil || *req.Value < 0 {
		return nil, util.ErrInvalidValue
	}
	kpi, teamID, err := findKPIInTeam(s.KPIRepo, s.GoalRepo, s.Teams, userID, req.KPIID)
	if err != nil {
		return nil, err
	}
	if kpi.Status == model.StatusArchived {
		return nil, util.ErrKPIArchived
	}
	goal, err := s.GoalRepo.FindByID(kpi.GoalID)
	if err != nil {
		return nil, err
	}
	if goal.Status == model.StatusArchived {
		return nil, util.ErrGoalArchived
	}

	recordedAt := s.Now().UnixMilli()
	if req.RecordedAt != nil && *req.RecordedAt != 0 {
		recordedAt = *req.RecordedAt
	}

	update := &model.KPIUpdate{
		KPIID:      kpi.ID,
		Value:      *req.Value,
		Note:       req.Note,
		RecordedAt: recordedAt,
		CreatedBy:  userID,
	}
	if err := s.UpdateRepo.Create(update); err != nil {
		return nil, err
	}

	monitoring.CheckinCounter.WithLabelValues(string(kpi.Frequency)).Inc()
	s.Invalidator.Invalidate(ctx, teamID)
	return update, nil
}

// findMutable 只有创建者能修改，且只能修改该 KPI 最新的一条
func (s *CheckinService) findMutable(userID, updateID string) (*model.KPIUpdate, string, error) {
	update, err := s.UpdateRepo.FindByID(updateID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, "", util.ErrUpdateNotFound
	}
	if err != nil {
		return nil, "", err
	}
	if update.CreatedBy != userID {
		return nil, "", util.ErrPermissionDenied
	}

	_, teamID, err := findKPIInTeam(s.KPIRepo, s.GoalRepo, s.Teams, userID, update.KPIID)
	if err != nil {
		return nil, "", err
	}

	latest, err := s.UpdateRepo.FindLatestByKPIID(update.KPIID)
	if err != nil {
		return nil, "", err
	}
	if latest == nil || latest.ID != update.ID {
		return nil, "", util.ErrNotLatestUpdate
	}
	return update, teamID, nil
}

func (s *CheckinService) EditUpdate(ctx context.Context, userID, updateID string, req EditCheckinRequest) (*model.KPIUpdate, error) {
	if req.Value != nil && *req.Value < 0 {
		return nil, util.ErrInvalidValue
	}
	update, teamID, err := s.findMutable(userID, updateID)
	if err != nil {
		return nil, err
	}

	fields := map[string]interface{}{}
	if req.Value != nil {
		fields["value"] = *req.Value
	}
	if req.Note.Set {
		fields["note"] = req.Note.Value
	}
	if req.RecordedAt != nil && *req.RecordedAt != 0 {
		fields["recorded_at"] = *req.RecordedAt
	}

	if err := s.UpdateRepo.Updates(update.ID, fields); err != nil {
		return nil, err
	}

	s.Invalidator.Invalidate(ctx, teamID)
	return s.UpdateRepo.FindByID(update.ID)
}

func (s *CheckinService) DeleteUpdate(ctx context.Context, userID, updateID string) error {
	update, teamID, err := s.findMutable(userID, updateID)
	if err != nil {
		return err
	}
	if err := s.UpdateRepo.Delete(update.ID); err != nil {
		return err
	}
	s.Invalidator.Invalidate(ctx, teamID)
	return nil
}
