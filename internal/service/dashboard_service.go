package service

import (
	"context"
	"encoding/json"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/repository"
	"kpi_tracker_backend/pkg/cache"
	"kpi_tracker_backend/pkg/logger"
	"kpi_tracker_backend/pkg/monitoring"
	"kpi_tracker_backend/pkg/tracing"
	"sync/atomic"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

// DashboardInvalidator 写操作成功后清除团队的仪表盘缓存
type DashboardInvalidator interface {
	Invalidate(ctx context.Context, teamID string)
}

type DashboardService struct {
	Teams    *TeamService
	GoalRepo *repository.GoalRepository
	Cache    cache.Cache
	ttl      atomic.Int64
	loader   *progressLoader
}

func NewDashboardService(
	teams *TeamService,
	goalRepo *repository.GoalRepository,
	kpiRepo *repository.KPIRepository,
	updateRepo *repository.KPIUpdateRepository,
	c cache.Cache,
	ttl time.Duration,
) *DashboardService {
	s := &DashboardService{
		Teams:    teams,
		GoalRepo: goalRepo,
		Cache:    c,
		loader:   newProgressLoader(kpiRepo, updateRepo),
	}
	s.SetTTL(ttl)
	return s
}

// SetTTL 配置热更新时调整缓存时间；进程内缓存会同步重建
func (s *DashboardService) SetTTL(ttl time.Duration) {
	s.ttl.Store(int64(ttl))
	if setter, ok := s.Cache.(cache.TTLSetter); ok {
		setter.SetTTL(ttl)
	}
}

func (s *DashboardService) TTL() time.Duration {
	return time.Duration(s.ttl.Load())
}

type OverdueKPI struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Frequency  string `json:"frequency"`
	LastUpdate *int64 `json:"lastUpdate"`
}

type Dashboard struct {
	Goals        []GoalProgress `json:"goals"`
	OverdueKPIs  []OverdueKPI   `json:"overdueKpis"`
	OverdueCount int            `json:"overdueCount"`
}

// GetDashboard 团队仪表盘，优先读取缓存
func (s *DashboardService) GetDashboard(ctx context.Context, userID string) (*Dashboard, error) {
	teamID, err := s.Teams.ResolveTeamID(userID)
	if err != nil {
		return nil, err
	}

	key := cache.DashboardKey(teamID)
	if s.Cache != nil {
		raw, ok, err := s.Cache.Get(ctx, key)
		if err != nil {
			logger.Log.Warn("Dashboard cache read failed", zap.String("team_id", teamID), zap.Error(err))
		} else if ok {
			var cached Dashboard
			if err := json.Unmarshal(raw, &cached); err == nil {
				monitoring.DashboardCacheCounter.WithLabelValues("hit").Inc()
				return &cached, nil
			}
		}
		monitoring.DashboardCacheCounter.WithLabelValues("miss").Inc()
	}

	dashboard, err := s.Build(ctx, teamID)
	if err != nil {
		return nil, err
	}

	if s.Cache != nil {
		if raw, err := json.Marshal(dashboard); err == nil {
			if err := s.Cache.Set(ctx, key, raw, s.TTL()); err != nil {
				logger.Log.Warn("Dashboard cache write failed", zap.String("team_id", teamID), zap.Error(err))
			}
		}
	}
	return dashboard, nil
}

// Build 不经缓存直接计算
func (s *DashboardService) Build(ctx context.Context, teamID string) (*Dashboard, error) {
	_, span := tracing.Tracer.Start(ctx, "dashboard.build")
	defer span.End()
	span.SetAttributes(attribute.String("team.id", teamID))

	goals, err := s.GoalRepo.FindByTeamID(teamID, model.StatusActive)
	if err != nil {
		return nil, err
	}

	dashboard := &Dashboard{
		Goals:       make([]GoalProgress, 0, len(goals)),
		OverdueKPIs: []OverdueKPI{},
	}
	for _, goal := range goals {
		gp, err := s.loader.loadGoal(goal, model.StatusActive)
		if err != nil {
			return nil, err
		}
		dashboard.Goals = append(dashboard.Goals, *gp)
		for _, k := range gp.KPIs {
			if !k.Overdue {
				continue
			}
			dashboard.OverdueKPIs = append(dashboard.OverdueKPIs, OverdueKPI{
				ID:         k.KPI.ID,
				Title:      k.KPI.Title,
				Frequency:  string(k.KPI.Frequency),
				LastUpdate: k.LastUpdate,
			})
		}
	}
	dashboard.OverdueCount = len(dashboard.OverdueKPIs)
	span.SetAttributes(attribute.Int("dashboard.overdue", dashboard.OverdueCount))
	return dashboard, nil
}

func (s *DashboardService) Invalidate(ctx context.Context, teamID string) {
	if s.Cache == nil {
		return
	}
	if err := s.Cache.Delete(ctx, cache.DashboardKey(teamID)); err != nil {
		logger.Log.Warn("Dashboard cache invalidation failed", zap.String("team_id", teamID), zap.Error(err))
	}
}
