package service

import (
	"kpi_tracker_backend/internal/calc"
	"kpi_tracker_backend/internal/model"
	"kpi_tracker_backend/internal/repository"
	"time"
)

// KPIProgress 单个 KPI 的计算结果；没有打卡时 CurrentValue 为 0、LastUpdate 为 nil
type KPIProgress struct {
	KPI          model.KPI `json:"kpi"`
	CurrentValue float64   `json:"currentValue"`
	Ratio        float64   `json:"ratio"`
	LastUpdate   *int64    `json:"lastUpdate"`
	Overdue      bool      `json:"overdue"`
}

type GoalProgress struct {
	Goal          model.Goal    `json:"goal"`
	Progress      int           `json:"progress"`
	DaysRemaining *int          `json:"daysRemaining"`
	KPIs          []KPIProgress `json:"kpis"`
}

// progressLoader 读取最新打卡并交给 calc 计算
type progressLoader struct {
	KPIRepo    *repository.KPIRepository
	UpdateRepo *repository.KPIUpdateRepository
	Now        func() time.Time
}

func newProgressLoader(kpiRepo *repository.KPIRepository, updateRepo *repository.KPIUpdateRepository) *progressLoader {
	return &progressLoader{KPIRepo: kpiRepo, UpdateRepo: updateRepo, Now: time.Now}
}

func scoreKPI(kpi model.KPI, latest *model.KPIUpdate, now time.Time) KPIProgress {
	p := KPIProgress{KPI: kpi}
	if latest != nil {
		p.CurrentValue = latest.Value
		recordedAt := latest.RecordedAt
		p.LastUpdate = &recordedAt
	}
	p.Ratio = calc.KPIRatio(kpi.Direction, p.CurrentValue, kpi.TargetValue)
	p.Overdue = calc.IsOverdueAt(calc.FromMillis(p.LastUpdate), kpi.Frequency, now)
	return p
}

// goalScore 只统计未归档的 KPI
func goalScore(kpis []KPIProgress) int {
	items := make([]calc.WeightedRatio, 0, len(kpis))
	for _, k := range kpis {
		if k.KPI.Status == model.StatusArchived {
			continue
		}
		items = append(items, calc.WeightedRatio{Weight: k.KPI.Weight, Ratio: k.Ratio})
	}
	return calc.GoalProgress(items)
}

func (l *progressLoader) loadKPI(kpi model.KPI, now time.Time) (KPIProgress, error) {
	latest, err := l.UpdateRepo.FindLatestByKPIID(kpi.ID)
	if err != nil {
		return KPIProgress{}, err
	}
	return scoreKPI(kpi, latest, now), nil
}

// loadGoal status 为空时包含已归档 KPI（目标详情），仪表盘只传 active
func (l *progressLoader) loadGoal(goal model.Goal, status model.Status) (*GoalProgress, error) {
	now := l.Now()
	kpis, err := l.KPIRepo.FindByGoalID(goal.ID, status)
	if err != nil {
		return nil, err
	}

	gp := &GoalProgress{
		Goal:          goal,
		DaysRemaining: calc.DaysRemainingAt(calc.FromMillis(goal.DueDate), now),
		KPIs:          make([]KPIProgress, 0, len(kpis)),
	}
	for _, kpi := range kpis {
		p, err := l.loadKPI(kpi, now)
		if err != nil {
			return nil, err
		}
		gp.KPIs = append(gp.KPIs, p)
	}
	gp.Progress = goalScore(gp.KPIs)
	return gp, nil
}
