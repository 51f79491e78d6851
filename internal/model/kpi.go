package model

import "kpi_tracker_backend/internal/calc"

// swagger:model KPI
type KPI struct {
	UUIDBase
	GoalID      string         `gorm:"type:varchar(36);not null;index" json:"goalId"`
	Title       string         `gorm:"size:255;not null" json:"title"`
	Description *string        `gorm:"type:text" json:"description"`
	OwnerID     string         `gorm:"type:varchar(36);not null" json:"ownerId"`
	TargetValue float64        `gorm:"not null" json:"targetValue"`
	Unit        string         `gorm:"size:50;not null" json:"unit"`
	Direction   calc.Direction `gorm:"size:8;not null" json:"direction"`
	Frequency   calc.Frequency `gorm:"size:16;not null" json:"frequency"`
	Weight      *float64       `gorm:"default:1" json:"weight"`
	Status      Status         `gorm:"size:16;default:'active';index" json:"status"`
	Updates     []KPIUpdate    `gorm:"foreignKey:KPIID" json:"updates,omitempty"`
}

func (KPI) TableName() string {
	return "kpis"
}
