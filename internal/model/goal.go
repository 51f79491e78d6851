package model

// swagger:model Goal
type Goal struct {
	UUIDBase
	TeamID      string  `gorm:"type:varchar(36);not null;index" json:"teamId"`
	Title       string  `gorm:"size:255;not null" json:"title"`
	Description *string `gorm:"type:text" json:"description"`
	OwnerID     string  `gorm:"type:varchar(36);not null" json:"ownerId"`
	TargetValue float64 `gorm:"not null" json:"targetValue"`
	Unit        string  `gorm:"size:50;not null" json:"unit"`
	DueDate     *int64  `json:"dueDate"` // epoch millis
	Status      Status  `gorm:"size:16;default:'active';index" json:"status"`
	KPIs        []KPI   `gorm:"foreignKey:GoalID" json:"kpis,omitempty"`
}

func (Goal) TableName() string {
	return "goals"
}
