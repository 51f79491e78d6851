package model

import "gorm.io/gorm"

// KPIUpdate 一次打卡记录。只有最新的一条可以被其创建者修改或删除，删除为物理删除。
// swagger:model KPIUpdate
type KPIUpdate struct {
	ID         string  `gorm:"primaryKey;type:varchar(36)" json:"id"`
	KPIID      string  `gorm:"column:kpi_id;type:varchar(36);not null;index:idx_kpi_recorded,priority:1" json:"kpiId"`
	Value      float64 `gorm:"not null" json:"value"`
	Note       *string `gorm:"type:text" json:"note"`
	RecordedAt int64   `gorm:"not null;index:idx_kpi_recorded,priority:2" json:"recordedAt"` // epoch millis
	CreatedBy  string  `gorm:"type:varchar(36);not null" json:"createdBy"`
	CreatedAt  int64   `gorm:"autoCreateTime:nano" json:"-"`
}

func (KPIUpdate) TableName() string {
	return "kpi_updates"
}

func (u *KPIUpdate) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = GenerateUUID()
	}
	return nil
}
