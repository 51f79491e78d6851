package model

type TeamRole string

const (
	TeamOwner  TeamRole = "owner"
	TeamMember TeamRole = "member"
)

// Team 租户边界，目标与 KPI 都归属于团队
// swagger:model Team
type Team struct {
	UUIDBase
	Name    string       `gorm:"size:100;not null" json:"name"`
	Members []Membership `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

func (Team) TableName() string {
	return "teams"
}

// Membership 一个用户最多属于一个团队
type Membership struct {
	UUIDBase
	TeamID string   `gorm:"type:varchar(36);not null;index" json:"teamId"`
	UserID string   `gorm:"type:varchar(36);not null;uniqueIndex" json:"userId"`
	Role   TeamRole `gorm:"size:16;not null" json:"role"`
	User   *User    `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (Membership) TableName() string {
	return "team_members"
}
