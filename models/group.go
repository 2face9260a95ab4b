package models

type Group struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	UserID    uint64 `gorm:"not null"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name      string `gorm:"type:varchar(200)"`
}

type GroupMember struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	GroupID   uint64 `gorm:"index:uniq_group_user,unique,priority:1"`
	Group     Group  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID    uint64 `gorm:"index:uniq_group_user,unique,priority:2"`
	User      User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
}
