package models

import (
	"ingest/access"
	"ingest/db"
)

// Project groups upload requests together.
type Project struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	UserID      uint64     `gorm:"not null"`
	User        User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name        string     `gorm:"type:varchar(200)"`
	Description string     `gorm:"type:text"`
	Public      bool       `gorm:"not null;default 0"`
	Attributes  Attributes `gorm:"type:text"`
}

func (p *Project) TypeTag() string                       { return ResourceTypeProject }
func (p *Project) ResourceID() uint64                    { return p.ID }
func (p *Project) OwnerID() uint64                       { return p.UserID }
func (p *Project) IsPublic() bool                        { return p.Public }
func (p *Project) ResourceAttributes() map[string]string { return p.Attributes }

func ProjectGet(id uint64) (Project, error) {
	var project Project
	if db.Instance.First(&project, id).Error != nil {
		return Project{}, ErrNotFound
	}
	return project, nil
}

func loadProject(id uint64) (access.Resource, error) {
	project, err := ProjectGet(id)
	if err != nil {
		return nil, err
	}
	return &project, nil
}
