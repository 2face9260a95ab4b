package models

import (
	"ingest/access"
	"ingest/db"
)

// Template is a reusable request body.
type Template struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64
	UpdatedAt  int64
	UserID     uint64     `gorm:"not null"`
	User       User       `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name       string     `gorm:"type:varchar(300)"`
	Body       string     `gorm:"type:text"`
	Public     bool       `gorm:"not null;default 0"`
	Attributes Attributes `gorm:"type:text"`
}

func (t *Template) TypeTag() string                       { return ResourceTypeTemplate }
func (t *Template) ResourceID() uint64                    { return t.ID }
func (t *Template) OwnerID() uint64                       { return t.UserID }
func (t *Template) IsPublic() bool                        { return t.Public }
func (t *Template) ResourceAttributes() map[string]string { return t.Attributes }

func TemplateGet(id uint64) (Template, error) {
	var template Template
	if db.Instance.First(&template, id).Error != nil {
		return Template{}, ErrNotFound
	}
	return template, nil
}

func loadTemplate(id uint64) (access.Resource, error) {
	template, err := TemplateGet(id)
	if err != nil {
		return nil, err
	}
	return &template, nil
}
