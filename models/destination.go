package models

import (
	"ingest/access"
	"ingest/db"
)

type DestinationKind string

const (
	DestinationS3        DestinationKind = "s3"
	DestinationAzure     DestinationKind = "azure"
	DestinationLakeFS    DestinationKind = "lakefs"
	DestinationInternal  DestinationKind = "internal"
	DestinationTemporary DestinationKind = "temporary"
)

func ValidDestinationKind(k DestinationKind) bool {
	switch k {
	case DestinationS3, DestinationAzure, DestinationLakeFS, DestinationInternal, DestinationTemporary:
		return true
	}
	return false
}

// Destination is a place uploaded data lands.
type Destination struct {
	ID         uint64 `gorm:"primaryKey"`
	CreatedAt  int64
	UpdatedAt  int64
	UserID     uint64          `gorm:"not null"`
	User       User            `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name       string          `gorm:"type:varchar(200)"`
	Kind       DestinationKind `gorm:"type:varchar(20)"`
	Public     bool            `gorm:"not null;default 0"`
	Attributes Attributes      `gorm:"type:text"`

	// Connection details for the storage layer.
	Bucket      string `gorm:"type:varchar(200)"` // S3 bucket name, or base directory for internal/temporary
	Region      string `gorm:"type:varchar(50)"`
	Endpoint    string `gorm:"type:varchar(300)"` // optional, for S3-compatible stores
	Path        string // path prefix inside the bucket/directory
	AuthDetails string // "key:secret" for S3
}

func (d *Destination) TypeTag() string                       { return ResourceTypeDestination }
func (d *Destination) ResourceID() uint64                    { return d.ID }
func (d *Destination) OwnerID() uint64                       { return d.UserID }
func (d *Destination) IsPublic() bool                        { return d.Public }
func (d *Destination) ResourceAttributes() map[string]string { return d.Attributes }

func DestinationGet(id uint64) (Destination, error) {
	var dest Destination
	if db.Instance.First(&dest, id).Error != nil {
		return Destination{}, ErrNotFound
	}
	return dest, nil
}

func loadDestination(id uint64) (access.Resource, error) {
	dest, err := DestinationGet(id)
	if err != nil {
		return nil, err
	}
	return &dest, nil
}
