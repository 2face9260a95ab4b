package models

import (
	"ingest/access"
	"ingest/db"
	"ingest/utils"
)

const (
	RequestOpen   = "open"
	RequestClosed = "closed"
)

// Request asks people to upload files. The token is what upload links carry,
// so uploaders don't need an account.
type Request struct {
	ID            uint64 `gorm:"primaryKey"`
	CreatedAt     int64
	UpdatedAt     int64
	UserID        uint64 `gorm:"not null"`
	User          User   `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	ProjectID     *uint64
	Project       *Project `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	DestinationID uint64
	Destination   Destination `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	Name          string      `gorm:"type:varchar(300)"`
	Instructions  string      `gorm:"type:text"` // shown to uploaders, usually copied from a template
	Status        string      `gorm:"type:varchar(20);default:open"`
	Token         string      `gorm:"type:varchar(100);index:uniq_request_token,unique"`
	Public        bool        `gorm:"not null;default 0"`
	Attributes    Attributes  `gorm:"type:text"`
}

func NewRequest(userID, destinationID uint64, name string) Request {
	return Request{
		UserID:        userID,
		DestinationID: destinationID,
		Name:          name,
		Status:        RequestOpen,
		Token:         utils.Rand16BytesToBase62() + utils.Rand16BytesToBase62(),
	}
}

func (r *Request) TypeTag() string                       { return ResourceTypeRequest }
func (r *Request) ResourceID() uint64                    { return r.ID }
func (r *Request) OwnerID() uint64                       { return r.UserID }
func (r *Request) IsPublic() bool                        { return r.Public }
func (r *Request) ResourceAttributes() map[string]string { return r.Attributes }

func RequestGet(id uint64) (Request, error) {
	var request Request
	if db.Instance.First(&request, id).Error != nil {
		return Request{}, ErrNotFound
	}
	return request, nil
}

func RequestByToken(token string) (Request, error) {
	var request Request
	if db.Instance.First(&request, "token = ?", token).Error != nil {
		return Request{}, ErrNotFound
	}
	return request, nil
}

func loadRequest(id uint64) (access.Resource, error) {
	request, err := RequestGet(id)
	if err != nil {
		return nil, err
	}
	return &request, nil
}
