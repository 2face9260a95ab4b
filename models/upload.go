package models

import "ingest/db"

// Upload records a file received through a request.
type Upload struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	RequestID   uint64  `gorm:"not null;index"`
	Request     Request `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE;"`
	UserID      *uint64 // nil for anonymous token uploads
	Name        string  `gorm:"type:varchar(300)"`
	MimeType    string  `gorm:"type:varchar(100)"`
	Size        int64
	StoragePath string `gorm:"type:varchar(500)"`
}

func UploadsForRequest(requestID uint64) ([]Upload, error) {
	var uploads []Upload
	err := db.Instance.Order("created_at DESC").Find(&uploads, "request_id = ?", requestID).Error
	return uploads, err
}
