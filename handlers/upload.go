package handlers

import (
	"net/http"
	"path/filepath"
	"time"

	"ingest/access"
	"ingest/auth"
	"ingest/db"
	"ingest/models"
	"ingest/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/google/uuid"
)

type UploadInfo struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	MimeType  string `json:"mime_type"`
	Size      int64  `json:"size"`
	CreatedAt int64  `json:"created_at"`
}

// RequestShow is the public face of an upload link: what the uploader sees
// before sending files. Addressed by token, no account needed.
func RequestShow(c *gin.Context) {
	request, err := models.RequestByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"error":        "",
		"name":         request.Name,
		"instructions": request.Instructions,
		"open":         request.Status == models.RequestOpen,
	})
}

// Upload receives a file for an open request and lands it in the request's
// destination. Stored objects get a fresh uuid name; the original file name
// only lives in the uploads table.
func Upload(c *gin.Context) {
	request, err := models.RequestByToken(c.Param("token"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	if request.Status != models.RequestOpen {
		c.JSON(http.StatusForbidden, gin.H{"error": "request is closed"})
		return
	}
	dest, err := models.DestinationGet(request.DestinationID)
	if err != nil {
		storeError(c, err)
		return
	}
	backend, err := storage.FromDestination(&dest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file is required"})
		return
	}
	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	defer file.Close()

	path := request.Token + "/" + uuid.NewString() + filepath.Ext(fileHeader.Filename)
	size, err := backend.Save(path, file)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	upload := models.Upload{
		CreatedAt:   time.Now().Unix(),
		RequestID:   request.ID,
		Name:        fileHeader.Filename,
		MimeType:    fileHeader.Header.Get("Content-Type"),
		Size:        size,
		StoragePath: path,
	}
	// Record who uploaded when a session exists; anonymous otherwise.
	session := auth.LoadSession(c)
	if user := session.User(); user.ID > 0 {
		upload.UserID = &user.ID
	}
	if err := db.Instance.Create(&upload).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"error": "", "id": upload.ID, "size": size})
}

// UploadList shows what arrived for a request.
func UploadList(c *gin.Context, user *models.User) {
	r := IDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	request, err := models.RequestGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeRequest, access.ActionRead, &request) {
		return
	}
	uploads, err := models.UploadsForRequest(request.ID)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
		return
	}
	result := make([]UploadInfo, 0, len(uploads))
	for _, u := range uploads {
		result = append(result, UploadInfo{
			ID:        u.ID,
			Name:      u.Name,
			MimeType:  u.MimeType,
			Size:      u.Size,
			CreatedAt: u.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, result)
}

// UploadFetch streams an uploaded file back to someone who may read the
// request it belongs to.
func UploadFetch(c *gin.Context, user *models.User) {
	r := IDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	var upload models.Upload
	if db.Instance.First(&upload, r.ID).Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return
	}
	request, err := models.RequestGet(upload.RequestID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeRequest, access.ActionRead, &request) {
		return
	}
	dest, err := models.DestinationGet(request.DestinationID)
	if err != nil {
		storeError(c, err)
		return
	}
	backend, err := storage.FromDestination(&dest)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if upload.MimeType != "" {
		c.Header("Content-Type", upload.MimeType)
	}
	backend.Serve(upload.StoragePath, c.Request, c.Writer)
}
