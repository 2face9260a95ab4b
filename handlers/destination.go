package handlers

import (
	"net/http"

	"ingest/access"
	"ingest/db"
	"ingest/models"
	"ingest/storage"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type DestinationSaveRequest struct {
	ID          uint64 `form:"id"` // 0 for create
	Name        string `form:"name" binding:"required"`
	Kind        string `form:"kind" binding:"required"`
	Public      bool   `form:"public"`
	Bucket      string `form:"bucket"`
	Region      string `form:"region"`
	Endpoint    string `form:"endpoint"`
	Path        string `form:"path"`
	AuthDetails string `form:"auth_details"`
	Attributes  string `form:"attributes"` // JSON object of string values
}

type DestinationInfo struct {
	ID         uint64            `json:"id"`
	Owner      uint64            `json:"owner"`
	Name       string            `json:"name"`
	Kind       string            `json:"kind"`
	Public     bool              `json:"public"`
	Attributes map[string]string `json:"attributes"`
}

func destinationInfo(d *models.Destination) DestinationInfo {
	return DestinationInfo{
		ID:         d.ID,
		Owner:      d.UserID,
		Name:       d.Name,
		Kind:       string(d.Kind),
		Public:     d.Public,
		Attributes: d.Attributes,
	}
}

// DestinationList returns destinations the user owns, is an accepted member
// of, or that are public.
func DestinationList(c *gin.Context, user *models.User) {
	var destinations []models.Destination
	err := db.Instance.
		Table("destinations").
		Joins("left join destination_members on destination_members.resource_id = destinations.id and destination_members.user_id = ?", user.ID).
		Where("destinations.user_id = ? OR destinations.public OR destination_members.status = ?", user.ID, access.StatusAccepted).
		Group("destinations.id").
		Find(&destinations).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
		return
	}
	result := make([]DestinationInfo, 0, len(destinations))
	for i := range destinations {
		result = append(result, destinationInfo(&destinations[i]))
	}
	c.JSON(http.StatusOK, result)
}

func DestinationSave(c *gin.Context, user *models.User) {
	r := DestinationSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidDestinationKind(models.DestinationKind(r.Kind)) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown destination kind"})
		return
	}
	attrs, err := parseAttributes(r.Attributes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attributes must be a JSON object"})
		return
	}
	if r.ID == 0 {
		dest := models.Destination{
			Name:        r.Name,
			Kind:        models.DestinationKind(r.Kind),
			Public:      r.Public,
			Bucket:      r.Bucket,
			Region:      r.Region,
			Endpoint:    r.Endpoint,
			Path:        r.Path,
			AuthDetails: r.AuthDetails,
			Attributes:  attrs,
		}
		// Owner not yet assigned: create rights come from policies.
		if !requireAccess(c, user, models.ResourceTypeDestination, access.ActionCreate, &dest) {
			return
		}
		dest.UserID = user.ID
		if err := db.Instance.Create(&dest).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, destinationInfo(&dest))
		return
	}
	dest, err := models.DestinationGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeDestination, access.ActionUpdate, &dest) {
		return
	}
	dest.Name = r.Name
	dest.Kind = models.DestinationKind(r.Kind)
	dest.Public = r.Public
	dest.Bucket = r.Bucket
	dest.Region = r.Region
	dest.Endpoint = r.Endpoint
	dest.Path = r.Path
	if r.AuthDetails != "" {
		dest.AuthDetails = r.AuthDetails
	}
	dest.Attributes = attrs
	if err := db.Instance.Save(&dest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	storage.Invalidate(dest.ID)
	c.JSON(http.StatusOK, destinationInfo(&dest))
}

type IDRequest struct {
	ID uint64 `form:"id" binding:"required"`
}

func DestinationDelete(c *gin.Context, user *models.User) {
	r := IDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	dest, err := models.DestinationGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeDestination, access.ActionDelete, &dest) {
		return
	}
	if err := db.Instance.Delete(&dest).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	storage.Invalidate(dest.ID)
	c.JSON(http.StatusOK, OKResponse)
}
