package handlers

import (
	"net/http"

	"ingest/access"
	"ingest/db"
	"ingest/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type RequestSaveRequest struct {
	ID            uint64 `form:"id"` // 0 for create
	Name          string `form:"name" binding:"required"`
	DestinationID uint64 `form:"destination_id" binding:"required"`
	ProjectID     uint64 `form:"project_id"`
	TemplateID    uint64 `form:"template_id"`
	Status        string `form:"status"`
	Public        bool   `form:"public"`
	Attributes    string `form:"attributes"` // JSON object of string values
}

type RequestInfo struct {
	ID            uint64            `json:"id"`
	Owner         uint64            `json:"owner"`
	Name          string            `json:"name"`
	DestinationID uint64            `json:"destination_id"`
	ProjectID     uint64            `json:"project_id"`
	Status        string            `json:"status"`
	Token         string            `json:"token"`
	Public        bool              `json:"public"`
	Attributes    map[string]string `json:"attributes"`
}

func requestInfo(r *models.Request) RequestInfo {
	info := RequestInfo{
		ID:            r.ID,
		Owner:         r.UserID,
		Name:          r.Name,
		DestinationID: r.DestinationID,
		Status:        r.Status,
		Token:         r.Token,
		Public:        r.Public,
		Attributes:    r.Attributes,
	}
	if r.ProjectID != nil {
		info.ProjectID = *r.ProjectID
	}
	return info
}

// RequestList returns requests the user owns or that belong to a project
// the user can read.
func RequestList(c *gin.Context, user *models.User) {
	var requests []models.Request
	err := db.Instance.
		Table("requests").
		Joins("left join project_members on project_members.resource_id = requests.project_id and project_members.user_id = ?", user.ID).
		Where("requests.user_id = ? OR requests.public OR project_members.status = ?", user.ID, access.StatusAccepted).
		Group("requests.id").
		Find(&requests).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
		return
	}
	result := make([]RequestInfo, 0, len(requests))
	for i := range requests {
		result = append(result, requestInfo(&requests[i]))
	}
	c.JSON(http.StatusOK, result)
}

// RequestSave creates or updates an upload request. Creating one needs
// create access on the chosen destination (and project, when set) - being
// an accepted uploader member there is enough.
func RequestSave(c *gin.Context, user *models.User) {
	r := RequestSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attrs, err := parseAttributes(r.Attributes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attributes must be a JSON object"})
		return
	}
	if r.Status == "" {
		r.Status = models.RequestOpen
	}
	if r.Status != models.RequestOpen && r.Status != models.RequestClosed {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown status"})
		return
	}
	if r.ID == 0 {
		dest, err := models.DestinationGet(r.DestinationID)
		if err != nil {
			storeError(c, err)
			return
		}
		if !requireAccess(c, user, models.ResourceTypeDestination, access.ActionCreate, &dest) {
			return
		}
		request := models.NewRequest(user.ID, dest.ID, r.Name)
		request.Status = r.Status
		request.Public = r.Public
		request.Attributes = attrs
		if r.ProjectID != 0 {
			project, err := models.ProjectGet(r.ProjectID)
			if err != nil {
				storeError(c, err)
				return
			}
			if !requireAccess(c, user, models.ResourceTypeProject, access.ActionCreate, &project) {
				return
			}
			request.ProjectID = &project.ID
		}
		if r.TemplateID != 0 {
			template, err := models.TemplateGet(r.TemplateID)
			if err != nil {
				storeError(c, err)
				return
			}
			if !requireAccess(c, user, models.ResourceTypeTemplate, access.ActionRead, &template) {
				return
			}
			request.Instructions = template.Body
		}
		if err := db.Instance.Create(&request).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, requestInfo(&request))
		return
	}
	request, err := models.RequestGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeRequest, access.ActionUpdate, &request) {
		return
	}
	request.Name = r.Name
	request.Status = r.Status
	request.Public = r.Public
	request.Attributes = attrs
	if err := db.Instance.Save(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, requestInfo(&request))
}

func RequestDelete(c *gin.Context, user *models.User) {
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
	if !requireAccess(c, user, models.ResourceTypeRequest, access.ActionDelete, &request) {
		return
	}
	if err := db.Instance.Delete(&request).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
