package handlers

import (
	"net/http"

	"ingest/access"
	"ingest/db"
	"ingest/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type ProjectSaveRequest struct {
	ID          uint64 `form:"id"` // 0 for create
	Name        string `form:"name" binding:"required"`
	Description string `form:"description"`
	Public      bool   `form:"public"`
	Attributes  string `form:"attributes"` // JSON object of string values
}

type ProjectInfo struct {
	ID          uint64            `json:"id"`
	Owner       uint64            `json:"owner"`
	Name        string            `json:"name"`
	Description string            `json:"description"`
	Public      bool              `json:"public"`
	Attributes  map[string]string `json:"attributes"`
}

func projectInfo(p *models.Project) ProjectInfo {
	return ProjectInfo{
		ID:          p.ID,
		Owner:       p.UserID,
		Name:        p.Name,
		Description: p.Description,
		Public:      p.Public,
		Attributes:  p.Attributes,
	}
}

func ProjectList(c *gin.Context, user *models.User) {
	var projects []models.Project
	err := db.Instance.
		Table("projects").
		Joins("left join project_members on project_members.resource_id = projects.id and project_members.user_id = ?", user.ID).
		Where("projects.user_id = ? OR projects.public OR project_members.status = ?", user.ID, access.StatusAccepted).
		Group("projects.id").
		Find(&projects).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
		return
	}
	result := make([]ProjectInfo, 0, len(projects))
	for i := range projects {
		result = append(result, projectInfo(&projects[i]))
	}
	c.JSON(http.StatusOK, result)
}

func ProjectSave(c *gin.Context, user *models.User) {
	r := ProjectSaveRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	attrs, err := parseAttributes(r.Attributes)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "attributes must be a JSON object"})
		return
	}
	if r.ID == 0 {
		project := models.Project{
			Name:        r.Name,
			Description: r.Description,
			Public:      r.Public,
			Attributes:  attrs,
		}
		if !requireAccess(c, user, models.ResourceTypeProject, access.ActionCreate, &project) {
			return
		}
		project.UserID = user.ID
		if err := db.Instance.Create(&project).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, projectInfo(&project))
		return
	}
	project, err := models.ProjectGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeProject, access.ActionUpdate, &project) {
		return
	}
	project.Name = r.Name
	project.Description = r.Description
	project.Public = r.Public
	project.Attributes = attrs
	if err := db.Instance.Save(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, projectInfo(&project))
}

func ProjectDelete(c *gin.Context, user *models.User) {
	r := IDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	project, err := models.ProjectGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeProject, access.ActionDelete, &project) {
		return
	}
	if err := db.Instance.Delete(&project).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
