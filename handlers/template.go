package handlers

import (
	"net/http"

	"ingest/access"
	"ingest/db"
	"ingest/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type TemplateSaveRequest struct {
	ID         uint64 `form:"id"` // 0 for create
	Name       string `form:"name" binding:"required"`
	Body       string `form:"body"`
	Public     bool   `form:"public"`
	Attributes string `form:"attributes"` // JSON object of string values
}

type TemplateInfo struct {
	ID         uint64            `json:"id"`
	Owner      uint64            `json:"owner"`
	Name       string            `json:"name"`
	Body       string            `json:"body"`
	Public     bool              `json:"public"`
	Attributes map[string]string `json:"attributes"`
}

func templateInfo(t *models.Template) TemplateInfo {
	return TemplateInfo{
		ID:         t.ID,
		Owner:      t.UserID,
		Name:       t.Name,
		Body:       t.Body,
		Public:     t.Public,
		Attributes: t.Attributes,
	}
}

func TemplateList(c *gin.Context, user *models.User) {
	var templates []models.Template
	err := db.Instance.
		Where("user_id = ? OR public", user.ID).
		Find(&templates).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
		return
	}
	result := make([]TemplateInfo, 0, len(templates))
	for i := range templates {
		result = append(result, templateInfo(&templates[i]))
	}
	c.JSON(http.StatusOK, result)
}

func TemplateSave(c *gin.Context, user *models.User) {
	r := TemplateSaveRequest{}
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
		template := models.Template{
			Name:       r.Name,
			Body:       r.Body,
			Public:     r.Public,
			Attributes: attrs,
		}
		if !requireAccess(c, user, models.ResourceTypeTemplate, access.ActionCreate, &template) {
			return
		}
		template.UserID = user.ID
		if err := db.Instance.Create(&template).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusOK, templateInfo(&template))
		return
	}
	template, err := models.TemplateGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeTemplate, access.ActionUpdate, &template) {
		return
	}
	template.Name = r.Name
	template.Body = r.Body
	template.Public = r.Public
	template.Attributes = attrs
	if err := db.Instance.Save(&template).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, templateInfo(&template))
}

func TemplateDelete(c *gin.Context, user *models.User) {
	r := IDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	template, err := models.TemplateGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypeTemplate, access.ActionDelete, &template) {
		return
	}
	if err := db.Instance.Delete(&template).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
