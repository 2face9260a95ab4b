package handlers

import (
	"net/http"

	"ingest/db"
	"ingest/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type GroupCreateRequest struct {
	Name string `form:"name" binding:"required"`
}

type GroupMemberRequest struct {
	GroupID uint64 `form:"group_id" binding:"required"`
	UserID  uint64 `form:"user_id" binding:"required"`
}

type GroupInfo struct {
	ID    uint64 `json:"id"`
	Owner uint64 `json:"owner"`
	Name  string `json:"name"`
}

// Groups feed group-scoped policies. The creator manages the roster.
func GroupCreate(c *gin.Context, user *models.User) {
	r := GroupCreateRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	group := models.Group{Name: r.Name, UserID: user.ID}
	if err := db.Instance.Create(&group).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, GroupInfo{ID: group.ID, Owner: group.UserID, Name: group.Name})
}

func GroupList(c *gin.Context, user *models.User) {
	var groups []models.Group
	err := db.Instance.
		Table("groups").
		Joins("left join group_members on group_members.group_id = groups.id").
		Where("groups.user_id = ? OR group_members.user_id = ?", user.ID, user.ID).
		Group("groups.id").
		Find(&groups).Error
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
		return
	}
	result := make([]GroupInfo, 0, len(groups))
	for _, g := range groups {
		result = append(result, GroupInfo{ID: g.ID, Owner: g.UserID, Name: g.Name})
	}
	c.JSON(http.StatusOK, result)
}

func groupOwned(c *gin.Context, user *models.User, groupID uint64) bool {
	var group models.Group
	if db.Instance.First(&group, groupID).Error != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not found"})
		return false
	}
	if group.UserID != user.ID {
		c.JSON(http.StatusForbidden, gin.H{"error": "access denied"})
		return false
	}
	return true
}

func GroupMemberAdd(c *gin.Context, user *models.User) {
	r := GroupMemberRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !groupOwned(c, user, r.GroupID) {
		return
	}
	member := models.GroupMember{GroupID: r.GroupID, UserID: r.UserID}
	if err := db.Instance.Create(&member).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}

func GroupMemberRemove(c *gin.Context, user *models.User) {
	r := GroupMemberRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !groupOwned(c, user, r.GroupID) {
		return
	}
	result := db.Instance.Delete(&models.GroupMember{}, "group_id = ? AND user_id = ?", r.GroupID, r.UserID)
	if result.Error != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": result.Error.Error()})
		return
	}
	if result.RowsAffected == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "no such member"})
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
