package handlers

import (
	"net/http"

	"ingest/access"
	"ingest/auth"
	"ingest/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type MemberInviteRequest struct {
	ResourceID uint64 `form:"resource_id" binding:"required"`
	Email      string `form:"email" binding:"required"`
	Role       string `form:"role"` // defaults to uploader
}

type MemberRoleRequest struct {
	ResourceID uint64 `form:"resource_id" binding:"required"`
	UserID     uint64 `form:"user_id" binding:"required"`
	Role       string `form:"role" binding:"required"`
}

type MemberStatusRequest struct {
	ResourceID uint64 `form:"resource_id" binding:"required"`
	UserID     uint64 `form:"user_id" binding:"required"`
	Status     string `form:"status" binding:"required"`
}

type MemberRemoveRequest struct {
	ResourceID uint64 `form:"resource_id" binding:"required"`
	UserID     uint64 `form:"user_id" binding:"required"`
}

type MemberInfo struct {
	UserID uint64 `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	Status string `json:"status"`
}

// loadResource fetches the resource a membership operation targets.
func loadResource(c *gin.Context, tag string, resourceID uint64) (access.Resource, bool) {
	loader, ok := access.Lookup(tag)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown resource type"})
		return nil, false
	}
	res, err := loader(resourceID)
	if err != nil {
		storeError(c, err)
		return nil, false
	}
	return res, true
}

// MemberList returns the resolved members of a destination or project.
func MemberList(tag string) auth.HandlerFunc {
	return func(c *gin.Context, user *models.User) {
		r := IDRequest{}
		if err := c.ShouldBindWith(&r, binding.Form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, ok := loadResource(c, tag, r.ID)
		if !ok {
			return
		}
		if !requireAccess(c, user, tag, access.ActionRead, res) {
			return
		}
		members, err := models.ActiveMembers(tag, r.ID)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
			return
		}
		result := make([]MemberInfo, 0, len(members))
		for _, m := range members {
			info := MemberInfo{Email: m.Email, Role: string(m.Role), Status: string(m.Status)}
			if m.UserID != nil {
				info.UserID = *m.UserID
			}
			result = append(result, info)
		}
		c.JSON(http.StatusOK, result)
	}
}

// MemberInvite adds a pending membership for an email address. The email
// does not need an account yet; registration resolves it later.
func MemberInvite(tag string) auth.HandlerFunc {
	return func(c *gin.Context, user *models.User) {
		r := MemberInviteRequest{}
		if err := c.ShouldBindWith(&r, binding.Form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, ok := loadResource(c, tag, r.ResourceID)
		if !ok {
			return
		}
		if !requireAccess(c, user, tag, access.ActionUpdate, res) {
			return
		}
		member, err := models.AddMemberByEmail(tag, r.ResourceID, r.Email, access.Role(r.Role))
		if err != nil {
			storeError(c, err)
			return
		}
		info := MemberInfo{Email: member.Email, Role: string(member.Role), Status: string(member.Status)}
		if member.UserID != nil {
			info.UserID = *member.UserID
		}
		c.JSON(http.StatusOK, info)
	}
}

func MemberSetRole(tag string) auth.HandlerFunc {
	return func(c *gin.Context, user *models.User) {
		r := MemberRoleRequest{}
		if err := c.ShouldBindWith(&r, binding.Form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, ok := loadResource(c, tag, r.ResourceID)
		if !ok {
			return
		}
		if !requireAccess(c, user, tag, access.ActionUpdate, res) {
			return
		}
		count, err := models.UpdateMemberRole(tag, r.ResourceID, r.UserID, access.Role(r.Role))
		if err != nil {
			storeError(c, err)
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such membership"})
			return
		}
		c.JSON(http.StatusOK, OKResponse)
	}
}

// MemberSetStatus accepts or rejects an invite. Members change their own
// status; anyone with update access on the resource can change any status.
func MemberSetStatus(tag string) auth.HandlerFunc {
	return func(c *gin.Context, user *models.User) {
		r := MemberStatusRequest{}
		if err := c.ShouldBindWith(&r, binding.Form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		if r.UserID != user.ID {
			res, ok := loadResource(c, tag, r.ResourceID)
			if !ok {
				return
			}
			if !requireAccess(c, user, tag, access.ActionUpdate, res) {
				return
			}
		}
		count, err := models.UpdateMemberStatus(tag, r.ResourceID, r.UserID, access.MemberStatus(r.Status))
		if err != nil {
			storeError(c, err)
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such membership"})
			return
		}
		c.JSON(http.StatusOK, OKResponse)
	}
}

func MemberRemove(tag string) auth.HandlerFunc {
	return func(c *gin.Context, user *models.User) {
		r := MemberRemoveRequest{}
		if err := c.ShouldBindWith(&r, binding.Form); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		res, ok := loadResource(c, tag, r.ResourceID)
		if !ok {
			return
		}
		if !requireAccess(c, user, tag, access.ActionUpdate, res) {
			return
		}
		count, err := models.RemoveMember(tag, r.ResourceID, r.UserID)
		if err != nil {
			storeError(c, err)
			return
		}
		if count == 0 {
			c.JSON(http.StatusNotFound, gin.H{"error": "no such membership"})
			return
		}
		c.JSON(http.StatusOK, OKResponse)
	}
}
