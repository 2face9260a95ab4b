package handlers

import (
	"net/http"

	"ingest/access"
	"ingest/models"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
)

type PolicySaveRequest struct {
	ID            uint64   `form:"id"` // 0 for create
	Name          string   `form:"name" binding:"required"`
	Actions       []string `form:"actions" binding:"required"`
	ResourceTypes []string `form:"resource_types" binding:"required"`
	Attributes    string   `form:"attributes"` // JSON object of string values
	Matcher       string   `form:"matcher" binding:"required"`
	Scope         string   `form:"scope" binding:"required"`
	ScopeID       uint64   `form:"scope_id"`
}

type PolicyListRequest struct {
	ResourceTypes []string `form:"resource_types"`
	Actions       []string `form:"actions"`
}

type PolicyInfo struct {
	ID            uint64            `json:"id"`
	Name          string            `json:"name"`
	Actions       []string          `json:"actions"`
	ResourceTypes []string          `json:"resource_types"`
	Attributes    map[string]string `json:"attributes"`
	Matcher       string            `json:"matcher"`
	Scope         string            `json:"scope"`
	ScopeID       uint64            `json:"scope_id"`
}

func policyInfo(p *models.Policy) PolicyInfo {
	info := PolicyInfo{
		ID:            p.ID,
		Name:          p.Name,
		Actions:       p.Actions,
		ResourceTypes: p.ResourceTypes,
		Attributes:    p.Attributes,
		Matcher:       string(p.Matcher),
		Scope:         string(p.Scope),
	}
	if p.ScopeID != nil {
		info.ScopeID = *p.ScopeID
	}
	return info
}

// PolicyList is a display query; decisions never depend on its order.
func PolicyList(c *gin.Context, user *models.User) {
	r := PolicyListRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	actions := make([]access.Action, 0, len(r.Actions))
	for _, a := range r.Actions {
		actions = append(actions, access.Action(a))
	}
	policies, err := models.PolicyList(r.ResourceTypes, actions)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "DB error 1"})
		return
	}
	result := make([]PolicyInfo, 0, len(policies))
	for i := range policies {
		result = append(result, policyInfo(&policies[i]))
	}
	c.JSON(http.StatusOK, result)
}

func policyFromRequest(r *PolicySaveRequest, attrs models.Attributes) models.Policy {
	policy := models.Policy{
		Name:          r.Name,
		Actions:       r.Actions,
		ResourceTypes: r.ResourceTypes,
		Attributes:    attrs,
		Matcher:       access.Matcher(r.Matcher),
		Scope:         access.Scope(r.Scope),
	}
	if r.ScopeID != 0 {
		policy.ScopeID = &r.ScopeID
	}
	return policy
}

// PolicySave creates or updates a policy. Creation is gated on the policy
// resource type with no owner set, so only policy-granted administrators
// pass.
func PolicySave(c *gin.Context, user *models.User) {
	r := PolicySaveRequest{}
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
		policy := policyFromRequest(&r, attrs)
		if !requireAccess(c, user, models.ResourceTypePolicy, access.ActionCreate, &policy) {
			return
		}
		policy.CreatedByID = &user.ID
		if err := models.PolicyCreate(&policy); err != nil {
			storeError(c, err)
			return
		}
		c.JSON(http.StatusOK, policyInfo(&policy))
		return
	}
	existing, err := models.PolicyGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypePolicy, access.ActionUpdate, &existing) {
		return
	}
	updated, err := models.PolicyUpdate(r.ID, policyFromRequest(&r, attrs))
	if err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, policyInfo(&updated))
}

func PolicyDelete(c *gin.Context, user *models.User) {
	r := IDRequest{}
	if err := c.ShouldBindWith(&r, binding.Form); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	policy, err := models.PolicyGet(r.ID)
	if err != nil {
		storeError(c, err)
		return
	}
	if !requireAccess(c, user, models.ResourceTypePolicy, access.ActionDelete, &policy) {
		return
	}
	if err := models.PolicyDelete(r.ID); err != nil {
		storeError(c, err)
		return
	}
	c.JSON(http.StatusOK, OKResponse)
}
