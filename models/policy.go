package models

import (
	"ingest/access"
	"ingest/db"
)

// Policy is the persisted form of an access rule. Actions and resource types
// are JSON lists, attributes a JSON object; all round-trip losslessly.
type Policy struct {
	ID            uint64 `gorm:"primaryKey"`
	CreatedAt     int64
	UpdatedAt     int64
	CreatedByID   *uint64
	CreatedBy     *User          `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Name          string         `gorm:"type:varchar(200)"`
	Actions       StringList     `gorm:"type:text"`
	ResourceTypes StringList     `gorm:"type:text"`
	Attributes    Attributes     `gorm:"type:text"`
	Matcher       access.Matcher `gorm:"type:varchar(20)"`
	Scope         access.Scope   `gorm:"type:varchar(20)"`
	ScopeID       *uint64
}

func (p *Policy) TypeTag() string    { return ResourceTypePolicy }
func (p *Policy) ResourceID() uint64 { return p.ID }
func (p *Policy) OwnerID() uint64 {
	if p.CreatedByID == nil {
		return 0
	}
	return *p.CreatedByID
}
func (p *Policy) IsPublic() bool                        { return false }
func (p *Policy) ResourceAttributes() map[string]string { return p.Attributes }

// Access converts the row into the evaluator's view of it.
func (p *Policy) Access() access.Policy {
	actions := make([]access.Action, 0, len(p.Actions))
	for _, a := range p.Actions {
		actions = append(actions, access.Action(a))
	}
	return access.Policy{
		ID:            p.ID,
		Name:          p.Name,
		Actions:       actions,
		ResourceTypes: p.ResourceTypes,
		Attributes:    p.Attributes,
		Matcher:       p.Matcher,
		Scope:         p.Scope,
		ScopeID:       p.ScopeID,
	}
}

func (p *Policy) validate() error {
	invalid := newValidationError()
	if p.Name == "" {
		invalid.Fields["name"] = "is required"
	}
	if len(p.Actions) == 0 {
		invalid.Fields["actions"] = "is required"
	} else {
		for _, a := range p.Actions {
			if !access.ValidAction(access.Action(a)) {
				invalid.Fields["actions"] = "unknown action " + a
			}
		}
	}
	if len(p.ResourceTypes) == 0 {
		invalid.Fields["resource_types"] = "is required"
	} else {
		for _, tag := range p.ResourceTypes {
			if !access.Registered(tag) {
				invalid.Fields["resource_types"] = "unknown resource type " + tag
			}
		}
	}
	if !access.ValidMatcher(p.Matcher) {
		invalid.Fields["matcher"] = "is required"
	}
	if !access.ValidScope(p.Scope) {
		invalid.Fields["scope"] = "is required"
	} else if p.Scope != access.ScopeGlobal && p.ScopeID == nil {
		invalid.Fields["scope_id"] = "is required for scope " + string(p.Scope)
	}
	if len(invalid.Fields) > 0 {
		return invalid
	}
	return nil
}

// PolicyList returns policies whose resource types intersect resourceTypes
// and whose actions intersect actions. Either filter can be empty, meaning
// "any". Order carries no meaning; this is a display query.
func PolicyList(resourceTypes []string, actions []access.Action) ([]Policy, error) {
	var all []Policy
	if err := db.Instance.Find(&all).Error; err != nil {
		return nil, err
	}
	result := []Policy{}
	for _, p := range all {
		if len(resourceTypes) > 0 && !intersects(p.ResourceTypes, resourceTypes) {
			continue
		}
		if len(actions) > 0 {
			match := false
			for _, a := range actions {
				if p.Actions.Contains(string(a)) {
					match = true
					break
				}
			}
			if !match {
				continue
			}
		}
		result = append(result, p)
	}
	return result, nil
}

func intersects(list StringList, query []string) bool {
	for _, q := range query {
		if list.Contains(q) {
			return true
		}
	}
	return false
}

func PolicyGet(id uint64) (Policy, error) {
	var policy Policy
	if db.Instance.First(&policy, id).Error != nil {
		return Policy{}, ErrNotFound
	}
	return policy, nil
}

func PolicyCreate(p *Policy) error {
	if err := p.validate(); err != nil {
		return err
	}
	return db.Instance.Create(p).Error
}

func PolicyUpdate(id uint64, attrs Policy) (Policy, error) {
	policy, err := PolicyGet(id)
	if err != nil {
		return Policy{}, err
	}
	policy.Name = attrs.Name
	policy.Actions = attrs.Actions
	policy.ResourceTypes = attrs.ResourceTypes
	policy.Attributes = attrs.Attributes
	policy.Matcher = attrs.Matcher
	policy.Scope = attrs.Scope
	policy.ScopeID = attrs.ScopeID
	if err := policy.validate(); err != nil {
		return Policy{}, err
	}
	if err := db.Instance.Save(&policy).Error; err != nil {
		return Policy{}, err
	}
	return policy, nil
}

func PolicyDelete(id uint64) error {
	result := db.Instance.Delete(&Policy{}, id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func loadPolicy(id uint64) (access.Resource, error) {
	policy, err := PolicyGet(id)
	if err != nil {
		return nil, err
	}
	return &policy, nil
}

// PolicyQuery is the evaluator's read path into the policies table.
type PolicyQuery struct{}

func (PolicyQuery) ListForResource(tag string) ([]access.Policy, error) {
	var rows []Policy
	// JSON list columns: prefilter with LIKE, the evaluator re-checks the
	// decoded list before using a policy.
	err := db.Instance.Find(&rows, "resource_types LIKE ?", `%"`+tag+`"%`).Error
	if err != nil {
		return nil, err
	}
	policies := make([]access.Policy, 0, len(rows))
	for i := range rows {
		policies = append(policies, rows[i].Access())
	}
	return policies, nil
}
