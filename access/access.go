package access

// Action is one of the four operations a caller can request on a resource.
type Action string

const (
	ActionCreate Action = "create"
	ActionRead   Action = "read"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// Matcher selects how a policy combines its action and attribute checks.
type Matcher string

const (
	MatchAll  Matcher = "match_all"  // both action and attributes must match
	MatchOne  Matcher = "match_one"  // either is enough
	MatchNone Matcher = "match_none" // explicit deny when attributes match
)

// Scope limits who a policy applies to.
type Scope string

const (
	ScopeGlobal Scope = "global"
	ScopeUser   Scope = "user"
	ScopeGroup  Scope = "group"
)

// Role is the capability level of a resource member.
type Role string

const (
	RoleUploader Role = "uploader"
	RoleManager  Role = "manager"
)

// MemberStatus gates whether a membership currently grants anything.
type MemberStatus string

const (
	StatusPending  MemberStatus = "pending"
	StatusAccepted MemberStatus = "accepted"
	StatusRejected MemberStatus = "rejected"
)

// roleActions maps a member role to the actions it grants.
var roleActions = map[Role]map[Action]bool{
	RoleUploader: {ActionCreate: true, ActionRead: true},
	RoleManager:  {ActionCreate: true, ActionRead: true, ActionUpdate: true, ActionDelete: true},
}

// RoleAllows reports whether the given role grants the given action.
func RoleAllows(role Role, action Action) bool {
	return roleActions[role][action]
}

func ValidAction(a Action) bool {
	switch a {
	case ActionCreate, ActionRead, ActionUpdate, ActionDelete:
		return true
	}
	return false
}

func ValidMatcher(m Matcher) bool {
	switch m {
	case MatchAll, MatchOne, MatchNone:
		return true
	}
	return false
}

func ValidScope(s Scope) bool {
	switch s {
	case ScopeGlobal, ScopeUser, ScopeGroup:
		return true
	}
	return false
}

func ValidRole(r Role) bool {
	return r == RoleUploader || r == RoleManager
}

func ValidStatus(s MemberStatus) bool {
	switch s {
	case StatusPending, StatusAccepted, StatusRejected:
		return true
	}
	return false
}

// Actor is the subject of an authorization check.
type Actor struct {
	ID     uint64
	Groups []uint64
}

func (a Actor) inGroup(id uint64) bool {
	for _, g := range a.Groups {
		if g == id {
			return true
		}
	}
	return false
}

// Policy is an administrator-defined access rule. Stores hand these to the
// evaluator already filtered down to a single resource type.
type Policy struct {
	ID            uint64
	Name          string
	Actions       []Action
	ResourceTypes []string
	Attributes    map[string]string
	Matcher       Matcher
	Scope         Scope
	ScopeID       *uint64
}

func (p Policy) hasAction(action Action) bool {
	for _, a := range p.Actions {
		if a == action {
			return true
		}
	}
	return false
}

func (p Policy) hasResourceType(tag string) bool {
	for _, t := range p.ResourceTypes {
		if t == tag {
			return true
		}
	}
	return false
}

// appliesTo reports whether the policy's scope covers the actor.
func (p Policy) appliesTo(actor Actor) bool {
	switch p.Scope {
	case ScopeGlobal:
		return true
	case ScopeUser:
		return p.ScopeID != nil && *p.ScopeID == actor.ID
	case ScopeGroup:
		return p.ScopeID != nil && actor.inGroup(*p.ScopeID)
	}
	return false
}

// attributesMatch reports whether every policy attribute equals the
// resource's value for the same key. An empty attribute map always matches.
func (p Policy) attributesMatch(attrs map[string]string) bool {
	for k, want := range p.Attributes {
		if got, ok := attrs[k]; !ok || got != want {
			return false
		}
	}
	return true
}

// Membership is the evaluator's view of a resource member row.
type Membership struct {
	UserID uint64
	Role   Role
	Status MemberStatus
}

// Decision is the outcome of an evaluation.
type Decision struct {
	Allow bool
}
