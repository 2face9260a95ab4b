package access

import "fmt"

// PolicyStore returns the policies that mention the given resource type.
// Scope and action filtering stay with the evaluator.
type PolicyStore interface {
	ListForResource(tag string) ([]Policy, error)
}

// MembershipStore returns the accepted-or-not membership row linking a user
// to a resource of the given kind, if one exists.
type MembershipStore interface {
	Membership(tag string, resourceID, userID uint64) (Membership, bool, error)
}

// Evaluator renders allow/deny decisions. It holds no mutable state and is
// safe for concurrent use; the stores own their own concurrency control.
type Evaluator struct {
	policies PolicyStore
	members  MembershipStore
}

// Default is the process-wide evaluator, wired in main.
var Default *Evaluator

func NewEvaluator(policies PolicyStore, members MembershipStore) *Evaluator {
	return &Evaluator{policies: policies, members: members}
}

// Evaluate decides whether the actor may perform the action on the resource.
// The steps run in a fixed order and short-circuit on the first sufficient
// grant: owner, public read, accepted membership, then policies. A matching
// match_none policy vetoes any policy grant.
func (e *Evaluator) Evaluate(actor Actor, typeTag string, action Action, res Resource) (Decision, error) {
	if err := checkRequest(actor, typeTag, action, res); err != nil {
		return Decision{}, err
	}

	if res.OwnerID() == actor.ID {
		return Decision{Allow: true}, nil
	}
	if res.IsPublic() && action == ActionRead {
		return Decision{Allow: true}, nil
	}

	member, ok, err := e.members.Membership(typeTag, res.ResourceID(), actor.ID)
	if err != nil {
		return Decision{}, err
	}
	if ok && member.Status == StatusAccepted && RoleAllows(member.Role, action) {
		return Decision{Allow: true}, nil
	}

	policies, err := e.policies.ListForResource(typeTag)
	if err != nil {
		return Decision{}, err
	}
	attrs := res.ResourceAttributes()
	allowed := false
	for _, p := range policies {
		if !p.hasResourceType(typeTag) || !p.appliesTo(actor) {
			continue
		}
		actionOK := p.hasAction(action)
		attrOK := p.attributesMatch(attrs)
		switch p.Matcher {
		case MatchAll:
			if actionOK && attrOK {
				allowed = true
			}
		case MatchOne:
			if actionOK || attrOK {
				allowed = true
			}
		case MatchNone:
			// Absolute veto, regardless of any grant found so far.
			if attrOK {
				return Decision{Allow: false}, nil
			}
		}
	}
	return Decision{Allow: allowed}, nil
}

// Authorize wraps Evaluate for the mutating code paths: nil on allow,
// *DeniedError otherwise.
func (e *Evaluator) Authorize(actor Actor, typeTag string, action Action, res Resource) error {
	decision, err := e.Evaluate(actor, typeTag, action, res)
	if err != nil {
		return err
	}
	if !decision.Allow {
		return &DeniedError{ResourceType: typeTag, Action: action, ActorID: actor.ID}
	}
	return nil
}

func checkRequest(actor Actor, typeTag string, action Action, res Resource) error {
	if actor.ID == 0 {
		return &InvalidRequestError{Reason: "actor has no id"}
	}
	if !ValidAction(action) {
		return &InvalidRequestError{Reason: fmt.Sprintf("unknown action %q", action)}
	}
	if !Registered(typeTag) {
		return &InvalidRequestError{Reason: fmt.Sprintf("unknown resource type %q", typeTag)}
	}
	if res == nil {
		return &InvalidRequestError{Reason: "no resource"}
	}
	return nil
}
