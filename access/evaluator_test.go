package access

import (
	"errors"
	"testing"
)

type testResource struct {
	tag    string
	id     uint64
	owner  uint64
	public bool
	attrs  map[string]string
}

func (r *testResource) TypeTag() string                       { return r.tag }
func (r *testResource) ResourceID() uint64                    { return r.id }
func (r *testResource) OwnerID() uint64                       { return r.owner }
func (r *testResource) IsPublic() bool                        { return r.public }
func (r *testResource) ResourceAttributes() map[string]string { return r.attrs }

type testPolicyStore struct {
	policies []Policy
	queries  int
}

func (s *testPolicyStore) ListForResource(tag string) ([]Policy, error) {
	s.queries++
	result := []Policy{}
	for _, p := range s.policies {
		if p.hasResourceType(tag) {
			result = append(result, p)
		}
	}
	return result, nil
}

type memberKey struct {
	tag        string
	resourceID uint64
	userID     uint64
}

type testMemberStore struct {
	members map[memberKey]Membership
	queries int
}

func (s *testMemberStore) Membership(tag string, resourceID, userID uint64) (Membership, bool, error) {
	s.queries++
	m, ok := s.members[memberKey{tag, resourceID, userID}]
	return m, ok, nil
}

const testTag = "vault"

func newTestEvaluator(policies []Policy, members map[memberKey]Membership) (*Evaluator, *testPolicyStore, *testMemberStore) {
	Register(testTag, func(id uint64) (Resource, error) { return nil, errors.New("not used") })
	if members == nil {
		members = map[memberKey]Membership{}
	}
	ps := &testPolicyStore{policies: policies}
	ms := &testMemberStore{members: members}
	return NewEvaluator(ps, ms), ps, ms
}

func mustEvaluate(t *testing.T, e *Evaluator, actor Actor, action Action, res Resource) Decision {
	t.Helper()
	decision, err := e.Evaluate(actor, testTag, action, res)
	if err != nil {
		t.Fatalf("Evaluate returned error: %v", err)
	}
	return decision
}

func TestEvaluate_OwnerAlwaysAllowed(t *testing.T) {
	e, _, _ := newTestEvaluator(nil, nil)
	res := &testResource{tag: testTag, id: 1, owner: 42}
	for _, action := range []Action{ActionCreate, ActionRead, ActionUpdate, ActionDelete} {
		if !mustEvaluate(t, e, Actor{ID: 42}, action, res).Allow {
			t.Errorf("owner denied %s", action)
		}
	}
}

func TestEvaluate_OwnerBeatsMatchNone(t *testing.T) {
	// The owner bypass runs before any policy is considered.
	e, _, _ := newTestEvaluator([]Policy{
		{ResourceTypes: []string{testTag}, Matcher: MatchNone, Scope: ScopeGlobal},
	}, nil)
	res := &testResource{tag: testTag, id: 1, owner: 42}
	if !mustEvaluate(t, e, Actor{ID: 42}, ActionDelete, res).Allow {
		t.Error("owner denied by match_none policy")
	}
}

func TestEvaluate_PublicRead(t *testing.T) {
	e, _, _ := newTestEvaluator(nil, nil)
	res := &testResource{tag: testTag, id: 1, owner: 42, public: true}
	if !mustEvaluate(t, e, Actor{ID: 7}, ActionRead, res).Allow {
		t.Error("public read denied")
	}
	if mustEvaluate(t, e, Actor{ID: 7}, ActionUpdate, res).Allow {
		t.Error("public visibility allowed a write")
	}
}

func TestEvaluate_MembershipRoles(t *testing.T) {
	res := &testResource{tag: testTag, id: 5, owner: 42}
	tests := []struct {
		name   string
		role   Role
		status MemberStatus
		action Action
		want   bool
	}{
		{"accepted uploader may create", RoleUploader, StatusAccepted, ActionCreate, true},
		{"accepted uploader may read", RoleUploader, StatusAccepted, ActionRead, true},
		{"accepted uploader may not update", RoleUploader, StatusAccepted, ActionUpdate, false},
		{"accepted uploader may not delete", RoleUploader, StatusAccepted, ActionDelete, false},
		{"accepted manager may delete", RoleManager, StatusAccepted, ActionDelete, true},
		{"pending manager grants nothing", RoleManager, StatusPending, ActionRead, false},
		{"rejected manager grants nothing", RoleManager, StatusRejected, ActionRead, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _, _ := newTestEvaluator(nil, map[memberKey]Membership{
				{testTag, 5, 7}: {UserID: 7, Role: tt.role, Status: tt.status},
			})
			got := mustEvaluate(t, e, Actor{ID: 7}, tt.action, res).Allow
			if got != tt.want {
				t.Errorf("got allow=%v, want %v", got, tt.want)
			}
		})
	}
}

func TestEvaluate_GlobalMatchAllPolicy(t *testing.T) {
	// Empty policy attributes match vacuously; the action set decides.
	e, _, _ := newTestEvaluator([]Policy{
		{
			Actions:       []Action{ActionUpdate},
			ResourceTypes: []string{testTag},
			Matcher:       MatchAll,
			Scope:         ScopeGlobal,
		},
	}, nil)
	res := &testResource{tag: testTag, id: 9, owner: 42}
	if !mustEvaluate(t, e, Actor{ID: 7}, ActionUpdate, res).Allow {
		t.Error("update denied despite matching global policy")
	}
	if mustEvaluate(t, e, Actor{ID: 7}, ActionRead, res).Allow {
		t.Error("read allowed, but the policy only grants update")
	}
}

func TestEvaluate_MatchAllNeedsAttributes(t *testing.T) {
	e, _, _ := newTestEvaluator([]Policy{
		{
			Actions:       []Action{ActionUpdate},
			ResourceTypes: []string{testTag},
			Attributes:    map[string]string{"region": "east"},
			Matcher:       MatchAll,
			Scope:         ScopeGlobal,
		},
	}, nil)
	matching := &testResource{tag: testTag, id: 9, owner: 42, attrs: map[string]string{"region": "east"}}
	other := &testResource{tag: testTag, id: 10, owner: 42, attrs: map[string]string{"region": "west"}}
	if !mustEvaluate(t, e, Actor{ID: 7}, ActionUpdate, matching).Allow {
		t.Error("update denied on matching attributes")
	}
	if mustEvaluate(t, e, Actor{ID: 7}, ActionUpdate, other).Allow {
		t.Error("update allowed on mismatched attributes")
	}
}

func TestEvaluate_MatchOneEitherSuffices(t *testing.T) {
	e, _, _ := newTestEvaluator([]Policy{
		{
			Actions:       []Action{ActionUpdate},
			ResourceTypes: []string{testTag},
			Attributes:    map[string]string{"team": "ingest"},
			Matcher:       MatchOne,
			Scope:         ScopeGlobal,
		},
	}, nil)
	// Action matches, attributes don't.
	res := &testResource{tag: testTag, id: 9, owner: 42, attrs: map[string]string{"team": "other"}}
	if !mustEvaluate(t, e, Actor{ID: 7}, ActionUpdate, res).Allow {
		t.Error("match_one denied on action match")
	}
	// Attributes match, action doesn't.
	res = &testResource{tag: testTag, id: 9, owner: 42, attrs: map[string]string{"team": "ingest"}}
	if !mustEvaluate(t, e, Actor{ID: 7}, ActionDelete, res).Allow {
		t.Error("match_one denied on attribute match")
	}
	// Neither matches.
	res = &testResource{tag: testTag, id: 9, owner: 42, attrs: map[string]string{"team": "other"}}
	if mustEvaluate(t, e, Actor{ID: 7}, ActionDelete, res).Allow {
		t.Error("match_one allowed with neither side matching")
	}
}

func TestEvaluate_MatchNoneVetoesOtherPolicies(t *testing.T) {
	grant := Policy{
		Actions:       []Action{ActionUpdate},
		ResourceTypes: []string{testTag},
		Matcher:       MatchAll,
		Scope:         ScopeGlobal,
	}
	veto := Policy{
		ResourceTypes: []string{testTag},
		Attributes:    map[string]string{"classified": "yes"},
		Matcher:       MatchNone,
		Scope:         ScopeGlobal,
	}
	res := &testResource{tag: testTag, id: 9, owner: 42, attrs: map[string]string{"classified": "yes"}}
	// The veto wins regardless of policy order.
	for name, policies := range map[string][]Policy{
		"grant first": {grant, veto},
		"veto first":  {veto, grant},
	} {
		e, _, _ := newTestEvaluator(policies, nil)
		if mustEvaluate(t, e, Actor{ID: 7}, ActionUpdate, res).Allow {
			t.Errorf("%s: match_none did not veto the grant", name)
		}
	}
	// Without the matching attribute the veto is inert.
	clean := &testResource{tag: testTag, id: 9, owner: 42}
	e, _, _ := newTestEvaluator([]Policy{veto, grant}, nil)
	if !mustEvaluate(t, e, Actor{ID: 7}, ActionUpdate, clean).Allow {
		t.Error("match_none vetoed a resource it does not match")
	}
}

func TestEvaluate_ScopeFiltering(t *testing.T) {
	userID := uint64(7)
	groupID := uint64(3)
	policies := []Policy{
		{
			Actions:       []Action{ActionUpdate},
			ResourceTypes: []string{testTag},
			Matcher:       MatchAll,
			Scope:         ScopeUser,
			ScopeID:       &userID,
		},
		{
			Actions:       []Action{ActionDelete},
			ResourceTypes: []string{testTag},
			Matcher:       MatchAll,
			Scope:         ScopeGroup,
			ScopeID:       &groupID,
		},
	}
	res := &testResource{tag: testTag, id: 9, owner: 42}

	e, _, _ := newTestEvaluator(policies, nil)
	if !mustEvaluate(t, e, Actor{ID: 7}, ActionUpdate, res).Allow {
		t.Error("user-scoped policy did not apply to its user")
	}
	if mustEvaluate(t, e, Actor{ID: 8}, ActionUpdate, res).Allow {
		t.Error("user-scoped policy applied to another user")
	}
	if !mustEvaluate(t, e, Actor{ID: 8, Groups: []uint64{3}}, ActionDelete, res).Allow {
		t.Error("group-scoped policy did not apply to a group member")
	}
	if mustEvaluate(t, e, Actor{ID: 8, Groups: []uint64{4}}, ActionDelete, res).Allow {
		t.Error("group-scoped policy applied outside the group")
	}
}

func TestEvaluate_DefaultDeny(t *testing.T) {
	e, _, _ := newTestEvaluator(nil, nil)
	res := &testResource{tag: testTag, id: 9, owner: 42}
	if mustEvaluate(t, e, Actor{ID: 7}, ActionRead, res).Allow {
		t.Error("allowed with no owner, no membership, no policy")
	}
}

func TestEvaluate_InvalidInputFailsBeforeStores(t *testing.T) {
	e, ps, ms := newTestEvaluator(nil, nil)
	res := &testResource{tag: testTag, id: 9, owner: 42}

	tests := []struct {
		name   string
		actor  Actor
		tag    string
		action Action
	}{
		{"missing actor id", Actor{}, testTag, ActionRead},
		{"unknown action", Actor{ID: 7}, testTag, Action("annex")},
		{"unknown resource type", Actor{ID: 7}, "no-such-kind", ActionRead},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := e.Evaluate(tt.actor, tt.tag, tt.action, res)
			var invalid *InvalidRequestError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidRequestError, got %v", err)
			}
		})
	}
	if ps.queries != 0 || ms.queries != 0 {
		t.Errorf("stores were queried for malformed input: policies=%d members=%d", ps.queries, ms.queries)
	}
}
