package models

import (
	"errors"
	"testing"

	"ingest/access"
)

func registerTestResourceTypes() {
	// The validator checks resource types against the registry; model tests
	// run without Init, so register the tags directly.
	for _, tag := range []string{ResourceTypeDestination, ResourceTypeProject, ResourceTypeRequest, ResourceTypeTemplate, ResourceTypePolicy} {
		access.Register(tag, func(id uint64) (access.Resource, error) { return nil, ErrNotFound })
	}
}

func validPolicy() Policy {
	return Policy{
		Name:          "uploads for the east region",
		Actions:       StringList{"create", "read"},
		ResourceTypes: StringList{ResourceTypeDestination},
		Attributes:    Attributes{"region": "east"},
		Matcher:       access.MatchAll,
		Scope:         access.ScopeGlobal,
	}
}

func TestPolicyValidate(t *testing.T) {
	registerTestResourceTypes()
	scopeID := uint64(7)

	tests := []struct {
		name      string
		mutate    func(*Policy)
		wantField string
	}{
		{"valid", func(p *Policy) {}, ""},
		{"missing name", func(p *Policy) { p.Name = "" }, "name"},
		{"no actions", func(p *Policy) { p.Actions = nil }, "actions"},
		{"unknown action", func(p *Policy) { p.Actions = StringList{"annex"} }, "actions"},
		{"no resource types", func(p *Policy) { p.ResourceTypes = nil }, "resource_types"},
		{"unknown resource type", func(p *Policy) { p.ResourceTypes = StringList{"widget"} }, "resource_types"},
		{"missing matcher", func(p *Policy) { p.Matcher = "" }, "matcher"},
		{"bad matcher", func(p *Policy) { p.Matcher = "match_some" }, "matcher"},
		{"missing scope", func(p *Policy) { p.Scope = "" }, "scope"},
		{"user scope without id", func(p *Policy) { p.Scope = access.ScopeUser }, "scope_id"},
		{"group scope without id", func(p *Policy) { p.Scope = access.ScopeGroup }, "scope_id"},
		{"user scope with id", func(p *Policy) { p.Scope = access.ScopeUser; p.ScopeID = &scopeID }, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validPolicy()
			tt.mutate(&p)
			err := p.validate()
			if tt.wantField == "" {
				if err != nil {
					t.Fatalf("expected valid, got %v", err)
				}
				return
			}
			var invalid *ValidationError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if _, ok := invalid.Fields[tt.wantField]; !ok {
				t.Errorf("expected a message for field %q, got %v", tt.wantField, invalid.Fields)
			}
		})
	}
}

func TestPolicyAccessConversion(t *testing.T) {
	registerTestResourceTypes()
	scopeID := uint64(3)
	p := validPolicy()
	p.ID = 11
	p.Scope = access.ScopeGroup
	p.ScopeID = &scopeID

	converted := p.Access()
	if converted.ID != 11 || converted.Name != p.Name {
		t.Errorf("identity fields lost: %+v", converted)
	}
	if len(converted.Actions) != 2 || converted.Actions[0] != access.ActionCreate {
		t.Errorf("actions not converted: %v", converted.Actions)
	}
	if converted.Attributes["region"] != "east" {
		t.Errorf("attributes not carried over: %v", converted.Attributes)
	}
	if converted.Scope != access.ScopeGroup || converted.ScopeID == nil || *converted.ScopeID != 3 {
		t.Errorf("scope not carried over: %+v", converted)
	}
}
