package access

import (
	"errors"
	"strings"
	"testing"
)

func TestAuthorize_AllowReturnsNil(t *testing.T) {
	e, _, _ := newTestEvaluator(nil, nil)
	res := &testResource{tag: testTag, id: 1, owner: 42}
	if err := e.Authorize(Actor{ID: 42}, testTag, ActionDelete, res); err != nil {
		t.Fatalf("owner delete: %v", err)
	}
}

func TestAuthorize_DenyCarriesContextOnly(t *testing.T) {
	e, _, _ := newTestEvaluator([]Policy{
		{
			Name:          "internal policy name",
			Actions:       []Action{ActionRead},
			ResourceTypes: []string{testTag},
			Matcher:       MatchAll,
			Scope:         ScopeGlobal,
		},
	}, nil)
	res := &testResource{tag: testTag, id: 1, owner: 42}
	err := e.Authorize(Actor{ID: 7}, testTag, ActionDelete, res)
	var denied *DeniedError
	if !errors.As(err, &denied) {
		t.Fatalf("expected DeniedError, got %v", err)
	}
	if denied.ResourceType != testTag || denied.Action != ActionDelete || denied.ActorID != 7 {
		t.Errorf("denial context wrong: %+v", denied)
	}
	// The denial must not leak policy internals to callers.
	if strings.Contains(denied.Error(), "internal policy name") {
		t.Errorf("denial message leaks policy details: %q", denied.Error())
	}
}

func TestAuthorize_InvalidRequestIsNotDenied(t *testing.T) {
	e, _, _ := newTestEvaluator(nil, nil)
	res := &testResource{tag: testTag, id: 1, owner: 42}
	err := e.Authorize(Actor{}, testTag, ActionRead, res)
	var denied *DeniedError
	if errors.As(err, &denied) {
		t.Fatal("malformed input should not produce a denial")
	}
	var invalid *InvalidRequestError
	if !errors.As(err, &invalid) {
		t.Fatalf("expected InvalidRequestError, got %v", err)
	}
}
