package models

import "testing"

func TestMemberTable(t *testing.T) {
	tests := []struct {
		tag   string
		table string
		ok    bool
	}{
		{ResourceTypeDestination, "destination_members", true},
		{ResourceTypeProject, "project_members", true},
		{ResourceTypeRequest, "", false},
		{ResourceTypePolicy, "", false},
		{"widget", "", false},
	}
	for _, tt := range tests {
		table, err := memberTable(tt.tag)
		if tt.ok && (err != nil || table != tt.table) {
			t.Errorf("memberTable(%q) = %q, %v", tt.tag, table, err)
		}
		if !tt.ok && err == nil {
			t.Errorf("memberTable(%q) expected error", tt.tag)
		}
	}
}

func TestMemberResolved(t *testing.T) {
	userID := uint64(5)
	if (&Member{Email: "person@example.com"}).Resolved() {
		t.Error("email-only invite reported as resolved")
	}
	if !(&Member{UserID: &userID}).Resolved() {
		t.Error("membership with a user id reported as unresolved")
	}
}
