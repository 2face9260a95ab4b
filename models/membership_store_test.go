package models

import (
	"testing"
	"time"

	"ingest/access"
	"ingest/db"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// openTestDB points db.Instance at a fresh in-memory SQLite database with
// the users table and both member tables migrated.
func openTestDB(t *testing.T) {
	t.Helper()
	gdb, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{SkipDefaultTransaction: true})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		t.Fatalf("sql handle: %v", err)
	}
	// Every connection to :memory: is its own database.
	sqlDB.SetMaxOpenConns(1)
	db.Instance = gdb
	if err := gdb.AutoMigrate(&User{}); err != nil {
		t.Fatalf("migrate users: %v", err)
	}
	for _, table := range memberTables {
		if err := gdb.Table(table).AutoMigrate(&Member{}); err != nil {
			t.Fatalf("migrate %s: %v", table, err)
		}
	}
}

func TestMemberUpdateCounts(t *testing.T) {
	openTestDB(t)
	u := User{Name: "dana", Email: "dana@example.com"}
	if err := db.Instance.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	member, err := AddMemberByEmail(ResourceTypeDestination, 1, u.Email, access.RoleManager)
	if err != nil {
		t.Fatalf("AddMemberByEmail: %v", err)
	}
	if member.UserID == nil || *member.UserID != u.ID {
		t.Fatalf("invite for an existing account did not resolve: %+v", member)
	}
	if member.Status != access.StatusPending {
		t.Errorf("new membership status = %q, want pending", member.Status)
	}

	count, err := UpdateMemberRole(ResourceTypeDestination, 1, u.ID, access.RoleUploader)
	if err != nil || count != 1 {
		t.Errorf("role update on existing row: count=%d err=%v, want 1, nil", count, err)
	}
	count, err = UpdateMemberRole(ResourceTypeDestination, 2, u.ID, access.RoleUploader)
	if err != nil || count != 0 {
		t.Errorf("role update on missing row: count=%d err=%v, want 0, nil", count, err)
	}

	count, err = UpdateMemberStatus(ResourceTypeDestination, 1, u.ID, access.StatusAccepted)
	if err != nil || count != 1 {
		t.Errorf("status update on existing row: count=%d err=%v, want 1, nil", count, err)
	}
	count, err = UpdateMemberStatus(ResourceTypeDestination, 1, u.ID+1, access.StatusAccepted)
	if err != nil || count != 0 {
		t.Errorf("status update on missing row: count=%d err=%v, want 0, nil", count, err)
	}

	count, err = RemoveMember(ResourceTypeDestination, 1, u.ID)
	if err != nil || count != 1 {
		t.Errorf("remove existing row: count=%d err=%v, want 1, nil", count, err)
	}
	count, err = RemoveMember(ResourceTypeDestination, 1, u.ID)
	if err != nil || count != 0 {
		t.Errorf("remove already-removed row: count=%d err=%v, want 0, nil", count, err)
	}
}

func TestBackfillMemberships(t *testing.T) {
	openTestDB(t)
	if _, err := AddMemberByEmail(ResourceTypeDestination, 1, "pat@example.com", ""); err != nil {
		t.Fatalf("invite: %v", err)
	}
	if _, err := AddMemberByEmail(ResourceTypeProject, 3, "pat@example.com", ""); err != nil {
		t.Fatalf("invite: %v", err)
	}
	// Email matching is exact: a case-different invite stays unresolved.
	if _, err := AddMemberByEmail(ResourceTypeDestination, 2, "Pat@example.com", ""); err != nil {
		t.Fatalf("invite: %v", err)
	}

	u := User{Name: "pat", Email: "pat@example.com"}
	if err := db.Instance.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}
	count, err := BackfillMemberships(&u)
	if err != nil {
		t.Fatalf("BackfillMemberships: %v", err)
	}
	if count != 2 {
		t.Errorf("resolved %d invites, want 2", count)
	}

	var other Member
	err = db.Instance.Table("destination_members").
		Where("email = ?", "Pat@example.com").Take(&other).Error
	if err != nil {
		t.Fatalf("load case-different invite: %v", err)
	}
	if other.UserID != nil {
		t.Errorf("case-different email was resolved to user %d", *other.UserID)
	}

	// A second pass has nothing left to resolve.
	count, err = BackfillMemberships(&u)
	if err != nil || count != 0 {
		t.Errorf("second backfill: count=%d err=%v, want 0, nil", count, err)
	}
}

func TestBackfillDuplicateInvites(t *testing.T) {
	openTestDB(t)
	// The same email invited twice to one resource: registration must still
	// succeed, resolving one row and dropping the other.
	for i := 0; i < 2; i++ {
		if _, err := AddMemberByEmail(ResourceTypeDestination, 5, "sam@example.com", ""); err != nil {
			t.Fatalf("invite %d: %v", i, err)
		}
	}
	u := User{Name: "sam", Email: "sam@example.com"}
	if err := db.Instance.Create(&u).Error; err != nil {
		t.Fatalf("create user: %v", err)
	}

	count, err := BackfillMemberships(&u)
	if err != nil {
		t.Fatalf("BackfillMemberships: %v", err)
	}
	if count != 1 {
		t.Errorf("resolved %d invites, want 1", count)
	}

	var rows []Member
	if err := db.Instance.Table("destination_members").
		Where("resource_id = ?", 5).Find(&rows).Error; err != nil {
		t.Fatalf("load members: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("resource has %d membership rows, want 1", len(rows))
	}
	if rows[0].UserID == nil || *rows[0].UserID != u.ID {
		t.Errorf("surviving row not resolved to the account: %+v", rows[0])
	}
}

func TestMemberUniquePerTable(t *testing.T) {
	openTestDB(t)
	userID := uint64(9)
	now := time.Now().Unix()
	// Both tables must enforce one row per (resource_id, user_id), including
	// the table migrated second.
	for _, table := range []string{"destination_members", "project_members"} {
		first := Member{
			CreatedAt: now, UpdatedAt: now,
			ResourceID: 4, UserID: &userID,
			Email: "x@example.com", Role: access.RoleUploader, Status: access.StatusAccepted,
		}
		if err := db.Instance.Table(table).Create(&first).Error; err != nil {
			t.Fatalf("%s: first row rejected: %v", table, err)
		}
		second := Member{
			CreatedAt: now, UpdatedAt: now,
			ResourceID: 4, UserID: &userID,
			Email: "x@example.com", Role: access.RoleUploader, Status: access.StatusAccepted,
		}
		if err := db.Instance.Table(table).Create(&second).Error; err == nil {
			t.Errorf("%s: duplicate (resource_id, user_id) row accepted", table)
		}
	}
}
