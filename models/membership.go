package models

import (
	"errors"
	"fmt"
	"time"

	"ingest/access"
	"ingest/db"

	"gorm.io/gorm"
)

// Member links a user (or a not-yet-registered email) to a destination or
// project. Both kinds share this shape; they differ only by table.
type Member struct {
	ID        uint64 `gorm:"primaryKey"`
	CreatedAt int64
	UpdatedAt int64
	// The composite index id keeps the generated index name per table, so
	// destination_members and project_members don't collide on SQLite.
	ResourceID uint64              `gorm:"not null;index:,unique,composite:resource_user,priority:1"`
	UserID     *uint64             `gorm:"index:,unique,composite:resource_user,priority:2"`
	Email      string              `gorm:"type:varchar(150);index"`
	Role       access.Role         `gorm:"type:varchar(20)"`
	Status     access.MemberStatus `gorm:"type:varchar(20)"`
}

// Resolved reports whether the invite has been matched to an account.
func (m *Member) Resolved() bool {
	return m.UserID != nil
}

var memberTables = map[string]string{
	ResourceTypeDestination: "destination_members",
	ResourceTypeProject:     "project_members",
}

func memberTable(tag string) (string, error) {
	table, ok := memberTables[tag]
	if !ok {
		return "", fmt.Errorf("resource type %q has no members", tag)
	}
	return table, nil
}

// AddMemberByEmail invites an email address to a resource. If an account
// with that email already exists the membership points at it right away;
// otherwise the row stays email-only until BackfillMemberships resolves it.
// The new membership always starts out pending. No dedupe guard here -
// callers that care must pre-check.
func AddMemberByEmail(tag string, resourceID uint64, email string, role access.Role) (Member, error) {
	table, err := memberTable(tag)
	if err != nil {
		return Member{}, err
	}
	if role == "" {
		role = access.RoleUploader
	}
	if !access.ValidRole(role) {
		invalid := newValidationError()
		invalid.Fields["role"] = "unknown role " + string(role)
		return Member{}, invalid
	}
	if email == "" {
		invalid := newValidationError()
		invalid.Fields["email"] = "is required"
		return Member{}, invalid
	}
	now := time.Now().Unix()
	member := Member{
		CreatedAt:  now,
		UpdatedAt:  now,
		ResourceID: resourceID,
		Email:      email,
		Role:       role,
		Status:     access.StatusPending,
	}
	var user User
	if db.Instance.First(&user, "email = ?", email).Error == nil {
		member.UserID = &user.ID
	}
	if err := db.Instance.Table(table).Create(&member).Error; err != nil {
		return Member{}, err
	}
	return member, nil
}

// ActiveMembers lists memberships that resolved to an account. Email-only
// invites are excluded.
func ActiveMembers(tag string, resourceID uint64) ([]Member, error) {
	table, err := memberTable(tag)
	if err != nil {
		return nil, err
	}
	members := []Member{}
	err = db.Instance.Table(table).
		Where("resource_id = ? AND user_id IS NOT NULL", resourceID).
		Find(&members).Error
	return members, err
}

// UpdateMemberRole changes the role on at most one membership row. The
// returned count tells callers apart: 0 means no such membership.
func UpdateMemberRole(tag string, resourceID, userID uint64, role access.Role) (int64, error) {
	table, err := memberTable(tag)
	if err != nil {
		return 0, err
	}
	if !access.ValidRole(role) {
		invalid := newValidationError()
		invalid.Fields["role"] = "unknown role " + string(role)
		return 0, invalid
	}
	result := db.Instance.Table(table).
		Where("resource_id = ? AND user_id = ?", resourceID, userID).
		Updates(map[string]interface{}{"role": role, "updated_at": time.Now().Unix()})
	return result.RowsAffected, result.Error
}

// UpdateMemberStatus changes the status on at most one membership row.
func UpdateMemberStatus(tag string, resourceID, userID uint64, status access.MemberStatus) (int64, error) {
	table, err := memberTable(tag)
	if err != nil {
		return 0, err
	}
	if !access.ValidStatus(status) {
		invalid := newValidationError()
		invalid.Fields["status"] = "unknown status " + string(status)
		return 0, invalid
	}
	result := db.Instance.Table(table).
		Where("resource_id = ? AND user_id = ?", resourceID, userID).
		Updates(map[string]interface{}{"status": status, "updated_at": time.Now().Unix()})
	return result.RowsAffected, result.Error
}

// RemoveMember revokes a membership. Count semantics as above.
func RemoveMember(tag string, resourceID, userID uint64) (int64, error) {
	table, err := memberTable(tag)
	if err != nil {
		return 0, err
	}
	result := db.Instance.Table(table).
		Where("resource_id = ? AND user_id = ?", resourceID, userID).
		Delete(&Member{})
	return result.RowsAffected, result.Error
}

// BackfillMemberships resolves invites that were created before this account
// existed. Matching is exact string equality on the stored email. Invites are
// resolved one row at a time: the same email can have been invited to a
// resource more than once, and only one row per resource may point at the
// account. Extra invites are dropped, not resolved.
func BackfillMemberships(user *User) (int64, error) {
	var total int64
	now := time.Now().Unix()
	for _, table := range memberTables {
		var invites []Member
		err := db.Instance.Table(table).
			Where("email = ? AND user_id IS NULL AND status = ?", user.Email, access.StatusPending).
			Find(&invites).Error
		if err != nil {
			return total, err
		}
		for _, invite := range invites {
			var existing int64
			err := db.Instance.Table(table).
				Where("resource_id = ? AND user_id = ?", invite.ResourceID, user.ID).
				Count(&existing).Error
			if err != nil {
				return total, err
			}
			if existing > 0 {
				// A row for this resource already points at the account;
				// resolving this invite too would break uniqueness.
				result := db.Instance.Table(table).Delete(&Member{}, invite.ID)
				if result.Error != nil {
					return total, result.Error
				}
				continue
			}
			result := db.Instance.Table(table).
				Where("id = ?", invite.ID).
				Updates(map[string]interface{}{"user_id": user.ID, "updated_at": now})
			if result.Error != nil {
				return total, result.Error
			}
			total += result.RowsAffected
		}
	}
	return total, nil
}

// MemberQuery is the evaluator's read path into the membership tables.
type MemberQuery struct{}

func (MemberQuery) Membership(tag string, resourceID, userID uint64) (access.Membership, bool, error) {
	table, err := memberTable(tag)
	if err != nil {
		// Resource kinds without membership tables simply have no members.
		return access.Membership{}, false, nil
	}
	var member Member
	err = db.Instance.Table(table).
		Where("resource_id = ? AND user_id = ?", resourceID, userID).
		Take(&member).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return access.Membership{}, false, nil
	}
	if err != nil {
		return access.Membership{}, false, err
	}
	return access.Membership{UserID: userID, Role: member.Role, Status: member.Status}, true, nil
}
