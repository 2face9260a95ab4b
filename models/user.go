package models

import (
	"ingest/access"
	"ingest/db"
	"ingest/utils"
)

const saltSize = 60

type User struct {
	ID          uint64 `gorm:"primaryKey"`
	CreatedAt   int64
	UpdatedAt   int64
	CreatedByID *uint64
	CreatedBy   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL;"`
	Name        string `gorm:"type:varchar(100)"`
	Email       string `gorm:"type:varchar(150);index:uniq_email,unique"`
	Password    string `gorm:"type:varchar(128)"`
	PassSalt    string `gorm:"type:varchar(200)"`
}

// UserCreate registers a new account and resolves any memberships that were
// invited to this email before the account existed.
func UserCreate(name, email, plainTextPassword string) (u User, err error) {
	u.Name = name
	u.Email = email
	u.SetPassword(plainTextPassword)
	if err = db.Instance.Create(&u).Error; err != nil {
		return
	}
	bootstrapFirstUser(&u)
	_, err = BackfillMemberships(&u)
	return
}

// bootstrapFirstUser seeds the initial policies when the very first account
// registers: that account becomes the administrator, and everyone may create
// their own resources.
func bootstrapFirstUser(u *User) {
	var count int64
	if db.Instance.Model(&User{}).Count(&count).Error != nil || count != 1 {
		return
	}
	adminID := u.ID
	_ = PolicyCreate(&Policy{
		CreatedByID:   &adminID,
		Name:          "administrator",
		Actions:       StringList{string(access.ActionCreate), string(access.ActionRead), string(access.ActionUpdate), string(access.ActionDelete)},
		ResourceTypes: StringList{ResourceTypeDestination, ResourceTypeProject, ResourceTypeRequest, ResourceTypeTemplate, ResourceTypePolicy},
		Attributes:    Attributes{},
		Matcher:       access.MatchAll,
		Scope:         access.ScopeUser,
		ScopeID:       &adminID,
	})
	_ = PolicyCreate(&Policy{
		CreatedByID:   &adminID,
		Name:          "anyone can create their own resources",
		Actions:       StringList{string(access.ActionCreate)},
		ResourceTypes: StringList{ResourceTypeDestination, ResourceTypeProject, ResourceTypeRequest, ResourceTypeTemplate},
		Attributes:    Attributes{},
		Matcher:       access.MatchAll,
		Scope:         access.ScopeGlobal,
	})
}

func (u *User) SetPassword(plainTextPassword string) {
	u.PassSalt = utils.RandSalt(saltSize)
	u.Password = utils.Sha512String(plainTextPassword + u.PassSalt)
}

func UserLogin(email, plainTextPassword string) (u User, success bool) {
	result := db.Instance.First(&u, "email = ?", email)
	if result.Error != nil {
		return User{}, false
	}
	if u.Password != utils.Sha512String(plainTextPassword+u.PassSalt) {
		return User{}, false
	}
	return u, true
}

// GroupIDs returns the ids of all groups the user belongs to.
func (u *User) GroupIDs() []uint64 {
	ids := []uint64{}
	rows, err := db.Instance.Table("group_members").Select("group_id").Where("user_id = ?", u.ID).Rows()
	if err != nil {
		return ids
	}
	defer rows.Close()
	for rows.Next() {
		var id uint64
		if rows.Scan(&id) == nil {
			ids = append(ids, id)
		}
	}
	return ids
}

// Actor is the user's shape for authorization checks.
func (u *User) Actor() access.Actor {
	return access.Actor{ID: u.ID, Groups: u.GroupIDs()}
}
