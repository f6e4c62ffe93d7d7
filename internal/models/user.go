package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// UserRole represents the hierarchy level a user operates at
// #IMPLEMENTATION_DECISION: UPPERCASE in Go code, lowercase in JSON serialization
type UserRole string

const (
	UserRoleAdmin  UserRole = "ADMIN"
	UserRoleZone   UserRole = "ZONE"
	UserRoleRegion UserRole = "REGION"
	UserRoleCity   UserRole = "CITY"
	UserRoleBranch UserRole = "BRANCH"
)

// MarshalJSON converts UserRole to lowercase for JSON serialization
func (ur UserRole) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(ur)))
}

// UnmarshalJSON converts lowercase JSON to UserRole
func (ur *UserRole) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*ur = UserRole(strings.ToUpper(s))
	return nil
}

// IsValid checks if the UserRole is a valid value
func (ur UserRole) IsValid() bool {
	switch ur {
	case UserRoleAdmin, UserRoleZone, UserRoleRegion, UserRoleCity, UserRoleBranch:
		return true
	}
	return false
}

// Rank returns the position of the role in the hierarchy; lower is more senior.
// Admin sits above every geographic level.
func (ur UserRole) Rank() int {
	switch ur {
	case UserRoleAdmin:
		return 0
	case UserRoleZone:
		return 1
	case UserRoleRegion:
		return 2
	case UserRoleCity:
		return 3
	case UserRoleBranch:
		return 4
	}
	return 5
}

// IsAssessmentLevel reports whether the role corresponds to a level that
// submits its own assessments. Admin accounts review but never submit.
func (ur UserRole) IsAssessmentLevel() bool {
	return ur == UserRoleZone || ur == UserRoleRegion || ur == UserRoleCity || ur == UserRoleBranch
}

// OrgUnit identifies a user's (or survey's) position in the geographic
// hierarchy. Fields below the owning role's level are empty: a Region user
// carries Zone and Region only.
type OrgUnit struct {
	Zone   string `bson:"zone_id,omitempty" json:"zone_id,omitempty"`
	Region string `bson:"region_id,omitempty" json:"region_id,omitempty"`
	City   string `bson:"city_id,omitempty" json:"city_id,omitempty"`
	Branch string `bson:"branch_id,omitempty" json:"branch_id,omitempty"`
}

// User represents an account in the assessment system
// #DATA_ASSUMPTION: EmployeeID is unique across the entire system
// #DATA_ASSUMPTION: Users belong to exactly ONE position in the hierarchy
type User struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EmployeeID   string             `bson:"employee_id" json:"employee_id"`
	Name         string             `bson:"name" json:"name"`
	Role         UserRole           `bson:"role" json:"role"`
	OrgUnit      OrgUnit            `bson:"org_unit" json:"org_unit"`
	PasswordHash string             `bson:"password_hash" json:"-"`

	// Status
	IsActive    bool       `bson:"is_active" json:"is_active"`
	LastLoginAt *time.Time `bson:"last_login_at,omitempty" json:"last_login_at,omitempty"`

	// Audit fields with soft delete support
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
	DeletedAt *time.Time `bson:"deleted_at,omitempty" json:"deleted_at,omitempty"`
}

// CollectionName returns the MongoDB collection name for users
func (User) CollectionName() string {
	return "users"
}

// IsDeleted returns true if the user has been soft deleted
func (u *User) IsDeleted() bool {
	return u.DeletedAt != nil
}

// BeforeCreate sets default values before inserting a new user
func (u *User) BeforeCreate() {
	now := time.Now().UTC()
	if u.ID.IsZero() {
		u.ID = primitive.NewObjectID()
	}
	u.CreatedAt = now
	u.UpdatedAt = now
	u.IsActive = true
}

// BeforeUpdate sets the UpdatedAt timestamp
func (u *User) BeforeUpdate() {
	u.UpdatedAt = time.Now().UTC()
}

// SoftDelete marks the user as deleted and inactive
func (u *User) SoftDelete() {
	now := time.Now().UTC()
	u.DeletedAt = &now
	u.UpdatedAt = now
	u.IsActive = false
}

// IsAdmin returns true if the user has admin role
func (u *User) IsAdmin() bool {
	return u.Role == UserRoleAdmin
}

// UpdateLastLogin updates the last login timestamp
func (u *User) UpdateLastLogin() {
	now := time.Now().UTC()
	u.LastLoginAt = &now
	u.UpdatedAt = now
}

// CanSubmitAssessments returns true if the user may submit assessments for
// their own level
func (u *User) CanSubmitAssessments() bool {
	return u.Role.IsAssessmentLevel() && u.IsActive && !u.IsDeleted()
}
