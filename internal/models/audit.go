package models

import (
	"encoding/json"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AuditAction represents the type of action in an audit log
type AuditAction string

const (
	AuditActionCreate AuditAction = "CREATE"
	AuditActionUpdate AuditAction = "UPDATE"
	AuditActionDelete AuditAction = "DELETE"
	AuditActionLogin  AuditAction = "LOGIN"
	AuditActionLogout AuditAction = "LOGOUT"
	AuditActionSubmit AuditAction = "SUBMIT"
	AuditActionExport AuditAction = "EXPORT"
)

// MarshalJSON converts AuditAction to lowercase for JSON serialization
func (a AuditAction) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToLower(string(a)))
}

// UnmarshalJSON converts lowercase JSON to AuditAction
func (a *AuditAction) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*a = AuditAction(strings.ToUpper(s))
	return nil
}

// IsValid checks if the AuditAction is a valid value
func (a AuditAction) IsValid() bool {
	switch a {
	case AuditActionCreate, AuditActionUpdate, AuditActionDelete,
		AuditActionLogin, AuditActionLogout, AuditActionSubmit, AuditActionExport:
		return true
	}
	return false
}

// ResourceType constants for audit logging
const (
	ResourceTypeUser    = "user"
	ResourceTypeSurvey  = "survey"
	ResourceTypeTask    = "task"
	ResourceTypeComment = "comment"
)

// AuditLog represents an activity audit trail entry
// #DATA_ASSUMPTION: Audit logs are append-only, never modified or deleted
// #BUSINESS_RULE: Audit writes happen outside the transaction of the action
// they record, so a failed audit write never rolls back the action itself
type AuditLog struct {
	ID primitive.ObjectID `bson:"_id,omitempty" json:"id"`

	// Actor (who performed the action)
	ActorUserID     *primitive.ObjectID `bson:"actor_user_id,omitempty" json:"actor_user_id,omitempty"`
	ActorEmployeeID string              `bson:"actor_employee_id,omitempty" json:"actor_employee_id,omitempty"`

	// Action
	Action       AuditAction        `bson:"action" json:"action"`
	ResourceType string             `bson:"resource_type" json:"resource_type"`
	ResourceID   primitive.ObjectID `bson:"resource_id,omitempty" json:"resource_id,omitempty"`

	// Context
	Details   string `bson:"details,omitempty" json:"details,omitempty"`
	RequestID string `bson:"request_id,omitempty" json:"request_id,omitempty"`
	IPAddress string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`

	CreatedAt time.Time `bson:"created_at" json:"created_at"`
}

// CollectionName returns the MongoDB collection name for audit logs
func (AuditLog) CollectionName() string {
	return "audit_logs"
}

// BeforeCreate sets default values before inserting a new audit log
func (a *AuditLog) BeforeCreate() {
	if a.ID.IsZero() {
		a.ID = primitive.NewObjectID()
	}
	a.CreatedAt = time.Now().UTC()
}

// NewAuditLog creates a new audit log entry
func NewAuditLog(action AuditAction, resourceType string, resourceID primitive.ObjectID, details string) *AuditLog {
	log := &AuditLog{
		Action:       action,
		ResourceType: resourceType,
		ResourceID:   resourceID,
		Details:      details,
	}
	log.BeforeCreate()
	return log
}

// SetActor sets the actor information
func (a *AuditLog) SetActor(userID *primitive.ObjectID, employeeID string) *AuditLog {
	a.ActorUserID = userID
	a.ActorEmployeeID = employeeID
	return a
}

// SetRequestInfo sets the request metadata
func (a *AuditLog) SetRequestInfo(requestID, ipAddress string) *AuditLog {
	a.RequestID = requestID
	a.IPAddress = ipAddress
	return a
}

// IsAuthAction returns true if this is an authentication-related action
func (a *AuditLog) IsAuthAction() bool {
	return a.Action == AuditActionLogin || a.Action == AuditActionLogout
}
