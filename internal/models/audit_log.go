package models

// Audit actions recorded by the services.
const (
	AuditActionCreate    = "create"
	AuditActionUpdate    = "update"
	AuditActionDelete    = "delete"
	AuditActionSubmit    = "submit"
	AuditActionApprove   = "approve"
	AuditActionReject    = "reject"
	AuditActionDuplicate = "duplicate"
	AuditActionInvite    = "invite"
	AuditActionRole      = "change_role"
	AuditActionSignUp    = "sign_up"
)

// AuditLog records every successful mutation for compliance review.
type AuditLog struct {
	Base
	CompanyID    string `gorm:"type:uuid;index" json:"company_id"`
	ActorID      string `gorm:"type:uuid;not null;index" json:"actor_id"`
	Action       string `gorm:"not null" json:"action"`
	ResourceType string `gorm:"not null" json:"resource_type"`
	ResourceID   string `gorm:"type:uuid" json:"resource_id"`
	Changes      string `json:"changes,omitempty"`
}
