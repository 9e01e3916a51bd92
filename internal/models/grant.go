// internal/models/grant.go
package models

import (
	"github.com/google/uuid"
)

// DealGrant scopes a view/act capability for one user to one specific deal
// instance. Grants are created when a deal is proposed and are never revoked
// during the normal deal flow.
type DealGrant struct {
	BaseModel
	SubjectID  uuid.UUID       `json:"subject_id" gorm:"type:uuid;not null;uniqueIndex:idx_deal_grants_subject_object"`
	ObjectType GrantObjectType `json:"object_type" gorm:"type:varchar(20);not null;uniqueIndex:idx_deal_grants_subject_object"`
	ObjectID   uuid.UUID       `json:"object_id" gorm:"type:uuid;not null;uniqueIndex:idx_deal_grants_subject_object"`
	Capability GrantCapability `json:"capability" gorm:"type:varchar(10);not null;uniqueIndex:idx_deal_grants_subject_object"`

	// Relationships
	Subject User `json:"subject,omitempty" gorm:"foreignKey:SubjectID"`
}
