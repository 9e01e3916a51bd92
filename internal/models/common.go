// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type UserType string

const (
	UserTypeCustomer          UserType = "customer"
	UserTypeDealershipAdmin   UserType = "dealership_admin"
	UserTypeManufacturerAdmin UserType = "manufacturer_admin"
)

type UserStatus string

const (
	UserStatusActive    UserStatus = "active"
	UserStatusSuspended UserStatus = "suspended"
)

type DealStatus string

const (
	DealStatusPending  DealStatus = "pending"
	DealStatusAccepted DealStatus = "accepted"
	DealStatusRejected DealStatus = "rejected"
)

// Terminal reports whether a deal may no longer transition.
func (s DealStatus) Terminal() bool {
	return s == DealStatusAccepted || s == DealStatusRejected
}

type GrantCapability string

const (
	CapabilityView GrantCapability = "view"
	CapabilityAct  GrantCapability = "act"
)

type GrantObjectType string

const (
	ObjectTypeWholesaleDeal GrantObjectType = "wholesale_deal"
	ObjectTypeRetailDeal    GrantObjectType = "retail_deal"
)
