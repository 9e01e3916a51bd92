// internal/models/blueprint.go
package models

import (
	"github.com/google/uuid"
)

// Blueprint is a manufacturer-defined car template. Manufacturing orders
// turn a blueprint plus balance into wholesale stock.
type Blueprint struct {
	BaseModel
	Name           string    `json:"name" gorm:"size:100;not null"`
	UnitPrice      int64     `json:"unit_price" gorm:"not null;default:0"`
	ManufacturerID uuid.UUID `json:"manufacturer_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Manufacturer Manufacturer `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID"`
}

type ManufacturingOrder struct {
	BaseModel
	ManufacturerID uuid.UUID `json:"manufacturer_id" gorm:"type:uuid;not null;index"`
	BlueprintID    uuid.UUID `json:"blueprint_id" gorm:"type:uuid;not null;index"`
	Count          int64     `json:"count" gorm:"not null"`
	TotalCost      int64     `json:"total_cost" gorm:"not null"`

	// Relationships
	Manufacturer Manufacturer `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID"`
	Blueprint    Blueprint    `json:"blueprint,omitempty" gorm:"foreignKey:BlueprintID"`
}
