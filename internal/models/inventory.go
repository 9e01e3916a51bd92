// internal/models/inventory.go
package models

import (
	"github.com/google/uuid"
	"github.com/lib/pq"
)

// WholesaleCar is a counted stock line owned by a manufacturer. Count never
// goes below zero; decrements are guarded at the storage layer.
type WholesaleCar struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:100;not null;index:idx_wholesale_cars_name_owner"`
	CostPrice      int64          `json:"cost_price" gorm:"not null;default:0"`
	WholesalePrice int64          `json:"wholesale_price" gorm:"not null;default:0"`
	Count          int64          `json:"count" gorm:"not null;default:0"`
	ManufacturerID uuid.UUID      `json:"manufacturer_id" gorm:"type:uuid;not null;index:idx_wholesale_cars_name_owner"`
	PhotoURLs      pq.StringArray `json:"photo_urls" gorm:"type:text[]"`

	// Relationships
	Manufacturer Manufacturer    `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID"`
	Deals        []WholesaleDeal `json:"deals,omitempty" gorm:"foreignKey:CarID"`
}

// RetailCar is a counted stock line owned by a dealership. ManufacturerID
// tracks which manufacturer originally produced the car.
type RetailCar struct {
	BaseModel
	Name           string         `json:"name" gorm:"size:100;not null;index:idx_retail_cars_name_owner"`
	CostPrice      int64          `json:"cost_price" gorm:"not null;default:0"`
	RetailPrice    int64          `json:"retail_price" gorm:"not null;default:0"`
	Count          int64          `json:"count" gorm:"not null;default:0"`
	DealershipID   uuid.UUID      `json:"dealership_id" gorm:"type:uuid;not null;index:idx_retail_cars_name_owner"`
	ManufacturerID uuid.UUID      `json:"manufacturer_id" gorm:"type:uuid;index"`
	PhotoURLs      pq.StringArray `json:"photo_urls" gorm:"type:text[]"`

	// Relationships
	Dealership   Dealership   `json:"dealership,omitempty" gorm:"foreignKey:DealershipID"`
	Manufacturer Manufacturer `json:"manufacturer,omitempty" gorm:"foreignKey:ManufacturerID"`
	Deals        []RetailDeal `json:"deals,omitempty" gorm:"foreignKey:CarID"`
}
