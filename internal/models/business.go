// internal/models/business.go
package models

import (
	"github.com/google/uuid"
)

// Manufacturer produces wholesale stock from blueprints and sells it to
// dealerships. Balance is its ledger account.
type Manufacturer struct {
	BaseModel
	Name    string    `json:"name" gorm:"size:100;not null"`
	Country string    `json:"country" gorm:"size:56"`
	Balance int64     `json:"balance" gorm:"not null;default:0"`
	AdminID uuid.UUID `json:"admin_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Admin         User           `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	Blueprints    []Blueprint    `json:"blueprints,omitempty" gorm:"foreignKey:ManufacturerID"`
	WholesaleCars []WholesaleCar `json:"wholesale_cars,omitempty" gorm:"foreignKey:ManufacturerID"`
}

// Dealership buys wholesale stock and resells single units to customers.
type Dealership struct {
	BaseModel
	Name    string    `json:"name" gorm:"size:100;not null"`
	Country string    `json:"country" gorm:"size:56"`
	Balance int64     `json:"balance" gorm:"not null;default:0"`
	AdminID uuid.UUID `json:"admin_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Admin      User            `json:"admin,omitempty" gorm:"foreignKey:AdminID"`
	RetailCars []RetailCar     `json:"retail_cars,omitempty" gorm:"foreignKey:DealershipID"`
	Deals      []WholesaleDeal `json:"deals,omitempty" gorm:"foreignKey:DealershipID"`
}
