// internal/models/deal.go
package models

import (
	"github.com/google/uuid"
)

// WholesaleDeal is a dealership's offer to buy wholesale stock from a
// manufacturer. AskingPrice is the total offered for the whole quantity,
// not a per-unit price; it is snapshotted at proposal time and does not
// follow later price changes on the car line.
type WholesaleDeal struct {
	BaseModel
	Status       DealStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CarID        uuid.UUID  `json:"car_id" gorm:"type:uuid;not null;index"`
	AskingPrice  int64      `json:"asking_price" gorm:"not null"`
	Quantity     int64      `json:"quantity" gorm:"not null;default:1"`
	DealershipID uuid.UUID  `json:"dealership_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Car        WholesaleCar `json:"car,omitempty" gorm:"foreignKey:CarID"`
	Dealership Dealership   `json:"dealership,omitempty" gorm:"foreignKey:DealershipID"`
}

// TotalCost is what the buyer pays on acceptance. The asking price already
// covers the full quantity.
func (d *WholesaleDeal) TotalCost() int64 {
	return d.AskingPrice
}

// RetailDeal is a customer's offer to buy a single car from a dealership.
type RetailDeal struct {
	BaseModel
	Status      DealStatus `json:"status" gorm:"type:varchar(20);default:'pending';index"`
	CarID       uuid.UUID  `json:"car_id" gorm:"type:uuid;not null;index"`
	AskingPrice int64      `json:"asking_price" gorm:"not null"`
	CustomerID  uuid.UUID  `json:"customer_id" gorm:"type:uuid;not null;index"`

	// Relationships
	Car      RetailCar `json:"car,omitempty" gorm:"foreignKey:CarID"`
	Customer User      `json:"customer,omitempty" gorm:"foreignKey:CustomerID"`
}

func (d *RetailDeal) TotalCost() int64 {
	return d.AskingPrice
}
