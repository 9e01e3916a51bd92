// internal/services/deal_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motorlot/carmarket-backend/internal/database"
	"github.com/motorlot/carmarket-backend/internal/models"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

// DealService drives the deal lifecycle: propose creates a PENDING deal and
// hands the counterparty its instance grants; accept moves money and stock
// between the two parties in one transaction; reject flips the status and
// touches nothing else.
//
// Accept and reject on a non-PENDING deal are benign no-ops returning the
// current state, so double submissions are harmless.
type DealService struct {
	db        *gorm.DB
	authz     *AuthzService
	ledger    *LedgerService
	inventory *InventoryService
}

type ProposeWholesaleDealRequest struct {
	CarID       uuid.UUID `json:"car_id" validate:"required"`
	Quantity    int64     `json:"quantity" validate:"required,min=1"`
	AskingPrice int64     `json:"asking_price" validate:"min=0"`
}

type ProposeRetailDealRequest struct {
	CarID       uuid.UUID `json:"car_id" validate:"required"`
	AskingPrice int64     `json:"asking_price" validate:"min=0"`
}

func NewDealService(db *gorm.DB, authz *AuthzService, ledger *LedgerService, inventory *InventoryService) *DealService {
	return &DealService{
		db:        db,
		authz:     authz,
		ledger:    ledger,
		inventory: inventory,
	}
}

// acceptable is the affordability/stock gate an accept transition must pass
// before any mutation fires.
func acceptable(balance, totalCost, stock, quantity int64) bool {
	return balance >= totalCost && stock >= quantity
}

// ProposeWholesaleDeal creates a PENDING offer from a dealership to the
// manufacturer owning the car line. Price and quantity are snapshotted; no
// stock or affordability gate applies here, both are re-validated at accept
// time.
func (s *DealService) ProposeWholesaleDeal(actorID uuid.UUID, req *ProposeWholesaleDealRequest) (*models.WholesaleDeal, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	actor, err := s.loadActor(actorID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor.UserType, ActionProposeWholesaleDeal) {
		return nil, ErrAccessDenied
	}

	var dealership models.Dealership
	if err := s.db.First(&dealership, "admin_id = ?", actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	var car models.WholesaleCar
	if err := s.db.Preload("Manufacturer").First(&car, "id = ?", req.CarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	deal := &models.WholesaleDeal{
		Status:       models.DealStatusPending,
		CarID:        car.ID,
		AskingPrice:  req.AskingPrice,
		Quantity:     req.Quantity,
		DealershipID: dealership.ID,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(deal).Error; err != nil {
			return fmt.Errorf("failed to create wholesale deal: %w", err)
		}

		// The proposing admin's view right mirrors ownership; the selling
		// manufacturer's admin gets explicit view and act rights on this
		// one deal instance.
		if err := s.authz.GrantDeal(tx, actorID, models.ObjectTypeWholesaleDeal, deal.ID, models.CapabilityView); err != nil {
			return err
		}
		return s.authz.GrantDeal(tx, car.Manufacturer.AdminID, models.ObjectTypeWholesaleDeal, deal.ID,
			models.CapabilityView, models.CapabilityAct)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"deal_id":       deal.ID,
		"car":           car.Name,
		"dealership_id": dealership.ID,
		"asking_price":  deal.AskingPrice,
		"quantity":      deal.Quantity,
	}).Info("Wholesale deal proposed")

	deal.Car = car
	deal.Dealership = dealership
	return deal, nil
}

// ProposeRetailDeal creates a PENDING single-unit offer from a customer to
// the dealership owning the retail line.
func (s *DealService) ProposeRetailDeal(actorID uuid.UUID, req *ProposeRetailDealRequest) (*models.RetailDeal, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	actor, err := s.loadActor(actorID)
	if err != nil {
		return nil, err
	}
	if !CanPerform(actor.UserType, ActionProposeRetailDeal) {
		return nil, ErrAccessDenied
	}

	var car models.RetailCar
	if err := s.db.Preload("Dealership").First(&car, "id = ?", req.CarID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	deal := &models.RetailDeal{
		Status:      models.DealStatusPending,
		CarID:       car.ID,
		AskingPrice: req.AskingPrice,
		CustomerID:  actorID,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Create(deal).Error; err != nil {
			return fmt.Errorf("failed to create retail deal: %w", err)
		}

		if err := s.authz.GrantDeal(tx, actorID, models.ObjectTypeRetailDeal, deal.ID, models.CapabilityView); err != nil {
			return err
		}
		return s.authz.GrantDeal(tx, car.Dealership.AdminID, models.ObjectTypeRetailDeal, deal.ID,
			models.CapabilityView, models.CapabilityAct)
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"deal_id":      deal.ID,
		"car":          car.Name,
		"customer_id":  actorID,
		"asking_price": deal.AskingPrice,
	}).Info("Retail deal proposed")

	deal.Car = car
	return deal, nil
}

// AcceptWholesaleDeal runs the accept transition: debit the dealership,
// credit the manufacturer, move the cars from the wholesale line into the
// dealership's retail inventory, flip the status. All five steps commit or
// roll back together. Insufficient balance or stock declines the transition
// and leaves the deal PENDING; a later attempt may succeed.
func (s *DealService) AcceptWholesaleDeal(actorID, dealID uuid.UUID) (*models.WholesaleDeal, error) {
	var out *models.WholesaleDeal

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var deal models.WholesaleDeal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deal, "id = ?", dealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var dealership models.Dealership
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&dealership, "id = ?", deal.DealershipID).Error; err != nil {
			return fmt.Errorf("failed to load dealership: %w", err)
		}
		deal.Dealership = dealership

		if err := s.authz.AuthorizeWholesaleDeal(tx, actorID, &deal, models.CapabilityAct); err != nil {
			return err
		}

		if deal.Status.Terminal() {
			out = &deal
			return nil
		}

		var car models.WholesaleCar
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&car, "id = ?", deal.CarID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load wholesale car: %w", err)
		}
		deal.Car = car

		var manufacturer models.Manufacturer
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&manufacturer, "id = ?", car.ManufacturerID).Error; err != nil {
			return fmt.Errorf("failed to load manufacturer: %w", err)
		}

		totalCost := deal.TotalCost()
		if !acceptable(dealership.Balance, totalCost, car.Count, deal.Quantity) {
			logrus.WithFields(logrus.Fields{
				"deal_id":      deal.ID,
				"balance":      dealership.Balance,
				"total_cost":   totalCost,
				"stock":        car.Count,
				"quantity":     deal.Quantity,
			}).Info("Wholesale deal acceptance declined")
			out = &deal
			return nil
		}

		if err := s.ledger.Debit(tx, &models.Dealership{}, dealership.ID, totalCost); err != nil {
			return err
		}
		if err := s.ledger.Credit(tx, &models.Manufacturer{}, manufacturer.ID, totalCost); err != nil {
			return err
		}
		if err := s.inventory.Decrement(tx, &models.WholesaleCar{}, car.ID, deal.Quantity); err != nil {
			return err
		}

		// The dealership takes the cars on at the manufacturer's cost price
		// and re-prices afterwards; the asking price only moves money.
		if _, err := s.inventory.UpsertIncrementRetail(tx, car.Name, dealership.ID, car.ManufacturerID,
			car.CostPrice, car.CostPrice, deal.Quantity); err != nil {
			return err
		}

		result := tx.Model(&models.WholesaleDeal{}).
			Where("id = ? AND status = ?", deal.ID, models.DealStatusPending).
			Update("status", models.DealStatusAccepted)
		if result.Error != nil {
			return fmt.Errorf("failed to update deal status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		deal.Status = models.DealStatusAccepted
		out = &deal

		logrus.WithFields(logrus.Fields{
			"deal_id":         deal.ID,
			"total_cost":      totalCost,
			"quantity":        deal.Quantity,
			"dealership_id":   dealership.ID,
			"manufacturer_id": manufacturer.ID,
		}).Info("Wholesale deal accepted")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// AcceptRetailDeal is the single-unit retail counterpart: debit the customer,
// credit the dealership, take one car off the retail line, flip the status.
func (s *DealService) AcceptRetailDeal(actorID, dealID uuid.UUID) (*models.RetailDeal, error) {
	var out *models.RetailDeal

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var deal models.RetailDeal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deal, "id = ?", dealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.authz.AuthorizeRetailDeal(tx, actorID, &deal, models.CapabilityAct); err != nil {
			return err
		}

		if deal.Status.Terminal() {
			out = &deal
			return nil
		}

		var car models.RetailCar
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&car, "id = ?", deal.CarID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to load retail car: %w", err)
		}
		deal.Car = car

		var customer models.User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&customer, "id = ?", deal.CustomerID).Error; err != nil {
			return fmt.Errorf("failed to load customer: %w", err)
		}

		totalCost := deal.TotalCost()
		if !acceptable(customer.Balance, totalCost, car.Count, 1) {
			logrus.WithFields(logrus.Fields{
				"deal_id":    deal.ID,
				"balance":    customer.Balance,
				"total_cost": totalCost,
				"stock":      car.Count,
			}).Info("Retail deal acceptance declined")
			out = &deal
			return nil
		}

		if err := s.ledger.Debit(tx, &models.User{}, customer.ID, totalCost); err != nil {
			return err
		}
		if err := s.ledger.Credit(tx, &models.Dealership{}, car.DealershipID, totalCost); err != nil {
			return err
		}
		if err := s.inventory.Decrement(tx, &models.RetailCar{}, car.ID, 1); err != nil {
			return err
		}

		result := tx.Model(&models.RetailDeal{}).
			Where("id = ? AND status = ?", deal.ID, models.DealStatusPending).
			Update("status", models.DealStatusAccepted)
		if result.Error != nil {
			return fmt.Errorf("failed to update deal status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		deal.Status = models.DealStatusAccepted
		out = &deal

		logrus.WithFields(logrus.Fields{
			"deal_id":       deal.ID,
			"total_cost":    totalCost,
			"customer_id":   customer.ID,
			"dealership_id": car.DealershipID,
		}).Info("Retail deal accepted")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RejectWholesaleDeal flips a PENDING deal to REJECTED. Balances and
// inventory are untouched; a non-PENDING deal is returned as-is.
func (s *DealService) RejectWholesaleDeal(actorID, dealID uuid.UUID) (*models.WholesaleDeal, error) {
	var out *models.WholesaleDeal

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var deal models.WholesaleDeal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deal, "id = ?", dealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		var dealership models.Dealership
		if err := tx.First(&dealership, "id = ?", deal.DealershipID).Error; err != nil {
			return fmt.Errorf("failed to load dealership: %w", err)
		}
		deal.Dealership = dealership

		if err := s.authz.AuthorizeWholesaleDeal(tx, actorID, &deal, models.CapabilityAct); err != nil {
			return err
		}

		if deal.Status.Terminal() {
			out = &deal
			return nil
		}

		result := tx.Model(&models.WholesaleDeal{}).
			Where("id = ? AND status = ?", deal.ID, models.DealStatusPending).
			Update("status", models.DealStatusRejected)
		if result.Error != nil {
			return fmt.Errorf("failed to update deal status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		deal.Status = models.DealStatusRejected
		out = &deal

		logrus.WithField("deal_id", deal.ID).Info("Wholesale deal rejected")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// RejectRetailDeal is the retail counterpart of RejectWholesaleDeal.
func (s *DealService) RejectRetailDeal(actorID, dealID uuid.UUID) (*models.RetailDeal, error) {
	var out *models.RetailDeal

	err := database.WithTransaction(s.db, func(tx *gorm.DB) error {
		var deal models.RetailDeal
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&deal, "id = ?", dealID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("database error: %w", err)
		}

		if err := s.authz.AuthorizeRetailDeal(tx, actorID, &deal, models.CapabilityAct); err != nil {
			return err
		}

		if deal.Status.Terminal() {
			out = &deal
			return nil
		}

		result := tx.Model(&models.RetailDeal{}).
			Where("id = ? AND status = ?", deal.ID, models.DealStatusPending).
			Update("status", models.DealStatusRejected)
		if result.Error != nil {
			return fmt.Errorf("failed to update deal status: %w", result.Error)
		}
		if result.RowsAffected == 0 {
			return ErrConflict
		}

		deal.Status = models.DealStatusRejected
		out = &deal

		logrus.WithField("deal_id", deal.ID).Info("Retail deal rejected")
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// GetWholesaleDeal returns one deal to a subject holding a view grant.
func (s *DealService) GetWholesaleDeal(actorID, dealID uuid.UUID) (*models.WholesaleDeal, error) {
	var deal models.WholesaleDeal
	if err := s.db.Preload("Car").Preload("Car.Manufacturer").Preload("Dealership").
		First(&deal, "id = ?", dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.authz.AuthorizeWholesaleDeal(s.db, actorID, &deal, models.CapabilityView); err != nil {
		return nil, err
	}
	return &deal, nil
}

// GetRetailDeal returns one retail deal to a subject holding a view grant.
func (s *DealService) GetRetailDeal(actorID, dealID uuid.UUID) (*models.RetailDeal, error) {
	var deal models.RetailDeal
	if err := s.db.Preload("Car").Preload("Car.Dealership").Preload("Customer").
		First(&deal, "id = ?", dealID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.authz.AuthorizeRetailDeal(s.db, actorID, &deal, models.CapabilityView); err != nil {
		return nil, err
	}
	return &deal, nil
}

// ListIncomingWholesaleDeals shows a manufacturer admin the offers made
// against their stock.
func (s *DealService) ListIncomingWholesaleDeals(adminID uuid.UUID, params utils.PaginationParams) ([]models.WholesaleDeal, int64, error) {
	query := s.db.Model(&models.WholesaleDeal{}).
		Where("car_id IN (SELECT id FROM wholesale_cars WHERE manufacturer_id IN (SELECT id FROM manufacturers WHERE admin_id = ?))", adminID).
		Preload("Car").Preload("Dealership")

	return s.findWholesaleDeals(query, params)
}

// ListOutgoingWholesaleDeals shows a dealership admin their own offers.
func (s *DealService) ListOutgoingWholesaleDeals(adminID uuid.UUID, params utils.PaginationParams) ([]models.WholesaleDeal, int64, error) {
	query := s.db.Model(&models.WholesaleDeal{}).
		Where("dealership_id IN (SELECT id FROM dealerships WHERE admin_id = ?)", adminID).
		Preload("Car").Preload("Car.Manufacturer")

	return s.findWholesaleDeals(query, params)
}

// ListIncomingRetailDeals shows a dealership admin the offers made against
// their retail stock.
func (s *DealService) ListIncomingRetailDeals(adminID uuid.UUID, params utils.PaginationParams) ([]models.RetailDeal, int64, error) {
	query := s.db.Model(&models.RetailDeal{}).
		Where("car_id IN (SELECT id FROM retail_cars WHERE dealership_id IN (SELECT id FROM dealerships WHERE admin_id = ?))", adminID).
		Preload("Car").Preload("Customer")

	return s.findRetailDeals(query, params)
}

// ListOutgoingRetailDeals shows a customer their own offers.
func (s *DealService) ListOutgoingRetailDeals(customerID uuid.UUID, params utils.PaginationParams) ([]models.RetailDeal, int64, error) {
	query := s.db.Model(&models.RetailDeal{}).
		Where("customer_id = ?", customerID).
		Preload("Car").Preload("Car.Dealership")

	return s.findRetailDeals(query, params)
}

func (s *DealService) findWholesaleDeals(query *gorm.DB, params utils.PaginationParams) ([]models.WholesaleDeal, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wholesale deals: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "status", "asking_price"})
	query = utils.ApplyPagination(query, params)

	var deals []models.WholesaleDeal
	if err := query.Find(&deals).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch wholesale deals: %w", err)
	}
	return deals, total, nil
}

func (s *DealService) findRetailDeals(query *gorm.DB, params utils.PaginationParams) ([]models.RetailDeal, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count retail deals: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "status", "asking_price"})
	query = utils.ApplyPagination(query, params)

	var deals []models.RetailDeal
	if err := query.Find(&deals).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch retail deals: %w", err)
	}
	return deals, total, nil
}

func (s *DealService) loadActor(actorID uuid.UUID) (*models.User, error) {
	var actor models.User
	if err := s.db.First(&actor, "id = ?", actorID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if actor.Status != models.UserStatusActive {
		return nil, ErrAccessDenied
	}
	return &actor, nil
}
