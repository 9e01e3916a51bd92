// internal/services/production_service.go
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

// ProductionService covers the manufacturer side of the catalog: blueprint
// management and manufacturing runs that turn balance into wholesale stock.
type ProductionService struct {
	db        *gorm.DB
	ledger    *LedgerService
	inventory *InventoryService
}

type CreateBlueprintRequest struct {
	Name      string `json:"name" validate:"required,min=2,max=120"`
	UnitPrice int64  `json:"unit_price" validate:"required,min=1"`
}

type UpdateBlueprintRequest struct {
	Name      string `json:"name" validate:"omitempty,min=2,max=120"`
	UnitPrice int64  `json:"unit_price" validate:"omitempty,min=1"`
}

type RunManufacturingOrderRequest struct {
	BlueprintID uuid.UUID `json:"blueprint_id" validate:"required"`
	Count       int64     `json:"count" validate:"required,min=1,max=10000"`
}

func NewProductionService(db *gorm.DB, ledger *LedgerService, inventory *InventoryService) *ProductionService {
	return &ProductionService{db: db, ledger: ledger, inventory: inventory}
}

func (s *ProductionService) CreateBlueprint(adminID uuid.UUID, req *CreateBlueprintRequest) (*models.Blueprint, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	manufacturer, err := s.manufacturerFor(adminID)
	if err != nil {
		return nil, err
	}

	blueprint := &models.Blueprint{
		Name:           req.Name,
		UnitPrice:      req.UnitPrice,
		ManufacturerID: manufacturer.ID,
	}
	if err := s.db.Create(blueprint).Error; err != nil {
		return nil, fmt.Errorf("failed to create blueprint: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"blueprint_id":    blueprint.ID,
		"manufacturer_id": manufacturer.ID,
		"name":            blueprint.Name,
	}).Info("Blueprint created")

	return blueprint, nil
}

func (s *ProductionService) UpdateBlueprint(adminID, blueprintID uuid.UUID, req *UpdateBlueprintRequest) (*models.Blueprint, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	blueprint, err := s.ownedBlueprint(adminID, blueprintID)
	if err != nil {
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Name != "" {
		updates["name"] = req.Name
	}
	if req.UnitPrice > 0 {
		updates["unit_price"] = req.UnitPrice
	}
	if len(updates) == 0 {
		return blueprint, nil
	}

	if err := s.db.Model(blueprint).Updates(updates).Error; err != nil {
		return nil, fmt.Errorf("failed to update blueprint: %w", err)
	}
	return blueprint, nil
}

func (s *ProductionService) DeleteBlueprint(adminID, blueprintID uuid.UUID) error {
	blueprint, err := s.ownedBlueprint(adminID, blueprintID)
	if err != nil {
		return err
	}

	if err := s.db.Delete(blueprint).Error; err != nil {
		return fmt.Errorf("failed to delete blueprint: %w", err)
	}
	return nil
}

func (s *ProductionService) ListBlueprints(adminID uuid.UUID, params utils.PaginationParams) ([]models.Blueprint, int64, error) {
	manufacturer, err := s.manufacturerFor(adminID)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.Blueprint{}).Where("manufacturer_id = ?", manufacturer.ID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count blueprints: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "unit_price"})
	query = utils.ApplyPagination(query, params)

	var blueprints []models.Blueprint
	if err := query.Find(&blueprints).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch blueprints: %w", err)
	}
	return blueprints, total, nil
}

// RunManufacturingOrder debits unit_price * count from the manufacturer and
// adds the produced cars to the matching wholesale line, creating the line if
// the blueprint has never been run. Debit and stock increment share one
// transaction; an unaffordable run fails with ErrInsufficientBalance and
// produces nothing.
func (s *ProductionService) RunManufacturingOrder(adminID uuid.UUID, req *RunManufacturingOrderRequest) (*models.ManufacturingOrder, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	manufacturer, err := s.manufacturerFor(adminID)
	if err != nil {
		return nil, err
	}

	var blueprint models.Blueprint
	if err := s.db.First(&blueprint, "id = ? AND manufacturer_id = ?", req.BlueprintID, manufacturer.ID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	totalCost := blueprint.UnitPrice * req.Count
	if totalCost/req.Count != blueprint.UnitPrice {
		return nil, fmt.Errorf("order total overflows: unit price %d x count %d", blueprint.UnitPrice, req.Count)
	}
	order := &models.ManufacturingOrder{
		ManufacturerID: manufacturer.ID,
		BlueprintID:    blueprint.ID,
		Count:          req.Count,
		TotalCost:      totalCost,
	}

	err = database.WithTransaction(s.db, func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&models.Manufacturer{}, "id = ?", manufacturer.ID).Error; err != nil {
			return fmt.Errorf("failed to lock manufacturer: %w", err)
		}

		if err := s.ledger.Debit(tx, &models.Manufacturer{}, manufacturer.ID, totalCost); err != nil {
			return err
		}

		// Produced cars carry the blueprint's unit price as both cost and
		// initial wholesale price until the manufacturer re-prices the line.
		if _, err := s.inventory.UpsertIncrementWholesale(tx, blueprint.Name, manufacturer.ID,
			blueprint.UnitPrice, blueprint.UnitPrice, req.Count); err != nil {
			return err
		}

		if err := tx.Create(order).Error; err != nil {
			return fmt.Errorf("failed to record manufacturing order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"order_id":        order.ID,
		"manufacturer_id": manufacturer.ID,
		"blueprint":       blueprint.Name,
		"count":           req.Count,
		"total_cost":      totalCost,
	}).Info("Manufacturing order completed")

	order.Blueprint = blueprint
	return order, nil
}

func (s *ProductionService) ListManufacturingOrders(adminID uuid.UUID, params utils.PaginationParams) ([]models.ManufacturingOrder, int64, error) {
	manufacturer, err := s.manufacturerFor(adminID)
	if err != nil {
		return nil, 0, err
	}

	query := s.db.Model(&models.ManufacturingOrder{}).
		Where("manufacturer_id = ?", manufacturer.ID).
		Preload("Blueprint")

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count manufacturing orders: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "total_cost", "count"})
	query = utils.ApplyPagination(query, params)

	var orders []models.ManufacturingOrder
	if err := query.Find(&orders).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch manufacturing orders: %w", err)
	}
	return orders, total, nil
}

func (s *ProductionService) manufacturerFor(adminID uuid.UUID) (*models.Manufacturer, error) {
	var manufacturer models.Manufacturer
	if err := s.db.First(&manufacturer, "admin_id = ?", adminID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAccessDenied
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &manufacturer, nil
}

func (s *ProductionService) ownedBlueprint(adminID, blueprintID uuid.UUID) (*models.Blueprint, error) {
	manufacturer, err := s.manufacturerFor(adminID)
	if err != nil {
		return nil, err
	}

	var blueprint models.Blueprint
	if err := s.db.First(&blueprint, "id = ?", blueprintID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	if blueprint.ManufacturerID != manufacturer.ID {
		return nil, ErrAccessDenied
	}
	return &blueprint, nil
}
