// internal/services/inventory_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/motorlot/carmarket-backend/internal/models"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

// InventoryService owns the counted stock lines. Count mutations are guarded
// in-database updates (never read-modify-write), and the upserts key lines by
// (name, owner) so repeated intake merges into one line instead of creating
// duplicates.
type InventoryService struct {
	db    *gorm.DB
	authz *AuthzService
}

type UpdateCarPriceRequest struct {
	Price int64 `json:"price" validate:"required,min=0"`
}

func NewInventoryService(db *gorm.DB, authz *AuthzService) *InventoryService {
	return &InventoryService{db: db, authz: authz}
}

// Decrement reduces a stock line's count, refusing to go below zero. Zero
// rows affected means not enough stock. Must run inside the caller's
// transaction.
func (s *InventoryService) Decrement(tx *gorm.DB, line interface{}, lineID uuid.UUID, qty int64) error {
	if qty < 0 {
		return errors.New("decrement quantity must not be negative")
	}

	result := tx.Model(line).
		Where("id = ? AND count >= ?", lineID, qty).
		UpdateColumn("count", gorm.Expr("count - ?", qty))
	if result.Error != nil {
		return fmt.Errorf("failed to decrement stock: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrInsufficientStock
	}
	return nil
}

// UpsertIncrementRetail moves qty units into a dealership's retail inventory.
// An existing line keyed by (name, dealership) is incremented; otherwise a
// new line is created with the given prices. The row lock on the existing
// line keeps two concurrent accepts from both taking the create path.
func (s *InventoryService) UpsertIncrementRetail(tx *gorm.DB, name string, dealershipID, manufacturerID uuid.UUID, costPrice, retailPrice, qty int64) (*models.RetailCar, error) {
	var line models.RetailCar
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ? AND dealership_id = ?", name, dealershipID).
		First(&line).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("retail line lookup failed: %w", err)
		}

		line = models.RetailCar{
			Name:           name,
			CostPrice:      costPrice,
			RetailPrice:    retailPrice,
			Count:          qty,
			DealershipID:   dealershipID,
			ManufacturerID: manufacturerID,
		}
		if err := tx.Create(&line).Error; err != nil {
			return nil, fmt.Errorf("failed to create retail line: %w", err)
		}
		return &line, nil
	}

	result := tx.Model(&models.RetailCar{}).
		Where("id = ?", line.ID).
		UpdateColumn("count", gorm.Expr("count + ?", qty))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to increment retail line: %w", result.Error)
	}
	line.Count += qty
	return &line, nil
}

// UpsertIncrementWholesale is the manufacturing-side twin: finished cars land
// on the manufacturer's wholesale line keyed by (name, manufacturer).
func (s *InventoryService) UpsertIncrementWholesale(tx *gorm.DB, name string, manufacturerID uuid.UUID, costPrice, wholesalePrice, qty int64) (*models.WholesaleCar, error) {
	var line models.WholesaleCar
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("name = ? AND manufacturer_id = ?", name, manufacturerID).
		First(&line).Error
	if err != nil {
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("wholesale line lookup failed: %w", err)
		}

		line = models.WholesaleCar{
			Name:           name,
			CostPrice:      costPrice,
			WholesalePrice: wholesalePrice,
			Count:          qty,
			ManufacturerID: manufacturerID,
		}
		if err := tx.Create(&line).Error; err != nil {
			return nil, fmt.Errorf("failed to create wholesale line: %w", err)
		}
		return &line, nil
	}

	result := tx.Model(&models.WholesaleCar{}).
		Where("id = ?", line.ID).
		UpdateColumn("count", gorm.Expr("count + ?", qty))
	if result.Error != nil {
		return nil, fmt.Errorf("failed to increment wholesale line: %w", result.Error)
	}
	line.Count += qty
	return &line, nil
}

// ListOwnWholesale returns the manufacturer admin's in-stock lines.
func (s *InventoryService) ListOwnWholesale(adminID uuid.UUID, params utils.PaginationParams) ([]models.WholesaleCar, int64, error) {
	query := s.db.Model(&models.WholesaleCar{}).
		Where("count > 0 AND manufacturer_id IN (SELECT id FROM manufacturers WHERE admin_id = ?)", adminID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wholesale cars: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "count", "wholesale_price"})
	query = utils.ApplyPagination(query, params)

	var cars []models.WholesaleCar
	if err := query.Find(&cars).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch wholesale cars: %w", err)
	}
	return cars, total, nil
}

// ListOwnRetail returns the dealership admin's in-stock lines.
func (s *InventoryService) ListOwnRetail(adminID uuid.UUID, params utils.PaginationParams) ([]models.RetailCar, int64, error) {
	query := s.db.Model(&models.RetailCar{}).
		Where("count > 0 AND dealership_id IN (SELECT id FROM dealerships WHERE admin_id = ?)", adminID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count retail cars: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "count", "retail_price"})
	query = utils.ApplyPagination(query, params)

	var cars []models.RetailCar
	if err := query.Find(&cars).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch retail cars: %w", err)
	}
	return cars, total, nil
}

// BrowseWholesale lists every manufacturer's in-stock wholesale cars for
// dealership admins shopping for inventory.
func (s *InventoryService) BrowseWholesale(params utils.PaginationParams) ([]models.WholesaleCar, int64, error) {
	query := s.db.Model(&models.WholesaleCar{}).Where("count > 0").Preload("Manufacturer")

	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count wholesale cars: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "wholesale_price"})
	query = utils.ApplyPagination(query, params)

	var cars []models.WholesaleCar
	if err := query.Find(&cars).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch wholesale cars: %w", err)
	}
	return cars, total, nil
}

// BrowseRetail lists every dealership's in-stock retail cars for customers.
func (s *InventoryService) BrowseRetail(params utils.PaginationParams) ([]models.RetailCar, int64, error) {
	query := s.db.Model(&models.RetailCar{}).Where("count > 0").Preload("Dealership").Preload("Manufacturer")

	if params.Search != "" {
		query = query.Where("name ILIKE ?", "%"+params.Search+"%")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count retail cars: %w", err)
	}

	query = utils.ApplySort(query, params, []string{"created_at", "name", "retail_price"})
	query = utils.ApplyPagination(query, params)

	var cars []models.RetailCar
	if err := query.Find(&cars).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to fetch retail cars: %w", err)
	}
	return cars, total, nil
}

// GetWholesaleCar returns a wholesale line to its owning manufacturer admin.
func (s *InventoryService) GetWholesaleCar(adminID, carID uuid.UUID) (*models.WholesaleCar, error) {
	var car models.WholesaleCar
	if err := s.db.Preload("Manufacturer").First(&car, "id = ?", carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.authz.AuthorizeWholesaleCar(adminID, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// GetRetailCar returns a retail line to its owning dealership admin.
func (s *InventoryService) GetRetailCar(adminID, carID uuid.UUID) (*models.RetailCar, error) {
	var car models.RetailCar
	if err := s.db.Preload("Dealership").Preload("Manufacturer").First(&car, "id = ?", carID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if err := s.authz.AuthorizeRetailCar(adminID, &car); err != nil {
		return nil, err
	}
	return &car, nil
}

// UpdateWholesalePrice lets the owning manufacturer admin re-price a line.
func (s *InventoryService) UpdateWholesalePrice(adminID, carID uuid.UUID, req *UpdateCarPriceRequest) (*models.WholesaleCar, error) {
	car, err := s.GetWholesaleCar(adminID, carID)
	if err != nil {
		return nil, err
	}

	car.WholesalePrice = req.Price
	if err := s.db.Model(car).Update("wholesale_price", req.Price).Error; err != nil {
		return nil, fmt.Errorf("failed to update wholesale price: %w", err)
	}
	return car, nil
}

// UpdateRetailPrice lets the owning dealership admin set its margin. Accepted
// wholesale deals land re-priced at cost, so this is how a dealership makes
// money.
func (s *InventoryService) UpdateRetailPrice(adminID, carID uuid.UUID, req *UpdateCarPriceRequest) (*models.RetailCar, error) {
	car, err := s.GetRetailCar(adminID, carID)
	if err != nil {
		return nil, err
	}

	car.RetailPrice = req.Price
	if err := s.db.Model(car).Update("retail_price", req.Price).Error; err != nil {
		return nil, fmt.Errorf("failed to update retail price: %w", err)
	}
	return car, nil
}

// DeleteWholesaleCar is an explicit owner action; the deal flow never deletes
// lines, even at count zero.
func (s *InventoryService) DeleteWholesaleCar(adminID, carID uuid.UUID) error {
	car, err := s.GetWholesaleCar(adminID, carID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(car).Error; err != nil {
		return fmt.Errorf("failed to delete wholesale car: %w", err)
	}
	return nil
}

func (s *InventoryService) DeleteRetailCar(adminID, carID uuid.UUID) error {
	car, err := s.GetRetailCar(adminID, carID)
	if err != nil {
		return err
	}
	if err := s.db.Delete(car).Error; err != nil {
		return fmt.Errorf("failed to delete retail car: %w", err)
	}
	return nil
}

// AttachWholesalePhoto appends an uploaded photo URL to the line.
func (s *InventoryService) AttachWholesalePhoto(adminID, carID uuid.UUID, url string) (*models.WholesaleCar, error) {
	car, err := s.GetWholesaleCar(adminID, carID)
	if err != nil {
		return nil, err
	}

	car.PhotoURLs = append(car.PhotoURLs, url)
	if err := s.db.Model(car).Update("photo_urls", car.PhotoURLs).Error; err != nil {
		return nil, fmt.Errorf("failed to attach photo: %w", err)
	}
	return car, nil
}

func (s *InventoryService) AttachRetailPhoto(adminID, carID uuid.UUID, url string) (*models.RetailCar, error) {
	car, err := s.GetRetailCar(adminID, carID)
	if err != nil {
		return nil, err
	}

	car.PhotoURLs = append(car.PhotoURLs, url)
	if err := s.db.Model(car).Update("photo_urls", car.PhotoURLs).Error; err != nil {
		return nil, fmt.Errorf("failed to attach photo: %w", err)
	}
	return car, nil
}
