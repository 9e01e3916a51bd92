// internal/services/authz_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/motorlot/carmarket-backend/internal/models"
)

// Action is a role-gated operation. Role rules are pure predicates; the
// per-instance grant layer sits on top of them in AuthzService.
type Action string

const (
	ActionProposeWholesaleDeal  Action = "propose_wholesale_deal"
	ActionProposeRetailDeal     Action = "propose_retail_deal"
	ActionManageBlueprints      Action = "manage_blueprints"
	ActionRunManufacturingOrder Action = "run_manufacturing_order"
	ActionBrowseWholesale       Action = "browse_wholesale"
	ActionBrowseRetail          Action = "browse_retail"
	ActionManageWholesaleStock  Action = "manage_wholesale_stock"
	ActionManageRetailStock     Action = "manage_retail_stock"
)

// CanPerform is the role-based authorization layer: which account role may
// trigger which marketplace action. Instance-level access is decided
// separately by Authorize*.
func CanPerform(role models.UserType, action Action) bool {
	switch action {
	case ActionProposeWholesaleDeal, ActionBrowseWholesale:
		return role == models.UserTypeDealershipAdmin
	case ActionProposeRetailDeal, ActionBrowseRetail:
		return role == models.UserTypeCustomer
	case ActionManageBlueprints, ActionRunManufacturingOrder, ActionManageWholesaleStock:
		return role == models.UserTypeManufacturerAdmin
	case ActionManageRetailStock:
		return role == models.UserTypeDealershipAdmin
	default:
		return false
	}
}

type AuthzService struct {
	db *gorm.DB
}

func NewAuthzService(db *gorm.DB) *AuthzService {
	return &AuthzService{db: db}
}

// GrantDeal records explicit capabilities for a subject on one deal instance.
// Called when a deal is proposed; grants are never revoked by the deal flow.
func (s *AuthzService) GrantDeal(tx *gorm.DB, subjectID uuid.UUID, objectType models.GrantObjectType, objectID uuid.UUID, capabilities ...models.GrantCapability) error {
	for _, capability := range capabilities {
		grant := &models.DealGrant{
			SubjectID:  subjectID,
			ObjectType: objectType,
			ObjectID:   objectID,
			Capability: capability,
		}
		if err := tx.Create(grant).Error; err != nil {
			return fmt.Errorf("failed to create grant: %w", err)
		}
	}
	return nil
}

func (s *AuthzService) hasGrant(tx *gorm.DB, subjectID uuid.UUID, objectType models.GrantObjectType, objectID uuid.UUID, capability models.GrantCapability) (bool, error) {
	var grant models.DealGrant
	err := tx.Where("subject_id = ? AND object_type = ? AND object_id = ? AND capability = ?",
		subjectID, objectType, objectID, capability).First(&grant).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("grant lookup failed: %w", err)
	}
	return true, nil
}

// AuthorizeWholesaleDeal is the single authorization entry point for
// wholesale deal instances. The initiating dealership's admin holds an
// implicit view/act grant through ownership of the deal record; everyone
// else needs an explicit grant row. The deal's Dealership relation must be
// loaded by the caller.
func (s *AuthzService) AuthorizeWholesaleDeal(tx *gorm.DB, subjectID uuid.UUID, deal *models.WholesaleDeal, capability models.GrantCapability) error {
	if deal.Dealership.AdminID == subjectID {
		return nil
	}

	ok, err := s.hasGrant(tx, subjectID, models.ObjectTypeWholesaleDeal, deal.ID, capability)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

// AuthorizeRetailDeal mirrors AuthorizeWholesaleDeal for retail deals; the
// proposing customer is the implicit owner.
func (s *AuthzService) AuthorizeRetailDeal(tx *gorm.DB, subjectID uuid.UUID, deal *models.RetailDeal, capability models.GrantCapability) error {
	if deal.CustomerID == subjectID {
		return nil
	}

	ok, err := s.hasGrant(tx, subjectID, models.ObjectTypeRetailDeal, deal.ID, capability)
	if err != nil {
		return err
	}
	if !ok {
		return ErrAccessDenied
	}
	return nil
}

// AuthorizeWholesaleCar treats the owning manufacturer's admin as the
// implicit grant holder for inventory lines. The car's Manufacturer relation
// must be loaded by the caller.
func (s *AuthzService) AuthorizeWholesaleCar(subjectID uuid.UUID, car *models.WholesaleCar) error {
	if car.Manufacturer.AdminID != subjectID {
		return ErrAccessDenied
	}
	return nil
}

// AuthorizeRetailCar mirrors AuthorizeWholesaleCar for dealership stock.
func (s *AuthzService) AuthorizeRetailCar(subjectID uuid.UUID, car *models.RetailCar) error {
	if car.Dealership.AdminID != subjectID {
		return ErrAccessDenied
	}
	return nil
}
