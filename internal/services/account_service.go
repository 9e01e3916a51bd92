// internal/services/account_service.go
package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/motorlot/carmarket-backend/internal/models"
	"github.com/motorlot/carmarket-backend/internal/utils"
)

// AccountService exposes the subject's own view of the marketplace: profile,
// affiliation and the balance they transact with.
type AccountService struct {
	db     *gorm.DB
	ledger *LedgerService
}

type TopUpRequest struct {
	Amount int64 `json:"amount" validate:"required,min=1"`
}

// Profile is the account plus the business entity it administers, if any.
type Profile struct {
	User         *models.User         `json:"user"`
	Dealership   *models.Dealership   `json:"dealership,omitempty"`
	Manufacturer *models.Manufacturer `json:"manufacturer,omitempty"`
}

func NewAccountService(db *gorm.DB, ledger *LedgerService) *AccountService {
	return &AccountService{db: db, ledger: ledger}
}

func (s *AccountService) GetProfile(userID uuid.UUID) (*Profile, error) {
	var user models.User
	if err := s.db.First(&user, "id = ?", userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	profile := &Profile{User: &user}

	switch user.UserType {
	case models.UserTypeDealershipAdmin:
		var dealership models.Dealership
		if err := s.db.First(&dealership, "admin_id = ?", userID).Error; err == nil {
			profile.Dealership = &dealership
		}
	case models.UserTypeManufacturerAdmin:
		var manufacturer models.Manufacturer
		if err := s.db.First(&manufacturer, "admin_id = ?", userID).Error; err == nil {
			profile.Manufacturer = &manufacturer
		}
	}

	return profile, nil
}

// TopUpBalance credits the ledger the subject transacts with: the user row
// for customers, the administered entity for admin roles.
func (s *AccountService) TopUpBalance(userID uuid.UUID, req *TopUpRequest) (*Profile, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, fmt.Errorf("validation failed: %w", err)
	}

	profile, err := s.GetProfile(userID)
	if err != nil {
		return nil, err
	}

	switch profile.User.UserType {
	case models.UserTypeCustomer:
		err = s.ledger.Credit(s.db, &models.User{}, userID, req.Amount)
	case models.UserTypeDealershipAdmin:
		if profile.Dealership == nil {
			return nil, ErrNotFound
		}
		err = s.ledger.Credit(s.db, &models.Dealership{}, profile.Dealership.ID, req.Amount)
	case models.UserTypeManufacturerAdmin:
		if profile.Manufacturer == nil {
			return nil, ErrNotFound
		}
		err = s.ledger.Credit(s.db, &models.Manufacturer{}, profile.Manufacturer.ID, req.Amount)
	default:
		return nil, ErrAccessDenied
	}
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"user_id": userID,
		"amount":  req.Amount,
	}).Info("Balance topped up")

	return s.GetProfile(userID)
}
