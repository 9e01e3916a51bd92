// internal/services/authz_service_test.go
package services

import (
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/motorlot/carmarket-backend/internal/models"
)

func TestCanPerform(t *testing.T) {
	tests := []struct {
		name   string
		role   models.UserType
		action Action
		want   bool
	}{
		{"dealership admin proposes wholesale", models.UserTypeDealershipAdmin, ActionProposeWholesaleDeal, true},
		{"customer cannot propose wholesale", models.UserTypeCustomer, ActionProposeWholesaleDeal, false},
		{"manufacturer admin cannot propose wholesale", models.UserTypeManufacturerAdmin, ActionProposeWholesaleDeal, false},
		{"customer proposes retail", models.UserTypeCustomer, ActionProposeRetailDeal, true},
		{"dealership admin cannot propose retail", models.UserTypeDealershipAdmin, ActionProposeRetailDeal, false},
		{"manufacturer admin manages blueprints", models.UserTypeManufacturerAdmin, ActionManageBlueprints, true},
		{"manufacturer admin runs orders", models.UserTypeManufacturerAdmin, ActionRunManufacturingOrder, true},
		{"customer cannot run orders", models.UserTypeCustomer, ActionRunManufacturingOrder, false},
		{"dealership admin browses wholesale", models.UserTypeDealershipAdmin, ActionBrowseWholesale, true},
		{"customer browses retail", models.UserTypeCustomer, ActionBrowseRetail, true},
		{"manufacturer admin cannot browse retail", models.UserTypeManufacturerAdmin, ActionBrowseRetail, false},
		{"dealership admin manages retail stock", models.UserTypeDealershipAdmin, ActionManageRetailStock, true},
		{"unknown action denied", models.UserTypeCustomer, Action("launch_rockets"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanPerform(tt.role, tt.action))
		})
	}
}

func TestAuthorizeRetailDealInitiator(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzService(db)

	customerID := uuid.New()
	deal := &models.RetailDeal{CustomerID: customerID}

	// Initiator ownership short-circuits; no grant lookup must happen.
	err := authz.AuthorizeRetailDeal(db, customerID, deal, models.CapabilityAct)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizeRetailDealExplicitGrant(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzService(db)

	subjectID := uuid.New()
	deal := &models.RetailDeal{CustomerID: uuid.New()}
	deal.ID = uuid.New()

	rows := sqlmock.NewRows([]string{"id", "subject_id", "object_type", "object_id", "capability"}).
		AddRow(uuid.New().String(), subjectID.String(), string(models.ObjectTypeRetailDeal), deal.ID.String(), string(models.CapabilityAct))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deal_grants"`)).WillReturnRows(rows)

	err := authz.AuthorizeRetailDeal(db, subjectID, deal, models.CapabilityAct)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizeRetailDealDenied(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzService(db)

	deal := &models.RetailDeal{CustomerID: uuid.New()}
	deal.ID = uuid.New()

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT * FROM "deal_grants"`)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	err := authz.AuthorizeRetailDeal(db, uuid.New(), deal, models.CapabilityView)
	assert.ErrorIs(t, err, ErrAccessDenied)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizeWholesaleDealImplicitOwner(t *testing.T) {
	db, mock := newMockDB(t)
	authz := NewAuthzService(db)

	adminID := uuid.New()
	deal := &models.WholesaleDeal{
		Dealership: models.Dealership{AdminID: adminID},
	}

	err := authz.AuthorizeWholesaleDeal(db, adminID, deal, models.CapabilityView)
	assert.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestAuthorizeWholesaleCarOwnership(t *testing.T) {
	db, _ := newMockDB(t)
	authz := NewAuthzService(db)

	adminID := uuid.New()
	car := &models.WholesaleCar{Manufacturer: models.Manufacturer{AdminID: adminID}}

	assert.NoError(t, authz.AuthorizeWholesaleCar(adminID, car))
	assert.ErrorIs(t, authz.AuthorizeWholesaleCar(uuid.New(), car), ErrAccessDenied)
}
