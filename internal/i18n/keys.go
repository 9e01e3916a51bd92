// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthUserExists         = "auth.user_exists"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAuthLogoutSuccess      = "auth.logout_success"
	KeyAuthRegisterSuccess    = "auth.register_success"

	// Accounts
	KeyUserNotFound    = "user.not_found"
	KeyUserSuspended   = "user.suspended"
	KeyBalanceToppedUp = "account.balance_topped_up"

	// Authorization
	KeyAccessDenied = "authz.access_denied"

	// Deals
	KeyDealProposed     = "deal.proposed"
	KeyDealAccepted     = "deal.accepted"
	KeyDealRejected     = "deal.rejected"
	KeyDealDeclined     = "deal.declined"
	KeyDealNotFound     = "deal.not_found"
	KeyDealConflict     = "deal.conflict"
	KeyDealInsufficient = "deal.insufficient_funds"

	// Inventory
	KeyCarNotFound     = "car.not_found"
	KeyCarOutOfStock   = "car.out_of_stock"
	KeyCarPriceUpdated = "car.price_updated"
	KeyCarDeleted      = "car.deleted"

	// Production
	KeyBlueprintCreated  = "blueprint.created"
	KeyBlueprintUpdated  = "blueprint.updated"
	KeyBlueprintDeleted  = "blueprint.deleted"
	KeyBlueprintNotFound = "blueprint.not_found"
	KeyOrderCompleted    = "order.completed"

	// Validation
	KeyValidationRequired = "validation.required"
	KeyValidationInvalid  = "validation.invalid"

	// File Upload
	KeyFileUploadSuccess = "file.upload_success"
	KeyFileUploadFailed  = "file.upload_failed"
	KeyFileInvalidType   = "file.invalid_type"
	KeyFileTooLarge      = "file.too_large"
)
