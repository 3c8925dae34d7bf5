// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Products
	KeyProductCreated  = "product.created"
	KeyProductUpdated  = "product.updated"
	KeyProductDeleted  = "product.deleted"
	KeyProductNotFound = "product.not_found"

	// Validation
	KeyValidationInvalid = "validation.invalid"

	// File Upload
	KeyFileUploadFailed = "file.upload_failed"
	KeyFileRejected     = "file.rejected"

	// Store
	KeyStoreFailed = "store.failed"

	// HiDrive
	KeyHiDriveMissingCode    = "hidrive.missing_code"
	KeyHiDriveInvalidState   = "hidrive.invalid_state"
	KeyHiDriveNotConfigured  = "hidrive.not_configured"
	KeyHiDriveExchangeFailed = "hidrive.exchange_failed"
	KeyHiDriveAuthenticated  = "hidrive.authenticated"

	// General
	KeyInternalError     = "error.internal"
	KeyRateLimitExceeded = "error.rate_limited"
)
