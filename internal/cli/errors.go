package cli

// Error codes for structured error responses.
// These codes are stable and can be relied upon by agents.
const (
	// Vault errors
	ErrVaultNotFound     = "VAULT_NOT_FOUND"
	ErrVaultNotSpecified = "VAULT_NOT_SPECIFIED"
	ErrConfigInvalid     = "CONFIG_INVALID"

	// Note errors
	ErrNoteNotFound      = "NOTE_NOT_FOUND"
	ErrNoteExists        = "NOTE_EXISTS"
	ErrRefAmbiguous      = "REF_AMBIGUOUS"
	ErrMalformedNote     = "MALFORMED_FRONTMATTER"
	ErrInvalidTransition = "INVALID_TRANSITION"
	ErrFileOutsideVault  = "FILE_OUTSIDE_VAULT"
	ErrWriteConflict     = "WRITE_CONFLICT"

	// Backend errors
	ErrBackendUnavailable = "BACKEND_UNAVAILABLE"
	ErrDatabaseError      = "DATABASE_ERROR"
	ErrIndexLocked        = "INDEX_LOCKED"

	// Input errors
	ErrInvalidInput    = "INVALID_INPUT"
	ErrMissingArgument = "MISSING_ARGUMENT"

	// General errors
	ErrInternal = "INTERNAL_ERROR"
)

// Warning codes for non-fatal issues.
const (
	WarnBrokenLink      = "BROKEN_LINK"
	WarnMalformedNote   = "MALFORMED_NOTE"
	WarnBackendDegraded = "BACKEND_DEGRADED"
	WarnWriteConflict   = "WRITE_CONFLICT"
)
