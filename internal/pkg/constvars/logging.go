package constvars

const (
	LoggingOperationKey = "operation"
	LoggingVersionKey   = "version"
	LoggingDurationKey  = "duration"
	LoggingSuccessKey   = "success"
	LoggingLinkIDKey    = "link_id"
	LoggingErrorCodeKey = "error_code"
	LoggingFindingsKey  = "findings"
	LoggingItemsKey     = "items"
	LoggingPathKey      = "path"
)

const (
	LoggingOutcomeOK    = "ok"
	LoggingOutcomeError = "error"
)

const (
	LoggingValueSetKey = "value_set"
)

// Session operations that are not a single engine request.
const (
	OperationUseLibraryValueSet = "use_library_value_set"
	OperationImport             = "import"
	OperationExport             = "export"
)
