package constvars

// Error codes carried by exceptions.CustomError. Callers branch on these.
const (
	ErrCodeInvalidParent = "INVALID_PARENT"
	ErrCodeInvalidTarget = "INVALID_TARGET"
	ErrCodeTypeMismatch  = "TYPE_MISMATCH"
	ErrCodeNotFound      = "NOT_FOUND"
	ErrCodeDecode        = "DECODE_ERROR"
	ErrCodeEncode        = "ENCODE_ERROR"
	ErrCodeConfig        = "CONFIG_ERROR"
	ErrCodeUnknown       = "UNKNOWN"
)

const (
	ErrFileLocationUnknown = "file location unknown"
	ErrFunctionNameUnknown = "function name unknown"
)
