package constvars

// Validation messages mapper
var CustomValidationErrorMessages = map[string]string{
	"required": "is required",
	"min":      "must be at least %s",
	"max":      "must be at most %s",
	"gte":      "must be greater than or equal to %s",
	"eq":       "must be %s",
	"oneof":    "must be one of [%s]",
	"url":      "must be a valid URL",
}

// Tags that require parameter substitution
var TagsWithParams = map[string]bool{
	"min":   true,
	"max":   true,
	"gte":   true,
	"eq":    true,
	"oneof": true,
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest = "failed to process your request"
	ErrClientInvalidParent        = "the selected parent cannot hold this item"
	ErrClientInvalidTarget        = "the requested change is not allowed here"
	ErrClientTypeMismatch         = "the value does not fit this field"
	ErrClientNotFound             = "the referenced element does not exist"
	ErrClientInvalidDocument      = "the questionnaire document is not valid"
	ErrClientCannotExport         = "the questionnaire cannot be exported"
	ErrClientInvalidConfiguration = "the application is misconfigured"
)

// Error messages for developers
const (
	ErrDevInvalidInput             = "invalid input"
	ErrDevParentPathNotFound       = "parent path %s does not exist"
	ErrDevParentIsDisplay          = "item %s is a display item and cannot have children"
	ErrDevLinkIDEmpty              = "linkId must not be empty"
	ErrDevLinkIDAlreadyUsed        = "linkId %s is already used"
	ErrDevMoveIntoOwnSubtree       = "cannot move %s into its own subtree"
	ErrDevIndexOutOfRange          = "index %d out of range [0, %d]"
	ErrDevDisplayWithChildren      = "item %s has children and cannot become a display item"
	ErrDevDuplicateMappingMismatch = "new linkId mapping for %s does not cover the subtree"
	ErrDevOptionCodeAlreadyUsed    = "option code %s is already used on %s"
	ErrDevOptionCodeEmpty          = "option code must not be empty"
	ErrDevReorderNotPermutation    = "codes are not a permutation of the options on %s"
	ErrDevValueSetIDAlreadyUsed    = "value set id %s is already used"
	ErrDevValueSetStillReferenced  = "value set %s is still referenced by %s"
	ErrDevValueSetNotStorable      = "value set %s cannot be stored locally"
	ErrDevUnknownRequest           = "unknown mutation request %T"
	ErrDevPropertyNotCarried       = "property %s is not carried by %s items"
	ErrDevPropertyWrongValue       = "property %s expects %s, got %T"
	ErrDevInitialKindNotAllowed    = "initial value of kind %s is not allowed on %s items"
	ErrDevInvalidLanguageTag       = "invalid language tag %q"
	ErrDevInvalidStatus            = "invalid publication status %q"
	ErrDevNotFound                 = "%s %s not found"
	ErrDevDecodeAtPath             = "cannot decode %s"
	ErrDevEncodeValueSetCollision  = "contained id %s is used by more than one resource"
	ErrDevLoadValueSetLibrary      = "failed to load value set library from %s"
)
