package exceptions

import (
	"fmt"
	"questionnaire-builder/internal/pkg/constvars"
	"strings"
)

var (
	// Tree structure
	ErrInvalidParent = func(path []string) *CustomError {
		joined := "/" + strings.Join(path, "/")
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidParent, joined, constvars.ErrClientInvalidParent, fmt.Sprintf(constvars.ErrDevParentPathNotFound, joined))
	}
	ErrParentIsDisplay = func(linkID string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidParent, linkID, constvars.ErrClientInvalidParent, fmt.Sprintf(constvars.ErrDevParentIsDisplay, linkID))
	}
	ErrLinkIDEmpty = func() *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, "", constvars.ErrClientInvalidTarget, constvars.ErrDevLinkIDEmpty)
	}
	ErrLinkIDAlreadyUsed = func(linkID string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, linkID, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevLinkIDAlreadyUsed, linkID))
	}
	ErrMoveIntoOwnSubtree = func(linkID string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, linkID, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevMoveIntoOwnSubtree, linkID))
	}
	ErrIndexOutOfRange = func(linkID string, index, max int) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, linkID, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevIndexOutOfRange, index, max))
	}
	ErrDisplayWithChildren = func(linkID string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, linkID, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevDisplayWithChildren, linkID))
	}
	ErrDuplicateMapping = func(linkID string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, linkID, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevDuplicateMappingMismatch, linkID))
	}
	ErrUnknownRequest = func(request any) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, "", constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevUnknownRequest, request))
	}

	// Answer options
	ErrOptionCodeAlreadyUsed = func(linkID, code string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, linkID, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevOptionCodeAlreadyUsed, code, linkID))
	}
	ErrOptionCodeEmpty = func(linkID string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, linkID, constvars.ErrClientInvalidTarget, constvars.ErrDevOptionCodeEmpty)
	}
	ErrReorderNotPermutation = func(linkID string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, linkID, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevReorderNotPermutation, linkID))
	}

	// Value sets
	ErrValueSetIDAlreadyUsed = func(id string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, id, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevValueSetIDAlreadyUsed, id))
	}
	ErrValueSetStillReferenced = func(id, linkID string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, id, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevValueSetStillReferenced, id, linkID))
	}
	ErrValueSetNotStorable = func(id string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeInvalidTarget, id, constvars.ErrClientInvalidTarget, fmt.Sprintf(constvars.ErrDevValueSetNotStorable, id))
	}

	// Properties
	ErrPropertyNotCarried = func(linkID, property, itemType string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeTypeMismatch, linkID, constvars.ErrClientTypeMismatch, fmt.Sprintf(constvars.ErrDevPropertyNotCarried, property, itemType))
	}
	ErrPropertyWrongValue = func(linkID, property, expected string, value any) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeTypeMismatch, linkID, constvars.ErrClientTypeMismatch, fmt.Sprintf(constvars.ErrDevPropertyWrongValue, property, expected, value))
	}
	ErrInitialKindNotAllowed = func(linkID, kind, itemType string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeTypeMismatch, linkID, constvars.ErrClientTypeMismatch, fmt.Sprintf(constvars.ErrDevInitialKindNotAllowed, kind, itemType))
	}
	ErrInvalidLanguageTag = func(err error, tag string) *CustomError {
		return BuildNewCustomError(err, constvars.ErrCodeTypeMismatch, "language", constvars.ErrClientTypeMismatch, fmt.Sprintf(constvars.ErrDevInvalidLanguageTag, tag))
	}
	ErrInvalidStatus = func(status string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeTypeMismatch, "status", constvars.ErrClientTypeMismatch, fmt.Sprintf(constvars.ErrDevInvalidStatus, status))
	}

	ErrNotFound = func(kind, id string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeNotFound, id, constvars.ErrClientNotFound, fmt.Sprintf(constvars.ErrDevNotFound, kind, id))
	}

	// Wire format
	ErrDecode = func(err error, path string) *CustomError {
		return BuildNewCustomError(err, constvars.ErrCodeDecode, path, constvars.ErrClientInvalidDocument, fmt.Sprintf(constvars.ErrDevDecodeAtPath, path))
	}
	ErrEncodeValueSetCollision = func(id string) *CustomError {
		return BuildNewCustomError(nil, constvars.ErrCodeEncode, id, constvars.ErrClientCannotExport, fmt.Sprintf(constvars.ErrDevEncodeValueSetCollision, id))
	}
	ErrEncode = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.ErrCodeEncode, "", constvars.ErrClientCannotExport, constvars.ErrClientCannotExport)
	}

	ErrLoadValueSetLibrary = func(err error, path string) *CustomError {
		return BuildNewCustomError(err, constvars.ErrCodeConfig, path, constvars.ErrClientInvalidConfiguration, fmt.Sprintf(constvars.ErrDevLoadValueSetLibrary, path))
	}
)
