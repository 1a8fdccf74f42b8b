package exceptions

import (
	"fmt"
	"questionnaire-builder/internal/pkg/constvars"
	"runtime"
)

type CustomError struct {
	Code          string   `json:"code"`
	Target        string   `json:"target,omitempty"`
	ClientMessage string   `json:"message"`
	DevMessage    string   `json:"-"`
	Location      Location `json:"-"`
	cause         error
}

type Location struct {
	File         string
	Line         int
	FunctionName string
}

// Sentinels for errors.Is. Any CustomError with the same Code matches.
var (
	InvalidParent = &CustomError{Code: constvars.ErrCodeInvalidParent}
	InvalidTarget = &CustomError{Code: constvars.ErrCodeInvalidTarget}
	TypeMismatch  = &CustomError{Code: constvars.ErrCodeTypeMismatch}
	NotFound      = &CustomError{Code: constvars.ErrCodeNotFound}
	DecodeFailure = &CustomError{Code: constvars.ErrCodeDecode}
	EncodeFailure = &CustomError{Code: constvars.ErrCodeEncode}
	ConfigFailure = &CustomError{Code: constvars.ErrCodeConfig}
)

func (e *CustomError) Error() string {
	return fmt.Sprintf("%s: %s (%s:%d %s)", e.Code, e.DevMessage, e.Location.File, e.Location.Line, e.Location.FunctionName)
}

func (e *CustomError) Is(target error) bool {
	t, ok := target.(*CustomError)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func (e *CustomError) Unwrap() error {
	return e.cause
}

// BuildNewCustomError records the location of the caller of the factory that
// invoked it.
func BuildNewCustomError(err error, code, target, clientMessage, devMessage string) *CustomError {
	customErr := &CustomError{
		Code:          code,
		Target:        target,
		ClientMessage: clientMessage,
		DevMessage:    devMessage,
		Location:      getLocation(3),
		cause:         err,
	}
	if err != nil {
		customErr.DevMessage = fmt.Sprintf("%s: %s", devMessage, err.Error())
	}
	return customErr
}

func getLocation(skip int) Location {
	pc, file, line, ok := runtime.Caller(skip)
	if !ok {
		return Location{
			File:         constvars.ErrFileLocationUnknown,
			Line:         0,
			FunctionName: constvars.ErrFunctionNameUnknown,
		}
	}
	function := runtime.FuncForPC(pc).Name()
	return Location{
		File:         file,
		Line:         line,
		FunctionName: function,
	}
}
