package session

import (
	"errors"
	"fmt"

	"github.com/roach88/pakview/internal/asset"
)

// ErrorCode categorizes session errors.
type ErrorCode string

const (
	// ErrCodeLoadFailed indicates a record's Load function returned an error.
	ErrCodeLoadFailed ErrorCode = "LOAD_FAILED"

	// ErrCodeDuplicateGUID indicates a second record with an already seen GUID.
	ErrCodeDuplicateGUID ErrorCode = "DUPLICATE_GUID"

	// ErrCodeInvalidRecord indicates a record with a zero GUID or a header
	// size that breaks its type's alignment.
	ErrCodeInvalidRecord ErrorCode = "INVALID_RECORD"

	// ErrCodeNotFound indicates no loaded asset has the requested GUID.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"

	// ErrCodeUnsupported indicates the asset's type lacks the requested
	// operation.
	ErrCodeUnsupported ErrorCode = "UNSUPPORTED"

	// ErrCodeUnknownMode indicates an export mode the type does not offer.
	ErrCodeUnknownMode ErrorCode = "UNKNOWN_MODE"

	// ErrCodeExportFailed indicates the type's Export function failed.
	ErrCodeExportFailed ErrorCode = "EXPORT_FAILED"

	// ErrCodeInvalidPhase indicates an operation called out of order.
	ErrCodeInvalidPhase ErrorCode = "INVALID_PHASE"
)

// Error describes a failure tied to one asset or session phase.
type Error struct {
	Code    ErrorCode
	GUID    asset.GUID
	Type    asset.TypeTag
	Message string
	Err     error
}

func (e *Error) Error() string {
	msg := e.Message
	if e.Err != nil {
		if msg == "" {
			msg = e.Err.Error()
		} else {
			msg = msg + ": " + e.Err.Error()
		}
	}
	if e.Type != (asset.TypeTag{}) {
		return fmt.Sprintf("%s: %s (%s %s)", e.Code, msg, e.Type, e.GUID)
	}
	if !e.GUID.IsZero() {
		return fmt.Sprintf("%s: %s (guid=%s)", e.Code, msg, e.GUID)
	}
	return fmt.Sprintf("%s: %s", e.Code, msg)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// CodeOf returns the code of the first *Error in err's chain.
func CodeOf(err error) (ErrorCode, bool) {
	var se *Error
	if errors.As(err, &se) {
		return se.Code, true
	}
	return "", false
}

// IsNotFound reports whether err is a NOT_FOUND session error.
func IsNotFound(err error) bool {
	code, ok := CodeOf(err)
	return ok && code == ErrCodeNotFound
}
