package ledger

import (
	"errors"
	"fmt"
)

// RejectionKind classifies why a transaction failed validation, matching
// the error taxonomy of the core (kinds, not types).
type RejectionKind string

const (
	KindStructural   RejectionKind = "structural"
	KindTemporal     RejectionKind = "temporal"
	KindResolution   RejectionKind = "resolution"
	KindAuthorization RejectionKind = "authorization"
	KindConservation RejectionKind = "conservation"
	KindAssetRule    RejectionKind = "asset-rule"
	KindCollision    RejectionKind = "collision"
	KindParse        RejectionKind = "parse"
)

// ValidationError is the error type returned by Validate and Apply.
type ValidationError struct {
	Kind RejectionKind
	Msg  string
}

func (e *ValidationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func rejectf(kind RejectionKind, format string, args ...any) error {
	return &ValidationError{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

func newParseError(msg string) error {
	return &ValidationError{Kind: KindParse, Msg: msg}
}

// RejectionKindOf returns the RejectionKind of err if it is (or wraps) a
// *ValidationError, and ok=false otherwise.
func RejectionKindOf(err error) (RejectionKind, bool) {
	var ve *ValidationError
	if !errors.As(err, &ve) {
		return "", false
	}
	return ve.Kind, true
}
