package ntrcard

import (
	"errors"
	"fmt"
)

var (
	// ErrNoHardwareKey2 is returned by InitKey1 and InitKey2 on platforms
	// without a KEY2 engine.
	ErrNoHardwareKey2 = errors.New("platform has no hardware KEY2 support")

	// ErrUnsafeReinit is returned by Init when encryption is already on and
	// the platform cannot reset the card.
	ErrUnsafeReinit = errors.New("cannot re-init an encrypted card without a reset")

	// ErrNoTableProvider is returned by InitKey1 when the Card was created
	// without a TableProvider.
	ErrNoTableProvider = errors.New("no KEY1 table provider")
)

// StatusError indicates an operation was called in the wrong card status.
// The card state is unchanged.
type StatusError struct {
	Operation string
	Want      Status
	Have      Status

	// Cause is set when a more specific reason exists
	Cause error
}

func (e *StatusError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v (status %s)", e.Operation, e.Cause, e.Have)
	}
	return fmt.Sprintf("%s: card status is %s, need %s", e.Operation, e.Have, e.Want)
}

func (e *StatusError) Unwrap() error {
	return e.Cause
}

// ChipIDMismatchError indicates the chip identifier read after an activation
// differs from the one read in RAW mode. The card is left in StatusUnknown.
type ChipIDMismatchError struct {
	Mode     Status
	Expected uint32
	Actual   uint32
}

func (e *ChipIDMismatchError) Error() string {
	return fmt.Sprintf("%s chip id mismatch: raw chip id 0x%08X, %s chip id 0x%08X",
		e.Mode, e.Expected, e.Mode, e.Actual)
}

// ResetError indicates the platform failed to reset the card.
type ResetError struct {
	Cause error
}

func (e *ResetError) Error() string {
	return fmt.Sprintf("card reset failed: %v", e.Cause)
}

func (e *ResetError) Unwrap() error {
	return e.Cause
}

// TransportError wraps a failed exchange.
type TransportError struct {
	// Operation is the handshake step that was sending
	Operation string

	// Status is the card status after the failure
	Status Status

	Cause error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("%s: transport failed (status %s): %v", e.Operation, e.Status, e.Cause)
}

func (e *TransportError) Unwrap() error {
	return e.Cause
}

// IsDesync reports whether err left the card in an unknown mode, so that
// only a reset and a new Init can recover.
func IsDesync(err error) bool {
	var mismatch *ChipIDMismatchError
	if errors.As(err, &mismatch) {
		return true
	}
	var transport *TransportError
	return errors.As(err, &transport) && transport.Status == StatusUnknown
}
