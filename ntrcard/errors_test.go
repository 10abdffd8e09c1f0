package ntrcard

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"testing"
)

func TestChipIDMismatchError(t *testing.T) {
	err := &ChipIDMismatchError{
		Mode:     StatusKey1,
		Expected: 0x12345678,
		Actual:   0x87654321,
	}

	errMsg := err.Error()

	if !strings.Contains(errMsg, "key1 chip id mismatch") {
		t.Errorf("error message should contain the mode, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x12345678") {
		t.Errorf("error message should contain expected ID, got: %s", errMsg)
	}

	if !strings.Contains(errMsg, "0x87654321") {
		t.Errorf("error message should contain actual ID, got: %s", errMsg)
	}
}

func TestStatusError(t *testing.T) {
	tests := []struct {
		name    string
		err     *StatusError
		wantMsg string
		wantIs  error
	}{
		{
			name:    "wrong status",
			err:     &StatusError{Operation: "init key2", Want: StatusKey1, Have: StatusRaw},
			wantMsg: "init key2: card status is raw, need key1",
		},
		{
			name:    "with cause",
			err:     &StatusError{Operation: "init", Want: StatusRaw, Have: StatusKey2, Cause: ErrUnsafeReinit},
			wantMsg: "cannot re-init an encrypted card",
			wantIs:  ErrUnsafeReinit,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errMsg := tt.err.Error()
			if !strings.Contains(errMsg, tt.wantMsg) {
				t.Errorf("error message should contain %q, got: %s", tt.wantMsg, errMsg)
			}
			if tt.wantIs != nil && !errors.Is(tt.err, tt.wantIs) {
				t.Errorf("errors.Is(%v, %v) = false", tt.err, tt.wantIs)
			}
		})
	}
}

func TestResetError(t *testing.T) {
	err := &ResetError{Cause: io.ErrClosedPipe}

	if !strings.Contains(err.Error(), "card reset failed") {
		t.Errorf("unexpected message: %s", err.Error())
	}
	if !errors.Is(err, io.ErrClosedPipe) {
		t.Error("ResetError should unwrap to its cause")
	}
}

func TestTransportError(t *testing.T) {
	err := &TransportError{Operation: "header read", Status: StatusRaw, Cause: io.ErrUnexpectedEOF}

	errMsg := err.Error()
	if !strings.Contains(errMsg, "header read") || !strings.Contains(errMsg, "status raw") {
		t.Errorf("unexpected message: %s", errMsg)
	}
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Error("TransportError should unwrap to its cause")
	}
}

func TestIsDesync(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"plain", io.EOF, false},
		{"status error", &StatusError{Operation: "init key1", Want: StatusRaw, Have: StatusKey1}, false},
		{"transport before activation", &TransportError{Operation: "header read", Status: StatusRaw, Cause: io.EOF}, false},
		{"transport after activation", &TransportError{Operation: "activate key1", Status: StatusUnknown, Cause: io.EOF}, true},
		{"mismatch", &ChipIDMismatchError{Mode: StatusKey2}, true},
		{"wrapped mismatch", fmt.Errorf("init key2: %w", &ChipIDMismatchError{Mode: StatusKey2}), true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDesync(tt.err); got != tt.want {
				t.Errorf("IsDesync() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestErrorTypes(t *testing.T) {
	// Test that all error types implement error interface
	var _ error = &StatusError{}
	var _ error = &ChipIDMismatchError{}
	var _ error = &ResetError{}
	var _ error = &TransportError{}
}
