package ntrcard

import (
	"context"

	"github.com/moffa90/go-ntrcard/blowfish"
	"github.com/moffa90/go-ntrcard/protocol"
)

// Transport exchanges one command with the card.
//
// SendCommand clocks out cmd and then respLen response bytes. resp is
// either nil, in which case the response is discarded, or at least respLen
// bytes long. flags is the ROMCNT setup for the transfer; when it asks for
// KEY2 the transport's hardware does the stream cipher work.
type Transport interface {
	SendCommand(ctx context.Context, cmd protocol.Command, respLen int, resp []byte, flags protocol.RegisterFlags) error
}

// Capabilities describes what the host hardware can do.
type Capabilities struct {
	// HardwareKey2 reports a hardware KEY2 engine. Required for KEY1 and
	// KEY2 activation.
	HardwareKey2 bool

	// CanReset reports that the card can be power cycled from software
	CanReset bool

	// InitialStatus is the mode the card is in when the Card is created
	InitialStatus Status
}

// Platform is the host side of the card slot.
type Platform interface {
	Transport

	// Capabilities reports the platform capabilities. It must not change
	// over the life of a Card.
	Capabilities() Capabilities

	// ResetCard power cycles the card. Only called when CanReset is set.
	ResetCard(ctx context.Context) error

	// IODelay busy-waits for the given number of bus cycles.
	IODelay(cycles uint32)

	// SeedKey2 loads the initial KEY2 registers into the hardware engine.
	// Only called when HardwareKey2 is set.
	SeedKey2(x, y uint64)
}

// TableProvider loads KEY1 key material.
type TableProvider interface {
	// InitTable fills t with the table named by sel, before any key
	// schedule runs.
	InitTable(t *blowfish.Table, sel blowfish.Selector) error
}
