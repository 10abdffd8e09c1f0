package simcard

import (
	"github.com/moffa90/go-ntrcard/blowfish"
	"github.com/moffa90/go-ntrcard/ntrcard"
)

// Option configures a simulated Card.
type Option func(*Card)

// WithCapabilities sets the capabilities reported to the host. The default
// is a platform with hardware KEY2 and reset support, starting in RAW.
func WithCapabilities(caps ntrcard.Capabilities) Option {
	return func(c *Card) {
		c.caps = caps
	}
}

// WithChipIDOverride makes the card answer chip id reads in mode with id
// instead of its real chip identifier.
func WithChipIDOverride(mode ntrcard.Status, id uint32) Option {
	return func(c *Card) {
		c.overrides[mode] = id
	}
}

// WithSelector sets the key table the card expects the host to use.
// Defaults to blowfish.KeyNTR.
func WithSelector(sel blowfish.Selector) Option {
	return func(c *Card) {
		c.selector = sel
	}
}

// WithROM sets the card contents returned by secure area and data reads.
// Reads wrap around. Defaults to the header.
func WithROM(rom []byte) Option {
	return func(c *Card) {
		c.rom = rom
	}
}

// WithResetError makes ResetCard fail with err.
func WithResetError(err error) Option {
	return func(c *Card) {
		c.resetErr = err
	}
}

// WithSendError makes every exchange fail with err once n exchanges have
// succeeded.
func WithSendError(n int, err error) Option {
	return func(c *Card) {
		c.failAfter = n
		c.sendErr = err
	}
}
