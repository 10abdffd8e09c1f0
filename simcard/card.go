package simcard

import (
	"context"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/moffa90/go-ntrcard/blowfish"
	"github.com/moffa90/go-ntrcard/ntrcard"
	"github.com/moffa90/go-ntrcard/protocol"
)

// ErrResetUnsupported is returned by ResetCard when the simulated platform
// reports no reset support.
var ErrResetUnsupported = errors.New("simulated platform cannot reset the card")

// Received is one command as the card understood it. KEY1 commands are
// recorded after decryption.
type Received struct {
	Mode    ntrcard.Status
	Command protocol.Command
	RespLen int
	Flags   protocol.RegisterFlags
}

// Card is a simulated game card behind a simulated card slot.
type Card struct {
	caps      ntrcard.Capabilities
	chipID    uint32
	header    []byte
	gameCode  uint32
	rom       []byte
	tables    ntrcard.TableProvider
	selector  blowfish.Selector
	overrides map[ntrcard.Status]uint32

	resetErr  error
	sendErr   error
	failAfter int
	sent      int

	mode     ntrcard.Status
	table    blowfish.Table
	nextK    uint32
	desynced bool
	key2MN   uint32

	history []Received
	resets  int
	delay   uint64
	seedX   uint64
	seedY   uint64
	seeded  bool
}

// New returns a simulated card with the given chip identifier and header.
// tables must hold the table named by the selector (blowfish.KeyNTR unless
// WithSelector says otherwise).
func New(chipID uint32, header []byte, tables ntrcard.TableProvider, opts ...Option) *Card {
	c := &Card{
		caps: ntrcard.Capabilities{
			HardwareKey2:  true,
			CanReset:      true,
			InitialStatus: ntrcard.StatusRaw,
		},
		chipID:    chipID,
		header:    header,
		rom:       header,
		tables:    tables,
		selector:  blowfish.KeyNTR,
		overrides: make(map[ntrcard.Status]uint32),
		failAfter: -1,
		mode:      ntrcard.StatusRaw,
	}
	if len(header) >= protocol.HeaderGameCodeOffset+4 {
		c.gameCode = binary.LittleEndian.Uint32(header[protocol.HeaderGameCodeOffset:])
	}

	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Capabilities implements ntrcard.Platform.
func (c *Card) Capabilities() ntrcard.Capabilities {
	return c.caps
}

// ResetCard implements ntrcard.Platform. The card goes back to RAW mode.
func (c *Card) ResetCard(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !c.caps.CanReset {
		return ErrResetUnsupported
	}
	if c.resetErr != nil {
		return c.resetErr
	}

	c.resets++
	c.mode = ntrcard.StatusRaw
	c.desynced = false
	c.seeded = false
	return nil
}

// IODelay implements ntrcard.Platform by adding up the requested cycles.
func (c *Card) IODelay(cycles uint32) {
	c.delay += uint64(cycles)
}

// SeedKey2 implements ntrcard.Platform by recording the registers.
func (c *Card) SeedKey2(x, y uint64) {
	c.seedX, c.seedY = x, y
	c.seeded = true
}

// SendCommand implements ntrcard.Platform.
func (c *Card) SendCommand(ctx context.Context, cmd protocol.Command, respLen int, resp []byte, flags protocol.RegisterFlags) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if resp != nil && len(resp) < respLen {
		return fmt.Errorf("response buffer too small: %d < %d", len(resp), respLen)
	}
	if c.failAfter >= 0 && c.sent >= c.failAfter {
		return c.sendErr
	}
	c.sent++

	out := make([]byte, respLen)
	for i := range out {
		out[i] = 0xFF
	}

	var err error
	switch c.mode {
	case ntrcard.StatusRaw:
		err = c.handleRaw(cmd, respLen, flags, out)
	case ntrcard.StatusKey1:
		c.handleKey1(cmd, respLen, flags, out)
	case ntrcard.StatusKey2:
		c.handleKey2(cmd, respLen, flags, out)
	}
	if err != nil {
		return err
	}

	if resp != nil {
		copy(resp, out)
	}
	return nil
}

func (c *Card) record(cmd protocol.Command, respLen int, flags protocol.RegisterFlags) {
	c.history = append(c.history, Received{Mode: c.mode, Command: cmd, RespLen: respLen, Flags: flags})
}

func (c *Card) handleRaw(cmd protocol.Command, respLen int, flags protocol.RegisterFlags, out []byte) error {
	c.record(cmd, respLen, flags)

	switch cmd.Opcode() {
	case protocol.CmdRawDummy:
	case protocol.CmdRawChipID:
		c.putChipID(ntrcard.StatusRaw, out)
	case protocol.CmdRawHeaderRead:
		copy(out, c.header)
	case protocol.CmdRawActivateKey1:
		k := uint32(cmd[4]&0xF)<<16 | uint32(cmd[5])<<8 | uint32(cmd[6])
		if c.tables == nil {
			return errors.New("simulated card: no key tables")
		}
		if err := c.tables.InitTable(&c.table, c.selector); err != nil {
			return fmt.Errorf("simulated card: %w", err)
		}
		if c.selector.Derived() {
			c.table.Derive(c.gameCode)
		}
		c.nextK = k
		c.mode = ntrcard.StatusKey1
	}
	return nil
}

func (c *Card) handleKey1(cmd protocol.Command, respLen int, flags protocol.RegisterFlags, out []byte) {
	plain := protocol.DecryptKey1(&c.table, cmd)
	c.record(plain, respLen, flags)

	op, arg, ij, k := protocol.DecodeKey1(plain)
	if c.desynced || k != c.nextK {
		c.desynced = true
		return
	}
	c.nextK++

	switch op {
	case protocol.CmdKey1InitKey2:
		c.key2MN = ij
	case protocol.CmdKey1ChipID:
		c.putChipID(ntrcard.StatusKey1, out)
	case protocol.CmdKey1SecureRead:
		c.putROM(uint32(arg)<<12, out)
	case protocol.CmdKey1ActivateKey2:
		c.mode = ntrcard.StatusKey2
	}
}

func (c *Card) handleKey2(cmd protocol.Command, respLen int, flags protocol.RegisterFlags, out []byte) {
	c.record(cmd, respLen, flags)

	// Without both directions encrypted the card sees noise and the host
	// cannot read the answer.
	if !flags.Key2Command() || !flags.Key2Response() || !c.seeded {
		return
	}

	switch cmd.Opcode() {
	case protocol.CmdKey2ChipID:
		c.putChipID(ntrcard.StatusKey2, out)
	case protocol.CmdKey2DataRead:
		c.putROM(binary.BigEndian.Uint32(cmd[1:5]), out)
	}
}

func (c *Card) putChipID(mode ntrcard.Status, out []byte) {
	id := c.chipID
	if v, ok := c.overrides[mode]; ok {
		id = v
	}
	var b [protocol.ChipIDSize]byte
	binary.LittleEndian.PutUint32(b[:], id)
	copy(out, b[:])
}

func (c *Card) putROM(addr uint32, out []byte) {
	if len(c.rom) == 0 {
		return
	}
	for i := range out {
		out[i] = c.rom[(int(addr)+i)%len(c.rom)]
	}
}

// Mode returns the mode the card is actually in.
func (c *Card) Mode() ntrcard.Status {
	return c.mode
}

// Desynced reports whether a KEY1 command arrived with an unexpected
// counter value since the last reset.
func (c *Card) Desynced() bool {
	return c.desynced
}

// NextK returns the KEY1 counter value the card expects next.
func (c *Card) NextK() uint32 {
	return c.nextK
}

// Key2MN returns the mn value received with the KEY2 seed command.
func (c *Card) Key2MN() uint32 {
	return c.key2MN
}

// History returns every command received since the card was created.
func (c *Card) History() []Received {
	return append([]Received(nil), c.history...)
}

// Resets returns the number of successful resets.
func (c *Card) Resets() int {
	return c.resets
}

// DelayCycles returns the total of all IODelay calls.
func (c *Card) DelayCycles() uint64 {
	return c.delay
}

// Key2Seed returns the registers passed to SeedKey2.
func (c *Card) Key2Seed() (x, y uint64, ok bool) {
	return c.seedX, c.seedY, c.seeded
}
