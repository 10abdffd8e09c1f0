package ntrcard

import (
	"context"
	"fmt"

	"github.com/moffa90/go-ntrcard/blowfish"
	"github.com/moffa90/go-ntrcard/protocol"
)

// Card drives the handshake that takes a game card from RAW to KEY1 to KEY2
// mode and tracks the session state on the host side.
//
// Card is not safe for concurrent use. Exactly one goroutine may drive a
// Card at a time; every operation blocks until the platform finishes the
// exchange.
type Card struct {
	platform Platform
	tables   TableProvider
	config   Config
	state    State
}

// New creates a Card talking through platform. tables provides the KEY1
// key material and may be nil if the card never leaves RAW mode.
//
// The initial status is taken from the platform capabilities.
//
// Example:
//
//	card := ntrcard.New(slot, keys)
//	if err := card.Init(ctx); err != nil {
//	    return err
//	}
//	if err := card.InitKey1(ctx, blowfish.KeyNTR); err != nil {
//	    return err
//	}
//	if err := card.InitKey2(ctx); err != nil {
//	    return err
//	}
func New(platform Platform, tables TableProvider, opts ...Option) *Card {
	if platform == nil {
		panic("platform cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Card{
		platform: platform,
		tables:   tables,
		config:   cfg,
		state:    State{Status: platform.Capabilities().InitialStatus},
	}
}

// Status returns the current card status.
func (c *Card) Status() Status {
	return c.state.Status
}

// ChipID returns the chip identifier read by the last Init.
func (c *Card) ChipID() uint32 {
	return c.state.ChipID
}

// State returns a copy of the session state.
func (c *Card) State() State {
	return c.state
}

// Init resets the card if the platform can, wakes up the bus and reads the
// chip identifier and header in RAW mode.
//
// Without reset support Init refuses to run once encryption is on, since
// the card cannot be brought back to RAW mode without a power cycle.
func (c *Card) Init(ctx context.Context) error {
	const op = "init"

	if c.platform.Capabilities().CanReset {
		if err := c.platform.ResetCard(ctx); err != nil {
			c.logError("card reset failed", "status", c.state.Status, "error", err)
			return &ResetError{Cause: err}
		}
		c.setStatus(op, StatusRaw)
	} else if c.state.Status > StatusRaw {
		c.logError("re-init after encryption was enabled on a platform without reset",
			"status", c.state.Status)
		return &StatusError{Operation: op, Want: StatusRaw, Have: c.state.Status, Cause: ErrUnsafeReinit}
	}

	dummy := protocol.RawCommand(protocol.CmdRawDummy)
	if err := c.send(ctx, "dummy read", dummy, protocol.DummyReadSize, nil, protocol.RawReadFlags); err != nil {
		return err
	}

	c.platform.IODelay(c.config.BootDelay)

	var id [protocol.ChipIDSize]byte
	if err := c.send(ctx, "chip id read", protocol.RawCommand(protocol.CmdRawChipID), len(id), id[:], protocol.RawReadFlags); err != nil {
		return err
	}
	chipID, err := protocol.ParseChipID(id[:])
	if err != nil {
		return err
	}

	hdr := make([]byte, protocol.HeaderSize)
	if err := c.send(ctx, "header read", protocol.RawCommand(protocol.CmdRawHeaderRead), len(hdr), hdr, protocol.RawReadFlags); err != nil {
		return err
	}
	header, err := protocol.ParseHeader(hdr)
	if err != nil {
		return err
	}

	c.state.ChipID = chipID
	c.state.applyHeader(header)

	c.logDebug("card init",
		"chip_id", fmt.Sprintf("0x%08X", c.state.ChipID),
		"game_code", fmt.Sprintf("0x%08X", c.state.GameCode),
		"title", c.state.Title,
		"hdr_key1_romcnt", fmt.Sprintf("0x%08X", uint32(c.state.HeaderKey1ROMCNT)),
		"hdr_key2_romcnt", fmt.Sprintf("0x%08X", uint32(c.state.HeaderKey2ROMCNT)),
		"key2_seed", fmt.Sprintf("0x%X", c.state.Key2Seed),
	)

	return nil
}

// InitKey1 switches the card from RAW to KEY1 mode using the key material
// named by sel, seeds the KEY2 engine and checks the KEY1 chip identifier
// against the RAW one.
//
// A chip identifier mismatch, or a transport failure once the activation
// command has been sent, leaves the card in StatusUnknown.
func (c *Card) InitKey1(ctx context.Context, sel blowfish.Selector) error {
	const op = "init key1"

	if !c.platform.Capabilities().HardwareKey2 {
		c.logError("KEY1 init needs hardware KEY2 support")
		return fmt.Errorf("%s: %w", op, ErrNoHardwareKey2)
	}

	if c.state.Status != StatusRaw {
		c.logError("KEY1 init from wrong status", "status", c.state.Status)
		return &StatusError{Operation: op, Want: StatusRaw, Have: c.state.Status}
	}

	if c.tables == nil {
		c.logError("KEY1 init without a table provider")
		return fmt.Errorf("%s: %w", op, ErrNoTableProvider)
	}

	var table blowfish.Table
	if err := c.tables.InitTable(&table, sel); err != nil {
		c.logError("loading KEY1 table failed", "selector", sel, "error", err)
		return fmt.Errorf("%s: load %s table: %w", op, sel, err)
	}

	st := &c.state
	st.Key2MN = protocol.Key2MN
	st.IJ = protocol.Key1InitialIJ
	st.K = protocol.Key1InitialK
	st.L = protocol.Key1InitialL
	st.Key1Key = [3]uint32{}
	if sel.Derived() {
		st.Key1Key = table.Derive(st.GameCode)
	}
	st.Key1Table = table

	activate := protocol.BuildActivateKey1(st.IJ, st.K)
	activateFlags := st.Key2ROMCNT & (protocol.FlagSlowClock | protocol.PostDelayMask | protocol.PreDelayMask)
	if err := c.send(ctx, "activate key1", activate, 0, nil, activateFlags); err != nil {
		return c.desync(op, err)
	}

	hdr1 := st.HeaderKey1ROMCNT
	st.Key1ROMCNT = (st.Key2ROMCNT & protocol.FlagSlowClock) |
		((hdr1 & (protocol.FlagSlowClock | protocol.PreDelayMask)) + ((hdr1 & protocol.PostDelayMask) >> 16)) |
		protocol.FlagLargeSecureArea

	if err := c.key1Command(ctx, "init key2 seed", protocol.CmdKey1InitKey2, 0, nil, st.L, st.Key2MN, st.Key1ROMCNT); err != nil {
		return c.desync(op, err)
	}

	c.seedKey2()
	st.Key1ROMCNT |= protocol.FlagSecurityEnable | protocol.FlagKey2Data

	var id [protocol.ChipIDSize]byte
	if err := c.key1Command(ctx, "key1 chip id read", protocol.CmdKey1ChipID, len(id), id[:], st.L, st.IJ, st.Key1ROMCNT); err != nil {
		return c.desync(op, err)
	}
	st.Key1ChipID, _ = protocol.ParseChipID(id[:])

	if st.Key1ChipID != st.ChipID {
		c.logError("KEY1 init failed: chip id mismatch",
			"raw_chip_id", fmt.Sprintf("0x%08X", st.ChipID),
			"key1_chip_id", fmt.Sprintf("0x%08X", st.Key1ChipID),
		)
		c.setStatus(op, StatusUnknown)
		return &ChipIDMismatchError{Mode: StatusKey1, Expected: st.ChipID, Actual: st.Key1ChipID}
	}

	c.setStatus(op, StatusKey1)
	c.logInfo("card in KEY1 mode", "selector", sel, "chip_id", fmt.Sprintf("0x%08X", st.ChipID))
	return nil
}

// InitKey2 switches the card from KEY1 to KEY2 mode and checks the KEY2
// chip identifier against the RAW one.
//
// A chip identifier mismatch, or a transport failure once the activation
// command has been sent, leaves the card in StatusUnknown.
func (c *Card) InitKey2(ctx context.Context) error {
	const op = "init key2"

	if !c.platform.Capabilities().HardwareKey2 {
		c.logError("KEY2 init needs hardware KEY2 support")
		return fmt.Errorf("%s: %w", op, ErrNoHardwareKey2)
	}

	if c.state.Status != StatusKey1 {
		c.logError("KEY2 init from wrong status", "status", c.state.Status)
		return &StatusError{Operation: op, Want: StatusKey1, Have: c.state.Status}
	}

	st := &c.state
	if err := c.key1Command(ctx, "activate key2", protocol.CmdKey1ActivateKey2, 0, nil, st.L, st.IJ, st.Key1ROMCNT); err != nil {
		return c.desync(op, err)
	}

	st.Key2ROMCNT = st.HeaderKey2ROMCNT &
		(protocol.FlagSlowClock | protocol.FlagKey2Command | protocol.PostDelayMask |
			protocol.FlagSecurityEnable | protocol.FlagKey2Data | protocol.PreDelayMask)

	var id [protocol.ChipIDSize]byte
	flags := st.Key2ROMCNT.WithKey2Command(true).WithKey2Response(true)
	if err := c.send(ctx, "key2 chip id read", protocol.BuildKey2ChipID(), len(id), id[:], flags); err != nil {
		return c.desync(op, err)
	}
	st.Key2ChipID, _ = protocol.ParseChipID(id[:])

	if st.Key2ChipID != st.ChipID {
		c.logError("KEY2 init failed: chip id mismatch",
			"raw_chip_id", fmt.Sprintf("0x%08X", st.ChipID),
			"key2_chip_id", fmt.Sprintf("0x%08X", st.Key2ChipID),
		)
		c.setStatus(op, StatusUnknown)
		return &ChipIDMismatchError{Mode: StatusKey2, Expected: st.ChipID, Actual: st.Key2ChipID}
	}

	c.setStatus(op, StatusKey2)
	c.logInfo("card in KEY2 mode", "chip_id", fmt.Sprintf("0x%08X", st.ChipID))
	return nil
}

// SendCommand sends a command through the generic send path. In KEY2 mode
// command and response encryption are forced on whatever flags says.
func (c *Card) SendCommand(ctx context.Context, cmd protocol.Command, respLen int, resp []byte, flags protocol.RegisterFlags) error {
	if resp != nil && len(resp) < respLen {
		return &protocol.ResponseLengthError{Operation: "send command", Want: respLen, Got: len(resp)}
	}
	if c.state.Status == StatusKey2 {
		flags = flags.WithKey2Command(true).WithKey2Response(true)
	}
	return c.platform.SendCommand(ctx, cmd, respLen, resp, flags)
}

// ReadSecureArea reads one 4KiB secure area block in KEY1 mode. Each call
// consumes one KEY1 counter value.
func (c *Card) ReadSecureArea(ctx context.Context, block uint16, dst []byte) error {
	const op = "secure area read"

	if c.state.Status != StatusKey1 {
		return &StatusError{Operation: op, Want: StatusKey1, Have: c.state.Status}
	}
	if len(dst) < protocol.SecureAreaBlockSize {
		return &protocol.ResponseLengthError{Operation: op, Want: protocol.SecureAreaBlockSize, Got: len(dst)}
	}

	st := &c.state
	return c.key1Command(ctx, op, protocol.CmdKey1SecureRead, protocol.SecureAreaBlockSize, dst[:protocol.SecureAreaBlockSize], block, st.IJ, st.Key1ROMCNT)
}

// ReadData reads one 512-byte page at addr in KEY2 mode.
func (c *Card) ReadData(ctx context.Context, addr uint32, dst []byte) error {
	const op = "data read"

	if c.state.Status != StatusKey2 {
		return &StatusError{Operation: op, Want: StatusKey2, Have: c.state.Status}
	}
	if len(dst) < protocol.DataPageSize {
		return &protocol.ResponseLengthError{Operation: op, Want: protocol.DataPageSize, Got: len(dst)}
	}

	return c.send(ctx, op, protocol.BuildKey2DataRead(addr), protocol.DataPageSize, dst[:protocol.DataPageSize], c.state.Key2ROMCNT)
}

// key1Command encrypts and sends a KEY1 command, consuming one counter
// value.
func (c *Card) key1Command(ctx context.Context, op string, cmd byte, respLen int, resp []byte, arg uint16, ij uint32, flags protocol.RegisterFlags) error {
	k := c.state.K
	c.state.K++

	plain := protocol.EncodeKey1(cmd, arg, ij, k)
	c.logDebug("sending KEY1 command", "operation", op, "plaintext", plain.String(), "k", fmt.Sprintf("0x%05X", k))

	return c.send(ctx, op, protocol.EncryptKey1(&c.state.Key1Table, plain), respLen, resp, flags)
}

// send wraps SendCommand errors with the handshake step.
func (c *Card) send(ctx context.Context, op string, cmd protocol.Command, respLen int, resp []byte, flags protocol.RegisterFlags) error {
	if err := c.SendCommand(ctx, cmd, respLen, resp, flags); err != nil {
		c.logError("exchange failed", "operation", op, "command", cmd.String(), "flags", flags, "status", c.state.Status, "error", err)
		return &TransportError{Operation: op, Status: c.state.Status, Cause: err}
	}
	return nil
}

// desync marks the card unknown after a failure past the point where the
// card may have changed mode.
func (c *Card) desync(op string, err error) error {
	c.setStatus(op, StatusUnknown)
	if te, ok := err.(*TransportError); ok {
		te.Status = StatusUnknown
	}
	return fmt.Errorf("%s: %w", op, err)
}

func (c *Card) seedKey2() {
	st := &c.state
	st.Key2X, st.Key2Y = protocol.Key2SeedRegisters(st.Key2Seed, st.Key2MN)
	c.logDebug("seeding KEY2", "x", fmt.Sprintf("0x%010X", st.Key2X), "y", fmt.Sprintf("0x%010X", st.Key2Y))
	c.platform.SeedKey2(st.Key2X, st.Key2Y)
}

func (c *Card) setStatus(op string, to Status) {
	from := c.state.Status
	c.state.Status = to
	if from != to && c.config.TransitionCallback != nil {
		c.config.TransitionCallback(Transition{Operation: op, From: from, To: to})
	}
}

// logDebug logs a debug message if a logger is configured.
func (c *Card) logDebug(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (c *Card) logInfo(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Info(msg, keysAndValues...)
	}
}

// logError logs an error message if a logger is configured.
func (c *Card) logError(msg string, keysAndValues ...interface{}) {
	if c.config.Logger != nil {
		c.config.Logger.Error(msg, keysAndValues...)
	}
}
