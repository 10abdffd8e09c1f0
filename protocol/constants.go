package protocol

// Raw mode command opcodes. These go out unencrypted, opcode in byte 0.
const (
	// CmdRawDummy clocks dummy bytes to wake up the cartridge
	CmdRawDummy = 0x9F

	// CmdRawHeaderRead reads the cartridge header
	CmdRawHeaderRead = 0x00

	// CmdRawChipID reads the 4-byte chip identifier
	CmdRawChipID = 0x90

	// CmdRawActivateKey1 switches the cartridge into KEY1 mode
	CmdRawActivateKey1 = 0x3C
)

// KEY1 mode command selectors (4 bits, encrypted).
const (
	// CmdKey1InitKey2 seeds the cartridge side of the KEY2 stream cipher
	CmdKey1InitKey2 = 0x4

	// CmdKey1ChipID reads the chip identifier in KEY1 mode
	CmdKey1ChipID = 0x1

	// CmdKey1SecureRead reads a 4KiB block of the secure area
	CmdKey1SecureRead = 0x2

	// CmdKey1ActivateKey2 switches the cartridge into KEY2 mode
	CmdKey1ActivateKey2 = 0xA
)

// KEY2 mode command opcodes.
const (
	// CmdKey2DataRead reads a 512-byte page
	CmdKey2DataRead = 0xB7

	// CmdKey2ChipID reads the chip identifier in KEY2 mode
	CmdKey2ChipID = 0xB8
)

// Transfer sizes in bytes.
const (
	// DummyReadSize is the length of the wake-up dummy read
	DummyReadSize = 0x2000

	// HeaderSize is the length of a header read
	HeaderSize = 0x1000

	// ChipIDSize is the length of a chip identifier
	ChipIDSize = 4

	// SecureAreaBlockSize is the length of one KEY1 secure area read
	SecureAreaBlockSize = 0x1000

	// DataPageSize is the length of one KEY2 data read
	DataPageSize = 0x200

	// CommandSize is the length of a command word on the bus
	CommandSize = 8
)

// Header field offsets.
const (
	HeaderTitleOffset      = 0x00
	HeaderTitleSize        = 12
	HeaderGameCodeOffset   = 0x0C
	HeaderKey2SeedOffset   = 0x13
	HeaderKey2ROMCNTOffset = 0x60
	HeaderKey1ROMCNTOffset = 0x64

	// HeaderMinSize is the shortest buffer ParseHeader accepts
	HeaderMinSize = HeaderKey1ROMCNTOffset + 4
)

// KEY1 handshake constants loaded by the host before activation.
const (
	// Key1InitialIJ is the fixed ij value sent with every KEY1 command
	Key1InitialIJ = 0x11A473

	// Key1InitialK is the starting value of the KEY1 command counter
	Key1InitialK = 0x39D46

	// Key1InitialL is the l argument sent with KEY1 commands
	Key1InitialL = 0

	// Key2MN is the KEY2 seed constant sent with CmdKey1InitKey2
	Key2MN = 0xC99ACE

	// Key2InitialY is the fixed initial value of the KEY2 Y register
	Key2InitialY = 0x5C879B9B05
)

// BootDelayCycles is the delay between the wake-up dummy read and the first
// real command.
const BootDelayCycles = 0x40000

// RawReadFlags is the transfer setup for every RAW mode read.
var RawReadFlags = RegisterFlags(0).WithSlowClock(true).WithPostDelay(0x18)

// key2SeedBytes is indexed by the low three bits of the header seed byte.
var key2SeedBytes = [8]byte{0xE8, 0x4D, 0x5A, 0xB1, 0x17, 0x8F, 0x99, 0xD5}
