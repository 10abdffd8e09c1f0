package trace

import (
	"fmt"
	"io"
	"time"

	"github.com/fxamacker/cbor/v2"

	"github.com/moffa90/go-ntrcard/protocol"
)

// Kind is the type of a recorded exchange.
type Kind uint8

const (
	KindCommand Kind = iota + 1
	KindReset
	KindDelay
	KindSeed
)

func (k Kind) String() string {
	switch k {
	case KindCommand:
		return "command"
	case KindReset:
		return "reset"
	case KindDelay:
		return "delay"
	case KindSeed:
		return "seed"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Exchange is one recorded platform call.
type Exchange struct {
	Seq  int  `cbor:"1,keyasint"`
	Kind Kind `cbor:"2,keyasint"`

	// Command, RespLen, Flags and Response are set for KindCommand.
	// Response holds at most the recorder's prefix length.
	Command  protocol.Command       `cbor:"3,keyasint,omitempty"`
	RespLen  int                    `cbor:"4,keyasint,omitempty"`
	Flags    protocol.RegisterFlags `cbor:"5,keyasint,omitempty"`
	Response []byte                 `cbor:"6,keyasint,omitempty"`

	// Cycles is set for KindDelay
	Cycles uint32 `cbor:"7,keyasint,omitempty"`

	// X and Y are set for KindSeed
	X uint64 `cbor:"8,keyasint,omitempty"`
	Y uint64 `cbor:"9,keyasint,omitempty"`

	// Err is the error message if the call failed
	Err string `cbor:"10,keyasint,omitempty"`
}

func (e Exchange) String() string {
	var s string
	switch e.Kind {
	case KindCommand:
		s = fmt.Sprintf("#%d %s resp=%d flags=0x%08X", e.Seq, e.Command, e.RespLen, uint32(e.Flags))
	case KindDelay:
		s = fmt.Sprintf("#%d delay %d", e.Seq, e.Cycles)
	case KindSeed:
		s = fmt.Sprintf("#%d seed x=0x%010X y=0x%010X", e.Seq, e.X, e.Y)
	default:
		s = fmt.Sprintf("#%d %s", e.Seq, e.Kind)
	}
	if e.Err != "" {
		s += " error: " + e.Err
	}
	return s
}

// Trace is the record of one session.
type Trace struct {
	Session   string     `cbor:"1,keyasint"`
	Started   time.Time  `cbor:"2,keyasint"`
	Exchanges []Exchange `cbor:"3,keyasint"`
}

// Commands returns the command exchanges in order.
func (t *Trace) Commands() []Exchange {
	var out []Exchange
	for _, e := range t.Exchanges {
		if e.Kind == KindCommand {
			out = append(out, e)
		}
	}
	return out
}

// Failed returns the exchanges that returned an error.
func (t *Trace) Failed() []Exchange {
	var out []Exchange
	for _, e := range t.Exchanges {
		if e.Err != "" {
			out = append(out, e)
		}
	}
	return out
}

// encMode keeps sub-second timestamps.
var encMode = func() cbor.EncMode {
	em, err := cbor.EncOptions{Time: cbor.TimeRFC3339Nano}.EncMode()
	if err != nil {
		panic(err)
	}
	return em
}()

// Marshal encodes t as CBOR.
func (t *Trace) Marshal() ([]byte, error) {
	data, err := encMode.Marshal(t)
	if err != nil {
		return nil, fmt.Errorf("encode trace %s: %w", t.Session, err)
	}
	return data, nil
}

// Unmarshal decodes a CBOR trace.
func Unmarshal(data []byte) (*Trace, error) {
	var t Trace
	if err := cbor.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &t, nil
}

// Encode writes t to w as CBOR.
func (t *Trace) Encode(w io.Writer) error {
	if err := encMode.NewEncoder(w).Encode(t); err != nil {
		return fmt.Errorf("encode trace %s: %w", t.Session, err)
	}
	return nil
}

// Decode reads one CBOR trace from r.
func Decode(r io.Reader) (*Trace, error) {
	var t Trace
	if err := cbor.NewDecoder(r).Decode(&t); err != nil {
		return nil, fmt.Errorf("decode trace: %w", err)
	}
	return &t, nil
}
