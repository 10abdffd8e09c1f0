package trace

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/moffa90/go-ntrcard/ntrcard"
	"github.com/moffa90/go-ntrcard/protocol"
)

// DefaultPrefix is the number of response bytes kept per command.
const DefaultPrefix = 16

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithPrefix sets how many response bytes are kept per command. Zero keeps
// none.
func WithPrefix(n int) RecorderOption {
	return func(r *Recorder) {
		if n >= 0 {
			r.prefix = n
		}
	}
}

// WithSession overrides the generated session id.
func WithSession(id string) RecorderOption {
	return func(r *Recorder) {
		r.trace.Session = id
	}
}

// Recorder is an ntrcard.Platform that records every call before passing
// it on.
type Recorder struct {
	platform ntrcard.Platform
	prefix   int

	mu    sync.Mutex
	trace Trace
}

var _ ntrcard.Platform = (*Recorder)(nil)

// NewRecorder wraps platform. Each Recorder starts a new session with a
// random id.
func NewRecorder(platform ntrcard.Platform, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		platform: platform,
		prefix:   DefaultPrefix,
		trace: Trace{
			Session: uuid.New().String(),
			Started: time.Now().UTC(),
		},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Trace returns a copy of everything recorded so far.
func (r *Recorder) Trace() *Trace {
	r.mu.Lock()
	defer r.mu.Unlock()

	t := r.trace
	t.Exchanges = append([]Exchange(nil), r.trace.Exchanges...)
	return &t
}

func (r *Recorder) add(e Exchange, err error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	e.Seq = len(r.trace.Exchanges)
	if err != nil {
		e.Err = err.Error()
	}
	r.trace.Exchanges = append(r.trace.Exchanges, e)
}

// Capabilities implements ntrcard.Platform.
func (r *Recorder) Capabilities() ntrcard.Capabilities {
	return r.platform.Capabilities()
}

// SendCommand implements ntrcard.Platform.
func (r *Recorder) SendCommand(ctx context.Context, cmd protocol.Command, respLen int, resp []byte, flags protocol.RegisterFlags) error {
	err := r.platform.SendCommand(ctx, cmd, respLen, resp, flags)

	e := Exchange{Kind: KindCommand, Command: cmd, RespLen: respLen, Flags: flags}
	if err == nil && resp != nil && r.prefix > 0 {
		n := min(respLen, len(resp), r.prefix)
		e.Response = append([]byte(nil), resp[:n]...)
	}
	r.add(e, err)
	return err
}

// ResetCard implements ntrcard.Platform.
func (r *Recorder) ResetCard(ctx context.Context) error {
	err := r.platform.ResetCard(ctx)
	r.add(Exchange{Kind: KindReset}, err)
	return err
}

// IODelay implements ntrcard.Platform.
func (r *Recorder) IODelay(cycles uint32) {
	r.platform.IODelay(cycles)
	r.add(Exchange{Kind: KindDelay, Cycles: cycles}, nil)
}

// SeedKey2 implements ntrcard.Platform.
func (r *Recorder) SeedKey2(x, y uint64) {
	r.platform.SeedKey2(x, y)
	r.add(Exchange{Kind: KindSeed, X: x, Y: y}, nil)
}
