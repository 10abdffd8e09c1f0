package ntrcard

import "github.com/moffa90/go-ntrcard/protocol"

// Config holds the Card configuration.
type Config struct {
	// Logger is used for logging operations. Defaults to the logrus
	// standard logger.
	Logger Logger

	// TransitionCallback is called after every status change (optional)
	TransitionCallback TransitionCallback

	// BootDelay is the delay in bus cycles between the wake-up dummy read
	// and the chip id read
	BootDelay uint32
}

// defaultConfig returns the default configuration.
func defaultConfig() Config {
	return Config{
		Logger:    defaultLogger(),
		BootDelay: protocol.BootDelayCycles,
	}
}

// Option is a functional option for configuring the Card.
type Option func(*Config)

// WithLogger sets the logger. A nil logger disables logging.
//
// Example:
//
//	card := ntrcard.New(slot, keys,
//	    ntrcard.WithLogger(ntrcard.NewLogrusLogger(logrus.WithField("slot", 1))),
//	)
func WithLogger(logger Logger) Option {
	return func(c *Config) {
		c.Logger = logger
	}
}

// WithTransitionCallback sets a callback invoked after every status change.
//
// Example:
//
//	card := ntrcard.New(slot, keys,
//	    ntrcard.WithTransitionCallback(func(t ntrcard.Transition) {
//	        fmt.Printf("%s: %s -> %s\n", t.Operation, t.From, t.To)
//	    }),
//	)
func WithTransitionCallback(callback TransitionCallback) Option {
	return func(c *Config) {
		c.TransitionCallback = callback
	}
}

// WithBootDelay overrides the wake-up delay in bus cycles.
func WithBootDelay(cycles uint32) Option {
	return func(c *Config) {
		c.BootDelay = cycles
	}
}
