package roles

import (
	"runtime"

	"github.com/troupehq/troupe/internal"
)

// DefaultStackSize caps the captured stack trace at 4KB.
const DefaultStackSize = 4096

// RecoverConfig configures the Recover role.
type RecoverConfig struct {
	StackSize         int
	DisablePrintStack bool
}

// RecoverOption configures RecoverConfig.
type RecoverOption func(*RecoverConfig)

// WithRecoverStackSize caps the captured stack trace at size bytes.
func WithRecoverStackSize(size int) RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.StackSize = size
	}
}

// WithRecoverDisablePrintStack skips stack capture entirely. The panic value
// is still logged and wrapped.
func WithRecoverDisablePrintStack() RecoverOption {
	return func(cfg *RecoverConfig) {
		cfg.DisablePrintStack = true
	}
}

// Recover converts a panicking handler into a returned *PanicError, logging
// the panic with its stack. The app's error handler then renders it as a
// plain 500; the panic value never reaches the client.
func Recover(opts ...RecoverOption) internal.Role {
	cfg := &RecoverConfig{StackSize: DefaultStackSize}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next internal.HandlerFunc) internal.HandlerFunc {
		return func(c internal.Context) (err error) {
			defer func() {
				r := recover()
				if r == nil {
					return
				}

				var stack []byte
				attrs := []any{"panic", r}
				if !cfg.DisablePrintStack {
					stack = make([]byte, cfg.StackSize)
					stack = stack[:runtime.Stack(stack, false)]
					attrs = append(attrs, "stack", string(stack))
				}
				c.LogError("panic recovered", attrs...)

				err = &PanicError{Value: r, Stack: stack}
			}()
			return next(c)
		}
	}
}
