package internal

import (
	"bufio"
	"net"
	"net/http"
	"sync"
)

// ResponseWriter decorates http.ResponseWriter with status and size
// tracking, plus hooks that fire once just before the response is
// committed. Roles use the hooks to inject headers (a request ID, say)
// without caring whether the handler calls WriteHeader explicitly.
type ResponseWriter struct {
	http.ResponseWriter

	mu        sync.Mutex
	status    int
	bytes     int64
	committed bool
	preWrite  []func()
}

// NewResponseWriter wraps w. The status defaults to 200 until WriteHeader
// says otherwise.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

// OnBeforeWrite registers fn to run right before the header is sent. Hooks
// registered after the response is committed never run.
func (w *ResponseWriter) OnBeforeWrite(fn func()) {
	w.mu.Lock()
	w.preWrite = append(w.preWrite, fn)
	w.mu.Unlock()
}

// commit fires pending hooks and sends the header exactly once. Returns
// false when the response was already committed.
func (w *ResponseWriter) commit(code int) bool {
	w.mu.Lock()
	if w.committed {
		w.mu.Unlock()
		return false
	}
	w.committed = true
	w.status = code
	hooks := w.preWrite
	w.preWrite = nil
	w.mu.Unlock()

	for _, fn := range hooks {
		fn()
	}
	w.ResponseWriter.WriteHeader(code)
	return true
}

// WriteHeader commits the response with code. Repeat calls are no-ops.
func (w *ResponseWriter) WriteHeader(code int) {
	w.commit(code)
}

// Write commits the response with the current status if needed, then
// forwards to the underlying writer.
func (w *ResponseWriter) Write(b []byte) (int, error) {
	w.mu.Lock()
	status := w.status
	committed := w.committed
	w.mu.Unlock()
	if !committed {
		w.commit(status)
	}

	n, err := w.ResponseWriter.Write(b)
	w.mu.Lock()
	w.bytes += int64(n)
	w.mu.Unlock()
	return n, err
}

// Status reports the committed (or pending default) status code.
func (w *ResponseWriter) Status() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.status
}

// Size reports how many body bytes have been written.
func (w *ResponseWriter) Size() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.bytes
}

// Written reports whether the response has been committed.
func (w *ResponseWriter) Written() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.committed
}

// Flush forwards to the underlying writer when it supports http.Flusher.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// Hijack forwards to the underlying writer when it supports http.Hijacker.
func (w *ResponseWriter) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	if h, ok := w.ResponseWriter.(http.Hijacker); ok {
		return h.Hijack()
	}
	return nil, nil, http.ErrNotSupported
}

// Push forwards to the underlying writer when it supports http.Pusher.
func (w *ResponseWriter) Push(target string, opts *http.PushOptions) error {
	if p, ok := w.ResponseWriter.(http.Pusher); ok {
		return p.Push(target, opts)
	}
	return http.ErrNotSupported
}

// Unwrap exposes the original writer for code that needs it directly.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
