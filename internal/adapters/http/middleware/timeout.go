package middleware

import (
	"bytes"
	"context"
	"maps"
	"net/http"
	"sync"
	"time"

	"github.com/jsamuelsen11/go-gcp-functions/internal/domain"
	"github.com/jsamuelsen11/go-gcp-functions/internal/function"
)

// CodeTimeout is the error code written when an invocation exceeds its
// deadline.
const CodeTimeout = "TIMEOUT"

// Timeout returns middleware that bounds each invocation by d. The handler
// runs on its own goroutine against a buffered writer and a context carrying
// the deadline. If it finishes in time the buffer is sent; otherwise the
// caller receives a composed 504 error description and later writes from the
// handler are dropped.
//
// A panic in the handler is re-raised on the serving goroutine so that
// Recovery still sees it.
func Timeout(d time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), d)
			defer cancel()

			bw := &bufferedWriter{header: make(http.Header)}
			done := make(chan struct{})
			panicked := make(chan any, 1)

			go func() {
				defer func() {
					if v := recover(); v != nil {
						panicked <- v
					}
				}()
				next.ServeHTTP(bw, r.WithContext(ctx))
				close(done)
			}()

			select {
			case v := <-panicked:
				panic(v)
			case <-done:
				bw.sendTo(w)
			case <-ctx.Done():
				bw.abandon()
				err := domain.ErrorForStatus(http.StatusGatewayTimeout, CodeTimeout,
					"function did not complete within "+d.String())
				_ = function.ComposeError(err).Write(w)
			}
		})
	}
}

// bufferedWriter holds a handler's response until Timeout decides whether to
// send it. Once abandoned, writes succeed but are discarded.
type bufferedWriter struct {
	mu        sync.Mutex
	header    http.Header
	body      bytes.Buffer
	status    int
	abandoned bool
}

func (bw *bufferedWriter) Header() http.Header {
	return bw.header
}

func (bw *bufferedWriter) WriteHeader(code int) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.status == 0 {
		bw.status = code
	}
}

func (bw *bufferedWriter) Write(b []byte) (int, error) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	if bw.status == 0 {
		bw.status = http.StatusOK
	}
	if bw.abandoned {
		return len(b), nil
	}
	return bw.body.Write(b)
}

func (bw *bufferedWriter) abandon() {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	bw.abandoned = true
}

// sendTo copies the buffered response to w. A handler that wrote nothing
// leaves w untouched.
func (bw *bufferedWriter) sendTo(w http.ResponseWriter) {
	bw.mu.Lock()
	defer bw.mu.Unlock()

	maps.Copy(w.Header(), bw.header)
	if bw.status != 0 {
		w.WriteHeader(bw.status)
	}
	if bw.body.Len() > 0 {
		_, _ = w.Write(bw.body.Bytes())
	}
}
