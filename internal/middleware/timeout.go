// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"context"
	"net/http"
	"sync"
	"time"
)

// Timeout cancels the request context after the given duration and answers
// with a JSON 503 if the handler has not started writing by then. A handler
// that already sent headers keeps the connection; its writes after the
// deadline are discarded.
func Timeout(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()

			dw := &deadlineWriter{ResponseWriter: w}
			done := make(chan struct{})

			go func() {
				defer close(done)
				next.ServeHTTP(dw, r.WithContext(ctx))
			}()

			select {
			case <-done:
			case <-ctx.Done():
				dw.mu.Lock()
				defer dw.mu.Unlock()
				if !dw.wroteHeader {
					dw.timedOut = true
					writeJSONError(w, http.StatusServiceUnavailable, "Request timed out")
				}
			}
		})
	}
}

// deadlineWriter serializes writes between the handler goroutine and the
// timeout path so only one of them produces the response.
type deadlineWriter struct {
	http.ResponseWriter
	mu          sync.Mutex
	wroteHeader bool
	timedOut    bool
}

func (dw *deadlineWriter) WriteHeader(code int) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.timedOut || dw.wroteHeader {
		return
	}
	dw.wroteHeader = true
	dw.ResponseWriter.WriteHeader(code)
}

func (dw *deadlineWriter) Write(b []byte) (int, error) {
	dw.mu.Lock()
	defer dw.mu.Unlock()
	if dw.timedOut {
		return len(b), nil
	}
	if !dw.wroteHeader {
		dw.wroteHeader = true
		dw.ResponseWriter.WriteHeader(http.StatusOK)
	}
	return dw.ResponseWriter.Write(b)
}
