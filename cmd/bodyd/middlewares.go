// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package bodyd

import (
	"fmt"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/go-logr/logr"
	"github.com/google/uuid"
	"github.com/wrgl/httpbody/pkg/server"
)

type Middleware func(h http.Handler) http.Handler

func ApplyMiddlewares(handler http.Handler, middlewares ...Middleware) http.Handler {
	for _, m := range middlewares {
		handler = m(handler)
	}
	return handler
}

// statusRecorder remembers the status code and body size of a response.
type statusRecorder struct {
	http.ResponseWriter
	status int
	size   int64
}

func (rec *statusRecorder) WriteHeader(code int) {
	if rec.status == 0 {
		rec.status = code
	}
	rec.ResponseWriter.WriteHeader(code)
}

func (rec *statusRecorder) Write(b []byte) (int, error) {
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	n, err := rec.ResponseWriter.Write(b)
	rec.size += int64(n)
	return n, err
}

func (rec *statusRecorder) Flush() {
	if f, ok := rec.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

type loggingMiddleware struct {
	handler http.Handler
	logger  logr.Logger
}

func (h *loggingMiddleware) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	start := time.Now()
	rec := &statusRecorder{ResponseWriter: rw}
	h.handler.ServeHTTP(rec, r)
	if rec.status == 0 {
		rec.status = http.StatusOK
	}
	h.logger.V(1).Info("request",
		"id", rw.Header().Get(server.HeaderRequestID),
		"method", r.Method,
		"uri", r.URL.RequestURI(),
		"status", rec.status,
		"bytes", rec.size,
		"duration", time.Since(start).String(),
	)
}

// LoggingMiddleware logs one line per request at verbosity 1.
func LoggingMiddleware(logger logr.Logger) Middleware {
	return func(handler http.Handler) http.Handler {
		return &loggingMiddleware{handler: handler, logger: logger}
	}
}

// RequestIDMiddleware tags every response with a random X-Request-Id unless
// the client already sent one.
func RequestIDMiddleware(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(server.HeaderRequestID)
		if id == "" {
			id = uuid.New().String()
		}
		rw.Header().Set(server.HeaderRequestID, id)
		handler.ServeHTTP(rw, r)
	})
}

type recoveryMiddleware struct {
	handler http.Handler
	logger  logr.Logger
}

func (h *recoveryMiddleware) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	defer func() {
		if v := recover(); v != nil {
			h.logger.Error(fmt.Errorf("%v", v), "panic (recovered)",
				"method", r.Method,
				"uri", r.URL.RequestURI(),
				"stack", string(debug.Stack()),
			)
			http.Error(rw, "internal server error", http.StatusInternalServerError)
		}
	}()
	h.handler.ServeHTTP(rw, r)
}

func RecoveryMiddleware(logger logr.Logger) Middleware {
	return func(handler http.Handler) http.Handler {
		return &recoveryMiddleware{handler: handler, logger: logger}
	}
}
