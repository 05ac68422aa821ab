// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package testutils

import (
	"bytes"
	"io"
	"net/http"
	"net/http/httptest"
)

// Body is a request body that records how it was used.
type Body struct {
	r       io.Reader
	readErr error
	// CloseErr is returned from Close.
	CloseErr error

	Reads     int
	BytesRead int64
	Closes    int
}

func NewBody(b []byte) *Body {
	return &Body{r: bytes.NewReader(b)}
}

// NewFailingBody returns a body that yields b then fails with err instead
// of io.EOF.
func NewFailingBody(b []byte, err error) *Body {
	return &Body{r: bytes.NewReader(b), readErr: err}
}

func (b *Body) Read(p []byte) (int, error) {
	b.Reads++
	n, err := b.r.Read(p)
	b.BytesRead += int64(n)
	if err == io.EOF && b.readErr != nil {
		return n, b.readErr
	}
	return n, err
}

func (b *Body) Close() error {
	b.Closes++
	return b.CloseErr
}

// Exhausted reports whether every byte of the underlying data was read.
func (b *Body) Exhausted() bool {
	if l, ok := b.r.(interface{ Len() int }); ok {
		return l.Len() == 0
	}
	return false
}

// ResponseRecorder is an httptest.ResponseRecorder that can also be closed
// and made to fail writes.
type ResponseRecorder struct {
	*httptest.ResponseRecorder
	WriteErr error
	Closes   int
	Writes   int
	// WrittenHeader is a copy of Header() taken at the first Write, before
	// httptest adds a sniffed Content-Type.
	WrittenHeader http.Header
}

func NewResponseRecorder() *ResponseRecorder {
	return &ResponseRecorder{ResponseRecorder: httptest.NewRecorder()}
}

func (rec *ResponseRecorder) Write(b []byte) (int, error) {
	rec.Writes++
	if rec.WrittenHeader == nil {
		rec.WrittenHeader = rec.Header().Clone()
	}
	if rec.WriteErr != nil {
		return 0, rec.WriteErr
	}
	return rec.ResponseRecorder.Write(b)
}

func (rec *ResponseRecorder) Close() error {
	rec.Closes++
	return nil
}

var _ http.ResponseWriter = (*ResponseRecorder)(nil)
