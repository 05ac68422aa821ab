// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package httpbody

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/klauspost/compress/gzip"
)

var ErrUnsupportedEncoding = errors.New("unsupported encoding")

// UnsupportedEncodingError is returned by OpenBody when a request body is
// encoded with something other than gzip.
type UnsupportedEncodingError struct {
	Header string
	Value  string
}

func (e *UnsupportedEncodingError) Error() string {
	return fmt.Sprintf("%s %q: not supported by this library", e.Header, e.Value)
}

func (e *UnsupportedEncodingError) Is(target error) bool {
	return target == ErrUnsupportedEncoding
}

// OpenBody returns the decoded request body. A body with Content-Encoding
// gzip or x-gzip is inflated while it is read. Without Content-Encoding the
// raw body is returned. The caller must close the returned reader, which
// also closes r.Body.
func OpenBody(r *http.Request) (io.ReadCloser, error) {
	body := r.Body
	if body == nil {
		body = http.NoBody
	}
	switch enc := r.Header.Get(HeaderContentEncoding); enc {
	case "":
		return body, nil
	case EncodingGzip, EncodingXGzip:
		return &gzipBody{raw: body}, nil
	default:
		return nil, &UnsupportedEncodingError{
			Header: HeaderContentEncoding,
			Value:  enc,
		}
	}
}

// gzipBody defers reading the gzip header to the first Read so opening a
// body never blocks on the network, and a bad header is reported by Read.
type gzipBody struct {
	raw io.ReadCloser
	zr  *gzip.Reader
	err error
}

func (b *gzipBody) Read(p []byte) (int, error) {
	if b.zr == nil {
		if b.err == nil {
			b.zr, b.err = gzip.NewReader(b.raw)
		}
		if b.err != nil {
			return 0, b.err
		}
	}
	return b.zr.Read(p)
}

func (b *gzipBody) Close() error {
	var err error
	if b.zr != nil {
		err = b.zr.Close()
	}
	if cerr := b.raw.Close(); cerr != nil {
		return cerr
	}
	return err
}
