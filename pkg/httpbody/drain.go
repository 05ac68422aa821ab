// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package httpbody

import (
	"io"
	"net/http"
)

// ConsumeRequestBody discards the body of r if r declares one, either with
// a positive Content-Length or with chunked transfer coding. A request
// without a body is left untouched.
func ConsumeRequestBody(r *http.Request) {
	if r.ContentLength > 0 || isChunked(r) {
		Consume(r.Body)
	}
}

func isChunked(r *http.Request) bool {
	for _, te := range r.TransferEncoding {
		if te == EncodingChunked {
			return true
		}
	}
	return r.Header.Get(HeaderTransferEncoding) == EncodingChunked
}

// Consume reads rc to the end, discarding the data, then closes it. Read and
// close errors are ignored.
func Consume(rc io.ReadCloser) {
	if rc == nil {
		return
	}
	defer func() {
		_ = rc.Close()
	}()
	_, _ = io.Copy(io.Discard, rc)
}
