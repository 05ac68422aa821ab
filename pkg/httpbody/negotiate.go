// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package httpbody

import (
	"net/http"
	"strings"
)

// AcceptsGzip reports whether the Accept-Encoding value lists gzip as one
// of its comma separated terms. Quality values are not parsed: "gzip;q=0"
// is a different term and does not match.
func AcceptsGzip(accepts string) bool {
	for len(accepts) > 0 {
		var term string
		if i := strings.IndexByte(accepts, ','); i >= 0 {
			term, accepts = accepts[:i], accepts[i+1:]
		} else {
			term, accepts = accepts, ""
		}
		if strings.TrimSpace(term) == EncodingGzip {
			return true
		}
	}
	return false
}

// AcceptsGzipEncoding reads the Accept-Encoding header of r.
func AcceptsGzipEncoding(r *http.Request) bool {
	if r == nil {
		return false
	}
	return AcceptsGzip(r.Header.Get(HeaderAcceptEncoding))
}
