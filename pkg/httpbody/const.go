// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package httpbody

const (
	HeaderAcceptEncoding   = "Accept-Encoding"
	HeaderContentEncoding  = "Content-Encoding"
	HeaderContentLength    = "Content-Length"
	HeaderContentType      = "Content-Type"
	HeaderETag             = "ETag"
	HeaderTransferEncoding = "Transfer-Encoding"

	EncodingGzip  = "gzip"
	EncodingXGzip = "x-gzip"
	// EncodingChunked is the only transfer coding looked at, when deciding
	// whether a request carries a body.
	EncodingChunked = "chunked"

	CTPlainText = "text/plain; charset=UTF-8"
)

// CompressionThreshold is the largest body that is always sent as is. Below
// this size the gzip container costs more than it saves.
const CompressionThreshold = 256
