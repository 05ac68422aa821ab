// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package httpbody

import (
	"bytes"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/klauspost/compress/gzip"
	"github.com/wrgl/httpbody/pkg/errors"
	"github.com/wrgl/httpbody/pkg/objectid"
)

type SenderOption func(s *Sender)

// WithAlgorithm selects the hash behind the ETag header.
func WithAlgorithm(alg objectid.Algorithm) SenderOption {
	return func(s *Sender) {
		s.alg = alg
	}
}

// WithCompressionLevel sets the gzip level, from gzip.StatelessCompression
// to gzip.BestCompression.
func WithCompressionLevel(level int) SenderOption {
	return func(s *Sender) {
		s.level = level
	}
}

// Sender writes fully materialized bodies. It holds no per-request state and
// can be shared between goroutines. The zero Sender tags with SHA1 and
// writes gzip bodies at level 0 (stored, not compressed).
type Sender struct {
	alg   objectid.Algorithm
	level int
}

// DefaultSender tags with SHA1 and compresses at the default gzip level.
var DefaultSender = mustSender(NewSender())

func mustSender(s *Sender, err error) *Sender {
	if err != nil {
		panic(err)
	}
	return s
}

func NewSender(opts ...SenderOption) (*Sender, error) {
	s := &Sender{
		alg:   objectid.SHA1,
		level: gzip.DefaultCompression,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.alg.Size() == 0 {
		return nil, &objectid.UnknownAlgorithmError{Name: string(s.alg)}
	}
	if s.level < gzip.StatelessCompression || s.level > gzip.BestCompression {
		return nil, fmt.Errorf("invalid gzip level %d", s.level)
	}
	return s, nil
}

func (s *Sender) Algorithm() objectid.Algorithm {
	if s.alg == "" {
		return objectid.SHA1
	}
	return s.alg
}

// ETag returns the strong entity tag of content under the sender's algorithm.
func (s *Sender) ETag(content []byte) (string, error) {
	id, err := s.Algorithm().Sum(content)
	if err != nil {
		return "", err
	}
	return formatETag(id), nil
}

// Send writes content as the entity of a GET or HEAD response.
//
// ETag and Content-Length are always set. The ETag is computed before
// compression so it does not depend on the client. When content is larger
// than CompressionThreshold and the client accepts gzip, the body is
// compressed and Content-Encoding is set. Content-Type and cache headers are
// left to the caller.
//
// The body is written in one call then flushed. If rw is also an io.Closer
// it is closed before Send returns, whether or not the write succeeded.
func (s *Sender) Send(content []byte, r *http.Request, rw http.ResponseWriter) error {
	content, err := s.prepare(content, r, rw.Header())
	if err != nil {
		if c, ok := rw.(io.Closer); ok {
			c.Close()
		}
		return err
	}
	return writeBody(rw, content)
}

// SendPlainText sends content as a UTF-8 text/plain entity.
func (s *Sender) SendPlainText(content string, r *http.Request, rw http.ResponseWriter) error {
	rw.Header().Set(HeaderContentType, CTPlainText)
	return s.Send([]byte(content), r, rw)
}

func (s *Sender) prepare(content []byte, r *http.Request, h http.Header) ([]byte, error) {
	tag, err := s.ETag(content)
	if err != nil {
		return nil, err
	}
	h.Set(HeaderETag, tag)
	if len(content) > CompressionThreshold && AcceptsGzipEncoding(r) {
		content, err = s.compress(content)
		if err != nil {
			return nil, err
		}
		h.Set(HeaderContentEncoding, EncodingGzip)
	}
	h.Set(HeaderContentLength, strconv.Itoa(len(content)))
	return content, nil
}

func (s *Sender) compress(raw []byte) ([]byte, error) {
	buf := bytes.NewBuffer(make([]byte, 0, len(raw)+32))
	gzw, err := gzip.NewWriterLevel(buf, s.level)
	if err != nil {
		return nil, err
	}
	if _, err = gzw.Write(raw); err != nil {
		return nil, errors.Wrap("gzip body", err)
	}
	if err = gzw.Close(); err != nil {
		return nil, errors.Wrap("gzip body", err)
	}
	return buf.Bytes(), nil
}

func writeBody(w io.Writer, content []byte) (err error) {
	if c, ok := w.(io.Closer); ok {
		defer func() {
			if cerr := c.Close(); err == nil {
				err = errors.Wrap("close body", cerr)
			}
		}()
	}
	if _, err = w.Write(content); err != nil {
		return errors.Wrap("write body", err)
	}
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
	return nil
}

// Send writes content with DefaultSender.
func Send(content []byte, r *http.Request, rw http.ResponseWriter) error {
	return DefaultSender.Send(content, r, rw)
}

// SendPlainText writes content with DefaultSender.
func SendPlainText(content string, r *http.Request, rw http.ResponseWriter) error {
	return DefaultSender.SendPlainText(content, r, rw)
}
