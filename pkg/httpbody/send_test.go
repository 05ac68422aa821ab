// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package httpbody

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrgl/httpbody/pkg/objectid"
	"github.com/wrgl/httpbody/pkg/testutils"
)

func newRequest(acceptEncoding string) *http.Request {
	r := httptest.NewRequest(http.MethodGet, "/objects/info/packs", nil)
	if acceptEncoding != "" {
		r.Header.Set("Accept-Encoding", acceptEncoding)
	}
	return r
}

func gunzip(t *testing.T, b []byte) []byte {
	t.Helper()
	gr, err := gzip.NewReader(bytes.NewReader(b))
	require.NoError(t, err)
	defer gr.Close()
	out, err := io.ReadAll(gr)
	require.NoError(t, err)
	return out
}

func TestETag(t *testing.T) {
	assert.Equal(t, `"2aae6c35c94fcfb415dbe95f408b9ce91ee846ed"`, ETag([]byte("hello world")))
	assert.Equal(t, `"da39a3ee5e6b4b0d3255bfef95601890afd80709"`, ETag(nil))
	assert.Equal(t, ETag([]byte("abc")), ETag([]byte("abc")))
	assert.NotEqual(t, ETag([]byte("abc")), ETag([]byte("abd")))
}

func TestSendSmallBodyIsNotCompressed(t *testing.T) {
	for _, n := range []int{0, 1, 100, CompressionThreshold} {
		content := []byte(testutils.RandomText(1000))[:n]
		for _, accepts := range []string{"", "gzip", "deflate, gzip"} {
			rec := httptest.NewRecorder()
			require.NoError(t, Send(content, newRequest(accepts), rec))
			resp := rec.Result()
			assert.Empty(t, resp.Header.Get("Content-Encoding"))
			assert.Equal(t, strconv.Itoa(n), resp.Header.Get("Content-Length"))
			assert.Equal(t, ETag(content), resp.Header.Get("ETag"))
			assert.Equal(t, string(content), rec.Body.String())
		}
	}
}

func TestSendCompressesLargeBody(t *testing.T) {
	content := []byte(testutils.RandomText(CompressionThreshold + 1))[:CompressionThreshold+1]
	orig := append([]byte(nil), content...)

	rec := testutils.NewResponseRecorder()
	require.NoError(t, Send(content, newRequest("gzip, deflate"), rec))
	resp := rec.Result()
	assert.Equal(t, "gzip", resp.Header.Get("Content-Encoding"))
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), resp.Header.Get("Content-Length"))
	assert.Equal(t, ETag(orig), resp.Header.Get("ETag"))
	assert.Equal(t, orig, gunzip(t, rec.Body.Bytes()))
	assert.Equal(t, orig, content, "content must not be modified")
	assert.Empty(t, rec.WrittenHeader.Get("Content-Type"))
	assert.Empty(t, rec.WrittenHeader.Get("Cache-Control"))
	assert.Equal(t, "gzip", rec.WrittenHeader.Get("Content-Encoding"))
}

func TestSendValidatorIndependentOfEncoding(t *testing.T) {
	content := []byte(testutils.RandomText(64 * 1024))

	plain := httptest.NewRecorder()
	require.NoError(t, Send(content, newRequest(""), plain))
	zipped := httptest.NewRecorder()
	require.NoError(t, Send(content, newRequest("gzip"), zipped))

	assert.Equal(t, plain.Header().Get("ETag"), zipped.Header().Get("ETag"))
	assert.NotEqual(t, plain.Header().Get("Content-Encoding"), zipped.Header().Get("Content-Encoding"))
	assert.NotEqual(t, plain.Header().Get("Content-Length"), zipped.Header().Get("Content-Length"))
	assert.Less(t, zipped.Body.Len(), plain.Body.Len())
	assert.Equal(t, plain.Body.Bytes(), gunzip(t, zipped.Body.Bytes()))
}

func TestSendIncompressibleBody(t *testing.T) {
	content := testutils.SecureRandomBytes(4096)
	rec := httptest.NewRecorder()
	require.NoError(t, Send(content, newRequest("gzip"), rec))
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, strconv.Itoa(rec.Body.Len()), rec.Header().Get("Content-Length"))
	assert.Equal(t, content, gunzip(t, rec.Body.Bytes()))
}

func TestSendPlainText(t *testing.T) {
	content := "ref: refs/heads/main\n"
	rec := httptest.NewRecorder()
	require.NoError(t, SendPlainText(content, newRequest("gzip"), rec))
	assert.Equal(t, "text/plain; charset=UTF-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, ETag([]byte(content)), rec.Header().Get("ETag"))
	assert.Equal(t, strconv.Itoa(len(content)), rec.Header().Get("Content-Length"))
	assert.Equal(t, content, rec.Body.String())

	content = "héllo wörld ✓\n" + testutils.RandomText(1024)
	rec = httptest.NewRecorder()
	require.NoError(t, SendPlainText(content, newRequest("gzip"), rec))
	assert.Equal(t, "gzip", rec.Header().Get("Content-Encoding"))
	assert.Equal(t, content, string(gunzip(t, rec.Body.Bytes())))
}

func TestSendClosesWriter(t *testing.T) {
	rec := testutils.NewResponseRecorder()
	require.NoError(t, Send([]byte("abc"), newRequest(""), rec))
	assert.Equal(t, 1, rec.Closes)
	assert.Equal(t, 1, rec.Writes)
	assert.True(t, rec.Flushed)

	writeErr := errors.New("broken pipe")
	rec = testutils.NewResponseRecorder()
	rec.WriteErr = writeErr
	err := Send([]byte(testutils.RandomText(1024)), newRequest("gzip"), rec)
	assert.True(t, errors.Is(err, writeErr))
	assert.Equal(t, "write body: broken pipe", err.Error())
	assert.Equal(t, 1, rec.Closes)
	assert.Equal(t, 1, rec.Writes)
	assert.NotEmpty(t, rec.Header().Get("ETag"))
}

func TestZeroSender(t *testing.T) {
	content := []byte(testutils.RandomText(1024))
	rec := testutils.NewResponseRecorder()
	require.NoError(t, (&Sender{}).Send(content, newRequest("gzip"), rec))
	assert.Equal(t, ETag(content), rec.Header().Get("ETag"))
	assert.Equal(t, content, gunzip(t, rec.Body.Bytes()))
	assert.Equal(t, 1, rec.Closes)

	rec = testutils.NewResponseRecorder()
	err := (&Sender{alg: "md5"}).Send(content, newRequest(""), rec)
	var e *objectid.UnknownAlgorithmError
	assert.True(t, errors.As(err, &e))
	assert.Equal(t, 0, rec.Writes)
	assert.Equal(t, 1, rec.Closes)
}

func TestDefaultSender(t *testing.T) {
	s, err := NewSender()
	require.NoError(t, err)
	assert.Equal(t, s, DefaultSender)
}

func TestNewSender(t *testing.T) {
	content := []byte(testutils.RandomText(2048))

	s, err := NewSender()
	require.NoError(t, err)
	assert.Equal(t, objectid.SHA1, s.Algorithm())
	tag, err := s.ETag(content)
	require.NoError(t, err)
	assert.Equal(t, ETag(content), tag)

	s, err = NewSender(WithAlgorithm(objectid.Blake2b), WithCompressionLevel(gzip.BestSpeed))
	require.NoError(t, err)
	rec := httptest.NewRecorder()
	require.NoError(t, s.Send(content, newRequest("gzip"), rec))
	tag = rec.Header().Get("ETag")
	assert.Len(t, tag, 42)
	assert.NotEqual(t, ETag(content), tag)
	assert.Equal(t, content, gunzip(t, rec.Body.Bytes()))

	s, err = NewSender(WithAlgorithm(objectid.Meow))
	require.NoError(t, err)
	tag, err = s.ETag(content)
	require.NoError(t, err)
	assert.Len(t, tag, 34)

	_, err = NewSender(WithAlgorithm("md5"))
	assert.Error(t, err)
	_, err = NewSender(WithCompressionLevel(10))
	assert.EqualError(t, err, "invalid gzip level 10")
	_, err = NewSender(WithCompressionLevel(-4))
	assert.Error(t, err)
}
