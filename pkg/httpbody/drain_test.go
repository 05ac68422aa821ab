// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package httpbody

import (
	"bytes"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/http/httptrace"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrgl/httpbody/pkg/testutils"
)

func TestConsume(t *testing.T) {
	body := testutils.NewBody(testutils.SecureRandomBytes(100 * 1024))
	Consume(body)
	assert.True(t, body.Exhausted())
	assert.Equal(t, int64(100*1024), body.BytesRead)
	assert.Equal(t, 1, body.Closes)

	Consume(nil)
}

func TestConsumeSwallowsErrors(t *testing.T) {
	body := testutils.NewFailingBody(testutils.SecureRandomBytes(5000), errors.New("connection reset"))
	body.CloseErr = errors.New("already closed")
	assert.NotPanics(t, func() {
		Consume(body)
	})
	assert.Equal(t, int64(5000), body.BytesRead)
	assert.Equal(t, 1, body.Closes)

	body = testutils.NewFailingBody(nil, io.ErrUnexpectedEOF)
	Consume(body)
	assert.Equal(t, 1, body.Reads)
	assert.Equal(t, 1, body.Closes)
}

func TestConsumeRequestBody(t *testing.T) {
	newRequest := func(body *testutils.Body, contentLength int64, te []string, header string) *http.Request {
		r := httptest.NewRequest(http.MethodPost, "/git-upload-pack", nil)
		r.Body = body
		r.ContentLength = contentLength
		r.TransferEncoding = te
		if header != "" {
			r.Header.Set("Transfer-Encoding", header)
		}
		return r
	}

	for i, c := range []struct {
		contentLength int64
		te            []string
		header        string
		consumed      bool
	}{
		{0, nil, "", false},
		{-1, nil, "", false},
		{-1, []string{"gzip"}, "", false},
		{0, nil, "Chunked", false},
		{10, nil, "", true},
		{-1, []string{"chunked"}, "", true},
		{-1, nil, "chunked", true},
	} {
		body := testutils.NewBody([]byte("0123456789"))
		ConsumeRequestBody(newRequest(body, c.contentLength, c.te, c.header))
		if c.consumed {
			assert.True(t, body.Exhausted(), "case %d", i)
			assert.Equal(t, 1, body.Closes, "case %d", i)
		} else {
			assert.Equal(t, 0, body.Reads, "case %d", i)
			assert.Equal(t, 0, body.Closes, "case %d", i)
		}
	}
}

func TestConsumeRequestBodyKeepsConnection(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		ConsumeRequestBody(r)
		http.Error(rw, "service not enabled", http.StatusForbidden)
	}))
	defer ts.Close()
	client := ts.Client()

	var reused []bool
	trace := &httptrace.ClientTrace{
		GotConn: func(info httptrace.GotConnInfo) {
			reused = append(reused, info.Reused)
		},
	}
	body := testutils.SecureRandomBytes(1 << 20)
	for i := 0; i < 3; i++ {
		req, err := http.NewRequest(http.MethodPost, ts.URL+"/git-receive-pack", bytes.NewReader(body))
		require.NoError(t, err)
		req = req.WithContext(httptrace.WithClientTrace(req.Context(), trace))
		resp, err := client.Do(req)
		require.NoError(t, err)
		assert.Equal(t, http.StatusForbidden, resp.StatusCode)
		_, err = io.Copy(io.Discard, resp.Body)
		require.NoError(t, err)
		require.NoError(t, resp.Body.Close())
	}
	assert.Equal(t, []bool{false, true, true}, reused)
}
