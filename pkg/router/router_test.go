// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package router

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"regexp"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wrgl/httpbody/pkg/testutils"
)

func mockHandler(msg string) http.HandlerFunc {
	return func(rw http.ResponseWriter, r *http.Request) {
		vars := Vars(r)
		keys := make([]string, 0, len(vars))
		for k := range vars {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := []string{msg}
		for _, k := range keys {
			parts = append(parts, k+"="+vars[k])
		}
		rw.Write([]byte(strings.Join(parts, " ")))
	}
}

func assertResponse(t *testing.T, handler http.Handler, method, path string, status int, resp string) {
	t.Helper()
	req := httptest.NewRequest(method, path, nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	require.Equal(t, status, rec.Result().StatusCode)
	b, err := io.ReadAll(rec.Result().Body)
	require.NoError(t, err)
	assert.Equal(t, resp, string(b))
}

func TestRouter(t *testing.T) {
	for _, root := range []string{`^/my-root/`, `^/my-root`} {
		router := NewRouter(regexp.MustCompile(root), &Routes{
			Subs: []*Routes{
				{http.MethodGet, regexp.MustCompile(`^/refs/?$`), mockHandler("get refs"), nil},
				{http.MethodPost, regexp.MustCompile(`^/(?P<service>git-upload-pack|git-receive-pack)$`), mockHandler("service"), nil},
				{"", regexp.MustCompile(`^/objects/`), nil, []*Routes{
					{http.MethodGet, regexp.MustCompile(`^(?P<dir>[0-9a-f]{2})/(?P<file>[0-9a-f]{38})$`), mockHandler("loose"), nil},
					{http.MethodGet, regexp.MustCompile(`^info/`), nil, []*Routes{
						{http.MethodGet, nil, mockHandler("info"), nil},
						{http.MethodGet, regexp.MustCompile(`^(?P<file>packs|alternates)$`), mockHandler("info file"), nil},
					}},
				}},
			},
		})

		sum := fmt.Sprintf("%x", testutils.SecureRandomBytes(20))
		assertResponse(t, router, http.MethodPost, "/", 404, "404 page not found\n")
		assertResponse(t, router, http.MethodGet, "/refs", 404, "404 page not found\n")
		assertResponse(t, router, http.MethodGet, "/my-root/refs", 200, "get refs")
		assertResponse(t, router, http.MethodHead, "/my-root/refs/", 200, "get refs")
		assertResponse(t, router, http.MethodPost, "/my-root/refs", 404, "404 page not found\n")
		assertResponse(t, router, http.MethodPost, "/my-root/git-upload-pack", 200, "service service=git-upload-pack")
		assertResponse(t, router, http.MethodPost, "/my-root/git-receive-pack", 200, "service service=git-receive-pack")
		assertResponse(t, router, http.MethodGet, "/my-root/git-receive-pack", 404, "404 page not found\n")
		assertResponse(t, router, http.MethodGet, "/my-root/objects/"+sum[:2]+"/"+sum[2:], 200,
			fmt.Sprintf("loose dir=%s file=%s", sum[:2], sum[2:]))
		assertResponse(t, router, http.MethodGet, "/my-root/objects/"+sum[:2]+"/"+sum[2:]+"/extra", 404, "404 page not found\n")
		assertResponse(t, router, http.MethodGet, "/my-root/objects/info/", 200, "info")
		assertResponse(t, router, http.MethodGet, "/my-root/objects/info/packs", 200, "info file file=packs")
		assertResponse(t, router, http.MethodGet, "/my-root/objects/info/refs", 404, "404 page not found\n")
	}
}

func TestRouterWithPrefix(t *testing.T) {
	router := NewRouter(nil, &Routes{
		Pat: regexp.MustCompile(`^/repos/(?P<repo>[-_.a-z0-9]+)/`),
		Subs: []*Routes{
			{http.MethodGet, regexp.MustCompile(`^HEAD$`), mockHandler("get head"), nil},
		},
	})
	assertResponse(t, router, http.MethodGet, "/repos/app.git/HEAD", 200, "get head repo=app.git")
	assertResponse(t, router, http.MethodGet, "/HEAD", 404, "404 page not found\n")
}

func TestRouterNotFoundHandler(t *testing.T) {
	router := NewRouter(nil, &Routes{
		Subs: []*Routes{
			{http.MethodGet, regexp.MustCompile(`^/(?P<repo>.+)/(?P<file>HEAD|info/refs)$`), mockHandler("text"), nil},
		},
	}, WithNotFoundHandler(func(rw http.ResponseWriter, r *http.Request) {
		rw.WriteHeader(http.StatusNotFound)
		rw.Write([]byte("nothing at " + r.URL.Path))
	}))
	assertResponse(t, router, http.MethodGet, "/team/app.git/info/refs", 200, "text file=info/refs repo=team/app.git")
	assertResponse(t, router, http.MethodGet, "/team/app.git/info/packs", 404, "nothing at /team/app.git/info/packs")
}
