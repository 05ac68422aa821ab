// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package server

import (
	"fmt"
	"net/http"
	"regexp"
	"time"

	"github.com/go-logr/logr"
	"github.com/wrgl/httpbody/pkg/httpbody"
	"github.com/wrgl/httpbody/pkg/local"
	"github.com/wrgl/httpbody/pkg/router"
)

type ServerOption func(s *Server)

// WithRootPath only serves requests under rootPath, which must be anchored
// with ^.
func WithRootPath(rootPath *regexp.Regexp) ServerOption {
	return func(s *Server) {
		s.rootPath = rootPath
	}
}

func WithSender(sender *httpbody.Sender) ServerOption {
	return func(s *Server) {
		s.sender = sender
	}
}

// WithServiceHandler enables POST requests to git-upload-pack and
// git-receive-pack. Without it they are answered with 403.
func WithServiceHandler(h ServiceHandler) ServerOption {
	return func(s *Server) {
		s.service = h
	}
}

// WithMaxAge sets the max-age of immutable responses.
func WithMaxAge(d time.Duration) ServerOption {
	return func(s *Server) {
		s.maxAge = d
	}
}

// Server serves bare repositories found by a local.Resolver.
type Server struct {
	resolver *local.Resolver
	sender   *httpbody.Sender
	service  ServiceHandler
	logger   logr.Logger
	rootPath *regexp.Regexp
	router   *router.Router
	maxAge   time.Duration
}

func NewServer(resolver *local.Resolver, logger logr.Logger, opts ...ServerOption) *Server {
	s := &Server{
		resolver: resolver,
		sender:   httpbody.DefaultSender,
		logger:   logger.WithName("Server"),
		maxAge:   90 * 24 * time.Hour,
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = router.NewRouter(s.rootPath, &router.Routes{
		Subs: []*router.Routes{
			{
				Method:      http.MethodGet,
				Pat:         patTextFile,
				HandlerFunc: s.handleTextFile,
			},
			{
				Method:      http.MethodGet,
				Pat:         patLooseObject,
				HandlerFunc: s.handleLooseObject,
			},
			{
				Method:      http.MethodGet,
				Pat:         patPack,
				HandlerFunc: s.handlePack,
			},
			{
				Method:      http.MethodPost,
				Pat:         patService,
				HandlerFunc: s.handleService,
			},
		},
	}, router.WithNotFoundHandler(s.handleNotFound))
	return s
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

func (s *Server) cacheControlImmutable(rw http.ResponseWriter) {
	rw.Header().Set(
		HeaderCacheControl,
		fmt.Sprintf("public, immutable, max-age=%d", int(s.maxAge.Seconds())),
	)
}

func cacheControlNoCache(rw http.ResponseWriter) {
	h := rw.Header()
	h.Set(HeaderExpires, "Fri, 01 Jan 1980 00:00:00 GMT")
	h.Set(HeaderPragma, "no-cache")
	h.Set(HeaderCacheControl, "no-cache, max-age=0, must-revalidate")
}

func (s *Server) handleNotFound(rw http.ResponseWriter, r *http.Request) {
	httpbody.ConsumeRequestBody(r)
	SendHTTPError(rw, http.StatusNotFound)
}
