// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package bodyd

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/go-logr/logr"
	"github.com/wrgl/httpbody/pkg/conf"
	"github.com/wrgl/httpbody/pkg/httpbody"
	"github.com/wrgl/httpbody/pkg/local"
	"github.com/wrgl/httpbody/pkg/server"
)

type Server struct {
	srv    *http.Server
	logger logr.Logger
}

func NewServer(baseDir string, c *conf.Config, logger logr.Logger) (*Server, error) {
	resolver, err := local.NewResolver(baseDir, c.Exports)
	if err != nil {
		return nil, err
	}
	sender, err := httpbody.NewSender(
		httpbody.WithAlgorithm(c.Algorithm()),
		httpbody.WithCompressionLevel(c.CompressionLevel()),
	)
	if err != nil {
		return nil, err
	}
	opts := []server.ServerOption{server.WithSender(sender)}
	if len(c.Services) > 0 {
		g, err := server.NewGitService(c.GitPath, c.Services...)
		if err != nil {
			return nil, err
		}
		opts = append(opts, server.WithServiceHandler(g))
	}
	s := &Server{
		srv: &http.Server{
			ReadTimeout:  c.ReadTimeout.Duration(),
			WriteTimeout: c.WriteTimeout.Duration(),
		},
		logger: logger,
	}
	s.srv.Handler = ApplyMiddlewares(
		server.NewServer(resolver, logger, opts...),
		LoggingMiddleware(logger),
		RequestIDMiddleware,
		RecoveryMiddleware(logger),
	)
	logger.Info("serving repositories", "baseDir", resolver.BaseDir(), "exports", resolver.Exports())
	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.srv.Handler
}

func (s *Server) Start(addr string) error {
	s.srv.Addr = addr
	s.logger.Info("server started", "addr", addr)
	return s.srv.ListenAndServe()
}

// Serve accepts connections on l until Close is called.
func (s *Server) Serve(l net.Listener) error {
	s.logger.Info("server started", "addr", l.Addr().String())
	return s.srv.Serve(l)
}

func (s *Server) Close() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return s.srv.Shutdown(ctx)
}
