// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package server

import (
	"net/http"
	"os"

	"github.com/wrgl/httpbody/pkg/errors"
	"github.com/wrgl/httpbody/pkg/local"
	"github.com/wrgl/httpbody/pkg/router"
)

// openRepo resolves the repo path variable. On failure the error response
// is already sent.
func (s *Server) openRepo(rw http.ResponseWriter, r *http.Request) *local.Repo {
	repo, err := s.resolver.Open(router.Var(r, "repo"))
	if err != nil {
		s.sendRepoError(rw, r, err)
		return nil
	}
	return repo
}

func (s *Server) sendRepoError(rw http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, local.ErrInvalidPath):
		SendError(rw, http.StatusBadRequest, "invalid repository path")
	case errors.Is(err, local.ErrRepoNotFound), errors.Is(err, local.ErrRepoNotExported):
		SendHTTPError(rw, http.StatusNotFound)
	default:
		s.logger.Error(err, "error opening repository", "path", r.URL.Path)
		SendHTTPError(rw, http.StatusInternalServerError)
	}
}

// readFile reads the file path variable from the repository. On failure the
// error response is already sent.
func (s *Server) readFile(rw http.ResponseWriter, r *http.Request) ([]byte, bool) {
	repo := s.openRepo(rw, r)
	if repo == nil {
		return nil, false
	}
	b, err := repo.ReadFile(router.Var(r, "file"))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			SendHTTPError(rw, http.StatusNotFound)
		} else {
			s.sendRepoError(rw, r, err)
		}
		return nil, false
	}
	return b, true
}

func (s *Server) send(rw http.ResponseWriter, r *http.Request, b []byte) {
	if err := s.sender.Send(b, r, rw); err != nil {
		s.logger.Error(err, "error sending response", "path", r.URL.Path)
	}
}

func (s *Server) handleTextFile(rw http.ResponseWriter, r *http.Request) {
	b, ok := s.readFile(rw, r)
	if !ok {
		return
	}
	cacheControlNoCache(rw)
	if err := s.sender.SendPlainText(string(b), r, rw); err != nil {
		s.logger.Error(err, "error sending response", "path", r.URL.Path)
	}
}

func (s *Server) handleLooseObject(rw http.ResponseWriter, r *http.Request) {
	b, ok := s.readFile(rw, r)
	if !ok {
		return
	}
	rw.Header().Set("Content-Type", CTLooseObject)
	s.cacheControlImmutable(rw)
	s.send(rw, r, b)
}

func (s *Server) handlePack(rw http.ResponseWriter, r *http.Request) {
	b, ok := s.readFile(rw, r)
	if !ok {
		return
	}
	if router.Var(r, "ext") == "idx" {
		rw.Header().Set("Content-Type", CTPackIndex)
	} else {
		rw.Header().Set("Content-Type", CTPackfile)
	}
	s.cacheControlImmutable(rw)
	s.send(rw, r, b)
}
