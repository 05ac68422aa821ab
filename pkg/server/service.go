// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package server

import (
	"io"
	"net/http"

	"github.com/wrgl/httpbody/pkg/errors"
	"github.com/wrgl/httpbody/pkg/httpbody"
	"github.com/wrgl/httpbody/pkg/local"
	"github.com/wrgl/httpbody/pkg/router"
)

var ErrServiceNotEnabled = errors.New("service not enabled")

// ServiceRequest is a smart protocol request with its body already decoded.
type ServiceRequest struct {
	Repo *local.Repo
	// Service is either ServiceUploadPack or ServiceReceivePack.
	Service string
	Body    io.Reader
}

// ServiceHandler runs a smart protocol exchange and writes the response.
// Returning ErrServiceNotEnabled before writing anything yields a 403.
// Whatever is left of the body afterward is discarded by the server.
type ServiceHandler interface {
	ServeService(rw http.ResponseWriter, r *http.Request, req *ServiceRequest) error
}

type ServiceHandlerFunc func(rw http.ResponseWriter, r *http.Request, req *ServiceRequest) error

func (f ServiceHandlerFunc) ServeService(rw http.ResponseWriter, r *http.Request, req *ServiceRequest) error {
	return f(rw, r, req)
}

func (s *Server) handleService(rw http.ResponseWriter, r *http.Request) {
	repo, err := s.resolver.Open(router.Var(r, "repo"))
	if err != nil {
		httpbody.ConsumeRequestBody(r)
		s.sendRepoError(rw, r, err)
		return
	}
	body, err := httpbody.OpenBody(r)
	if err != nil {
		httpbody.ConsumeRequestBody(r)
		SendError(rw, http.StatusUnsupportedMediaType, err.Error())
		return
	}
	if s.service == nil {
		httpbody.ConsumeRequestBody(r)
		SendError(rw, http.StatusForbidden, ErrServiceNotEnabled.Error())
		return
	}
	defer httpbody.Consume(body)
	service := router.Var(r, "service")
	err = s.service.ServeService(rw, r, &ServiceRequest{
		Repo:    repo,
		Service: service,
		Body:    body,
	})
	if errors.Is(err, ErrServiceNotEnabled) {
		SendError(rw, http.StatusForbidden, err.Error())
	} else if err != nil {
		s.logger.Error(err, "service failed", "service", service, "repo", repo.Name)
	}
}
