// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package server

import (
	"bytes"
	"fmt"
	"net/http"
	"os/exec"
	"strings"

	"github.com/wrgl/httpbody/pkg/errors"
)

// GitService runs "git upload-pack" and "git receive-pack" in stateless RPC
// mode, piping the decoded request body to stdin and stdout to the response.
type GitService struct {
	gitPath string
	enabled map[string]bool
}

// NewGitService only enables the given services. gitPath defaults to "git".
func NewGitService(gitPath string, services ...string) (*GitService, error) {
	if gitPath == "" {
		gitPath = "git"
	}
	g := &GitService{
		gitPath: gitPath,
		enabled: map[string]bool{},
	}
	for _, name := range services {
		if !strings.HasPrefix(name, "git-") {
			name = "git-" + name
		}
		if name != ServiceUploadPack && name != ServiceReceivePack {
			return nil, fmt.Errorf("unknown service %q", name)
		}
		g.enabled[name] = true
	}
	return g, nil
}

func (g *GitService) ServeService(rw http.ResponseWriter, r *http.Request, req *ServiceRequest) error {
	if !g.enabled[req.Service] {
		return ErrServiceNotEnabled
	}
	cmd := exec.CommandContext(r.Context(), g.gitPath,
		strings.TrimPrefix(req.Service, "git-"), "--stateless-rpc", req.Repo.Dir,
	)
	stderr := bytes.NewBuffer(nil)
	cmd.Stdin = req.Body
	cmd.Stdout = rw
	cmd.Stderr = stderr
	rw.Header().Set("Content-Type", fmt.Sprintf("application/x-%s-result", req.Service))
	cacheControlNoCache(rw)
	if err := cmd.Run(); err != nil {
		return errors.Wrapf(err, "%s: %s", req.Service, strings.TrimSpace(stderr.String()))
	}
	return nil
}
