// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package server

import "regexp"

const (
	// CTJSON is content type for Json payload
	CTJSON = "application/json"
	// CTLooseObject is content type of a zlib-deflated loose object
	CTLooseObject = "application/x-git-loose-object"
	// CTPackfile is content type of a pack
	CTPackfile = "application/x-git-packed-objects"
	// CTPackIndex is content type of a pack index
	CTPackIndex = "application/x-git-packed-objects-toc"

	HeaderCacheControl = "Cache-Control"
	HeaderExpires      = "Expires"
	HeaderPragma       = "Pragma"
	HeaderRequestID    = "X-Request-Id"

	ServiceUploadPack  = "git-upload-pack"
	ServiceReceivePack = "git-receive-pack"
)

var (
	patTextFile    = regexp.MustCompile(`^/(?P<repo>.+)/(?P<file>HEAD|info/refs|objects/info/(?:packs|alternates|http-alternates))$`)
	patLooseObject = regexp.MustCompile(`^/(?P<repo>.+)/(?P<file>objects/[0-9a-f]{2}/[0-9a-f]{38})$`)
	patPack        = regexp.MustCompile(`^/(?P<repo>.+)/(?P<file>objects/pack/pack-[0-9a-f]{40}\.(?P<ext>pack|idx))$`)
	patService     = regexp.MustCompile(`^/(?P<repo>.+)/(?P<service>git-upload-pack|git-receive-pack)$`)
)
