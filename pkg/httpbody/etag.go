// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package httpbody

import (
	"github.com/wrgl/httpbody/pkg/objectid"
)

// ETag returns the strong entity tag of content: the SHA1 object name in
// double quotes.
func ETag(content []byte) string {
	return formatETag(objectid.SHA1.MustSum(content))
}

func formatETag(id objectid.ID) string {
	return `"` + id.String() + `"`
}
