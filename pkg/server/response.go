// SPDX-License-Identifier: Apache-2.0
// Copyright © 2023 Wrangle Ltd

package server

import (
	"encoding/json"
	"net/http"
)

type Error struct {
	// Message is always present if there's an error.
	Message string `json:"message,omitempty"`
}

func SendError(rw http.ResponseWriter, code int, message string) {
	rw.Header().Set("Content-Type", CTJSON)
	rw.WriteHeader(code)
	b, err := json.Marshal(&Error{
		Message: message,
	})
	if err != nil {
		panic(err)
	}
	_, err = rw.Write(b)
	if err != nil {
		panic(err)
	}
}

func SendHTTPError(rw http.ResponseWriter, code int) {
	SendError(rw, code, http.StatusText(code))
}
