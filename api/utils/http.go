// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

// Package utils holds the plumbing shared by the API handlers.
package utils

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/pkg/errors"

	"github.com/mplatt8/mainchain/m4"
	"github.com/mplatt8/mainchain/mainchain"
)

// JSONContentType is set on every JSON response.
const JSONContentType = "application/json; charset=utf-8"

// statusError is answered with its status and its message as plain text.
type statusError struct {
	error
	status int
}

// HTTPError wraps cause so that it is responded with status.
func HTTPError(cause error, status int) error {
	return &statusError{cause, status}
}

// BadRequest wraps cause as a 400.
func BadRequest(cause error) error {
	return HTTPError(cause, http.StatusBadRequest)
}

var statusByKind = []struct {
	is     func(error) bool
	status int
}{
	{mainchain.IsNotFound, http.StatusNotFound},
	{mainchain.IsConflict, http.StatusConflict},
	{mainchain.IsCapacity, http.StatusBadRequest},
	{m4.IsDecodeError, http.StatusBadRequest},
}

// StatusError attaches the http status matching the kind of a database
// error. Unknown errors pass through and end up as 500.
func StatusError(err error) error {
	for _, k := range statusByKind {
		if k.is(err) {
			return HTTPError(err, k.status)
		}
	}
	return err
}

// HandlerFunc is an http.HandlerFunc that may fail.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// WrapHandlerFunc adapts f, answering its error with the attached status or
// 500 when there is none.
func WrapHandlerFunc(f HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		err := f(w, r)
		if err == nil {
			return
		}
		status := http.StatusInternalServerError
		var se *statusError
		if errors.As(err, &se) {
			status = se.status
		}
		http.Error(w, err.Error(), status)
	}
}

// ParseJSON decodes one JSON value from r, rejecting unknown fields.
func ParseJSON(r io.Reader, v any) error {
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}

// WriteJSON encodes obj as the response body.
func WriteJSON(w http.ResponseWriter, obj any) error {
	w.Header().Set("Content-Type", JSONContentType)
	return json.NewEncoder(w).Encode(obj)
}
