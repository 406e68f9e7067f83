// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package m4

import (
	"fmt"

	"github.com/pkg/errors"
)

// DecodeError reports a malformed commitment.
type DecodeError struct {
	msg string
}

func (e *DecodeError) Error() string {
	return "decode commitment: " + e.msg
}

func decodeErrorf(format string, args ...any) error {
	return &DecodeError{msg: fmt.Sprintf(format, args...)}
}

// IsDecodeError returns whether the cause of err is a DecodeError.
func IsDecodeError(err error) bool {
	_, ok := errors.Cause(err).(*DecodeError)
	return ok
}
