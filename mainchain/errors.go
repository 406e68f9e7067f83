// Copyright (c) 2026 The VeChainThor developers

// Distributed under the GNU Lesser General Public License v3.0 software license, see the accompanying
// file LICENSE or <https://www.gnu.org/licenses/lgpl-3.0.html>

package mainchain

import (
	"fmt"

	"github.com/pkg/errors"
)

// NotFoundError reports a missing height, slot or bundle. It is recoverable.
type NotFoundError struct {
	msg string
}

func (e *NotFoundError) Error() string { return e.msg }

// ConflictError reports data contradicting what is already stored.
type ConflictError struct {
	msg string
}

func (e *ConflictError) Error() string { return e.msg }

// CapacityError reports a slot outside the allowed range, or a full registry.
type CapacityError struct {
	msg string
}

func (e *CapacityError) Error() string { return e.msg }

// NotFoundf creates a NotFoundError.
func NotFoundf(format string, args ...any) error {
	return &NotFoundError{fmt.Sprintf(format, args...)}
}

// Conflictf creates a ConflictError.
func Conflictf(format string, args ...any) error {
	return &ConflictError{fmt.Sprintf(format, args...)}
}

// Capacityf creates a CapacityError.
func Capacityf(format string, args ...any) error {
	return &CapacityError{fmt.Sprintf(format, args...)}
}

// IsNotFound returns whether the cause of err is a NotFoundError.
func IsNotFound(err error) bool {
	_, ok := errors.Cause(err).(*NotFoundError)
	return ok
}

// IsConflict returns whether the cause of err is a ConflictError.
func IsConflict(err error) bool {
	_, ok := errors.Cause(err).(*ConflictError)
	return ok
}

// IsCapacity returns whether the cause of err is a CapacityError.
func IsCapacity(err error) bool {
	_, ok := errors.Cause(err).(*CapacityError)
	return ok
}
