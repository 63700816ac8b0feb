// Package assignment implements the assignment engine (C6): create, bulk
// create, confirm/decline, and conflict checking for schedule assignments,
// all gated by the seven-step validation pipeline in validate.go.
package assignment

import "errors"

var (
	ErrNotFound            = errors.New("assignment: not found")
	ErrNotAssignedEmployee = errors.New("assignment: only the assigned employee may confirm or decline")
	ErrAlreadyTerminal     = errors.New("assignment: already in a terminal state")
	ErrConfirmWindowClosed = errors.New("assignment: confirmation window has closed")
	ErrDeclineNeedsReason  = errors.New("assignment: decline requires a reason")
)
