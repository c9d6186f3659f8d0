package qstore

import (
	"errors"
	"fmt"
)

/*
ErrorCode classifies a failed call. The numeric values follow the contract
call convention where an absent record is reported as 404.
*/
type ErrorCode int

const (
	CodeInvalidArguments ErrorCode = 400 // Boundary only: wrong arity or argument type
	CodeNotFound         ErrorCode = 404 // Referenced state or measurement does not exist
	CodeUnknownMethod    ErrorCode = 405 // Boundary only: unrecognized operation name
)

func (code ErrorCode) String() string {
	switch code {
	case CodeInvalidArguments:
		return "InvalidArguments"
	case CodeNotFound:
		return "NotFound"
	case CodeUnknownMethod:
		return "UnknownMethod"
	default:
		return fmt.Sprintf("ErrorCode(%d)", int(code))
	}
}

// Entity names the record kind an error refers to.
type Entity string

const (
	EntityQuantumState Entity = "quantum-state"
	EntityMeasurement  Entity = "measurement"
)

/*
Error is the single typed failure produced by the stores and the dispatcher.
Two errors are considered equal by errors.Is when their codes match, so
callers can test against ErrNotFound without caring about the id.
*/
type Error struct {
	Code    ErrorCode
	Op      string
	Entity  Entity
	ID      uint64
	Message string
}

// ErrNotFound matches any Error carrying CodeNotFound.
var ErrNotFound = &Error{Code: CodeNotFound}

// ErrUnknownMethod matches any Error carrying CodeUnknownMethod.
var ErrUnknownMethod = &Error{Code: CodeUnknownMethod}

// ErrInvalidArguments matches any Error carrying CodeInvalidArguments.
var ErrInvalidArguments = &Error{Code: CodeInvalidArguments}

func (e *Error) Error() string {
	switch {
	case e.Message != "":
		return fmt.Sprintf("%s: %s: %s", e.Op, e.Code, e.Message)
	case e.Entity != "":
		return fmt.Sprintf("%s: %s %d: %s", e.Op, e.Entity, e.ID, e.Code)
	default:
		return e.Code.String()
	}
}

func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.Code == t.Code
}

func notFound(op string, entity Entity, id uint64) *Error {
	return &Error{Code: CodeNotFound, Op: op, Entity: entity, ID: id}
}

/*
CodeOf extracts the ErrorCode from err. It returns 0 for nil and for errors
that did not originate here.
*/
func CodeOf(err error) ErrorCode {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return 0
}
