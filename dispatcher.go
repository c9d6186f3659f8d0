package qstore

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"github.com/theapemachine/errnie"
)

// Method names accepted by Dispatcher.Call.
const (
	MethodCreateQuantumState = "create-quantum-state"
	MethodUpdateQuantumState = "update-quantum-state"
	MethodGetQuantumState    = "get-quantum-state"
	MethodPerformMeasurement = "perform-measurement"
	MethodGetMeasurement     = "get-measurement"
)

type handler func(args []any) Result

/*
Dispatcher is the contract-call boundary in front of a Space. It maps method
names and loosely typed arguments onto the store operations and reports
every outcome as a tagged Result.
*/
type Dispatcher struct {
	space    *Space
	handlers map[string]handler
}

// NewDispatcher registers the five contract calls against space.
func NewDispatcher(space *Space) *Dispatcher {
	dispatcher := &Dispatcher{space: space}

	dispatcher.handlers = map[string]handler{
		MethodCreateQuantumState: dispatcher.createQuantumState,
		MethodUpdateQuantumState: dispatcher.updateQuantumState,
		MethodGetQuantumState:    dispatcher.getQuantumState,
		MethodPerformMeasurement: dispatcher.performMeasurement,
		MethodGetMeasurement:     dispatcher.getMeasurement,
	}

	return dispatcher
}

/*
Call dispatches method with args.

Parameters:
  - method: One of the Method* names
  - args: Positional arguments; ids may be any integer type, an integral
    float64 (as decoded from JSON) or a decimal string

Returns:
  - Result: The success value, or a failure coded CodeNotFound,
    CodeUnknownMethod or CodeInvalidArguments
*/
func (dispatcher *Dispatcher) Call(method string, args ...any) Result {
	var result Result

	if fn, ok := dispatcher.handlers[method]; ok {
		result = fn(args)
	} else {
		result = Fail(&Error{
			Code:    CodeUnknownMethod,
			Op:      method,
			Message: "unknown method",
		})
	}

	dispatcher.space.Metrics.recordCall(method, result)

	if dispatcher.space.config.Verbose {
		errnie.Info("Dispatcher.Call - %s %v -> value %v, err %v", method, args, result.Value, result.AsError())
	}

	return result
}

// Methods returns the supported method names in sorted order.
func (dispatcher *Dispatcher) Methods() []string {
	methods := make([]string, 0, len(dispatcher.handlers))
	for method := range dispatcher.handlers {
		methods = append(methods, method)
	}
	sort.Strings(methods)
	return methods
}

func (dispatcher *Dispatcher) createQuantumState(args []any) Result {
	if err := arity(MethodCreateQuantumState, args, 1); err != nil {
		return Fail(err)
	}

	label, err := labelArg(MethodCreateQuantumState, args[0])
	if err != nil {
		return Fail(err)
	}

	id := dispatcher.space.States.Create(label)
	dispatcher.space.Metrics.recordCreate()
	return Ok(id)
}

func (dispatcher *Dispatcher) updateQuantumState(args []any) Result {
	if err := arity(MethodUpdateQuantumState, args, 2); err != nil {
		return Fail(err)
	}

	id, err := idArg(MethodUpdateQuantumState, args[0])
	if err != nil {
		return Fail(err)
	}

	label, err := labelArg(MethodUpdateQuantumState, args[1])
	if err != nil {
		return Fail(err)
	}

	return fromError(nil, dispatcher.space.States.Update(id, label))
}

func (dispatcher *Dispatcher) getQuantumState(args []any) Result {
	if err := arity(MethodGetQuantumState, args, 1); err != nil {
		return Fail(err)
	}

	id, err := idArg(MethodGetQuantumState, args[0])
	if err != nil {
		return Fail(err)
	}

	state, getErr := dispatcher.space.States.Get(id)
	return fromError(state, getErr)
}

func (dispatcher *Dispatcher) performMeasurement(args []any) Result {
	if err := arity(MethodPerformMeasurement, args, 1); err != nil {
		return Fail(err)
	}

	stateID, err := idArg(MethodPerformMeasurement, args[0])
	if err != nil {
		return Fail(err)
	}

	id, measureErr := dispatcher.space.Measurements.PerformMeasurement(stateID)
	if measureErr != nil {
		return fromError(nil, measureErr)
	}

	if measurement, getErr := dispatcher.space.Measurements.Get(id); getErr == nil {
		dispatcher.space.Metrics.recordMeasurement(measurement.Result)
	}

	return Ok(id)
}

func (dispatcher *Dispatcher) getMeasurement(args []any) Result {
	if err := arity(MethodGetMeasurement, args, 1); err != nil {
		return Fail(err)
	}

	id, err := idArg(MethodGetMeasurement, args[0])
	if err != nil {
		return Fail(err)
	}

	measurement, getErr := dispatcher.space.Measurements.Get(id)
	return fromError(measurement, getErr)
}

// fromError turns a store return pair into a Result.
func fromError(value any, err error) Result {
	if err == nil {
		return Ok(value)
	}

	var e *Error
	if errors.As(err, &e) {
		return Fail(e)
	}

	return Fail(&Error{Code: CodeInvalidArguments, Message: err.Error()})
}

func arity(method string, args []any, want int) *Error {
	if len(args) == want {
		return nil
	}
	return invalidArgs(method, "expected %d argument(s), got %d", want, len(args))
}

func labelArg(method string, arg any) (string, *Error) {
	label, ok := arg.(string)
	if !ok {
		return "", invalidArgs(method, "label must be text, got %T", arg)
	}
	return label, nil
}

/*
idArg accepts the integer shapes an id can arrive in from Go callers, JSON
decoding and the command line.
*/
func idArg(method string, arg any) (uint64, *Error) {
	switch v := arg.(type) {
	case uint64:
		return v, nil
	case uint:
		return uint64(v), nil
	case uint32:
		return uint64(v), nil
	case int:
		if v >= 0 {
			return uint64(v), nil
		}
	case int64:
		if v >= 0 {
			return uint64(v), nil
		}
	case int32:
		if v >= 0 {
			return uint64(v), nil
		}
	case float64:
		if v >= 0 && v == math.Trunc(v) && v < math.MaxUint64 {
			return uint64(v), nil
		}
	case string:
		if id, err := strconv.ParseUint(v, 10, 64); err == nil {
			return id, nil
		}
	}

	return 0, invalidArgs(method, "id must be a non-negative integer, got %v (%T)", arg, arg)
}

func invalidArgs(method, format string, args ...any) *Error {
	return &Error{
		Code:    CodeInvalidArguments,
		Op:      method,
		Message: fmt.Sprintf(format, args...),
	}
}
