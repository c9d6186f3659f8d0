package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/theapemachine/qstore"
)

// Exit codes for CLI commands.
const (
	ExitSuccess      = 0 // Successful execution
	ExitFailure      = 1 // One or more calls returned a failure
	ExitCommandError = 2 // Command error (unreadable script, bad flags, malformed line)
)

// ExitError represents an error with a specific exit code.
type ExitError struct {
	Code    int
	Message string
	Err     error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

func NewExitError(code int, message string) *ExitError {
	return &ExitError{Code: code, Message: message}
}

func WrapExitError(code int, message string, err error) *ExitError {
	return &ExitError{Code: code, Message: message, Err: err}
}

// GetExitCode extracts the exit code from an error.
// Returns ExitFailure (1) if the error is not an ExitError.
func GetExitCode(err error) int {
	if err == nil {
		return ExitSuccess
	}
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}

// OutputFormatter handles JSON vs text output for CLI commands.
type OutputFormatter struct {
	Format    string
	Writer    io.Writer
	ErrWriter io.Writer // Verbose/diagnostic output (defaults to Writer)
	Verbose   bool
}

// CallResponse is the JSON line written for every dispatched call.
type CallResponse struct {
	Line   int        `json:"line"`
	Method string     `json:"method"`
	Status string     `json:"status"` // "ok" or "error"
	Value  any        `json:"value,omitempty"`
	Error  *CallError `json:"error,omitempty"`
}

// CallError is the error structure for a failed call.
type CallError struct {
	Code    int    `json:"code"`
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// Result outputs one call result in the configured format.
func (f *OutputFormatter) Result(line int, method string, result qstore.Result) error {
	if f.Format == "json" {
		response := CallResponse{Line: line, Method: method, Status: "ok", Value: result.Value}
		if !result.Success() {
			response.Status = "error"
			response.Value = nil
			response.Error = &CallError{
				Code:    int(result.Err.Code),
				Kind:    result.Err.Code.String(),
				Message: result.Err.Error(),
			}
		}
		return json.NewEncoder(f.Writer).Encode(response)
	}

	if !result.Success() {
		_, err := fmt.Fprintf(f.Writer, "%d %s error [%d %s]: %s\n",
			line, method, int(result.Err.Code), result.Err.Code, result.Err.Error())
		return err
	}

	if result.Value == nil {
		_, err := fmt.Fprintf(f.Writer, "%d %s ok\n", line, method)
		return err
	}

	_, err := fmt.Fprintf(f.Writer, "%d %s ok %s\n", line, method, textValue(result.Value))
	return err
}

func textValue(value any) string {
	switch v := value.(type) {
	case qstore.QuantumState:
		return fmt.Sprintf("id=%d label=%q superposition=%t", v.ID, v.Label, v.Superposition)
	case qstore.Measurement:
		return fmt.Sprintf("id=%d quantum_state_id=%d result=%s timestamp=%d",
			v.ID, v.QuantumStateID, v.Result, v.Timestamp.UnixMilli())
	default:
		return fmt.Sprint(v)
	}
}

// Event writes a store event to ErrWriter so it never mixes with call results.
func (f *OutputFormatter) Event(event qstore.Event) error {
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}

	if f.Format == "json" {
		return json.NewEncoder(w).Encode(event)
	}

	var err error
	switch event.Kind {
	case qstore.EventMeasurementRecorded:
		var measurementID uint64
		if event.MeasurementID != nil {
			measurementID = *event.MeasurementID
		}
		_, err = fmt.Fprintf(w, "event %s state=%d measurement=%d result=%s\n",
			event.Kind, event.QuantumStateID, measurementID, event.Result)
	default:
		_, err = fmt.Fprintf(w, "event %s state=%d label=%q\n",
			event.Kind, event.QuantumStateID, event.Label)
	}
	return err
}

// VerboseLog outputs a message only if verbose mode is enabled.
func (f *OutputFormatter) VerboseLog(format string, args ...interface{}) {
	if !f.Verbose {
		return
	}
	w := f.ErrWriter
	if w == nil {
		w = f.Writer
	}
	fmt.Fprintf(w, format+"\n", args...)
}
