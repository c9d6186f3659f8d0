package qstore

/*
Result is the tagged outcome of a dispatched call. A successful Result
carries a value, which may be nil for operations that return nothing. A
failed Result carries a typed *Error and no value.
*/
type Result struct {
	Value any
	Err   *Error
}

// Ok wraps a success value.
func Ok(value any) Result {
	return Result{Value: value}
}

// Fail wraps a typed failure.
func Fail(err *Error) Result {
	return Result{Err: err}
}

// Success is true for every Ok result, including one without a value.
func (r Result) Success() bool {
	return r.Err == nil
}

// Code returns the failure code, or 0 on success.
func (r Result) Code() ErrorCode {
	if r.Err == nil {
		return 0
	}
	return r.Err.Code
}

// AsError returns the failure as an error, keeping a nil interface on success.
func (r Result) AsError() error {
	if r.Err == nil {
		return nil
	}
	return r.Err
}
