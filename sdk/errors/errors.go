package sdkerrors

import (
	"fmt"
	"strings"
)

// FunctionNotFoundError is returned when no function in the ABI can serve a read.
type FunctionNotFoundError struct {
	FunctionName string
	NumArgs      int
	Reason       string
}

func (e *FunctionNotFoundError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("function %q not found in ABI: %s", e.FunctionName, e.Reason)
	}

	return fmt.Sprintf("function %q not found in ABI", e.FunctionName)
}

func NewFunctionNotFoundError(functionName string, numArgs int, reason string) *FunctionNotFoundError {
	return &FunctionNotFoundError{FunctionName: functionName, NumArgs: numArgs, Reason: reason}
}

// AmbiguousOverloadError is returned when the arguments fit several overloads equally well.
type AmbiguousOverloadError struct {
	FunctionName string
	// Candidates holds the canonical signatures of the tied overloads in declaration order.
	Candidates []string
}

func (e *AmbiguousOverloadError) Error() string {
	return fmt.Sprintf("ambiguous call to %q: arguments match overloads %s; call it by signature instead",
		e.FunctionName, strings.Join(e.Candidates, ", "))
}

func NewAmbiguousOverloadError(functionName string, candidates []string) *AmbiguousOverloadError {
	return &AmbiguousOverloadError{FunctionName: functionName, Candidates: candidates}
}

// EncodingError is returned when a value does not fit the ABI type it is encoded as.
type EncodingError struct {
	// Path locates the value, e.g. "args[1].amounts[0]".
	Path   string
	Type   string
	Value  any
	Reason string
	Err    error
}

func (e *EncodingError) Error() string {
	msg := fmt.Sprintf("abi encoding error at %s (%s): %s", e.Path, e.Type, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *EncodingError) Unwrap() error {
	return e.Err
}

func NewEncodingError(path, abiType string, value any, reason string) *EncodingError {
	return &EncodingError{Path: path, Type: abiType, Value: value, Reason: reason}
}

// DecodingError is returned when return data does not match the declared output shape.
type DecodingError struct {
	Path   string
	Type   string
	Offset int
	Reason string
	Err    error
}

func (e *DecodingError) Error() string {
	msg := fmt.Sprintf("abi decoding error at %s (%s, offset %d): %s", e.Path, e.Type, e.Offset, e.Reason)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}

	return msg
}

func (e *DecodingError) Unwrap() error {
	return e.Err
}

func NewDecodingError(path, abiType string, offset int, reason string) *DecodingError {
	return &DecodingError{Path: path, Type: abiType, Offset: offset, Reason: reason}
}

// TransportError is the failure reported by a Caller. Data holds the raw revert payload
// when the node returned one.
type TransportError struct {
	Message string
	Data    []byte
	Err     error
}

func (e *TransportError) Error() string {
	switch {
	case e.Err != nil && e.Message != "" && e.Message != e.Err.Error():
		return fmt.Sprintf("transport error: %s: %v", e.Message, e.Err)
	case e.Err != nil:
		return fmt.Sprintf("transport error: %v", e.Err)
	default:
		return "transport error: " + e.Message
	}
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

func NewTransportError(err error, data []byte) *TransportError {
	te := &TransportError{Data: data, Err: err}
	if err != nil {
		te.Message = err.Error()
	}

	return te
}
