package abi

import (
	"fmt"
	"math/big"
	"reflect"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// RevertReason is a decoded revert payload.
type RevertReason struct {
	// Name is "Error", "Panic" or the custom error name. Empty when the payload matched
	// nothing known.
	Name      string
	Signature string
	Selector  [4]byte
	Args      []any
	// Message is the Error(string) message or the description of a panic code.
	Message   string
	PanicCode *big.Int
	Raw       []byte
}

// Recognized reports whether the payload was decoded.
func (r *RevertReason) Recognized() bool {
	return r != nil && r.Name != ""
}

func (r *RevertReason) String() string {
	switch {
	case r == nil:
		return ""
	case r.Name == "Error":
		return r.Message
	case r.Name == "Panic" && strings.HasPrefix(r.Message, "unknown panic code"):
		return "panic: " + r.Message
	case r.Name == "Panic":
		return fmt.Sprintf("panic: %s (0x%x)", r.Message, r.PanicCode)
	case r.Name != "":
		args := make([]string, len(r.Args))
		for i, a := range r.Args {
			args[i] = fmt.Sprintf("%v", JSONValue(a))
		}

		return fmt.Sprintf("%s(%s)", r.Name, strings.Join(args, ", "))
	case len(r.Raw) == 0:
		return "execution reverted"
	default:
		return "execution reverted (unrecognized revert data " + hexutil.Encode(r.Raw) + ")"
	}
}

// DecodeRevert decodes revert data: Error(string) and Panic(uint256) first, then the custom
// errors of set in declaration order. It returns nil for empty data; unrecognized data
// yields a RevertReason with an empty Name and Raw left untouched.
func DecodeRevert(set Set, data []byte) *RevertReason {
	if len(data) == 0 {
		return nil
	}

	reason := &RevertReason{Raw: data}
	if len(data) < len(reason.Selector) {
		return reason
	}
	copy(reason.Selector[:], data[:4])

	switch reason.Selector {
	case ErrorSelector:
		if msg, err := gethabi.UnpackRevert(data); err == nil {
			reason.Name, reason.Signature, reason.Message = "Error", "Error(string)", msg
			reason.Args = []any{msg}

			return reason
		}
	case PanicSelector:
		if msg, err := gethabi.UnpackRevert(data); err == nil {
			code := new(big.Int).SetBytes(data[4 : 4+wordSize])
			reason.Name, reason.Signature, reason.Message = "Panic", "Panic(uint256)", msg
			reason.PanicCode, reason.Args = code, []any{new(big.Int).Set(code)}

			return reason
		}
	}

	for _, e := range set.Errors() {
		if e.Selector() != reason.Selector {
			continue
		}
		args, err := unpackError(e, data)
		if err != nil {
			continue
		}
		reason.Name, reason.Signature, reason.Args = e.Name, e.Signature(), args

		return reason
	}

	return reason
}

// unpackError decodes data, selector included, as custom error e.
func unpackError(e Descriptor, data []byte) ([]any, error) {
	slots := make([]slot, len(e.Inputs))
	for i := range e.Inputs {
		slots[i] = slot{typ: &e.Inputs[i].Type, components: e.Inputs[i].Components, path: argPath(e.Inputs, i)}
	}
	if err := checkSequence(slots, data[4:], 4); err != nil {
		return nil, err
	}

	errDef := gethabi.NewError(e.Name, arguments(e.Inputs))
	unpacked, err := errDef.Unpack(data)
	if err != nil {
		return nil, err
	}

	raw, ok := unpacked.([]any)
	if !ok || len(raw) != len(e.Inputs) {
		return nil, fmt.Errorf("unexpected unpacked error value %T", unpacked)
	}

	args := make([]any, len(raw))
	for i := range raw {
		args[i] = fromNative(&e.Inputs[i].Type, e.Inputs[i].Components, reflect.ValueOf(raw[i]))
	}

	return args, nil
}
