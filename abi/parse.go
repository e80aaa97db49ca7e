package abi

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

type entryMarshaling struct {
	Type            string                        `json:"type"`
	Name            string                        `json:"name"`
	StateMutability string                        `json:"stateMutability"`
	Constant        bool                          `json:"constant"`
	Payable         bool                          `json:"payable"`
	Inputs          []gethabi.ArgumentMarshaling `json:"inputs"`
	Outputs         []gethabi.ArgumentMarshaling `json:"outputs"`
}

// ParseJSON reads a JSON ABI, keeping the declaration order of its entries.
func ParseJSON(reader io.Reader) (Set, error) {
	var entries []entryMarshaling
	if err := json.NewDecoder(reader).Decode(&entries); err != nil {
		return nil, fmt.Errorf("failed to parse ABI JSON: %w", err)
	}

	set := make(Set, 0, len(entries))
	for i, e := range entries {
		d, err := newDescriptor(e)
		if err != nil {
			return nil, fmt.Errorf("ABI entry %d (%s %q): %w", i, e.Type, e.Name, err)
		}
		set = append(set, d)
	}

	return set, nil
}

// ParseJSONString is ParseJSON over an in-memory ABI.
func ParseJSONString(abiJSON string) (Set, error) {
	return ParseJSON(strings.NewReader(abiJSON))
}

// MustParseJSON is like ParseJSONString but panics on error. Intended for ABIs compiled
// into the binary.
func MustParseJSON(abiJSON string) Set {
	set, err := ParseJSONString(abiJSON)
	if err != nil {
		panic(err)
	}

	return set
}

func newDescriptor(e entryMarshaling) (Descriptor, error) {
	kind := Kind(e.Type)
	if kind == "" {
		kind = KindFunction
	}

	switch kind {
	case KindFunction, KindError, KindEvent, KindConstructor, KindFallback, KindReceive:
	default:
		return Descriptor{}, fmt.Errorf("unknown entry type %q", e.Type)
	}

	inputs, err := newParameters(e.Inputs)
	if err != nil {
		return Descriptor{}, fmt.Errorf("inputs: %w", err)
	}

	outputs, err := newParameters(e.Outputs)
	if err != nil {
		return Descriptor{}, fmt.Errorf("outputs: %w", err)
	}

	d := Descriptor{
		Kind:    kind,
		Name:    e.Name,
		Inputs:  inputs,
		Outputs: outputs,
	}
	if kind == KindFunction {
		d.StateMutability = stateMutability(e)
	}

	return d, nil
}

// stateMutability falls back to the pre-0.5 constant/payable flags when the field is absent.
func stateMutability(e entryMarshaling) StateMutability {
	switch {
	case e.StateMutability != "":
		return StateMutability(e.StateMutability)
	case e.Constant:
		return View
	case e.Payable:
		return Payable
	default:
		return NonPayable
	}
}

func newParameters(args []gethabi.ArgumentMarshaling) ([]Parameter, error) {
	if len(args) == 0 {
		return nil, nil
	}

	params := make([]Parameter, len(args))
	for i, arg := range args {
		typ, err := gethabi.NewType(arg.Type, arg.InternalType, positional(arg.Components))
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		components, err := newParameters(arg.Components)
		if err != nil {
			return nil, fmt.Errorf("parameter %d: %w", i, err)
		}
		params[i] = Parameter{Name: arg.Name, Type: typ, Indexed: arg.Indexed, Components: components}
	}

	return params, nil
}

// positional renames tuple components field0, field1, ... go-ethereum backs every tuple
// type with a Go struct and rejects anonymous, colliding or non-Go member names.
func positional(components []gethabi.ArgumentMarshaling) []gethabi.ArgumentMarshaling {
	if len(components) == 0 {
		return components
	}

	renamed := make([]gethabi.ArgumentMarshaling, len(components))
	for i, c := range components {
		c.Name = fmt.Sprintf("field%d", i)
		c.Components = positional(c.Components)
		renamed[i] = c
	}

	return renamed
}
