// Package abi models a contract ABI as an ordered descriptor set and implements the
// binary encoding used for read-only contract calls.
package abi

import (
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
)

// Kind is the type of an ABI entry.
type Kind string

const (
	KindFunction    Kind = "function"
	KindError       Kind = "error"
	KindEvent       Kind = "event"
	KindConstructor Kind = "constructor"
	KindFallback    Kind = "fallback"
	KindReceive     Kind = "receive"
)

// StateMutability is the declared mutability of a function.
type StateMutability string

const (
	Pure       StateMutability = "pure"
	View       StateMutability = "view"
	NonPayable StateMutability = "nonpayable"
	Payable    StateMutability = "payable"
)

// Parameter is a single typed input or output of an ABI entry.
type Parameter struct {
	Name    string
	Type    gethabi.Type
	Indexed bool
	// Components are the members of a tuple type, or of the tuple elements of an array
	// type, as declared. Type itself names its members positionally.
	Components []Parameter
}

// Descriptor is one entry of an ABI.
type Descriptor struct {
	Kind            Kind
	Name            string
	StateMutability StateMutability
	Inputs          []Parameter
	Outputs         []Parameter
}

// IsReadOnly reports whether the descriptor is a function that can be served by eth_call
// without a transaction.
func (d Descriptor) IsReadOnly() bool {
	return d.Kind == KindFunction && (d.StateMutability == View || d.StateMutability == Pure)
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (d Descriptor) Signature() string {
	return Signature(d.Name, d.Inputs)
}

// Selector returns the 4-byte selector of the canonical signature.
func (d Descriptor) Selector() [4]byte {
	return Selector(d.Signature())
}

// String renders the descriptor in human readable form.
func (d Descriptor) String() string {
	var b strings.Builder
	b.WriteString(string(d.Kind))
	b.WriteString(" ")
	b.WriteString(d.Signature())
	if d.Kind == KindFunction && d.StateMutability != NonPayable && d.StateMutability != "" {
		b.WriteString(" ")
		b.WriteString(string(d.StateMutability))
	}
	if len(d.Outputs) > 0 {
		b.WriteString(" returns ")
		b.WriteString(typeList(d.Outputs))
	}

	return b.String()
}

// Set is an ABI: its entries in declaration order. Order matters for overload
// resolution and for matching custom errors.
type Set []Descriptor

// Functions returns the functions named name in declaration order.
func (s Set) Functions(name string) []Descriptor {
	var fns []Descriptor
	for _, d := range s {
		if d.Kind == KindFunction && d.Name == name {
			fns = append(fns, d)
		}
	}

	return fns
}

// Errors returns the custom error descriptors in declaration order.
func (s Set) Errors() []Descriptor {
	var errs []Descriptor
	for _, d := range s {
		if d.Kind == KindError {
			errs = append(errs, d)
		}
	}

	return errs
}

// arguments converts params into go-ethereum arguments. Indexed is dropped since only
// function and error data is packed here.
func arguments(params []Parameter) gethabi.Arguments {
	args := make(gethabi.Arguments, len(params))
	for i, p := range params {
		args[i] = gethabi.Argument{Name: p.Name, Type: p.Type}
	}

	return args
}

// memberNames returns the declared member names of tuple type t; unnamed members are "".
func memberNames(t *gethabi.Type, components []Parameter) []string {
	if len(components) != len(t.TupleElems) {
		return make([]string, len(t.TupleElems))
	}

	return paramNames(components)
}

// memberComponents returns the components of the i-th member of a tuple.
func memberComponents(components []Parameter, i int) []Parameter {
	if i < len(components) {
		return components[i].Components
	}

	return nil
}

func paramNames(params []Parameter) []string {
	names := make([]string, len(params))
	for i, p := range params {
		names[i] = p.Name
	}

	return names
}
