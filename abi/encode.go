package abi

import (
	"fmt"
	"math/big"
	"reflect"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
)

const (
	// wordSize is the width of an ABI slot.
	wordSize = 32
	// functionSize is the width of an external function reference: address then selector.
	functionSize = 24
)

var bigIntType = reflect.TypeOf(&big.Int{})

// EncodeCall builds calldata for fn: its selector followed by the encoded args.
func EncodeCall(fn Descriptor, args []any) ([]byte, error) {
	encoded, err := Encode(fn.Inputs, args)
	if err != nil {
		return nil, err
	}

	sel := fn.Selector()

	return append(sel[:], encoded...), nil
}

// Encode encodes values against params. Each value is first coerced to the canonical
// representation of its parameter type, then packed by go-ethereum.
func Encode(params []Parameter, values []any) ([]byte, error) {
	if len(values) != len(params) {
		return nil, sdkerrors.NewEncodingError("args", typeList(params), values,
			fmt.Sprintf("expected %d values, got %d", len(params), len(values)))
	}

	native := make([]any, len(params))
	for i := range params {
		path := argPath(params, i)
		canonical, _, err := coerce(&params[i].Type, params[i].Components, values[i], path)
		if err != nil {
			return nil, err
		}

		rv, err := toNative(&params[i].Type, canonical)
		if err != nil {
			return nil, &sdkerrors.EncodingError{
				Path: path, Type: params[i].Type.String(), Value: values[i], Reason: "cannot build packer value", Err: err,
			}
		}
		native[i] = rv.Interface()
	}

	data, err := arguments(params).Pack(native...)
	if err != nil {
		return nil, &sdkerrors.EncodingError{
			Path: "args", Type: typeList(params), Value: values, Reason: "pack failed", Err: err,
		}
	}

	return data, nil
}

func argPath(params []Parameter, i int) string {
	if params[i].Name != "" {
		return fmt.Sprintf("args[%d] %s", i, params[i].Name)
	}

	return fmt.Sprintf("args[%d]", i)
}

// toNative converts a canonical value into the Go type go-ethereum packs for t:
// sized Go integers up to 64 bits, byte arrays for bytesN and generated structs for tuples.
func toNative(t *gethabi.Type, v any) (reflect.Value, error) {
	typ := t.GetType()

	switch t.T {
	case gethabi.IntTy, gethabi.UintTy:
		n, ok := v.(*big.Int)
		if !ok {
			return reflect.Value{}, unexpectedValue(t, v)
		}
		if typ == bigIntType {
			return reflect.ValueOf(new(big.Int).Set(n)), nil
		}
		out := reflect.New(typ).Elem()
		if t.T == gethabi.UintTy {
			out.SetUint(n.Uint64())
		} else {
			out.SetInt(n.Int64())
		}

		return out, nil
	case gethabi.BoolTy, gethabi.StringTy, gethabi.AddressTy:
		rv := reflect.ValueOf(v)
		if !rv.IsValid() || rv.Type() != typ {
			return reflect.Value{}, unexpectedValue(t, v)
		}

		return rv, nil
	case gethabi.BytesTy:
		b, ok := v.([]byte)
		if !ok {
			return reflect.Value{}, unexpectedValue(t, v)
		}

		return reflect.ValueOf(common.CopyBytes(b)), nil
	case gethabi.FixedBytesTy, gethabi.FunctionTy:
		b, ok := v.([]byte)
		if !ok || len(b) != typ.Len() {
			return reflect.Value{}, unexpectedValue(t, v)
		}
		out := reflect.New(typ).Elem()
		reflect.Copy(out, reflect.ValueOf(b))

		return out, nil
	case gethabi.SliceTy, gethabi.ArrayTy:
		list, ok := v.([]any)
		if !ok || (t.T == gethabi.ArrayTy && len(list) != t.Size) {
			return reflect.Value{}, unexpectedValue(t, v)
		}
		var out reflect.Value
		if t.T == gethabi.SliceTy {
			out = reflect.MakeSlice(typ, len(list), len(list))
		} else {
			out = reflect.New(typ).Elem()
		}
		for i, elem := range list {
			ev, err := toNative(t.Elem, elem)
			if err != nil {
				return reflect.Value{}, err
			}
			out.Index(i).Set(ev)
		}

		return out, nil
	case gethabi.TupleTy:
		tuple, ok := v.(Tuple)
		if !ok || len(tuple.Values) != len(t.TupleElems) {
			return reflect.Value{}, unexpectedValue(t, v)
		}
		out := reflect.New(typ).Elem()
		for i, elem := range t.TupleElems {
			ev, err := toNative(elem, tuple.Values[i])
			if err != nil {
				return reflect.Value{}, err
			}
			out.Field(i).Set(ev)
		}

		return out, nil
	default:
		return reflect.Value{}, fmt.Errorf("type %s is not supported", t)
	}
}

// fromNative converts a value unpacked by go-ethereum into its canonical representation.
// components carries the declared tuple member names.
func fromNative(t *gethabi.Type, components []Parameter, rv reflect.Value) any {
	switch t.T {
	case gethabi.IntTy, gethabi.UintTy:
		if n, ok := rv.Interface().(*big.Int); ok {
			return new(big.Int).Set(n)
		}
		if rv.CanInt() {
			return big.NewInt(rv.Int())
		}

		return new(big.Int).SetUint64(rv.Uint())
	case gethabi.BoolTy:
		return rv.Bool()
	case gethabi.StringTy:
		return rv.String()
	case gethabi.AddressTy:
		addr, _ := rv.Interface().(common.Address)

		return addr
	case gethabi.BytesTy:
		return common.CopyBytes(rv.Bytes())
	case gethabi.FixedBytesTy, gethabi.FunctionTy:
		b := make([]byte, rv.Len())
		for i := range b {
			b[i] = byte(rv.Index(i).Uint())
		}

		return b
	case gethabi.SliceTy, gethabi.ArrayTy:
		out := make([]any, rv.Len())
		for i := range out {
			out[i] = fromNative(t.Elem, components, rv.Index(i))
		}

		return out
	case gethabi.TupleTy:
		out := Tuple{Names: memberNames(t, components), Values: make([]any, len(t.TupleElems))}
		for i, elem := range t.TupleElems {
			out.Values[i] = fromNative(elem, memberComponents(components, i), rv.Field(i))
		}

		return out
	default:
		return rv.Interface()
	}
}

func unexpectedValue(t *gethabi.Type, v any) error {
	return fmt.Errorf("unexpected canonical value %T for %s", v, t)
}

// isDynamic reports whether t is encoded out of line in the tail section.
func isDynamic(t *gethabi.Type) bool {
	switch t.T {
	case gethabi.StringTy, gethabi.BytesTy, gethabi.SliceTy:
		return true
	case gethabi.ArrayTy:
		return isDynamic(t.Elem)
	case gethabi.TupleTy:
		for _, elem := range t.TupleElems {
			if isDynamic(elem) {
				return true
			}
		}

		return false
	default:
		return false
	}
}

// headSize is the number of bytes t occupies in the head section of its enclosing sequence.
func headSize(t *gethabi.Type) int {
	if isDynamic(t) {
		return wordSize
	}

	switch t.T {
	case gethabi.ArrayTy:
		return t.Size * headSize(t.Elem)
	case gethabi.TupleTy:
		size := 0
		for _, elem := range t.TupleElems {
			size += headSize(elem)
		}

		return size
	default:
		return wordSize
	}
}
