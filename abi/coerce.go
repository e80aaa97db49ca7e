package abi

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"strings"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cast"

	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
)

var addressType = reflect.TypeOf(common.Address{})

// coerce converts v into the canonical Go representation of t (the same representation
// the decoder produces). components carries the declared tuple member names. exact reports
// whether v already had that representation, which the resolver uses to rank overloads.
func coerce(t *gethabi.Type, components []Parameter, v any, path string) (canonical any, exact bool, err error) {
	if v == nil {
		return nil, false, sdkerrors.NewEncodingError(path, t.String(), v, "missing value")
	}

	switch t.T {
	case gethabi.IntTy, gethabi.UintTy:
		return coerceInteger(t, v, path)
	case gethabi.BoolTy:
		return coerceBool(t, v, path)
	case gethabi.AddressTy:
		return coerceAddress(t, v, path)
	case gethabi.StringTy:
		s, ok := v.(string)
		if !ok {
			return nil, false, mismatch(t, v, path, "string")
		}

		return s, true, nil
	case gethabi.BytesTy:
		return coerceBytes(t, v, path)
	case gethabi.FixedBytesTy:
		return coerceFixedBytes(t, v, t.Size, path)
	case gethabi.FunctionTy:
		return coerceFixedBytes(t, v, functionSize, path)
	case gethabi.SliceTy, gethabi.ArrayTy:
		return coerceList(t, components, v, path)
	case gethabi.TupleTy:
		return coerceTuple(t, components, v, path)
	case gethabi.FixedPointTy, gethabi.HashTy:
		return nil, false, sdkerrors.NewEncodingError(path, t.String(), v, "type is not supported")
	default:
		return nil, false, sdkerrors.NewEncodingError(path, t.String(), v, fmt.Sprintf("unknown type tag %d", t.T))
	}
}

func coerceInteger(t *gethabi.Type, v any, path string) (any, bool, error) {
	n, exact, err := toBigInt(t, v)
	if err != nil {
		return nil, false, &sdkerrors.EncodingError{
			Path: path, Type: t.String(), Value: v, Reason: "not an integer", Err: err,
		}
	}

	if reason := integerRangeError(t, n); reason != "" {
		return nil, false, sdkerrors.NewEncodingError(path, t.String(), v, reason)
	}

	return n, exact, nil
}

func toBigInt(t *gethabi.Type, v any) (*big.Int, bool, error) {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil, false, fmt.Errorf("nil %T", x)
		}

		return new(big.Int).Set(x), true, nil
	case bool:
		return nil, false, fmt.Errorf("%T is not a number", x)
	case string:
		return parseBigInt(x)
	case json.Number:
		return parseBigInt(x.String())
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		exact := t.T == gethabi.IntTy && rv.Type().Bits() == t.Size

		return big.NewInt(rv.Int()), exact, nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		exact := t.T == gethabi.UintTy && rv.Type().Bits() == t.Size

		return new(big.Int).SetUint64(rv.Uint()), exact, nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) {
			return nil, false, fmt.Errorf("%v is not an integral number", f)
		}
		n, _ := new(big.Float).SetFloat64(f).Int(nil)

		return n, false, nil
	default:
		// Covers fmt.Stringer implementations such as holiman/uint256 and decimal types.
		s, err := cast.ToStringE(v)
		if err != nil {
			return nil, false, err
		}

		return parseBigInt(s)
	}
}

// parseBigInt accepts decimal and 0x/0o/0b prefixed strings.
func parseBigInt(s string) (*big.Int, bool, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 0)
	if !ok {
		return nil, false, fmt.Errorf("cannot parse %q as an integer", s)
	}

	return n, false, nil
}

// integerRangeError returns a non-empty reason when n does not fit t.
func integerRangeError(t *gethabi.Type, n *big.Int) string {
	if t.T == gethabi.UintTy {
		if n.Sign() < 0 {
			return fmt.Sprintf("negative value %s for %s", n, t)
		}
		if n.BitLen() > t.Size {
			return fmt.Sprintf("value %s overflows %s", n, t)
		}

		return ""
	}

	limit := new(big.Int).Lsh(big.NewInt(1), uint(t.Size-1)) //nolint:gosec // sizes are 8..256
	if n.Sign() >= 0 && n.Cmp(limit) >= 0 {
		return fmt.Sprintf("value %s overflows %s", n, t)
	}
	if n.Sign() < 0 && new(big.Int).Neg(n).Cmp(limit) > 0 {
		return fmt.Sprintf("value %s underflows %s", n, t)
	}

	return ""
}

func coerceBool(t *gethabi.Type, v any, path string) (any, bool, error) {
	switch x := v.(type) {
	case bool:
		return x, true, nil
	case string:
		b, err := cast.ToBoolE(strings.TrimSpace(x))
		if err != nil {
			return nil, false, &sdkerrors.EncodingError{
				Path: path, Type: t.String(), Value: v, Reason: "not a boolean", Err: err,
			}
		}

		return b, false, nil
	default:
		return nil, false, mismatch(t, v, path, "bool")
	}
}

func coerceAddress(t *gethabi.Type, v any, path string) (any, bool, error) {
	switch x := v.(type) {
	case common.Address:
		return x, true, nil
	case *common.Address:
		if x == nil {
			return nil, false, sdkerrors.NewEncodingError(path, t.String(), v, "missing value")
		}

		return *x, true, nil
	case [common.AddressLength]byte:
		return common.Address(x), false, nil
	case []byte:
		if len(x) != common.AddressLength {
			return nil, false, sdkerrors.NewEncodingError(path, t.String(), v,
				fmt.Sprintf("expected %d bytes, got %d", common.AddressLength, len(x)))
		}

		return common.BytesToAddress(x), false, nil
	case string:
		s := strings.TrimSpace(x)
		if !common.IsHexAddress(s) {
			return nil, false, sdkerrors.NewEncodingError(path, t.String(), v, "invalid hex address")
		}
		addr := common.HexToAddress(s)
		if !validChecksum(s, addr) {
			return nil, false, sdkerrors.NewEncodingError(path, t.String(), v, "address has an invalid EIP-55 checksum")
		}

		return addr, false, nil
	default:
		return nil, false, mismatch(t, v, path, "address")
	}
}

// validChecksum only checks mixed-case input; all lower or all upper case carries no checksum.
func validChecksum(s string, addr common.Address) bool {
	hex := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	if hex == strings.ToLower(hex) || hex == strings.ToUpper(hex) {
		return true
	}

	return hex == strings.TrimPrefix(addr.Hex(), "0x")
}

func coerceBytes(t *gethabi.Type, v any, path string) (any, bool, error) {
	b, exact, err := toBytes(v)
	if err != nil {
		return nil, false, &sdkerrors.EncodingError{
			Path: path, Type: t.String(), Value: v, Reason: "not a byte string", Err: err,
		}
	}

	return b, exact, nil
}

func coerceFixedBytes(t *gethabi.Type, v any, size int, path string) (any, bool, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		if rv.Len() != size {
			return nil, false, sdkerrors.NewEncodingError(path, t.String(), v,
				fmt.Sprintf("expected %d bytes, got %d", size, rv.Len()))
		}
		b := make([]byte, size)
		reflect.Copy(reflect.ValueOf(b), rv)

		// An address is a byte array too but belongs to the address type.
		return b, rv.Type() != addressType, nil
	}

	b, exact, err := toBytes(v)
	if err != nil {
		return nil, false, &sdkerrors.EncodingError{
			Path: path, Type: t.String(), Value: v, Reason: "not a byte string", Err: err,
		}
	}
	if len(b) != size {
		return nil, false, sdkerrors.NewEncodingError(path, t.String(), v,
			fmt.Sprintf("expected %d bytes, got %d", size, len(b)))
	}

	return b, exact, nil
}

func toBytes(v any) ([]byte, bool, error) {
	switch x := v.(type) {
	case []byte:
		return common.CopyBytes(x), true, nil
	case hexutil.Bytes:
		return common.CopyBytes(x), true, nil
	case string:
		b, err := hexutil.Decode(strings.TrimSpace(x))
		if err != nil {
			return nil, false, err
		}

		return b, false, nil
	default:
		return nil, false, fmt.Errorf("unsupported Go type %T", v)
	}
}

func coerceList(t *gethabi.Type, components []Parameter, v any, path string) (any, bool, error) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
		return nil, false, mismatch(t, v, path, "list")
	}
	if t.T == gethabi.ArrayTy && rv.Len() != t.Size {
		return nil, false, sdkerrors.NewEncodingError(path, t.String(), v,
			fmt.Sprintf("expected %d elements, got %d", t.Size, rv.Len()))
	}

	exact := true
	out := make([]any, rv.Len())
	for i := range out {
		elem, elemExact, err := coerce(t.Elem, components, rv.Index(i).Interface(), fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, false, err
		}
		out[i] = elem
		exact = exact && elemExact
	}

	return out, exact, nil
}

func coerceTuple(t *gethabi.Type, components []Parameter, v any, path string) (any, bool, error) {
	names := memberNames(t, components)
	values, err := tupleValues(t, names, v, path)
	if err != nil {
		return nil, false, err
	}

	exact := true
	out := Tuple{Names: names, Values: make([]any, len(t.TupleElems))}
	for i, elem := range t.TupleElems {
		val, valExact, err := coerce(elem, memberComponents(components, i), values[i], memberPath(path, names, i))
		if err != nil {
			return nil, false, err
		}
		out.Values[i] = val
		exact = exact && valExact
	}

	return out, exact, nil
}

// tupleValues lines up the members of v with the tuple components. Maps and structs are
// matched by member name, so unnamed members can only be given positionally.
func tupleValues(t *gethabi.Type, names []string, v any, path string) ([]any, error) {
	var values []any
	switch x := v.(type) {
	case Tuple:
		values = x.Values
	case []any:
		values = x
	case map[string]any:
		values = make([]any, len(names))
		for i, name := range names {
			if name == "" {
				return nil, sdkerrors.NewEncodingError(path, t.String(), v,
					fmt.Sprintf("member %d has no name; pass the tuple as a list", i))
			}
			val, ok := x[name]
			if !ok {
				return nil, sdkerrors.NewEncodingError(path, t.String(), v, fmt.Sprintf("missing member %q", name))
			}
			values[i] = val
		}
	default:
		rv := reflect.Indirect(reflect.ValueOf(v))
		if rv.Kind() != reflect.Struct {
			return nil, mismatch(t, v, path, "tuple")
		}
		values = make([]any, len(names))
		for i, name := range names {
			var field reflect.Value
			if name == "" {
				if i < rv.NumField() {
					field = rv.Field(i)
				}
			} else {
				field = rv.FieldByName(gethabi.ToCamelCase(name))
			}
			if !field.IsValid() || !field.CanInterface() {
				return nil, sdkerrors.NewEncodingError(path, t.String(), v,
					fmt.Sprintf("struct has no exported field for member %d %q", i, name))
			}
			values[i] = field.Interface()
		}
	}

	if len(values) != len(t.TupleElems) {
		return nil, sdkerrors.NewEncodingError(path, t.String(), v,
			fmt.Sprintf("expected %d members, got %d", len(t.TupleElems), len(values)))
	}

	return values, nil
}

// memberPath extends path with a tuple member: ".name", or ".<index>" when unnamed.
func memberPath(path string, names []string, i int) string {
	if names[i] == "" {
		return fmt.Sprintf("%s.%d", path, i)
	}

	return path + "." + names[i]
}

func mismatch(t *gethabi.Type, v any, path, want string) error {
	return sdkerrors.NewEncodingError(path, t.String(), v, fmt.Sprintf("cannot use %T as %s", v, want))
}
