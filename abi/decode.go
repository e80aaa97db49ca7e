package abi

import (
	"encoding/binary"
	"fmt"
	"math/big"
	"reflect"

	gethabi "github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"

	"github.com/smartcontractkit/readcontract/internal/utils/safecast"
	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
)

// tt256 is 2^256, used to sign-extend int words.
var tt256 = new(big.Int).Lsh(big.NewInt(1), 256)

// DecodeResult decodes the return data of fn. It returns nil when fn has no outputs, the
// value itself when fn has exactly one output and a Tuple named after the outputs otherwise.
func DecodeResult(fn Descriptor, data []byte) (any, error) {
	if len(fn.Outputs) == 0 {
		return nil, nil
	}

	if len(data) == 0 {
		return nil, sdkerrors.NewDecodingError("outputs", typeList(fn.Outputs), 0,
			"empty return data; the address may not be a contract or may not implement "+fn.Signature())
	}

	values, err := Decode(fn.Outputs, data)
	if err != nil {
		return nil, err
	}

	if len(values) == 1 {
		return values[0], nil
	}

	return Tuple{Names: paramNames(fn.Outputs), Values: values}, nil
}

// Decode decodes data against params, one value per parameter. The layout is checked
// first, rejecting out of range offsets and lengths, dirty padding and integers wider than
// their type; go-ethereum then unpacks the values.
func Decode(params []Parameter, data []byte) ([]any, error) {
	slots := make([]slot, len(params))
	for i, p := range params {
		path := fmt.Sprintf("outputs[%d]", i)
		if p.Name != "" {
			path += " " + p.Name
		}
		slots[i] = slot{typ: &params[i].Type, components: p.Components, path: path}
	}

	if err := checkSequence(slots, data, 0); err != nil {
		return nil, err
	}

	unpacked, err := arguments(params).Unpack(data)
	if err != nil {
		return nil, &sdkerrors.DecodingError{
			Path: "outputs", Type: typeList(params), Reason: "unpack failed", Err: err,
		}
	}

	values := make([]any, len(params))
	for i := range params {
		values[i] = fromNative(&params[i].Type, params[i].Components, reflect.ValueOf(unpacked[i]))
	}

	return values, nil
}

// slot is one value of an encoded sequence.
type slot struct {
	typ        *gethabi.Type
	components []Parameter
	path       string
}

// checkSequence checks slots laid out head then tail starting at data[0]. base is the
// absolute position of data[0], used only for error reporting.
func checkSequence(slots []slot, data []byte, base int) error {
	offset := 0
	for _, s := range slots {
		size := headSize(s.typ)
		if offset+size > len(data) {
			return sdkerrors.NewDecodingError(s.path, s.typ.String(), base+offset,
				fmt.Sprintf("need %d bytes, have %d", size, len(data)-offset))
		}

		start := offset
		if isDynamic(s.typ) {
			ptr, err := readInt(data, offset, len(data), s, base)
			if err != nil {
				return err
			}
			start = ptr
		}

		if err := checkValue(s, data[start:], base+start); err != nil {
			return err
		}
		offset += size
	}

	return nil
}

func checkValue(s slot, data []byte, base int) error {
	t := s.typ

	switch t.T {
	case gethabi.IntTy, gethabi.UintTy:
		word, err := readWord(data, 0, s, base)
		if err != nil {
			return err
		}
		n := new(big.Int).SetBytes(word)
		if t.T == gethabi.IntTy && n.Bit(255) == 1 {
			n.Sub(n, tt256)
		}
		if reason := integerRangeError(t, n); reason != "" {
			return sdkerrors.NewDecodingError(s.path, t.String(), base, reason)
		}

		return nil
	case gethabi.BoolTy:
		word, err := readWord(data, 0, s, base)
		if err != nil {
			return err
		}
		if !allZero(word[:wordSize-1]) || word[wordSize-1] > 1 {
			return sdkerrors.NewDecodingError(s.path, t.String(), base, "boolean word is neither 0 nor 1")
		}

		return nil
	case gethabi.AddressTy:
		word, err := readWord(data, 0, s, base)
		if err != nil {
			return err
		}
		if !allZero(word[:wordSize-common.AddressLength]) {
			return sdkerrors.NewDecodingError(s.path, t.String(), base, "address word has nonzero upper bytes")
		}

		return nil
	case gethabi.FixedBytesTy, gethabi.FunctionTy:
		word, err := readWord(data, 0, s, base)
		if err != nil {
			return err
		}
		size := t.Size
		if t.T == gethabi.FunctionTy {
			size = functionSize
		}
		if !allZero(word[size:]) {
			return sdkerrors.NewDecodingError(s.path, t.String(), base, "nonzero padding after the value")
		}

		return nil
	case gethabi.StringTy, gethabi.BytesTy:
		_, err := readInt(data, 0, len(data)-wordSize, s, base)

		return err
	case gethabi.SliceTy:
		n, err := readInt(data, 0, maxElements(t.Elem, len(data)-wordSize), s, base)
		if err != nil {
			return err
		}

		return checkSequence(listSlots(s, n), data[wordSize:], base+wordSize)
	case gethabi.ArrayTy:
		return checkSequence(listSlots(s, t.Size), data, base)
	case gethabi.TupleTy:
		names := memberNames(t, s.components)
		slots := make([]slot, len(t.TupleElems))
		for i, elem := range t.TupleElems {
			slots[i] = slot{typ: elem, components: memberComponents(s.components, i), path: memberPath(s.path, names, i)}
		}

		return checkSequence(slots, data, base)
	default:
		return sdkerrors.NewDecodingError(s.path, t.String(), base, "type is not supported")
	}
}

func listSlots(s slot, n int) []slot {
	slots := make([]slot, n)
	for i := range slots {
		slots[i] = slot{typ: s.typ.Elem, components: s.components, path: fmt.Sprintf("%s[%d]", s.path, i)}
	}

	return slots
}

// maxElements bounds a decoded array length by what the remaining bytes could hold, so a
// corrupt length cannot trigger a huge allocation.
func maxElements(elem *gethabi.Type, remaining int) int {
	if remaining < 0 {
		return 0
	}

	size := headSize(elem)
	if size == 0 {
		return remaining
	}

	return remaining / size
}

func readWord(data []byte, at int, s slot, base int) ([]byte, error) {
	if at+wordSize > len(data) {
		return nil, sdkerrors.NewDecodingError(s.path, s.typ.String(), base+at,
			fmt.Sprintf("need %d bytes, have %d", wordSize, max(len(data)-at, 0)))
	}

	return data[at : at+wordSize], nil
}

// readInt reads an offset or length word and checks it against limit.
func readInt(data []byte, at, limit int, s slot, base int) (int, error) {
	word, err := readWord(data, at, s, base)
	if err != nil {
		return 0, err
	}

	if !allZero(word[:wordSize-8]) {
		return 0, sdkerrors.NewDecodingError(s.path, s.typ.String(), base+at, "offset or length does not fit in 64 bits")
	}

	n, err := safecast.Uint64ToIntBounded(binary.BigEndian.Uint64(word[wordSize-8:]), limit)
	if err != nil {
		return 0, sdkerrors.NewDecodingError(s.path, s.typ.String(), base+at,
			fmt.Sprintf("offset or length points outside the buffer: %v", err))
	}

	return n, nil
}

func allZero(b []byte) bool {
	for _, x := range b {
		if x != 0 {
			return false
		}
	}

	return true
}
