package abi

import (
	"bytes"
	"encoding/json"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Tuple is an ordered structure of values: a decoded ABI tuple, or the result of a
// function with several outputs. Names may be empty for unnamed members.
type Tuple struct {
	Names  []string
	Values []any
}

// Len returns the number of members.
func (t Tuple) Len() int {
	return len(t.Values)
}

// Field returns the value of the member called name.
func (t Tuple) Field(name string) (any, bool) {
	for i, n := range t.Names {
		if n == name && i < len(t.Values) {
			return t.Values[i], true
		}
	}

	return nil, false
}

// MarshalJSON renders the tuple as an object when every member has a distinct name and as
// an array otherwise. Object keys keep declaration order.
func (t Tuple) MarshalJSON() ([]byte, error) {
	if !t.named() {
		return json.Marshal(t.Values)
	}

	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, name := range t.Names {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(name)
		if err != nil {
			return nil, err
		}
		val, err := json.Marshal(t.Values[i])
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.Write(val)
	}
	buf.WriteByte('}')

	return buf.Bytes(), nil
}

func (t Tuple) named() bool {
	if len(t.Names) != len(t.Values) {
		return false
	}
	seen := make(map[string]bool, len(t.Names))
	for _, n := range t.Names {
		if n == "" || seen[n] {
			return false
		}
		seen[n] = true
	}

	return true
}

// JSONValue converts a decoded value into a form whose JSON rendering is lossless and
// readable: integers become decimal strings and byte slices 0x-prefixed hex.
func JSONValue(v any) any {
	switch x := v.(type) {
	case *big.Int:
		if x == nil {
			return nil
		}

		return x.String()
	case []byte:
		return hexutil.Bytes(x)
	case common.Address:
		return x.Hex()
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = JSONValue(e)
		}

		return out
	case Tuple:
		out := Tuple{Names: x.Names, Values: make([]any, len(x.Values))}
		for i, e := range x.Values {
			out.Values[i] = JSONValue(e)
		}

		return out
	default:
		return v
	}
}
