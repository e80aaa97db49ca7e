// Package abi wraps go-ethereum's ABI packer over plain JSON argument lists. Tests use it to
// build fixtures (return data, revert payloads) straight from Go values.
package abi

import (
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/crypto"
)

// Encode is the equivalent of abi.encode over the JSON argument list abiStr,
// e.g. `[{"type":"uint256"},{"type":"string"}]`.
// See https://github.com/ethereum/go-ethereum/blob/420b78659bef661a83c5c442121b13f13288c09f/accounts/abi/packing_test.go#L31
func Encode(abiStr string, values ...any) ([]byte, error) {
	args, err := arguments(abiStr)
	if err != nil {
		return nil, err
	}

	return args.Pack(values...)
}

// Decode is the equivalent of abi.decode over the JSON argument list abiStr.
func Decode(abiStr string, data []byte) ([]any, error) {
	args, err := arguments(abiStr)
	if err != nil {
		return nil, err
	}

	return args.Unpack(data)
}

// EncodeWithSelector prefixes the encoding of values with the selector of signature. It
// builds calldata as well as custom error revert payloads.
func EncodeWithSelector(signature, abiStr string, values ...any) ([]byte, error) {
	encoded, err := Encode(abiStr, values...)
	if err != nil {
		return nil, err
	}

	return append(crypto.Keccak256([]byte(signature))[:4], encoded...), nil
}

// EncodeRevertString builds the revert payload of require(false, reason).
func EncodeRevertString(reason string) ([]byte, error) {
	return EncodeWithSelector("Error(string)", `[{"type":"string"}]`, reason)
}

func arguments(abiStr string) (abi.Arguments, error) {
	// Create a dummy method carrying the arguments
	def := fmt.Sprintf(`[{ "name" : "method", "type": "function", "inputs": %s}]`, abiStr)
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		return nil, err
	}

	return parsed.Methods["method"].Inputs, nil
}
