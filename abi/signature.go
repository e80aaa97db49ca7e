package abi

import (
	"strings"

	"github.com/ethereum/go-ethereum/crypto"
)

var (
	// ErrorSelector is the selector of the builtin Error(string) revert, 0x08c379a0.
	ErrorSelector = Selector("Error(string)")
	// PanicSelector is the selector of the builtin Panic(uint256) revert, 0x4e487b71.
	PanicSelector = Selector("Panic(uint256)")
)

// Signature builds the canonical signature of name over params: the name followed by the
// parenthesized, comma separated canonical parameter types without spaces.
func Signature(name string, params []Parameter) string {
	return name + typeList(params)
}

// Selector returns the first four bytes of the keccak256 hash of signature.
func Selector(signature string) [4]byte {
	var sel [4]byte
	copy(sel[:], crypto.Keccak256([]byte(signature))[:4])

	return sel
}

// normalizeSignature strips whitespace so user supplied signatures compare against
// canonical ones.
func normalizeSignature(sig string) string {
	return strings.Join(strings.Fields(sig), "")
}

func typeList(params []Parameter) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = p.Type.String()
	}

	return "(" + strings.Join(types, ",") + ")"
}
