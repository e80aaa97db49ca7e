package abi

import (
	"fmt"
	"slices"
	"strings"

	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
)

// Resolve selects the function of set that a read of functionName with args targets.
//
// functionName is either a bare name or a canonical signature such as
// "balanceOf(address)". Only view and pure functions are eligible. When several overloads
// take len(args) arguments, the candidates every argument coerces to are ranked by how many
// arguments already have the canonical Go representation of their parameter type; the
// single best candidate wins and a tie is an AmbiguousOverloadError.
func Resolve(set Set, functionName string, args []any) (Descriptor, error) {
	name, bySignature := functionName, strings.Contains(functionName, "(")
	if bySignature {
		name = functionName[:strings.Index(functionName, "(")]
	}
	name = strings.TrimSpace(name)

	named := set.Functions(name)
	if bySignature {
		sig := normalizeSignature(functionName)
		named = slices.DeleteFunc(named, func(d Descriptor) bool { return d.Signature() != sig })
	}
	if len(named) == 0 {
		return Descriptor{}, sdkerrors.NewFunctionNotFoundError(functionName, len(args), "")
	}

	readable := slices.DeleteFunc(slices.Clone(named), func(d Descriptor) bool { return !d.IsReadOnly() })
	if len(readable) == 0 {
		return Descriptor{}, sdkerrors.NewFunctionNotFoundError(functionName, len(args),
			fmt.Sprintf("%s is %s; only view and pure functions can be read", named[0].Signature(), named[0].StateMutability))
	}

	candidates := slices.DeleteFunc(slices.Clone(readable), func(d Descriptor) bool { return len(d.Inputs) != len(args) })
	switch len(candidates) {
	case 0:
		return Descriptor{}, sdkerrors.NewFunctionNotFoundError(functionName, len(args),
			fmt.Sprintf("no overload takes %d arguments (have %s)", len(args), signatures(readable)))
	case 1:
		return candidates[0], nil
	}

	best, bestScore := []Descriptor(nil), -1
	for _, c := range candidates {
		score, ok := matchScore(c, args)
		switch {
		case !ok:
			continue
		case score > bestScore:
			best, bestScore = []Descriptor{c}, score
		case score == bestScore:
			best = append(best, c)
		}
	}

	switch len(best) {
	case 0:
		return Descriptor{}, sdkerrors.NewEncodingError("args", name, args,
			"arguments match none of the overloads "+signatures(candidates))
	case 1:
		return best[0], nil
	default:
		return Descriptor{}, sdkerrors.NewAmbiguousOverloadError(functionName, sigList(best))
	}
}

// matchScore counts the arguments already in canonical form; ok is false when an argument
// does not coerce at all.
func matchScore(fn Descriptor, args []any) (int, bool) {
	score := 0
	for i := range fn.Inputs {
		_, exact, err := coerce(&fn.Inputs[i].Type, fn.Inputs[i].Components, args[i], argPath(fn.Inputs, i))
		if err != nil {
			return 0, false
		}
		if exact {
			score++
		}
	}

	return score, true
}

func sigList(fns []Descriptor) []string {
	sigs := make([]string, len(fns))
	for i, fn := range fns {
		sigs[i] = fn.Signature()
	}

	return sigs
}

func signatures(fns []Descriptor) string {
	return strings.Join(sigList(fns), ", ")
}
