package readcontract

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/readcontract/abi"
	sdkerrors "github.com/smartcontractkit/readcontract/sdk/errors"
)

func buildEncodeCmd(opts *rootOptions) *cobra.Command {
	var (
		functionName string
		args         []string
	)

	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Print the calldata of a function call",
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := loadABI(opts.abiPath)
			if err != nil {
				return err
			}

			callArgs, err := parseArgs(args)
			if err != nil {
				return err
			}

			fn, err := abi.Resolve(set, functionName, callArgs)
			if err != nil {
				return err
			}

			calldata, err := abi.EncodeCall(fn, callArgs)
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), hexutil.Encode(calldata))

			return err
		},
	}

	cmd.Flags().StringVar(&functionName, "function", "", "Function name or canonical signature")
	cmd.Flags().StringArrayVar(&args, "arg", nil, "Function argument, repeated in declaration order; arrays and tuples as JSON")
	_ = cmd.MarkFlagRequired("function")

	return cmd
}

func buildDecodeCmd(opts *rootOptions) *cobra.Command {
	var (
		functionName string
		data         string
		revert       bool
	)

	cmd := &cobra.Command{
		Use:   "decode",
		Short: "Decode the return data of a function, or revert data with --revert",
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := loadABI(opts.abiPath)
			if err != nil {
				return err
			}

			raw, err := hexutil.Decode(data)
			if err != nil {
				return fmt.Errorf("invalid --data: %w", err)
			}

			if revert {
				_, err = fmt.Fprintln(cmd.OutOrStdout(), abi.DecodeRevert(set, raw).String())
				return err
			}

			if functionName == "" {
				return errors.New("--function is required unless --revert is set")
			}

			fn, err := lookupFunction(set, functionName)
			if err != nil {
				return err
			}

			result, err := abi.DecodeResult(fn, raw)
			if err != nil {
				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&functionName, "function", "", "Function name or canonical signature")
	cmd.Flags().StringVar(&data, "data", "", "0x prefixed return or revert data")
	cmd.Flags().BoolVar(&revert, "revert", false, "Decode --data as revert data")
	_ = cmd.MarkFlagRequired("data")

	return cmd
}

// lookupFunction finds the function called name, or with the canonical signature name,
// without arguments to disambiguate overloads.
func lookupFunction(set abi.Set, name string) (abi.Descriptor, error) {
	sig := strings.ReplaceAll(name, " ", "")
	if idx := strings.Index(sig, "("); idx != -1 {
		for _, fn := range set.Functions(sig[:idx]) {
			if fn.Signature() == sig {
				return fn, nil
			}
		}

		return abi.Descriptor{}, sdkerrors.NewFunctionNotFoundError(name, 0, "no function with this signature")
	}

	fns := set.Functions(name)
	switch len(fns) {
	case 0:
		return abi.Descriptor{}, sdkerrors.NewFunctionNotFoundError(name, 0, "")
	case 1:
		return fns[0], nil
	default:
		candidates := make([]string, len(fns))
		for i, fn := range fns {
			candidates[i] = fn.Signature()
		}

		return abi.Descriptor{}, sdkerrors.NewAmbiguousOverloadError(name, candidates)
	}
}
