package readcontract

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/smartcontractkit/readcontract"
	"github.com/smartcontractkit/readcontract/sdk"
	"github.com/smartcontractkit/readcontract/sdk/evm"
	"github.com/smartcontractkit/readcontract/types"
)

const defaultRetryDelay = 500 * time.Millisecond

func buildCallCmd(opts *rootOptions, dial dialFunc) *cobra.Command {
	var (
		address       string
		functionName  string
		args          []string
		from          string
		block         string
		chainSelector uint64
		rpcURL        string
		envFile       string
		retries       uint
		jsonErrors    bool
	)

	cmd := &cobra.Command{
		Use:   "call",
		Short: "Call a view or pure function and print its decoded result as JSON",
		Long: `Call a view or pure function and print its decoded result as JSON.

The node is taken from --rpc, otherwise from RPC_URL_<selector> when --selector is set or
RPC_URL, looked up in the environment and the .env file.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			set, err := loadABI(opts.abiPath)
			if err != nil {
				return err
			}

			contract, err := parseAddress(address)
			if err != nil {
				return err
			}

			callArgs, err := parseArgs(args)
			if err != nil {
				return err
			}

			blockRef, err := types.ParseBlockReference(block)
			if err != nil {
				return err
			}

			lggr := newLogger(opts.verbose)
			ctx := sdk.WithLogger(cmd.Context(), lggr)

			url, err := loadRPCURL(envFile, rpcURL, types.ChainSelector(chainSelector))
			if err != nil {
				return err
			}
			if chainSelector != 0 {
				if name, nameErr := types.ChainName(types.ChainSelector(chainSelector)); nameErr == nil {
					lggr.Infof("reading from %s (selector %d)", name, chainSelector)
				}
			}

			client, closeClient, err := dial(ctx, url)
			if err != nil {
				return err
			}
			defer closeClient()

			params := readcontract.Params{
				ABI:          set,
				Address:      contract,
				FunctionName: functionName,
				Args:         callArgs,
			}.WithBlock(blockRef)

			if from != "" {
				account, addrErr := parseAddress(from)
				if addrErr != nil {
					return addrErr
				}
				params.Account = &account
			}

			caller := evm.NewClientCaller(client, evm.WithRetry(retries+1, defaultRetryDelay))
			result, err := readcontract.ReadContract(ctx, caller, params)
			if err != nil {
				var execErr *evm.ExecutionError
				if jsonErrors && errors.As(err, &execErr) {
					if printErr := printJSON(cmd.OutOrStdout(), execErr); printErr != nil {
						lggr.Warnf("failed to print the execution error: %v", printErr)
					}
				}

				return err
			}

			return printJSON(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVar(&address, "address", "", "Address of the contract to read")
	cmd.Flags().StringVar(&functionName, "function", "", "Function name or canonical signature, e.g. balanceOf or balanceOf(address)")
	cmd.Flags().StringArrayVar(&args, "arg", nil, "Function argument, repeated in declaration order; arrays and tuples as JSON")
	cmd.Flags().StringVar(&from, "from", "", "Address the call is simulated from")
	cmd.Flags().StringVar(&block, "block", "", "Block number or tag (latest, pending, safe, finalized, earliest)")
	cmd.Flags().Uint64Var(&chainSelector, "selector", 0, "Chain selector used to look up RPC_URL_<selector>")
	cmd.Flags().StringVar(&rpcURL, "rpc", "", "RPC endpoint, overrides the environment")
	cmd.Flags().StringVar(&envFile, "env-file", ".env", "File holding RPC_URL variables")
	cmd.Flags().UintVar(&retries, "retries", 0, "Number of times a failed request is retried")
	cmd.Flags().BoolVar(&jsonErrors, "json-errors", false, "Also print a failed call as JSON, with its raw and decoded revert data")
	_ = cmd.MarkFlagRequired("address")
	_ = cmd.MarkFlagRequired("function")

	return cmd
}
