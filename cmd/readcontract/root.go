package readcontract

import (
	"context"

	"github.com/ethereum/go-ethereum/ethclient"
	"github.com/spf13/cobra"

	"github.com/smartcontractkit/readcontract/sdk/evm"
)

// dialFunc connects to the node at rawURL. The returned func releases the connection.
type dialFunc func(ctx context.Context, rawURL string) (evm.ContractCaller, func(), error)

func dialEthClient(ctx context.Context, rawURL string) (evm.ContractCaller, func(), error) {
	client, err := ethclient.DialContext(ctx, rawURL)
	if err != nil {
		return nil, nil, err
	}

	return client, client.Close, nil
}

// rootOptions are the flags shared by every subcommand.
type rootOptions struct {
	abiPath string
	verbose bool
}

func BuildReadContractCmd() *cobra.Command {
	return buildRootCmd(dialEthClient)
}

func buildRootCmd(dial dialFunc) *cobra.Command {
	var opts rootOptions

	cmd := cobra.Command{
		Use:          "readcontract",
		Short:        "Read contract functions described by an ABI",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().StringVar(&opts.abiPath, "abi", "", "Path to the contract ABI, either a JSON array or a build artifact with an \"abi\" field")
	cmd.PersistentFlags().BoolVar(&opts.verbose, "verbose", false, "Log the resolved call and the raw responses")
	_ = cmd.MarkPersistentFlagRequired("abi")

	cmd.AddCommand(buildCallCmd(&opts, dial))
	cmd.AddCommand(buildEncodeCmd(&opts))
	cmd.AddCommand(buildDecodeCmd(&opts))

	return &cmd
}
