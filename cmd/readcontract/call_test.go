package readcontract

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"math/big"
	"os"
	"path/filepath"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smartcontractkit/readcontract/internal/testutils/chaintest"
	"github.com/smartcontractkit/readcontract/internal/testutils/evmsim"
	abiutils "github.com/smartcontractkit/readcontract/internal/utils/abi"
	"github.com/smartcontractkit/readcontract/sdk/evm"
)

const tokenABI = `[
	{"type":"function","name":"balanceOf","stateMutability":"view",
	 "inputs":[{"name":"owner","type":"address"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"reserves","stateMutability":"view","inputs":[],
	 "outputs":[{"name":"reserve0","type":"uint112"},{"name":"reserve1","type":"uint112"},{"name":"symbol","type":"string"}]},
	{"type":"function","name":"get","stateMutability":"view","inputs":[{"name":"id","type":"uint256"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"function","name":"get","stateMutability":"view","inputs":[{"name":"key","type":"string"}],"outputs":[{"name":"","type":"uint256"}]},
	{"type":"error","name":"InsufficientBalance","inputs":[{"name":"available","type":"uint256"},{"name":"required","type":"uint256"}]}
]`

const holderHex = "0x5B38Da6a701c568545dCfcB03FcB875f56beddC4"

var (
	balanceAddr  = common.HexToAddress("0x3000000000000000000000000000000000000001")
	reservesAddr = common.HexToAddress("0x3000000000000000000000000000000000000002")
	revertAddr   = common.HexToAddress("0x3000000000000000000000000000000000000003")
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func execute(cmd *cobra.Command, args ...string) (string, error) {
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(context.Background())

	return out.String(), err
}

func encodeReserves(t *testing.T) []byte {
	t.Helper()

	data, err := abiutils.Encode(`[{"type":"uint112"},{"type":"uint112"},{"type":"string"}]`,
		big.NewInt(1000), big.NewInt(2000), "WETH")
	require.NoError(t, err)

	return data
}

// newSimulatedCmd returns the root command wired to a simulated chain, along with the URLs
// it was asked to dial.
func newSimulatedCmd(t *testing.T) (*cobra.Command, *[]string) {
	t.Helper()

	revertData, err := abiutils.EncodeRevertString("insufficient balance")
	require.NoError(t, err)

	sim := evmsim.NewSimulatedChain(t, 0, map[common.Address][]byte{
		balanceAddr:  evmsim.ReturnWordCode(big.NewInt(424122)),
		reservesAddr: evmsim.ReturnDataCode(encodeReserves(t)),
		revertAddr:   evmsim.RevertCode(revertData),
	})

	var dialed []string
	dial := func(_ context.Context, rawURL string) (evm.ContractCaller, func(), error) {
		dialed = append(dialed, rawURL)
		return sim.Backend.Client(), func() {}, nil
	}

	return buildRootCmd(dial), &dialed
}

func TestCallCmd(t *testing.T) {
	t.Parallel()

	abiPath := writeFile(t, "token.json", tokenABI)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "single output",
			args: []string{"--address", balanceAddr.Hex(), "--function", "balanceOf", "--arg", holderHex},
			want: `"424122"`,
		},
		{
			name: "by signature at a block",
			args: []string{"--address", balanceAddr.Hex(), "--function", "balanceOf(address)", "--arg", holderHex, "--block", "0", "--from", holderHex},
			want: `"424122"`,
		},
		{
			name: "several outputs",
			args: []string{"--address", reservesAddr.Hex(), "--function", "reserves"},
			want: `{"reserve0": "1000", "reserve1": "2000", "symbol": "WETH"}`,
		},
		{
			name:    "revert",
			args:    []string{"--address", revertAddr.Hex(), "--function", "balanceOf", "--arg", holderHex},
			wantErr: "(revert reason: insufficient balance)",
		},
		{
			name:    "invalid block",
			args:    []string{"--address", balanceAddr.Hex(), "--function", "balanceOf", "--arg", holderHex, "--block", "newest"},
			wantErr: `"newest" is neither a block number nor a block tag`,
		},
		{
			name:    "invalid address",
			args:    []string{"--address", "0x1234", "--function", "balanceOf", "--arg", holderHex},
			wantErr: `invalid address "0x1234"`,
		},
		{
			name:    "missing function",
			args:    []string{"--address", balanceAddr.Hex()},
			wantErr: `required flag(s) "function" not set`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, dialed := newSimulatedCmd(t)
			args := append([]string{"call", "--abi", abiPath, "--rpc", "sim://local"}, tt.args...)

			out, err := execute(cmd, args...)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.JSONEq(t, tt.want, out)
			assert.Equal(t, []string{"sim://local"}, *dialed)
		})
	}
}

func TestCallCmd_JSONErrors(t *testing.T) {
	t.Parallel()

	abiPath := writeFile(t, "token.json", tokenABI)
	revertData, err := abiutils.EncodeRevertString("insufficient balance")
	require.NoError(t, err)

	tests := []struct {
		name     string
		flags    []string
		wantJSON bool
	}{
		{name: "printed with the flag", flags: []string{"--json-errors"}, wantJSON: true},
		{name: "error only without the flag"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cmd, _ := newSimulatedCmd(t)
			args := append([]string{"call", "--abi", abiPath, "--rpc", "sim://local",
				"--address", revertAddr.Hex(), "--function", "balanceOf", "--arg", holderHex}, tt.flags...)

			out, err := execute(cmd, args...)
			require.ErrorContains(t, err, "(revert reason: insufficient balance)")

			if !tt.wantJSON {
				assert.Empty(t, out)
				return
			}

			var printed map[string]any
			require.NoError(t, json.Unmarshal([]byte(out), &printed))
			assert.Equal(t, "balanceOf(address)", printed["Signature"])
			assert.Equal(t, "insufficient balance", printed["DecodedRevertReason"])
			assert.Equal(t, hexutil.Encode(revertData), printed["RevertData"])
			assert.Equal(t, map[string]any{"selector": "0x08c379a0", "data": hexutil.Encode(revertData[4:])}, printed["RawRevertReason"])
			assert.Equal(t, []any{holderHex}, printed["Args"])
		})
	}
}

func TestCallCmd_RPCFromEnvFile(t *testing.T) {
	key := fmt.Sprintf("RPC_URL_%d", chaintest.Chain1Selector)
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))

	abiPath := writeFile(t, "token.json", tokenABI)
	envPath := writeFile(t, ".env", key+"=sim://chain1\n")

	cmd, dialed := newSimulatedCmd(t)
	out, err := execute(cmd, "call", "--abi", abiPath, "--env-file", envPath,
		"--selector", fmt.Sprint(chaintest.Chain1RawSelector),
		"--address", balanceAddr.Hex(), "--function", "balanceOf", "--arg", holderHex)

	require.NoError(t, err)
	assert.JSONEq(t, `"424122"`, out)
	assert.Equal(t, []string{"sim://chain1"}, *dialed)
}
