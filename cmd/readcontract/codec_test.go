package readcontract

import (
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common/hexutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	abiutils "github.com/smartcontractkit/readcontract/internal/utils/abi"
)

func TestEncodeCmd(t *testing.T) {
	t.Parallel()

	abiPath := writeFile(t, "token.json", tokenABI)
	getByID, err := abiutils.EncodeWithSelector("get(uint256)", `[{"type":"uint256"}]`, big.NewInt(7))
	require.NoError(t, err)
	getByKey, err := abiutils.EncodeWithSelector("get(string)", `[{"type":"string"}]`, "7")
	require.NoError(t, err)

	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr string
	}{
		{
			name: "balanceOf",
			args: []string{"--function", "balanceOf", "--arg", holderHex},
			want: "0x70a082310000000000000000000000005b38da6a701c568545dcfcb03fcb875f56beddc4",
		},
		{
			name: "overload by signature",
			args: []string{"--function", "get(uint256)", "--arg", "7"},
			want: hexutil.Encode(getByID),
		},
		{
			name: "string argument prefers the string overload",
			args: []string{"--function", "get", "--arg", "7"},
			want: hexutil.Encode(getByKey),
		},
		{
			name:    "unknown function",
			args:    []string{"--function", "symbol"},
			wantErr: "function \"symbol\" not found in ABI",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(BuildReadContractCmd(), append([]string{"encode", "--abi", abiPath}, tt.args...)...)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, strings.TrimSpace(out))
		})
	}
}

func TestDecodeCmd(t *testing.T) {
	t.Parallel()

	abiPath := writeFile(t, "token.json", tokenABI)
	errorString, err := abiutils.EncodeRevertString("insufficient balance")
	require.NoError(t, err)

	tests := []struct {
		name     string
		args     []string
		want     string
		wantJSON bool
		wantErr  string
	}{
		{
			name:     "function outputs",
			args:     []string{"--function", "reserves", "--data", hexutil.Encode(encodeReserves(t))},
			want:     `{"reserve0": "1000", "reserve1": "2000", "symbol": "WETH"}`,
			wantJSON: true,
		},
		{
			name:    "overloaded name",
			args:    []string{"--function", "get", "--data", "0x"},
			wantErr: "get(uint256), get(string)",
		},
		{
			name:    "short data",
			args:    []string{"--function", "balanceOf(address)", "--data", "0x0000"},
			wantErr: "abi decoding error",
		},
		{
			name: "revert",
			args: []string{"--revert", "--data", hexutil.Encode(errorString)},
			want: "insufficient balance",
		},
		{
			name: "unrecognized revert",
			args: []string{"--revert", "--data", "0xdeadbeef"},
			want: "execution reverted (unrecognized revert data 0xdeadbeef)",
		},
		{
			name:    "function required",
			args:    []string{"--data", "0x"},
			wantErr: "--function is required unless --revert is set",
		},
		{
			name:    "invalid data",
			args:    []string{"--function", "reserves", "--data", "zz"},
			wantErr: "invalid --data",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			out, err := execute(BuildReadContractCmd(), append([]string{"decode", "--abi", abiPath}, tt.args...)...)
			if tt.wantErr != "" {
				require.ErrorContains(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			if tt.wantJSON {
				assert.JSONEq(t, tt.want, out)
			} else {
				assert.Equal(t, tt.want, strings.TrimSpace(out))
			}
		})
	}
}
